package main

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunVersion(t *testing.T) {
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)

	err := runVersion(cmd, []string{})
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "ziptext ")
	assert.Contains(t, output, "Commit:")
	assert.Contains(t, output, "Go version:")
	assert.Contains(t, output, "OS/Arch:")
}

func TestReadBuildInfo(t *testing.T) {
	oldVersion, oldCommit := version, commit
	t.Cleanup(func() { version, commit = oldVersion, oldCommit })

	version, commit = "1.2.3", "abc123"
	bi := readBuildInfo()

	// Link-time values win over embedded metadata.
	assert.Equal(t, "1.2.3", bi.Version)
	assert.Equal(t, "abc123", bi.Commit)
	assert.NotEmpty(t, bi.Go)

	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)
	require.NoError(t, runVersion(cmd, nil))
	assert.Contains(t, buf.String(), "ziptext 1.2.3\n")
	assert.Contains(t, buf.String(), "Commit: abc123")
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["extract"])
	assert.True(t, names["report"])
	assert.True(t, names["version"])
}
