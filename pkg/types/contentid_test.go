package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeContentID(t *testing.T) {
	tests := []struct {
		name     string
		content  []byte
		expected string
	}{
		{
			name:    "empty content",
			content: []byte(""),
			// echo -n "" | git hash-object --stdin
			expected: "e69de29bb2d1d6434b8b29ae775ad8c2e48c5391",
		},
		{
			name:     "hello world",
			content:  []byte("hello world"),
			expected: "95d09f2b10159347eece71399a7e2e907ea3df4f",
		},
		{
			name:    "trailing newline",
			content: []byte("test content\n"),
			// echo "test content" | git hash-object --stdin
			expected: "d670460b4b4aece5915caf5c68d12f560a9fe3e4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := ComputeContentID(tt.content)
			assert.Equal(t, tt.expected, id.Hex())
			assert.Equal(t, tt.expected, id.String())
			assert.False(t, id.IsZero())
		})
	}
}

func TestContentID_Zero(t *testing.T) {
	var id ContentID

	assert.True(t, id.IsZero())
	assert.Equal(t, "", id.Hex())

	v, err := id.Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestParseContentID(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		expectErr bool
	}{
		{"valid hex", "95d09f2b10159347eece71399a7e2e907ea3df4f", false},
		{"empty is zero", "", false},
		{"too short", "95d09f2b10159347eece71399a7e2e907ea3df4", true},
		{"too long", "95d09f2b10159347eece71399a7e2e907ea3df4f0", true},
		{"not hex", "zzd09f2b10159347eece71399a7e2e907ea3df4f", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := ParseContentID(tt.input)
			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.input, id.Hex())
		})
	}
}

func TestContentID_Scan(t *testing.T) {
	want := ComputeContentID([]byte("hello world"))

	var fromString ContentID
	require.NoError(t, fromString.Scan(want.Hex()))
	assert.Equal(t, want, fromString)

	var fromBytes ContentID
	require.NoError(t, fromBytes.Scan([]byte(want.Hex())))
	assert.Equal(t, want, fromBytes)

	fromNil := want
	require.NoError(t, fromNil.Scan(nil))
	assert.True(t, fromNil.IsZero())

	var bad ContentID
	assert.Error(t, bad.Scan(42))
}

func TestContentID_JSON(t *testing.T) {
	r := EntryResult{
		Name:      "docs/readme.md",
		Status:    StatusExtracted,
		ContentID: ComputeContentID([]byte("hello world")),
	}

	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"content_id":"95d09f2b10159347eece71399a7e2e907ea3df4f"`)

	var decoded EntryResult
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, r.ContentID, decoded.ContentID)

	// Unread entries carry no content ID.
	data, err = json.Marshal(EntryResult{Name: "img.png", Status: StatusSkippedExtension})
	require.NoError(t, err)
	assert.NotContains(t, string(data), "content_id")
}
