package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"strings"
	"unicode"
)

// OfficeDecoder extracts the visible text of Office Open XML members
// (.docx and .xlsx). Formatting and structure are dropped.
type OfficeDecoder struct{}

// Decode implements Decoder.
func (OfficeDecoder) Decode(name string, data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("opening %s as zip: %w", path.Ext(name), err)
	}

	var parts []string
	for _, f := range zr.File {
		if !officeTextPart(name, f.Name) {
			continue
		}
		text, err := partText(f)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", f.Name, err)
		}
		if text != "" {
			parts = append(parts, text)
		}
	}

	if len(parts) == 0 {
		return "", ErrNoText
	}
	return strings.Join(parts, "\n"), nil
}

// officeTextPart reports whether part holds document text for the member name.
func officeTextPart(name, part string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".docx":
		return part == "word/document.xml"
	case ".xlsx":
		return part == "xl/sharedStrings.xml" ||
			(strings.HasPrefix(part, "xl/worksheets/sheet") && strings.HasSuffix(part, ".xml"))
	}
	return false
}

func partText(f *zip.File) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return "", err
	}
	return xmlText(data), nil
}

// xmlText joins the non-blank character data of an XML document with single
// spaces. Parsing stops quietly at the first malformed token.
func xmlText(data []byte) string {
	var b strings.Builder
	dec := xml.NewDecoder(bytes.NewReader(data))

	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		cd, ok := tok.(xml.CharData)
		if !ok {
			continue
		}
		s := squeezeSpace(string(cd))
		if s == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(s)
	}

	return b.String()
}

// squeezeSpace collapses whitespace runs to one space and drops unprintable runes.
func squeezeSpace(s string) string {
	var b strings.Builder
	space := false

	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			if !space {
				b.WriteByte(' ')
				space = true
			}
		case unicode.IsPrint(r):
			b.WriteRune(r)
			space = false
		}
	}

	return strings.TrimSpace(b.String())
}
