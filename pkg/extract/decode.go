package extract

import (
	"bytes"
	"fmt"
	"path"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
)

// Decoder turns the raw bytes of an archive member into text.
type Decoder interface {
	Decode(name string, data []byte) (string, error)
}

// TextDecoder decodes members with a fixed character encoding.
// UTF-8 is validated strictly; invalid input is an error, never replaced.
type TextDecoder struct {
	name string
	enc  encoding.Encoding // nil for strict UTF-8
}

// NewTextDecoder returns a decoder for the IANA-registered encoding name.
func NewTextDecoder(name string) (*TextDecoder, error) {
	if isUTF8(name) {
		return &TextDecoder{name: DefaultEncoding}, nil
	}

	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", name, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("unsupported encoding %q", name)
	}

	canonical, err := ianaindex.MIME.Name(enc)
	if err != nil {
		canonical = name
	}
	return &TextDecoder{name: strings.ToLower(canonical), enc: enc}, nil
}

// Name returns the encoding name.
func (d *TextDecoder) Name() string {
	return d.name
}

// Decode implements Decoder.
func (d *TextDecoder) Decode(_ string, data []byte) (string, error) {
	if d.enc == nil {
		if !utf8.Valid(data) {
			off := firstInvalidUTF8(data)
			return "", &DecodeError{Encoding: d.name, Offset: off, Byte: data[off]}
		}
		return string(data), nil
	}

	out, err := d.enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("decoding %s: %w", d.name, err)
	}
	return string(out), nil
}

func isUTF8(name string) bool {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.NewReplacer("-", "", "_", "").Replace(n)
	return n == "" || n == "utf8"
}

// PDFDecoder extracts the plain text of every page of a PDF member.
type PDFDecoder struct{}

// Decode implements Decoder.
func (PDFDecoder) Decode(_ string, data []byte) (text string, err error) {
	// The PDF parser panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("parsing pdf: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("opening pdf: %w", err)
	}

	var b strings.Builder
	for pageNum := 1; pageNum <= r.NumPage(); pageNum++ {
		page := r.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			// Keep what the other pages yield.
			continue
		}

		b.WriteString(pageText)
		b.WriteString("\n")
	}

	if strings.TrimSpace(b.String()) == "" {
		return "", ErrNoText
	}
	return b.String(), nil
}

// decoderSet picks a decoder by member name. Document formats are chosen by
// extension (case-insensitive); everything else is decoded as text.
type decoderSet struct {
	text   Decoder
	pdf    Decoder
	office Decoder
}

func (s decoderSet) forName(name string) Decoder {
	switch strings.ToLower(path.Ext(name)) {
	case ".pdf":
		return s.pdf
	case ".docx", ".xlsx":
		return s.office
	}
	return s.text
}
