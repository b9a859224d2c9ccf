// Package source turns uploaded drafts and rule documents into plain text.
// Word documents keep their paragraph breaks, and heading paragraphs are
// marked with '#' so downstream segmentation can recognise them. PDF files
// yield their text layer.
package source

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

// ErrUnsupported is returned for formats that cannot be read as text.
var ErrUnsupported = errors.New("source: unsupported document format")

// ErrEmpty is returned when a document holds no text.
var ErrEmpty = errors.New("source: document is empty")

// ErrMalformed is returned when a document claims a format it cannot be
// decoded as.
var ErrMalformed = errors.New("source: malformed document")

// Format identifies how a document is decoded.
type Format string

const (
	FormatText Format = "text"
	FormatDocx Format = "docx"
	FormatPDF  Format = "pdf"
)

var (
	zipMagic = []byte("PK\x03\x04")
	pdfMagic = []byte("%PDF-")
)

// Detect picks a format from the filename extension, falling back to the
// content for unnamed uploads.
func Detect(name string, data []byte) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".docx":
		return FormatDocx, nil
	case ".txt", ".md", ".markdown", ".text":
		return FormatText, nil
	case ".pdf":
		return FormatPDF, nil
	case ".doc":
		return "", fmt.Errorf("%w: %s", ErrUnsupported, filepath.Ext(name))
	}
	if bytes.HasPrefix(data, zipMagic) {
		return FormatDocx, nil
	}
	if bytes.HasPrefix(data, pdfMagic) {
		return FormatPDF, nil
	}
	return FormatText, nil
}

// Read decodes data according to its detected format.
func Read(name string, data []byte) (string, error) {
	format, err := Detect(name, data)
	if err != nil {
		return "", err
	}
	var text string
	switch format {
	case FormatDocx:
		text, err = DocxText(data)
		if err != nil {
			return "", err
		}
	case FormatPDF:
		text, err = PDFText(data)
		if err != nil {
			return "", err
		}
	default:
		text = Text(data)
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrEmpty
	}
	return text, nil
}

// Text decodes UTF-8 text, dropping a byte order mark and invalid bytes and
// normalising line endings.
func Text(data []byte) string {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	s := string(data)
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "")
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// DocxText extracts the body text of a Word document, one paragraph per
// blank-line separated block.
func DocxText(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("source: open docx: %w", err)
	}
	var body *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			body = f
			break
		}
	}
	if body == nil {
		return "", fmt.Errorf("source: open docx: word/document.xml not found")
	}
	rc, err := body.Open()
	if err != nil {
		return "", fmt.Errorf("source: open docx body: %w", err)
	}
	defer rc.Close()

	paragraphs, err := docxParagraphs(rc)
	if err != nil {
		return "", fmt.Errorf("source: parse docx body: %w", err)
	}
	return strings.Join(paragraphs, "\n\n"), nil
}

// PDFText extracts the text layer of a PDF. Scanned documents without one
// come back empty.
func PDFText(data []byte) (text string, err error) {
	if !bytes.HasPrefix(data, pdfMagic) {
		return "", fmt.Errorf("%w: missing %%PDF header", ErrMalformed)
	}
	// The reader panics on some corrupt cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("%w: pdf: %v", ErrMalformed, r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: pdf reader: %v", ErrMalformed, err)
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("%w: pdf plain text: %v", ErrMalformed, err)
	}
	raw, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("source: read pdf text: %w", err)
	}
	return strings.TrimSpace(Text(raw)), nil
}

func docxParagraphs(r io.Reader) ([]string, error) {
	var (
		out     []string
		current strings.Builder
		level   int
		inPara  bool
		inText  bool
	)
	dec := xml.NewDecoder(r)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				inPara = true
				level = 0
				current.Reset()
			case "pStyle":
				level = headingLevel(attr(t, "val"))
			case "t":
				inText = true
			case "tab":
				current.WriteByte('\t')
			case "br", "cr":
				current.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				if !inPara {
					continue
				}
				inPara = false
				text := strings.TrimSpace(current.String())
				if text == "" {
					continue
				}
				if level > 0 {
					text = strings.Repeat("#", level) + " " + text
				}
				out = append(out, text)
			}
		case xml.CharData:
			if inText && inPara {
				current.Write(t)
			}
		}
	}
	return out, nil
}

func attr(el xml.StartElement, local string) string {
	for _, a := range el.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

// headingLevel maps Heading1..Heading3 style ids (and "heading 1" names) to
// a level; deeper headings count as level 3.
func headingLevel(styleID string) int {
	s := strings.ToLower(strings.ReplaceAll(styleID, " ", ""))
	if !strings.HasPrefix(s, "heading") {
		return 0
	}
	n := strings.TrimPrefix(s, "heading")
	if len(n) != 1 || n[0] < '1' || n[0] > '9' {
		return 0
	}
	level := int(n[0] - '0')
	if level > 3 {
		level = 3
	}
	return level
}
