package testsupport

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"strings"
	"testing"
)

// DocxParagraph is a flattened view of one w:p for assertions.
type DocxParagraph struct {
	StyleID string
	Align   string
	Before  string
	After   string
	Line    string
	Runs    []DocxRun
}

// DocxRun is a flattened view of one w:r. Bold and Italic hold the raw
// w:val ("1", "0") or "" when absent.
type DocxRun struct {
	Fonts  map[string]string
	Bold   string
	Italic string
	Color  string
	Size   string
	Text   string
}

// Text concatenates the paragraph's run text.
func (p DocxParagraph) Text() string {
	var b strings.Builder
	for _, r := range p.Runs {
		b.WriteString(r.Text)
	}
	return b.String()
}

// DocxPackage exposes the parts of a rendered package.
type DocxPackage struct {
	Parts      map[string][]byte
	Paragraphs []DocxParagraph
}

// ReadDocx unzips data and parses word/document.xml.
func ReadDocx(t *testing.T, data []byte) DocxPackage {
	t.Helper()

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("open docx: %v", err)
	}
	pkg := DocxPackage{Parts: make(map[string][]byte, len(zr.File))}
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open part %s: %v", f.Name, err)
		}
		body, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			t.Fatalf("read part %s: %v", f.Name, err)
		}
		pkg.Parts[f.Name] = body
	}

	main, ok := pkg.Parts["word/document.xml"]
	if !ok {
		t.Fatalf("docx has no word/document.xml")
	}
	var doc struct {
		Body struct {
			Paragraphs []rawParagraph `xml:"p"`
		} `xml:"body"`
	}
	if err := xml.Unmarshal(main, &doc); err != nil {
		t.Fatalf("parse document.xml: %v", err)
	}
	for _, p := range doc.Body.Paragraphs {
		pkg.Paragraphs = append(pkg.Paragraphs, p.flatten())
	}
	return pkg
}

type rawVal struct {
	Val string `xml:"val,attr"`
}

type rawParagraph struct {
	PPr struct {
		Style   rawVal `xml:"pStyle"`
		Jc      rawVal `xml:"jc"`
		Spacing struct {
			Before string `xml:"before,attr"`
			After  string `xml:"after,attr"`
			Line   string `xml:"line,attr"`
		} `xml:"spacing"`
	} `xml:"pPr"`
	Runs []struct {
		RPr struct {
			Fonts struct {
				Attrs []xml.Attr `xml:",any,attr"`
			} `xml:"rFonts"`
			B     *rawVal `xml:"b"`
			I     *rawVal `xml:"i"`
			Color rawVal  `xml:"color"`
			Size  rawVal  `xml:"sz"`
		} `xml:"rPr"`
		Items []struct {
			XMLName xml.Name
			Value   string `xml:",chardata"`
		} `xml:",any"`
	} `xml:"r"`
}

func (p rawParagraph) flatten() DocxParagraph {
	out := DocxParagraph{
		StyleID: p.PPr.Style.Val,
		Align:   p.PPr.Jc.Val,
		Before:  p.PPr.Spacing.Before,
		After:   p.PPr.Spacing.After,
		Line:    p.PPr.Spacing.Line,
	}
	for _, r := range p.Runs {
		run := DocxRun{
			Fonts: make(map[string]string),
			Color: r.RPr.Color.Val,
			Size:  r.RPr.Size.Val,
		}
		for _, attr := range r.RPr.Fonts.Attrs {
			run.Fonts[attr.Name.Local] = attr.Value
		}
		if r.RPr.B != nil {
			run.Bold = r.RPr.B.Val
		}
		if r.RPr.I != nil {
			run.Italic = r.RPr.I.Val
		}
		var text strings.Builder
		for _, item := range r.Items {
			switch item.XMLName.Local {
			case "t":
				text.WriteString(item.Value)
			case "br":
				text.WriteString("\n")
			}
		}
		run.Text = text.String()
		out.Runs = append(out.Runs, run)
	}
	return out
}
