package docx

import (
	"encoding/xml"
	"math"
	"strconv"
	"strings"

	"github.com/goliatone/go-docfmt/pkg/dsl"
	"github.com/goliatone/go-docfmt/pkg/render"
	"github.com/goliatone/go-docfmt/pkg/style"
)

const (
	nsW = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsR = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
)

type xmlDocument struct {
	XMLName xml.Name `xml:"w:document"`
	XmlnsW  string   `xml:"xmlns:w,attr"`
	XmlnsR  string   `xml:"xmlns:r,attr"`
	Body    xmlBody  `xml:"w:body"`
}

type xmlBody struct {
	Paragraphs []xmlParagraph `xml:"w:p"`
	SectPr     xmlSectPr      `xml:"w:sectPr"`
}

type xmlParagraph struct {
	PPr  *xmlPPr  `xml:"w:pPr,omitempty"`
	Runs []xmlRun `xml:"w:r"`
}

// pPr children follow the CT_PPr sequence: pStyle, keepNext, spacing, jc.
type xmlPPr struct {
	PStyle   *xmlVal     `xml:"w:pStyle,omitempty"`
	KeepNext *xmlEmpty   `xml:"w:keepNext,omitempty"`
	Spacing  *xmlSpacing `xml:"w:spacing,omitempty"`
	Jc       *xmlVal     `xml:"w:jc,omitempty"`
}

type xmlVal struct {
	Val string `xml:"w:val,attr"`
}

type xmlEmpty struct{}

type xmlSpacing struct {
	Before   string `xml:"w:before,attr,omitempty"`
	After    string `xml:"w:after,attr,omitempty"`
	Line     string `xml:"w:line,attr,omitempty"`
	LineRule string `xml:"w:lineRule,attr,omitempty"`
}

// rPr children follow the CT_RPr sequence.
type xmlRPr struct {
	Fonts    *xmlFonts `xml:"w:rFonts,omitempty"`
	Bold     *xmlVal   `xml:"w:b,omitempty"`
	BoldCS   *xmlVal   `xml:"w:bCs,omitempty"`
	Italic   *xmlVal   `xml:"w:i,omitempty"`
	ItalicCS *xmlVal   `xml:"w:iCs,omitempty"`
	Color    *xmlVal   `xml:"w:color,omitempty"`
	Size     *xmlVal   `xml:"w:sz,omitempty"`
	SizeCS   *xmlVal   `xml:"w:szCs,omitempty"`
}

type xmlFonts struct {
	ASCII    string `xml:"w:ascii,attr"`
	HAnsi    string `xml:"w:hAnsi,attr"`
	EastAsia string `xml:"w:eastAsia,attr"`
	CS       string `xml:"w:cs,attr"`
}

type xmlText struct {
	Space string `xml:"xml:space,attr"`
	Value string `xml:",chardata"`
}

// xmlRun writes one w:r whose lines are separated by w:br.
type xmlRun struct {
	RPr   *xmlRPr
	Lines []string
}

func (r xmlRun) MarshalXML(e *xml.Encoder, _ xml.StartElement) error {
	start := xml.StartElement{Name: xml.Name{Local: "w:r"}}
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	if r.RPr != nil {
		if err := e.EncodeElement(r.RPr, xml.StartElement{Name: xml.Name{Local: "w:rPr"}}); err != nil {
			return err
		}
	}
	for i, line := range r.Lines {
		if i > 0 {
			if err := e.EncodeElement(xmlEmpty{}, xml.StartElement{Name: xml.Name{Local: "w:br"}}); err != nil {
				return err
			}
		}
		text := xmlText{Space: "preserve", Value: line}
		if err := e.EncodeElement(text, xml.StartElement{Name: xml.Name{Local: "w:t"}}); err != nil {
			return err
		}
	}
	return e.EncodeToken(start.End())
}

// paragraphStyleIDs maps block types to the built-in styles in styles.xml.
var paragraphStyleIDs = map[dsl.ContentType]string{
	dsl.Heading1: "Heading1",
	dsl.Heading2: "Heading2",
	dsl.Heading3: "Heading3",
	dsl.Caption:  "Caption",
}

func textParagraph(t dsl.ContentType, s style.FontStyle, text string) xmlParagraph {
	ppr := paragraphProps(s)
	if id, ok := paragraphStyleIDs[t]; ok {
		ppr.PStyle = &xmlVal{Val: id}
	}
	if t == dsl.Heading1 || t == dsl.Heading2 || t == dsl.Heading3 {
		ppr.KeepNext = &xmlEmpty{}
	}
	return xmlParagraph{
		PPr:  ppr,
		Runs: []xmlRun{{RPr: runProps(s, render.ColorOf(s)), Lines: splitLines(text)}},
	}
}

func placeholderParagraph(s style.FontStyle, label string) xmlParagraph {
	ppr := paragraphProps(s)
	ppr.Jc = &xmlVal{Val: justification(style.AlignCenter)}
	return xmlParagraph{
		PPr:  ppr,
		Runs: []xmlRun{{RPr: runProps(s, render.WarningColor), Lines: []string{label}}},
	}
}

func paragraphProps(s style.FontStyle) *xmlPPr {
	ppr := &xmlPPr{}
	if s.Align != nil {
		ppr.Jc = &xmlVal{Val: justification(*s.Align)}
	}
	spacing := xmlSpacing{}
	if s.SpaceBefore != nil {
		spacing.Before = twips(*s.SpaceBefore)
	}
	if s.SpaceAfter != nil {
		spacing.After = twips(*s.SpaceAfter)
	}
	if s.LineSpacing != nil {
		spacing.Line = strconv.Itoa(int(math.Round(*s.LineSpacing * 240)))
		spacing.LineRule = "auto"
	}
	if spacing != (xmlSpacing{}) {
		ppr.Spacing = &spacing
	}
	return ppr
}

func runProps(s style.FontStyle, color render.RGB) *xmlRPr {
	rpr := &xmlRPr{Color: &xmlVal{Val: color.Hex()}}
	if s.Family != nil && *s.Family != "" {
		rpr.Fonts = &xmlFonts{ASCII: *s.Family, HAnsi: *s.Family, EastAsia: *s.Family, CS: *s.Family}
	}
	if s.Bold != nil {
		rpr.Bold = onOff(*s.Bold)
		rpr.BoldCS = onOff(*s.Bold)
	}
	if s.Italic != nil {
		rpr.Italic = onOff(*s.Italic)
		rpr.ItalicCS = onOff(*s.Italic)
	}
	if s.Size != nil {
		half := strconv.Itoa(int(math.Round(*s.Size * 2)))
		rpr.Size = &xmlVal{Val: half}
		rpr.SizeCS = &xmlVal{Val: half}
	}
	return rpr
}

func justification(a style.Alignment) string {
	switch a {
	case style.AlignCenter:
		return "center"
	case style.AlignRight:
		return "right"
	case style.AlignJustify:
		return "both"
	default:
		return "left"
	}
}

func onOff(v bool) *xmlVal {
	if v {
		return &xmlVal{Val: "1"}
	}
	return &xmlVal{Val: "0"}
}

// twips converts points to twentieths of a point.
func twips(points float64) string {
	return strconv.Itoa(int(math.Round(points * 20)))
}

func splitLines(text string) []string {
	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Split(normalized, "\n")
}
