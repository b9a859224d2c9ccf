package docx

import (
	"encoding/xml"
	"strconv"

	"github.com/goliatone/go-docfmt/pkg/render"
	"github.com/goliatone/go-docfmt/pkg/style"
)

type xmlStyles struct {
	XMLName  xml.Name       `xml:"w:styles"`
	XmlnsW   string         `xml:"xmlns:w,attr"`
	Defaults xmlDocDefaults `xml:"w:docDefaults"`
	Styles   []xmlStyle     `xml:"w:style"`
}

type xmlDocDefaults struct {
	RPr struct {
		RPr *xmlRPr `xml:"w:rPr"`
	} `xml:"w:rPrDefault"`
	PPr struct {
		PPr *xmlPPr `xml:"w:pPr"`
	} `xml:"w:pPrDefault"`
}

type xmlStyle struct {
	Type    string       `xml:"w:type,attr"`
	Default string       `xml:"w:default,attr,omitempty"`
	StyleID string       `xml:"w:styleId,attr"`
	Name    xmlVal       `xml:"w:name"`
	BasedOn *xmlVal      `xml:"w:basedOn,omitempty"`
	Next    *xmlVal      `xml:"w:next,omitempty"`
	QFormat *xmlEmpty    `xml:"w:qFormat,omitempty"`
	PPr     *xmlStylePPr `xml:"w:pPr,omitempty"`
}

type xmlStylePPr struct {
	KeepNext   *xmlEmpty `xml:"w:keepNext,omitempty"`
	OutlineLvl *xmlVal   `xml:"w:outlineLvl,omitempty"`
}

// buildStyles seeds document defaults from global_default so any property a
// block style leaves unset inherits the global value inside Word too.
func buildStyles(catalog style.Catalog) xmlStyles {
	global := catalog.GlobalDefault
	out := xmlStyles{XmlnsW: nsW}
	out.Defaults.RPr.RPr = runProps(global, render.ColorOf(global))
	out.Defaults.PPr.PPr = paragraphProps(global)

	out.Styles = append(out.Styles, xmlStyle{
		Type:    "paragraph",
		Default: "1",
		StyleID: "Normal",
		Name:    xmlVal{Val: "Normal"},
		QFormat: &xmlEmpty{},
	})
	for level, id := range []string{"Heading1", "Heading2", "Heading3"} {
		s := paragraphStyle(id, "heading "+strconv.Itoa(level+1))
		s.PPr = &xmlStylePPr{KeepNext: &xmlEmpty{}, OutlineLvl: &xmlVal{Val: strconv.Itoa(level)}}
		out.Styles = append(out.Styles, s)
	}
	out.Styles = append(out.Styles, paragraphStyle("Caption", "caption"))
	return out
}

func paragraphStyle(id, name string) xmlStyle {
	return xmlStyle{
		Type:    "paragraph",
		StyleID: id,
		Name:    xmlVal{Val: name},
		BasedOn: &xmlVal{Val: "Normal"},
		Next:    &xmlVal{Val: "Normal"},
		QFormat: &xmlEmpty{},
	}
}
