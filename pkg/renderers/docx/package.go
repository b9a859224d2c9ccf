package docx

import (
	"encoding/xml"
	"time"

	"github.com/goliatone/go-docfmt/pkg/dsl"
)

const contentTypesXML = xml.Header + `<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
	`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
	`<Default Extension="xml" ContentType="application/xml"/>` +
	`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
	`<Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>` +
	`<Override PartName="/docProps/core.xml" ContentType="application/vnd.openxmlformats-package.core-properties+xml"/>` +
	`<Override PartName="/docProps/app.xml" ContentType="application/vnd.openxmlformats-officedocument.extended-properties+xml"/>` +
	`</Types>`

const packageRelsXML = xml.Header + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>` +
	`<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties" Target="docProps/core.xml"/>` +
	`<Relationship Id="rId3" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/extended-properties" Target="docProps/app.xml"/>` +
	`</Relationships>`

const documentRelsXML = xml.Header + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>` +
	`</Relationships>`

const appXML = xml.Header + `<Properties xmlns="http://schemas.openxmlformats.org/officeDocument/2006/extended-properties">` +
	`<Application>docfmt</Application>` +
	`</Properties>`

type xmlCoreProperties struct {
	XMLName    xml.Name `xml:"cp:coreProperties"`
	XmlnsCP    string   `xml:"xmlns:cp,attr"`
	XmlnsDC    string   `xml:"xmlns:dc,attr"`
	XmlnsTerms string   `xml:"xmlns:dcterms,attr"`
	XmlnsXSI   string   `xml:"xmlns:xsi,attr"`
	Title      string   `xml:"dc:title,omitempty"`
	Creator    string   `xml:"dc:creator"`
	Keywords   string   `xml:"cp:keywords,omitempty"`
	Identifier string   `xml:"dc:identifier,omitempty"`
	Created    xmlW3CDT `xml:"dcterms:created"`
	Modified   xmlW3CDT `xml:"dcterms:modified"`
}

type xmlW3CDT struct {
	Type  string `xml:"xsi:type,attr"`
	Value string `xml:",chardata"`
}

func coreProperties(doc dsl.Document, created time.Time) xmlCoreProperties {
	stamp := xmlW3CDT{Type: "dcterms:W3CDTF", Value: created.Format(time.RFC3339)}
	return xmlCoreProperties{
		XmlnsCP:    "http://schemas.openxmlformats.org/package/2006/metadata/core-properties",
		XmlnsDC:    "http://purl.org/dc/elements/1.1/",
		XmlnsTerms: "http://purl.org/dc/terms/",
		XmlnsXSI:   "http://www.w3.org/2001/XMLSchema-instance",
		Title:      doc.MetaValue(dsl.MetaTitle),
		Creator:    "docfmt",
		Keywords:   doc.MetaValue(dsl.MetaInstitution),
		Identifier: doc.MetaValue(dsl.MetaTaskID),
		Created:    stamp,
		Modified:   stamp,
	}
}

// PageSetup describes the single document section in twips.
type PageSetup struct {
	Width, Height                          int
	MarginTop, MarginRight                 int
	MarginBottom, MarginLeft               int
	HeaderDistance, FooterDistance, Gutter int
}

// A4 is the default page: portrait A4 with Word's default CJK margins.
func A4() PageSetup {
	return PageSetup{
		Width: 11906, Height: 16838,
		MarginTop: 1440, MarginRight: 1800, MarginBottom: 1440, MarginLeft: 1800,
		HeaderDistance: 851, FooterDistance: 992,
	}
}

type xmlSectPr struct {
	PgSz struct {
		W int `xml:"w:w,attr"`
		H int `xml:"w:h,attr"`
	} `xml:"w:pgSz"`
	PgMar struct {
		Top    int `xml:"w:top,attr"`
		Right  int `xml:"w:right,attr"`
		Bottom int `xml:"w:bottom,attr"`
		Left   int `xml:"w:left,attr"`
		Header int `xml:"w:header,attr"`
		Footer int `xml:"w:footer,attr"`
		Gutter int `xml:"w:gutter,attr"`
	} `xml:"w:pgMar"`
}

func (p PageSetup) sectPr() xmlSectPr {
	var s xmlSectPr
	s.PgSz.W, s.PgSz.H = p.Width, p.Height
	s.PgMar.Top, s.PgMar.Right, s.PgMar.Bottom, s.PgMar.Left = p.MarginTop, p.MarginRight, p.MarginBottom, p.MarginLeft
	s.PgMar.Header, s.PgMar.Footer, s.PgMar.Gutter = p.HeaderDistance, p.FooterDistance, p.Gutter
	return s
}
