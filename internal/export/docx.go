package export

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strings"
)

// ContentTypeDOCX is the MIME type for generated documents.
const ContentTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

const contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/><Default Extension="xml" ContentType="application/xml"/><Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/><Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/></Types>`

const relsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/></Relationships>`

const documentRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/></Relationships>`

const stylesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/><w:rPr><w:sz w:val="22"/></w:rPr></w:style>
<w:style w:type="paragraph" w:styleId="Title"><w:name w:val="Title"/><w:basedOn w:val="Normal"/><w:pPr><w:jc w:val="center"/><w:spacing w:after="240"/></w:pPr><w:rPr><w:b/><w:sz w:val="48"/></w:rPr></w:style>
<w:style w:type="paragraph" w:styleId="Heading1"><w:name w:val="heading 1"/><w:basedOn w:val="Normal"/><w:pPr><w:outlineLvl w:val="0"/><w:spacing w:before="240" w:after="120"/></w:pPr><w:rPr><w:b/><w:sz w:val="32"/></w:rPr></w:style>
<w:style w:type="paragraph" w:styleId="Heading2"><w:name w:val="heading 2"/><w:basedOn w:val="Normal"/><w:pPr><w:outlineLvl w:val="1"/><w:spacing w:before="200" w:after="100"/></w:pPr><w:rPr><w:b/><w:sz w:val="26"/></w:rPr></w:style>
<w:style w:type="paragraph" w:styleId="Heading3"><w:name w:val="heading 3"/><w:basedOn w:val="Normal"/><w:pPr><w:outlineLvl w:val="2"/><w:spacing w:before="150" w:after="80"/></w:pPr><w:rPr><w:b/><w:sz w:val="24"/></w:rPr></w:style>
</w:styles>`

// DocBuilder accumulates WordprocessingML body content and packs it into a
// minimal DOCX archive. When rtl is set every paragraph carries the bidi
// flag so Hebrew text lays out right to left.
type DocBuilder struct {
	body strings.Builder
	rtl  bool
}

// NewDocBuilder constructs a builder. Pass rtl=true for right-to-left
// languages.
func NewDocBuilder(rtl bool) *DocBuilder {
	return &DocBuilder{rtl: rtl}
}

// Title writes a centered document title.
func (b *DocBuilder) Title(text string) {
	b.styledPara("Title", text, false, false)
}

// Heading writes a heading paragraph at level 1-3.
func (b *DocBuilder) Heading(level int, text string) {
	if level < 1 {
		level = 1
	}
	if level > 3 {
		level = 3
	}
	b.styledPara(fmt.Sprintf("Heading%d", level), text, false, false)
}

// Para writes a body paragraph.
func (b *DocBuilder) Para(text string) {
	b.styledPara("", text, false, false)
}

// BoldPara writes a bold body paragraph.
func (b *DocBuilder) BoldPara(text string) {
	b.styledPara("", text, true, false)
}

// ItalicPara writes an italic body paragraph.
func (b *DocBuilder) ItalicPara(text string) {
	b.styledPara("", text, false, true)
}

// Bullet writes an indented bullet item.
func (b *DocBuilder) Bullet(text string) {
	b.body.WriteString(`<w:p><w:pPr>`)
	b.writeBidi()
	b.body.WriteString(`<w:ind w:left="360"/></w:pPr>`)
	b.writeRun("• "+text, false, false)
	b.body.WriteString(`</w:p>`)
}

// Bullets writes one bullet per item.
func (b *DocBuilder) Bullets(items []string) {
	for _, item := range items {
		b.Bullet(item)
	}
}

// Table writes a full-width bordered table. The first row is rendered bold
// as a header.
func (b *DocBuilder) Table(rows [][]string) {
	if len(rows) == 0 {
		return
	}
	b.body.WriteString(`<w:tbl><w:tblPr><w:tblW w:w="5000" w:type="pct"/><w:tblBorders>` +
		`<w:top w:val="single" w:sz="4" w:color="auto"/>` +
		`<w:left w:val="single" w:sz="4" w:color="auto"/>` +
		`<w:bottom w:val="single" w:sz="4" w:color="auto"/>` +
		`<w:right w:val="single" w:sz="4" w:color="auto"/>` +
		`<w:insideH w:val="single" w:sz="4" w:color="auto"/>` +
		`<w:insideV w:val="single" w:sz="4" w:color="auto"/>` +
		`</w:tblBorders></w:tblPr>`)
	for i, row := range rows {
		b.body.WriteString(`<w:tr>`)
		for _, cell := range row {
			b.body.WriteString(`<w:tc><w:p>`)
			if b.rtl {
				b.body.WriteString(`<w:pPr><w:bidi/></w:pPr>`)
			}
			b.writeRun(cell, i == 0, false)
			b.body.WriteString(`</w:p></w:tc>`)
		}
		b.body.WriteString(`</w:tr>`)
	}
	b.body.WriteString(`</w:tbl>`)
}

// PageBreak forces a new page.
func (b *DocBuilder) PageBreak() {
	b.body.WriteString(`<w:p><w:r><w:br w:type="page"/></w:r></w:p>`)
}

// Bytes packs the accumulated body into a DOCX archive.
func (b *DocBuilder) Bytes() ([]byte, error) {
	document := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		b.body.String() +
		`<w:sectPr/></w:body></w:document>`

	var out bytes.Buffer
	writer := zip.NewWriter(&out)
	parts := []struct {
		name    string
		content string
	}{
		{"[Content_Types].xml", contentTypesXML},
		{"_rels/.rels", relsXML},
		{"word/_rels/document.xml.rels", documentRelsXML},
		{"word/styles.xml", stylesXML},
		{"word/document.xml", document},
	}
	for _, part := range parts {
		f, err := writer.Create(part.name)
		if err != nil {
			return nil, err
		}
		if _, err := f.Write([]byte(part.content)); err != nil {
			return nil, err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func (b *DocBuilder) styledPara(style, text string, bold, italic bool) {
	b.body.WriteString(`<w:p>`)
	if style != "" || b.rtl {
		b.body.WriteString(`<w:pPr>`)
		if style != "" {
			b.body.WriteString(`<w:pStyle w:val="` + style + `"/>`)
		}
		b.writeBidi()
		b.body.WriteString(`</w:pPr>`)
	}
	b.writeRun(text, bold, italic)
	b.body.WriteString(`</w:p>`)
}

func (b *DocBuilder) writeRun(text string, bold, italic bool) {
	b.body.WriteString(`<w:r>`)
	if bold || italic {
		b.body.WriteString(`<w:rPr>`)
		if bold {
			b.body.WriteString(`<w:b/>`)
		}
		if italic {
			b.body.WriteString(`<w:i/>`)
		}
		b.body.WriteString(`</w:rPr>`)
	}
	b.body.WriteString(`<w:t xml:space="preserve">`)
	b.body.WriteString(escapeXML(text))
	b.body.WriteString(`</w:t></w:r>`)
}

func (b *DocBuilder) writeBidi() {
	if b.rtl {
		b.body.WriteString(`<w:bidi/>`)
	}
}

func escapeXML(s string) string {
	var out strings.Builder
	for _, r := range s {
		switch r {
		case '&':
			out.WriteString("&amp;")
		case '<':
			out.WriteString("&lt;")
		case '>':
			out.WriteString("&gt;")
		case '"':
			out.WriteString("&quot;")
		case '\'':
			out.WriteString("&apos;")
		default:
			out.WriteRune(r)
		}
	}
	return out.String()
}
