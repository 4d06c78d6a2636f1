// Package docx is the DOCX (Office Open XML WordprocessingML)
// collaborator: it writes a fresh Word document from a parsed Markdown
// block sequence. DOCX is a flow format with no stable page boundary,
// so it supports create mode only.
package docx

import (
	"archive/zip"
	"fmt"
	"os"
	"strings"

	"github.com/tsawler/typeset/markdown"
)

// XML namespaces used in DOCX packages.
const (
	nsWordprocessingML = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsRelationships    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsPackageRels      = "http://schemas.openxmlformats.org/package/2006/relationships"
)

const xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

// Write creates a Word document from the block sequence and writes it
// to filename.
func Write(filename string, blocks []markdown.Block) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating %s: %w", filename, err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	parts := map[string]string{
		"[Content_Types].xml":          docxContentTypes,
		"_rels/.rels":                  docxRootRels,
		"word/document.xml":            documentPart(blocks),
		"word/_rels/document.xml.rels": documentRels,
		"word/styles.xml":              stylesPart,
		"word/numbering.xml":           numberingPart,
	}
	for name, content := range parts {
		w, err := zw.Create(name)
		if err != nil {
			zw.Close()
			return fmt.Errorf("creating part %s: %w", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			zw.Close()
			return fmt.Errorf("writing part %s: %w", name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalizing %s: %w", filename, err)
	}
	return nil
}

var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

func esc(s string) string { return escaper.Replace(s) }

// documentPart renders the block sequence into word/document.xml.
func documentPart(blocks []markdown.Block) string {
	var sb strings.Builder
	sb.WriteString(xmlHeader)
	sb.WriteString(`<w:document xmlns:w="` + nsWordprocessingML + `"><w:body>`)

	for _, b := range blocks {
		switch blk := b.(type) {
		case markdown.Heading:
			sb.WriteString(fmt.Sprintf(`<w:p><w:pPr><w:pStyle w:val="Heading%d"/></w:pPr>%s</w:p>`,
				blk.Level, runsMarkup(blk.Runs)))
		case markdown.Paragraph:
			sb.WriteString(`<w:p>` + runsMarkup(blk.Runs) + `</w:p>`)
		case markdown.List:
			numID := 1 // bullet numbering definition
			if blk.Ordered {
				numID = 2
			}
			for _, item := range blk.Items {
				sb.WriteString(fmt.Sprintf(`<w:p><w:pPr><w:numPr><w:ilvl w:val="%d"/><w:numId w:val="%d"/></w:numPr></w:pPr>%s</w:p>`,
					item.Level, numID, runsMarkup(item.Runs)))
			}
		case markdown.Table:
			sb.WriteString(tableMarkup(blk))
		}
	}

	sb.WriteString(`<w:sectPr><w:pgSz w:w="12240" w:h="15840"/></w:sectPr>`)
	sb.WriteString(`</w:body></w:document>`)
	return sb.String()
}

// runsMarkup renders inline runs as w:r elements. Code runs get a
// monospace face, links an underline.
func runsMarkup(runs []markdown.Run) string {
	var sb strings.Builder
	for _, r := range runs {
		sb.WriteString(`<w:r>`)
		if r.Bold || r.Italic || r.Code || r.Link != "" {
			sb.WriteString(`<w:rPr>`)
			if r.Bold {
				sb.WriteString(`<w:b/>`)
			}
			if r.Italic {
				sb.WriteString(`<w:i/>`)
			}
			if r.Code {
				sb.WriteString(`<w:rFonts w:ascii="Courier New" w:hAnsi="Courier New"/>`)
			}
			if r.Link != "" {
				sb.WriteString(`<w:u w:val="single"/>`)
			}
			sb.WriteString(`</w:rPr>`)
		}
		sb.WriteString(`<w:t xml:space="preserve">` + esc(r.Text) + `</w:t></w:r>`)
	}
	return sb.String()
}

// tableMarkup renders a table block with single borders and a bold
// header row. The parser has already normalized every row to the
// header's column count.
func tableMarkup(tbl markdown.Table) string {
	var sb strings.Builder
	sb.WriteString(`<w:tbl><w:tblPr><w:tblStyle w:val="TableGrid"/><w:tblBorders>`)
	for _, edge := range []string{"top", "left", "bottom", "right", "insideH", "insideV"} {
		sb.WriteString(fmt.Sprintf(`<w:%s w:val="single" w:sz="4" w:color="333333"/>`, edge))
	}
	sb.WriteString(`</w:tblBorders></w:tblPr><w:tblGrid/>`)

	writeRow := func(cells []string, bold bool) {
		sb.WriteString(`<w:tr>`)
		for _, cell := range cells {
			sb.WriteString(`<w:tc><w:p><w:r>`)
			if bold {
				sb.WriteString(`<w:rPr><w:b/></w:rPr>`)
			}
			sb.WriteString(`<w:t xml:space="preserve">` + esc(cell) + `</w:t></w:r></w:p></w:tc>`)
		}
		sb.WriteString(`</w:tr>`)
	}

	writeRow(tbl.Header, true)
	for _, row := range tbl.Rows {
		writeRow(row, false)
	}

	sb.WriteString(`</w:tbl>`)
	return sb.String()
}

const docxContentTypes = xmlHeader + `<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
	`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
	`<Default Extension="xml" ContentType="application/xml"/>` +
	`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
	`<Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>` +
	`<Override PartName="/word/numbering.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.numbering+xml"/>` +
	`</Types>`

const docxRootRels = xmlHeader + `<Relationships xmlns="` + nsPackageRels + `">` +
	`<Relationship Id="rId1" Type="` + nsRelationships + `/officeDocument" Target="word/document.xml"/>` +
	`</Relationships>`

const documentRels = xmlHeader + `<Relationships xmlns="` + nsPackageRels + `">` +
	`<Relationship Id="rId1" Type="` + nsRelationships + `/styles" Target="styles.xml"/>` +
	`<Relationship Id="rId2" Type="` + nsRelationships + `/numbering" Target="numbering.xml"/>` +
	`</Relationships>`

// stylesPart defines Normal plus the six built-in heading styles the
// document part references.
var stylesPart = func() string {
	var sb strings.Builder
	sb.WriteString(xmlHeader)
	sb.WriteString(`<w:styles xmlns:w="` + nsWordprocessingML + `">`)
	sb.WriteString(`<w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/></w:style>`)
	sizes := []int{32, 28, 26, 24, 22, 22} // half-points
	for i, sz := range sizes {
		sb.WriteString(fmt.Sprintf(
			`<w:style w:type="paragraph" w:styleId="Heading%d"><w:name w:val="heading %d"/><w:basedOn w:val="Normal"/>`+
				`<w:rPr><w:b/><w:sz w:val="%d"/></w:rPr></w:style>`, i+1, i+1, sz))
	}
	sb.WriteString(`</w:styles>`)
	return sb.String()
}()

// numberingPart defines numId 1 (bullet) and numId 2 (decimal), each
// with nine indent levels.
var numberingPart = func() string {
	var sb strings.Builder
	sb.WriteString(xmlHeader)
	sb.WriteString(`<w:numbering xmlns:w="` + nsWordprocessingML + `">`)
	abstract := func(id int, numFmt, text string) {
		sb.WriteString(fmt.Sprintf(`<w:abstractNum w:abstractNumId="%d">`, id))
		for lvl := 0; lvl < 9; lvl++ {
			sb.WriteString(fmt.Sprintf(
				`<w:lvl w:ilvl="%d"><w:start w:val="1"/><w:numFmt w:val="%s"/><w:lvlText w:val="%s"/>`+
					`<w:pPr><w:ind w:left="%d" w:hanging="360"/></w:pPr></w:lvl>`,
				lvl, numFmt, text, 720*(lvl+1)))
		}
		sb.WriteString(`</w:abstractNum>`)
	}
	abstract(0, "bullet", "&#8226;")
	abstract(1, "decimal", "%1.")
	sb.WriteString(`<w:num w:numId="1"><w:abstractNumId w:val="0"/></w:num>`)
	sb.WriteString(`<w:num w:numId="2"><w:abstractNumId w:val="1"/></w:num>`)
	sb.WriteString(`</w:numbering>`)
	return sb.String()
}()
