package pptx

import (
	"archive/zip"
	"fmt"
	"os"
	"strings"

	"github.com/tsawler/typeset/markdown"
)

// EMU conversion: 914400 English Metric Units per inch.
const emuPerInch = 914400

// Options holds presentation geometry for the writer.
type Options struct {
	SlideWidthEMU  int
	SlideHeightEMU int
}

// DefaultOptions returns the default 10" x 7.5" slide geometry.
func DefaultOptions() Options {
	return Options{
		SlideWidthEMU:  10 * emuPerInch,
		SlideHeightEMU: 7*emuPerInch + emuPerInch/2,
	}
}

// Write creates a fresh presentation with one slide per section and
// writes it to filename. A section with an empty title produces a
// slide without title text.
func Write(filename string, sections []markdown.Section, opts Options) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating %s: %w", filename, err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)

	parts := packageSkeleton(len(sections), opts)
	for i, sec := range sections {
		name := fmt.Sprintf("ppt/slides/slide%d.xml", i+1)
		parts[name] = slideMarkup(sec.Title, sec.Blocks, opts)
		parts[fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", i+1)] = slideRels("../slideLayouts/slideLayout1.xml")
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

// esc escapes text for embedding in XML content or attributes.
func esc(s string) string { return escaper.Replace(s) }

const xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

// slideRels builds a slide relationships part pointing at its layout.
func slideRels(layoutTarget string) string {
	return xmlHeader + `<Relationships xmlns="` + nsPackageRels + `">` +
		`<Relationship Id="rId1" Type="` + nsRelationships + `/slideLayout" Target="` + esc(layoutTarget) + `"/>` +
		`</Relationships>`
}

// slideMarkup renders a section into slide XML: a title placeholder,
// a body placeholder holding paragraphs, headings, and list items,
// and one graphic frame per table.
func slideMarkup(title string, blocks []markdown.Block, opts Options) string {
	var sb strings.Builder
	sb.WriteString(xmlHeader)
	sb.WriteString(`<p:sld xmlns:a="` + nsDrawingML + `" xmlns:r="` + nsRelationships + `" xmlns:p="` + nsPresentationML + `">`)
	sb.WriteString(`<p:cSld><p:spTree>`)
	sb.WriteString(`<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>`)
	sb.WriteString(`<p:grpSpPr/>`)

	shapeID := 2
	margin := emuPerInch / 2
	bodyWidth := opts.SlideWidthEMU - 2*margin

	// Title placeholder.
	sb.WriteString(fmt.Sprintf(`<p:sp><p:nvSpPr><p:cNvPr id="%d" name="Title"/><p:cNvSpPr><a:spLocks noGrp="1"/></p:cNvSpPr><p:nvPr><p:ph type="title"/></p:nvPr></p:nvSpPr>`, shapeID))
	sb.WriteString(fmt.Sprintf(`<p:spPr><a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm></p:spPr>`,
		margin, emuPerInch/4, bodyWidth, emuPerInch))
	sb.WriteString(`<p:txBody><a:bodyPr/><a:lstStyle/><a:p><a:r><a:rPr lang="en-US" b="1"/><a:t>` + esc(title) + `</a:t></a:r></a:p></p:txBody></p:sp>`)
	shapeID++

	// Body placeholder with everything except tables.
	var body strings.Builder
	for _, b := range blocks {
		switch blk := b.(type) {
		case markdown.Heading:
			body.WriteString(`<a:p><a:pPr><a:buNone/></a:pPr><a:r><a:rPr lang="en-US" b="1"/><a:t>` + esc(blk.Text()) + `</a:t></a:r></a:p>`)
		case markdown.Paragraph:
			body.WriteString(`<a:p><a:pPr><a:buNone/></a:pPr>` + runsMarkup(blk.Runs) + `</a:p>`)
		case markdown.List:
			for _, item := range blk.Items {
				bullet := `<a:buChar char="&#8226;"/>`
				if blk.Ordered {
					bullet = `<a:buAutoNum type="arabicPeriod"/>`
				}
				body.WriteString(fmt.Sprintf(`<a:p><a:pPr lvl="%d">%s</a:pPr>%s</a:p>`, item.Level, bullet, runsMarkup(item.Runs)))
			}
		}
	}
	if body.Len() == 0 {
		body.WriteString(`<a:p><a:endParaRPr lang="en-US"/></a:p>`)
	}

	sb.WriteString(fmt.Sprintf(`<p:sp><p:nvSpPr><p:cNvPr id="%d" name="Content"/><p:cNvSpPr><a:spLocks noGrp="1"/></p:cNvSpPr><p:nvPr><p:ph idx="1"/></p:nvPr></p:nvSpPr>`, shapeID))
	sb.WriteString(fmt.Sprintf(`<p:spPr><a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm></p:spPr>`,
		margin, emuPerInch+emuPerInch/2, bodyWidth, opts.SlideHeightEMU-2*emuPerInch))
	sb.WriteString(`<p:txBody><a:bodyPr/><a:lstStyle/>` + body.String() + `</p:txBody></p:sp>`)
	shapeID++

	// Tables as graphic frames, stacked below the body.
	yOff := opts.SlideHeightEMU / 2
	for _, b := range blocks {
		tbl, ok := b.(markdown.Table)
		if !ok {
			continue
		}
		sb.WriteString(tableMarkup(tbl, shapeID, margin, yOff, bodyWidth))
		shapeID++
		yOff += (len(tbl.Rows) + 1) * emuPerInch / 4
	}

	sb.WriteString(`</p:spTree></p:cSld><p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr></p:sld>`)
	return sb.String()
}

// runsMarkup renders inline runs. Code runs get a monospace face and
// links an underline; the spans never nest, matching the parser.
func runsMarkup(runs []markdown.Run) string {
	if len(runs) == 0 {
		return `<a:endParaRPr lang="en-US"/>`
	}
	var sb strings.Builder
	for _, r := range runs {
		sb.WriteString(`<a:r><a:rPr lang="en-US"`)
		if r.Bold {
			sb.WriteString(` b="1"`)
		}
		if r.Italic {
			sb.WriteString(` i="1"`)
		}
		if r.Link != "" {
			sb.WriteString(` u="sng"`)
		}
		if r.Code {
			sb.WriteString(`><a:latin typeface="Courier New"/></a:rPr>`)
		} else {
			sb.WriteString(`/>`)
		}
		sb.WriteString(`<a:t>` + esc(r.Text) + `</a:t></a:r>`)
	}
	return sb.String()
}

// tableMarkup renders a table block as a DrawingML table inside a
// graphic frame. The header row is bold.
func tableMarkup(tbl markdown.Table, shapeID, x, y, width int) string {
	cols := len(tbl.Header)
	if cols == 0 {
		return ""
	}
	colWidth := width / cols
	rowHeight := emuPerInch / 4

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<p:graphicFrame><p:nvGraphicFramePr><p:cNvPr id="%d" name="Table"/><p:cNvGraphicFramePr/><p:nvPr/></p:nvGraphicFramePr>`, shapeID))
	sb.WriteString(fmt.Sprintf(`<p:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></p:xfrm>`,
		x, y, width, (len(tbl.Rows)+1)*rowHeight))
	sb.WriteString(`<a:graphic><a:graphicData uri="` + nsDrawingML + `/table"><a:tbl><a:tblPr firstRow="1"/><a:tblGrid>`)
	for i := 0; i < cols; i++ {
		sb.WriteString(fmt.Sprintf(`<a:gridCol w="%d"/>`, colWidth))
	}
	sb.WriteString(`</a:tblGrid>`)

	writeRow := func(cells []string, bold bool) {
		sb.WriteString(fmt.Sprintf(`<a:tr h="%d">`, rowHeight))
		for _, cell := range cells {
			attr := ""
			if bold {
				attr = ` b="1"`
			}
			sb.WriteString(`<a:tc><a:txBody><a:bodyPr/><a:p><a:r><a:rPr lang="en-US"` + attr + `/><a:t>` + esc(cell) + `</a:t></a:r></a:p></a:txBody><a:tcPr/></a:tc>`)
		}
		sb.WriteString(`</a:tr>`)
	}

	writeRow(tbl.Header, true)
	for _, row := range tbl.Rows {
		writeRow(row, false)
	}

	sb.WriteString(`</a:tbl></a:graphicData></a:graphic></p:graphicFrame>`)
	return sb.String()
}
