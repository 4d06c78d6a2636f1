// Package pdf is the PDF collaborator: it renders parsed Markdown
// blocks into PDF pages with fpdf, reads the page/title view of an
// existing PDF with rsc.io/pdf, and executes merge plans with pdfcpu
// page extraction and merging.
package pdf

import (
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/tsawler/typeset/markdown"
)

// Options holds page geometry and styling for the renderer.
type Options struct {
	Orientation  string  // "P" or "L"
	PageSize     string  // "Letter", "A4", ...
	FontFamily   string  // a core font family: Arial, Times, Courier
	BaseFontSize float64 // body text size in points

	// Table header colors, RGB.
	HeaderFill [3]int
	HeaderText [3]int
}

// DefaultOptions returns the renderer defaults: landscape letter,
// half-inch margins, Arial, and the green table header.
func DefaultOptions() Options {
	return Options{
		Orientation:  "L",
		PageSize:     "Letter",
		FontFamily:   "Arial",
		BaseFontSize: 10,
		HeaderFill:   [3]int{76, 175, 80},
		HeaderText:   [3]int{255, 255, 255},
	}
}

const margin = 36 // half inch in points

// Render renders a block sequence into a new PDF file. Content flows
// down the page and breaks to new pages automatically.
func Render(filename string, blocks []markdown.Block, opts Options) error {
	doc := newDoc(opts)
	renderBlocks(doc, blocks, opts)
	if err := doc.OutputFileAndClose(filename); err != nil {
		return fmt.Errorf("writing %s: %w", filename, err)
	}
	return nil
}

// RenderSection renders one titled section into a new PDF file,
// regenerating the section title as a heading above its blocks.
func RenderSection(filename string, sec markdown.Section, opts Options) error {
	blocks := sec.Blocks
	if sec.Title != "" {
		heading := markdown.Heading{Level: 2, Runs: markdown.ParseRuns(sec.Title)}
		blocks = append([]markdown.Block{heading}, blocks...)
	}
	return Render(filename, blocks, opts)
}

func newDoc(opts Options) *fpdf.Fpdf {
	doc := fpdf.New(opts.Orientation, "pt", opts.PageSize, "")
	doc.SetMargins(margin, margin, margin)
	doc.SetAutoPageBreak(true, margin)
	doc.AddPage()
	return doc
}

func renderBlocks(doc *fpdf.Fpdf, blocks []markdown.Block, opts Options) {
	for _, b := range blocks {
		switch blk := b.(type) {
		case markdown.Heading:
			renderHeading(doc, blk, opts)
		case markdown.Paragraph:
			renderRuns(doc, blk.Runs, opts)
			doc.Ln(opts.BaseFontSize * 1.8)
		case markdown.List:
			renderList(doc, blk, opts)
			doc.Ln(opts.BaseFontSize * 0.8)
		case markdown.Table:
			renderTable(doc, blk, opts)
			doc.Ln(opts.BaseFontSize * 1.2)
		}
	}
}

// headingSize maps heading levels to font sizes relative to the body
// size.
func headingSize(level int, base float64) float64 {
	switch level {
	case 1:
		return base * 2.2
	case 2:
		return base * 1.8
	case 3:
		return base * 1.4
	default:
		return base * 1.2
	}
}

func renderHeading(doc *fpdf.Fpdf, h markdown.Heading, opts Options) {
	size := headingSize(h.Level, opts.BaseFontSize)
	doc.SetFont(opts.FontFamily, "B", size)
	doc.MultiCell(0, size*1.3, h.Text(), "", "L", false)
	doc.Ln(size * 0.4)
}

// styleString converts a run's flags into an fpdf style string.
func styleString(r markdown.Run) string {
	s := ""
	if r.Bold {
		s += "B"
	}
	if r.Italic {
		s += "I"
	}
	if r.Link != "" {
		s += "U"
	}
	return s
}

func renderRuns(doc *fpdf.Fpdf, runs []markdown.Run, opts Options) {
	lineHeight := opts.BaseFontSize * 1.4
	for _, r := range runs {
		family := opts.FontFamily
		if r.Code {
			family = "Courier"
		}
		doc.SetFont(family, styleString(r), opts.BaseFontSize)
		if r.Link != "" {
			doc.WriteLinkString(lineHeight, r.Text, r.Link)
		} else {
			doc.Write(lineHeight, r.Text)
		}
	}
}

func renderList(doc *fpdf.Fpdf, list markdown.List, opts Options) {
	lineHeight := opts.BaseFontSize * 1.4
	ordinal := make(map[int]int) // per-level counters for ordered lists
	for _, item := range list.Items {
		marker := "- "
		if list.Ordered {
			ordinal[item.Level]++
			marker = fmt.Sprintf("%d. ", ordinal[item.Level])
		}
		doc.SetX(margin + float64(item.Level)*18)
		doc.SetFont(opts.FontFamily, "", opts.BaseFontSize)
		doc.Write(lineHeight, marker)
		renderRuns(doc, item.Runs, opts)
		doc.Ln(lineHeight)
	}
}

func renderTable(doc *fpdf.Fpdf, tbl markdown.Table, opts Options) {
	cols := len(tbl.Header)
	if cols == 0 {
		return
	}
	pageWidth, _ := doc.GetPageSize()
	colWidth := (pageWidth - 2*margin) / float64(cols)
	rowHeight := opts.BaseFontSize * 1.8

	// Header row: white on the configured fill.
	doc.SetFont(opts.FontFamily, "B", opts.BaseFontSize)
	doc.SetFillColor(opts.HeaderFill[0], opts.HeaderFill[1], opts.HeaderFill[2])
	doc.SetTextColor(opts.HeaderText[0], opts.HeaderText[1], opts.HeaderText[2])
	for _, cell := range tbl.Header {
		doc.CellFormat(colWidth, rowHeight, cell, "1", 0, "L", true, 0, "")
	}
	doc.Ln(rowHeight)

	// Body rows, zebra-striped.
	doc.SetFont(opts.FontFamily, "", opts.BaseFontSize)
	doc.SetTextColor(0, 0, 0)
	for i, row := range tbl.Rows {
		fill := i%2 == 1
		doc.SetFillColor(242, 242, 242)
		for _, cell := range row {
			doc.CellFormat(colWidth, rowHeight, cell, "1", 0, "L", fill, 0, "")
		}
		doc.Ln(rowHeight)
	}
}
