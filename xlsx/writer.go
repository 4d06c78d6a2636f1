// Package xlsx is the XLSX collaborator: it writes a spreadsheet from
// a parsed Markdown block sequence using excelize. Level-1 and level-2
// headings become bold section rows, tables become styled cell ranges,
// and everything is laid out top to bottom on a single sheet. XLSX has
// no page concept, so it supports create mode only.
package xlsx

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/tsawler/typeset/markdown"
)

// Options holds spreadsheet styling knobs.
type Options struct {
	SheetName   string
	HeaderFill  string // RGB hex without '#', used for table header rows
	MaxColWidth float64
}

// DefaultOptions returns the writer defaults: sheet "Data", the green
// header fill, and a 50-character column width cap.
func DefaultOptions() Options {
	return Options{
		SheetName:   "Data",
		HeaderFill:  "4CAF50",
		MaxColWidth: 50,
	}
}

// Write creates a spreadsheet from the block sequence and writes it to
// filename.
func Write(filename string, blocks []markdown.Block, opts Options) error {
	if opts.SheetName == "" {
		opts = DefaultOptions()
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := opts.SheetName
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	sectionStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
	})
	if err != nil {
		return fmt.Errorf("creating section style: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{opts.HeaderFill}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}

	colWidths := make(map[int]int) // column (1-based) -> widest cell in runes

	note := func(col int, value string) {
		if len(value) > colWidths[col] {
			colWidths[col] = len(value)
		}
	}

	row := 1
	for _, b := range blocks {
		switch blk := b.(type) {
		case markdown.Heading:
			// Only top-level structure becomes section rows, matching
			// the small set of headings a report sheet actually wants.
			if blk.Level > 2 {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(1, row)
			if err := f.SetCellValue(sheet, cell, blk.Text()); err != nil {
				return fmt.Errorf("writing section row: %w", err)
			}
			if err := f.SetCellStyle(sheet, cell, cell, sectionStyle); err != nil {
				return fmt.Errorf("styling section row: %w", err)
			}
			note(1, blk.Text())
			row += 2

		case markdown.Paragraph:
			cell, _ := excelize.CoordinatesToCellName(1, row)
			text := markdown.PlainText(blk.Runs)
			if err := f.SetCellValue(sheet, cell, text); err != nil {
				return fmt.Errorf("writing paragraph row: %w", err)
			}
			note(1, text)
			row += 2

		case markdown.List:
			for _, item := range blk.Items {
				cell, _ := excelize.CoordinatesToCellName(1, row)
				text := markdown.PlainText(item.Runs)
				if err := f.SetCellValue(sheet, cell, text); err != nil {
					return fmt.Errorf("writing list row: %w", err)
				}
				note(1, text)
				row++
			}
			row++

		case markdown.Table:
			headerRow := row
			for col, value := range blk.Header {
				cell, _ := excelize.CoordinatesToCellName(col+1, row)
				if err := f.SetCellValue(sheet, cell, value); err != nil {
					return fmt.Errorf("writing table header: %w", err)
				}
				note(col+1, value)
			}
			row++
			for _, cells := range blk.Rows {
				for col, value := range cells {
					cell, _ := excelize.CoordinatesToCellName(col+1, row)
					if err := f.SetCellValue(sheet, cell, value); err != nil {
						return fmt.Errorf("writing table row: %w", err)
					}
					note(col+1, value)
				}
				row++
			}
			start, _ := excelize.CoordinatesToCellName(1, headerRow)
			end, _ := excelize.CoordinatesToCellName(len(blk.Header), headerRow)
			if err := f.SetCellStyle(sheet, start, end, headerStyle); err != nil {
				return fmt.Errorf("styling table header: %w", err)
			}
			row += 2 // spacing between tables
		}
	}

	for col, width := range colWidths {
		name, _ := excelize.ColumnNumberToName(col)
		w := float64(width) + 2
		if w > opts.MaxColWidth {
			w = opts.MaxColWidth
		}
		if err := f.SetColWidth(sheet, name, name, w); err != nil {
			return fmt.Errorf("setting column width: %w", err)
		}
	}

	if err := f.SaveAs(filename); err != nil {
		return fmt.Errorf("saving %s: %w", filename, err)
	}
	return nil
}
