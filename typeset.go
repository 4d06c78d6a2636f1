// Package typeset converts Markdown documents into PDF, DOCX, XLSX,
// and PPTX artifacts, and can append to or surgically update an
// existing PDF or PPTX by matching section titles against page and
// slide titles.
//
// Basic usage:
//
//	result, warnings, err := typeset.From("report.md").
//	    Format(format.PPTX).
//	    WriteTo("report.pptx")
//
// Updating slides in place by title:
//
//	result, warnings, err := typeset.From("updates.md").
//	    Format(format.PPTX).
//	    ReplaceIn("deck.pptx").
//	    WriteTo("deck-v2.pptx")
//
// Warnings are non-fatal: a replace invocation that matches nothing
// degrades to a plain append and reports that as a warning.
package typeset

import (
	"fmt"
	"os"

	"github.com/tsawler/typeset/docx"
	"github.com/tsawler/typeset/format"
	"github.com/tsawler/typeset/markdown"
	"github.com/tsawler/typeset/pdf"
	"github.com/tsawler/typeset/plan"
	"github.com/tsawler/typeset/pptx"
	"github.com/tsawler/typeset/xlsx"
)

// Mode selects how the output artifact relates to an existing one.
type Mode int

const (
	// ModeCreate produces a fresh artifact.
	ModeCreate Mode = iota
	// ModeAppend adds rendered sections after the pages of an
	// existing artifact.
	ModeAppend
	// ModeReplace substitutes pages of an existing artifact whose
	// titles match section titles, appending the rest.
	ModeReplace
)

// Result summarizes a completed conversion.
type Result struct {
	Format   format.Format
	Output   string
	Existing int // pages/slides in the existing artifact (merge modes)
	Kept     int
	Replaced int
	Appended int
}

// Converter provides a fluent interface for conversions. Each
// configuration method returns a new Converter instance, so a
// configured Converter can be reused and shared freely.
type Converter struct {
	filename string
	format   format.Format
	mode     Mode
	existing string
	options  Options

	// Accumulated error (fail-fast)
	err error
}

// From starts a conversion reading Markdown from filename. The output
// format defaults to PDF.
func From(filename string) *Converter {
	return &Converter{
		filename: filename,
		format:   format.PDF,
		options:  DefaultOptions(),
	}
}

// clone creates a copy of the Converter so that chain methods never
// mutate their receiver.
func (c *Converter) clone() *Converter {
	cp := *c
	return &cp
}

// Format selects the output format.
func (c *Converter) Format(f format.Format) *Converter {
	n := c.clone()
	n.format = f
	return n
}

// WithOptions replaces the styling options.
func (c *Converter) WithOptions(opts Options) *Converter {
	n := c.clone()
	n.options = opts
	return n
}

// AppendTo switches to append mode against an existing artifact.
// Append and replace are mutually exclusive.
func (c *Converter) AppendTo(existing string) *Converter {
	n := c.clone()
	if n.mode != ModeCreate {
		n.err = fmt.Errorf("append and replace modes are mutually exclusive")
		return n
	}
	n.mode = ModeAppend
	n.existing = existing
	return n
}

// ReplaceIn switches to replace mode against an existing artifact.
// Append and replace are mutually exclusive.
func (c *Converter) ReplaceIn(existing string) *Converter {
	n := c.clone()
	if n.mode != ModeCreate {
		n.err = fmt.Errorf("append and replace modes are mutually exclusive")
		return n
	}
	n.mode = ModeReplace
	n.existing = existing
	return n
}

// WriteTo runs the conversion and writes the artifact to output. It
// is the terminal operation of the chain. All fatal conditions abort
// before the output file is produced; warnings report conditions that
// were resolved by policy, such as the replace fallback.
func (c *Converter) WriteTo(output string) (Result, []Warning, error) {
	res := Result{Format: c.format, Output: output}

	if c.err != nil {
		return res, nil, c.err
	}
	if c.format == format.Unknown {
		return res, nil, fmt.Errorf("no output format selected")
	}
	if c.mode != ModeCreate && !c.format.SupportsMerge() {
		return res, nil, fmt.Errorf("append and replace are only supported for pdf and pptx, not %s", c.format)
	}

	src, err := os.ReadFile(c.filename)
	if err != nil {
		return res, nil, fmt.Errorf("reading %s: %w", c.filename, err)
	}
	blocks := markdown.Parse(string(src))

	switch c.mode {
	case ModeCreate:
		return c.create(res, blocks)
	default:
		return c.merge(res, blocks, output)
	}
}

// create renders a fresh artifact from the block sequence.
func (c *Converter) create(res Result, blocks []markdown.Block) (Result, []Warning, error) {
	var warnings []Warning

	switch c.format {
	case format.PDF:
		if err := pdf.Render(res.Output, blocks, c.options.PDF); err != nil {
			return res, warnings, err
		}
	case format.DOCX:
		if err := docx.Write(res.Output, blocks); err != nil {
			return res, warnings, err
		}
	case format.XLSX:
		if err := xlsx.Write(res.Output, blocks, c.options.XLSX); err != nil {
			return res, warnings, err
		}
	case format.PPTX:
		sections := markdown.SplitSections(blocks)
		if len(sections) == 0 || (len(sections) == 1 && sections[0].Title == "") {
			// No level-2 headings: the whole document becomes one
			// untitled slide rather than an empty deck.
			warnings = append(warnings, Warning{
				Code:    WarnNoSections,
				Message: "no level-2 headings found; creating a single slide",
			})
			sections = []markdown.Section{{Title: "Untitled", Blocks: blocks}}
		}
		if err := pptx.Write(res.Output, sections, c.options.PPTX); err != nil {
			return res, warnings, err
		}
		res.Appended = len(sections)
	}
	return res, warnings, nil
}

// merge executes append or replace mode against the existing artifact.
func (c *Converter) merge(res Result, blocks []markdown.Block, output string) (Result, []Warning, error) {
	sections := markdown.SplitSections(blocks)

	existing, err := c.existingPages()
	if err != nil {
		return res, nil, err
	}
	res.Existing = len(existing)

	var p plan.Plan
	if c.mode == ModeAppend {
		p = plan.AppendAll(existing, sections)
	} else {
		p = plan.Build(existing, sections)
	}

	warnings := fallbackWarnings(p)

	switch c.format {
	case format.PPTX:
		err = pptx.Merge(c.existing, output, p, c.options.PPTX)
	case format.PDF:
		err = pdf.Merge(c.existing, output, p, c.options.PDF)
	}
	if err != nil {
		return res, warnings, err
	}

	res.Kept = p.Kept()
	res.Replaced = p.Replaced()
	res.Appended = p.Appended()
	return res, warnings, nil
}

// existingPages reads the page/title view of the existing artifact.
// PDF append mode skips title extraction; only the page count is
// needed to keep everything.
func (c *Converter) existingPages() ([]plan.Page, error) {
	switch c.format {
	case format.PPTX:
		r, err := pptx.Open(c.existing)
		if err != nil {
			return nil, fmt.Errorf("opening existing presentation: %w", err)
		}
		defer r.Close()
		return r.Pages(), nil

	case format.PDF:
		if c.mode == ModeAppend {
			n, err := pdf.PageCount(c.existing)
			if err != nil {
				return nil, fmt.Errorf("opening existing PDF: %w", err)
			}
			pages := make([]plan.Page, n)
			for i := range pages {
				pages[i] = plan.Page{Index: i, Handle: i + 1}
			}
			return pages, nil
		}
		pages, err := pdf.Pages(c.existing)
		if err != nil {
			return nil, fmt.Errorf("opening existing PDF: %w", err)
		}
		return pages, nil
	}
	return nil, fmt.Errorf("format %s has no artifact reader", c.format)
}

// fallbackWarnings converts a plan's fallback disposition into
// caller-visible warnings.
func fallbackWarnings(p plan.Plan) []Warning {
	switch p.Fallback {
	case plan.FallbackNoSections:
		return []Warning{{
			Code:    WarnNoSections,
			Message: "no level-2 headings found in the Markdown document; appending instead",
		}}
	case plan.FallbackNoMatches:
		return []Warning{{
			Code:    WarnNoMatches,
			Message: "no section titles matched the existing artifact; appending instead",
		}}
	default:
		return nil
	}
}
