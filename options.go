package typeset

import (
	"github.com/tsawler/typeset/pdf"
	"github.com/tsawler/typeset/pptx"
	"github.com/tsawler/typeset/xlsx"
)

// Options aggregates the per-format styling options. Zero values fall
// back to each collaborator's defaults, so callers only set what they
// want to change.
type Options struct {
	PDF  pdf.Options
	PPTX pptx.Options
	XLSX xlsx.Options
}

// DefaultOptions returns the default styling for every format.
func DefaultOptions() Options {
	return Options{
		PDF:  pdf.DefaultOptions(),
		PPTX: pptx.DefaultOptions(),
		XLSX: xlsx.DefaultOptions(),
	}
}
