// Package format provides target format identification for the
// typeset library.
package format

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format represents a supported output document format.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// PDF indicates a PDF document.
	PDF
	// DOCX indicates a Microsoft Word (.docx) document.
	DOCX
	// XLSX indicates a Microsoft Excel (.xlsx) spreadsheet.
	XLSX
	// PPTX indicates a Microsoft PowerPoint (.pptx) presentation.
	PPTX
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case PDF:
		return "pdf"
	case DOCX:
		return "docx"
	case XLSX:
		return "xlsx"
	case PPTX:
		return "pptx"
	default:
		return "unknown"
	}
}

// Extension returns the typical file extension for the format.
func (f Format) Extension() string {
	switch f {
	case PDF:
		return ".pdf"
	case DOCX:
		return ".docx"
	case XLSX:
		return ".xlsx"
	case PPTX:
		return ".pptx"
	default:
		return ""
	}
}

// SupportsMerge reports whether the format supports the append and
// replace operations against an existing artifact. Only page- and
// slide-oriented formats do; DOCX and XLSX have no stable page
// boundary to merge at.
func (f Format) SupportsMerge() bool {
	return f == PDF || f == PPTX
}

// Parse converts a format name as given on the command line ("pdf",
// "docx", "xlsx", "pptx", case-insensitive, with or without a leading
// dot) into a Format.
func Parse(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "pdf":
		return PDF, nil
	case "docx":
		return DOCX, nil
	case "xlsx":
		return XLSX, nil
	case "pptx":
		return PPTX, nil
	default:
		return Unknown, fmt.Errorf("unsupported format %q (want pdf, docx, xlsx, or pptx)", name)
	}
}

// Detect determines the format from a filename extension. It returns
// Unknown for extensions outside the supported set.
func Detect(filename string) Format {
	f, err := Parse(filepath.Ext(filename))
	if err != nil {
		return Unknown
	}
	return f
}
