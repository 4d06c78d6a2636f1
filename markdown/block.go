// Package markdown provides line-oriented Markdown parsing into typed
// content blocks, and grouping of blocks into titled sections.
//
// The grammar is deliberately small: headings, paragraphs, lists, pipe
// tables, and the inline spans **bold**, *italic*, `code`, and
// [text](url). Anything unrecognized is coerced to a paragraph; parsing
// never fails.
package markdown

import "strings"

// Kind identifies the concrete type of a Block.
type Kind int

const (
	// KindHeading indicates a Heading block.
	KindHeading Kind = iota
	// KindParagraph indicates a Paragraph block.
	KindParagraph
	// KindList indicates a List block.
	KindList
	// KindTable indicates a Table block.
	KindTable
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindHeading:
		return "heading"
	case KindParagraph:
		return "paragraph"
	case KindList:
		return "list"
	case KindTable:
		return "table"
	default:
		return "unknown"
	}
}

// Block is a single typed content block in document order.
type Block interface {
	Kind() Kind
}

// Run is a span of text with uniform inline styling. Link holds the
// target URL when the run came from a [text](url) span.
type Run struct {
	Text   string
	Bold   bool
	Italic bool
	Code   bool
	Link   string
}

// Heading is an ATX heading of level 1-6.
type Heading struct {
	Level int
	Runs  []Run
}

// Kind returns KindHeading.
func (Heading) Kind() Kind { return KindHeading }

// Text returns the heading text with inline styling stripped.
func (h Heading) Text() string { return PlainText(h.Runs) }

// Paragraph is a run of plain text lines.
type Paragraph struct {
	Runs []Run
}

// Kind returns KindParagraph.
func (Paragraph) Kind() Kind { return KindParagraph }

// ListItem is one item of a List. Level is the nesting depth derived
// from leading indentation (0 = top level).
type ListItem struct {
	Runs  []Run
	Level int
}

// List is a group of consecutive list items. Ordered reports whether
// the items used numeric markers.
type List struct {
	Ordered bool
	Items   []ListItem
}

// Kind returns KindList.
func (List) Kind() Kind { return KindList }

// Table is a pipe table. Every row has exactly len(Header) cells:
// short rows are padded with empty strings and long rows truncated
// during parsing.
type Table struct {
	Header []string
	Rows   [][]string
}

// Kind returns KindTable.
func (Table) Kind() Kind { return KindTable }

// Section is a titled run of blocks bounded by level-2 headings. Title
// is empty only for the leading preamble. The level-2 heading that
// opened the section is not part of Blocks; writers regenerate it from
// Title.
type Section struct {
	Title  string
	Blocks []Block
}

// PlainText concatenates run text, discarding styling.
func PlainText(runs []Run) string {
	var sb strings.Builder
	for _, r := range runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}
