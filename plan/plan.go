// Package plan matches new Markdown sections against the pages or
// slides of an existing artifact and produces the ordered merge plan
// that drives the format writers.
//
// Matching is exact equality of normalized titles. There is no fuzzy
// or edit-distance matching; predictable, reproducible plans are worth
// more here than clever ones.
package plan

import (
	"strings"

	"github.com/tsawler/typeset/markdown"
)

// Page is a read-only view of one page or slide of an existing
// artifact. Title is the collaborator's best-effort extracted title
// and may be empty. Handle is format-specific (a slide part name, a
// 1-based PDF page number) and is only ever passed back to the same
// format's merge executor.
type Page struct {
	Index  int
	Title  string
	Handle any
}

// Op is the disposition of one output page.
type Op int

const (
	// Keep carries an existing page through unchanged.
	Keep Op = iota
	// Replace substitutes a newly rendered section at the position of
	// an existing page.
	Replace
	// Append adds a newly rendered section after all existing pages.
	Append
)

// String returns the string representation of the op.
func (op Op) String() string {
	switch op {
	case Keep:
		return "keep"
	case Replace:
		return "replace"
	case Append:
		return "append"
	default:
		return "unknown"
	}
}

// Entry is one output page in final order. Page is set for Keep and
// Replace, Section for Replace and Append.
type Entry struct {
	Op      Op
	Page    *Page
	Section *markdown.Section
}

// FallbackReason explains why a replace operation degraded to pure
// append. FallbackNone means at least one title matched and the plan
// contains Replace entries.
type FallbackReason int

const (
	// FallbackNone indicates no fallback occurred.
	FallbackNone FallbackReason = iota
	// FallbackNoSections indicates the new document had no level-2
	// headings, so there was nothing to match against.
	FallbackNoSections
	// FallbackNoMatches indicates titled sections existed but none
	// matched an existing page title.
	FallbackNoMatches
)

// Plan is the ordered decision list for one merge invocation. Keep and
// Replace entries appear in the original page order; Append entries
// follow, in document order of the unmatched sections.
type Plan struct {
	Entries  []Entry
	Fallback FallbackReason
}

// Replaced returns the number of Replace entries.
func (p *Plan) Replaced() int { return p.count(Replace) }

// Kept returns the number of Keep entries.
func (p *Plan) Kept() int { return p.count(Keep) }

// Appended returns the number of Append entries.
func (p *Plan) Appended() int { return p.count(Append) }

func (p *Plan) count(op Op) int {
	n := 0
	for _, e := range p.Entries {
		if e.Op == op {
			n++
		}
	}
	return n
}

// Normalize canonicalizes a title for comparison: lowercased, runs of
// whitespace collapsed to a single space, leading and trailing
// whitespace trimmed. Normalize is idempotent.
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// Build matches sections to existing pages and assembles the merge
// plan.
//
// Each section, in document order, consumes the earliest unconsumed
// existing page whose normalized title equals its own; a consumed page
// is never reused, so duplicate titles pair up first-to-first.
// Sections that match nothing are deferred as appends, as is the
// untitled preamble. Pages that match nothing are kept in place.
//
// If not a single section matched, the whole operation degrades to
// pure append: every existing page is kept and every section is
// appended, and the plan's Fallback field records why. Callers surface
// that as a warning, not an error.
func Build(existing []Page, sections []markdown.Section) Plan {
	// Bucket existing page indices by normalized title. Pages without
	// an extractable title can never match.
	buckets := make(map[string][]int)
	for i, pg := range existing {
		key := Normalize(pg.Title)
		if key == "" {
			continue
		}
		buckets[key] = append(buckets[key], i)
	}

	replacement := make(map[int]*markdown.Section)
	var deferred []*markdown.Section
	titled := false

	for i := range sections {
		sec := &sections[i]
		if sec.Title == "" {
			deferred = append(deferred, sec)
			continue
		}
		titled = true
		key := Normalize(sec.Title)
		if idxs := buckets[key]; len(idxs) > 0 {
			replacement[idxs[0]] = sec
			buckets[key] = idxs[1:]
		} else {
			deferred = append(deferred, sec)
		}
	}

	if len(replacement) == 0 {
		p := AppendAll(existing, sections)
		if titled {
			p.Fallback = FallbackNoMatches
		} else {
			p.Fallback = FallbackNoSections
		}
		return p
	}

	var p Plan
	for i := range existing {
		pg := &existing[i]
		if sec, ok := replacement[i]; ok {
			p.Entries = append(p.Entries, Entry{Op: Replace, Page: pg, Section: sec})
		} else {
			p.Entries = append(p.Entries, Entry{Op: Keep, Page: pg})
		}
	}
	for _, sec := range deferred {
		p.Entries = append(p.Entries, Entry{Op: Append, Section: sec})
	}
	return p
}

// AppendAll builds the plan for append mode: every existing page is
// kept in order and every section is appended after them.
func AppendAll(existing []Page, sections []markdown.Section) Plan {
	var p Plan
	for i := range existing {
		p.Entries = append(p.Entries, Entry{Op: Keep, Page: &existing[i]})
	}
	for i := range sections {
		p.Entries = append(p.Entries, Entry{Op: Append, Section: &sections[i]})
	}
	return p
}
