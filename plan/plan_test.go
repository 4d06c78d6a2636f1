package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/typeset/markdown"
)

func pages(titles ...string) []Page {
	out := make([]Page, len(titles))
	for i, title := range titles {
		out[i] = Page{Index: i, Title: title, Handle: i + 1}
	}
	return out
}

func sections(titles ...string) []markdown.Section {
	out := make([]markdown.Section, len(titles))
	for i, title := range titles {
		out[i] = markdown.Section{Title: title}
	}
	return out
}

func ops(p Plan) []Op {
	out := make([]Op, len(p.Entries))
	for i, e := range p.Entries {
		out[i] = e.Op
	}
	return out
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Q4 Results", "q4 results"},
		{"q4   results", "q4 results"},
		{"  Q4 Results  ", "q4 results"},
		{"\tQ4\t \tResults\n", "q4 results"},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.in), "Normalize(%q)", tt.in)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	for _, s := range []string{"Q4  Results ", "ALready lower", "  "} {
		once := Normalize(s)
		assert.Equal(t, once, Normalize(once))
	}
}

func TestBuild_SimpleReplace(t *testing.T) {
	p := Build(pages("Intro", "Results"), sections("Results"))

	require.Len(t, p.Entries, 2)
	assert.Equal(t, FallbackNone, p.Fallback)
	assert.Equal(t, []Op{Keep, Replace}, ops(p))
	assert.Equal(t, "Results", p.Entries[1].Section.Title)
	assert.Equal(t, 1, p.Replaced())
	assert.Equal(t, 1, p.Kept())
	assert.Equal(t, 0, p.Appended())
}

func TestBuild_WhitespaceAndCaseInsensitive(t *testing.T) {
	p := Build(pages("Q4   Results"), sections(" q4 results "))
	assert.Equal(t, []Op{Replace}, ops(p))
}

func TestBuild_UnmatchedSectionsAppendInOrder(t *testing.T) {
	p := Build(pages("A"), sections("A", "New One", "New Two"))

	require.Len(t, p.Entries, 3)
	assert.Equal(t, []Op{Replace, Append, Append}, ops(p))
	assert.Equal(t, "New One", p.Entries[1].Section.Title)
	assert.Equal(t, "New Two", p.Entries[2].Section.Title)
}

func TestBuild_DuplicateTitles(t *testing.T) {
	// Existing ["Intro","Summary","Summary"], new ["Summary","Summary","Summary"]:
	// both existing Summary pages replaced in original order, one append.
	p := Build(pages("Intro", "Summary", "Summary"), sections("Summary", "Summary", "Summary"))

	require.Len(t, p.Entries, 4)
	assert.Equal(t, []Op{Keep, Replace, Replace, Append}, ops(p))
	assert.Equal(t, "Intro", p.Entries[0].Page.Title)
	// First new Summary consumed the earliest existing Summary.
	assert.Equal(t, 1, p.Entries[1].Page.Index)
	assert.Equal(t, 2, p.Entries[2].Page.Index)
}

func TestBuild_FallbackNoMatches(t *testing.T) {
	// Existing ["Alpha","Beta"], new ["Gamma"] degrades to pure append.
	p := Build(pages("Alpha", "Beta"), sections("Gamma"))

	assert.Equal(t, FallbackNoMatches, p.Fallback)
	require.Len(t, p.Entries, 3)
	assert.Equal(t, []Op{Keep, Keep, Append}, ops(p))
	assert.Equal(t, "Alpha", p.Entries[0].Page.Title)
	assert.Equal(t, "Beta", p.Entries[1].Page.Title)
	assert.Equal(t, "Gamma", p.Entries[2].Section.Title)
}

func TestBuild_FallbackNoSections(t *testing.T) {
	// A document with no level-2 headings is one untitled preamble
	// section, which can never match.
	preamble := []markdown.Section{{Title: ""}}
	p := Build(pages("Alpha"), preamble)

	assert.Equal(t, FallbackNoSections, p.Fallback)
	require.Len(t, p.Entries, 2)
	assert.Equal(t, []Op{Keep, Append}, ops(p))
}

func TestBuild_PreambleAppendsAheadOfUnmatched(t *testing.T) {
	secs := []markdown.Section{
		{Title: ""},
		{Title: "Match"},
		{Title: "Miss"},
	}
	p := Build(pages("Match"), secs)

	require.Len(t, p.Entries, 3)
	assert.Equal(t, []Op{Replace, Append, Append}, ops(p))
	assert.Equal(t, "", p.Entries[1].Section.Title)
	assert.Equal(t, "Miss", p.Entries[2].Section.Title)
}

func TestBuild_UntitledExistingPageNeverMatches(t *testing.T) {
	p := Build(pages("", "Topic"), sections("Topic"))

	require.Len(t, p.Entries, 2)
	assert.Equal(t, []Op{Keep, Replace}, ops(p))
}

func TestBuild_PageCountInvariant(t *testing.T) {
	existing := pages("A", "B", "C", "D")
	secs := sections("B", "D", "X", "Y")
	p := Build(existing, secs)

	// output = existing - replaced + replaced + appended
	assert.Len(t, p.Entries, len(existing)+p.Appended())
	assert.Equal(t, 2, p.Replaced())
	assert.Equal(t, 2, p.Kept())
	assert.Equal(t, 2, p.Appended())

	// Kept pages preserve their relative order.
	var keptIdx []int
	for _, e := range p.Entries {
		if e.Op == Keep {
			keptIdx = append(keptIdx, e.Page.Index)
		}
	}
	assert.Equal(t, []int{0, 2}, keptIdx)
}

func TestBuild_Deterministic(t *testing.T) {
	existing := pages("Summary", "Summary", "Other")
	secs := sections("summary", "SUMMARY")
	first := Build(existing, secs)
	second := Build(existing, secs)
	assert.Equal(t, ops(first), ops(second))
	assert.Equal(t, first.Entries[0].Page.Index, second.Entries[0].Page.Index)
}

func TestAppendAll(t *testing.T) {
	p := AppendAll(pages("A", "B"), sections("C"))

	require.Len(t, p.Entries, 3)
	assert.Equal(t, []Op{Keep, Keep, Append}, ops(p))
	assert.Equal(t, FallbackNone, p.Fallback)
}

func TestAppendAll_NoExisting(t *testing.T) {
	p := AppendAll(nil, sections("A"))
	require.Len(t, p.Entries, 1)
	assert.Equal(t, Append, p.Entries[0].Op)
}
