package markdown

import "testing"

func TestSplitSections_Basic(t *testing.T) {
	src := `## Alpha

text a

## Beta

text b
`
	sections := ParseSections(src)
	if len(sections) != 2 {
		t.Fatalf("got %d sections, want 2", len(sections))
	}
	if sections[0].Title != "Alpha" || sections[1].Title != "Beta" {
		t.Errorf("titles = %q, %q", sections[0].Title, sections[1].Title)
	}
	if len(sections[0].Blocks) != 1 {
		t.Errorf("Alpha has %d blocks, want 1", len(sections[0].Blocks))
	}
}

func TestSplitSections_Preamble(t *testing.T) {
	src := `# Document Title

intro text

## First

body
`
	sections := ParseSections(src)
	if len(sections) != 2 {
		t.Fatalf("got %d sections, want 2", len(sections))
	}
	if sections[0].Title != "" {
		t.Errorf("preamble title = %q, want empty", sections[0].Title)
	}
	// The level-1 heading and the intro paragraph belong to the preamble.
	if len(sections[0].Blocks) != 2 {
		t.Errorf("preamble has %d blocks, want 2", len(sections[0].Blocks))
	}
	if sections[1].Title != "First" {
		t.Errorf("section title = %q, want First", sections[1].Title)
	}
}

func TestSplitSections_EmptyPreambleOmitted(t *testing.T) {
	sections := ParseSections("## Only\n\ntext\n")
	if len(sections) != 1 {
		t.Fatalf("got %d sections, want 1 (no empty preamble)", len(sections))
	}
}

func TestSplitSections_HeadingNotIncluded(t *testing.T) {
	sections := ParseSections("## Title\n\ntext\n")
	for _, b := range sections[0].Blocks {
		if h, ok := b.(Heading); ok && h.Level == 2 {
			t.Error("level-2 heading leaked into section blocks")
		}
	}
}

func TestSplitSections_OtherHeadingLevelsStayInside(t *testing.T) {
	src := "## Outer\n\n### Inner\n\ntext\n"
	sections := ParseSections(src)
	if len(sections) != 1 {
		t.Fatalf("got %d sections, want 1", len(sections))
	}
	if len(sections[0].Blocks) != 2 {
		t.Errorf("got %d blocks, want heading + paragraph", len(sections[0].Blocks))
	}
}

func TestSplitSections_TitledButEmptySectionKept(t *testing.T) {
	sections := ParseSections("## Empty\n\n## Full\n\ntext\n")
	if len(sections) != 2 {
		t.Fatalf("got %d sections, want 2", len(sections))
	}
	if sections[0].Title != "Empty" || len(sections[0].Blocks) != 0 {
		t.Errorf("empty titled section = %+v", sections[0])
	}
}

func TestSplitSections_NoHeadings(t *testing.T) {
	sections := ParseSections("just a paragraph\n")
	if len(sections) != 1 {
		t.Fatalf("got %d sections, want 1", len(sections))
	}
	if sections[0].Title != "" {
		t.Errorf("title = %q, want empty", sections[0].Title)
	}
}
