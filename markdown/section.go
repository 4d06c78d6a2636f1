package markdown

// SplitSections groups a block sequence into titled sections. Every
// level-2 heading starts a new section titled with the heading text;
// the heading block itself is not kept. Blocks before the first
// level-2 heading form a preamble section with an empty title, omitted
// when empty. Headings of other levels are ordinary blocks.
func SplitSections(blocks []Block) []Section {
	var sections []Section
	current := Section{}

	flush := func() {
		if current.Title != "" || len(current.Blocks) > 0 {
			sections = append(sections, current)
		}
	}

	for _, b := range blocks {
		if h, ok := b.(Heading); ok && h.Level == 2 {
			flush()
			current = Section{Title: h.Text()}
			continue
		}
		current.Blocks = append(current.Blocks, b)
	}
	flush()
	return sections
}

// ParseSections parses raw Markdown and splits the result into
// sections in one step.
func ParseSections(src string) []Section {
	return SplitSections(Parse(src))
}
