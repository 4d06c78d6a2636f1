package markdown

import "strings"

// Parse converts raw Markdown text into an ordered block sequence.
// Parsing is line-oriented and total: unrecognized lines become
// paragraph text, a blank line terminates the current block, and
// ragged table rows are normalized to the header's column count.
func Parse(src string) []Block {
	lines := strings.Split(strings.ReplaceAll(src, "\r\n", "\n"), "\n")

	var blocks []Block
	var para []string

	flushPara := func() {
		if len(para) == 0 {
			return
		}
		blocks = append(blocks, Paragraph{Runs: ParseRuns(strings.Join(para, " "))})
		para = nil
	}

	i := 0
	for i < len(lines) {
		line := lines[i]
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "":
			flushPara()
			i++

		case isHeading(trimmed):
			flushPara()
			level, text := splitHeading(trimmed)
			blocks = append(blocks, Heading{Level: level, Runs: ParseRuns(text)})
			i++

		case isTableRow(trimmed):
			flushPara()
			var rows []string
			for i < len(lines) && isTableRow(strings.TrimSpace(lines[i])) {
				rows = append(rows, strings.TrimSpace(lines[i]))
				i++
			}
			blocks = append(blocks, parseTable(rows))

		case isListLine(line):
			flushPara()
			var items []ListItem
			ordered := false
			first := true
			for i < len(lines) && isListLine(lines[i]) {
				item, ord := parseListItem(lines[i])
				if first {
					ordered = ord
					first = false
				}
				items = append(items, item)
				i++
			}
			blocks = append(blocks, List{Ordered: ordered, Items: items})

		default:
			para = append(para, trimmed)
			i++
		}
	}
	flushPara()
	return blocks
}

// isHeading reports whether a trimmed line is an ATX heading: one to
// six '#' characters followed by whitespace.
func isHeading(s string) bool {
	n := 0
	for n < len(s) && s[n] == '#' {
		n++
	}
	if n == 0 || n > 6 || n >= len(s) {
		return false
	}
	return s[n] == ' ' || s[n] == '\t'
}

func splitHeading(s string) (level int, text string) {
	for level < len(s) && s[level] == '#' {
		level++
	}
	return level, strings.TrimSpace(s[level:])
}

// isTableRow reports whether a trimmed line looks like a pipe table
// row: it starts and ends with '|'.
func isTableRow(s string) bool {
	return len(s) >= 2 && s[0] == '|' && s[len(s)-1] == '|'
}

// parseTable builds a Table from a run of pipe rows. The first row is
// the header and fixes the column count; a second row made only of
// dashes, colons, and whitespace is the separator and is dropped.
// Body rows are padded or truncated to the header width.
func parseTable(rows []string) Table {
	header := splitRow(rows[0])
	t := Table{Header: header}

	body := rows[1:]
	if len(body) > 0 && isSeparatorRow(body[0]) {
		body = body[1:]
	}

	for _, raw := range body {
		cells := splitRow(raw)
		switch {
		case len(cells) < len(header):
			padded := make([]string, len(header))
			copy(padded, cells)
			cells = padded
		case len(cells) > len(header):
			cells = cells[:len(header)]
		}
		t.Rows = append(t.Rows, cells)
	}
	return t
}

// splitRow splits "| a | b |" into its trimmed cell values.
func splitRow(s string) []string {
	parts := strings.Split(s, "|")
	if len(parts) < 3 {
		return nil
	}
	cells := make([]string, 0, len(parts)-2)
	for _, p := range parts[1 : len(parts)-1] {
		cells = append(cells, strings.TrimSpace(p))
	}
	return cells
}

// isSeparatorRow reports whether a row consists only of dashes,
// colons, pipes, and whitespace, e.g. "|---|:--:|".
func isSeparatorRow(s string) bool {
	seen := false
	for _, r := range s {
		switch r {
		case '-':
			seen = true
		case ':', '|', ' ', '\t':
		default:
			return false
		}
	}
	return seen
}

// isListLine reports whether a line (indentation preserved) is a list
// item: a '-' or '*' bullet or a numeric "1." marker followed by a
// space.
func isListLine(line string) bool {
	s := strings.TrimLeft(line, " \t")
	if strings.HasPrefix(s, "- ") || strings.HasPrefix(s, "* ") {
		return true
	}
	return ordinalPrefix(s) > 0
}

// ordinalPrefix returns the length of a "12. " style marker at the
// start of s, or 0 if there is none.
func ordinalPrefix(s string) int {
	n := 0
	for n < len(s) && s[n] >= '0' && s[n] <= '9' {
		n++
	}
	if n == 0 || n+1 >= len(s) {
		return 0
	}
	if s[n] != '.' || s[n+1] != ' ' {
		return 0
	}
	return n + 2
}

// parseListItem extracts one list item. Nesting depth is derived from
// leading indentation, two spaces per level.
func parseListItem(line string) (ListItem, bool) {
	indent := 0
	for indent < len(line) && line[indent] == ' ' {
		indent++
	}
	s := strings.TrimLeft(line, " \t")

	ordered := false
	if strings.HasPrefix(s, "- ") || strings.HasPrefix(s, "* ") {
		s = s[2:]
	} else if n := ordinalPrefix(s); n > 0 {
		s = s[n:]
		ordered = true
	}

	return ListItem{Runs: ParseRuns(strings.TrimSpace(s)), Level: indent / 2}, ordered
}
