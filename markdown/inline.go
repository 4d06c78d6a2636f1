package markdown

import "strings"

// ParseRuns splits a line of text into styled runs. Spans do not nest
// and do not overlap; an opening marker without a matching closer is
// kept as literal text.
func ParseRuns(s string) []Run {
	var runs []Run
	var plain strings.Builder

	flush := func() {
		if plain.Len() > 0 {
			runs = append(runs, Run{Text: plain.String()})
			plain.Reset()
		}
	}

	i := 0
	for i < len(s) {
		switch {
		case strings.HasPrefix(s[i:], "**"):
			if end := strings.Index(s[i+2:], "**"); end >= 0 {
				flush()
				runs = append(runs, Run{Text: s[i+2 : i+2+end], Bold: true})
				i += end + 4
				continue
			}
			plain.WriteString("**")
			i += 2

		case s[i] == '*':
			if end := strings.IndexByte(s[i+1:], '*'); end >= 0 {
				flush()
				runs = append(runs, Run{Text: s[i+1 : i+1+end], Italic: true})
				i += end + 2
				continue
			}
			plain.WriteByte('*')
			i++

		case s[i] == '`':
			if end := strings.IndexByte(s[i+1:], '`'); end >= 0 {
				flush()
				runs = append(runs, Run{Text: s[i+1 : i+1+end], Code: true})
				i += end + 2
				continue
			}
			plain.WriteByte('`')
			i++

		case s[i] == '[':
			if text, url, consumed, ok := parseLink(s[i:]); ok {
				flush()
				runs = append(runs, Run{Text: text, Link: url})
				i += consumed
				continue
			}
			plain.WriteByte('[')
			i++

		default:
			plain.WriteByte(s[i])
			i++
		}
	}
	flush()
	return runs
}

// parseLink parses a [text](url) span at the start of s. It returns
// the link text, target, and the number of bytes consumed.
func parseLink(s string) (text, url string, consumed int, ok bool) {
	mid := strings.Index(s, "](")
	if mid < 0 {
		return "", "", 0, false
	}
	end := strings.IndexByte(s[mid+2:], ')')
	if end < 0 {
		return "", "", 0, false
	}
	return s[1:mid], s[mid+2 : mid+2+end], mid + 2 + end + 1, true
}
