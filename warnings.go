package typeset

import "strings"

// Warning codes.
const (
	// WarnNoSections reports that the Markdown document contained no
	// level-2 headings.
	WarnNoSections = "no-sections"
	// WarnNoMatches reports that a replace invocation matched no
	// existing page or slide titles and degraded to append.
	WarnNoMatches = "no-matches"
)

// Warning describes a non-fatal condition that was resolved by policy
// during a conversion. Warnings never prevent output from being
// produced.
type Warning struct {
	Code    string
	Message string
}

// FormatWarnings renders warnings as a single human-readable string,
// one warning per line.
func FormatWarnings(warnings []Warning) string {
	if len(warnings) == 0 {
		return ""
	}
	lines := make([]string, len(warnings))
	for i, w := range warnings {
		lines[i] = w.Message
	}
	return strings.Join(lines, "\n")
}
