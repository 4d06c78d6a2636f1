package markdown

import (
	"reflect"
	"testing"
)

func TestParseRuns(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Run
	}{
		{
			"plain text",
			"hello world",
			[]Run{{Text: "hello world"}},
		},
		{
			"bold",
			"a **b** c",
			[]Run{{Text: "a "}, {Text: "b", Bold: true}, {Text: " c"}},
		},
		{
			"italic",
			"a *b* c",
			[]Run{{Text: "a "}, {Text: "b", Italic: true}, {Text: " c"}},
		},
		{
			"code",
			"run `go test` now",
			[]Run{{Text: "run "}, {Text: "go test", Code: true}, {Text: " now"}},
		},
		{
			"link",
			"see [docs](https://example.com) here",
			[]Run{{Text: "see "}, {Text: "docs", Link: "https://example.com"}, {Text: " here"}},
		},
		{
			"unmatched bold marker is literal",
			"a ** b",
			[]Run{{Text: "a ** b"}},
		},
		{
			"unmatched italic marker is literal",
			"2 * 3",
			[]Run{{Text: "2 * 3"}},
		},
		{
			"unmatched bracket is literal",
			"a [b c",
			[]Run{{Text: "a [b c"}},
		},
		{
			"spans do not nest",
			"**a *b* c**",
			[]Run{{Text: "a *b* c", Bold: true}},
		},
		{
			"multiple spans",
			"**a** and *b*",
			[]Run{{Text: "a", Bold: true}, {Text: " and "}, {Text: "b", Italic: true}},
		},
		{
			"empty input",
			"",
			nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseRuns(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseRuns(%q) = %#v, want %#v", tt.input, got, tt.want)
			}
		})
	}
}

func TestPlainText(t *testing.T) {
	runs := ParseRuns("**bold** and [link](http://x) and `code`")
	if got := PlainText(runs); got != "bold and link and code" {
		t.Errorf("PlainText = %q", got)
	}
}
