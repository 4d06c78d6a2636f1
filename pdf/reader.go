package pdf

import (
	"fmt"
	"sort"
	"strings"

	rpdf "rsc.io/pdf"

	"github.com/tsawler/typeset/plan"
)

// Pages returns the page/title view of an existing PDF. Each page's
// title is the text of its topmost line, best-effort: a page whose
// content cannot be extracted simply has an empty title. The opaque
// handle is the 1-based page number the merge executor hands to
// pdfcpu.
func Pages(filename string) ([]plan.Page, error) {
	r, err := rpdf.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", filename, err)
	}

	n := r.NumPage()
	pages := make([]plan.Page, 0, n)
	for i := 1; i <= n; i++ {
		pages = append(pages, plan.Page{
			Index:  i - 1,
			Title:  pageTitle(r, i),
			Handle: i,
		})
	}
	return pages, nil
}

// pageTitle extracts the first text line of a page. The underlying
// parser panics on some malformed content streams; that is treated as
// "no title", never as a failure.
func pageTitle(r *rpdf.Reader, num int) (title string) {
	defer func() {
		if recover() != nil {
			title = ""
		}
	}()

	content := r.Page(num).Content()
	if len(content.Text) == 0 {
		return ""
	}

	// PDF y grows upward: the topmost baseline has the largest y.
	topY := content.Text[0].Y
	for _, t := range content.Text {
		if t.Y > topY {
			topY = t.Y
		}
	}

	var line []rpdf.Text
	for _, t := range content.Text {
		if topY-t.Y < 2 { // same baseline, within tolerance
			line = append(line, t)
		}
	}
	sort.Slice(line, func(i, j int) bool { return line[i].X < line[j].X })

	var sb strings.Builder
	for _, t := range line {
		sb.WriteString(t.S)
	}
	return strings.TrimSpace(sb.String())
}
