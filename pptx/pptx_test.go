package pptx

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tsawler/typeset/markdown"
	"github.com/tsawler/typeset/plan"
)

func writeDeck(t *testing.T, path string, sections []markdown.Section) {
	t.Helper()
	if err := Write(path, sections, DefaultOptions()); err != nil {
		t.Fatalf("Write: %v", err)
	}
}

func readPart(t *testing.T, path, part string) []byte {
	t.Helper()
	zr, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("opening %s: %v", path, err)
	}
	defer zr.Close()
	for _, f := range zr.File {
		if f.Name == part {
			rc, err := f.Open()
			if err != nil {
				t.Fatalf("opening part %s: %v", part, err)
			}
			defer rc.Close()
			data, err := io.ReadAll(rc)
			if err != nil {
				t.Fatalf("reading part %s: %v", part, err)
			}
			return data
		}
	}
	t.Fatalf("part %s not found in %s", part, path)
	return nil
}

func titles(t *testing.T, path string) []string {
	t.Helper()
	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()
	pages := r.Pages()
	out := make([]string, len(pages))
	for i, pg := range pages {
		out[i] = pg.Title
	}
	return out
}

func TestWriteOpenRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deck.pptx")
	writeDeck(t, path, []markdown.Section{
		{Title: "Overview", Blocks: []markdown.Block{
			markdown.Paragraph{Runs: markdown.ParseRuns("Some **bold** prose.")},
		}},
		{Title: "Q4 Results", Blocks: []markdown.Block{
			markdown.Table{Header: []string{"Region", "Sales"}, Rows: [][]string{{"West", "120"}}},
		}},
		{Title: ""},
	})

	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()

	if got := r.SlideCount(); got != 3 {
		t.Fatalf("SlideCount = %d, want 3", got)
	}

	pages := r.Pages()
	want := []string{"Overview", "Q4 Results", ""}
	for i, pg := range pages {
		if pg.Title != want[i] {
			t.Errorf("slide %d title = %q, want %q", i, pg.Title, want[i])
		}
		if pg.Index != i {
			t.Errorf("slide %d index = %d", i, pg.Index)
		}
		part, ok := pg.Handle.(string)
		if !ok || !strings.HasPrefix(part, "ppt/slides/slide") {
			t.Errorf("slide %d handle = %v, want a slide part name", i, pg.Handle)
		}
	}
}

func TestWriteEscapesTitleText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deck.pptx")
	writeDeck(t, path, []markdown.Section{{Title: `Profit & Loss <2026>`}})

	got := titles(t, path)
	if len(got) != 1 || got[0] != `Profit & Loss <2026>` {
		t.Fatalf("titles = %v", got)
	}
}

func TestOpenRejectsNonZip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bogus.pptx")
	if err := os.WriteFile(path, []byte("not a zip archive"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(path); err == nil {
		t.Fatal("expected error opening non-zip file")
	}
}

func TestOpenRejectsMissingParts(t *testing.T) {
	tests := []struct {
		name  string
		parts map[string]string
	}{
		{
			name: "no presentation.xml",
			parts: map[string]string{
				"[Content_Types].xml":   "<Types/>",
				"ppt/slides/slide1.xml": "<p:sld/>",
			},
		},
		{
			name: "no slides",
			parts: map[string]string{
				"[Content_Types].xml":  "<Types/>",
				"ppt/presentation.xml": "<p:presentation/>",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "partial.pptx")
			f, err := os.Create(path)
			if err != nil {
				t.Fatal(err)
			}
			zw := zip.NewWriter(f)
			for name, content := range tt.parts {
				w, err := zw.Create(name)
				if err != nil {
					t.Fatal(err)
				}
				if _, err := w.Write([]byte(content)); err != nil {
					t.Fatal(err)
				}
			}
			if err := zw.Close(); err != nil {
				t.Fatal(err)
			}
			f.Close()

			if _, err := Open(path); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestSlideNumber(t *testing.T) {
	tests := []struct {
		part string
		want int
	}{
		{"ppt/slides/slide1.xml", 1},
		{"ppt/slides/slide12.xml", 12},
		{"ppt/slides/slideX.xml", 0},
	}
	for _, tt := range tests {
		if got := slideNumber(tt.part); got != tt.want {
			t.Errorf("slideNumber(%q) = %d, want %d", tt.part, got, tt.want)
		}
	}
}

func TestMergeReplaceAndAppend(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "existing.pptx")
	out := filepath.Join(dir, "merged.pptx")

	writeDeck(t, existing, []markdown.Section{
		{Title: "Intro"},
		{Title: "Summary"},
	})

	r, err := Open(existing)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	pages := r.Pages()
	r.Close()

	sections := []markdown.Section{
		{Title: "Summary", Blocks: []markdown.Block{
			markdown.Paragraph{Runs: markdown.ParseRuns("Updated summary.")},
		}},
		{Title: "Outlook"},
	}
	p := plan.Build(pages, sections)
	if p.Replaced() != 1 || p.Appended() != 1 {
		t.Fatalf("plan: replaced=%d appended=%d", p.Replaced(), p.Appended())
	}

	if err := Merge(existing, out, p, DefaultOptions()); err != nil {
		t.Fatalf("Merge: %v", err)
	}

	got := titles(t, out)
	want := []string{"Intro", "Summary", "Outlook"}
	if len(got) != len(want) {
		t.Fatalf("titles = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("slide %d title = %q, want %q", i, got[i], want[i])
		}
	}

	// The kept slide must come through byte-for-byte.
	before := readPart(t, existing, "ppt/slides/slide1.xml")
	after := readPart(t, out, "ppt/slides/slide1.xml")
	if !bytes.Equal(before, after) {
		t.Error("kept slide part was modified by merge")
	}

	// The replaced slide must carry the new body text.
	replaced := readPart(t, out, "ppt/slides/slide2.xml")
	if !bytes.Contains(replaced, []byte("Updated summary.")) {
		t.Error("replaced slide is missing new content")
	}

	// The appended slide must be registered in the slide index.
	pres := readPart(t, out, "ppt/presentation.xml")
	if n := bytes.Count(pres, []byte("<p:sldId ")); n != 3 {
		t.Errorf("presentation.xml lists %d slides, want 3", n)
	}
	types := readPart(t, out, "[Content_Types].xml")
	if !bytes.Contains(types, []byte("/ppt/slides/slide3.xml")) {
		t.Error("[Content_Types].xml is missing the appended slide override")
	}
}

func TestMergeAppendOnly(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "existing.pptx")
	out := filepath.Join(dir, "merged.pptx")

	writeDeck(t, existing, []markdown.Section{{Title: "Alpha"}, {Title: "Beta"}})

	r, err := Open(existing)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	pages := r.Pages()
	r.Close()

	p := plan.AppendAll(pages, []markdown.Section{{Title: "Gamma"}})
	if err := Merge(existing, out, p, DefaultOptions()); err != nil {
		t.Fatalf("Merge: %v", err)
	}

	got := titles(t, out)
	want := []string{"Alpha", "Beta", "Gamma"}
	if len(got) != len(want) {
		t.Fatalf("titles = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("slide %d title = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestMergeReplaceOnlyLeavesIndexUntouched(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "existing.pptx")
	out := filepath.Join(dir, "merged.pptx")

	writeDeck(t, existing, []markdown.Section{{Title: "Only"}})

	r, err := Open(existing)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	pages := r.Pages()
	r.Close()

	p := plan.Build(pages, []markdown.Section{{Title: "only"}})
	if err := Merge(existing, out, p, DefaultOptions()); err != nil {
		t.Fatalf("Merge: %v", err)
	}

	before := readPart(t, existing, "ppt/presentation.xml")
	after := readPart(t, out, "ppt/presentation.xml")
	if !bytes.Equal(before, after) {
		t.Error("presentation.xml changed on a replace-only merge")
	}
}
