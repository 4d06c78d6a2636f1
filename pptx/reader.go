package pptx

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/tsawler/typeset/plan"
)

// Reader exposes the slide/title view of an existing presentation.
// Each slide's opaque handle is its package part name (for example
// "ppt/slides/slide3.xml"), which the merge executor uses to address
// the part byte-for-byte.
type Reader struct {
	zipReader  *zip.ReadCloser
	slideParts []string // in presentation order
	titles     []string // parallel to slideParts, "" when no title placeholder
}

// Open opens a PPTX file for reading.
func Open(filename string) (*Reader, error) {
	zr, err := zip.OpenReader(filename)
	if err != nil {
		return nil, fmt.Errorf("opening ZIP archive: %w", err)
	}

	r := &Reader{zipReader: zr}

	if err := r.validate(); err != nil {
		zr.Close()
		return nil, err
	}
	if err := r.parseSlides(); err != nil {
		zr.Close()
		return nil, err
	}
	return r, nil
}

// Close releases resources associated with the Reader.
func (r *Reader) Close() error {
	if r.zipReader != nil {
		err := r.zipReader.Close()
		r.zipReader = nil
		return err
	}
	return nil
}

// validate checks that required PPTX files exist.
func (r *Reader) validate() error {
	required := []string{
		"[Content_Types].xml",
		"ppt/presentation.xml",
	}

	fileMap := make(map[string]bool)
	for _, f := range r.zipReader.File {
		fileMap[f.Name] = true
	}

	for _, name := range required {
		if !fileMap[name] {
			return fmt.Errorf("missing required file: %s", name)
		}
	}

	hasSlide := false
	for name := range fileMap {
		if isSlidePart(name) {
			hasSlide = true
			break
		}
	}
	if !hasSlide {
		return fmt.Errorf("no slides found in presentation")
	}

	return nil
}

// isSlidePart reports whether a package part is a slide body (not a
// relationships file).
func isSlidePart(name string) bool {
	return strings.HasPrefix(name, "ppt/slides/slide") &&
		strings.HasSuffix(name, ".xml") &&
		!strings.Contains(name, "_rels")
}

// slideNumber extracts the slide number from a part name like
// "ppt/slides/slide1.xml".
func slideNumber(part string) int {
	name := strings.TrimPrefix(part, "ppt/slides/slide")
	name = strings.TrimSuffix(name, ".xml")
	var num int
	fmt.Sscanf(name, "%d", &num)
	return num
}

// getFileContent reads the content of a file from the ZIP archive.
func (r *Reader) getFileContent(name string) ([]byte, error) {
	for _, f := range r.zipReader.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, fmt.Errorf("file not found: %s", name)
}

// parseSlides finds all slide parts in presentation order and extracts
// each slide's title.
func (r *Reader) parseSlides() error {
	for _, f := range r.zipReader.File {
		if isSlidePart(f.Name) {
			r.slideParts = append(r.slideParts, f.Name)
		}
	}
	sort.Slice(r.slideParts, func(i, j int) bool {
		return slideNumber(r.slideParts[i]) < slideNumber(r.slideParts[j])
	})

	r.titles = make([]string, len(r.slideParts))
	for i, part := range r.slideParts {
		title, err := r.extractTitle(part)
		if err != nil {
			continue // best-effort: a slide that fails to parse has no title
		}
		r.titles[i] = title
	}
	return nil
}

// extractTitle returns the text of a slide's title placeholder, or ""
// when the slide has none.
func (r *Reader) extractTitle(part string) (string, error) {
	data, err := r.getFileContent(part)
	if err != nil {
		return "", err
	}

	var slide slideXML
	if err := xml.Unmarshal(data, &slide); err != nil {
		return "", err
	}

	for _, sp := range slide.CSld.SpTree.Sp {
		ph := sp.NvSpPr.NvPr.Ph
		if ph == nil || (ph.Type != "title" && ph.Type != "ctrTitle") {
			continue
		}
		if sp.TxBody == nil {
			continue
		}
		var text strings.Builder
		for _, p := range sp.TxBody.P {
			for _, run := range p.R {
				text.WriteString(run.T)
			}
		}
		return strings.TrimSpace(text.String()), nil
	}
	return "", nil
}

// SlideCount returns the number of slides.
func (r *Reader) SlideCount() int {
	return len(r.slideParts)
}

// Pages returns the slide list as planner pages, in presentation
// order.
func (r *Reader) Pages() []plan.Page {
	pages := make([]plan.Page, len(r.slideParts))
	for i, part := range r.slideParts {
		pages[i] = plan.Page{Index: i, Title: r.titles[i], Handle: part}
	}
	return pages
}
