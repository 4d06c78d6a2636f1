package pdf

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/tsawler/typeset/plan"
)

// PageCount returns the number of pages in an existing PDF.
func PageCount(filename string) (int, error) {
	n, err := api.PageCountFile(filename)
	if err != nil {
		return 0, fmt.Errorf("counting pages in %s: %w", filename, err)
	}
	return n, nil
}

// Merge executes a merge plan against an existing PDF and writes the
// result to outPath.
//
// Kept pages are extracted from the source in contiguous runs with
// pdfcpu, so their content is carried through unchanged. Replaced and
// appended sections are rendered into intermediate single-section
// PDFs, and the ordered pieces are merged into the final artifact. All
// intermediates live in a temporary directory that is removed before
// returning; the output file is only produced by the final merge, so a
// failure anywhere leaves no partial output.
func Merge(existingPath, outPath string, p plan.Plan, opts Options) error {
	tmpDir, err := os.MkdirTemp("", "typeset-pdf-")
	if err != nil {
		return fmt.Errorf("creating temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	conf := model.NewDefaultConfiguration()

	var pieces []string
	npiece := 0
	piecePath := func() string {
		npiece++
		return filepath.Join(tmpDir, fmt.Sprintf("piece%d.pdf", npiece))
	}

	// Contiguous kept pages are extracted together.
	runStart, runEnd := 0, 0 // 1-based, inclusive; 0 = no open run
	flushKept := func() error {
		if runStart == 0 {
			return nil
		}
		out := piecePath()
		sel := []string{fmt.Sprintf("%d-%d", runStart, runEnd)}
		if err := api.TrimFile(existingPath, out, sel, conf); err != nil {
			return fmt.Errorf("extracting pages %d-%d from %s: %w", runStart, runEnd, existingPath, err)
		}
		pieces = append(pieces, out)
		runStart, runEnd = 0, 0
		return nil
	}

	for _, e := range p.Entries {
		switch e.Op {
		case plan.Keep:
			num, ok := e.Page.Handle.(int)
			if !ok {
				return fmt.Errorf("keep entry for page %d has a non-PDF handle", e.Page.Index)
			}
			if runStart != 0 && num == runEnd+1 {
				runEnd = num
				continue
			}
			if err := flushKept(); err != nil {
				return err
			}
			runStart, runEnd = num, num

		case plan.Replace, plan.Append:
			if err := flushKept(); err != nil {
				return err
			}
			out := piecePath()
			if err := RenderSection(out, *e.Section, opts); err != nil {
				return err
			}
			pieces = append(pieces, out)
		}
	}
	if err := flushKept(); err != nil {
		return err
	}

	if len(pieces) == 0 {
		return fmt.Errorf("merge plan produced no output pages")
	}
	if len(pieces) == 1 {
		data, err := os.ReadFile(pieces[0])
		if err != nil {
			return err
		}
		return os.WriteFile(outPath, data, 0o644)
	}
	if err := api.MergeCreateFile(pieces, outPath, false, conf); err != nil {
		return fmt.Errorf("merging into %s: %w", outPath, err)
	}
	return nil
}
