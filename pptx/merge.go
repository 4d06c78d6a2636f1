package pptx

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/tsawler/typeset/markdown"
	"github.com/tsawler/typeset/plan"
)

// Merge executes a merge plan against an existing presentation and
// writes the result to outPath.
//
// Kept slides are carried through byte-for-byte: every part of the
// source package is copied verbatim except the slide parts being
// replaced and the three parts that enumerate slides (presentation.xml,
// its relationships, and [Content_Types].xml), which are textually
// patched so that everything else in them survives untouched. Appended
// slides get fresh part names after the highest existing slide number,
// so they can never collide with a kept slide.
func Merge(existingPath, outPath string, p plan.Plan, opts Options) error {
	zr, err := zip.OpenReader(existingPath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", existingPath, err)
	}
	defer zr.Close()

	replaced := make(map[string]*markdown.Section)
	var appends []*markdown.Section
	for _, e := range p.Entries {
		switch e.Op {
		case plan.Replace:
			part, ok := e.Page.Handle.(string)
			if !ok {
				return fmt.Errorf("replace entry for page %d has a non-PPTX handle", e.Page.Index)
			}
			replaced[part] = e.Section
		case plan.Append:
			appends = append(appends, e.Section)
		}
	}

	slideNum, layoutTarget := nextSlideNumber(&zr.Reader)

	patched, err := patchSlideIndex(&zr.Reader, len(appends), slideNum)
	if err != nil {
		return err
	}

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", outPath, err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	write := func(name, content string) error {
		w, err := zw.Create(name)
		if err != nil {
			return fmt.Errorf("creating part %s: %w", name, err)
		}
		_, err = w.Write([]byte(content))
		return err
	}

	for _, f := range zr.File {
		if sec, ok := replaced[f.Name]; ok {
			if err := write(f.Name, slideMarkup(sec.Title, sec.Blocks, opts)); err != nil {
				zw.Close()
				return err
			}
			continue
		}
		if content, ok := patched[f.Name]; ok {
			if err := write(f.Name, content); err != nil {
				zw.Close()
				return err
			}
			continue
		}
		if err := copyPart(zw, f); err != nil {
			zw.Close()
			return err
		}
	}

	for i, sec := range appends {
		name := fmt.Sprintf("ppt/slides/slide%d.xml", slideNum+i)
		if err := write(name, slideMarkup(sec.Title, sec.Blocks, opts)); err != nil {
			zw.Close()
			return err
		}
		relsName := fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", slideNum+i)
		if err := write(relsName, slideRels(layoutTarget)); err != nil {
			zw.Close()
			return err
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalizing %s: %w", outPath, err)
	}
	return nil
}

// copyPart copies one zip entry verbatim.
func copyPart(zw *zip.Writer, f *zip.File) error {
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("reading part %s: %w", f.Name, err)
	}
	defer rc.Close()

	w, err := zw.Create(f.Name)
	if err != nil {
		return fmt.Errorf("creating part %s: %w", f.Name, err)
	}
	_, err = io.Copy(w, rc)
	return err
}

// nextSlideNumber returns the first free slideN number in the package
// and the relative layout target new slides should reference.
func nextSlideNumber(zr *zip.Reader) (int, string) {
	max := 0
	layout := "../slideLayouts/slideLayout1.xml"
	var layouts []string
	for _, f := range zr.File {
		if isSlidePart(f.Name) {
			if n := slideNumber(f.Name); n > max {
				max = n
			}
		}
		if strings.HasPrefix(f.Name, "ppt/slideLayouts/slideLayout") &&
			strings.HasSuffix(f.Name, ".xml") && !strings.Contains(f.Name, "_rels") {
			layouts = append(layouts, f.Name)
		}
	}
	if len(layouts) > 0 {
		sort.Strings(layouts)
		layout = "../slideLayouts/" + path.Base(layouts[0])
	}
	return max + 1, layout
}

// patchSlideIndex produces updated contents for the three parts that
// enumerate slides, registering appendCount new slides starting at
// firstSlideNum. The parts are patched by inserting elements ahead of
// their closing tags so that unrelated content is preserved exactly.
func patchSlideIndex(zr *zip.Reader, appendCount, firstSlideNum int) (map[string]string, error) {
	if appendCount == 0 {
		return nil, nil
	}

	presData, err := partContent(zr, "ppt/presentation.xml")
	if err != nil {
		return nil, err
	}
	relsData, err := partContent(zr, "ppt/_rels/presentation.xml.rels")
	if err != nil {
		return nil, err
	}
	typesData, err := partContent(zr, "[Content_Types].xml")
	if err != nil {
		return nil, err
	}

	firstRID := maxRelationshipID(relsData) + 1
	firstSldID := maxSlideID(presData) + 1

	var sldIds, rels, overrides strings.Builder
	for i := 0; i < appendCount; i++ {
		num := firstSlideNum + i
		sldIds.WriteString(fmt.Sprintf(`<p:sldId id="%d" r:id="rId%d"/>`, firstSldID+i, firstRID+i))
		rels.WriteString(fmt.Sprintf(`<Relationship Id="rId%d" Type="%s/slide" Target="slides/slide%d.xml"/>`, firstRID+i, nsRelationships, num))
		overrides.WriteString(fmt.Sprintf(`<Override PartName="/ppt/slides/slide%d.xml" ContentType="%s"/>`, num, slideContentType))
	}

	pres := string(presData)
	if !strings.Contains(pres, "</p:sldIdLst>") {
		return nil, fmt.Errorf("presentation.xml has no p:sldIdLst element; cannot append slides")
	}
	pres = strings.Replace(pres, "</p:sldIdLst>", sldIds.String()+"</p:sldIdLst>", 1)

	relsStr := string(relsData)
	if !strings.Contains(relsStr, "</Relationships>") {
		return nil, fmt.Errorf("presentation.xml.rels is malformed; cannot append slides")
	}
	relsStr = strings.Replace(relsStr, "</Relationships>", rels.String()+"</Relationships>", 1)

	typesStr := string(typesData)
	if !strings.Contains(typesStr, "</Types>") {
		return nil, fmt.Errorf("[Content_Types].xml is malformed; cannot append slides")
	}
	typesStr = strings.Replace(typesStr, "</Types>", overrides.String()+"</Types>", 1)

	return map[string]string{
		"ppt/presentation.xml":            pres,
		"ppt/_rels/presentation.xml.rels": relsStr,
		"[Content_Types].xml":             typesStr,
	}, nil
}

// partContent reads one part from the package.
func partContent(zr *zip.Reader, name string) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil, fmt.Errorf("reading part %s: %w", name, err)
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, fmt.Errorf("missing required file: %s", name)
}

// maxRelationshipID returns the highest numeric rIdN in a
// relationships part, or 0 when there is none.
func maxRelationshipID(data []byte) int {
	var rels relationshipsXML
	if err := xml.Unmarshal(data, &rels); err != nil {
		return 0
	}
	max := 0
	for _, rel := range rels.Relationship {
		if n, err := strconv.Atoi(strings.TrimPrefix(rel.ID, "rId")); err == nil && n > max {
			max = n
		}
	}
	return max
}

// maxSlideID returns the highest sldId id in presentation.xml. Slide
// ids are required to be 256 or greater, so that is the floor.
func maxSlideID(data []byte) int {
	var pres presentationXML
	if err := xml.Unmarshal(data, &pres); err != nil {
		return 255
	}
	max := 255
	if pres.SlideIdList != nil {
		for _, sld := range pres.SlideIdList.SlideId {
			if n, err := strconv.Atoi(sld.ID); err == nil && n > max {
				max = n
			}
		}
	}
	return max
}
