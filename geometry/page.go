package geometry

import (
	"fmt"

	"github.com/tsawler/fastvision/core"
	"github.com/tsawler/fastvision/pages"
	"github.com/tsawler/fastvision/reader"
	"github.com/tsawler/fastvision/schema"
)

// PageResult holds one PDF page's geometric blocks plus the page dimensions
// needed for bbox normalization and table dispatch.
type PageResult struct {
	PageNumber int
	Width      float64
	Height     float64
	Blocks     []Block
}

// ExtractPage runs the full chars->words->lines->blocks pipeline for a
// single PDF page (§4.1-§4.4). A page whose content stream fails to
// decode degrades to an empty PageResult rather than aborting the
// document (§7 PageExtractionFailure).
func ExtractPage(r *reader.Reader, page *pages.Page, pageNumber int, ids schema.IDGenerator) PageResult {
	width, err := page.Width()
	if err != nil || width <= 0 {
		width = 612
	}
	height, err := page.Height()
	if err != nil || height <= 0 {
		height = 792
	}

	result := PageResult{PageNumber: pageNumber, Width: width, Height: height}

	fragments, err := r.ExtractTextFragments(page)
	if err != nil || len(fragments) == 0 {
		return result
	}

	chars := ExtractChars(fragments)
	words := BuildWords(chars)
	lines := BuildLines(words)
	result.Blocks = BuildBlocks(lines, ids)
	return result
}

// PageContentBytes decodes and concatenates a page's content streams, used
// by tablesx for ruling-line detection independent of text extraction.
func PageContentBytes(r *reader.Reader, page *pages.Page) ([]byte, error) {
	contents, err := page.Contents()
	if err != nil {
		return nil, fmt.Errorf("page contents: %w", err)
	}
	var all []byte
	for _, obj := range contents {
		stream, ok := obj.(*core.Stream)
		if !ok {
			continue
		}
		data, err := stream.Decode()
		if err != nil {
			continue
		}
		all = append(all, data...)
	}
	return all, nil
}
