package assemble

import (
	"fmt"

	"github.com/tsawler/fastvision/schema"
)

// Validate checks the structural invariants a LayoutDocument must satisfy
// before it is safe to emit, returning the field path of the first
// violation found.
func Validate(doc *schema.Document) error {
	if doc.Document.DocumentID == "" {
		return fmt.Errorf("document.document_id: must not be empty")
	}
	if doc.Document.SchemaVersion != "3.0" {
		return fmt.Errorf("document.schema_version: got %q, want \"3.0\"", doc.Document.SchemaVersion)
	}
	if doc.Document.PageCount != len(doc.Pages) {
		return fmt.Errorf("document.page_count: got %d, want %d (len(pages))", doc.Document.PageCount, len(doc.Pages))
	}

	pageNumbers := make(map[int]bool, len(doc.Pages))
	for i, p := range doc.Pages {
		if p.PageNumber < 1 {
			return fmt.Errorf("pages[%d].page_number: must be >= 1, got %d", i, p.PageNumber)
		}
		if p.Width <= 0 || p.Height <= 0 {
			return fmt.Errorf("pages[%d]: width/height must be positive, got %vx%v", i, p.Width, p.Height)
		}
		pageNumbers[p.PageNumber] = true
	}

	for i, b := range doc.Blocks {
		if b.ID == "" {
			return fmt.Errorf("blocks[%d].id: must not be empty", i)
		}
		if !pageNumbers[b.Page] {
			return fmt.Errorf("blocks[%d].page: %d does not reference a known page", i, b.Page)
		}
		if err := validBbox(b.Bbox); err != nil {
			return fmt.Errorf("blocks[%d].bbox: %w", i, err)
		}
	}

	for i, t := range doc.Tables {
		if !pageNumbers[t.Page] {
			return fmt.Errorf("tables[%d].page: %d does not reference a known page", i, t.Page)
		}
		for j, c := range t.Cells {
			if err := validBbox(c.Bbox); err != nil {
				return fmt.Errorf("tables[%d].cells[%d].bbox: %w", i, j, err)
			}
		}
	}

	blockIDs := make(map[string]bool, len(doc.Blocks))
	for _, b := range doc.Blocks {
		blockIDs[b.ID] = true
	}
	for i, e := range doc.ReadingGraph {
		if !blockIDs[e.From] {
			return fmt.Errorf("reading_graph[%d].from: %q does not reference a known block", i, e.From)
		}
		if !blockIDs[e.To] {
			return fmt.Errorf("reading_graph[%d].to: %q does not reference a known block", i, e.To)
		}
	}

	return nil
}

func validBbox(b schema.Box) error {
	if b[2] < b[0] || b[3] < b[1] {
		return fmt.Errorf("x1<x0 or y1<y0 (%v)", b)
	}
	return nil
}
