package assemble

import (
	"testing"

	"github.com/tsawler/fastvision/schema"
)

func samplePage() PageInput {
	return PageInput{
		PageNumber: 1,
		Width:      612,
		Height:     792,
		Blocks: []BlockInput{
			{
				ID:           "b-1",
				Text:         "Heading",
				Bbox:         [4]float64{72, 36, 300, 56},
				Words:        []WordInput{{Text: "Heading", Bbox: [4]float64{72, 36, 180, 56}}},
				BlockType:    "heading",
				Role:         "section_title",
				ReadingOrder: 0,
				StyleID:      "abc123",
			},
			{
				ID:           "b-0",
				Text:         "intro paragraph",
				Bbox:         [4]float64{72, 60, 300, 80},
				BlockType:    "paragraph",
				Role:         "paragraph",
				ReadingOrder: 1,
			},
		},
	}
}

func TestAssembleBasicShape(t *testing.T) {
	doc := Assemble("doc-1", schema.SourcePDF, []PageInput{samplePage()}, map[string]schema.Style{})

	if doc.Document.DocumentID != "doc-1" || doc.Document.SchemaVersion != "3.0" {
		t.Fatalf("got %+v", doc.Document)
	}
	if doc.Document.PageCount != 1 || len(doc.Pages) != 1 {
		t.Fatalf("expected 1 page, got %+v", doc.Pages)
	}
	if len(doc.Blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(doc.Blocks))
	}
	if len(doc.Spans) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(doc.Spans))
	}
	if len(doc.Tokens) != 1 {
		t.Fatalf("expected 1 token, got %d", len(doc.Tokens))
	}
	if len(doc.ReadingGraph) != 1 {
		t.Fatalf("expected 1 reading-graph edge, got %d", len(doc.ReadingGraph))
	}
}

func TestAssembleSortsByReadingOrder(t *testing.T) {
	doc := Assemble("doc-1", schema.SourcePDF, []PageInput{samplePage()}, nil)
	if doc.Blocks[0].ID != "b-1" || doc.Blocks[1].ID != "b-0" {
		t.Fatalf("expected reading-order sort to put b-1 first, got %q then %q", doc.Blocks[0].ID, doc.Blocks[1].ID)
	}
}

func TestAssembleHTMLTagMapping(t *testing.T) {
	doc := Assemble("doc-1", schema.SourcePDF, []PageInput{samplePage()}, nil)
	if doc.Blocks[0].HTML != "<h2>Heading</h2>" {
		t.Fatalf("got %q", doc.Blocks[0].HTML)
	}
	if doc.Blocks[1].HTML != "<p>intro paragraph</p>" {
		t.Fatalf("got %q", doc.Blocks[1].HTML)
	}
}

func TestAssembleNormalizesBbox(t *testing.T) {
	doc := Assemble("doc-1", schema.SourcePDF, []PageInput{samplePage()}, nil)
	norm := *doc.Blocks[1].BboxNorm
	if norm[0] != round6(72.0/612) {
		t.Fatalf("got %v", norm)
	}
}

func TestAssembleAddsTableBlockAndChainsEdge(t *testing.T) {
	bbox := schema.Box{72, 100, 540, 200}
	page := samplePage()
	page.Tables = []schema.Table{{
		ID: "t-1", Page: 1, Rows: 2, Cols: 2, Bbox: &bbox,
		Cells: []schema.TableCell{{Row: 0, Col: 0, Bbox: schema.Box{72, 100, 300, 150}}},
	}}
	doc := Assemble("doc-1", schema.SourcePDF, []PageInput{page}, nil)

	if len(doc.Tables) != 1 {
		t.Fatalf("expected 1 table, got %d", len(doc.Tables))
	}
	last := doc.Blocks[len(doc.Blocks)-1]
	if last.ID != "t-1" || last.Type != schema.BlockTable || last.Text != "[TABLE]" {
		t.Fatalf("expected a synthetic table block, got %+v", last)
	}
	edge := doc.ReadingGraph[len(doc.ReadingGraph)-1]
	if edge.To != "t-1" {
		t.Fatalf("expected the last edge to chain into the table block, got %+v", edge)
	}
}

func TestValidateRejectsUnknownPageCount(t *testing.T) {
	doc := Assemble("doc-1", schema.SourcePDF, []PageInput{samplePage()}, nil)
	doc.Document.PageCount = 2
	if err := Validate(doc); err == nil {
		t.Fatal("expected a validation error for mismatched page_count")
	}
}

func TestValidateAcceptsWellFormedDocument(t *testing.T) {
	doc := Assemble("doc-1", schema.SourcePDF, []PageInput{samplePage()}, nil)
	if err := Validate(doc); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}
