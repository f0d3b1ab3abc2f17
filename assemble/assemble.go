// Package assemble builds the final schema.Document from per-page
// geometric blocks, tagger classifications, detected tables and the
// global style table, following §4.11. It is format-agnostic: both the
// PDF and DOCX extraction paths normalize down to a BlockInput/PageInput
// shape before calling Assemble.
package assemble

import (
	"fmt"

	"github.com/tsawler/fastvision/schema"
)

// WordInput is a single word, already positioned in page-absolute
// coordinates.
type WordInput struct {
	Text string
	Bbox [4]float64
}

// BlockInput is one block's data after geometry extraction and semantic
// tagging/matching have both run, but before schema assembly.
type BlockInput struct {
	ID               string
	Text             string
	Bbox             [4]float64
	Words            []WordInput
	BlockType        string
	Role             string
	ReadingOrder     int
	StyleID          string
	Rhetoric         *schema.Rhetoric
	RhetoricFeatures *schema.RhetoricFeatures
}

// PageInput is one page's blocks and already-built tables, in
// page-absolute coordinates.
type PageInput struct {
	PageNumber int
	Width      float64
	Height     float64
	Rotation   int
	Blocks     []BlockInput
	Tables     []schema.Table
}

// Assemble builds the final Document: normalized bboxes, one span per
// block, one token per word, a synthetic block per table, and a
// document-wide "next" reading-graph chain.
func Assemble(docID string, source schema.SourceFormat, pages []PageInput, styles map[string]schema.Style) *schema.Document {
	doc := &schema.Document{
		Document: schema.DocumentMeta{
			DocumentID:    docID,
			SchemaVersion: "3.0",
			Source:        source,
			PageCount:     len(pages),
		},
		Styles: styles,
	}

	var prevBlockID string

	for _, page := range pages {
		doc.Pages = append(doc.Pages, schema.Page{
			PageNumber: page.PageNumber,
			Width:      page.Width,
			Height:     page.Height,
			Rotation:   page.Rotation,
			Unit:       "pt",
		})

		blocks := append([]BlockInput(nil), page.Blocks...)
		sortByReadingOrder(blocks)

		for _, b := range blocks {
			bbox := schema.Box(b.Bbox)
			bboxNorm := normalizeBox(bbox, page.Width, page.Height)
			blockType := schema.ParseBlockType(b.BlockType)
			role := schema.ParseRoleType(b.Role)
			tag := htmlTagFor(blockType)

			block := schema.Block{
				ID:               b.ID,
				Type:             blockType,
				Role:             role,
				Page:             page.PageNumber,
				Bbox:             bbox,
				BboxNorm:         &bboxNorm,
				ReadingOrder:     b.ReadingOrder,
				Text:             b.Text,
				StyleID:          b.StyleID,
				HTML:             fmt.Sprintf("<%s>%s</%s>", tag, b.Text, tag),
				HTMLTemplate:     fmt.Sprintf("<%s>{{text}}</%s>", tag, tag),
				Rhetoric:         b.Rhetoric,
				RhetoricFeatures: b.RhetoricFeatures,
			}
			doc.Blocks = append(doc.Blocks, block)

			spanID := "s-" + b.ID
			doc.Spans = append(doc.Spans, schema.Span{
				ID:       spanID,
				BlockID:  b.ID,
				Text:     b.Text,
				Bbox:     bbox,
				BboxNorm: &bboxNorm,
				StyleID:  b.StyleID,
			})

			for _, w := range b.Words {
				wBbox := schema.Box(w.Bbox)
				wBboxNorm := normalizeBox(wBbox, page.Width, page.Height)
				doc.Tokens = append(doc.Tokens, schema.Token{
					Text:     w.Text,
					Bbox:     wBbox,
					BboxNorm: &wBboxNorm,
					BlockID:  b.ID,
					SpanID:   spanID,
				})
			}

			if prevBlockID != "" {
				doc.ReadingGraph = append(doc.ReadingGraph, schema.Edge{
					From: prevBlockID, To: b.ID, Relation: schema.RelationNext,
				})
			}
			prevBlockID = b.ID
		}

		for _, table := range page.Tables {
			doc.Tables = append(doc.Tables, table)

			if table.Bbox == nil {
				continue
			}
			bboxNorm := normalizeBox(*table.Bbox, page.Width, page.Height)
			doc.Blocks = append(doc.Blocks, schema.Block{
				ID:           table.ID,
				Type:         schema.BlockTable,
				Role:         schema.RoleTable,
				Page:         page.PageNumber,
				Bbox:         *table.Bbox,
				BboxNorm:     &bboxNorm,
				ReadingOrder: len(doc.Blocks),
				Text:         "[TABLE]",
			})

			if prevBlockID != "" {
				doc.ReadingGraph = append(doc.ReadingGraph, schema.Edge{
					From: prevBlockID, To: table.ID, Relation: schema.RelationNext,
				})
			}
			prevBlockID = table.ID
		}
	}

	return doc
}

func sortByReadingOrder(blocks []BlockInput) {
	for i := 1; i < len(blocks); i++ {
		for j := i; j > 0 && blocks[j].ReadingOrder < blocks[j-1].ReadingOrder; j-- {
			blocks[j], blocks[j-1] = blocks[j-1], blocks[j]
		}
	}
}

func normalizeBox(b schema.Box, pageW, pageH float64) schema.Box {
	if pageW <= 0 || pageH <= 0 {
		return schema.Box{}
	}
	return schema.Box{
		round6(b[0] / pageW),
		round6(b[1] / pageH),
		round6(b[2] / pageW),
		round6(b[3] / pageH),
	}
}

func round6(v float64) float64 {
	const p = 1e6
	if v < 0 {
		return -float64(int64(-v*p+0.5)) / p
	}
	return float64(int64(v*p+0.5)) / p
}

// htmlTagFor maps a block type to the semantic HTML tag it renders as.
func htmlTagFor(t schema.BlockType) string {
	switch t {
	case schema.BlockHeading:
		return "h2"
	case schema.BlockListItem:
		return "li"
	case schema.BlockTable:
		return "table"
	case schema.BlockFigure:
		return "figure"
	case schema.BlockCaption:
		return "figcaption"
	case schema.BlockHeader:
		return "header"
	case schema.BlockFooter:
		return "footer"
	case schema.BlockPageNumber:
		return "span"
	case schema.BlockCodeBlock:
		return "pre"
	default:
		return "p"
	}
}
