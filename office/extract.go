// Package office extracts structured blocks from DOCX documents, producing
// the same block/word/table shapes the PDF geometry pipeline produces so
// the rest of the pipeline (style normalizer, vision tagger, schema
// assembler) can treat both input formats identically, following §4.6.
package office

import (
	"strings"

	"github.com/tsawler/fastvision/docx"
	"github.com/tsawler/fastvision/geometry"
	"github.com/tsawler/fastvision/schema"
)

// DOCX has no fixed page geometry unless a section defines one; we assume
// US Letter, matching the PDF pipeline's own fallback page size.
const (
	defaultWidth  = 612.0
	defaultHeight = 792.0
	leftMargin    = 72.0
	startYCursor  = 36.0
)

// Block is a synthesized DOCX block: a paragraph or a rendered table
// placeholder, positioned by a running vertical cursor rather than real
// glyph coordinates.
type Block struct {
	ID               string
	Text             string
	Bbox             [4]float64
	FontName         string
	Size             float64
	Color            string
	Alignment        string
	Words            []geometry.Word
	BlockType        schema.BlockType
	Role             schema.RoleType
	ReadingOrder     int
	Rhetoric         *schema.Rhetoric
	RhetoricFeatures *schema.RhetoricFeatures
}

// PageResult holds one synthesized page's blocks.
type PageResult struct {
	PageNumber int
	Width      float64
	Height     float64
	Blocks     []Block
}

// Extract walks a DOCX reader's elements in document order, synthesizing
// bboxes and word tokens from text length and font size (§4.6), classifying
// each paragraph from its style name and direct formatting, and paginating
// the result across page-height boundaries.
func Extract(r *docx.Reader, ids schema.IDGenerator) ([]PageResult, []schema.Table) {
	pageW, pageH := defaultWidth, defaultHeight
	textWidth := pageW - 2*leftMargin

	var blocks []Block
	var tables []schema.Table
	yCursor := startYCursor

	for _, elem := range r.Elements() {
		if elem.IsTable {
			tbl, height := buildTable(elem.Table, pageW, textWidth, yCursor, ids)
			if tbl == nil {
				continue
			}
			tables = append(tables, *tbl)
			yCursor += height + 12.0
			continue
		}

		para := elem.Paragraph
		text := strings.TrimSpace(para.Text)
		if text == "" {
			yCursor += 6
			continue
		}

		fontName, fontSize, color, bold, italic := firstRunStyle(para)
		alignment := para.Alignment
		if alignment == "" {
			alignment = "left"
		}

		fn := fontName
		if bold {
			fn += "-Bold"
		}
		if italic {
			fn += "-Italic"
		}

		lineHeight := fontSize * 1.4
		numLines := float64(len(text)) * fontSize * 0.6 / textWidth
		if numLines < 1 {
			numLines = 1
		} else {
			numLines += 0.5
		}
		blockHeight := lineHeight * numLines

		bbox := [4]float64{leftMargin, yCursor, leftMargin + textWidth, yCursor + blockHeight}
		words := synthesizeWords(text, bbox, fn, fontSize, color)

		blockType, role := classifyParagraph(para.StyleName, fontSize, bold, text)
		if para.IsHeading {
			blockType, role = schema.BlockHeading, headingRole(para.Level)
		} else if para.IsListItem {
			blockType, role = schema.BlockListItem, schema.RoleListItem
		}

		blocks = append(blocks, Block{
			ID:        ids.NewID(),
			Text:      text,
			Bbox:      bbox,
			FontName:  fn,
			Size:      fontSize,
			Color:     color,
			Alignment: alignment,
			Words:     words,
			BlockType: blockType,
			Role:      role,
		})

		yCursor = bbox[3] + fontSize*0.4
	}

	pages, adjustedTables := paginate(blocks, tables, pageW, pageH)
	return pages, adjustedTables
}

func headingRole(level int) schema.RoleType {
	if level <= 2 {
		return schema.RoleSectionTitle
	}
	return schema.RoleSubsectionTitle
}

func firstRunStyle(p docx.ParagraphInfo) (fontName string, size float64, color string, bold, italic bool) {
	fontName, size, color = "Calibri", 11.0, "#000000"
	if len(p.Runs) == 0 {
		return
	}
	run := p.Runs[0]
	if run.FontName != "" {
		fontName = run.FontName
	}
	if run.FontSize > 0 {
		size = run.FontSize
	}
	if run.Color != "" {
		color = run.Color
	}
	bold = run.Bold
	italic = run.Italic
	return
}

func synthesizeWords(text string, bbox [4]float64, fontName string, size float64, color string) []geometry.Word {
	var words []geometry.Word
	wordX := bbox[0]
	for _, w := range strings.Fields(text) {
		wordW := float64(len([]rune(w))) * size * 0.55
		x1 := wordX + wordW
		if x1 > bbox[2] {
			x1 = bbox[2]
		}
		words = append(words, geometry.Word{
			Text:     w,
			Bbox:     [4]float64{round2(wordX), round2(bbox[1]), round2(x1), round2(bbox[3])},
			FontName: fontName,
			Size:     size,
			Color:    color,
		})
		wordX += wordW + size*0.3
		if wordX > bbox[2] {
			wordX = bbox[0]
		}
	}
	return words
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}

// classifyParagraph guesses (block_type, role) from a DOCX style name and
// direct formatting, mirroring the heuristics applied to PDF blocks that
// never reach the vision tagger.
func classifyParagraph(styleName string, fontSize float64, bold bool, text string) (schema.BlockType, schema.RoleType) {
	style := strings.ToLower(styleName)

	if strings.Contains(style, "title") {
		return schema.BlockHeading, schema.RoleTitle
	}
	if strings.Contains(style, "heading") {
		for lvl := 1; lvl <= 6; lvl++ {
			if strings.Contains(style, itoa(lvl)) {
				if lvl <= 2 {
					return schema.BlockHeading, schema.RoleSectionTitle
				}
				return schema.BlockHeading, schema.RoleSubsectionTitle
			}
		}
		return schema.BlockHeading, schema.RoleSectionTitle
	}

	if strings.Contains(style, "list") || strings.Contains(style, "bullet") {
		return schema.BlockListItem, schema.RoleListItem
	}

	if strings.Contains(style, "caption") {
		return schema.BlockCaption, schema.RoleCaption
	}

	if strings.Contains(style, "code") || strings.Contains(style, "mono") {
		return schema.BlockCodeBlock, schema.RoleParagraph
	}

	if bold && fontSize >= 14 {
		return schema.BlockHeading, schema.RoleSectionTitle
	}

	stripped := strings.TrimLeft(text, " \t")
	for _, bullet := range []string{"•", "–", "—", "▪", "◦", "○"} {
		if strings.HasPrefix(stripped, bullet) {
			return schema.BlockListItem, schema.RoleListItem
		}
	}
	if len(stripped) > 2 && stripped[0] >= '0' && stripped[0] <= '9' && (stripped[1] == '.' || stripped[1] == ')') {
		return schema.BlockListItem, schema.RoleListItem
	}

	return schema.BlockParagraph, schema.RoleParagraph
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [8]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

func buildTable(pt docx.ParsedTable, pageW, textWidth, yCursor float64, ids schema.IDGenerator) (*schema.Table, float64) {
	nRows := len(pt.Rows)
	nCols := pt.ColCount()
	if nRows == 0 || nCols == 0 {
		return nil, 0
	}

	tableHeight := float64(nRows) * 20.0
	bbox := schema.Box{
		round2(leftMargin), round2(yCursor),
		round2(leftMargin + textWidth), round2(yCursor + tableHeight),
	}

	colW := textWidth / float64(nCols)
	rowH := tableHeight / float64(nRows)

	var cells []schema.TableCell
	for rIdx, row := range pt.Rows {
		cIdx := 0
		for _, cell := range row.Cells {
			if cell.IsMergedContinuation {
				continue
			}
			cells = append(cells, schema.TableCell{
				Row:     rIdx,
				Col:     cIdx,
				RowSpan: 1,
				ColSpan: 1,
				Text:    strings.TrimSpace(cell.Text),
				Bbox: [4]float64{
					round2(leftMargin + float64(cIdx)*colW),
					round2(yCursor + float64(rIdx)*rowH),
					round2(leftMargin + float64(cIdx+1)*colW),
					round2(yCursor + float64(rIdx+1)*rowH),
				},
			})
			cIdx++
		}
	}

	return &schema.Table{
		ID:   ids.NewID(),
		Page: 1,
		Rows: nRows,
		Cols: nCols,
		Bbox: &bbox,
		Cells: cells,
	}, tableHeight
}

// paginate splits synthesized blocks and tables across page_h-tall pages,
// assigning each to the page its y0 falls in with a strict less-than upper
// bound so content exactly on a boundary belongs to the lower page, and
// rewrites coordinates relative to that page's top.
func paginate(blocks []Block, tables []schema.Table, pageW, pageH float64) ([]PageResult, []schema.Table) {
	if len(blocks) == 0 && len(tables) == 0 {
		return []PageResult{{PageNumber: 1, Width: pageW, Height: pageH}}, nil
	}

	maxY := 0.0
	for _, b := range blocks {
		if b.Bbox[3] > maxY {
			maxY = b.Bbox[3]
		}
	}
	for _, t := range tables {
		if t.Bbox != nil && t.Bbox[3] > maxY {
			maxY = t.Bbox[3]
		}
	}
	nPages := int(maxY/pageH) + 1
	if nPages < 1 {
		nPages = 1
	}

	pages := make([]PageResult, nPages)
	for i := range pages {
		pages[i] = PageResult{PageNumber: i + 1, Width: pageW, Height: pageH}
	}

	pageIdxOf := func(y0 float64) int {
		idx := int(y0 / pageH)
		if idx >= nPages {
			idx = nPages - 1
		}
		if idx < 0 {
			idx = 0
		}
		return idx
	}

	for _, b := range blocks {
		pageIdx := pageIdxOf(b.Bbox[1])
		pageTop := float64(pageIdx) * pageH
		adjusted := b
		adjusted.Bbox = [4]float64{b.Bbox[0], b.Bbox[1] - pageTop, b.Bbox[2], b.Bbox[3] - pageTop}
		adjusted.Words = make([]geometry.Word, len(b.Words))
		for i, w := range b.Words {
			adjusted.Words[i] = w
			adjusted.Words[i].Bbox[1] -= pageTop
			adjusted.Words[i].Bbox[3] -= pageTop
		}
		pages[pageIdx].Blocks = append(pages[pageIdx].Blocks, adjusted)
	}

	adjustedTables := make([]schema.Table, 0, len(tables))
	for _, t := range tables {
		if t.Bbox == nil {
			adjustedTables = append(adjustedTables, t)
			continue
		}
		pageIdx := pageIdxOf(t.Bbox[1])
		pageTop := float64(pageIdx) * pageH
		adj := t
		adj.Page = pageIdx + 1
		b := schema.Box{t.Bbox[0], t.Bbox[1] - pageTop, t.Bbox[2], t.Bbox[3] - pageTop}
		adj.Bbox = &b
		adj.Cells = make([]schema.TableCell, len(t.Cells))
		for i, c := range t.Cells {
			adj.Cells[i] = c
			adj.Cells[i].Bbox[1] -= pageTop
			adj.Cells[i].Bbox[3] -= pageTop
		}
		adjustedTables = append(adjustedTables, adj)
	}

	return pages, adjustedTables
}
