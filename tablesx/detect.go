// Package tablesx detects tables on a PDF page from its ruling-line
// graphics (horizontal/vertical strokes forming a grid) and builds
// grid-approximated cells from the text geometry that falls inside each
// cell, following §4.5. It also deduplicates text blocks that overlap a
// detected table (§4.5's overlap_threshold=0.5 rule).
package tablesx

import (
	"sort"
	"strings"

	"github.com/tsawler/fastvision/geometry"
	"github.com/tsawler/fastvision/graphicsstate"
	"github.com/tsawler/fastvision/schema"
)

// coordTolerance clusters nearly-equal ruling-line coordinates (pt).
const coordTolerance = 2.0

// minGridLines is the minimum count of distinct row/column boundaries
// (i.e. minGridLines-1 rows or columns) required to call a grid a table.
const minGridLines = 3

// Region is a detected table's grid before cell text is attached.
type Region struct {
	Bbox    [4]float64
	RowYs   []float64 // row boundary y coordinates, ascending
	ColXs   []float64 // column boundary x coordinates, ascending
}

// Detect finds rectangular ruling-line grids in a page's content stream
// bytes. A page whose content stream has no usable ruling-line grid
// yields zero tables (§7 TableDetectionFailure is non-fatal).
func Detect(contentBytes []byte) []Region {
	ge := graphicsstate.NewGraphicsExtractor()
	if err := ge.ExtractFromBytes(contentBytes); err != nil {
		return nil
	}
	grid := ge.GetGridLines()
	if len(grid.Horizontals) == 0 || len(grid.Verticals) == 0 {
		return nil
	}

	rowYs := clusterCoords(horizontalYs(grid.Horizontals))
	colXs := clusterCoords(verticalXs(grid.Verticals))
	if len(rowYs) < minGridLines || len(colXs) < minGridLines {
		return nil
	}

	return []Region{{
		Bbox:  [4]float64{colXs[0], rowYs[0], colXs[len(colXs)-1], rowYs[len(rowYs)-1]},
		RowYs: rowYs,
		ColXs: colXs,
	}}
}

func horizontalYs(lines []graphicsstate.ExtractedLine) []float64 {
	ys := make([]float64, len(lines))
	for i, l := range lines {
		ys[i] = (l.Start.Y + l.End.Y) / 2
	}
	return ys
}

func verticalXs(lines []graphicsstate.ExtractedLine) []float64 {
	xs := make([]float64, len(lines))
	for i, l := range lines {
		xs[i] = (l.Start.X + l.End.X) / 2
	}
	return xs
}

// clusterCoords sorts and merges near-duplicate coordinates within
// coordTolerance so slightly misaligned ruling segments still produce one
// grid line per intended row/column boundary.
func clusterCoords(coords []float64) []float64 {
	if len(coords) == 0 {
		return nil
	}
	sorted := append([]float64(nil), coords...)
	sort.Float64s(sorted)

	var out []float64
	out = append(out, sorted[0])
	for _, c := range sorted[1:] {
		if c-out[len(out)-1] > coordTolerance {
			out = append(out, c)
		}
	}
	return out
}

// Build assembles a schema.Table from a detected region and the page's
// geometric blocks, grid-approximating each cell's bbox (§4.5) and
// populating cell text from word centers falling inside the cell.
func Build(region Region, blocks []geometry.Block, pageNumber int, ids schema.IDGenerator) schema.Table {
	rows := len(region.RowYs) - 1
	cols := len(region.ColXs) - 1
	if rows < 1 {
		rows = 1
	}
	if cols < 1 {
		cols = 1
	}

	words := collectWords(blocks)

	cells := make([]schema.TableCell, 0, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			cellBbox := [4]float64{region.ColXs[c], region.RowYs[r], region.ColXs[c+1], region.RowYs[r+1]}
			text := cellText(words, cellBbox)
			cells = append(cells, schema.TableCell{
				Row:     r,
				Col:     c,
				RowSpan: 1,
				ColSpan: 1,
				Text:    text,
				Bbox:    cellBbox,
			})
		}
	}

	bbox := schema.Box(region.Bbox)
	return schema.Table{
		ID:    ids.NewID(),
		Page:  pageNumber,
		Rows:  rows,
		Cols:  cols,
		Bbox:  &bbox,
		Cells: cells,
	}
}

func collectWords(blocks []geometry.Block) []geometry.Word {
	var out []geometry.Word
	for _, b := range blocks {
		out = append(out, b.Words...)
	}
	return out
}

func cellText(words []geometry.Word, cellBbox [4]float64) string {
	var parts []string
	for _, w := range words {
		cx := (w.Bbox[0] + w.Bbox[2]) / 2
		cy := (w.Bbox[1] + w.Bbox[3]) / 2
		if cx >= cellBbox[0] && cx < cellBbox[2] && cy >= cellBbox[1] && cy < cellBbox[3] {
			parts = append(parts, w.Text)
		}
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

// overlapThreshold: a text block removed when its overlap with any table
// bbox exceeds this fraction of its own area (§4.5).
const overlapThreshold = 0.5

// Dedup removes geometric blocks whose area overlaps any detected table's
// bbox beyond overlapThreshold.
func Dedup(blocks []geometry.Block, tables []schema.Table) []geometry.Block {
	if len(tables) == 0 {
		return blocks
	}
	var out []geometry.Block
	for _, b := range blocks {
		bx0, by0, bx1, by1 := b.Bbox[0], b.Bbox[1], b.Bbox[2], b.Bbox[3]
		area := (bx1 - bx0) * (by1 - by0)
		if area < 0.01 {
			area = 0.01
		}
		overlaps := false
		for _, t := range tables {
			if t.Bbox == nil {
				continue
			}
			tb := *t.Bbox
			ix0 := maxf(bx0, tb[0])
			iy0 := maxf(by0, tb[1])
			ix1 := minf(bx1, tb[2])
			iy1 := minf(by1, tb[3])
			inter := maxf(0, ix1-ix0) * maxf(0, iy1-iy0)
			if inter/area > overlapThreshold {
				overlaps = true
				break
			}
		}
		if !overlaps {
			out = append(out, b)
		}
	}
	return out
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
