package geometry

import (
	"sort"
	"strings"

	"github.com/tsawler/fastvision/schema"
)

// lineGapFactor: lines farther apart than lineGapFactor*prevSize do not merge.
const lineGapFactor = 1.5

// xShiftTolerance: a left-origin shift beyond this (pt) breaks the block,
// guarding against merging separate columns into one paragraph.
const xShiftTolerance = 40.0

// BuildBlocks merges consecutive lines into paragraph-like blocks per
// §4.4: merge while the vertical gap is within max(1.5*prevSize, 4pt), the
// horizontal origin shift is within 40pt, and the normalized font family
// is unchanged.
func BuildBlocks(lines []Line, ids schema.IDGenerator) []Block {
	if len(lines) == 0 {
		return nil
	}

	sorted := make([]Line, len(lines))
	copy(sorted, lines)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].y0() < sorted[j].y0() })

	var groups [][]Line
	current := []Line{sorted[0]}

	for _, ln := range sorted[1:] {
		prev := current[len(current)-1]

		gap := ln.y0() - prev.y1()
		threshold := maxf(prev.Size*lineGapFactor, 4.0)
		xShift := absf(ln.x0() - prev.x0())
		sameFont := normalizeFontFamily(ln.FontName) == normalizeFontFamily(prev.FontName)

		if gap <= threshold && xShift <= xShiftTolerance && sameFont {
			current = append(current, ln)
		} else {
			groups = append(groups, current)
			current = []Line{ln}
		}
	}
	groups = append(groups, current)

	blocks := make([]Block, 0, len(groups))
	for _, g := range groups {
		blocks = append(blocks, mergeLines(g, ids))
	}
	return blocks
}

func mergeLines(lines []Line, ids schema.IDGenerator) Block {
	texts := make([]string, len(lines))
	fontCounts := make(map[string]int)
	var sizeSum float64
	var allWords []Word
	bbox := lines[0].Bbox
	for i, ln := range lines {
		texts[i] = ln.Text
		fontCounts[ln.FontName]++
		sizeSum += ln.Size
		allWords = append(allWords, ln.Words...)
		if i > 0 {
			bbox = unionBbox(bbox, ln.Bbox)
		}
	}
	return Block{
		ID:       ids.NewID(),
		Text:     strings.Join(texts, "\n"),
		Bbox:     bbox,
		FontName: dominantFont(fontCounts),
		Size:     round2(sizeSum / float64(len(lines))),
		Color:    lines[0].Color,
		Words:    allWords,
	}
}
