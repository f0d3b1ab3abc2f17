package geometry

import "sort"

// BuildLines clusters words into horizontal text lines per §4.3: a word
// joins the current line iff its vertical midpoint is within
// max(0.6*size, 3pt) of the line's first word's midpoint.
func BuildLines(words []Word) []Line {
	if len(words) == 0 {
		return nil
	}

	sorted := make([]Word, len(words))
	copy(sorted, words)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].y0() != sorted[j].y0() {
			return sorted[i].y0() < sorted[j].y0()
		}
		return sorted[i].x0() < sorted[j].x0()
	})

	var groups [][]Word
	current := []Word{sorted[0]}

	for _, w := range sorted[1:] {
		ref := current[0]
		refMidY := ref.midY()
		wMidY := w.midY()
		tolerance := maxf(ref.Size*0.6, 3.0)

		if absf(wMidY-refMidY) <= tolerance {
			current = append(current, w)
		} else {
			groups = append(groups, current)
			current = []Word{w}
		}
	}
	groups = append(groups, current)

	lines := make([]Line, 0, len(groups))
	for _, g := range groups {
		sort.SliceStable(g, func(i, j int) bool { return g[i].x0() < g[j].x0() })
		lines = append(lines, mergeWords(g))
	}
	return lines
}

func mergeWords(words []Word) Line {
	texts := make([]string, len(words))
	fontCounts := make(map[string]int)
	var sizeSum float64
	bbox := words[0].Bbox
	for i, w := range words {
		texts[i] = w.Text
		fontCounts[w.FontName]++
		sizeSum += w.Size
		if i > 0 {
			bbox = unionBbox(bbox, w.Bbox)
		}
	}
	return Line{
		Text:     joinSpace(texts),
		Bbox:     bbox,
		FontName: dominantFont(fontCounts),
		Size:     round2(sizeSum / float64(len(words))),
		Color:    words[0].Color,
		Words:    words,
	}
}

func joinSpace(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += " "
		}
		out += p
	}
	return out
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
