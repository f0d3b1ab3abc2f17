package geometry

import "sort"

// gapFactor: horizontal gap beyond gapFactor*avgCharWidth starts a new word.
const gapFactor = 0.35

// BuildWords clusters characters on a shared baseline into words, per
// §4.2: same-line test by vertical-overlap ratio > 0.5, new word when the
// horizontal gap exceeds max(gapFactor*avgCharWidth, 0.25*size).
func BuildWords(chars []Char) []Word {
	if len(chars) == 0 {
		return nil
	}

	sorted := make([]Char, len(chars))
	copy(sorted, chars)
	sort.SliceStable(sorted, func(i, j int) bool {
		yi, yj := round1(sorted[i].y0()), round1(sorted[j].y0())
		if yi != yj {
			return yi < yj
		}
		return sorted[i].x0() < sorted[j].x0()
	})

	var words []Word
	current := []Char{sorted[0]}

	for _, c := range sorted[1:] {
		prev := current[len(current)-1]

		yOverlap := minf(prev.y1(), c.y1()) - maxf(prev.y0(), c.y0())
		minHeight := minf(prev.y1()-prev.y0(), c.y1()-c.y0())
		if minHeight < 0.1 {
			minHeight = 0.1
		}
		sameLine := yOverlap > 0 && (yOverlap/minHeight) > 0.5

		if sameLine {
			gap := c.x0() - prev.x1()
			avgWidth := ((prev.x1() - prev.x0()) + (c.x1() - c.x0())) / 2.0
			threshold := maxf(avgWidth*gapFactor, prev.Size*0.25)
			if gap <= threshold {
				current = append(current, c)
				continue
			}
		}

		words = append(words, mergeChars(current))
		current = []Char{c}
	}
	words = append(words, mergeChars(current))
	return words
}

func mergeChars(chars []Char) Word {
	var text string
	fontCounts := make(map[string]int)
	var sizeSum float64
	bbox := chars[0].Bbox
	for i, c := range chars {
		text += c.Text
		fontCounts[c.FontName]++
		sizeSum += c.Size
		if i > 0 {
			bbox = unionBbox(bbox, c.Bbox)
		}
	}
	return Word{
		Text:     text,
		Bbox:     bbox,
		FontName: dominantFont(fontCounts),
		Size:     round2(sizeSum / float64(len(chars))),
		Color:    chars[0].Color,
	}
}

func dominantFont(counts map[string]int) string {
	var best string
	bestN := -1
	for font, n := range counts {
		if n > bestN || (n == bestN && font < best) {
			best, bestN = font, n
		}
	}
	return best
}

func round1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}
