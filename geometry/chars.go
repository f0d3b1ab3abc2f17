package geometry

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/tsawler/fastvision/text"
)

// ExtractChars converts a page's run-level text fragments into the
// char-level primitives the clustering pipeline operates on (§4.1).
// tabula's PDF text extractor (text.Extractor) produces one TextFragment
// per content-stream text-showing operation, not one per glyph; each
// fragment's bbox is subdivided evenly across its runes to approximate
// per-glyph geometry. Non-whitespace runes are kept; whitespace runes
// other than a literal space are dropped, exactly as the original
// extractor's cleaning rule.
func ExtractChars(fragments []text.TextFragment) []Char {
	var chars []Char
	for _, frag := range fragments {
		runes := []rune(frag.Text)
		if len(runes) == 0 {
			continue
		}
		n := len(runes)
		runeWidth := frag.Width / float64(n)
		color := hexColor(frag.FillColor)
		for i, r := range runes {
			if unicode.IsSpace(r) && r != ' ' {
				continue
			}
			if r == 0 {
				continue
			}
			x0 := frag.X + float64(i)*runeWidth
			x1 := x0 + runeWidth
			chars = append(chars, Char{
				Text:     string(r),
				Bbox:     [4]float64{x0, frag.Y, x1, frag.Y + frag.Height},
				FontName: frag.FontName,
				Size:     round2(frag.FontSize),
				Color:    color,
			})
		}
	}
	return chars
}

func hexColor(rgb [3]float64) string {
	clamp := func(v float64) int {
		if v < 0 {
			v = 0
		}
		if v > 1 {
			v = 1
		}
		return int(v * 255)
	}
	if rgb == ([3]float64{}) {
		return "#000000"
	}
	return fmt.Sprintf("#%02x%02x%02x", clamp(rgb[0]), clamp(rgb[1]), clamp(rgb[2]))
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}

// isWhitespaceOnly reports whether s contains only whitespace runes.
func isWhitespaceOnly(s string) bool {
	return strings.TrimSpace(s) == ""
}
