// Package styles deduplicates and hashes block font styles into a global
// style table, assigning each block a style_id (§4.10).
package styles

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/tsawler/fastvision/schema"
)

// Input is the minimal per-block style-relevant data the normalizer needs.
type Input struct {
	FontName string
	Size     float64
	Color    string
}

// Normalize assigns a style_id to each input and returns the deduplicated
// global style table keyed by that id.
func Normalize(inputs []Input) ([]string, map[string]schema.Style) {
	ids := make([]string, len(inputs))
	table := make(map[string]schema.Style)

	for i, in := range inputs {
		style := build(in)
		id := hash(style)
		ids[i] = id
		if _, ok := table[id]; !ok {
			table[id] = style
		}
	}

	return ids, table
}

func build(in Input) schema.Style {
	font := in.FontName
	if font == "" {
		font = "unknown"
	}
	color := in.Color
	if color == "" {
		color = "#000000"
	}

	lower := strings.ToLower(font)
	weight := schema.WeightNormal
	if strings.Contains(lower, "bold") {
		weight = schema.WeightBold
	}
	italic := strings.Contains(lower, "italic") || strings.Contains(lower, "oblique")

	return schema.Style{
		FontFamily: cleanFontName(font),
		Size:       round1(in.Size),
		Weight:     weight,
		Italic:     italic,
		Underline:  false,
		Color:      color,
		Align:      schema.AlignLeft,
	}
}

func cleanFontName(font string) string {
	if idx := strings.Index(font, "+"); idx >= 0 {
		return font[idx+1:]
	}
	return font
}

func round1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}

// hash produces the 12-hex-char style id from the style's defining fields.
func hash(s schema.Style) string {
	key := fmt.Sprintf("%s|%v|%s|%v|%s", s.FontFamily, s.Size, s.Weight, s.Italic, s.Color)
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])[:12]
}
