// Package geometry turns a page's positioned characters into ordered,
// clustered logical blocks: chars -> words -> lines -> blocks. Clustering
// thresholds and the overall algorithm follow the original fast_vision
// geometry pipeline (char_extractor.py, word_builder.py, line_builder.py,
// block_builder.py).
package geometry

import (
	"strings"

	"github.com/tsawler/fastvision/schema"
)

// Char is a single positioned glyph, the smallest unit the pipeline deals
// with. It lives only during extraction and clustering.
type Char struct {
	Text     string
	Bbox     [4]float64 // x0, y0, x1, y1
	FontName string
	Size     float64
	Color    string // "#rrggbb"
}

func (c Char) x0() float64 { return c.Bbox[0] }
func (c Char) y0() float64 { return c.Bbox[1] }
func (c Char) x1() float64 { return c.Bbox[2] }
func (c Char) y1() float64 { return c.Bbox[3] }

// Word is a cluster of chars on one baseline with bounded horizontal gaps.
type Word struct {
	Text     string
	Bbox     [4]float64
	FontName string
	Size     float64
	Color    string
}

func (w Word) x0() float64 { return w.Bbox[0] }
func (w Word) y0() float64 { return w.Bbox[1] }
func (w Word) x1() float64 { return w.Bbox[2] }
func (w Word) y1() float64 { return w.Bbox[3] }
func (w Word) midY() float64 { return (w.Bbox[1] + w.Bbox[3]) / 2 }

// Line is a cluster of words whose vertical midpoints agree, left-to-right
// ordered.
type Line struct {
	Text     string
	Bbox     [4]float64
	FontName string
	Size     float64
	Color    string
	Words    []Word
}

func (l Line) y0() float64 { return l.Bbox[1] }
func (l Line) y1() float64 { return l.Bbox[3] }
func (l Line) x0() float64 { return l.Bbox[0] }

// Block is a paragraph-like group of consecutive lines: the durable
// geometric unit that survives into the schema as schema.Block.
//
// BlockType, Role, ReadingOrder, Rhetoric and RhetoricFeatures start at
// their zero values here; a page's blocks only get these filled in once
// the tagger/match stage has classified them (§4.7-§4.8).
type Block struct {
	ID               string
	Text             string
	Bbox             [4]float64
	FontName         string
	Size             float64
	Color            string
	Words            []Word
	BlockType        schema.BlockType
	Role             schema.RoleType
	ReadingOrder     int
	Rhetoric         *schema.Rhetoric
	RhetoricFeatures *schema.RhetoricFeatures
}

func unionBbox(a, b [4]float64) [4]float64 {
	return [4]float64{
		minf(a[0], b[0]),
		minf(a[1], b[1]),
		maxf(a[2], b[2]),
		maxf(a[3], b[3]),
	}
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

// normalizeFontFamily strips embedded-font subset prefixes ("ABCDEF+") and
// common style suffixes so two runs of the same logical family compare
// equal across bold/italic variants (§4.4).
func normalizeFontFamily(font string) string {
	if idx := strings.Index(font, "+"); idx == 6 {
		font = font[idx+1:]
	}
	suffixes := []string{
		"-BoldItalic", "-Bold", "-Italic", "-Regular",
		",BoldItalic", ",Bold", ",Italic", ",Regular",
	}
	for _, suf := range suffixes {
		if strings.HasSuffix(font, suf) {
			font = strings.TrimSuffix(font, suf)
			break
		}
	}
	return font
}
