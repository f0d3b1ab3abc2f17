// Package tagger classifies geometric blocks into semantic block types,
// roles, reading order, and rhetoric, optionally via an external vision/text
// model, with a deterministic heuristic fallback (§4.7-§4.9).
package tagger

import "context"

// BlockSummary is the token-efficient block projection sent to a tagger
// backend: just enough for type/role classification, never the full block.
type BlockSummary struct {
	Index int
	Text  string
	Font  string
	Size  float64
}

// Tag is one block's classification result.
type Tag struct {
	BlockIndex       int
	BlockType        string
	Role             string
	ReadingOrder     int
	Rhetoric         *Rhetoric
	RhetoricFeatures *RhetoricFeatures

	// SourceText is the truncated text of the block this tag was requested
	// for, independent of whatever block_index the backend echoed back.
	// The block matcher falls back to comparing this against a geometry
	// block's own text when index-based matching fails (§4.8).
	SourceText string
}

// Rhetoric mirrors schema.Rhetoric so this package has no dependency on
// the schema package; the assembler converts between the two.
type Rhetoric struct {
	Tone     string
	Voice    string
	Modality string
	Tense    string
	Domain   string
}

// RhetoricFeatures mirrors schema.RhetoricFeatures.
type RhetoricFeatures struct {
	AvgSentenceLength *float64
	ModalDensity      *float64
	PassiveRatio      *float64
	LegalTermDensity  *float64
}

// VisionTagger maps a batch of block summaries (plus an optional page
// image, nil when unavailable) to semantic tags. Concrete backends call an
// external model; tests supply a fake. The core pipeline never depends on
// any concrete backend, only on this interface (§1, §9).
type VisionTagger interface {
	TagBatch(ctx context.Context, pageImage []byte, blocks []BlockSummary) ([]Tag, error)
}
