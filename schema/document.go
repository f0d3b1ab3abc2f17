package schema

// Box is a bbox serialized as the 4-tuple [x0, y0, x1, y1] the schema
// requires, rather than tabula's own BBox{X,Y,Width,Height} shape.
type Box [4]float64

// Slice converts a BBox to its wire representation.
func (b BBox) Slice() Box { return Box{b.X0, b.Y0, b.X1, b.Y1} }

// BoxOf builds a BBox back from a wire 4-tuple.
func BoxOf(b Box) BBox { return BBox{X0: b[0], Y0: b[1], X1: b[2], Y1: b[3]} }

// Rhetoric is the per-block rhetorical/tone classification a vision
// tagger may attach.
type Rhetoric struct {
	Tone     string `json:"tone,omitempty"`
	Voice    string `json:"voice,omitempty"`
	Modality string `json:"modality,omitempty"`
	Tense    string `json:"tense,omitempty"`
	Domain   string `json:"domain,omitempty"`
}

// RhetoricFeatures are computed numeric rhetoric features per block.
type RhetoricFeatures struct {
	AvgSentenceLength *float64 `json:"avg_sentence_length,omitempty"`
	ModalDensity      *float64 `json:"modal_density,omitempty"`
	PassiveRatio      *float64 `json:"passive_ratio,omitempty"`
	LegalTermDensity  *float64 `json:"legal_term_density,omitempty"`
}

// Style is a normalized, deduplicated font/formatting style.
type Style struct {
	FontFamily string `json:"font_family,omitempty"`
	Size       float64 `json:"size,omitempty"`
	Weight     Weight  `json:"weight,omitempty"`
	Italic     bool    `json:"italic,omitempty"`
	Underline  bool    `json:"underline,omitempty"`
	Color      string  `json:"color,omitempty"`
	Align      Align   `json:"align,omitempty"`
}

// DocumentMeta is the top-level document metadata block.
type DocumentMeta struct {
	DocumentID    string       `json:"document_id"`
	SchemaVersion string       `json:"schema_version"`
	Source        SourceFormat `json:"source"`
	PageCount     int          `json:"page_count,omitempty"`
}

// Page describes one physical page's dimensions and rotation.
type Page struct {
	PageNumber int    `json:"page_number"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Rotation   int     `json:"rotation"`
	Unit       string  `json:"unit"`
}

// Block is a document block: paragraph, heading, list item, table
// reference, figure, caption, header, footer, page number, or code block.
type Block struct {
	ID               string            `json:"id"`
	Type             BlockType         `json:"type"`
	Role             RoleType          `json:"role,omitempty"`
	Page             int               `json:"page"`
	Bbox             Box               `json:"bbox"`
	BboxNorm         *Box              `json:"bbox_norm,omitempty"`
	ReadingOrder     int               `json:"reading_order"`
	ZIndex           int               `json:"z_index"`
	Parent           string            `json:"parent,omitempty"`
	Children         []string          `json:"children,omitempty"`
	Text             string            `json:"text,omitempty"`
	StyleID          string            `json:"style_id,omitempty"`
	HTML             string            `json:"html,omitempty"`
	HTMLTemplate     string            `json:"html_template,omitempty"`
	Rhetoric         *Rhetoric         `json:"rhetoric,omitempty"`
	RhetoricFeatures *RhetoricFeatures `json:"rhetoric_features,omitempty"`
}

// Span is an inline run within a block at a font/style change boundary.
// This repository emits exactly one span per block (§4.11).
type Span struct {
	ID       string `json:"id"`
	BlockID  string `json:"block_id"`
	Text     string `json:"text"`
	Bbox     Box    `json:"bbox"`
	BboxNorm *Box   `json:"bbox_norm,omitempty"`
	StyleID  string `json:"style_id,omitempty"`
}

// Token is a single word-level unit with its own bbox.
type Token struct {
	Text     string `json:"text"`
	Bbox     Box    `json:"bbox"`
	BboxNorm *Box   `json:"bbox_norm,omitempty"`
	BlockID  string `json:"block_id"`
	SpanID   string `json:"span_id,omitempty"`
}

// TableCell is a single cell in a table's grid.
type TableCell struct {
	Row      int    `json:"row"`
	Col      int    `json:"col"`
	RowSpan  int    `json:"row_span"`
	ColSpan  int    `json:"col_span"`
	Text     string `json:"text"`
	Bbox     Box    `json:"bbox"`
	BboxNorm *Box   `json:"bbox_norm,omitempty"`
	StyleID  string `json:"style_id,omitempty"`
}

// Table is a structured table with its cell grid.
type Table struct {
	ID    string      `json:"id"`
	Page  int         `json:"page"`
	Rows  int         `json:"rows"`
	Cols  int         `json:"cols"`
	Bbox  *Box        `json:"bbox,omitempty"`
	Cells []TableCell `json:"cells"`
}

// Edge is a directed reading-graph edge between two blocks. The JSON key
// for the source endpoint is "from" (Go cannot name a field "from" without
// a tag, since it shadows nothing here but the wire name must still match).
type Edge struct {
	From     string       `json:"from"`
	To       string       `json:"to"`
	Relation EdgeRelation `json:"relation"`
}

// Document is the root Layout and Tone Aware Document Schema v3.0 object.
type Document struct {
	Document     DocumentMeta     `json:"document"`
	Pages        []Page           `json:"pages"`
	Blocks       []Block          `json:"blocks"`
	Spans        []Span           `json:"spans,omitempty"`
	Tokens       []Token          `json:"tokens,omitempty"`
	Tables       []Table          `json:"tables,omitempty"`
	Styles       map[string]Style `json:"styles,omitempty"`
	ReadingGraph []Edge           `json:"reading_graph,omitempty"`
}
