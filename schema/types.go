// Package schema defines the v3.0 LayoutDocument data model: the
// layout-and-tone-aware document representation this repository produces
// from a PDF or word-processor file. Coordinates are typographic points
// (1/72 inch) with a top-down y-axis.
package schema

import "github.com/google/uuid"

// BBox is an axis-aligned bounding box in page coordinates, [x0, y0, x1, y1]
// with x0<=x1 and y0<=y1.
type BBox struct {
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
}

// Normalize divides the box by the page width and height, producing
// componentwise values in [0,1].
func (b BBox) Normalize(pageWidth, pageHeight float64) BBox {
	if pageWidth <= 0 || pageHeight <= 0 {
		return BBox{}
	}
	return BBox{
		X0: b.X0 / pageWidth,
		Y0: b.Y0 / pageHeight,
		X1: b.X1 / pageWidth,
		Y1: b.Y1 / pageHeight,
	}
}

// Union returns the smallest box containing both b and other.
func (b BBox) Union(other BBox) BBox {
	return BBox{
		X0: min(b.X0, other.X0),
		Y0: min(b.Y0, other.Y0),
		X1: max(b.X1, other.X1),
		Y1: max(b.Y1, other.Y1),
	}
}

// Width returns x1-x0.
func (b BBox) Width() float64 { return b.X1 - b.X0 }

// Height returns y1-y0.
func (b BBox) Height() float64 { return b.Y1 - b.Y0 }

// Area returns the box area, or 0 for a degenerate box.
func (b BBox) Area() float64 {
	w, h := b.Width(), b.Height()
	if w <= 0 || h <= 0 {
		return 0
	}
	return w * h
}

// IntersectionArea returns the area shared between b and other.
func (b BBox) IntersectionArea(other BBox) float64 {
	x0 := max(b.X0, other.X0)
	y0 := max(b.Y0, other.Y0)
	x1 := min(b.X1, other.X1)
	y1 := min(b.Y1, other.Y1)
	if x1 <= x0 || y1 <= y0 {
		return 0
	}
	return (x1 - x0) * (y1 - y0)
}

func min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// BlockType is the closed set of logical block kinds a document can contain.
type BlockType int

const (
	BlockUnknown BlockType = iota
	BlockHeading
	BlockParagraph
	BlockListItem
	BlockTable
	BlockFigure
	BlockCaption
	BlockHeader
	BlockFooter
	BlockPageNumber
	BlockCodeBlock
)

// String returns the schema's string form of the block type, as emitted in
// JSON output and as expected from vision-tagger responses.
func (t BlockType) String() string {
	switch t {
	case BlockHeading:
		return "heading"
	case BlockParagraph:
		return "paragraph"
	case BlockListItem:
		return "list_item"
	case BlockTable:
		return "table"
	case BlockFigure:
		return "figure"
	case BlockCaption:
		return "caption"
	case BlockHeader:
		return "header"
	case BlockFooter:
		return "footer"
	case BlockPageNumber:
		return "page_number"
	case BlockCodeBlock:
		return "code_block"
	default:
		return "paragraph"
	}
}

// ParseBlockType coerces a string to a BlockType, falling back to
// BlockParagraph for anything unrecognized (§4.11 enum-coercion rule).
func ParseBlockType(s string) BlockType {
	switch s {
	case "heading":
		return BlockHeading
	case "paragraph":
		return BlockParagraph
	case "list_item":
		return BlockListItem
	case "table":
		return BlockTable
	case "figure":
		return BlockFigure
	case "caption":
		return BlockCaption
	case "header":
		return BlockHeader
	case "footer":
		return BlockFooter
	case "page_number":
		return BlockPageNumber
	case "code_block":
		return BlockCodeBlock
	default:
		return BlockParagraph
	}
}

// MarshalText implements encoding.TextMarshaler so BlockType serializes as
// its schema string rather than an integer.
func (t BlockType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *BlockType) UnmarshalText(b []byte) error {
	*t = ParseBlockType(string(b))
	return nil
}

// RoleType is the closed set of semantic roles a block can be tagged with.
type RoleType int

const (
	RoleUnknown RoleType = iota
	RoleTitle
	RoleSectionTitle
	RoleSubsectionTitle
	RoleParagraph
	RoleListItem
	RoleTable
	RoleFigure
	RoleCaption
	RoleHeader
	RoleFooter
)

// String returns the schema's string form of the role.
func (r RoleType) String() string {
	switch r {
	case RoleTitle:
		return "title"
	case RoleSectionTitle:
		return "section_title"
	case RoleSubsectionTitle:
		return "subsection_title"
	case RoleParagraph:
		return "paragraph"
	case RoleListItem:
		return "list_item"
	case RoleTable:
		return "table"
	case RoleFigure:
		return "figure"
	case RoleCaption:
		return "caption"
	case RoleHeader:
		return "header"
	case RoleFooter:
		return "footer"
	default:
		return "paragraph"
	}
}

// ParseRoleType coerces a string to a RoleType, defaulting to RoleParagraph.
func ParseRoleType(s string) RoleType {
	switch s {
	case "title":
		return RoleTitle
	case "section_title":
		return RoleSectionTitle
	case "subsection_title":
		return RoleSubsectionTitle
	case "paragraph":
		return RoleParagraph
	case "list_item":
		return RoleListItem
	case "table":
		return RoleTable
	case "figure":
		return RoleFigure
	case "caption":
		return RoleCaption
	case "header":
		return RoleHeader
	case "footer":
		return RoleFooter
	default:
		return RoleParagraph
	}
}

func (r RoleType) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

func (r *RoleType) UnmarshalText(b []byte) error {
	*r = ParseRoleType(string(b))
	return nil
}

// Weight is a font weight: normal or bold.
type Weight int

const (
	WeightNormal Weight = iota
	WeightBold
)

func (w Weight) String() string {
	if w == WeightBold {
		return "bold"
	}
	return "normal"
}

// ParseWeight coerces a string to a Weight, defaulting to WeightNormal.
func ParseWeight(s string) Weight {
	if s == "bold" {
		return WeightBold
	}
	return WeightNormal
}

func (w Weight) MarshalText() ([]byte, error) { return []byte(w.String()), nil }

func (w *Weight) UnmarshalText(b []byte) error {
	*w = ParseWeight(string(b))
	return nil
}

// Align is a text alignment.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
	AlignJustify
)

func (a Align) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	case AlignJustify:
		return "justify"
	default:
		return "left"
	}
}

// ParseAlign coerces a string to an Align, defaulting to AlignLeft.
func ParseAlign(s string) Align {
	switch s {
	case "center":
		return AlignCenter
	case "right":
		return AlignRight
	case "justify":
		return AlignJustify
	default:
		return AlignLeft
	}
}

func (a Align) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

func (a *Align) UnmarshalText(b []byte) error {
	*a = ParseAlign(string(b))
	return nil
}

// SourceFormat identifies the originating document format.
type SourceFormat int

const (
	SourceUnknown SourceFormat = iota
	SourcePDF
	SourceDOCX
	SourceHTML
	SourceImage
)

func (s SourceFormat) String() string {
	switch s {
	case SourcePDF:
		return "pdf"
	case SourceDOCX:
		return "docx"
	case SourceHTML:
		return "html"
	case SourceImage:
		return "image"
	default:
		return "pdf"
	}
}

func (s SourceFormat) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// EdgeRelation is the closed set of reading-graph relations.
type EdgeRelation int

const (
	RelationNext EdgeRelation = iota
	RelationParent
	RelationChild
	RelationCaptionOf
)

func (r EdgeRelation) String() string {
	switch r {
	case RelationParent:
		return "parent"
	case RelationChild:
		return "child"
	case RelationCaptionOf:
		return "caption_of"
	default:
		return "next"
	}
}

func (r EdgeRelation) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

// IDGenerator produces block/table identifiers. Production code uses
// RandomIDGenerator; tests use SequentialIDGenerator for determinism
// (§8 property 1 requires byte-identical JSON across runs).
type IDGenerator interface {
	NewID() string
}

// RandomIDGenerator issues RFC 4122 UUIDs.
type RandomIDGenerator struct{}

// NewID returns a new random UUID string.
func (RandomIDGenerator) NewID() string { return uuid.NewString() }

// SequentialIDGenerator issues deterministic, incrementing ids prefixed
// with a fixed string, e.g. "b-0", "b-1", ... Safe only for single-threaded
// use (tests and CLI's single-document runs never call it concurrently for
// the same prefix).
type SequentialIDGenerator struct {
	Prefix string
	next   int
}

// NewID returns the next sequential id for this generator.
func (g *SequentialIDGenerator) NewID() string {
	id := g.Prefix + itoa(g.next)
	g.next++
	return id
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
