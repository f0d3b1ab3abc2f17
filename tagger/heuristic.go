package tagger

import "strings"

// Heuristic classifies blocks from font size/weight and text shape alone,
// used when no vision backend is configured or a batch request fails
// (§4.9, §7 non-fatal TaggerFailure). It never returns an error.
func Heuristic(blocks []BlockSummary) []Tag {
	tags := make([]Tag, len(blocks))
	for i, b := range blocks {
		bt := guessBlockType(b)
		tags[i] = Tag{
			BlockIndex:   b.Index,
			BlockType:    bt,
			Role:         guessRole(bt),
			ReadingOrder: i,
		}
	}
	return tags
}

func guessBlockType(b BlockSummary) string {
	font := strings.ToLower(b.Font)
	text := b.Text

	if b.Size >= 14 || (strings.Contains(font, "bold") && b.Size >= 12) {
		return "heading"
	}

	words := strings.Fields(text)
	if len(words) <= 3 && isAllDigits(strings.TrimSpace(text)) {
		return "page_number"
	}

	stripped := strings.TrimLeft(text, " \t")
	for _, bullet := range []string{"•", "-", "–", "▪", "◦"} {
		if strings.HasPrefix(stripped, bullet) {
			return "list_item"
		}
	}
	if len(stripped) > 2 && stripped[0] >= '0' && stripped[0] <= '9' && (stripped[1] == '.' || stripped[1] == ')') {
		return "list_item"
	}

	return "paragraph"
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func guessRole(blockType string) string {
	switch blockType {
	case "heading":
		return "section_title"
	case "list_item", "table", "figure", "caption", "header", "footer":
		return blockType
	case "page_number":
		return "footer"
	default:
		return "paragraph"
	}
}
