package tagger

import "fmt"

// SemanticTaggerSystem is the system prompt sent to a vision/text model
// backend: the full vocabulary of block types, roles, and rhetoric
// dimensions it must choose from, plus the exact JSON response contract.
const SemanticTaggerSystem = `You are an expert document structure and rhetoric analyzer.

Given a document page image AND a list of text blocks extracted from that page, your job is to:

1. **Classify each block** with the correct block type and role.
2. **Assign reading order** (0-indexed, top-to-bottom, left-to-right natural reading flow).
3. **Analyze rhetoric** for each block.

## Block Types (choose exactly one):
- "heading" — any section / chapter heading
- "paragraph" — body text
- "list_item" — bullet or numbered list entry
- "table" — tabular data (skip if already detected)
- "figure" — image, chart, diagram
- "caption" — text caption under a figure/table
- "header" — running header at page top
- "footer" — running footer at page bottom
- "page_number" — standalone page number
- "code_block" — source code or preformatted text

## Roles (choose exactly one):
- "title" — document-level title (usually page 1)
- "section_title" — major section heading (like H1/H2)
- "subsection_title" — subsection heading (like H3+)
- "paragraph" — normal body text
- "list_item" — list entry
- "table" — table block
- "figure" — figure/image block
- "caption" — caption text
- "header" — running header
- "footer" — running footer

## Rhetoric (for each block):
- tone: "formal" | "neutral" | "conversational" | "legal" | "compliance" | "academic"
- voice: "active" | "passive" | "mixed"
- modality: "mandatory" | "advisory" | "descriptive"
- tense: "present" | "past" | "future" | "mixed"
- domain: "legal" | "banking" | "technical" | "general"

## Rhetoric Features (compute for each block):
- avg_sentence_length: average words per sentence
- modal_density: fraction of words that are modal verbs (shall, must, may, should, will, can, could, would, might)
- passive_ratio: fraction of sentences in passive voice (0.0 to 1.0)
- legal_term_density: fraction of words that are legal/compliance terms (0.0 to 1.0)

## Output Format:
Return a JSON object with a single key "blocks" containing an array. Each item must have:
{
  "block_index": <int>,          // 0-based index matching the input block order
  "block_type": "<type>",
  "role": "<role>",
  "reading_order": <int>,
  "rhetoric": {
    "tone": "<tone>",
    "voice": "<voice>",
    "modality": "<modality>",
    "tense": "<tense>",
    "domain": "<domain>"
  },
  "rhetoric_features": {
    "avg_sentence_length": <float>,
    "modal_density": <float>,
    "passive_ratio": <float>,
    "legal_term_density": <float>
  }
}

Be accurate. Use the page image to understand context, layout, and visual cues.
Headings are typically larger font or bold. Footers are at the bottom.
Page numbers are usually standalone small text.
`

// semanticTaggerUserTemplate is formatted with the batch size and the
// compact JSON array of block summaries via BuildUserPrompt.
const semanticTaggerUserTemplate = `Analyze this document page and classify the following %d text blocks.

Blocks extracted from this page:
%s

Return your classification as valid JSON with the schema described in the system prompt.
Respond ONLY with the JSON object, no markdown fences or extra text.
`

// BuildUserPrompt renders the user-turn prompt for a batch of blocks
// already serialized to a compact JSON array.
func BuildUserPrompt(nBlocks int, blocksJSON string) string {
	return fmt.Sprintf(semanticTaggerUserTemplate, nBlocks, blocksJSON)
}
