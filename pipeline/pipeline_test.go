package pipeline

import (
	"testing"

	"github.com/tsawler/fastvision/geometry"
	"github.com/tsawler/fastvision/schema"
	"github.com/tsawler/fastvision/tagger"
)

func TestApplyTagsToBlocksDirectIndex(t *testing.T) {
	blocks := []geometry.Block{
		{ID: "b0", Text: "Intro"},
		{ID: "b1", Text: "Section One"},
	}
	tags := []tagger.Tag{
		{BlockIndex: 1, BlockType: "heading", Role: "section_title", ReadingOrder: 0},
		{BlockIndex: 0, BlockType: "paragraph", Role: "paragraph", ReadingOrder: 1},
	}
	applyTagsToBlocks(blocks, tags)

	if blocks[1].BlockType != schema.BlockHeading || blocks[1].Role != schema.RoleSectionTitle {
		t.Fatalf("got %+v", blocks[1])
	}
	if blocks[0].BlockType != schema.BlockParagraph {
		t.Fatalf("got %+v", blocks[0])
	}
}

func TestApplyTagsToBlocksDefaultsWhenNoTags(t *testing.T) {
	blocks := []geometry.Block{{ID: "b0", Text: "x"}, {ID: "b1", Text: "y"}}
	applyTagsToBlocks(blocks, nil)
	for i, b := range blocks {
		if b.BlockType != schema.BlockParagraph || b.ReadingOrder != i {
			t.Fatalf("block %d: got %+v", i, b)
		}
	}
}

func TestToSchemaRhetoricNilPassthrough(t *testing.T) {
	if toSchemaRhetoric(nil) != nil {
		t.Fatal("expected nil")
	}
	if toSchemaRhetoricFeatures(nil) != nil {
		t.Fatal("expected nil")
	}
}

func TestToSchemaRhetoricCopiesFields(t *testing.T) {
	got := toSchemaRhetoric(&tagger.Rhetoric{Tone: "formal", Domain: "legal"})
	if got.Tone != "formal" || got.Domain != "legal" {
		t.Fatalf("got %+v", got)
	}
}

func TestProcessUnsupportedExtension(t *testing.T) {
	_, err := Process(nil, "/tmp/whatever.txt", Options{})
	if err == nil {
		t.Fatal("expected an error for an unsupported extension")
	}
	pe, ok := err.(*Error)
	if !ok || pe.Kind != KindUnsupportedInput {
		t.Fatalf("got %v", err)
	}
}
