package match

import (
	"testing"

	"github.com/tsawler/fastvision/tagger"
)

func TestBlocksToTagsNoTagsAssignsDefaults(t *testing.T) {
	results := BlocksToTags([]string{"a", "b"}, nil)
	for i, r := range results {
		if r.BlockType != "paragraph" || r.Role != "paragraph" || r.ReadingOrder != i {
			t.Fatalf("got %+v at %d", r, i)
		}
	}
}

func TestBlocksToTagsDirectIndexMatch(t *testing.T) {
	tags := []tagger.Tag{
		{BlockIndex: 1, BlockType: "heading", Role: "section_title", ReadingOrder: 1},
		{BlockIndex: 0, BlockType: "paragraph", Role: "paragraph", ReadingOrder: 0},
	}
	results := BlocksToTags([]string{"intro text", "Heading Text"}, tags)
	if results[1].BlockType != "heading" {
		t.Fatalf("expected block 1 to get heading tag, got %+v", results[1])
	}
	if results[0].BlockType != "paragraph" {
		t.Fatalf("expected block 0 to get paragraph tag, got %+v", results[0])
	}
}

func TestBlocksToTagsFuzzyFallbackOnIndexMismatch(t *testing.T) {
	blockTexts := []string{"The quick brown fox jumps over the lazy dog"}
	tags := []tagger.Tag{
		{BlockIndex: 5, BlockType: "heading", Role: "title", ReadingOrder: 0,
			SourceText: "The quick brown fox jumps over the lazy dog"},
	}
	results := BlocksToTags(blockTexts, tags)
	if results[0].BlockType != "heading" {
		t.Fatalf("expected fuzzy match to rescue the tag, got %+v", results[0])
	}
}

func TestBlocksToTagsFuzzyBelowThresholdKeepsDefault(t *testing.T) {
	blockTexts := []string{"completely unrelated content about cats"}
	tags := []tagger.Tag{
		{BlockIndex: 9, BlockType: "heading", Role: "title", SourceText: "quarterly financial results summary"},
	}
	results := BlocksToTags(blockTexts, tags)
	if results[0].BlockType != "paragraph" {
		t.Fatalf("expected default paragraph for a poor match, got %+v", results[0])
	}
}

func TestSimilarityIdenticalStringsIsOne(t *testing.T) {
	if s := similarity("hello world", "hello world"); s != 1.0 {
		t.Fatalf("got %v, want 1.0", s)
	}
}

func TestSimilarityEmptyIsZero(t *testing.T) {
	if s := similarity("", "hello"); s != 0 {
		t.Fatalf("got %v, want 0", s)
	}
}
