package tagger

import (
	"context"
	"errors"
	"sort"
	"testing"
)

func TestHeuristicHeading(t *testing.T) {
	tags := Heuristic([]BlockSummary{{Index: 0, Text: "Chapter One", Font: "Helvetica-Bold", Size: 18}})
	if tags[0].BlockType != "heading" || tags[0].Role != "section_title" {
		t.Fatalf("got %+v", tags[0])
	}
}

func TestHeuristicPageNumber(t *testing.T) {
	tags := Heuristic([]BlockSummary{{Index: 0, Text: "42", Font: "Helvetica", Size: 9}})
	if tags[0].BlockType != "page_number" {
		t.Fatalf("got %+v", tags[0])
	}
}

func TestHeuristicListItem(t *testing.T) {
	tags := Heuristic([]BlockSummary{{Index: 0, Text: "• first", Font: "Helvetica", Size: 10}})
	if tags[0].BlockType != "list_item" {
		t.Fatalf("got %+v", tags[0])
	}
}

func TestHeuristicParagraphDefault(t *testing.T) {
	tags := Heuristic([]BlockSummary{{Index: 0, Text: "A normal sentence of body text.", Font: "Helvetica", Size: 10}})
	if tags[0].BlockType != "paragraph" || tags[0].Role != "paragraph" {
		t.Fatalf("got %+v", tags[0])
	}
}

type fakeTagger struct {
	fail map[int]bool
	call int
}

func (f *fakeTagger) TagBatch(ctx context.Context, pageImage []byte, blocks []BlockSummary) ([]Tag, error) {
	call := f.call
	f.call++
	if f.fail[call] {
		return nil, errors.New("backend failure")
	}
	tags := make([]Tag, len(blocks))
	for i, b := range blocks {
		tags[i] = Tag{BlockIndex: i, BlockType: "paragraph", Role: "paragraph", ReadingOrder: i}
		_ = b
	}
	return tags, nil
}

func TestDispatchBatchesAndReindexes(t *testing.T) {
	blocks := make([]BlockSummary, 7)
	for i := range blocks {
		blocks[i] = BlockSummary{Index: i, Text: "block text", Font: "Helvetica", Size: 10}
	}
	ft := &fakeTagger{}
	tags := Dispatch(context.Background(), ft, blocks, nil, 3, 80, 4, nil)
	if len(tags) != len(blocks) {
		t.Fatalf("got %d tags, want %d", len(tags), len(blocks))
	}
	seen := make(map[int]bool)
	for _, tag := range tags {
		seen[tag.BlockIndex] = true
	}
	for i := range blocks {
		if !seen[i] {
			t.Fatalf("missing tag for block index %d", i)
		}
	}
}

func TestDispatchFallsBackToHeuristicOnBatchFailure(t *testing.T) {
	blocks := []BlockSummary{
		{Index: 0, Text: "Big Heading", Font: "Helvetica-Bold", Size: 20},
		{Index: 1, Text: "body text here", Font: "Helvetica", Size: 10},
	}
	ft := &fakeTagger{fail: map[int]bool{0: true}}
	tags := Dispatch(context.Background(), ft, blocks, nil, 10, 80, 2, nil)
	if len(tags) != 2 {
		t.Fatalf("expected fallback tags for the failed batch, got %d", len(tags))
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].BlockIndex < tags[j].BlockIndex })
	if tags[0].BlockType != "heading" {
		t.Fatalf("expected heuristic heading fallback, got %+v", tags[0])
	}
}

func TestEncodeBatchTruncatesText(t *testing.T) {
	blocks := []BlockSummary{{Index: 0, Text: "0123456789", Font: "Helvetica", Size: 10}}
	out, err := EncodeBatch(blocks, 5)
	if err != nil {
		t.Fatalf("EncodeBatch: %v", err)
	}
	if !contains(out, "01234...") {
		t.Fatalf("expected truncated text in %q", out)
	}
}

func contains(s, sub string) bool {
	return len(s) >= len(sub) && (func() bool {
		for i := 0; i+len(sub) <= len(s); i++ {
			if s[i:i+len(sub)] == sub {
				return true
			}
		}
		return false
	})()
}
