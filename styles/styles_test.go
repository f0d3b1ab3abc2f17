package styles

import (
	"testing"

	"github.com/tsawler/fastvision/schema"
)

func TestNormalizeDeduplicatesIdenticalStyles(t *testing.T) {
	inputs := []Input{
		{FontName: "ABCDEF+Helvetica-Bold", Size: 12.04, Color: "#000000"},
		{FontName: "Helvetica-Bold", Size: 12.0, Color: "#000000"},
		{FontName: "Helvetica", Size: 10, Color: "#ff0000"},
	}
	ids, table := Normalize(inputs)
	if ids[0] != ids[1] {
		t.Fatalf("expected the first two styles to normalize to the same id, got %q and %q", ids[0], ids[1])
	}
	if ids[0] == ids[2] {
		t.Fatal("expected a visually distinct style to get a different id")
	}
	if len(table) != 2 {
		t.Fatalf("expected 2 unique styles, got %d", len(table))
	}
	if table[ids[0]].FontFamily != "Helvetica-Bold" {
		t.Fatalf("expected the embedded-font prefix stripped, got %q", table[ids[0]].FontFamily)
	}
	if table[ids[0]].Weight != schema.WeightBold {
		t.Fatalf("expected bold weight, got %v", table[ids[0]].Weight)
	}
}

func TestNormalizeDefaultsMissingFields(t *testing.T) {
	ids, table := Normalize([]Input{{}})
	style := table[ids[0]]
	if style.FontFamily != "unknown" || style.Color != "#000000" {
		t.Fatalf("got %+v", style)
	}
}

func TestHashIdLength(t *testing.T) {
	ids, _ := Normalize([]Input{{FontName: "Arial", Size: 11, Color: "#000000"}})
	if len(ids[0]) != 12 {
		t.Fatalf("expected a 12-char hash id, got %q", ids[0])
	}
}
