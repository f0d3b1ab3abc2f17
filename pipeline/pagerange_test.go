package pipeline

import (
	"reflect"
	"testing"
)

func TestParsePageRangeSingleAndRange(t *testing.T) {
	got := parsePageRange("1,3-5,10", 10)
	want := []int{1, 3, 4, 5, 10}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestParsePageRangeClampsOutOfBounds(t *testing.T) {
	got := parsePageRange("0,1,100", 5)
	want := []int{1}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestParsePageRangeEmptyMeansAll(t *testing.T) {
	got := parsePageRange("", 3)
	want := []int{1, 2, 3}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestParsePageRangeGarbageMeansAll(t *testing.T) {
	got := parsePageRange("x,y-z", 3)
	want := []int{1, 2, 3}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}
