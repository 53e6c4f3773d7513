package layout

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestGroupLines(t *testing.T) {
	words := []Word{
		{Text: "Sales", X0: 120, X1: 140, Top: 101.5},
		{Text: "Totals", X0: 60, X1: 90, Top: 100},
		{Text: "Current", X0: 10, X1: 50, Top: 100.8},
		{Text: "Year", X0: 10, X1: 30, Top: 115},
		{Text: "Ago", X0: 35, X1: 50, Top: 114},
	}

	lines := GroupLines(words, DefaultLineTolerance)
	var got []string
	for _, l := range lines {
		got = append(got, l.Text())
	}
	want := []string{"Current Totals Sales", "Year Ago"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("lines mismatch (-want +got):\n%s", diff)
	}
	if lines[0].Top != 100 {
		t.Errorf("first line top: got %v, want 100", lines[0].Top)
	}
	if lines[1].Top != 114 {
		t.Errorf("second line top: got %v, want 114", lines[1].Top)
	}
}

// Drift is measured against the word that opened the line, not the previous word.
func TestGroupLines_DriftFromFirstWord(t *testing.T) {
	words := []Word{
		{Text: "a", X0: 0, X1: 5, Top: 10},
		{Text: "b", X0: 10, X1: 15, Top: 11.5},
		{Text: "c", X0: 20, X1: 25, Top: 13},
	}
	lines := GroupLines(words, 2)
	if len(lines) != 2 {
		t.Fatalf("lines: got %d, want 2", len(lines))
	}
	if lines[0].Text() != "a b" || lines[1].Text() != "c" {
		t.Errorf("got %q / %q", lines[0].Text(), lines[1].Text())
	}
}

func TestGroupLines_Empty(t *testing.T) {
	if got := GroupLines(nil, DefaultLineTolerance); got != nil {
		t.Fatalf("expected nil, got %#v", got)
	}
}

func TestGroupLines_DoesNotModifyInput(t *testing.T) {
	words := []Word{{Text: "b", X0: 10, Top: 5}, {Text: "a", X0: 0, Top: 5}}
	GroupLines(words, 1)
	if words[0].Text != "b" {
		t.Fatal("input slice was reordered")
	}
}
