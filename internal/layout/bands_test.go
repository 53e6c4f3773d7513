package layout

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestAssignBands(t *testing.T) {
	bands := []Band{
		{Name: "name", Start: 20},
		{Name: "city", Start: 100},
		{Name: "units", Start: 150},
	}
	tests := []struct {
		name  string
		words []Word
		want  map[string]string
	}{
		{
			name: "by midpoint",
			words: []Word{
				{Text: "Harbor", X0: 22, X1: 60},
				{Text: "Point", X0: 62, X1: 104},
				{Text: "OAK", X0: 98, X1: 120},
				{Text: "120", X0: 148, X1: 160},
			},
			want: map[string]string{"name": "Harbor Point", "city": "OAK", "units": "120"},
		},
		{
			name: "left of first band is dropped",
			words: []Word{
				{Text: "*", X0: 2, X1: 6},
				{Text: "Vista", X0: 30, X1: 50},
			},
			want: map[string]string{"name": "Vista", "city": "", "units": ""},
		},
		{
			name:  "last band is open ended",
			words: []Word{{Text: "9999", X0: 900, X1: 920}},
			want:  map[string]string{"name": "", "city": "", "units": "9999"},
		},
		{
			name: "no words",
			want: map[string]string{"name": "", "city": "", "units": ""},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AssignBands(bands, tt.words)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAssignBands_BoundaryBelongsToLaterBand(t *testing.T) {
	bands := []Band{{Name: "a", Start: 0}, {Name: "b", Start: 10}}
	got := AssignBands(bands, []Word{{Text: "x", X0: 8, X1: 12}})
	if got["b"] != "x" || got["a"] != "" {
		t.Fatalf("got %#v", got)
	}
}
