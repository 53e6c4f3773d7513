package constants

import "testing"

func TestIsAllowedFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"reports/week12.pdf", true},
		{"reports/WEEK12.PDF", true},
		{"reports/week12.xlsx", false},
		{"reports/pdf", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsAllowedFile(tt.path); got != tt.want {
			t.Errorf("IsAllowedFile(%q): got %v, want %v", tt.path, got, tt.want)
		}
	}
}
