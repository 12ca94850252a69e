package text

import "testing"

func TestLongestRun(t *testing.T) {
	t.Parallel()
	tests := []struct {
		s    string
		want int
	}{
		{"", 0},
		{"a", 1},
		{"abc", 1},
		{"aabbb", 3},
		{"soooooo", 6},
		{"ababab", 1},
		{"héllooo", 3},
		{"ooo𝕏𝕏𝕏𝕏", 4},
	}
	for _, tt := range tests {
		if got := LongestRun(tt.s); got != tt.want {
			t.Errorf("LongestRun(%q) = %d, want %d", tt.s, got, tt.want)
		}
	}
}

func TestHasRun(t *testing.T) {
	t.Parallel()
	if !HasRun("yessss", 4) {
		t.Error("HasRun(yessss, 4) = false")
	}
	if HasRun("yesss", 4) {
		t.Error("HasRun(yesss, 4) = true")
	}
	if HasRun("anything", 0) {
		t.Error("HasRun with n=0 must be false")
	}
}
