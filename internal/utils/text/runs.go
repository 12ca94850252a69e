package text

// LongestRun returns the length of the longest run of one repeated
// rune in s. Go's regexp has no backreferences, so repeated-character
// checks are done by hand.
func LongestRun(s string) int {
	var (
		longest int
		current int
		prev    rune
	)
	for i, r := range s {
		if i > 0 && r == prev {
			current++
		} else {
			current = 1
			prev = r
		}
		if current > longest {
			longest = current
		}
	}
	return longest
}

// HasRun reports whether s contains a run of n or more identical runes.
func HasRun(s string, n int) bool {
	return n > 0 && LongestRun(s) >= n
}
