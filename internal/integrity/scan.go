// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package integrity

// escaped reports whether the byte at i is preceded by an odd number of
// backslashes.
func escaped(s string, i int) bool {
	n := 0
	for j := i - 1; j >= 0 && s[j] == '\\'; j-- {
		n++
	}
	return n%2 == 1
}

// braceBalance scans s left to right. It returns -1 at the first unmatched
// closing brace, otherwise the count of unclosed opening braces. Escaped
// braces do not count.
func braceBalance(s string) int {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			if !escaped(s, i) {
				depth++
			}
		case '}':
			if escaped(s, i) {
				continue
			}
			if depth == 0 {
				return -1
			}
			depth--
		}
	}
	return depth
}

// countUnescaped counts occurrences of c not preceded by an odd-length run
// of backslashes.
func countUnescaped(s string, c byte) int {
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] == c && !escaped(s, i) {
			n++
		}
	}
	return n
}
