package extractor

import "unicode/utf8"

// truncateText keeps at most max characters of s.
func truncateText(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}
