package locate

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Fold lowercases s code point by code point.
// The result has exactly one rune per input rune, so offsets into the folded
// text are offsets into the original.
func Fold(s string) []rune {
	runes := []rune(s)
	for i, r := range runes {
		runes[i] = unicode.ToLower(r)
	}
	return runes
}

// FoldString is Fold returning a string
func FoldString(s string) string {
	return string(Fold(s))
}

// Tokenize splits text on whitespace
func Tokenize(text string) []string {
	return strings.Fields(text)
}

// SplitPhrases splits text on sentence terminators
func SplitPhrases(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})
}

// IndexFold returns the leftmost rune offset of needle in haystack, or -1.
// Both arguments must already be folded.
func IndexFold(haystack, needle []rune) int {
	n := len(needle)
	if n == 0 || n > len(haystack) {
		return -1
	}

	for i := 0; i+n <= len(haystack); i++ {
		if haystack[i] != needle[0] {
			continue
		}
		match := true
		for j := 1; j < n; j++ {
			if haystack[i+j] != needle[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

// RuneOffset converts a byte offset in s to a code point offset
func RuneOffset(s string, byteOffset int) int {
	return utf8.RuneCountInString(s[:byteOffset])
}

// runeLen counts code points
func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
