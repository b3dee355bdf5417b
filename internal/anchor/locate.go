package anchor

import (
	"strings"
	"unicode/utf8"
)

// MinMatchLength is the shortest normalized text the locator will search
// for. Shorter fragments match too much to be trusted.
const MinMatchLength = 3

// Match is a span of a normalized haystack, in runes.
type Match struct {
	Index  int
	Length int
}

// Locator finds a comment's selected text inside a normalized document text.
type Locator interface {
	Locate(selectedText, normalizedText string) (Match, bool)
}

// SubstringLocator searches for the whole normalized selection and falls
// back to its first line. The first occurrence wins.
type SubstringLocator struct {
	MinLength int
}

func (l SubstringLocator) minLength() int {
	if l.MinLength > 0 {
		return l.MinLength
	}
	return MinMatchLength
}

func (l SubstringLocator) Locate(selectedText, normalizedText string) (Match, bool) {
	minLength := l.minLength()
	if m, ok := findNormalized(NormalizeForSearch(selectedText), normalizedText, minLength); ok {
		return m, true
	}
	line := firstLine(selectedText)
	if line == selectedText {
		return Match{}, false
	}
	return findNormalized(NormalizeForSearch(line), normalizedText, minLength)
}

// Locate runs the default locator.
func Locate(selectedText, normalizedText string) (Match, bool) {
	return SubstringLocator{}.Locate(selectedText, normalizedText)
}

func findNormalized(needle, haystack string, minLength int) (Match, bool) {
	length := utf8.RuneCountInString(needle)
	if length < minLength {
		return Match{}, false
	}
	i := strings.Index(haystack, needle)
	if i < 0 {
		return Match{}, false
	}
	return Match{Index: utf8.RuneCountInString(haystack[:i]), Length: length}, true
}
