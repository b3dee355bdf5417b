package anchor

import (
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// DiffLocator behaves like SubstringLocator and, when both exact searches
// fail, runs a bitap fuzzy match of the first line's leading characters.
type DiffLocator struct {
	MinLength int
	// Threshold is the bitap match threshold; 0 keeps the library default.
	Threshold float64
	// Distance is how far from the document start a match may drift; 0 keeps
	// the library default.
	Distance int
}

func (l DiffLocator) Locate(selectedText, normalizedText string) (Match, bool) {
	exact := SubstringLocator{MinLength: l.MinLength}
	if m, ok := exact.Locate(selectedText, normalizedText); ok {
		return m, true
	}
	minLength := exact.minLength()

	dmp := diffmatchpatch.New()
	if l.Threshold > 0 {
		dmp.MatchThreshold = l.Threshold
	}
	if l.Distance > 0 {
		dmp.MatchDistance = l.Distance
	}
	// bitap patterns are limited to MatchMaxBits bytes
	needle := runePrefix(NormalizeForSearch(firstLine(selectedText)), dmp.MatchMaxBits)
	length := utf8.RuneCountInString(needle)
	if length < minLength || normalizedText == "" {
		return Match{}, false
	}
	i := dmp.MatchMain(normalizedText, needle, 0)
	if i < 0 {
		return Match{}, false
	}
	for i > 0 && !utf8.RuneStart(normalizedText[i]) {
		i--
	}
	start := utf8.RuneCountInString(normalizedText[:i])
	length = min(length, utf8.RuneCountInString(normalizedText)-start)
	if length < minLength {
		return Match{}, false
	}
	return Match{Index: start, Length: length}, true
}

// runePrefix returns the longest prefix of s that fits in maxBytes without
// splitting a rune.
func runePrefix(s string, maxBytes int) string {
	if len(s) <= maxBytes {
		return s
	}
	end := 0
	for i, r := range s {
		size := utf8.RuneLen(r)
		if i+size > maxBytes {
			break
		}
		end = i + size
	}
	return s[:end]
}
