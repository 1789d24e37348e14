package similarity

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

var stopwords = defaultStopwords()

// Tokenize lower-cases text, normalises it to NFC, deletes every rune that is
// not a letter, combining mark, digit or whitespace, splits on whitespace and
// drops stop words. Deleted runes are not replaced, so "state-of-the-art"
// yields the single token "stateoftheart". Tokens keep their order of
// appearance, duplicates included.
func Tokenize(text string) []string {
	lower := norm.NFC.String(cases.Lower(language.Und).String(text))
	stripped := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsMark(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, lower)
	fields := strings.Fields(stripped)
	out := fields[:0]
	for _, f := range fields {
		if IsStopword(f) {
			continue
		}
		out = append(out, f)
	}
	return out
}

// IsStopword reports whether token is in the fixed stop-word set.
func IsStopword(token string) bool {
	_, ok := stopwords[token]
	return ok
}

func defaultStopwords() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "is", "are", "was", "were",
		"in", "on", "at", "to", "for", "of", "with", "by", "from", "this",
		"that", "it", "as", "be", "can", "will", "has", "have", "had",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
