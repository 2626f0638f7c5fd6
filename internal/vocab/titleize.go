// Package vocab holds the fixed vocabularies the YDEA export is mapped onto:
// Pleiades place types, time periods, the project bibliography, connection
// targets and positional accuracy documents.
package vocab

import (
	"strings"
	"unicode"
)

// uncapitalized words stay lower-case after title-casing.
var uncapitalized = map[string]string{}

func init() {
	for _, w := range []string{"of", "10th", "2nd", "3rd", "4th", "5th", "6th", "7th", "8th", "9th", "at", "and", "in"} {
		uncapitalized[titleCase(w)] = w
	}
}

// Titleize title-cases s word by word, normalising whitespace, and keeps
// short function words and ordinals lower-case.
func Titleize(s string) string {
	words := strings.Fields(titleCase(s))
	for i, w := range words {
		if u, ok := uncapitalized[w]; ok {
			words[i] = u
		}
	}
	return strings.Join(words, " ")
}

// titleCase upper-cases every letter that follows a non-letter and
// lower-cases every other letter.
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToTitle(r))
			}
			prevLetter = true
			continue
		}
		b.WriteRune(r)
		prevLetter = false
	}
	return b.String()
}
