// Package translit converts romanized Sinhala ("Singlish") words to Sinhala
// script with a greedy longest-match syllable segmentation. It is the
// fallback used whenever the lexicon has no entry for a typed word.
package translit

import (
	"strings"
	"unicode/utf8"
)

// Transliterate converts a romanized word to Sinhala script. It is pure and
// total: characters outside the phonetic tables pass through unchanged, and
// input that produces no output at all is echoed back as typed. Text that is
// already Sinhala therefore survives a round trip untouched.
//
// Each step consumes the longest matching consonant cluster, then the
// longest matching vowel. A consonant takes the vowel as a dependent sign;
// a vowel on its own becomes an independent letter where one exists, or
// stays as raw text where none does.
func Transliterate(word string) string {
	lower := strings.ToLower(word)

	var out strings.Builder
	rest := lower
	for len(rest) > 0 {
		cons := longestPrefix(rest, consonantKeys)
		afterCons := rest[len(cons):]

		searchIn := afterCons
		if cons == "" {
			searchIn = rest
		}
		vowel := longestPrefix(searchIn, vowelKeys)

		switch {
		case cons != "":
			out.WriteString(consonants[cons])
			out.WriteString(vowelSigns[vowel])
			rest = afterCons[len(vowel):]
		case vowel != "":
			if letter, ok := independentVowels[vowel]; ok {
				out.WriteString(letter)
			} else {
				out.WriteString(vowel)
			}
			rest = rest[len(vowel):]
		default:
			// unhandled rune, copy through
			_, size := utf8.DecodeRuneInString(rest)
			out.WriteString(rest[:size])
			rest = rest[size:]
		}
	}

	if out.Len() == 0 {
		return word
	}
	return out.String()
}

// longestPrefix returns the first key in keys that prefixes s. Keys are
// sorted longest first, so the first hit is the longest match.
func longestPrefix(s string, keys []string) string {
	for _, k := range keys {
		if strings.HasPrefix(s, k) {
			return k
		}
	}
	return ""
}
