package lexicon

import (
	"regexp"
	"unicode/utf8"
)

// sinhalaRun matches maximal runs of Sinhala-script codepoints.
var sinhalaRun = regexp.MustCompile(`[\x{0D80}-\x{0DFF}]+`)

// Span marks one Sinhala word inside checked text. Offsets are in runes.
type Span struct {
	Word  string
	Start int
	End   int
}

// KnownSinhala reports whether a Sinhala word appears as a value in either
// lexicon layer. This membership check is the entire spell surface; there
// is no correction machinery.
func (l *Lexicon) KnownSinhala(word string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.values[word]
	return ok
}

// UnknownSinhala scans text for Sinhala-script runs that are not lexicon
// values, returning their positions for the host to mark up.
func (l *Lexicon) UnknownSinhala(text string) []Span {
	matches := sinhalaRun.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		return nil
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	var spans []Span
	for _, m := range matches {
		word := text[m[0]:m[1]]
		if _, ok := l.values[word]; ok {
			continue
		}
		start := utf8.RuneCountInString(text[:m[0]])
		spans = append(spans, Span{
			Word:  word,
			Start: start,
			End:   start + utf8.RuneCountInString(word),
		})
	}
	return spans
}
