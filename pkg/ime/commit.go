package ime

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/log"

	"github.com/helabasa/singlish/internal/utils"
	"github.com/helabasa/singlish/pkg/translit"
)

// Status reports what a commit or accept attempt did to the document.
type Status int

const (
	// StatusNone means there was nothing to commit.
	StatusNone Status = iota
	// StatusCommitted means the document was updated (or the buffered
	// text was already final, as with digit-led words).
	StatusCommitted
	// StatusAborted means the buffer was abandoned without mutation.
	StatusAborted
)

func (s Status) String() string {
	switch s {
	case StatusCommitted:
		return "committed"
	case StatusAborted:
		return "aborted"
	default:
		return "none"
	}
}

// Reason explains a StatusAborted or StatusNone result.
type Reason int

const (
	ReasonNone Reason = iota
	// ReasonEmptyBuffer: no word was pending.
	ReasonEmptyBuffer
	// ReasonStale: the document span no longer matched the buffer.
	ReasonStale
	// ReasonBounds: the remembered word position fell outside the document.
	ReasonBounds
	// ReasonNoCandidate: the accept index had no candidate behind it.
	ReasonNoCandidate
)

func (r Reason) String() string {
	switch r {
	case ReasonEmptyBuffer:
		return "empty buffer"
	case ReasonStale:
		return "stale buffer"
	case ReasonBounds:
		return "out of bounds"
	case ReasonNoCandidate:
		return "no such candidate"
	default:
		return "none"
	}
}

// CommitResult is the outcome of finishing a word. Aborted results are
// ordinary control flow: a stale buffer is abandoned silently rather
// than risking an edit to unrelated text.
type CommitResult struct {
	Status Status
	Reason Reason
	// Text is the string now standing in the document for the word.
	Text string
}

// commitLocked finishes the pending word through dictionary lookup or
// phonetic fallback, replacing the buffered span as one atomic edit.
// The buffer is cleared no matter how the attempt ends.
func (e *Engine) commitLocked() CommitResult {
	if len(e.buf) == 0 {
		return CommitResult{Reason: ReasonEmptyBuffer}
	}
	defer e.resetWordLocked()

	word := string(e.buf)
	start, end := e.wordStart, e.wordStart+len(e.buf)
	if start < 0 || end > e.doc.Len() {
		log.Debugf("Commit aborted for %q: span [%d,%d) out of bounds", word, start, end)
		return CommitResult{Status: StatusAborted, Reason: ReasonBounds}
	}
	current, err := e.doc.ReadRange(start, end)
	if err != nil {
		log.Debugf("Commit aborted for %q: %v", word, err)
		return CommitResult{Status: StatusAborted, Reason: ReasonBounds}
	}
	if current != word {
		log.Debugf("Commit aborted: document has %q where buffer expected %q", current, word)
		return CommitResult{Status: StatusAborted, Reason: ReasonStale}
	}

	// Digit-led words stay exactly as typed.
	if utils.IsAsciiDigit(e.buf[0]) {
		return CommitResult{Status: StatusCommitted, Text: word}
	}

	replacement, ok := e.dict.Lookup(word)
	if !ok {
		replacement = translit.Transliterate(word)
	}
	if replacement == word {
		return CommitResult{Status: StatusCommitted, Text: word}
	}
	if err := e.doc.ReplaceRange(start, end, replacement); err != nil {
		log.Errorf("Failed to commit %q: %v", word, err)
		return CommitResult{Status: StatusAborted, Reason: ReasonBounds}
	}
	return CommitResult{Status: StatusCommitted, Text: replacement}
}

// acceptLocked replaces the pending word with the chosen candidate. When
// the buffered span went stale it searches a bounded window around the
// remembered position for the typed word, and as a last resort inserts
// the candidate at the cursor so the selection is never dropped.
func (e *Engine) acceptLocked(index int) CommitResult {
	if len(e.buf) == 0 {
		return CommitResult{Reason: ReasonEmptyBuffer}
	}
	if index < 0 || index >= len(e.cands) {
		return CommitResult{Status: StatusAborted, Reason: ReasonNoCandidate}
	}
	chosen := e.cands[index]
	word := string(e.buf)
	defer e.resetWordLocked()

	start, end := e.wordStart, e.wordStart+len(e.buf)
	if start >= 0 && end <= e.doc.Len() {
		if current, err := e.doc.ReadRange(start, end); err == nil && current == word {
			if err := e.doc.ReplaceRange(start, end, chosen); err == nil {
				return CommitResult{Status: StatusCommitted, Text: chosen}
			}
		}
	}

	if at, ok := e.findNearbyLocked(word, start); ok {
		if err := e.doc.ReplaceRange(at, at+len(e.buf), chosen); err == nil {
			log.Debugf("Accept recovered %q at %d (expected %d)", word, at, start)
			return CommitResult{Status: StatusCommitted, Text: chosen}
		}
	}

	cur := e.doc.Cursor()
	if err := e.doc.ReplaceRange(cur, cur, chosen); err != nil {
		log.Errorf("Failed to insert accepted candidate %q: %v", chosen, err)
		return CommitResult{Status: StatusAborted, Reason: ReasonBounds}
	}
	log.Debugf("Accept fell back to inserting %q at cursor %d", chosen, cur)
	return CommitResult{Status: StatusCommitted, Text: chosen}
}

// findNearbyLocked searches for word between recoveryWindow runes before
// the remembered start and recoveryWindow runes past the cursor,
// returning the rune offset of the first occurrence.
func (e *Engine) findNearbyLocked(word string, around int) (int, bool) {
	lo := around - e.recoveryWindow
	if lo < 0 {
		lo = 0
	}
	hi := e.doc.Cursor() + e.recoveryWindow
	if n := e.doc.Len(); hi > n {
		hi = n
	}
	if lo >= hi {
		return 0, false
	}
	window, err := e.doc.ReadRange(lo, hi)
	if err != nil {
		return 0, false
	}
	byteIdx := strings.Index(window, word)
	if byteIdx < 0 {
		return 0, false
	}
	return lo + utf8.RuneCountInString(window[:byteIdx]), true
}
