// Package ime implements the input engine that turns a stream of
// classified key events into Sinhala text edits.
//
// The engine buffers a romanized word in progress, tracks the document
// offset where it began, and keeps a ranked candidate list current while
// the user types. A delimiter, hotkey, or navigation event finishes the
// word: the buffered span is replaced with either a dictionary candidate
// or the phonetic rendering, as a single atomic edit.
//
// All document access goes through editor.Document, so the engine works
// the same against the bundled text buffer and against a host editor.
// Candidate recomputation is funneled through a Scheduler, which lets
// callers debounce bursts of keystrokes.
package ime

import (
	"sync"

	"github.com/charmbracelet/log"

	"github.com/helabasa/singlish/internal/utils"
	"github.com/helabasa/singlish/pkg/editor"
)

const (
	// DefaultMaxCandidates caps the candidate list at nine entries so
	// each maps onto a single-digit hotkey.
	DefaultMaxCandidates = 9

	// DefaultRecoveryWindow bounds how far (in runes) an accept searches
	// around the remembered word position when the buffer went stale.
	DefaultRecoveryWindow = 10

	// KeyEscape abandons the pending word without committing.
	KeyEscape = '\x1b'
)

// Dictionary is the lookup surface the engine depends on; *lexicon.Lexicon
// satisfies it. Implementations treat keys case-insensitively.
type Dictionary interface {
	// Lookup returns the Sinhala text for an exact romanized key.
	Lookup(key string) (string, bool)
	// Suggest returns ranked candidates for a romanized prefix.
	Suggest(prefix string, limit int) []string
	// Teach records a personal key to Sinhala mapping.
	Teach(key, value string) error
}

// Options configures an Engine. Zero values select defaults.
type Options struct {
	MaxCandidates  int
	RecoveryWindow int
	// Scheduler defers candidate recomputation. Defaults to
	// ImmediateScheduler; interactive hosts pass a TimerScheduler.
	Scheduler Scheduler
	// OnCandidates is invoked after each recomputation with the current
	// candidate list and highlight index (-1 when the list is empty).
	// It runs outside the engine lock and must not block for long.
	OnCandidates func(candidates []string, highlight int)
}

// Engine is the input state machine. It is either Empty (no pending word)
// or Accumulating (buf holds the romanized word starting at wordStart).
// Methods are safe for concurrent use.
type Engine struct {
	mu   sync.Mutex
	doc  editor.Document
	dict Dictionary

	buf       []rune
	wordStart int // rune offset of buf[0] in the document, -1 when empty
	cands     []string
	highlight int

	// gen invalidates scheduled refreshes: each mutation bumps it, and a
	// refresh carrying an older value drops itself.
	gen   uint64
	sched Scheduler

	maxCandidates  int
	recoveryWindow int
	onCandidates   func([]string, int)
}

// New creates an engine operating on doc with candidates served by dict.
func New(doc editor.Document, dict Dictionary, opts Options) *Engine {
	if opts.MaxCandidates <= 0 {
		opts.MaxCandidates = DefaultMaxCandidates
	}
	if opts.RecoveryWindow <= 0 {
		opts.RecoveryWindow = DefaultRecoveryWindow
	}
	if opts.Scheduler == nil {
		opts.Scheduler = ImmediateScheduler{}
	}
	return &Engine{
		doc:            doc,
		dict:           dict,
		wordStart:      -1,
		highlight:      -1,
		sched:          opts.Scheduler,
		maxCandidates:  opts.MaxCandidates,
		recoveryWindow: opts.RecoveryWindow,
		onCandidates:   opts.OnCandidates,
	}
}

// HandleCharacter processes a word-forming rune. Digits 1-9 act as
// candidate hotkeys while the candidate list is non-empty; a digit that
// starts a new word is passed through as plain text and never opens a
// buffer. Non-word runes are routed to HandleDelimiter.
func (e *Engine) HandleCharacter(r rune) CommitResult {
	if !utils.IsWordRune(r) {
		return e.HandleDelimiter(r)
	}
	e.mu.Lock()
	if r >= '1' && r <= '9' && len(e.cands) > 0 {
		if idx := int(r - '1'); idx < len(e.cands) {
			res := e.acceptLocked(idx)
			e.unlockAndRefresh()
			return res
		}
		// No candidate at that slot: the digit is ordinary input.
	}
	var res CommitResult
	if len(e.buf) > 0 && e.doc.Cursor() != e.wordStart+len(e.buf) {
		// The cursor moved since we last saw it. Flush the old word
		// where it was, then start over at the new position.
		res = e.commitLocked()
	}
	cur := e.doc.Cursor()
	if len(e.buf) == 0 && utils.IsAsciiDigit(r) {
		if err := e.doc.ReplaceRange(cur, cur, string(r)); err != nil {
			log.Errorf("Failed to insert %q at %d: %v", r, cur, err)
		}
		e.unlockAndRefresh()
		return res
	}
	if err := e.doc.ReplaceRange(cur, cur, string(r)); err != nil {
		log.Errorf("Failed to insert %q at %d: %v", r, cur, err)
		e.unlockAndRefresh()
		return res
	}
	if len(e.buf) == 0 {
		e.wordStart = cur
	}
	e.buf = append(e.buf, r)
	e.unlockAndRefresh()
	return res
}

// HandleBackspace removes the rune before the cursor. While a word is
// pending it also pops the buffer so the two stay in lockstep.
func (e *Engine) HandleBackspace() CommitResult {
	e.mu.Lock()
	var res CommitResult
	switch {
	case len(e.buf) == 0:
		e.backspaceDocLocked()
	case e.doc.Cursor() != e.wordStart+len(e.buf):
		res = e.commitLocked()
		e.backspaceDocLocked()
	default:
		e.backspaceDocLocked()
		e.buf = e.buf[:len(e.buf)-1]
		if len(e.buf) == 0 {
			e.resetWordLocked()
		}
	}
	e.unlockAndRefresh()
	return res
}

func (e *Engine) backspaceDocLocked() {
	cur := e.doc.Cursor()
	if cur == 0 {
		return
	}
	if err := e.doc.ReplaceRange(cur-1, cur, ""); err != nil {
		log.Errorf("Failed to delete at %d: %v", cur, err)
	}
}

// HandleDelimiter finishes the pending word. With candidates on screen
// the highlighted one is accepted; otherwise the word commits through
// dictionary lookup or phonetic fallback. The delimiter itself is then
// inserted, except for Escape (pure discard) and an Enter that was
// consumed by accepting a candidate.
func (e *Engine) HandleDelimiter(r rune) CommitResult {
	e.mu.Lock()
	if r == KeyEscape {
		e.resetWordLocked()
		e.unlockAndRefresh()
		return CommitResult{}
	}
	var res CommitResult
	accepted := false
	if len(e.buf) > 0 {
		if len(e.cands) > 0 {
			idx := e.highlight
			if idx < 0 || idx >= len(e.cands) {
				idx = 0
			}
			res = e.acceptLocked(idx)
			accepted = res.Status == StatusCommitted
		} else {
			res = e.commitLocked()
		}
	}
	if !(r == '\n' && accepted) {
		cur := e.doc.Cursor()
		if err := e.doc.ReplaceRange(cur, cur, string(r)); err != nil {
			log.Errorf("Failed to insert %q at %d: %v", r, cur, err)
		}
	}
	e.unlockAndRefresh()
	return res
}

// HandleNavigation commits the pending word before the host moves the
// cursor (arrow keys, Home/End, mouse click).
func (e *Engine) HandleNavigation() CommitResult {
	e.mu.Lock()
	var res CommitResult
	if len(e.buf) > 0 {
		res = e.commitLocked()
	}
	e.unlockAndRefresh()
	return res
}

// AcceptCandidate replaces the pending word with the candidate at index
// (0-based). An index outside the current list aborts without touching
// the buffer.
func (e *Engine) AcceptCandidate(index int) CommitResult {
	e.mu.Lock()
	res := e.acceptLocked(index)
	e.unlockAndRefresh()
	return res
}

// Teach records a personal mapping and refreshes candidates so the new
// entry shows up immediately.
func (e *Engine) Teach(key, value string) error {
	if err := e.dict.Teach(key, value); err != nil {
		return err
	}
	e.mu.Lock()
	e.unlockAndRefresh()
	return nil
}

// Reset abandons the pending word without mutating the document.
func (e *Engine) Reset() {
	e.mu.Lock()
	e.resetWordLocked()
	e.unlockAndRefresh()
}

// Candidates returns a copy of the current candidate list.
func (e *Engine) Candidates() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.cands...)
}

// Highlight returns the highlighted candidate index, -1 when no
// candidates are shown.
func (e *Engine) Highlight() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.highlight
}

// Pending returns the romanized word currently being composed.
func (e *Engine) Pending() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return string(e.buf)
}

// HighlightNext moves the highlight down the candidate list, wrapping.
func (e *Engine) HighlightNext() { e.cycleHighlight(1) }

// HighlightPrev moves the highlight up the candidate list, wrapping.
func (e *Engine) HighlightPrev() { e.cycleHighlight(-1) }

func (e *Engine) cycleHighlight(delta int) {
	e.mu.Lock()
	n := len(e.cands)
	if n == 0 {
		e.mu.Unlock()
		return
	}
	e.highlight = ((e.highlight+delta)%n + n) % n
	cands := append([]string(nil), e.cands...)
	hl := e.highlight
	cb := e.onCandidates
	e.mu.Unlock()
	if cb != nil {
		cb(cands, hl)
	}
}

// Close releases the scheduler. The engine must not be used afterwards.
func (e *Engine) Close() {
	e.sched.Stop()
}

// unlockAndRefresh bumps the generation counter, releases the lock, and
// schedules a candidate recomputation for the new generation. Must be
// called with the lock held; returns with it released.
func (e *Engine) unlockAndRefresh() {
	e.gen++
	g := e.gen
	e.mu.Unlock()
	e.sched.Schedule(func() { e.refresh(g) })
}

// refresh recomputes the candidate list for generation gen. A stale
// generation means newer input already superseded this work, so it is
// dropped. Digit-led buffers never produce candidates.
func (e *Engine) refresh(gen uint64) {
	e.mu.Lock()
	if gen != e.gen {
		e.mu.Unlock()
		return
	}
	var cands []string
	if len(e.buf) > 0 && !utils.IsAsciiDigit(e.buf[0]) && e.spanIntactLocked() {
		cands = e.dict.Suggest(string(e.buf), e.maxCandidates)
	}
	e.cands = cands
	if len(cands) > 0 {
		e.highlight = 0
	} else {
		e.highlight = -1
	}
	snapshot := append([]string(nil), cands...)
	hl := e.highlight
	cb := e.onCandidates
	e.mu.Unlock()
	if cb != nil {
		cb(snapshot, hl)
	}
}

// spanIntactLocked reports whether the document still holds the buffered
// word at its remembered position with the cursor at its end.
func (e *Engine) spanIntactLocked() bool {
	end := e.wordStart + len(e.buf)
	if e.wordStart < 0 || end > e.doc.Len() || e.doc.Cursor() != end {
		return false
	}
	text, err := e.doc.ReadRange(e.wordStart, end)
	return err == nil && text == string(e.buf)
}

func (e *Engine) resetWordLocked() {
	e.buf = e.buf[:0]
	e.wordStart = -1
	e.cands = nil
	e.highlight = -1
}
