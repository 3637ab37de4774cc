package editor

// edit records one ReplaceRange so it can be undone and redone as a unit.
type edit struct {
	start        int
	removed      string
	inserted     string
	cursorBefore int
	cursorAfter  int
}

// TextBuffer is an in-memory Document with a cursor and undo/redo history.
// Every ReplaceRange call is exactly one history entry, so a commit that
// swaps romanized text for Sinhala text reverts with a single Undo.
//
// TextBuffer is not safe for concurrent use; the engine serializes access.
type TextBuffer struct {
	runes  []rune
	cursor int
	undo   []edit
	redo   []edit
}

// NewTextBuffer returns a buffer holding text with the cursor at the end.
func NewTextBuffer(text string) *TextBuffer {
	runes := []rune(text)
	return &TextBuffer{runes: runes, cursor: len(runes)}
}

// Len returns the buffer length in runes.
func (b *TextBuffer) Len() int { return len(b.runes) }

// Cursor returns the cursor offset in runes.
func (b *TextBuffer) Cursor() int { return b.cursor }

// SetCursor moves the cursor, clamping to the document bounds.
func (b *TextBuffer) SetCursor(pos int) {
	if pos < 0 {
		pos = 0
	}
	if pos > len(b.runes) {
		pos = len(b.runes)
	}
	b.cursor = pos
}

// String returns the whole buffer contents.
func (b *TextBuffer) String() string { return string(b.runes) }

// ReadRange returns the text in [start, end).
func (b *TextBuffer) ReadRange(start, end int) (string, error) {
	if start < 0 || end < start || end > len(b.runes) {
		return "", ErrOutOfRange
	}
	return string(b.runes[start:end]), nil
}

// ReplaceRange replaces [start, end) with text as one undoable edit.
func (b *TextBuffer) ReplaceRange(start, end int, text string) error {
	if start < 0 || end < start || end > len(b.runes) {
		return ErrOutOfRange
	}
	removed := string(b.runes[start:end])
	inserted := []rune(text)

	next := make([]rune, 0, len(b.runes)-(end-start)+len(inserted))
	next = append(next, b.runes[:start]...)
	next = append(next, inserted...)
	next = append(next, b.runes[end:]...)

	cursorBefore := b.cursor
	switch {
	case b.cursor >= end:
		b.cursor += len(inserted) - (end - start)
	case b.cursor > start:
		b.cursor = start + len(inserted)
	}
	b.runes = next

	b.undo = append(b.undo, edit{
		start:        start,
		removed:      removed,
		inserted:     text,
		cursorBefore: cursorBefore,
		cursorAfter:  b.cursor,
	})
	b.redo = b.redo[:0]
	return nil
}

// Insert places text at the cursor.
func (b *TextBuffer) Insert(text string) error {
	return b.ReplaceRange(b.cursor, b.cursor, text)
}

// Undo reverts the most recent edit, restoring text and cursor.
// It reports whether there was anything to undo.
func (b *TextBuffer) Undo() bool {
	if len(b.undo) == 0 {
		return false
	}
	e := b.undo[len(b.undo)-1]
	b.undo = b.undo[:len(b.undo)-1]

	b.splice(e.start, e.start+len([]rune(e.inserted)), e.removed)
	b.cursor = e.cursorBefore
	b.redo = append(b.redo, e)
	return true
}

// Redo re-applies the most recently undone edit.
func (b *TextBuffer) Redo() bool {
	if len(b.redo) == 0 {
		return false
	}
	e := b.redo[len(b.redo)-1]
	b.redo = b.redo[:len(b.redo)-1]

	b.splice(e.start, e.start+len([]rune(e.removed)), e.inserted)
	b.cursor = e.cursorAfter
	b.undo = append(b.undo, e)
	return true
}

// splice swaps [start, end) for text without touching history or cursor.
func (b *TextBuffer) splice(start, end int, text string) {
	inserted := []rune(text)
	next := make([]rune, 0, len(b.runes)-(end-start)+len(inserted))
	next = append(next, b.runes[:start]...)
	next = append(next, inserted...)
	next = append(next, b.runes[end:]...)
	b.runes = next
}
