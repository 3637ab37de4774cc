/*
Package editor defines the minimal document contract the transliteration
engine needs from a host editor, plus an in-memory reference implementation.

All offsets are rune offsets, not byte offsets. Hosts wrapping a GUI text
widget must convert to whatever native unit the widget uses.
*/
package editor

import "errors"

// ErrOutOfRange is returned when a span does not fit inside the document.
var ErrOutOfRange = errors.New("editor: range out of bounds")

// Document is the entire contract a host editor must satisfy. The engine
// only ever queries the cursor, reads spans, and performs span replacements.
//
// ReplaceRange must behave as a single atomic edit with respect to undo, and
// must shift the cursor the way editors do: a cursor past the replaced span
// moves by the length delta, a cursor inside it lands at the end of the
// inserted text, a cursor before it stays put.
type Document interface {
	// Len returns the document length in runes.
	Len() int
	// Cursor returns the current cursor offset in runes.
	Cursor() int
	// ReadRange returns the text in [start, end).
	ReadRange(start, end int) (string, error)
	// ReplaceRange atomically replaces [start, end) with text.
	// start == end inserts, text == "" deletes.
	ReplaceRange(start, end int, text string) error
}
