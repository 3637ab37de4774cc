/*
Package server implements msgpack IPC for the singlish input engine.

The server hosts a complete input session over stdin/stdout: a text
buffer, the input engine, and the loaded lexicon. Editor plugins send
classified key events and receive candidate lists plus the resulting
document state, all encoded as msgpack.

# IPC

The protocol is request response. Every message is a msgpack map with an
"id" echoed back in the response and an "op" selecting the operation.

Key events use the "key" op with a kind classifier:

	{"id": "k1", "op": "key", "ch": "m"}
	{"id": "k2", "op": "key", "k": "delimiter", "ch": " "}
	{"id": "k3", "op": "key", "k": "backspace"}

The response carries the pending romanized word, the current candidates
with 1-based ranks, and whatever the event committed:

	{"id": "k2", "s": [], "c": 0, "hl": -1, "b": "", "st": "committed", "w": "මම", "t": 0}

The "next" and "prev" kinds cycle the highlighted candidate while the
list is visible; "nav" reports caret movement, which commits any
pending word as typed.

Stateless dictionary queries use "candidates" with a prefix:

	{"id": "q1", "op": "candidates", "p": "ma", "l": 9}

"accept" picks a candidate by its 1-based rank, "teach" records a
personal mapping, "text" returns the session document, "spell" flags
Sinhala words the lexicon does not know, and "health" answers liveness
probes.

The server answers with a ready status once startup completes. Closing
stdin shuts the session down cleanly and flushes the user lexicon.

# Message Types

Request is the single envelope for every operation; unused fields are
omitted on the wire. KeyResponse describes engine state after any
mutating op. CandidatesResponse mirrors the stateless query. Errors
carry the request id, a message, and an HTTP-style code.

msgpack keeps messages compact compared to JSON and sidesteps escaping
issues with Sinhala text in string fields.
*/
package server

// Request is the envelope for all incoming operations.
type Request struct {
	ID     string `msgpack:"id"`
	Op     string `msgpack:"op"`
	Char   string `msgpack:"ch,omitempty"`  // rune for "key" char/delimiter kinds
	Kind   string `msgpack:"k,omitempty"`   // key class: char, backspace, delimiter, escape, nav, next, prev
	Index  int    `msgpack:"i,omitempty"`   // 1-based candidate rank for "accept"
	Key    string `msgpack:"key,omitempty"` // romanized key for "teach"
	Value  string `msgpack:"v,omitempty"`   // Sinhala value for "teach"
	Prefix string `msgpack:"p,omitempty"`   // prefix for "candidates"
	Text   string `msgpack:"x,omitempty"`   // text for "spell"; empty checks the session document
	Limit  int    `msgpack:"l,omitempty"`   // result cap for "candidates"
}

// Candidate - one ranked suggestion
type Candidate struct {
	Word string `msgpack:"w"`
	Rank uint16 `msgpack:"r"`
}

// KeyResponse - engine state after a key, accept, or teach op
type KeyResponse struct {
	ID         string      `msgpack:"id"`
	Candidates []Candidate `msgpack:"s"`
	Count      int         `msgpack:"c"`
	Highlight  int         `msgpack:"hl"`
	Pending    string      `msgpack:"b"`
	Status     string      `msgpack:"st"`
	Committed  string      `msgpack:"w,omitempty"`
	Abort      string      `msgpack:"a,omitempty"`
	TimeTaken  int64       `msgpack:"t"`
}

// CandidatesResponse - stateless prefix query response
type CandidatesResponse struct {
	ID         string      `msgpack:"id"`
	Candidates []Candidate `msgpack:"s"`
	Count      int         `msgpack:"c"`
	TimeTaken  int64       `msgpack:"t"`
}

// TextResponse - current session document and cursor
type TextResponse struct {
	ID     string `msgpack:"id"`
	Text   string `msgpack:"x"`
	Cursor int    `msgpack:"cur"`
}

// UnknownWord - one Sinhala word the lexicon has no mapping for,
// with rune offsets into the checked text
type UnknownWord struct {
	Word  string `msgpack:"w"`
	Start int    `msgpack:"s"`
	End   int    `msgpack:"e"`
}

// SpellResponse - unknown word spans found by "spell"
type SpellResponse struct {
	ID        string        `msgpack:"id"`
	Unknown   []UnknownWord `msgpack:"u"`
	Count     int           `msgpack:"c"`
	TimeTaken int64         `msgpack:"t"`
}

// StatusResponse - readiness and health signals
type StatusResponse struct {
	ID     string `msgpack:"id,omitempty"`
	Status string `msgpack:"status"`
}

// ErrorResponse holds basic error information for failed requests
type ErrorResponse struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
