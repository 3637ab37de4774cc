package server

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/helabasa/singlish/internal/utils"
	"github.com/helabasa/singlish/pkg/config"
	"github.com/helabasa/singlish/pkg/editor"
	"github.com/helabasa/singlish/pkg/ime"
	"github.com/helabasa/singlish/pkg/lexicon"
)

// maxPrefixLen caps stateless query prefixes; anything longer is not a
// word being typed.
const maxPrefixLen = 60

// Server hosts one input session over a msgpack request/response stream.
type Server struct {
	lex    *lexicon.Lexicon
	doc    *editor.TextBuffer
	engine *ime.Engine
	cfg    *config.Config
	dec    *msgpack.Decoder
	enc    *msgpack.Encoder
}

// NewServer creates a session server using stdin/stdout for IPC.
func NewServer(lex *lexicon.Lexicon, cfg *config.Config) *Server {
	return NewServerWith(lex, cfg, os.Stdin, os.Stdout)
}

// NewServerWith creates a session server on an explicit transport.
func NewServerWith(lex *lexicon.Lexicon, cfg *config.Config, r io.Reader, w io.Writer) *Server {
	doc := editor.NewTextBuffer("")
	// Responses must carry candidates for the event just processed, so
	// the engine recomputes inline instead of debouncing.
	engine := ime.New(doc, lex, ime.Options{
		MaxCandidates:  cfg.Engine.MaxCandidates,
		RecoveryWindow: cfg.Engine.RecoveryWindow,
		Scheduler:      ime.ImmediateScheduler{},
	})
	return &Server{
		lex:    lex,
		doc:    doc,
		engine: engine,
		cfg:    cfg,
		dec:    msgpack.NewDecoder(r),
		enc:    msgpack.NewEncoder(w),
	}
}

// Start begins serving requests. It returns nil on clean shutdown (the
// client closed its end of the stream).
func (s *Server) Start() error {
	log.Debug("Starting server.")

	// Signal that the server is ready
	s.send(StatusResponse{Status: "ready"})

	for {
		var req Request
		if err := s.dec.Decode(&req); err != nil {
			if err == io.EOF || errors.Is(err, io.ErrUnexpectedEOF) {
				s.shutdown()
				return nil
			}
			log.Errorf("Decoding request: %v", err)
			s.shutdown()
			return err
		}
		s.handleRequest(req)
	}
}

// shutdown flushes state the session owns.
func (s *Server) shutdown() {
	s.engine.Close()
	if err := s.lex.SaveUser(); err != nil {
		log.Warnf("Saving user lexicon on shutdown: %v", err)
	}
}

// handleRequest dispatches one decoded request
func (s *Server) handleRequest(req Request) {
	switch req.Op {
	case "key":
		s.handleKey(req)
	case "candidates":
		s.handleCandidates(req)
	case "accept":
		s.handleAccept(req)
	case "teach":
		s.handleTeach(req)
	case "text":
		s.send(TextResponse{ID: req.ID, Text: s.doc.String(), Cursor: s.doc.Cursor()})
	case "spell":
		s.handleSpell(req)
	case "health":
		s.send(StatusResponse{ID: req.ID, Status: "ok"})
	default:
		s.sendError(req.ID, fmt.Sprintf("Unknown op: %s", req.Op), 400)
	}
}

// handleKey feeds one classified key event into the engine.
func (s *Server) handleKey(req Request) {
	start := time.Now()
	var res ime.CommitResult
	switch req.Kind {
	case "", "char":
		r, ok := firstRune(req.Char)
		if !ok {
			s.sendError(req.ID, "Key op requires 'ch'", 400)
			return
		}
		res = s.engine.HandleCharacter(r)
	case "delimiter":
		r, ok := firstRune(req.Char)
		if !ok {
			s.sendError(req.ID, "Delimiter key requires 'ch'", 400)
			return
		}
		res = s.engine.HandleDelimiter(r)
	case "backspace":
		res = s.engine.HandleBackspace()
	case "escape":
		res = s.engine.HandleDelimiter(ime.KeyEscape)
	case "nav":
		res = s.engine.HandleNavigation()
	case "next":
		s.engine.HighlightNext()
	case "prev":
		s.engine.HighlightPrev()
	default:
		s.sendError(req.ID, fmt.Sprintf("Unknown key kind: %s", req.Kind), 400)
		return
	}
	s.sendKeyResponse(req.ID, res, start)
}

// handleAccept commits the candidate at the given 1-based rank.
func (s *Server) handleAccept(req Request) {
	start := time.Now()
	if req.Index < 1 {
		s.sendError(req.ID, "Accept requires a 1-based 'i'", 400)
		return
	}
	res := s.engine.AcceptCandidate(req.Index - 1)
	s.sendKeyResponse(req.ID, res, start)
}

// handleTeach records a personal mapping. Persistence failures are not
// fatal: the mapping stays live in memory and saving retries later.
func (s *Server) handleTeach(req Request) {
	start := time.Now()
	if req.Key == "" || req.Value == "" {
		s.sendError(req.ID, "Teach requires 'key' and 'v'", 400)
		return
	}
	if err := s.engine.Teach(req.Key, req.Value); err != nil {
		log.Warnf("Teaching %q: %v", req.Key, err)
	}
	s.sendKeyResponse(req.ID, ime.CommitResult{}, start)
}

// handleCandidates answers a stateless prefix query against the lexicon
// without touching the input session.
func (s *Server) handleCandidates(req Request) {
	prefix := req.Prefix
	if prefix == "" {
		s.sendError(req.ID, "Missing 'p' parameter", 400)
		log.Debug("Prefix is empty in request")
		return
	}
	if utf8.RuneCountInString(prefix) > maxPrefixLen {
		s.sendError(req.ID, fmt.Sprintf("Prefix exceeds maximum length of %d characters", maxPrefixLen), 400)
		log.Debug("Prefix is too long in request")
		return
	}
	if utils.IsOnlyDigits(prefix) {
		// Digit runs pass through the engine untouched, so a stateless
		// query for one has no candidates either.
		s.send(CandidatesResponse{ID: req.ID, Candidates: []Candidate{}, Count: 0})
		return
	}

	limit := req.Limit
	if limit < 1 {
		limit = s.cfg.Engine.MaxCandidates
	}

	start := time.Now()
	words := s.lex.Suggest(prefix, limit)
	elapsed := time.Since(start)

	s.send(CandidatesResponse{
		ID:         req.ID,
		Candidates: rankedCandidates(words),
		Count:      len(words),
		TimeTaken:  elapsed.Milliseconds(),
	})
}

// handleSpell reports Sinhala words the lexicon cannot produce. An empty
// 'x' checks the session document.
func (s *Server) handleSpell(req Request) {
	start := time.Now()
	text := req.Text
	if text == "" {
		text = s.doc.String()
	}
	spans := s.lex.UnknownSinhala(text)
	unknown := make([]UnknownWord, len(spans))
	for i, sp := range spans {
		unknown[i] = UnknownWord{Word: sp.Word, Start: sp.Start, End: sp.End}
	}
	s.send(SpellResponse{
		ID:        req.ID,
		Unknown:   unknown,
		Count:     len(unknown),
		TimeTaken: time.Since(start).Milliseconds(),
	})
}

// sendKeyResponse reports engine state after a mutating op.
func (s *Server) sendKeyResponse(id string, res ime.CommitResult, start time.Time) {
	resp := KeyResponse{
		ID:         id,
		Candidates: rankedCandidates(s.engine.Candidates()),
		Highlight:  s.engine.Highlight(),
		Pending:    s.engine.Pending(),
		Status:     res.Status.String(),
		TimeTaken:  time.Since(start).Milliseconds(),
	}
	resp.Count = len(resp.Candidates)
	switch res.Status {
	case ime.StatusCommitted:
		resp.Committed = res.Text
	case ime.StatusAborted:
		resp.Abort = res.Reason.String()
	}
	s.send(resp)
}

// rankedCandidates pairs candidate words with their 1-based hotkey ranks.
func rankedCandidates(words []string) []Candidate {
	ranks := utils.CreateRankList(len(words))
	out := make([]Candidate, len(words))
	for i, w := range words {
		out[i] = Candidate{Word: w, Rank: ranks[i]}
	}
	return out
}

// send encodes one response onto the wire.
func (s *Server) send(response interface{}) {
	if err := s.enc.Encode(response); err != nil {
		log.Errorf("Encoding response: %v", err)
	}
}

// sendError sends an error response
func (s *Server) sendError(id, message string, code int) {
	s.send(ErrorResponse{ID: id, Error: message, Code: code})
}

// firstRune extracts the single rune a key event carries.
func firstRune(s string) (rune, bool) {
	if s == "" {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, r != utf8.RuneError
}
