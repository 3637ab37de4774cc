// Package cli provides an interactive line-mode session against the
// input engine for debugging and testing features in real time.
package cli

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/helabasa/singlish/internal/utils"
	"github.com/helabasa/singlish/pkg/config"
	"github.com/helabasa/singlish/pkg/editor"
	"github.com/helabasa/singlish/pkg/ime"
	"github.com/helabasa/singlish/pkg/lexicon"
	"github.com/helabasa/singlish/pkg/translit"
)

var (
	wordStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
	highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("75")).Bold(true).Underline(true)
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
)

// InputHandler runs an interactive session: each line is fed through the
// engine rune by rune, digits pick candidates, commands prefixed with
// ':' reach the lexicon and document directly.
type InputHandler struct {
	engine *ime.Engine
	doc    *editor.TextBuffer
	lex    *lexicon.Lexicon
	limit  int
	plain  bool
}

// NewInputHandler wires a fresh document and engine for an interactive
// session. Candidate lists arrive through the engine's debounced
// callback, the same path an editor frontend uses.
func NewInputHandler(lex *lexicon.Lexicon, cfg *config.Config, limit int, plain bool) *InputHandler {
	h := &InputHandler{
		doc:   editor.NewTextBuffer(""),
		lex:   lex,
		limit: limit,
		plain: plain,
	}
	h.engine = ime.New(h.doc, lex, ime.Options{
		MaxCandidates:  cfg.Engine.MaxCandidates,
		RecoveryWindow: cfg.Engine.RecoveryWindow,
		Scheduler:      ime.NewTimerScheduler(cfg.Engine.Debounce()),
		OnCandidates:   h.showCandidates,
	})
	return h
}

// Start begins the interface loop.
// It continuously prompts for input, reads a line from stdin,
// and passes the trimmed input to handleLine() for processing.
// The loop terminates on :quit or when stdin closes.
func (h *InputHandler) Start() error {
	defer h.engine.Close()

	log.Print("type a romanized word and press Enter; 1-9 picks a candidate, blank line commits")
	log.Print("commands: :teach :rev :spell :undo :redo :clear :stats :quit")
	reader := bufio.NewReader(os.Stdin)

	for {
		log.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			h.flushPending()
			if err == io.EOF {
				return nil
			}
			return err
		}
		if !h.handleLine(strings.TrimSpace(line)) {
			return nil
		}
	}
}

// handleLine processes one line of input. It returns false when the
// session should end.
func (h *InputHandler) handleLine(line string) bool {
	switch {
	case line == "":
		if h.engine.Pending() == "" {
			return true
		}
		h.printResult(h.engine.HandleDelimiter(' '))
		h.printDocument()
	case strings.HasPrefix(line, ":"):
		return h.handleCommand(line)
	case isHotkey(line) && len(h.engine.Candidates()) > 0:
		h.printResult(h.engine.HandleCharacter(rune(line[0])))
		h.printDocument()
	default:
		h.typeText(line)
	}
	return true
}

func isHotkey(line string) bool {
	return len(line) == 1 && line[0] >= '1' && line[0] <= '9'
}

// typeText feeds a line through the engine the way keystrokes would
// arrive: word runes accumulate, anything else acts as a delimiter.
// Commits are reported inline; the candidate list for the trailing
// word shows up once the debounce settles.
func (h *InputHandler) typeText(text string) {
	committed := false
	for _, r := range text {
		var res ime.CommitResult
		if utils.IsWordRune(r) {
			res = h.engine.HandleCharacter(r)
		} else {
			res = h.engine.HandleDelimiter(r)
		}
		if res.Status != ime.StatusNone {
			h.printResult(res)
			committed = true
		}
	}
	if committed {
		h.printDocument()
	}
}

// showCandidates is the engine's candidate callback. It runs on the
// scheduler goroutine after the debounce delay, so output can land
// after the next prompt.
func (h *InputHandler) showCandidates(words []string, highlight int) {
	pending := h.engine.Pending()
	if len(words) == 0 {
		if pending != "" {
			phonetic := translit.Transliterate(pending)
			if !h.plain {
				phonetic = wordStyle.Render(phonetic)
			}
			log.Printf("no matches for '%s', phonetic commit: %s", pending, phonetic)
		}
		return
	}
	if h.limit > 0 && len(words) > h.limit {
		words = words[:h.limit]
	}
	log.Printf("Found %d candidates for '%s':", len(words), pending)
	for i, word := range words {
		shown := word
		if !h.plain {
			if i == highlight {
				shown = highlightStyle.Render(word)
			} else {
				shown = wordStyle.Render(word)
			}
		}
		log.Printf("%2d. %s", i+1, shown)
	}
}

func (h *InputHandler) printResult(res ime.CommitResult) {
	switch res.Status {
	case ime.StatusCommitted:
		word := res.Text
		if !h.plain {
			word = wordStyle.Render(word)
		}
		log.Printf("committed: %s", word)
	case ime.StatusAborted:
		log.Warnf("aborted: %s", res.Reason)
	}
}

func (h *InputHandler) printDocument() {
	text := h.doc.String()
	if text == "" {
		text = "(empty)"
		if !h.plain {
			text = dimStyle.Render(text)
		}
	}
	log.Printf("text: %s", text)
}

// flushPending commits any mid-composition word so it is not lost when
// stdin closes.
func (h *InputHandler) flushPending() {
	if h.engine.Pending() == "" {
		return
	}
	h.printResult(h.engine.HandleNavigation())
	h.printDocument()
}

// handleCommand dispatches a ':' command. Returns false on :quit.
func (h *InputHandler) handleCommand(line string) bool {
	parts := strings.Fields(line)
	switch parts[0] {
	case ":teach":
		if len(parts) < 3 {
			log.Errorf("usage: :teach <romanized> <sinhala>")
			return true
		}
		key, value := parts[1], strings.Join(parts[2:], " ")
		if err := h.engine.Teach(key, value); err != nil {
			log.Errorf("Teach failed: %v", err)
			return true
		}
		log.Printf("learned: %s -> %s", key, value)
	case ":rev":
		if len(parts) != 2 {
			log.Errorf("usage: :rev <sinhala>")
			return true
		}
		if key, ok := h.lex.ReverseLookup(parts[1]); ok {
			log.Printf("%s <- %s", parts[1], key)
		} else {
			log.Warnf("No mapping produces '%s'", parts[1])
		}
	case ":spell":
		text := strings.TrimSpace(strings.TrimPrefix(line, ":spell"))
		if text == "" {
			text = h.doc.String()
		}
		h.runSpell(text)
	case ":undo":
		h.engine.HandleNavigation()
		if h.doc.Undo() {
			h.printDocument()
		} else {
			log.Warn("Nothing to undo")
		}
	case ":redo":
		if h.doc.Redo() {
			h.printDocument()
		} else {
			log.Warn("Nothing to redo")
		}
	case ":clear":
		h.engine.Reset()
		if err := h.doc.ReplaceRange(0, h.doc.Len(), ""); err != nil {
			log.Errorf("Clearing document: %v", err)
		}
		h.printDocument()
	case ":stats":
		h.printStats()
	case ":quit", ":q":
		h.flushPending()
		return false
	default:
		log.Warnf("Unknown command: %s", parts[0])
	}
	return true
}

func (h *InputHandler) runSpell(text string) {
	spans := h.lex.UnknownSinhala(text)
	if len(spans) == 0 {
		log.Print("All Sinhala words are known")
		return
	}
	log.Printf("Found %d unknown words:", len(spans))
	for _, sp := range spans {
		word := sp.Word
		if !h.plain {
			word = wordStyle.Render(word)
		}
		log.Printf("  %s [%d:%d]", word, sp.Start, sp.End)
	}
}

func (h *InputHandler) printStats() {
	stats := h.lex.Stats()
	log.Printf("lexicon entries: %s", utils.FormatWithCommas(h.lex.Len()))
	log.Printf("personal entries: %s", utils.FormatWithCommas(h.lex.UserLen()))
	log.Printf("chunks loaded: %d/%d (%d failed)",
		stats.LoadedChunks, stats.AvailableChunks, stats.FailedChunks)
	log.Printf("document runes: %s", utils.FormatWithCommas(h.doc.Len()))
	if h.lex.Dirty() {
		log.Warn("personal lexicon has unsaved changes")
	}
}
