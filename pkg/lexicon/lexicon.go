/*
Package lexicon holds the romanized-key to Sinhala-value dictionary behind
suggestion lookups: a large read-only main layer loaded from compressed
chunk files, and a small mutable user layer persisted to a single JSON file.
User entries shadow main entries on key collision.
*/
package lexicon

import (
	"errors"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/tchap/go-patricia/v2/patricia"
)

// Lexicon is the merged two-layer dictionary. The main layer is immutable
// after LoadMain; the user layer changes through Teach and external edits
// picked up by WatchUser, so access goes through an RWMutex.
type Lexicon struct {
	mu       sync.RWMutex
	main     map[string]string
	user     map[string]string
	mainTrie *patricia.Trie
	userTrie *patricia.Trie
	values   map[string]struct{}
	userPath string
	dirty    bool
	stats    LoadStats
	watcher  *fsnotify.Watcher
}

// New returns an empty lexicon.
func New() *Lexicon {
	return &Lexicon{
		main:     make(map[string]string),
		user:     make(map[string]string),
		mainTrie: patricia.NewTrie(),
		userTrie: patricia.NewTrie(),
		values:   make(map[string]struct{}),
	}
}

// Lookup is a case-insensitive exact lookup across both layers, user first.
func (l *Lexicon) Lookup(key string) (string, bool) {
	k := strings.ToLower(key)
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.lookupLocked(k)
}

func (l *Lexicon) lookupLocked(k string) (string, bool) {
	if v, ok := l.user[k]; ok {
		return v, true
	}
	v, ok := l.main[k]
	return v, ok
}

// Teach inserts or overwrites a user-layer entry and persists immediately.
// The in-memory entry stays even when persisting fails, so nothing the user
// taught is lost for the session.
func (l *Lexicon) Teach(key, value string) error {
	k := strings.ToLower(key)
	if k == "" {
		return errors.New("lexicon: teach with empty key")
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.user[k] = value
	l.userTrie.Set(patricia.Prefix(k), value)
	l.values[value] = struct{}{}
	l.dirty = true
	return l.saveUserLocked()
}

// AddMain inserts a main-layer entry directly. Used by startup loading and
// by tests that need a lexicon without touching disk.
func (l *Lexicon) AddMain(key, value string) {
	k := strings.ToLower(key)
	l.mu.Lock()
	defer l.mu.Unlock()
	l.main[k] = value
	l.mainTrie.Set(patricia.Prefix(k), value)
	l.values[value] = struct{}{}
}

// ReverseLookup finds a romanized key for a Sinhala value, user layer
// first. Trie traversal keeps the answer deterministic when several keys
// map to the same value.
func (l *Lexicon) ReverseLookup(value string) (string, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var found string
	for _, trie := range []*patricia.Trie{l.userTrie, l.mainTrie} {
		err := trie.Visit(func(p patricia.Prefix, item patricia.Item) error {
			if item.(string) == value {
				found = string(p)
				return errStopVisit
			}
			return nil
		})
		if err == errStopVisit {
			return found, true
		}
	}
	return "", false
}

// Len returns the number of distinct keys across both layers.
func (l *Lexicon) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	n := len(l.main)
	for k := range l.user {
		if _, ok := l.main[k]; !ok {
			n++
		}
	}
	return n
}

// UserLen returns the number of user-layer entries.
func (l *Lexicon) UserLen() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.user)
}

// Dirty reports whether the user layer has unsaved changes.
func (l *Lexicon) Dirty() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.dirty
}

// Stats returns the chunk-load statistics recorded by LoadMain.
func (l *Lexicon) Stats() LoadStats {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.stats
}

func (l *Lexicon) rebuildValuesLocked() {
	values := make(map[string]struct{}, len(l.main)+len(l.user))
	for _, v := range l.main {
		values[v] = struct{}{}
	}
	for _, v := range l.user {
		values[v] = struct{}{}
	}
	l.values = values
}
