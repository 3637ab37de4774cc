package lexicon

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/tchap/go-patricia/v2/patricia"

	"github.com/helabasa/singlish/internal/utils"
)

// LoadUser reads the user layer from path and remembers the path for later
// saves. A missing file is fine, it just means nothing has been taught yet.
func (l *Lexicon) LoadUser(path string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.userPath = path
	if !utils.FileExists(path) {
		log.Debugf("No user lexicon at %s yet", path)
		return nil
	}
	return l.reloadUserLocked()
}

// ReloadUser re-reads the user file, replacing the in-memory user layer.
// Called by the watcher after an external edit.
func (l *Lexicon) ReloadUser() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.userPath == "" || !utils.FileExists(l.userPath) {
		return nil
	}
	return l.reloadUserLocked()
}

func (l *Lexicon) reloadUserLocked() error {
	data, err := os.ReadFile(l.userPath)
	if err != nil {
		return fmt.Errorf("reading user lexicon: %w", err)
	}
	entries := make(map[string]string)
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("parsing user lexicon %s: %w", l.userPath, err)
	}

	user := make(map[string]string, len(entries))
	trie := patricia.NewTrie()
	for k, v := range entries {
		k = strings.ToLower(k)
		user[k] = v
		trie.Set(patricia.Prefix(k), v)
	}
	l.user = user
	l.userTrie = trie
	l.dirty = false
	l.rebuildValuesLocked()
	log.Debugf("User lexicon loaded: %d entries", len(user))
	return nil
}

// SaveUser writes the user layer out unconditionally. Shutdown calls this
// as a safety net whether or not anything looks dirty.
func (l *Lexicon) SaveUser() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.saveUserLocked()
}

// saveUserLocked writes the user lexicon as indented JSON. Map marshaling
// sorts keys, which keeps the file diffable across saves. On a write
// failure it ensures the parent directory exists and retries once; the
// in-memory layer is untouched either way.
func (l *Lexicon) saveUserLocked() error {
	if l.userPath == "" {
		return nil
	}
	data, err := json.MarshalIndent(l.user, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding user lexicon: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(l.userPath, data, 0644); err != nil {
		if dirErr := utils.EnsureDir(filepath.Dir(l.userPath)); dirErr != nil {
			return fmt.Errorf("saving user lexicon: %w", err)
		}
		if err := os.WriteFile(l.userPath, data, 0644); err != nil {
			return fmt.Errorf("saving user lexicon: %w", err)
		}
	}
	l.dirty = false
	return nil
}

// WatchUser starts reloading the user lexicon whenever the file changes on
// disk, so words added in a text editor show up without a restart. The
// parent directory is watched rather than the file because editors often
// replace files by rename.
func (l *Lexicon) WatchUser() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.userPath == "" {
		return errors.New("lexicon: no user lexicon path to watch")
	}
	if l.watcher != nil {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(l.userPath)); err != nil {
		watcher.Close()
		return err
	}
	l.watcher = watcher
	go l.watchLoop(watcher, l.userPath)
	log.Debugf("Watching user lexicon at %s", l.userPath)
	return nil
}

func (l *Lexicon) watchLoop(w *fsnotify.Watcher, path string) {
	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if ev.Name != path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if err := l.ReloadUser(); err != nil {
				log.Warnf("Reloading user lexicon after external edit: %v", err)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			log.Warnf("User lexicon watcher: %v", err)
		}
	}
}

// StopWatch stops the watcher started by WatchUser.
func (l *Lexicon) StopWatch() {
	l.mu.Lock()
	w := l.watcher
	l.watcher = nil
	l.mu.Unlock()
	if w != nil {
		w.Close()
	}
}
