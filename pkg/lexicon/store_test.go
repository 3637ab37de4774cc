package lexicon

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestUserRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "user.json")

	l := New()
	if err := l.LoadUser(path); err != nil {
		t.Fatalf("LoadUser on missing file should succeed, got %v", err)
	}
	if err := l.Teach("gedara", "ගෙදර"); err != nil {
		t.Fatalf("Teach failed: %v", err)
	}
	if err := l.Teach("bath", "බත්"); err != nil {
		t.Fatalf("Teach failed: %v", err)
	}
	if l.Dirty() {
		t.Error("Teach with a store path should persist and clear dirty")
	}

	reloaded := New()
	if err := reloaded.LoadUser(path); err != nil {
		t.Fatalf("LoadUser failed: %v", err)
	}
	if got := reloaded.UserLen(); got != 2 {
		t.Errorf("Expected 2 reloaded entries, got %d", got)
	}
	if got, ok := reloaded.Lookup("gedara"); !ok || got != "ගෙදර" {
		t.Errorf("Expected reloaded entry, got '%s' found=%v", got, ok)
	}
}

func TestLoadUserMissingFile(t *testing.T) {
	l := New()
	if err := l.LoadUser(filepath.Join(t.TempDir(), "nothing.json")); err != nil {
		t.Fatalf("Missing user file should not be an error, got %v", err)
	}
	if got := l.UserLen(); got != 0 {
		t.Errorf("Expected empty user layer, got %d entries", got)
	}
}

func TestLoadUserBadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "user.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	l := New()
	if err := l.LoadUser(path); err == nil {
		t.Error("Unparseable user file should report an error")
	}
	if got := l.UserLen(); got != 0 {
		t.Errorf("Bad file should leave the user layer empty, got %d", got)
	}
}

// Saving into a directory that does not exist yet creates it and retries.
func TestSaveCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "user.json")

	l := New()
	if err := l.LoadUser(path); err != nil {
		t.Fatalf("LoadUser failed: %v", err)
	}
	if err := l.Teach("mama", "මම"); err != nil {
		t.Fatalf("Teach should create the parent directory, got %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("Expected user file on disk: %v", err)
	}
}

func TestReloadUserReplacesLayer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "user.json")

	l := New()
	if err := l.LoadUser(path); err != nil {
		t.Fatalf("LoadUser failed: %v", err)
	}
	if err := l.Teach("mama", "මම"); err != nil {
		t.Fatalf("Teach failed: %v", err)
	}

	// external edit rewrites the whole file
	if err := os.WriteFile(path, []byte(`{"Oyaa": "ඔයා"}`), 0644); err != nil {
		t.Fatal(err)
	}
	if err := l.ReloadUser(); err != nil {
		t.Fatalf("ReloadUser failed: %v", err)
	}

	if _, ok := l.Lookup("mama"); ok {
		t.Error("Old entry should be gone after reload")
	}
	if got, ok := l.Lookup("oyaa"); !ok || got != "ඔයා" {
		t.Errorf("Expected reloaded lowercased entry, got '%s' found=%v", got, ok)
	}
	if l.Dirty() {
		t.Error("Freshly reloaded layer should not be dirty")
	}
}

func TestSaveUserWithoutPath(t *testing.T) {
	l := New()
	if err := l.Teach("mama", "මම"); err != nil {
		t.Fatalf("Teach failed: %v", err)
	}
	if err := l.SaveUser(); err != nil {
		t.Errorf("SaveUser without a path should be a no-op, got %v", err)
	}
}

func TestWatchUserRequiresPath(t *testing.T) {
	l := New()
	if err := l.WatchUser(); err == nil {
		l.StopWatch()
		t.Error("WatchUser without a loaded path should fail")
	}
}

func TestWatchUserSeesExternalWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "user.json")

	l := New()
	if err := l.LoadUser(path); err != nil {
		t.Fatalf("LoadUser failed: %v", err)
	}
	if err := l.WatchUser(); err != nil {
		t.Skipf("fsnotify unavailable: %v", err)
	}
	defer l.StopWatch()

	if err := os.WriteFile(path, []byte(`{"kavi": "කවි"}`), 0644); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if got, ok := l.Lookup("kavi"); ok && got == "කවි" {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Error("External write was not picked up by the watcher")
}
