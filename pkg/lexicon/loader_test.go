package lexicon

import (
	"os"
	"path/filepath"
	"testing"
)

func TestChunkFileName(t *testing.T) {
	testCases := []struct {
		ordinal int
		want    string
	}{
		{1, "lexicon_0001.json.gz"},
		{42, "lexicon_0042.json.gz"},
		{10000, "lexicon_10000.json.gz"},
	}
	for _, tc := range testCases {
		if got := ChunkFileName(tc.ordinal); got != tc.want {
			t.Errorf("ChunkFileName(%d): expected '%s', got '%s'", tc.ordinal, tc.want, got)
		}
	}
}

func TestChunkRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ChunkFileName(1))
	entries := map[string]string{
		"mama": "මම",
		"oyaa": "ඔයා",
	}

	if err := WriteChunk(path, entries); err != nil {
		t.Fatalf("WriteChunk failed: %v", err)
	}
	got, err := ReadChunk(path)
	if err != nil {
		t.Fatalf("ReadChunk failed: %v", err)
	}
	if len(got) != len(entries) {
		t.Fatalf("Expected %d entries, got %d", len(entries), len(got))
	}
	for k, v := range entries {
		if got[k] != v {
			t.Errorf("Key '%s': expected '%s', got '%s'", k, v, got[k])
		}
	}
}

func TestLoadMainMissingDir(t *testing.T) {
	l := New()
	if _, err := l.LoadMain(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("Missing data directory should be an error")
	}
}

func TestLoadMainEmptyDir(t *testing.T) {
	l := New()
	stats, err := l.LoadMain(t.TempDir())
	if err != nil {
		t.Fatalf("Empty data directory should load as empty, got %v", err)
	}
	if stats.AvailableChunks != 0 || stats.Entries != 0 {
		t.Errorf("Expected zero stats, got %+v", stats)
	}
	if got := l.Len(); got != 0 {
		t.Errorf("Expected empty lexicon, got %d entries", got)
	}
}

// A chunk that fails to decompress is skipped and counted, never fatal.
func TestCorruptChunkSkipped(t *testing.T) {
	dir := t.TempDir()
	if err := WriteChunk(filepath.Join(dir, ChunkFileName(1)), map[string]string{"mama": "මම"}); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, ChunkFileName(2)), []byte("not gzip data"), 0644); err != nil {
		t.Fatal(err)
	}

	l := New()
	stats, err := l.LoadMain(dir)
	if err != nil {
		t.Fatalf("LoadMain should survive a corrupt chunk, got %v", err)
	}
	if stats.LoadedChunks != 1 || stats.FailedChunks != 1 {
		t.Errorf("Expected 1 loaded and 1 failed chunk, got %+v", stats)
	}
	if got, ok := l.Lookup("mama"); !ok || got != "මම" {
		t.Errorf("Healthy chunk should still load, got '%s' found=%v", got, ok)
	}
}

// Chunks merge in filename order, so a later chunk can correct an
// earlier one.
func TestLaterChunkWins(t *testing.T) {
	dir := t.TempDir()
	if err := WriteChunk(filepath.Join(dir, ChunkFileName(1)), map[string]string{"mama": "මමා"}); err != nil {
		t.Fatal(err)
	}
	if err := WriteChunk(filepath.Join(dir, ChunkFileName(2)), map[string]string{"Mama": "මම"}); err != nil {
		t.Fatal(err)
	}

	l := New()
	if _, err := l.LoadMain(dir); err != nil {
		t.Fatalf("LoadMain failed: %v", err)
	}
	// keys are lowercased on load, later value replaces earlier
	if got, ok := l.Lookup("mama"); !ok || got != "මම" {
		t.Errorf("Expected later chunk value 'මම', got '%s' found=%v", got, ok)
	}
	if got := l.Len(); got != 1 {
		t.Errorf("Expected a single merged key, got %d", got)
	}
}

func TestInspectReportsPerChunk(t *testing.T) {
	dir := t.TempDir()
	if err := WriteChunk(filepath.Join(dir, ChunkFileName(1)), map[string]string{"mama": "මම", "oyaa": "ඔයා"}); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, ChunkFileName(2)), []byte("garbage"), 0644); err != nil {
		t.Fatal(err)
	}

	infos, err := NewChunkLoader(dir).Inspect()
	if err != nil {
		t.Fatalf("Inspect failed: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("Expected 2 chunk reports, got %d", len(infos))
	}
	if infos[0].Entries != 2 || infos[0].Err != nil {
		t.Errorf("First chunk should be healthy with 2 entries, got %+v", infos[0])
	}
	if infos[1].Err == nil {
		t.Errorf("Second chunk should report an error, got %+v", infos[1])
	}
}
