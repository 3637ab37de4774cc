package lexicon

import (
	"fmt"
	"testing"
)

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func newSuggestLexicon() *Lexicon {
	l := New()
	l.AddMain("ka", "ක")
	l.AddMain("kamata", "කමට")
	l.AddMain("kata", "කට")
	l.AddMain("katha", "කතා")
	l.AddMain("kathaava", "කතාව")
	return l
}

// Exact key match ranks first, then prefix matches in trie order.
func TestSuggestRanking(t *testing.T) {
	l := newSuggestLexicon()

	got := l.Suggest("ka", 9)
	want := []string{"ක", "කමට", "කට", "කතා", "කතාව"}
	if !equalStrings(got, want) {
		t.Errorf("Suggest('ka'): expected %v, got %v", want, got)
	}
}

func TestSuggestUserBeforeMain(t *testing.T) {
	l := newSuggestLexicon()
	if err := l.Teach("kavi", "කවි"); err != nil {
		t.Fatalf("Teach failed: %v", err)
	}

	got := l.Suggest("ka", 9)
	want := []string{"ක", "කවි", "කමට", "කට", "කතා", "කතාව"}
	if !equalStrings(got, want) {
		t.Errorf("Expected user entry ranked before main, want %v got %v", want, got)
	}
}

func TestSuggestShadowedKeyNotDuplicated(t *testing.T) {
	l := newSuggestLexicon()
	if err := l.Teach("kata", "කටා"); err != nil {
		t.Fatalf("Teach failed: %v", err)
	}

	got := l.Suggest("ka", 9)
	want := []string{"ක", "කටා", "කමට", "කතා", "කතාව"}
	if !equalStrings(got, want) {
		t.Errorf("Shadowed key should appear once with the user value, want %v got %v", want, got)
	}
}

// Two romanized spellings of the same word collapse into one candidate.
func TestSuggestDedupesValues(t *testing.T) {
	l := New()
	l.AddMain("aeththa", "ඇත්ත")
	l.AddMain("aththa", "ඇත්ත")

	got := l.Suggest("a", 9)
	want := []string{"ඇත්ත"}
	if !equalStrings(got, want) {
		t.Errorf("Expected deduplicated %v, got %v", want, got)
	}
}

func TestSuggestLimit(t *testing.T) {
	l := New()
	for i := 0; i < 12; i++ {
		l.AddMain(fmt.Sprintf("sa%c", 'a'+i), fmt.Sprintf("ස%d", i))
	}

	if got := l.Suggest("sa", 4); len(got) != 4 {
		t.Errorf("Expected 4 candidates with limit 4, got %d", len(got))
	}
	// non-positive limit falls back to the hotkey row size
	if got := l.Suggest("sa", 0); len(got) != DefaultLimit {
		t.Errorf("Expected %d candidates with limit 0, got %d", DefaultLimit, len(got))
	}
}

func TestSuggestMisses(t *testing.T) {
	l := newSuggestLexicon()

	if got := l.Suggest("", 9); got != nil {
		t.Errorf("Empty prefix should return nil, got %v", got)
	}
	if got := l.Suggest("zz", 9); len(got) != 0 {
		t.Errorf("Unknown prefix should return no candidates, got %v", got)
	}
}

func TestSuggestCaseInsensitive(t *testing.T) {
	l := newSuggestLexicon()

	got := l.Suggest("KA", 9)
	want := l.Suggest("ka", 9)
	if !equalStrings(got, want) {
		t.Errorf("Expected case-insensitive prefix, want %v got %v", want, got)
	}
}

func BenchmarkSuggest(b *testing.B) {
	l := New()
	for i := 0; i < 5000; i++ {
		l.AddMain(fmt.Sprintf("word%04d", i), fmt.Sprintf("වචන%d", i))
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		l.Suggest("word0", DefaultLimit)
	}
}
