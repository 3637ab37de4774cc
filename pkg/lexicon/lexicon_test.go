package lexicon

import (
	"fmt"
	"sync"
	"testing"
)

func newTestLexicon() *Lexicon {
	l := New()
	l.AddMain("mama", "මම")
	l.AddMain("oyaa", "ඔයා")
	l.AddMain("api", "අපි")
	l.AddMain("gedara", "ගෙදර")
	return l
}

func TestLookupAcrossLayers(t *testing.T) {
	l := newTestLexicon()
	if err := l.Teach("bath", "බත්"); err != nil {
		t.Fatalf("Teach failed: %v", err)
	}
	// user entry shadowing a main key
	if err := l.Teach("gedara", "ගෙදරා"); err != nil {
		t.Fatalf("Teach failed: %v", err)
	}

	testCases := []struct {
		key         string
		want        string
		found       bool
		description string
	}{
		{"mama", "මම", true, "Main layer hit"},
		{"Mama", "මම", true, "Case insensitive key"},
		{"OYAA", "ඔයා", true, "Uppercase key"},
		{"bath", "බත්", true, "User layer hit"},
		{"gedara", "ගෙදරා", true, "User entry shadows main"},
		{"nathi", "", false, "Unknown key"},
		{"", "", false, "Empty key"},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			got, ok := l.Lookup(tc.key)
			if ok != tc.found {
				t.Errorf("Lookup(%q): expected found=%v, got %v", tc.key, tc.found, ok)
			}
			if got != tc.want {
				t.Errorf("Lookup(%q): expected '%s', got '%s'", tc.key, tc.want, got)
			}
		})
	}
}

func TestTeachEmptyKeyRejected(t *testing.T) {
	l := New()
	if err := l.Teach("", "මම"); err == nil {
		t.Error("Teach with empty key should fail")
	}
	if l.UserLen() != 0 {
		t.Errorf("Rejected teach should not add entries, got %d", l.UserLen())
	}
}

func TestTeachLowercasesKey(t *testing.T) {
	l := New()
	if err := l.Teach("Lamayaa", "ළමයා"); err != nil {
		t.Fatalf("Teach failed: %v", err)
	}
	if got, ok := l.Lookup("lamayaa"); !ok || got != "ළමයා" {
		t.Errorf("Expected lowercase key to resolve, got '%s' found=%v", got, ok)
	}
}

// Without a store path teach stays memory-only and the layer reports
// unsaved changes.
func TestTeachWithoutStorePath(t *testing.T) {
	l := New()
	if err := l.Teach("mama", "මම"); err != nil {
		t.Fatalf("Teach failed: %v", err)
	}
	if got, ok := l.Lookup("mama"); !ok || got != "මම" {
		t.Errorf("Taught entry should resolve, got '%s' found=%v", got, ok)
	}
	if !l.Dirty() {
		t.Error("Unpersisted teach should leave the user layer dirty")
	}
}

func TestReverseLookup(t *testing.T) {
	l := newTestLexicon()

	key, ok := l.ReverseLookup("ඔයා")
	if !ok || key != "oyaa" {
		t.Errorf("Expected 'oyaa', got '%s' found=%v", key, ok)
	}

	// user key wins when both layers produce the same value
	if err := l.Teach("mame", "මම"); err != nil {
		t.Fatalf("Teach failed: %v", err)
	}
	key, ok = l.ReverseLookup("මම")
	if !ok || key != "mame" {
		t.Errorf("Expected user key 'mame' first, got '%s' found=%v", key, ok)
	}

	if _, ok := l.ReverseLookup("බත්"); ok {
		t.Error("ReverseLookup should miss on unknown value")
	}
}

func TestLenCountsShadowedKeysOnce(t *testing.T) {
	l := newTestLexicon()
	if err := l.Teach("bath", "බත්"); err != nil {
		t.Fatalf("Teach failed: %v", err)
	}
	if err := l.Teach("mama", "මමා"); err != nil {
		t.Fatalf("Teach failed: %v", err)
	}

	// 4 main + 1 new user; the shadowing key is not double counted
	if got := l.Len(); got != 5 {
		t.Errorf("Expected Len 5, got %d", got)
	}
	if got := l.UserLen(); got != 2 {
		t.Errorf("Expected UserLen 2, got %d", got)
	}
}

// In server mode teach, suggest, lookup and spell checks arrive from
// different goroutines; the layers must stay consistent throughout.
func TestConcurrentAccess(t *testing.T) {
	l := newTestLexicon()

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				switch i % 4 {
				case 0:
					if err := l.Teach(fmt.Sprintf("word%d_%d", w, i), "වචනය"); err != nil {
						t.Errorf("Teach failed: %v", err)
					}
				case 1:
					l.Suggest("word", 9)
				case 2:
					l.Lookup("mama")
				case 3:
					l.UnknownSinhala("මම බත කමි")
				}
			}
		}(w)
	}
	wg.Wait()

	if got, ok := l.Lookup("word0_0"); !ok || got != "වචනය" {
		t.Errorf("Expected taught entry to survive, got '%s' found=%v", got, ok)
	}
	if !l.KnownSinhala("වචනය") {
		t.Error("Taught value should be known after concurrent teaching")
	}
}
