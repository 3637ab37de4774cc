package lexicon

import (
	"errors"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"

	"github.com/helabasa/singlish/internal/utils"
)

// DefaultLimit caps candidate lists, sized to the 1-9 hotkey row.
const DefaultLimit = 9

var errStopVisit = errors.New("lexicon: stop visit")

// Suggest returns ranked Sinhala candidates for a romanized prefix.
//
// An exact key match always ranks first. Prefix matches follow, user layer
// before main layer, each traversed in trie order so results are
// deterministic. Candidates are deduplicated by Sinhala value: two
// romanized spellings of the same word collapse into one entry. Keys the
// user layer shadows are skipped during the main pass.
func (l *Lexicon) Suggest(prefix string, limit int) []string {
	if prefix == "" {
		return nil
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	key := strings.ToLower(prefix)

	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]string, 0, limit)
	filter := utils.NewValueFilter()

	if v, ok := l.lookupLocked(key); ok && filter.ShouldInclude(v) {
		out = append(out, v)
	}

	collect := func(trie *patricia.Trie, shadowed map[string]string) error {
		return trie.VisitSubtree(patricia.Prefix(key), func(p patricia.Prefix, item patricia.Item) error {
			if len(out) >= limit {
				return errStopVisit
			}
			k := string(p)
			if k == key {
				// already ranked first
				return nil
			}
			if shadowed != nil {
				if _, ok := shadowed[k]; ok {
					return nil
				}
			}
			v, _ := item.(string)
			if !filter.ShouldInclude(v) {
				return nil
			}
			out = append(out, v)
			return nil
		})
	}

	if err := collect(l.userTrie, nil); err != nil && err != errStopVisit {
		log.Errorf("Visiting user trie: %v", err)
	}
	if len(out) < limit {
		if err := collect(l.mainTrie, l.user); err != nil && err != errStopVisit {
			log.Errorf("Visiting main trie: %v", err)
		}
	}
	return out
}
