package translit

import "sort"

// vowelSigns maps romanized vowels to dependent vowel signs, the form a
// vowel takes when attached to a consonant. The bare "a" maps to an empty
// sign because Sinhala consonant glyphs carry an inherent "a" sound.
var vowelSigns = map[string]string{
	"aa":  "ා",
	"a":   "",
	"ae":  "ැ",
	"aae": "ෑ",
	"i":   "ි",
	"ii":  "ී",
	"u":   "ු",
	"uu":  "ූ",
	"ru":  "ෘ",
	"ruu": "ෲ",
	"e":   "ෙ",
	"ee":  "ේ",
	"o":   "ො",
	"oo":  "ෝ",
	"au":  "ෞ",
}

// consonants maps romanized consonant clusters to Sinhala letters.
// Digraphs and trigraphs ("chh", "ng", "sh", ...) must be tried before
// single letters, so matching is always longest-key-first.
var consonants = map[string]string{
	"kh":  "ඛ",
	"gh":  "ඝ",
	"chh": "ඡ",
	"jh":  "ඣ",
	"th":  "ත",
	"dh":  "ද",
	"ph":  "ඵ",
	"bh":  "භ",
	"sh":  "ශ",
	"ss":  "ෂ",
	"ng":  "ඟ",
	"ny":  "ඤ",
	"t":   "ට",
	"d":   "ඩ",
	"n":   "ණ",
	"p":   "ප",
	"b":   "බ",
	"m":   "ම",
	"k":   "ක",
	"g":   "ග",
	"c":   "ච",
	"j":   "ජ",
	"l":   "ල",
	"w":   "ව",
	"v":   "වැ",
	"y":   "ය",
	"r":   "ර",
	"s":   "ස",
	"h":   "හ",
	"f":   "ෆ",
	"lh":  "ළ",
}

// independentVowels maps romanized vowels to standalone letters, used when
// a vowel is not carried by a preceding consonant. Combining-only vowels
// such as "ru" have no entry here.
var independentVowels = map[string]string{
	"a":   "අ",
	"aa":  "ආ",
	"ae":  "ඇ",
	"aae": "ඈ",
	"i":   "ඉ",
	"ii":  "ඊ",
	"u":   "උ",
	"uu":  "ඌ",
	"e":   "එ",
	"ee":  "ඒ",
	"o":   "ඔ",
	"oo":  "ඕ",
	"au":  "ඖ",
}

// consonantKeys and vowelKeys hold the table keys sorted longest first so a
// linear scan yields the longest matching prefix.
var (
	consonantKeys = sortedKeys(consonants)
	vowelKeys     = sortedKeys(vowelSigns)
)

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}
