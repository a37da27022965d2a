package rank

import "strings"

// Match quality tiers, best first. The tiers are evaluated in order and the
// best applicable one wins, so a word that exact-matches in one spot and only
// fuzzy-matches elsewhere in the same field still reports the exact tier.
const (
	qualityExact     = 1.0
	qualitySubstring = 0.7
	qualityPrefix    = 0.6
	qualityFuzzy     = 0.4
)

// MatchQuality scores how well a single query word matches a field value,
// returning a value in [0, 1] where 0 means no relation. Both inputs are
// expected lower-cased; the field is tokenized internally for the prefix and
// fuzzy tiers.
func MatchQuality(word, field string) float64 {
	if word == "" || field == "" {
		return 0
	}

	if idx := strings.Index(field, word); idx >= 0 {
		if wordBoundaryAt(field, idx, len(word)) {
			return qualityExact
		}
		// occurs inside a larger token, check every occurrence before
		// settling for the weaker tier
		rest := field
		offset := 0
		for {
			i := strings.Index(rest, word)
			if i < 0 {
				break
			}
			if wordBoundaryAt(field, offset+i, len(word)) {
				return qualityExact
			}
			rest = rest[i+1:]
			offset += i + 1
		}
		return qualitySubstring
	}

	tokens := tokenize(field)
	for _, tok := range tokens {
		if strings.HasPrefix(tok, word) {
			return qualityPrefix
		}
	}

	budget := editBudget(word)
	for _, tok := range tokens {
		if abs(len(tok)-len(word)) > budget {
			continue
		}
		if levenshtein(word, tok) <= budget {
			return qualityFuzzy
		}
	}
	return 0
}

// editBudget allows one typo in short words and two in longer ones. Short
// words get the tighter budget because "bow" is two edits from "box", "cow",
// and half the dictionary.
func editBudget(word string) int {
	if len(word) <= 4 {
		return 1
	}
	return 2
}

// wordBoundaryAt reports whether field[idx:idx+n] is not adjacent to an
// alphanumeric rune on either side.
func wordBoundaryAt(field string, idx, n int) bool {
	if idx > 0 && isAlnum(field[idx-1]) {
		return false
	}
	if end := idx + n; end < len(field) && isAlnum(field[end]) {
		return false
	}
	return true
}

func isAlnum(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

// tokenize splits a field on every non-alphanumeric byte.
func tokenize(field string) []string {
	return strings.FieldsFunc(field, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9')
	})
}

// levenshtein computes the edit distance between two strings using two
// rolling rows instead of the full matrix.
func levenshtein(a, b string) int {
	if a == b {
		return 0
	}
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = minDist(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func minDist(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
