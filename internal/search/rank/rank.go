// Package rank orders search results by keyword relevance.
//
// Museum APIs return results in their own opaque order, often dominated by
// catalog recency rather than match quality. The ranker rescores every
// fetched artifact against the user's query with a tiered per-word field
// matcher, weighs the catalog fields by how strongly they signal relevance,
// and rewards artifacts that cover more of the query's words.
package rank

import (
	"sort"
	"strings"

	"relic-search/internal/domain/entity"
)

// fieldWeights maps each scored artifact field to its relevance weight.
// The title carries the most signal; a free-text description the least.
var fieldWeights = []struct {
	weight float64
	value  func(*entity.Artifact) string
}{
	{5, func(a *entity.Artifact) string { return a.Title }},
	{3, func(a *entity.Artifact) string { return a.Artist }},
	{3, func(a *entity.Artifact) string { return a.Culture }},
	{2, func(a *entity.Artifact) string { return a.Classification }},
	{2, func(a *entity.Artifact) string { return a.Medium }},
	{1, func(a *entity.Artifact) string { return a.Description }},
}

const (
	// titleBonus rewards the full query string appearing literally in the
	// title, a signal per-word scoring under-rewards for multi-word titles.
	titleBonus = 10

	imageBonus        = 3
	knownDateBonus    = 1
	publicDomainBonus = 1
)

// Score computes the relevance of one artifact for a raw query string.
//
// Every query word longer than one character is scored against every
// weighted field, and all nonzero contributions accumulate; a word matching
// both the title and the medium outranks one matching the title alone. The
// accumulated sum is then scaled by query coverage (fraction of words that
// matched anywhere, floored at a 0.5 multiplier) and topped up with flat
// metadata bonuses.
func Score(a *entity.Artifact, query string) float64 {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return metadataBonus(a)
	}

	var score float64
	if strings.Contains(strings.ToLower(a.Title), query) {
		score += titleBonus
	}

	var words []string
	for _, w := range strings.Fields(query) {
		if len(w) > 1 {
			words = append(words, w)
		}
	}

	matched := 0
	for _, word := range words {
		anyMatch := false
		for _, fw := range fieldWeights {
			field := strings.ToLower(fw.value(a))
			if field == "" {
				continue
			}
			if q := MatchQuality(word, field); q > 0 {
				score += q * fw.weight
				anyMatch = true
			}
		}
		if anyMatch {
			matched++
		}
	}

	if len(words) > 0 {
		coverage := float64(matched) / float64(len(words))
		score *= 0.5 + 0.5*coverage
	}

	return score + metadataBonus(a)
}

func metadataBonus(a *entity.Artifact) float64 {
	var bonus float64
	if a.HasImage() {
		bonus += imageBonus
	}
	if a.DateEarliest != nil {
		bonus += knownDateBonus
	}
	if a.IsPublicDomain {
		bonus += publicDomainBonus
	}
	return bonus
}

// Artifacts sorts the slice in place by descending relevance for the query.
// Ties keep their incoming relative order.
func Artifacts(artifacts []entity.Artifact, query string) {
	scored := make([]entity.ScoredArtifact, len(artifacts))
	for i := range artifacts {
		scored[i] = entity.ScoredArtifact{
			Artifact: artifacts[i],
			Score:    Score(&artifacts[i], query),
		}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	for i := range scored {
		artifacts[i] = scored[i].Artifact
	}
}
