// Package semantic merges an externally computed similarity ranking into
// keyword search results.
package semantic

import "relic-search/internal/domain/entity"

// Merge folds a cross-source similarity-ranked artifact list into keyword
// results without discarding anything the keyword pass found.
//
// The external list is first narrowed to the sources present in the keyword
// results. The merged global order is the narrowed external list followed by
// keyword-only artifacts, deduplicated by artifact id with keyword order
// preserved among the leftovers. The merged sequence is then re-partitioned
// into per-source buckets: each source's displayed order changes, its
// membership can only grow from external hits the keyword pass missed.
//
// An empty external list means the similarity index has nothing for this
// query yet, so the keyword results are returned untouched. Similarity
// re-ranking is best effort and must never make results worse than no
// re-ranking at all.
func Merge(keyword *entity.AggregatedResults, external []entity.Artifact) *entity.AggregatedResults {
	if keyword == nil {
		return nil
	}
	if len(external) == 0 {
		return keyword
	}

	selected := make(map[entity.Source]bool, len(keyword.BySource))
	for source := range keyword.BySource {
		selected[source] = true
	}

	merged := make([]entity.Artifact, 0, len(keyword.Artifacts))
	seen := make(map[string]bool, len(keyword.Artifacts))
	for _, a := range external {
		if !selected[a.Source] || seen[a.ID] {
			continue
		}
		seen[a.ID] = true
		merged = append(merged, a)
	}
	if len(merged) == 0 {
		// nothing from the external set survived the source filter
		return keyword
	}
	for _, a := range keyword.Artifacts {
		if seen[a.ID] {
			continue
		}
		seen[a.ID] = true
		merged = append(merged, a)
	}

	bySource := make(map[entity.Source]entity.SourceResult, len(keyword.BySource))
	for _, a := range merged {
		bucket := bySource[a.Source]
		bucket.Source = a.Source
		bucket.Artifacts = append(bucket.Artifacts, a)
		bySource[a.Source] = bucket
	}
	// carry each source's reported total through; membership growth from
	// external hits does not change what the upstream API said it had
	for source, bucket := range bySource {
		if prev, ok := keyword.BySource[source]; ok {
			bucket.Total = prev.Total
		} else {
			bucket.Total = len(bucket.Artifacts)
		}
		bySource[source] = bucket
	}

	return &entity.AggregatedResults{
		Artifacts: merged,
		BySource:  bySource,
		Errors:    keyword.Errors,
		Total:     keyword.Total,
	}
}
