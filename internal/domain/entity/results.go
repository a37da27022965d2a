package entity

// SourceResult holds one museum's contribution to an aggregated search.
type SourceResult struct {
	Source    Source     `json:"source"`
	Artifacts []Artifact `json:"artifacts"`
	Total     int        `json:"total"`
}

// SourceError records a museum that failed during aggregation. Failures are
// data, not errors: one slow or broken museum must never sink the whole search.
type SourceError struct {
	Source  Source `json:"source"`
	Message string `json:"message"`
}

// AggregatedResults is the merged outcome of fanning a search out to every
// selected museum.
type AggregatedResults struct {
	Artifacts []Artifact              `json:"artifacts"`
	BySource  map[Source]SourceResult `json:"bySource"`
	Errors    []SourceError           `json:"errors"`
	Total     int                     `json:"total"`
}

// ScoredArtifact pairs an artifact with its relevance score for ranking.
type ScoredArtifact struct {
	Artifact Artifact `json:"artifact"`
	Score    float64  `json:"score"`
}
