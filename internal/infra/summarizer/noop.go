package summarizer

import (
	"context"
)

// NoOp is a summarizer that returns the input text truncated instead of
// calling an AI API. Used when no Anthropic API key is configured.
type NoOp struct{}

// NewNoOp creates a new no-op summarizer.
func NewNoOp() *NoOp {
	return &NoOp{}
}

// Summarize returns the first part of the text unchanged.
func (n *NoOp) Summarize(_ context.Context, text string) (string, error) {
	const maxLength = 500
	if len(text) <= maxLength {
		return text, nil
	}
	return text[:maxLength] + "...", nil
}
