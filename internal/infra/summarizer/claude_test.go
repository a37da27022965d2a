package summarizer_test

import (
	"context"
	"os"
	"strings"
	"testing"

	"relic-search/internal/infra/summarizer"
	"relic-search/internal/usecase/scrape"
)

var (
	_ scrape.Summarizer = (*summarizer.Claude)(nil)
	_ scrape.Summarizer = (*summarizer.NoOp)(nil)
)

// TestLoadClaudeConfig_DefaultValue tests that the default limit (600) is used when env var is not set
func TestLoadClaudeConfig_DefaultValue(t *testing.T) {
	_ = os.Unsetenv("SUMMARIZER_CHAR_LIMIT")

	config := summarizer.LoadClaudeConfig()

	if config.CharacterLimit != 600 {
		t.Errorf("Expected default CharacterLimit=600, got %d", config.CharacterLimit)
	}
}

// TestLoadClaudeConfig_CustomValue tests that a custom value is loaded from the environment variable
func TestLoadClaudeConfig_CustomValue(t *testing.T) {
	t.Setenv("SUMMARIZER_CHAR_LIMIT", "1200")

	config := summarizer.LoadClaudeConfig()

	if config.CharacterLimit != 1200 {
		t.Errorf("Expected CharacterLimit=1200, got %d", config.CharacterLimit)
	}
}

// TestLoadClaudeConfig_InvalidValue tests that invalid or out-of-range values fall back to the default
func TestLoadClaudeConfig_InvalidValue(t *testing.T) {
	tests := []struct {
		name          string
		value         string
		expectedLimit int
	}{
		{"non-numeric", "invalid", 600},
		{"with letters", "600abc", 600},
		{"zero", "0", 600},
		{"negative", "-100", 600},
		{"just below min", "99", 600},
		{"just above max", "5001", 600},
		{"very large", "999999", 600},
		{"minimum boundary", "100", 100},
		{"maximum boundary", "5000", 5000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("SUMMARIZER_CHAR_LIMIT", tt.value)

			config := summarizer.LoadClaudeConfig()

			if config.CharacterLimit != tt.expectedLimit {
				t.Errorf("For value %s: expected CharacterLimit=%d, got %d",
					tt.value, tt.expectedLimit, config.CharacterLimit)
			}
		})
	}
}

// TestLoadClaudeConfig_AllFields tests that all config fields are populated correctly
func TestLoadClaudeConfig_AllFields(t *testing.T) {
	t.Setenv("SUMMARIZER_CHAR_LIMIT", "1500")

	config := summarizer.LoadClaudeConfig()

	if config.CharacterLimit != 1500 {
		t.Errorf("Expected CharacterLimit=1500, got %d", config.CharacterLimit)
	}
	if config.Model == "" {
		t.Error("Model should not be empty")
	}
	if config.MaxTokens != 1024 {
		t.Errorf("Expected MaxTokens=1024, got %d", config.MaxTokens)
	}
	if config.Timeout.Seconds() != 60 {
		t.Errorf("Expected Timeout=60s, got %v", config.Timeout)
	}
}

// TestNoOp_ShortTextPassesThrough tests that short text is returned unchanged
func TestNoOp_ShortTextPassesThrough(t *testing.T) {
	n := summarizer.NewNoOp()

	got, err := n.Summarize(context.Background(), "A Viking sword of pattern-welded steel.")
	if err != nil {
		t.Fatalf("Summarize returned error: %v", err)
	}
	if got != "A Viking sword of pattern-welded steel." {
		t.Errorf("Expected pass-through, got %q", got)
	}
}

// TestNoOp_LongTextIsTruncated tests that long text is cut to 500 characters with an ellipsis
func TestNoOp_LongTextIsTruncated(t *testing.T) {
	n := summarizer.NewNoOp()
	long := strings.Repeat("a", 1000)

	got, err := n.Summarize(context.Background(), long)
	if err != nil {
		t.Fatalf("Summarize returned error: %v", err)
	}
	if len(got) != 503 {
		t.Errorf("Expected length 503 (500 chars + ellipsis), got %d", len(got))
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("Expected truncated text to end with ellipsis, got %q", got[len(got)-10:])
	}
}
