// Package scrape extracts artifact records from museum object pages that
// have no public API. Pages are fetched through an allow-list of museum
// domains, reduced to readable text, and scanned for labeled catalog
// fields.
package scrape

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"relic-search/internal/domain/entity"
	"relic-search/internal/observability/logging"
	"relic-search/internal/observability/metrics"
)

// Summarizer generates a short description from extracted page text.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// Service turns museum pages into partial artifact records.
type Service struct {
	Fetcher        PageFetcher
	Summarizer     Summarizer
	AllowedDomains []string

	now func() time.Time
}

// NewService creates a scrape service. Summarizer may be nil, in which
// case descriptions come only from page metadata and labeled fields.
func NewService(fetcher PageFetcher, summarizer Summarizer, allowedDomains []string) *Service {
	return &Service{
		Fetcher:        fetcher,
		Summarizer:     summarizer,
		AllowedDomains: allowedDomains,
		now:            time.Now,
	}
}

// fieldLabels maps artifact fields to the catalog labels museum pages use
// for them, in lookup priority order.
var fieldLabels = map[string][]string{
	"title":          {"Title", "Object", "Name"},
	"date":           {"Date", "Period", "Year", "Created"},
	"period":         {"Period", "Era"},
	"culture":        {"Culture", "Origin", "Country"},
	"classification": {"Classification", "Type", "Category", "Object Type"},
	"objectType":     {"Object Type", "Type"},
	"medium":         {"Medium", "Materials", "Material", "Technique"},
	"dimensions":     {"Dimensions", "Size", "Measurements"},
	"artist":         {"Artist", "Maker", "Creator", "Author"},
	"description":    {"Description", "About", "Summary"},
	"department":     {"Department", "Collection", "Gallery"},
	"country":        {"Country", "Place of Origin", "Geography"},
	"creditLine":     {"Credit", "Credit Line", "Accession"},
}

// Extract fetches an allow-listed museum page and builds a partial
// artifact from its labeled fields and images. Hosts outside the
// allow-list are rejected before any network activity.
func (s *Service) Extract(ctx context.Context, rawURL string) (*entity.Artifact, error) {
	log := logging.FromContext(ctx)

	host, err := allowedHost(rawURL, s.AllowedDomains)
	if err != nil {
		metrics.RecordScrapeRejected()
		log.Warn("scrape request rejected",
			slog.String("url", rawURL),
			slog.Any("error", err))
		return nil, err
	}

	start := time.Now()
	page, err := s.Fetcher.FetchPage(ctx, rawURL)
	if err != nil {
		metrics.RecordScrapeFailed(time.Since(start))
		return nil, fmt.Errorf("Extract: %w", err)
	}

	artifact := s.buildArtifact(page, rawURL)

	if artifact.Description == "" && s.Summarizer != nil {
		summary, err := s.Summarizer.Summarize(ctx, page.Text)
		if err != nil {
			// Summaries are best effort; the extraction still counts.
			log.Warn("scrape description summarization failed",
				slog.String("url", rawURL),
				slog.Any("error", err))
		} else {
			artifact.Description = summary
		}
	}

	metrics.RecordScrapeSuccess(time.Since(start))
	log.Info("scraped artifact from page",
		slog.String("url", rawURL),
		slog.String("host", host),
		slog.String("artifact_id", artifact.ID),
		slog.Int("images", len(page.Images)))
	return artifact, nil
}

func (s *Service) buildArtifact(page *Page, rawURL string) *entity.Artifact {
	sourceID := fmt.Sprintf("%d-%s", s.now().UnixMilli(), uuid.NewString()[:8])

	a := &entity.Artifact{
		ID:             entity.ArtifactID(entity.SourceScraped, sourceID),
		SourceID:       sourceID,
		Source:         entity.SourceScraped,
		Title:          firstNonEmpty(page.Title, extractField(page.Text, fieldLabels["title"]), "Untitled"),
		Date:           extractField(page.Text, fieldLabels["date"]),
		Period:         extractField(page.Text, fieldLabels["period"]),
		Culture:        extractField(page.Text, fieldLabels["culture"]),
		Classification: extractField(page.Text, fieldLabels["classification"]),
		ObjectType:     extractField(page.Text, fieldLabels["objectType"]),
		Medium:         extractField(page.Text, fieldLabels["medium"]),
		Dimensions:     extractField(page.Text, fieldLabels["dimensions"]),
		Artist:         extractField(page.Text, fieldLabels["artist"]),
		Description:    firstNonEmpty(page.Description, extractField(page.Text, fieldLabels["description"])),
		Department:     extractField(page.Text, fieldLabels["department"]),
		Country:        extractField(page.Text, fieldLabels["country"]),
		CreditLine:     extractField(page.Text, fieldLabels["creditLine"]),
		SourceURL:      rawURL,
	}

	if len(page.Images) > 0 {
		a.PrimaryImage = page.Images[0]
		a.PrimaryImageSmall = page.Images[0]
		a.AdditionalImages = page.Images[1:]
	}
	return a
}

// extractField scans the text for the first line matching any of the
// labels, in label priority order. A label matches at the start of a line,
// optionally bold-wrapped, followed by a colon or whitespace and the value.
func extractField(text string, labels []string) string {
	for _, label := range labels {
		// "." stops at line end, so the capture never crosses a newline.
		re := regexp.MustCompile(`(?i)(?:^|\n)\**` + regexp.QuoteMeta(label) + `\**[:\s]+(.+)`)
		if m := re.FindStringSubmatch(text); m != nil {
			// bold-wrapped labels leave the closing asterisks on the value
			return strings.TrimSpace(strings.TrimLeft(m[1], "* "))
		}
	}
	return ""
}

// allowedHost validates the URL and checks its host against the domain
// allow-list. Subdomains of an allowed domain are allowed.
func allowedHost(rawURL string, allowed []string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%w: scheme %q", ErrInvalidURL, u.Scheme)
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return "", fmt.Errorf("%w: empty hostname", ErrInvalidURL)
	}

	for _, domain := range allowed {
		domain = strings.ToLower(strings.TrimSpace(domain))
		if domain == "" {
			continue
		}
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return host, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrDomainNotAllowed, host)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
