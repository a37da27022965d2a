package fetcher

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"

	"relic-search/internal/resilience/circuitbreaker"
	"relic-search/internal/usecase/scrape"
)

// userAgent identifies scrape traffic to museum sites.
const userAgent = "RelicSearchBot/1.0"

// ReadabilityFetcher fetches museum pages and reduces them to readable
// content using the Mozilla Readability algorithm. Page metadata and image
// URLs are pulled from the raw HTML before reduction.
//
// Safe for concurrent use.
type ReadabilityFetcher struct {
	client         *http.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	config         PageFetchConfig
}

// NewReadabilityFetcher creates a page fetcher with redirect validation,
// TLS 1.2+, and a circuit breaker shared across all pages.
func NewReadabilityFetcher(config PageFetchConfig) *ReadabilityFetcher {
	cb := circuitbreaker.New(circuitbreaker.Config{
		Name:             "page-fetch",
		MaxRequests:      5,
		Interval:         60 * time.Second,
		Timeout:          60 * time.Second,
		FailureThreshold: 0.6,
		MinRequests:      5,
	})

	f := &ReadabilityFetcher{
		circuitBreaker: cb,
		config:         config,
	}

	f.client = &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= f.config.MaxRedirects {
				return fmt.Errorf("%w: %d redirects", scrape.ErrTooManyRedirects, len(via))
			}
			// Redirect targets get the same SSRF validation as the
			// original URL.
			if err := validateURL(req.URL.String(), f.config.DenyPrivateIPs); err != nil {
				return fmt.Errorf("redirect target validation failed: %w", err)
			}
			return nil
		},
	}
	return f
}

// FetchPage fetches a museum page and extracts its readable content,
// metadata, and image URLs.
func (f *ReadabilityFetcher) FetchPage(ctx context.Context, urlStr string) (*scrape.Page, error) {
	if err := validateURL(urlStr, f.config.DenyPrivateIPs); err != nil {
		return nil, err
	}

	result, err := f.circuitBreaker.Execute(func() (interface{}, error) {
		return f.doFetch(ctx, urlStr)
	})
	if err != nil {
		return nil, err
	}
	return result.(*scrape.Page), nil
}

func (f *ReadabilityFetcher) doFetch(ctx context.Context, urlStr string) (interface{}, error) {
	reqCtx, cancel := context.WithTimeout(ctx, f.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", scrape.ErrInvalidURL, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		if reqCtx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("%w: request exceeded %v", scrape.ErrTimeout, f.config.Timeout)
		}
		// Unwrap redirect validation errors so callers see the sentinel.
		if urlErr, ok := err.(*url.Error); ok && urlErr.Err != nil {
			return nil, urlErr.Err
		}
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	limitedReader := io.LimitReader(resp.Body, f.config.MaxBodySize+1)
	htmlBytes, err := io.ReadAll(limitedReader)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(htmlBytes)) > f.config.MaxBodySize {
		return nil, fmt.Errorf("%w: response size %d bytes exceeds limit %d bytes",
			scrape.ErrBodyTooLarge, len(htmlBytes), f.config.MaxBodySize)
	}

	// The final URL may differ from the requested one after redirects.
	finalURL, err := url.Parse(urlStr)
	if err != nil {
		finalURL = nil
	}
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL
	}

	page, err := extractPage(htmlBytes, finalURL)
	if err != nil {
		return nil, err
	}
	return page, nil
}

// extractPage parses metadata and images out of the raw HTML, then runs
// Readability over it for the body text.
func extractPage(htmlBytes []byte, pageURL *url.URL) (*scrape.Page, error) {
	page := &scrape.Page{}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(htmlBytes))
	if err == nil {
		page.Title = strings.TrimSpace(doc.Find("title").First().Text())
		page.Description = metaContent(doc, `meta[name="description"]`, `meta[property="og:description"]`)
		page.Images = collectImages(doc, pageURL)
	}

	article, err := readability.FromReader(bytes.NewReader(htmlBytes), pageURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", scrape.ErrExtractFailed, err)
	}

	text := article.TextContent
	if text == "" {
		text = article.Content
	}
	if text == "" {
		return nil, fmt.Errorf("%w: no readable content found", scrape.ErrExtractFailed)
	}
	page.Text = text

	if page.Title == "" {
		page.Title = article.Title
	}
	return page, nil
}

func metaContent(doc *goquery.Document, selectors ...string) string {
	for _, sel := range selectors {
		if content, ok := doc.Find(sel).First().Attr("content"); ok {
			if trimmed := strings.TrimSpace(content); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}

// collectImages gathers og:image and inline image URLs in document order,
// resolved against the page URL and deduplicated.
func collectImages(doc *goquery.Document, pageURL *url.URL) []string {
	var images []string
	seen := map[string]bool{}

	add := func(raw string) {
		raw = strings.TrimSpace(raw)
		if raw == "" || strings.HasPrefix(raw, "data:") {
			return
		}
		resolved := raw
		if pageURL != nil {
			if ref, err := url.Parse(raw); err == nil {
				resolved = pageURL.ResolveReference(ref).String()
			}
		}
		if !seen[resolved] {
			seen[resolved] = true
			images = append(images, resolved)
		}
	}

	if og, ok := doc.Find(`meta[property="og:image"]`).First().Attr("content"); ok {
		add(og)
	}
	doc.Find("img[src]").Each(func(_ int, s *goquery.Selection) {
		if src, ok := s.Attr("src"); ok {
			add(src)
		}
	})
	return images
}
