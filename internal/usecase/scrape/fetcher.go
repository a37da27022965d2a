package scrape

import (
	"context"
	"errors"
)

// Page is the readable content extracted from a museum object page.
type Page struct {
	// Title is the document title from the page head.
	Title string

	// Description is the meta or og:description content, when present.
	Description string

	// Text is the extracted readable body text, with labeled fields like
	// "Medium: Steel" preserved one per line.
	Text string

	// Images are absolute image URLs found in the page content, in
	// document order.
	Images []string
}

// PageFetcher fetches a museum page and extracts its readable content.
//
// Implementations must prevent SSRF (validate URLs and redirect targets),
// enforce a response size limit, and enforce timeouts.
type PageFetcher interface {
	FetchPage(ctx context.Context, url string) (*Page, error)
}

// Sentinel errors for page fetching. Callers can distinguish rejected
// requests from fetch failures.
var (
	// ErrInvalidURL indicates a malformed URL or an unsupported scheme.
	// Only http and https are fetched.
	ErrInvalidURL = errors.New("invalid URL or unsupported scheme")

	// ErrPrivateIP indicates the URL resolves to a private, loopback, or
	// link-local address.
	ErrPrivateIP = errors.New("private IP access denied")

	// ErrTooManyRedirects indicates the redirect chain exceeded the
	// configured maximum.
	ErrTooManyRedirects = errors.New("too many redirects")

	// ErrBodyTooLarge indicates the response body exceeded the size limit.
	ErrBodyTooLarge = errors.New("response body too large")

	// ErrTimeout indicates the request exceeded the configured timeout.
	ErrTimeout = errors.New("request timeout")

	// ErrExtractFailed indicates the page had no readable content.
	ErrExtractFailed = errors.New("content extraction failed")

	// ErrDomainNotAllowed indicates the URL's host is outside the scrape
	// allow-list. The page is never fetched.
	ErrDomainNotAllowed = errors.New("domain not in scrape allow-list")
)
