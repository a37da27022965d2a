// Package fetcher provides page fetching for the museum scrape pipeline.
package fetcher

import (
	"fmt"
	"net"
	"net/url"

	"relic-search/internal/usecase/scrape"
)

// validateURL validates a URL before any HTTP request is made. It checks
// the scheme, resolves the hostname, and when denyPrivateIPs is set,
// rejects hosts that resolve to private, loopback, or link-local
// addresses. This is the SSRF guard; redirect targets run through it too.
func validateURL(urlStr string, denyPrivateIPs bool) error {
	u, err := url.Parse(urlStr)
	if err != nil {
		return fmt.Errorf("%w: parse error: %v", scrape.ErrInvalidURL, err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: scheme '%s' not allowed (only http/https)", scrape.ErrInvalidURL, u.Scheme)
	}

	hostname := u.Hostname()
	if hostname == "" {
		return fmt.Errorf("%w: empty hostname", scrape.ErrInvalidURL)
	}

	if !denyPrivateIPs {
		return nil
	}

	// Resolve before fetching so a hostname pointing at the internal
	// network is caught, not just literal private IPs.
	ips, err := net.LookupIP(hostname)
	if err != nil {
		return fmt.Errorf("%w: DNS lookup failed for %s: %v", scrape.ErrInvalidURL, hostname, err)
	}

	for _, ip := range ips {
		if isPrivateIP(ip) {
			return fmt.Errorf("%w: hostname '%s' resolves to private IP %s", scrape.ErrPrivateIP, hostname, ip.String())
		}
	}

	return nil
}

// isPrivateIP reports whether an IP is loopback, private (RFC 1918 /
// RFC 4193), or link-local. Both IPv4 and IPv6 are covered.
func isPrivateIP(ip net.IP) bool {
	return ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast()
}
