// Package domainmatch decides whether a search result belongs to a tracked website.
//
// Matching is a heuristic: two domains match when either contains the other, which
// catches subdomains (blog.example.com vs example.com) at the cost of occasional false
// positives (example.com vs myexample.com).
package domainmatch

import (
	"net/url"
	"strings"
)

// Normalize reduces a url (scheme optional) to a lowercased host without port and
// without a leading "www.". It never fails, malformed input yields a best-effort string.
func Normalize(raw string) string {
	raw = strings.TrimSpace(raw)
	withScheme := raw
	lower := strings.ToLower(raw)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		withScheme = "https://" + raw
	}

	u, err := url.Parse(withScheme)
	if err == nil && u.Hostname() != "" {
		return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	}
	return fallback(lower)
}

func fallback(lower string) string {
	s := strings.TrimPrefix(lower, "https://")
	s = strings.TrimPrefix(s, "http://")
	s = strings.TrimPrefix(s, "www.")
	host, _, _ := strings.Cut(s, "/")
	return host
}

// IsSameDomain reports whether candidateURL's domain and targetDomain contain one
// another. An empty domain on either side never matches.
func IsSameDomain(candidateURL, targetDomain string) bool {
	candidate := Normalize(candidateURL)
	target := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(targetDomain)), "www.")
	if candidate == "" || target == "" {
		return false
	}
	return strings.Contains(candidate, target) || strings.Contains(target, candidate)
}
