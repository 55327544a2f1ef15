package crawler

import (
	"net/url"
	"strings"
)

// NormalizeLink resolves href against the crawl base and returns its
// canonical form. Only root-relative paths and absolute http(s) URLs on the
// exact base host are accepted.
func NormalizeLink(base *url.URL, href string) (string, bool) {
	href = strings.TrimSpace(href)

	var full string
	switch {
	case strings.HasPrefix(href, "//"):
		return "", false
	case strings.HasPrefix(href, "/"):
		full = base.Scheme + "://" + base.Host + href
	case strings.HasPrefix(href, "http"):
		full = href
	default:
		return "", false
	}

	u, err := url.Parse(full)
	if err != nil || u.Host != base.Host {
		return "", false
	}
	return Canonical(u), true
}

// Canonical reduces u to scheme://host/path. Query and fragment are dropped
// and an empty path becomes "/".
func Canonical(u *url.URL) string {
	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	return u.Scheme + "://" + u.Host + path
}
