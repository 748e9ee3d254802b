package docvec

import (
	"net/url"
	"strings"
)

// Canonicalize maps a raw URL to its stable identity: scheme, host and
// path, with the query string and fragment removed. Scheme and host are
// lowercased. Input that is not an absolute URL is returned unchanged so a
// single bad link never blocks the pipeline.
func Canonicalize(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return raw
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.RawQuery = ""
	u.ForceQuery = false
	u.Fragment = ""
	u.RawFragment = ""
	return u.String()
}
