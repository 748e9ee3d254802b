// Package fs exports documents as markdown files.
package fs

import (
	"net/url"
	"path"
	"strings"

	"github.com/fwojciec/docvec"
)

// DocumentPath converts a document URL to a relative file path under a
// directory named for the host.
// Example: https://example.com/docs/api/users → example.com/docs/api/users.md
//
// Policy documents share one page and differ by fragment, so a fragment
// names a file inside the page's directory:
// https://example.com/policies/#Homepage → example.com/policies/Homepage.md
func DocumentPath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", docvec.Errorf(docvec.EINVALID, "invalid document URL %q", rawURL)
	}

	p := strings.TrimPrefix(path.Clean("/"+u.Path), "/")
	trailing := strings.HasSuffix(u.Path, "/") || p == ""
	if host := hostDir(u.Host); host != "" {
		p = path.Join(host, p)
	}

	if frag := sanitize(u.Fragment); frag != "" {
		return path.Join(p, frag+".md"), nil
	}
	if trailing {
		return path.Join(p, "index.md"), nil
	}
	return p + ".md", nil
}

// hostDir turns a URL host into a directory name. Ports are kept so two
// local servers do not share a directory.
func hostDir(host string) string {
	host = strings.ToLower(strings.Trim(host, ". "))
	return strings.NewReplacer(":", "_", "/", "_", "\\", "_").Replace(host)
}

// sanitize keeps a fragment usable as a single file name.
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', 0:
			return '_'
		}
		return r
	}, strings.Trim(s, ". "))
}
