package fs_test

import (
	"testing"

	"github.com/fwojciec/docvec/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		url  string
		want string
	}{
		{"simple path", "https://example.com/docs/api/users", "example.com/docs/api/users.md"},
		{"trailing slash becomes index", "https://example.com/docs/", "example.com/docs/index.md"},
		{"root path becomes index", "https://example.com/", "example.com/index.md"},
		{"root without trailing slash", "https://example.com", "example.com/index.md"},
		{"ignores query string", "https://example.com/docs/api?version=2", "example.com/docs/api.md"},
		{"fragment names a file", "https://chromeenterprise.google/policies/#HomepageLocation", "chromeenterprise.google/policies/HomepageLocation.md"},
		{"fragment without trailing slash", "https://example.com/policies#Proxy", "example.com/policies/Proxy.md"},
		{"cannot escape the output directory", "https://example.com/../../etc/passwd", "example.com/etc/passwd.md"},
		{"fragment slashes are replaced", "https://example.com/p/#a/b", "example.com/p/a_b.md"},
		{"hosts get separate directories", "https://cloud.google.com/docs/overview", "cloud.google.com/docs/overview.md"},
		{"host is lowercased", "https://Support.Google.com/chrome/a", "support.google.com/chrome/a.md"},
		{"port is kept", "http://127.0.0.1:8080/start", "127.0.0.1_8080/start.md"},
		{"no host", "/local/page", "local/page.md"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := fs.DocumentPath(tt.url)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("invalid URL", func(t *testing.T) {
		t.Parallel()

		_, err := fs.DocumentPath("://bad")
		require.Error(t, err)
	})
}
