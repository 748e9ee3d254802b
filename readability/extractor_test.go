package readability_test

import (
	"testing"

	"github.com/fwojciec/docvec"
	"github.com/fwojciec/docvec/readability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const helpPage = `<!DOCTYPE html>
<html>
<head><title>Set up Chrome browser on Windows</title></head>
<body>
<nav><a href="/chrome/a">Help Center Nav</a><a href="/community">Community Nav</a></nav>
<article>
<h1>Set up Chrome browser on Windows</h1>
<p>Use a Windows Installer package to deploy Chrome Browser to the computers in your organization.
The installer is available for both 32-bit and 64-bit editions of Windows and can be pushed with
your existing software deployment tools.</p>
<p>After installation, apply policies with Group Policy or the Chrome Enterprise administrative
templates so that every managed browser receives the same configuration.</p>
<p>Was this helpful? Yes No</p>
<p>Need more help? Contact support.</p>
</article>
<footer><p>Footer copyright text</p></footer>
</body>
</html>`

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("rejects blank input", func(t *testing.T) {
		t.Parallel()

		_, err := readability.NewExtractor().Extract("  \n")
		require.Error(t, err)
		assert.Equal(t, docvec.EINVALID, docvec.ErrorCode(err))
	})

	t.Run("keeps article and title", func(t *testing.T) {
		t.Parallel()

		result, err := readability.NewExtractor().Extract(helpPage)
		require.NoError(t, err)

		assert.Equal(t, "Set up Chrome browser on Windows", result.Title)
		assert.Contains(t, result.ContentHTML, "Windows Installer package")
		assert.NotContains(t, result.ContentHTML, "Help Center Nav")
		assert.NotContains(t, result.ContentHTML, "Footer copyright text")
	})

	t.Run("strips trailing boilerplate", func(t *testing.T) {
		t.Parallel()

		result, err := readability.NewExtractor().Extract(helpPage)
		require.NoError(t, err)

		assert.Contains(t, result.ContentHTML, "administrative")
		assert.NotContains(t, result.ContentHTML, "Was this helpful")
		assert.NotContains(t, result.ContentHTML, "Need more help")
	})

	t.Run("empty marker keeps everything", func(t *testing.T) {
		t.Parallel()

		e := &readability.Extractor{}
		result, err := e.Extract(helpPage)
		require.NoError(t, err)

		assert.Contains(t, result.ContentHTML, "Need more help")
	})
}
