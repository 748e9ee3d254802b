package goquery_test

import (
	"testing"

	"github.com/fwojciec/docvec"
	"github.com/fwojciec/docvec/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("returns inner HTML of the first container", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
<nav>Menu</nav>
<section class="article-container"><p>First</p></section>
<section class="article-container"><p>Second</p></section>
</body></html>`
		e := goquery.NewContentExtractor("section.article-container", "")

		result, err := e.Extract(html)

		require.NoError(t, err)
		assert.Equal(t, "<p>First</p>", result.ContentHTML)
	})

	t.Run("yields empty content without a container", func(t *testing.T) {
		t.Parallel()

		e := goquery.NewContentExtractor("section.article-container", "")

		result, err := e.Extract(`<html><body><main><p>Landing page</p></main></body></html>`)

		require.NoError(t, err)
		assert.Empty(t, result.ContentHTML)
	})

	t.Run("strips everything from the feedback marker on", func(t *testing.T) {
		t.Parallel()

		html := `<div class="cc"><h1>Set up</h1><p>Steps</p><div class="feedback">Was this helpful? Yes No</div><footer>Related</footer></div>`
		e := goquery.NewContentExtractor("div.cc", "")

		result, err := e.Extract(html)

		require.NoError(t, err)
		assert.Equal(t, `<h1>Set up</h1><p>Steps</p><div class="feedback">`, result.ContentHTML)
		assert.NotContains(t, result.ContentHTML, "Related")
	})

	t.Run("matches the marker case-insensitively", func(t *testing.T) {
		t.Parallel()

		e := goquery.NewContentExtractor("article", "")

		result, err := e.Extract(`<article><p>Body</p><p>WAS THIS HELPFUL?</p></article>`)

		require.NoError(t, err)
		assert.Equal(t, "<p>Body</p><p>", result.ContentHTML)
	})

	t.Run("honors a custom marker", func(t *testing.T) {
		t.Parallel()

		e := &goquery.ContentExtractor{Container: "article", BoilerplateMarker: "Send feedback"}

		result, err := e.Extract(`<article><p>Body</p>Send feedback<p>tail</p></article>`)

		require.NoError(t, err)
		assert.Equal(t, "<p>Body</p>", result.ContentHTML)
	})

	t.Run("reads only direct text of the title element", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
<h1 class="devsite-page-title">
  Chrome Enterprise
  <span class="badge">Beta</span>
  overview
</h1>
<article>Body</article>
</body></html>`
		e := goquery.NewContentExtractor("article", "h1.devsite-page-title")

		result, err := e.Extract(html)

		require.NoError(t, err)
		assert.Equal(t, "Chrome Enterprise overview", result.Title)
		assert.Equal(t, "Body", result.ContentHTML)
	})

	t.Run("requires a container selector", func(t *testing.T) {
		t.Parallel()

		_, err := (&goquery.ContentExtractor{}).Extract("<p>x</p>")

		assert.Equal(t, docvec.EINVALID, docvec.ErrorCode(err))
	})
}
