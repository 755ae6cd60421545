package htmlsource_test

import (
	"testing"

	"github.com/fwojciec/qbank"
	"github.com/fwojciec/qbank/htmlsource"
	"github.com/fwojciec/qbank/markdown"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixturePage = `<!DOCTYPE html>
<html>
<head>
<title>Concurrency Questions</title>
</head>
<body>
<nav><a href="/">Home</a><a href="/about">About</a></nav>
<main>
<h2>1. What is a goroutine?</h2>
<p>A goroutine is a lightweight thread managed by the runtime.</p>
<pre><code>go func() { work() }()</code></pre>
<h2>2. Explain channels</h2>
<p>Channels connect goroutines and carry typed values.</p>
</main>
<footer>Copyright 2026</footer>
</body>
</html>`

func TestConverter_Convert(t *testing.T) {
	t.Parallel()

	t.Run("converts main content to markdown-shaped text", func(t *testing.T) {
		t.Parallel()

		c := htmlsource.NewConverter()
		text, err := c.Convert(fixturePage)

		require.NoError(t, err)
		assert.Contains(t, text, "What is a goroutine?")
		assert.Contains(t, text, "lightweight thread")
		assert.Contains(t, text, "go func() { work() }()")
		assert.NotContains(t, text, "Copyright 2026")
	})

	t.Run("page title becomes a level-1 heading", func(t *testing.T) {
		t.Parallel()

		c := htmlsource.NewConverter()
		text, err := c.Convert(fixturePage)

		require.NoError(t, err)
		segments := markdown.ParseSegments(text)
		require.NotEmpty(t, segments)
		assert.Equal(t, qbank.SegmentHeading, segments[0].Type)
		assert.Equal(t, 1, segments[0].Level)
	})

	t.Run("output feeds the block parser", func(t *testing.T) {
		t.Parallel()

		c := htmlsource.NewConverter()
		text, err := c.Convert(fixturePage)
		require.NoError(t, err)

		blocks := markdown.SplitBlocks(markdown.ParseSegments(text))
		require.Len(t, blocks, 2)
		assert.Equal(t, 1, blocks[0].NumberHint)
		assert.Equal(t, "What is a goroutine?", blocks[0].Title)
		assert.Equal(t, 2, blocks[1].NumberHint)
	})

	t.Run("handles clean fragments without a document shell", func(t *testing.T) {
		t.Parallel()

		c := htmlsource.NewConverter()
		text, err := c.Convert(`<h2>3. Describe select</h2><p>Select waits on multiple channels.</p>`)

		require.NoError(t, err)
		assert.Contains(t, text, "Describe select")
		assert.Contains(t, text, "multiple channels")
	})

	t.Run("empty input is invalid", func(t *testing.T) {
		t.Parallel()

		c := htmlsource.NewConverter()
		_, err := c.Convert("   ")

		assert.Equal(t, qbank.EINVALID, qbank.ErrorCode(err))
	})
}
