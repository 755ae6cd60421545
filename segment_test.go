package qbank_test

import (
	"testing"

	"github.com/fwojciec/qbank"
	"github.com/stretchr/testify/assert"
)

func TestRenderHTML(t *testing.T) {
	t.Parallel()

	t.Run("escapes heading and paragraph text", func(t *testing.T) {
		t.Parallel()

		out := qbank.RenderHTML([]qbank.Segment{
			{Type: qbank.SegmentHeading, Level: 3, Text: "Maps & Slices"},
			{Type: qbank.SegmentParagraph, Text: "a < b"},
		})

		assert.Equal(t, "<h3>Maps &amp; Slices</h3>\n<p>a &lt; b</p>\n", out)
	})

	t.Run("preserves code fence content and language", func(t *testing.T) {
		t.Parallel()

		out := qbank.RenderHTML([]qbank.Segment{
			{Type: qbank.SegmentCodeFence, Language: "go", Text: "fmt.Println(\"# not a heading\")"},
		})

		assert.Contains(t, out, `<pre><code class="language-go">`)
		assert.Contains(t, out, "# not a heading")
	})

	t.Run("renders pipe table with header row", func(t *testing.T) {
		t.Parallel()

		out := qbank.RenderHTML([]qbank.Segment{
			{Type: qbank.SegmentTable, Text: "| Name | Kind |\n| --- | --- |\n| map | reference |"},
		})

		assert.Contains(t, out, "<th>Name</th><th>Kind</th>")
		assert.Contains(t, out, "<td>map</td><td>reference</td>")
	})

	t.Run("renders headerless table as data rows", func(t *testing.T) {
		t.Parallel()

		out := qbank.RenderHTML([]qbank.Segment{
			{Type: qbank.SegmentTable, Text: "| a | b |\n| c | d |"},
		})

		assert.NotContains(t, out, "<th>")
		assert.Contains(t, out, "<td>a</td><td>b</td>")
		assert.Contains(t, out, "<td>c</td><td>d</td>")
	})
}

func TestRenderPlain(t *testing.T) {
	t.Parallel()

	t.Run("keeps fences and pipes", func(t *testing.T) {
		t.Parallel()

		out := qbank.RenderPlain([]qbank.Segment{
			{Type: qbank.SegmentParagraph, Text: "Explain the zero value."},
			{Type: qbank.SegmentCodeFence, Language: "go", Text: "var x int"},
			{Type: qbank.SegmentTable, Text: "| a | b |"},
		})

		assert.Equal(t, "Explain the zero value.\n\n```go\nvar x int\n```\n\n| a | b |", out)
	})
}

func TestSegmentType_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "heading", qbank.SegmentHeading.String())
	assert.Equal(t, "code_fence", qbank.SegmentCodeFence.String())
	assert.Equal(t, "table", qbank.SegmentTable.String())
	assert.Equal(t, "paragraph", qbank.SegmentParagraph.String())
}
