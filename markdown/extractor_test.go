package markdown_test

import (
	"testing"

	"github.com/fwojciec/qbank"
	"github.com/fwojciec/qbank/markdown"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtureDoc = `# Concurrency

Some preamble prose.

## 1. What is a goroutine?

A lightweight thread managed by the runtime.

Tags: goroutines, runtime
Difficulty: intermediate

` + "```go\ngo work()\n```" + `

## 2. Empty one?

## 3. Channels?

| Op | Blocks |
| --- | --- |
| send | yes |
`

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("extracts candidates in document order", func(t *testing.T) {
		t.Parallel()

		e := markdown.NewExtractor(qbank.DifficultyBeginner)
		doc := &qbank.SourceDocument{ID: "concurrency.md", CategoryHint: "misc", Text: fixtureDoc}

		candidates := e.Extract(doc)
		require.Len(t, candidates, 3)

		first := candidates[0]
		assert.Equal(t, "concurrency.md", first.DocumentID)
		assert.Equal(t, 1, first.NumberHint)
		assert.Equal(t, "What is a goroutine?", first.Title)
		assert.Equal(t, []string{"goroutines", "runtime"}, first.Tags)
		assert.Equal(t, qbank.DifficultyIntermediate, first.Difficulty)
		assert.False(t, first.Empty)
	})

	t.Run("preamble H1 refines the category hint", func(t *testing.T) {
		t.Parallel()

		e := markdown.NewExtractor("")
		doc := &qbank.SourceDocument{ID: "d", CategoryHint: "dirname", Text: fixtureDoc}

		candidates := e.Extract(doc)
		for _, c := range candidates {
			assert.Equal(t, "Concurrency", c.CategoryHint)
		}
	})

	t.Run("metadata markers are stripped from content", func(t *testing.T) {
		t.Parallel()

		e := markdown.NewExtractor("")
		candidates := e.Extract(&qbank.SourceDocument{ID: "d", Text: fixtureDoc})

		first := candidates[0]
		assert.NotContains(t, first.ContentPlain, "Tags:")
		assert.NotContains(t, first.ContentPlain, "Difficulty:")
		assert.NotContains(t, first.ContentHTML, "Tags:")
		assert.Contains(t, first.ContentPlain, "A lightweight thread")
		assert.Contains(t, first.ContentPlain, "```go\ngo work()\n```")
	})

	t.Run("empty block is flagged not discarded", func(t *testing.T) {
		t.Parallel()

		e := markdown.NewExtractor("")
		candidates := e.Extract(&qbank.SourceDocument{ID: "d", Text: fixtureDoc})

		second := candidates[1]
		assert.True(t, second.Empty)
		assert.Equal(t, "Empty one?", second.Title)
		assert.Empty(t, second.ContentHTML)
		assert.Empty(t, second.ContentPlain)
	})

	t.Run("tables survive into both projections", func(t *testing.T) {
		t.Parallel()

		e := markdown.NewExtractor("")
		candidates := e.Extract(&qbank.SourceDocument{ID: "d", Text: fixtureDoc})

		third := candidates[2]
		assert.Contains(t, third.ContentHTML, "<table>")
		assert.Contains(t, third.ContentHTML, "<th>Op</th>")
		assert.Contains(t, third.ContentPlain, "| send | yes |")
	})

	t.Run("default difficulty applies without a marker", func(t *testing.T) {
		t.Parallel()

		e := markdown.NewExtractor(qbank.DifficultyAdvanced)
		candidates := e.Extract(&qbank.SourceDocument{ID: "d", Text: "## 1. Q?\n\nbody\n"})

		require.Len(t, candidates, 1)
		assert.Equal(t, qbank.DifficultyAdvanced, candidates[0].Difficulty)
	})

	t.Run("unknown difficulty marker falls back to default", func(t *testing.T) {
		t.Parallel()

		e := markdown.NewExtractor(qbank.DifficultyBeginner)
		candidates := e.Extract(&qbank.SourceDocument{ID: "d", Text: "## 1. Q?\n\nDifficulty: impossible\n\nbody\n"})

		require.Len(t, candidates, 1)
		assert.Equal(t, qbank.DifficultyBeginner, candidates[0].Difficulty)
	})

	t.Run("extraction is deterministic", func(t *testing.T) {
		t.Parallel()

		e := markdown.NewExtractor("")
		doc := &qbank.SourceDocument{ID: "d", Text: fixtureDoc}

		assert.Equal(t, e.Extract(doc), e.Extract(doc))
	})
}
