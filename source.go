package qbank

import (
	"context"
	"iter"
)

// SourceDocument is one raw input document produced by a Scanner.
type SourceDocument struct {
	// ID identifies the document within its source root, typically a
	// relative file path.
	ID string

	// Path is the absolute location the document was read from.
	Path string

	// CategoryHint names the category the document's questions belong
	// to, derived from document grouping. May be overridden by an
	// explicit manifest entry or an in-document cue.
	CategoryHint string

	// Text is the raw document content.
	Text string
}

// Scanner enumerates source documents under a root location.
//
// The sequence is lazy, finite and restartable: ranging over Scan a
// second time re-reads the source. An unreadable document yields a
// non-nil error alongside a document carrying its ID; consumers skip
// it and continue.
type Scanner interface {
	Scan(ctx context.Context) iter.Seq2[*SourceDocument, error]
}

// Converter converts an HTML source document into text the block
// parser accepts (markdown-shaped headings, fences and tables).
type Converter interface {
	Convert(html string) (string, error)
}

// Candidate is a question extracted from a source document, before
// category resolution and number allocation.
type Candidate struct {
	// DocumentID identifies the originating source document.
	DocumentID string

	// CategoryHint carries the document's category, possibly refined
	// by in-document cues.
	CategoryHint string

	// NumberHint is the number parsed from the question marker
	// heading, or 0 when the heading carried none.
	NumberHint int

	Title        string
	ContentPlain string
	ContentHTML  string
	Tags         []string
	Difficulty   Difficulty

	// Empty marks a block with no body content after its heading.
	// Such candidates are flagged for manual review and skipped by
	// the catalog writer.
	Empty bool
}
