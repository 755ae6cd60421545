package mock

import (
	"context"
	"iter"

	"github.com/fwojciec/qbank"
)

var _ qbank.Scanner = (*Scanner)(nil)

// Scanner is a mock implementation of qbank.Scanner.
type Scanner struct {
	ScanFn func(ctx context.Context) iter.Seq2[*qbank.SourceDocument, error]
}

func (s *Scanner) Scan(ctx context.Context) iter.Seq2[*qbank.SourceDocument, error] {
	return s.ScanFn(ctx)
}

// ScanDocuments builds a ScanFn that yields the given documents in
// order. Handy for tests that do not need error injection.
func ScanDocuments(docs ...*qbank.SourceDocument) func(ctx context.Context) iter.Seq2[*qbank.SourceDocument, error] {
	return func(ctx context.Context) iter.Seq2[*qbank.SourceDocument, error] {
		return func(yield func(*qbank.SourceDocument, error) bool) {
			for _, doc := range docs {
				if !yield(doc, nil) {
					return
				}
			}
		}
	}
}
