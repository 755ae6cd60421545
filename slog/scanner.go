// Package slog provides logging decorators for the service interfaces.
package slog

import (
	"context"
	"iter"
	"log/slog"
	"time"

	"github.com/fwojciec/qbank"
)

// Ensure LoggingScanner implements qbank.Scanner.
var _ qbank.Scanner = (*LoggingScanner)(nil)

// LoggingScanner wraps a Scanner with debug logging.
type LoggingScanner struct {
	next   qbank.Scanner
	logger *slog.Logger
}

// NewLoggingScanner creates a new LoggingScanner.
func NewLoggingScanner(next qbank.Scanner, logger *slog.Logger) *LoggingScanner {
	return &LoggingScanner{next: next, logger: logger}
}

// Scan delegates to the wrapped scanner and logs per-document reads
// and the scan total.
func (s *LoggingScanner) Scan(ctx context.Context) iter.Seq2[*qbank.SourceDocument, error] {
	return func(yield func(*qbank.SourceDocument, error) bool) {
		begin := time.Now()
		var count, failed int
		for doc, err := range s.next.Scan(ctx) {
			if err != nil {
				failed++
				s.logger.Debug("document read failed", "document", docID(doc), "err", err)
			} else {
				count++
				s.logger.Debug("document read", "document", doc.ID, "bytes", len(doc.Text))
			}
			if !yield(doc, err) {
				return
			}
		}
		s.logger.Info("scan finished",
			"documents", count,
			"failed", failed,
			"duration", time.Since(begin),
		)
	}
}

func docID(doc *qbank.SourceDocument) string {
	if doc != nil {
		return doc.ID
	}
	return ""
}
