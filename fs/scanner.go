// Package fs reads source documents from a directory tree.
package fs

import (
	"context"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fwojciec/qbank"
)

// Extensions recognized as source documents.
var sourceExtensions = map[string]bool{
	".md":       true,
	".markdown": true,
	".txt":      true,
	".html":     true,
}

// Ensure Scanner implements qbank.Scanner at compile time.
var _ qbank.Scanner = (*Scanner)(nil)

// Scanner walks a root directory and yields one source document per
// recognized file. The walk order is sorted by relative path, so a
// scan of an unchanged tree is deterministic.
type Scanner struct {
	root string

	// converter turns HTML files into parser-ready text. Nil means
	// HTML files are skipped.
	converter qbank.Converter

	// only restricts the scan to the given document IDs. Empty means
	// everything.
	only map[string]bool

	// Timeout bounds reading a single document. Zero means no limit.
	// Source roots may sit on network mounts where a single stuck
	// file would otherwise stall the whole scan.
	Timeout time.Duration
}

// NewScanner creates a Scanner over the given root directory.
func NewScanner(root string, converter qbank.Converter) *Scanner {
	return &Scanner{root: root, converter: converter}
}

// Only restricts subsequent scans to the given document IDs
// (root-relative paths).
func (s *Scanner) Only(ids ...string) {
	s.only = make(map[string]bool, len(ids))
	for _, id := range ids {
		s.only[filepath.ToSlash(id)] = true
	}
}

// Scan yields documents under the root. An unreadable file yields a
// non-nil error alongside a document carrying its ID; the sequence
// continues afterwards. The sequence is restartable: ranging again
// re-reads the tree.
func (s *Scanner) Scan(ctx context.Context) iter.Seq2[*qbank.SourceDocument, error] {
	return func(yield func(*qbank.SourceDocument, error) bool) {
		paths, err := s.collect()
		if err != nil {
			yield(&qbank.SourceDocument{ID: s.root}, err)
			return
		}

		for _, rel := range paths {
			if err := ctx.Err(); err != nil {
				yield(&qbank.SourceDocument{ID: rel}, err)
				return
			}
			if !yield(s.read(ctx, rel)) {
				return
			}
		}
	}
}

// collect walks the tree and returns the sorted relative paths of
// recognized files.
func (s *Scanner) collect() ([]string, error) {
	var paths []string
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != s.root {
				return filepath.SkipDir
			}
			return nil
		}
		if !sourceExtensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}

		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if len(s.only) > 0 && !s.only[rel] {
			return nil
		}
		paths = append(paths, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(paths)
	return paths, nil
}

// read loads one document. The category hint is the name of the
// file's parent directory; files directly under the root carry no
// hint and rely on in-document cues or the manifest.
func (s *Scanner) read(ctx context.Context, rel string) (*qbank.SourceDocument, error) {
	doc := &qbank.SourceDocument{
		ID:           rel,
		Path:         filepath.Join(s.root, filepath.FromSlash(rel)),
		CategoryHint: categoryHint(rel),
	}

	raw, err := s.readFile(ctx, doc.Path)
	if err != nil {
		return doc, err
	}
	text := string(raw)

	if strings.ToLower(filepath.Ext(rel)) == ".html" {
		if s.converter == nil {
			return doc, qbank.Errorf(qbank.EINVALID, "no converter configured for %q", rel)
		}
		text, err = s.converter.Convert(text)
		if err != nil {
			return doc, err
		}
	}

	doc.Text = text
	return doc, nil
}

// readFile reads one file, bounded by the scanner timeout. The read
// itself cannot be interrupted, so a timed-out read is abandoned to
// its goroutine and the scan moves on.
func (s *Scanner) readFile(ctx context.Context, path string) ([]byte, error) {
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	type result struct {
		raw []byte
		err error
	}
	ch := make(chan result, 1)
	go func() {
		raw, err := os.ReadFile(path)
		ch <- result{raw: raw, err: err}
	}()

	select {
	case r := <-ch:
		return r.raw, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func categoryHint(rel string) string {
	dir := filepath.ToSlash(filepath.Dir(rel))
	if dir == "." {
		return ""
	}
	parts := strings.Split(dir, "/")
	return parts[len(parts)-1]
}
