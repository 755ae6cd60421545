// Package ingest orchestrates the content ingestion pipeline: scanning
// source documents, extracting question candidates in parallel, and
// serializing category resolution, number allocation and catalog
// writes on a single collector goroutine.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"strings"

	"github.com/fwojciec/qbank"
	"github.com/fwojciec/qbank/bloom"
	"github.com/fwojciec/qbank/markdown"
	"golang.org/x/sync/errgroup"
)

// maxAllocAttempts bounds reallocation when a number is lost to a
// concurrent writer between allocation and upsert.
const maxAllocAttempts = 3

// Overrides supplies per-document overrides, typically from a
// manifest at the source root.
type Overrides interface {
	// CategoryFor returns the category override for a document ID.
	CategoryFor(documentID string) (string, bool)

	// PublishedFor returns whether questions newly created from the
	// document should be published. Existing rows keep their state.
	PublishedFor(documentID string) bool
}

// Runner executes one ingestion run.
//
// Per-document parsing runs in parallel; everything that touches the
// shared category-range and number-sequence state happens on the
// collector goroutine, in deterministic document order.
type Runner struct {
	Scanner    qbank.Scanner
	Extractor  *markdown.Extractor
	Categories qbank.CategoryService
	Questions  qbank.QuestionService

	// Overrides is optional; nil means no manifest.
	Overrides Overrides

	// Concurrency limits parallel document extraction. <= 0 means 4.
	Concurrency int

	// DryRun performs extraction and validation but issues no writes.
	DryRun bool

	Logger *slog.Logger
}

// Result holds the outcome of an ingestion run.
type Result struct {
	Parsed    int
	New       int
	Updated   int
	Unchanged int
	Skipped   int
	Failed    int
}

// Fatal reports whether the run hit errors that should fail the
// invocation, as opposed to soft skips.
func (r *Result) Fatal() bool {
	return r.Failed > 0
}

// String formats the operator-facing run summary.
func (r *Result) String() string {
	return fmt.Sprintf("%d parsed, %d new, %d updated, %d unchanged, %d skipped, %d errors",
		r.Parsed, r.New, r.Updated, r.Unchanged, r.Skipped, r.Failed)
}

// ProgressType indicates the type of progress event.
type ProgressType int

// Progress event types.
const (
	ProgressStarted ProgressType = iota
	ProgressRecord
	ProgressSkipped
	ProgressFailed
	ProgressFinished
)

// ProgressEvent reports progress during an ingestion run.
type ProgressEvent struct {
	Type       ProgressType
	DocumentID string
	Title      string
	Outcome    qbank.UpsertOutcome
	Err        error
}

// ProgressFunc is a callback for reporting ingestion progress.
type ProgressFunc func(event ProgressEvent)

// docResult holds the outcome of extracting a single document.
type docResult struct {
	position   int
	documentID string
	candidates []*qbank.Candidate
	err        error
}

// Run executes the pipeline. Per-record failures accumulate in the
// Result and do not abort the batch; the returned error is reserved
// for infrastructure failures (context cancellation, storage errors
// outside a single record).
func (r *Runner) Run(ctx context.Context, progress ProgressFunc) (*Result, error) {
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}
	concurrency := r.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}
	emit := func(event ProgressEvent) {
		if progress != nil {
			progress(event)
		}
	}

	emit(ProgressEvent{Type: ProgressStarted})

	out := make(chan docResult)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	go func() {
		position := 0
		for doc, err := range r.Scanner.Scan(gctx) {
			position++
			pos, doc, err := position, doc, err
			if err != nil {
				out <- docResult{position: pos, documentID: docID(doc), err: err}
				continue
			}
			g.Go(func() error {
				out <- docResult{
					position:   pos,
					documentID: doc.ID,
					candidates: r.Extractor.Extract(doc),
				}
				return nil
			})
		}
		_ = g.Wait()
		close(out)
	}()

	// Collect everything, then restore scan order so that number
	// allocation is deterministic across runs.
	var results []docResult
	for dr := range out {
		results = append(results, dr)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].position < results[j].position })

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	w := &writer{
		runner:     r,
		logger:     logger,
		emit:       emit,
		categories: make(map[string]*qbank.Category),
		written:    make(map[string]bool),
		simUsed:    make(map[string]map[int]bool),
		dbUsed:     make(map[string]map[int]bool),
		titles:     bloom.NewFilter(100_000, 0.001),
		result:     &Result{},
	}
	if r.DryRun {
		w.hashes = r.preloadHashes(ctx, logger)
	}

	for _, dr := range results {
		if dr.err != nil {
			w.result.Skipped++
			logger.Warn("skipping unreadable document", "document", dr.documentID, "err", dr.err)
			emit(ProgressEvent{Type: ProgressSkipped, DocumentID: dr.documentID, Err: dr.err})
			continue
		}
		for _, cand := range dr.candidates {
			w.result.Parsed++
			w.process(ctx, cand)
		}
	}

	emit(ProgressEvent{Type: ProgressFinished})
	return w.result, nil
}

func docID(doc *qbank.SourceDocument) string {
	if doc != nil {
		return doc.ID
	}
	return ""
}

// preloadHashes loads stored content hashes into a bloom filter. A
// negative test against it proves the catalog holds no identical
// content. Nil on failure; callers fall back to exact comparison.
func (r *Runner) preloadHashes(ctx context.Context, logger *slog.Logger) *bloom.Filter {
	hashes, err := r.Questions.ContentHashes(ctx)
	if err != nil {
		logger.Warn("preloading content hashes failed", "err", err)
		return nil
	}
	f := bloom.NewFilter(uint(max(len(hashes), 1024)), 0.001)
	for _, h := range hashes {
		f.Add(h)
	}
	return f
}

// writer holds the serialized allocation and write state for one run.
type writer struct {
	runner     *Runner
	logger     *slog.Logger
	emit       ProgressFunc
	categories map[string]*qbank.Category // lowercased name -> category
	written    map[string]bool            // "categoryID/number" written this run
	simUsed    map[string]map[int]bool    // dry-run allocation shadow
	dbUsed     map[string]map[int]bool    // stored numbers per category, dry-run only
	titles     *bloom.Filter
	hashes     *bloom.Filter // stored content hashes, dry-run only
	result     *Result
}

func (w *writer) process(ctx context.Context, cand *qbank.Candidate) {
	if cand.Empty {
		w.result.Skipped++
		w.logger.Warn("empty question block flagged for review",
			"document", cand.DocumentID, "title", cand.Title)
		w.emit(ProgressEvent{Type: ProgressSkipped, DocumentID: cand.DocumentID, Title: cand.Title,
			Err: qbank.Errorf(qbank.EINVALID, "empty question block")})
		return
	}

	name := cand.CategoryHint
	published := true
	if w.runner.Overrides != nil {
		if override, ok := w.runner.Overrides.CategoryFor(cand.DocumentID); ok {
			name = override
		}
		published = w.runner.Overrides.PublishedFor(cand.DocumentID)
	}
	if name == "" {
		w.result.Skipped++
		w.logger.Warn("no category for question", "document", cand.DocumentID, "title", cand.Title)
		w.emit(ProgressEvent{Type: ProgressSkipped, DocumentID: cand.DocumentID, Title: cand.Title,
			Err: qbank.Errorf(qbank.EINVALID, "no category hint")})
		return
	}

	// Likely-duplicate titles across documents are worth a look but
	// are not an error; a bloom positive may be false.
	titleKey := strings.ToLower(cand.Title)
	if w.titles.Test(titleKey) {
		w.logger.Warn("possible duplicate question title", "document", cand.DocumentID, "title", cand.Title)
	}
	w.titles.Add(titleKey)

	category, err := w.resolveCategory(ctx, name)
	if err != nil {
		w.fail(cand, err)
		return
	}
	if category == nil {
		// Dry run against a category that does not exist yet: every
		// candidate in it would be a fresh insert.
		w.result.New++
		w.emit(ProgressEvent{Type: ProgressRecord, DocumentID: cand.DocumentID, Title: cand.Title,
			Outcome: qbank.UpsertCreated})
		return
	}

	if w.runner.DryRun {
		w.processDry(ctx, cand, category)
		return
	}

	for range maxAllocAttempts {
		number, err := w.runner.Questions.AllocateNumber(ctx, category, cand.NumberHint, cand.Title)
		if err != nil {
			w.fail(cand, err)
			return
		}

		key := fmt.Sprintf("%s/%d", category.ID, number)
		if w.written[key] {
			w.result.Skipped++
			w.logger.Warn("duplicate category+number in run, keeping first occurrence",
				"document", cand.DocumentID, "title", cand.Title,
				"category", category.Name, "number", number)
			w.emit(ProgressEvent{Type: ProgressSkipped, DocumentID: cand.DocumentID, Title: cand.Title,
				Err: qbank.Errorf(qbank.ECONFLICT, "number %d already written this run", number)})
			return
		}

		outcome, err := w.runner.Questions.UpsertQuestion(ctx, &qbank.Question{
			CategoryID:   category.ID,
			Number:       number,
			Title:        cand.Title,
			ContentPlain: cand.ContentPlain,
			ContentHTML:  cand.ContentHTML,
			Difficulty:   cand.Difficulty,
			Tags:         cand.Tags,
			Published:    published,
		})
		if qbank.ErrorCode(err) == qbank.ECONFLICT {
			// Lost the number to a concurrent writer; allocate again.
			continue
		}
		if err != nil {
			w.fail(cand, err)
			return
		}

		w.written[key] = true
		w.tally(outcome)
		w.emit(ProgressEvent{Type: ProgressRecord, DocumentID: cand.DocumentID, Title: cand.Title,
			Outcome: outcome})
		return
	}

	w.fail(cand, qbank.Errorf(qbank.ECONFLICT, "number allocation contention in category %q", category.Name))
}

// processDry classifies a candidate without writing, shadowing
// allocations in memory so counts match what a real run would do.
func (w *writer) processDry(ctx context.Context, cand *qbank.Candidate, category *qbank.Category) {
	number, err := w.runner.Questions.AllocateNumber(ctx, category, cand.NumberHint, cand.Title)
	if err != nil {
		w.fail(cand, err)
		return
	}

	used := w.simUsed[category.ID]
	if used == nil {
		used = make(map[int]bool)
		w.simUsed[category.ID] = used
	}
	if used[number] {
		// An earlier candidate shadow-took this number. A real run
		// would have written that row before this allocation, so scan
		// for the lowest number free in both the catalog and the
		// shadow.
		stored, err := w.occupied(ctx, category.ID)
		if err != nil {
			w.fail(cand, err)
			return
		}
		number = category.RangeStart
		for number <= category.RangeEnd && (used[number] || stored[number]) {
			number++
		}
	}
	if number > category.RangeEnd {
		w.fail(cand, qbank.Errorf(qbank.ECAPACITY, "category %q has no free numbers in range %d-%d",
			category.Name, category.RangeStart, category.RangeEnd))
		return
	}
	used[number] = true

	hash := qbank.HashContent(cand.ContentHTML)
	outcome := qbank.UpsertCreated
	existing, err := w.runner.Questions.FindQuestionByNumber(ctx, category.ID, number)
	if err == nil {
		switch {
		case w.hashes != nil && !w.hashes.Test(hash):
			// The catalog holds no identical content anywhere, so the
			// row cannot be unchanged.
			outcome = qbank.UpsertUpdated
		case existing.ContentHash == hash && existing.Title == cand.Title &&
			existing.Difficulty == cand.Difficulty && slices.Equal(existing.Tags, cand.Tags):
			outcome = qbank.UpsertUnchanged
		default:
			outcome = qbank.UpsertUpdated
		}
	} else if qbank.ErrorCode(err) != qbank.ENOTFOUND {
		w.fail(cand, err)
		return
	}

	w.tally(outcome)
	w.emit(ProgressEvent{Type: ProgressRecord, DocumentID: cand.DocumentID, Title: cand.Title,
		Outcome: outcome})
}

// occupied returns the numbers stored for a category, loaded once per
// run.
func (w *writer) occupied(ctx context.Context, categoryID string) (map[int]bool, error) {
	if used, ok := w.dbUsed[categoryID]; ok {
		return used, nil
	}

	questions, err := w.runner.Questions.FindQuestions(ctx, qbank.QuestionFilter{CategoryID: &categoryID})
	if err != nil {
		return nil, err
	}
	used := make(map[int]bool, len(questions))
	for _, q := range questions {
		used[q.Number] = true
	}
	w.dbUsed[categoryID] = used
	return used, nil
}

// resolveCategory finds or creates the named category, caching per
// run. In dry-run mode a missing category resolves to nil instead of
// being created.
func (w *writer) resolveCategory(ctx context.Context, name string) (*qbank.Category, error) {
	key := strings.ToLower(name)
	if category, ok := w.categories[key]; ok {
		return category, nil
	}

	var category *qbank.Category
	var err error
	if w.runner.DryRun {
		category, err = w.runner.Categories.FindCategoryByName(ctx, name)
		if qbank.ErrorCode(err) == qbank.ENOTFOUND {
			w.categories[key] = nil
			return nil, nil
		}
	} else {
		category, err = w.runner.Categories.ResolveCategory(ctx, name)
	}
	if err != nil {
		return nil, err
	}

	w.categories[key] = category
	return category, nil
}

func (w *writer) tally(outcome qbank.UpsertOutcome) {
	switch outcome {
	case qbank.UpsertCreated:
		w.result.New++
	case qbank.UpsertUpdated:
		w.result.Updated++
	case qbank.UpsertUnchanged:
		w.result.Unchanged++
	}
}

func (w *writer) fail(cand *qbank.Candidate, err error) {
	w.result.Failed++
	w.logger.Error("failed to ingest question",
		"document", cand.DocumentID, "title", cand.Title, "err", err)
	w.emit(ProgressEvent{Type: ProgressFailed, DocumentID: cand.DocumentID, Title: cand.Title, Err: err})
}
