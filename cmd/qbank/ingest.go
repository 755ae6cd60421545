package main

import (
	"fmt"
	"path/filepath"

	"github.com/fwojciec/qbank"
	"github.com/fwojciec/qbank/etree"
	"github.com/fwojciec/qbank/fs"
	"github.com/fwojciec/qbank/htmlsource"
	"github.com/fwojciec/qbank/ingest"
	"github.com/fwojciec/qbank/markdown"
	qbankslog "github.com/fwojciec/qbank/slog"
)

// Run executes the ingest command.
func (c *IngestCmd) Run(deps *Dependencies) error {
	scanner := fs.NewScanner(c.Root, htmlsource.NewConverter())
	scanner.Timeout = deps.Config.DocumentTimeout.Std()
	if len(c.Only) > 0 {
		scanner.Only(c.Only...)
	}

	overrides, err := c.loadOverrides()
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}

	concurrency := c.Concurrency
	if concurrency <= 0 {
		concurrency = deps.Config.IngestConcurrency
	}

	runner := &ingest.Runner{
		Scanner:     qbankslog.NewLoggingScanner(scanner, deps.Logger),
		Extractor:   markdown.NewExtractor(qbank.Difficulty(deps.Config.DefaultDifficulty)),
		Categories:  deps.Categories,
		Questions:   deps.Questions,
		Overrides:   overrides,
		Concurrency: concurrency,
		DryRun:      c.DryRun,
		Logger:      deps.Logger,
	}

	progress := func(event ingest.ProgressEvent) {
		switch event.Type {
		case ingest.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "  fail %s: %s: %v\n", event.DocumentID, event.Title, event.Err)
		case ingest.ProgressSkipped:
			fmt.Fprintf(deps.Stderr, "  skip %s: %s: %v\n", event.DocumentID, event.Title, event.Err)
		}
	}

	result, err := runner.Run(deps.Ctx, progress)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}

	if c.DryRun {
		fmt.Fprintf(deps.Stdout, "(dry run) %s\n", result)
	} else {
		fmt.Fprintln(deps.Stdout, result)
	}

	if result.Fatal() {
		return fmt.Errorf("ingestion finished with %d errors", result.Failed)
	}
	return nil
}

// loadOverrides combines the manifest with the --category flag. The
// flag wins for every document.
func (c *IngestCmd) loadOverrides() (ingest.Overrides, error) {
	path := c.Manifest
	if path == "" {
		path = filepath.Join(c.Root, "manifest.xml")
	}

	manifest, err := etree.Load(path)
	if err != nil {
		return nil, err
	}

	if c.Category == "" && manifest == nil {
		return nil, nil
	}
	return &overrideChain{category: c.Category, manifest: manifest}, nil
}

// overrideChain layers the --category flag over the manifest.
type overrideChain struct {
	category string
	manifest *etree.Manifest
}

func (o *overrideChain) CategoryFor(documentID string) (string, bool) {
	if o.category != "" {
		return o.category, true
	}
	if o.manifest != nil {
		return o.manifest.CategoryFor(documentID)
	}
	return "", false
}

func (o *overrideChain) PublishedFor(documentID string) bool {
	if o.manifest != nil {
		return o.manifest.PublishedFor(documentID)
	}
	return true
}
