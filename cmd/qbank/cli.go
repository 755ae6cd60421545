package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/qbank"
	"github.com/fwojciec/qbank/sqlite"
	"github.com/fwojciec/qbank/toml"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx          context.Context
	Stdout       io.Writer
	Stderr       io.Writer
	DB           *sqlite.DB
	Config       *toml.Config
	Logger       *slog.Logger
	Categories   qbank.CategoryService
	Questions    qbank.QuestionService
	Interactions qbank.InteractionService
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool `short:"v" help:"Enable debug logging"`

	Ingest  IngestCmd  `cmd:"" help:"Ingest source documents into the catalog"`
	Serve   ServeCmd   `cmd:"" help:"Serve the catalog's JSON API"`
	List    ListCmd    `cmd:"" help:"List categories and their number ranges"`
	Publish PublishCmd `cmd:"" help:"Publish or unpublish a question"`
}

// IngestCmd is the "ingest" subcommand.
type IngestCmd struct {
	Root        string   `arg:"" help:"Source root directory"`
	DryRun      bool     `help:"Report what would change without writing"`
	Manifest    string   `help:"Manifest path (default ROOT/manifest.xml)"`
	Concurrency int      `short:"c" help:"Concurrent document parse limit"`
	Category    string   `help:"Force a category for all documents"`
	Only        []string `help:"Restrict to specific document IDs (repeatable)"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr string `help:"Listen address (default from config)"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct {
	Questions bool `short:"q" help:"List questions under each category"`
}

// PublishCmd is the "publish" subcommand.
type PublishCmd struct {
	Category  string `arg:"" help:"Category name"`
	Number    int    `arg:"" help:"Question number within the category"`
	Unpublish bool   `help:"Hide the question instead"`
}
