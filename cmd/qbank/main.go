package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/qbank"
	qbankslog "github.com/fwojciec/qbank/slog"
	"github.com/fwojciec/qbank/sqlite"
	"github.com/fwojciec/qbank/toml"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Config file path. Set before calling Run().
	ConfigPath string

	// Database path. Overrides the config file when set.
	DBPath string

	// Loaded configuration.
	Config *toml.Config

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing.
	CategoryService    qbank.CategoryService
	QuestionService    qbank.QuestionService
	InteractionService qbank.InteractionService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		ConfigPath: defaultConfigPath(),
		DBPath:     os.Getenv("QBANK_DB"),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("qbank"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'qbank --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	config, err := toml.Load(m.ConfigPath)
	if err != nil {
		return err
	}
	if m.DBPath != "" {
		config.DBPath = m.DBPath
	}
	m.Config = config
	deps.Config = config

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	m.DB = sqlite.NewDB(config.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set QBANK_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", config.DBPath, err)
	}
	defer m.Close()

	m.CategoryService = sqlite.NewCategoryService(m.DB, config.RangeBlockSize)
	m.QuestionService = sqlite.NewQuestionService(m.DB)
	m.InteractionService = qbankslog.NewLoggingInteractionService(
		sqlite.NewInteractionService(m.DB), deps.Logger)

	deps.DB = m.DB
	deps.Categories = m.CategoryService
	deps.Questions = m.QuestionService
	deps.Interactions = m.InteractionService

	return kongCtx.Run(deps)
}

func defaultConfigPath() string {
	if path := os.Getenv("QBANK_CONFIG"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "qbank.toml"
	}
	return filepath.Join(home, ".qbank", "qbank.toml")
}
