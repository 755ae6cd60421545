// Package toml loads the application config file.
package toml

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fwojciec/qbank"
	"github.com/pelletier/go-toml/v2"
)

// Config holds the application configuration.
type Config struct {
	// DBPath is the SQLite database file. ":memory:" is accepted.
	DBPath string `toml:"db_path"`

	// HTTPAddr is the listen address for the JSON surface.
	HTTPAddr string `toml:"http_addr"`

	// RangeBlockSize controls how many numbers a new category
	// reserves beyond its start.
	RangeBlockSize int `toml:"range_block_size"`

	// DefaultDifficulty applies to questions without an explicit
	// difficulty marker.
	DefaultDifficulty string `toml:"default_difficulty"`

	// IngestConcurrency bounds parallel document extraction.
	IngestConcurrency int `toml:"ingest_concurrency"`

	// DocumentTimeout bounds reading a single source document.
	DocumentTimeout Duration `toml:"document_timeout"`

	// RateLimit configures the per-user HTTP rate limiter.
	RateLimit RateLimit `toml:"rate_limit"`
}

// RateLimit configures the per-user token bucket.
type RateLimit struct {
	RPS   float64 `toml:"rps"`
	Burst int     `toml:"burst"`
}

// Duration wraps time.Duration with TOML string parsing ("30s", "1m").
type Duration time.Duration

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the duration as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		DBPath:            defaultDBPath(),
		HTTPAddr:          ":8080",
		RangeBlockSize:    99,
		DefaultDifficulty: string(qbank.DifficultyBeginner),
		IngestConcurrency: 4,
		DocumentTimeout:   Duration(30 * time.Second),
		RateLimit:         RateLimit{RPS: 10, Burst: 20},
	}
}

// Load reads a config file over the defaults. A missing file returns
// the defaults unchanged.
func Load(path string) (*Config, error) {
	config := Default()

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return config, nil
	}
	if err != nil {
		return nil, err
	}

	if err := toml.Unmarshal(raw, config); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return config, nil
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "qbank.db"
	}
	dir := filepath.Join(home, ".qbank")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "qbank.db")
}

// Validate returns an error if the configuration is unusable.
func (c *Config) Validate() error {
	if c.DBPath == "" {
		return qbank.Errorf(qbank.EINVALID, "db_path required")
	}
	if c.RangeBlockSize < 1 {
		return qbank.Errorf(qbank.EINVALID, "range_block_size must be positive")
	}
	if _, err := qbank.ParseDifficulty(c.DefaultDifficulty); err != nil {
		return err
	}
	if c.IngestConcurrency < 1 {
		return qbank.Errorf(qbank.EINVALID, "ingest_concurrency must be positive")
	}
	if c.RateLimit.RPS <= 0 {
		return qbank.Errorf(qbank.EINVALID, "rate_limit.rps must be positive")
	}
	return nil
}
