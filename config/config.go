// Package config resolves ledgertmpl settings from a YAML config file, a
// .env file and the process environment, in increasing order of precedence.
// Command-line flags are applied on top by the cli package.
package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables read by Load.
const (
	EnvJournal          = "LEDGER_FILE"
	EnvBackends         = "LEDGERTMPL_BACKENDS"
	EnvStrictBlankLines = "LEDGERTMPL_STRICT_BLANK_LINES"
)

// DefaultBackends are the balance tools tried when none are configured.
var DefaultBackends = []string{"hledger", "ledger"}

// Config holds the resolved settings.
type Config struct {
	// Journal is the ledger file balances are read from and transactions
	// are appended to.
	Journal string `yaml:"journal"`
	// Backends lists balance tools in the order they are tried.
	Backends []string `yaml:"backends"`
	// StrictBlankLines rejects blank lines in rendered templates instead of
	// skipping them.
	StrictBlankLines bool `yaml:"strict_blank_lines"`
	// DateFormat is the layout used to read --date.
	DateFormat string `yaml:"date_format"`
}

// New returns a Config with defaults.
func New() *Config {
	return &Config{
		Backends:   append([]string(nil), DefaultBackends...),
		DateFormat: "2006-01-02",
	}
}

// Option configures Load.
type Option func(*loadOptions)

type loadOptions struct {
	file    string
	envFile string
	getenv  func(string) string
}

// WithFile reads settings from a YAML file. The file must exist.
func WithFile(path string) Option {
	return func(o *loadOptions) {
		o.file = path
	}
}

// WithEnvFile loads a .env file from path instead of the working directory.
// The file must exist.
func WithEnvFile(path string) Option {
	return func(o *loadOptions) {
		o.envFile = path
	}
}

// WithGetenv replaces os.Getenv, for tests.
func WithGetenv(getenv func(string) string) Option {
	return func(o *loadOptions) {
		o.getenv = getenv
	}
}

// Load resolves the configuration. Without WithFile, the default config file
// is read if present; without WithEnvFile, ./.env is loaded if present.
func Load(opts ...Option) (*Config, error) {
	o := &loadOptions{getenv: os.Getenv}
	for _, opt := range opts {
		opt(o)
	}

	cfg := New()

	if o.file != "" {
		if err := cfg.readFile(o.file); err != nil {
			return nil, err
		}
	} else if path := DefaultFile(); path != "" {
		if err := cfg.readFile(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	// godotenv never overrides variables that are already set.
	if o.envFile != "" {
		if err := godotenv.Load(o.envFile); err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	} else {
		_ = godotenv.Load()
	}

	if err := cfg.applyEnv(o.getenv); err != nil {
		return nil, err
	}

	return cfg, nil
}

// DefaultFile returns the path of the default config file, or "" when no
// user config directory can be determined.
func DefaultFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "ledgertmpl", "config.yaml")
}

func (c *Config) readFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("invalid config file %s: %w", path, err)
	}
	if c.Journal != "" && !filepath.IsAbs(c.Journal) {
		c.Journal = filepath.Join(filepath.Dir(path), c.Journal)
	}
	return nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	if v := getenv(EnvJournal); v != "" {
		c.Journal = v
	}

	if v := getenv(EnvBackends); v != "" {
		var backends []string
		for _, b := range strings.Split(v, ",") {
			if b = strings.TrimSpace(b); b != "" {
				backends = append(backends, b)
			}
		}
		c.Backends = backends
	}

	if v := getenv(EnvStrictBlankLines); v != "" {
		strict, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvStrictBlankLines, v, err)
		}
		c.StrictBlankLines = strict
	}

	return nil
}

// ErrNoJournal is returned by RequireJournal when no journal is configured.
var ErrNoJournal = fmt.Errorf("no journal file configured: pass --journal or set %s", EnvJournal)

// RequireJournal returns the journal path or ErrNoJournal.
func (c *Config) RequireJournal() (string, error) {
	if c.Journal == "" {
		return "", ErrNoJournal
	}
	return c.Journal, nil
}

// contextKey is a private type to avoid key collisions in context.
type contextKey struct{}

// WithContext returns a new context with the Config attached.
func (c *Config) WithContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, c)
}

// FromContext retrieves the Config from context.
// Returns a default Config if not found.
func FromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(contextKey{}).(*Config); ok {
		return cfg
	}
	return New()
}
