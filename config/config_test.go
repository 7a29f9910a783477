package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func envMap(m map[string]string) func(string) string {
	return func(key string) string {
		return m[key]
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	empty := writeFile(t, dir, "empty.yaml", "")
	noEnv := writeFile(t, dir, "empty.env", "")

	tests := []struct {
		name        string
		file        string
		env         map[string]string
		wantErr     bool
		checkConfig func(t *testing.T, cfg *Config)
	}{
		{
			name: "defaults",
			file: empty,
			checkConfig: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "", cfg.Journal)
				assert.Equal(t, []string{"hledger", "ledger"}, cfg.Backends)
				assert.False(t, cfg.StrictBlankLines)
				assert.Equal(t, "2006-01-02", cfg.DateFormat)
			},
		},
		{
			name: "yaml file",
			file: writeFile(t, dir, "full.yaml", "journal: /books/main.ledger\nbackends: [ledger]\nstrict_blank_lines: true\ndate_format: 02/01/2006\n"),
			checkConfig: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "/books/main.ledger", cfg.Journal)
				assert.Equal(t, []string{"ledger"}, cfg.Backends)
				assert.True(t, cfg.StrictBlankLines)
				assert.Equal(t, "02/01/2006", cfg.DateFormat)
			},
		},
		{
			name: "relative journal resolved against config file",
			file: writeFile(t, dir, "relative.yaml", "journal: books/main.ledger\n"),
			checkConfig: func(t *testing.T, cfg *Config) {
				assert.Equal(t, filepath.Join(dir, "books", "main.ledger"), cfg.Journal)
			},
		},
		{
			name: "environment overrides file",
			file: writeFile(t, dir, "env.yaml", "journal: /books/main.ledger\nbackends: [ledger]\n"),
			env: map[string]string{
				EnvJournal:          "/other.ledger",
				EnvBackends:         " hledger-web , ,ledger",
				EnvStrictBlankLines: "1",
			},
			checkConfig: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "/other.ledger", cfg.Journal)
				assert.Equal(t, []string{"hledger-web", "ledger"}, cfg.Backends)
				assert.True(t, cfg.StrictBlankLines)
			},
		},
		{
			name:    "invalid yaml",
			file:    writeFile(t, dir, "bad.yaml", "backends: [unterminated\n"),
			wantErr: true,
		},
		{
			name:    "invalid bool",
			file:    empty,
			env:     map[string]string{EnvStrictBlankLines: "sometimes"},
			wantErr: true,
		},
		{
			name:    "missing explicit file",
			file:    filepath.Join(dir, "missing.yaml"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(WithFile(tt.file), WithEnvFile(noEnv), WithGetenv(envMap(tt.env)))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			tt.checkConfig(t, cfg)
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := writeFile(t, dir, ".env", "LEDGERTMPL_TEST_JOURNAL_FROM_DOTENV=/from/dotenv.ledger\n")
	t.Cleanup(func() { _ = os.Unsetenv("LEDGERTMPL_TEST_JOURNAL_FROM_DOTENV") })

	_, err := Load(WithFile(writeFile(t, dir, "c.yaml", "")), WithEnvFile(envFile))
	assert.NoError(t, err)
	assert.Equal(t, "/from/dotenv.ledger", os.Getenv("LEDGERTMPL_TEST_JOURNAL_FROM_DOTENV"))

	_, err = Load(WithFile(writeFile(t, dir, "d.yaml", "")), WithEnvFile(filepath.Join(dir, "missing.env")))
	assert.Error(t, err)
}

func TestRequireJournal(t *testing.T) {
	cfg := New()
	_, err := cfg.RequireJournal()
	assert.True(t, errors.Is(err, ErrNoJournal))

	cfg.Journal = "main.ledger"
	got, err := cfg.RequireJournal()
	assert.NoError(t, err)
	assert.Equal(t, "main.ledger", got)
}

func TestContext(t *testing.T) {
	cfg := New()
	cfg.Journal = "ctx.ledger"

	ctx := cfg.WithContext(context.Background())
	assert.Equal(t, cfg, FromContext(ctx))
	assert.Equal(t, New(), FromContext(context.Background()))
}
