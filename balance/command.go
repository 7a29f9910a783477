package balance

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// CommandBackend runs "<tool> -f <journal> bal <account>" and returns its
// standard output. Both hledger and ledger accept this invocation.
type CommandBackend struct {
	Tool    string
	Journal string
}

// NewCommandBackend creates a backend for the given tool and journal file.
func NewCommandBackend(tool, journal string) *CommandBackend {
	return &CommandBackend{Tool: tool, Journal: journal}
}

func (c *CommandBackend) Name() string { return c.Tool }

func (c *CommandBackend) Report(ctx context.Context, account string) (string, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.Tool, "-f", c.Journal, "bal", account)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			msg := strings.TrimSpace(stderr.String())
			if msg == "" {
				msg = exitErr.Error()
			}
			return "", fmt.Errorf("%s exited with status %d: %s", c.Tool, exitErr.ExitCode(), msg)
		}
		return "", fmt.Errorf("%s: %w: %w", c.Tool, ErrUnavailable, err)
	}

	return stdout.String(), nil
}

// CommandBackends builds one CommandBackend per tool, all reading journal.
func CommandBackends(journal string, tools ...string) []Backend {
	backends := make([]Backend, 0, len(tools))
	for _, tool := range tools {
		backends = append(backends, NewCommandBackend(tool, journal))
	}
	return backends
}
