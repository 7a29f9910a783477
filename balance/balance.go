// Package balance looks up account balances from an external ledger tool and
// substitutes them into template text.
//
// Backends are tried in order. A backend whose tool cannot be started is
// skipped in favour of the next one, so a machine with only ledger installed
// still works when hledger is listed first:
//
//	lookup := balance.NewLookup(
//		balance.NewCommandBackend("hledger", journal),
//		balance.NewCommandBackend("ledger", journal),
//	)
//	cents, err := lookup.Balance(ctx, "Assets:Checking")
package balance

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/robinvdvleuten/ledgertmpl/money"
)

// Backend returns the raw report text for a single account.
type Backend interface {
	Name() string
	Report(ctx context.Context, account string) (string, error)
}

// Func adapts a plain function to a Backend.
type Func func(ctx context.Context, account string) (string, error)

func (f Func) Name() string { return "func" }

func (f Func) Report(ctx context.Context, account string) (string, error) {
	return f(ctx, account)
}

// ErrUnavailable marks a backend that could not be invoked at all. Lookup
// falls through to the next backend only for errors wrapping it.
var ErrUnavailable = errors.New("balance backend unavailable")

// Lookup resolves account balances to cents, caching each account it has
// already resolved.
type Lookup struct {
	backends []Backend

	mu    sync.Mutex
	cache map[string]money.Cents
}

// NewLookup creates a Lookup that tries backends in the given order.
func NewLookup(backends ...Backend) *Lookup {
	return &Lookup{
		backends: backends,
		cache:    make(map[string]money.Cents),
	}
}

// Balance returns the balance of account in cents.
func (l *Lookup) Balance(ctx context.Context, account string) (money.Cents, error) {
	l.mu.Lock()
	if v, ok := l.cache[account]; ok {
		l.mu.Unlock()
		return v, nil
	}
	l.mu.Unlock()

	report, err := l.report(ctx, account)
	if err != nil {
		return 0, err
	}

	v, err := ParseReport(report)
	if err != nil {
		return 0, fmt.Errorf("could not parse balance for account %s: %w", account, err)
	}

	l.mu.Lock()
	l.cache[account] = v
	l.mu.Unlock()

	return v, nil
}

func (l *Lookup) report(ctx context.Context, account string) (string, error) {
	if len(l.backends) == 0 {
		return "", fmt.Errorf("no balance backends configured: %w", ErrUnavailable)
	}

	var tried []string
	var lastErr error
	for _, b := range l.backends {
		out, err := b.Report(ctx, account)
		if err == nil {
			return out, nil
		}
		if !errors.Is(err, ErrUnavailable) {
			return "", fmt.Errorf("%s bal %s: %w", b.Name(), account, err)
		}
		log.Debug("balance backend unavailable, trying next", "backend", b.Name(), "err", err)
		tried = append(tried, b.Name())
		lastErr = err
	}

	return "", fmt.Errorf("failed to execute %s. Are they installed?: %w", strings.Join(tried, " and "), lastErr)
}

// ParseReport extracts the amount from the last non-empty line of a balance
// report. Everything except digits, '-' and '.' is dropped, so "$1,234.56"
// reads as 123456 cents.
func ParseReport(report string) (money.Cents, error) {
	lines := strings.Split(strings.TrimRight(report, "\r\n\t "), "\n")
	last := strings.TrimSpace(lines[len(lines)-1])
	if last == "" {
		return 0, errors.New("empty balance report")
	}

	numeric := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '-' || r == '.' {
			return r
		}
		return -1
	}, last)
	if numeric == "" {
		return 0, fmt.Errorf("no amount in %q", last)
	}

	return money.ParseDecimal(numeric)
}
