package template

import (
	"errors"
	"strings"

	"github.com/robinvdvleuten/ledgertmpl/transaction"
)

type parseOptions struct {
	strictBlankLines bool
	parse            func(string) (transaction.LineItem, error)
}

// ParseOption configures ParseLineItems.
type ParseOption func(*parseOptions)

// WithStrictBlankLines makes blank lines a MissingValue error instead of
// skipping them.
func WithStrictBlankLines() ParseOption {
	return func(o *parseOptions) {
		o.strictBlankLines = true
	}
}

// WithCents reads amounts as integer cents instead of decimals.
func WithCents() ParseOption {
	return func(o *parseOptions) {
		o.parse = transaction.ParseLineItemCents
	}
}

// ParseLineItems parses one line item per line of text. Parsing stops at the
// first bad line; the returned *transaction.ParseError carries its 1-based
// line number.
func ParseLineItems(text string, opts ...ParseOption) ([]transaction.LineItem, error) {
	o := &parseOptions{parse: transaction.ParseLineItem}
	for _, opt := range opts {
		opt(o)
	}

	var items []transaction.LineItem
	for i, line := range splitLines(text) {
		if strings.TrimSpace(line) == "" && !o.strictBlankLines {
			continue
		}

		item, err := o.parse(line)
		if err != nil {
			var perr *transaction.ParseError
			if errors.As(err, &perr) {
				perr.Line = i + 1
			}
			return nil, err
		}
		items = append(items, item)
	}

	return items, nil
}

// splitLines splits on "\n" and "\r\n". A final line terminator does not
// start another line.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
