// Package transaction implements the line item grammar, the default/override
// merge, and the builder that turns line items into a balanced transaction.
//
// A line item is written as an account and an amount separated by two
// spaces. Virtual postings wrap the account in square brackets:
//
//	Assets:Checking  $100.00
//	[Budget:Food]  $-25.50
package transaction

import (
	"fmt"
	"strings"

	"github.com/robinvdvleuten/ledgertmpl/money"
)

// Separator divides the account from the amount in a line item.
const Separator = "  "

// LineItem is a single posting of a transaction.
type LineItem struct {
	Account string
	Value   money.Cents
	// IsReal is false for virtual postings, which are tracked in their own
	// sub-ledger and written with brackets around the account.
	IsReal bool
}

// ParseLineItem parses a line of rendered template text. The amount is read
// as a decimal and rounded to the nearest cent, so "$12.345" becomes 1235.
func ParseLineItem(line string) (LineItem, error) {
	return parseLineItem(line, money.ParseDecimal)
}

// ParseLineItemCents parses a line whose amount is an integer number of
// cents, as written by LineItem.CentsString.
func ParseLineItemCents(line string) (LineItem, error) {
	return parseLineItem(line, money.ParseInt)
}

func parseLineItem(line string, parseAmount func(string) (money.Cents, error)) (LineItem, error) {
	fail := func(kind ParseErrorKind) (LineItem, error) {
		return LineItem{}, &ParseError{Kind: kind, Text: line}
	}

	// The account is the first segment and the amount is the last one, so
	// extra separators between them act as padding. Indentation around the
	// whole line is ignored.
	parts := strings.Split(strings.TrimSpace(line), Separator)
	if len(parts) < 2 {
		return fail(MissingValue)
	}
	lhs := strings.TrimSpace(parts[0])
	rhs := strings.TrimSpace(parts[len(parts)-1])

	if lhs == "" {
		return fail(MissingAccount)
	}

	opens := strings.HasPrefix(lhs, "[")
	closes := strings.HasSuffix(lhs, "]")

	item := LineItem{IsReal: true, Account: lhs}
	switch {
	case opens && closes && len(lhs) >= 2:
		item.IsReal = false
		item.Account = lhs[1 : len(lhs)-1]
		if strings.TrimSpace(item.Account) == "" {
			return fail(MissingAccount)
		}
	case opens || closes:
		return fail(MissingIsReal)
	}

	amount := strings.TrimSpace(strings.ReplaceAll(rhs, "$", ""))
	if amount == "" {
		return fail(MissingValue)
	}
	value, err := parseAmount(amount)
	if err != nil {
		return fail(MissingValue)
	}
	item.Value = value

	return item, nil
}

// Name returns the account as written, with brackets for virtual postings.
func (l LineItem) Name() string {
	if l.IsReal {
		return l.Account
	}
	return "[" + l.Account + "]"
}

// String formats the line item with a two-decimal currency amount.
func (l LineItem) String() string {
	return fmt.Sprintf("%s%s\t$%s", l.Name(), Separator, l.Value)
}

// CentsString formats the line item with the amount as integer cents.
// ParseLineItemCents reads it back exactly.
func (l LineItem) CentsString() string {
	return fmt.Sprintf("%s%s\t$%s", l.Name(), Separator, l.Value.Raw())
}

// LineItemBuilder assembles a LineItem field by field and reports the first
// field that was never set.
type LineItemBuilder struct {
	account *string
	value   *money.Cents
	isReal  *bool
}

// NewLineItem starts an empty LineItemBuilder.
func NewLineItem() *LineItemBuilder {
	return &LineItemBuilder{}
}

// Account sets the account name, without brackets.
func (b *LineItemBuilder) Account(name string) *LineItemBuilder {
	b.account = &name
	return b
}

// Value sets the amount.
func (b *LineItemBuilder) Value(v money.Cents) *LineItemBuilder {
	b.value = &v
	return b
}

// Real marks the item as a real (true) or virtual (false) posting.
func (b *LineItemBuilder) Real(isReal bool) *LineItemBuilder {
	b.isReal = &isReal
	return b
}

// Build returns the LineItem or a *ParseError naming the missing field.
func (b *LineItemBuilder) Build() (LineItem, error) {
	switch {
	case b.account == nil || *b.account == "":
		return LineItem{}, &ParseError{Kind: MissingAccount}
	case b.value == nil:
		return LineItem{}, &ParseError{Kind: MissingValue}
	case b.isReal == nil:
		return LineItem{}, &ParseError{Kind: MissingIsReal}
	}
	return LineItem{Account: *b.account, Value: *b.value, IsReal: *b.isReal}, nil
}
