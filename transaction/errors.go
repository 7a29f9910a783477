package transaction

import (
	"fmt"

	"github.com/robinvdvleuten/ledgertmpl/money"
)

// ParseErrorKind classifies a line item grammar failure.
type ParseErrorKind int

const (
	MissingAccount ParseErrorKind = iota + 1
	MissingValue
	MissingIsReal
)

func (k ParseErrorKind) String() string {
	switch k {
	case MissingAccount:
		return "MissingAccount"
	case MissingValue:
		return "MissingValue"
	case MissingIsReal:
		return "MissingIsReal"
	default:
		return fmt.Sprintf("ParseErrorKind(%d)", int(k))
	}
}

// Sentinels for errors.Is matching against a *ParseError of the same kind.
var (
	ErrMissingAccount = &ParseError{Kind: MissingAccount}
	ErrMissingValue   = &ParseError{Kind: MissingValue}
	ErrMissingIsReal  = &ParseError{Kind: MissingIsReal}
)

// ParseError is returned when a line cannot be read as a line item.
type ParseError struct {
	Kind ParseErrorKind
	Line int    // 1-based line in the rendered text, 0 if unknown
	Text string // offending line, as given
}

func (e *ParseError) Error() string {
	msg := describeParseKind(e.Kind)
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s: %q", e.Line, msg, e.Text)
	}
	if e.Text != "" {
		return fmt.Sprintf("%s: %q", msg, e.Text)
	}
	return msg
}

// Is reports whether target is a *ParseError of the same kind.
func (e *ParseError) Is(target error) bool {
	t, ok := target.(*ParseError)
	return ok && t.Kind == e.Kind
}

// GetLine returns the 1-based line the error was found on.
func (e *ParseError) GetLine() int {
	return e.Line
}

func describeParseKind(k ParseErrorKind) string {
	switch k {
	case MissingAccount:
		return "line item is missing an account"
	case MissingValue:
		return "line item is missing a value"
	case MissingIsReal:
		return "line item has unbalanced brackets around its account"
	default:
		return k.String()
	}
}

// BalanceErrorKind classifies a failure to finalize a transaction.
type BalanceErrorKind int

const (
	MissingDate BalanceErrorKind = iota + 1
	MissingDesc
	NotEnoughLineItems
	DoesNotBalance
)

func (k BalanceErrorKind) String() string {
	switch k {
	case MissingDate:
		return "MissingDate"
	case MissingDesc:
		return "MissingDesc"
	case NotEnoughLineItems:
		return "NotEnoughLineItems"
	case DoesNotBalance:
		return "DoesNotBalance"
	default:
		return fmt.Sprintf("BalanceErrorKind(%d)", int(k))
	}
}

var (
	ErrMissingDate        = &BalanceError{Kind: MissingDate}
	ErrMissingDesc        = &BalanceError{Kind: MissingDesc}
	ErrNotEnoughLineItems = &BalanceError{Kind: NotEnoughLineItems}
	ErrDoesNotBalance     = &BalanceError{Kind: DoesNotBalance}
)

// BalanceError is returned when a Builder cannot produce a Transaction.
type BalanceError struct {
	Kind BalanceErrorKind
	// Amount is the residual that failed to cancel (DoesNotBalance only).
	Amount money.Cents
	// Virtual is set when the residual belongs to the virtual sub-ledger.
	Virtual bool
	// Unknown is set when the residual could not be computed.
	Unknown bool
}

func (e *BalanceError) Error() string {
	switch e.Kind {
	case MissingDate:
		return "transaction is missing a date"
	case MissingDesc:
		return "transaction is missing a description"
	case NotEnoughLineItems:
		return "transaction needs at least 2 line items"
	case DoesNotBalance:
		if e.Unknown {
			return "transaction does not balance (residual unknown)"
		}
		ledger := "real"
		if e.Virtual {
			ledger = "virtual"
		}
		return fmt.Sprintf("transaction does not balance: %s postings are off by $%s", ledger, e.Amount)
	default:
		return e.Kind.String()
	}
}

// Is reports whether target is a *BalanceError of the same kind.
func (e *BalanceError) Is(target error) bool {
	t, ok := target.(*BalanceError)
	return ok && t.Kind == e.Kind
}
