package transaction

import (
	"strings"
	"time"

	"github.com/robinvdvleuten/ledgertmpl/money"
)

// DateLayout is the layout of the transaction header date.
const DateLayout = "2006-01-02"

// Transaction is a balanced set of line items with a date and description.
// It can only be obtained from Builder.Balance and is never modified.
//
// Example:
//
//	2024-01-01 Groceries
//	    Assets:Checking  	$-25.50
//	    Expenses:Food  	$25.50
type Transaction struct {
	date      time.Time
	desc      string
	lineItems []LineItem
}

// Date is the transaction date, truncated to the day.
func (t *Transaction) Date() time.Time { return t.date }

// Desc is the transaction description.
func (t *Transaction) Desc() string { return t.desc }

// LineItems returns a copy of the line items in the order they were added.
func (t *Transaction) LineItems() []LineItem {
	return append([]LineItem(nil), t.lineItems...)
}

// RealBalance is the sum of the real postings, which is always zero.
func (t *Transaction) RealBalance() money.Cents {
	total, _ := sumWhere(t.lineItems, true)
	return total
}

// VirtualBalance is the sum of the virtual postings, which is always zero.
func (t *Transaction) VirtualBalance() money.Cents {
	total, _ := sumWhere(t.lineItems, false)
	return total
}

// String renders the header line followed by one indented line per item.
func (t *Transaction) String() string {
	var buf strings.Builder
	buf.WriteString(t.date.Format(DateLayout))
	buf.WriteByte(' ')
	buf.WriteString(t.desc)
	for _, item := range t.lineItems {
		buf.WriteString("\n    ")
		buf.WriteString(item.String())
	}
	return buf.String()
}
