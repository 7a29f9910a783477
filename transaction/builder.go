package transaction

import (
	"time"

	"github.com/robinvdvleuten/ledgertmpl/money"
)

// Builder accumulates the parts of a transaction. Nothing is validated until
// Balance is called, and fields may be set in any order and any number of
// times. A Builder can be balanced repeatedly; each call re-checks the
// current line items from scratch.
type Builder struct {
	date      *time.Time
	desc      *string
	lineItems []LineItem
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// SetDate sets the transaction date. Only the calendar day is kept.
func (b *Builder) SetDate(date time.Time) *Builder {
	d := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	b.date = &d
	return b
}

// SetDesc sets the transaction description.
func (b *Builder) SetDesc(desc string) *Builder {
	b.desc = &desc
	return b
}

// SetLineItems replaces all line items.
func (b *Builder) SetLineItems(items []LineItem) *Builder {
	b.lineItems = append([]LineItem(nil), items...)
	return b
}

// AddLine appends a single line item.
func (b *Builder) AddLine(item LineItem) *Builder {
	b.lineItems = append(b.lineItems, item)
	return b
}

// CurrentRealBalance sums the real postings added so far. A sum outside
// the Cents range is money.ErrOverflow.
func (b *Builder) CurrentRealBalance() (money.Cents, error) {
	return sumWhere(b.lineItems, true)
}

// CurrentVirtualBalance sums the virtual postings added so far.
func (b *Builder) CurrentVirtualBalance() (money.Cents, error) {
	return sumWhere(b.lineItems, false)
}

// Balance validates the builder and returns the finished Transaction. The
// checks run in a fixed order and the first failure is returned as a
// *BalanceError: date, description, at least two line items, virtual sum,
// real sum.
func (b *Builder) Balance() (*Transaction, error) {
	if b.date == nil {
		return nil, &BalanceError{Kind: MissingDate}
	}
	if b.desc == nil {
		return nil, &BalanceError{Kind: MissingDesc}
	}
	if len(b.lineItems) < 2 {
		return nil, &BalanceError{Kind: NotEnoughLineItems}
	}
	virt, err := sumWhere(b.lineItems, false)
	if err != nil {
		return nil, &BalanceError{Kind: DoesNotBalance, Virtual: true, Unknown: true}
	}
	if virt != 0 {
		return nil, &BalanceError{Kind: DoesNotBalance, Amount: virt, Virtual: true}
	}
	realSum, err := sumWhere(b.lineItems, true)
	if err != nil {
		return nil, &BalanceError{Kind: DoesNotBalance, Unknown: true}
	}
	if realSum != 0 {
		return nil, &BalanceError{Kind: DoesNotBalance, Amount: realSum}
	}

	return &Transaction{
		date:      *b.date,
		desc:      *b.desc,
		lineItems: append([]LineItem(nil), b.lineItems...),
	}, nil
}

func sumWhere(items []LineItem, isReal bool) (money.Cents, error) {
	values := make([]money.Cents, 0, len(items))
	for _, item := range items {
		if item.IsReal == isReal {
			values = append(values, item.Value)
		}
	}
	return money.Sum(values...)
}
