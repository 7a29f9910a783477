package transaction

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
	"github.com/robinvdvleuten/ledgertmpl/money"
)

var testDate = time.Date(2024, time.January, 1, 15, 30, 0, 0, time.UTC)

func balancedItems() []LineItem {
	return []LineItem{
		realItem("A", 100),
		realItem("B", -100),
		virtualItem("V1", 50),
		virtualItem("V2", -50),
	}
}

func TestBuilderBalance(t *testing.T) {
	txn, err := NewBuilder().
		SetDate(testDate).
		SetDesc("test").
		SetLineItems(balancedItems()).
		Balance()
	assert.NoError(t, err)

	assert.Equal(t, money.Cents(0), txn.RealBalance())
	assert.Equal(t, money.Cents(0), txn.VirtualBalance())
	assert.Equal(t, "test", txn.Desc())
	assert.Equal(t, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), txn.Date())
	assert.Equal(t, balancedItems(), txn.LineItems())
}

func TestBuilderErrors(t *testing.T) {
	tests := []struct {
		name    string
		builder func() *Builder
		wantErr error
		want    *BalanceError
	}{
		{
			name: "missing date",
			builder: func() *Builder {
				return NewBuilder().SetDesc("x").SetLineItems(balancedItems())
			},
			wantErr: ErrMissingDate,
		},
		{
			name: "missing desc",
			builder: func() *Builder {
				return NewBuilder().SetDate(testDate).SetLineItems(balancedItems())
			},
			wantErr: ErrMissingDesc,
		},
		{
			name: "date checked before desc",
			builder: func() *Builder {
				return NewBuilder()
			},
			wantErr: ErrMissingDate,
		},
		{
			name: "no line items",
			builder: func() *Builder {
				return NewBuilder().SetDate(testDate).SetDesc("x")
			},
			wantErr: ErrNotEnoughLineItems,
		},
		{
			name: "single zero line item",
			builder: func() *Builder {
				return NewBuilder().SetDate(testDate).SetDesc("x").AddLine(realItem("A", 0))
			},
			wantErr: ErrNotEnoughLineItems,
		},
		{
			name: "real postings off",
			builder: func() *Builder {
				return NewBuilder().SetDate(testDate).SetDesc("test").
					SetLineItems([]LineItem{
						realItem("A", 200),
						realItem("B", -100),
						virtualItem("V1", 50),
						virtualItem("V2", -50),
					})
			},
			want: &BalanceError{Kind: DoesNotBalance, Amount: 100},
		},
		{
			name: "virtual checked before real",
			builder: func() *Builder {
				return NewBuilder().SetDate(testDate).SetDesc("test").
					SetLineItems([]LineItem{
						realItem("A", 200),
						realItem("B", -100),
						virtualItem("V1", 50),
						virtualItem("V2", -20),
					})
			},
			want: &BalanceError{Kind: DoesNotBalance, Amount: 30, Virtual: true},
		},
		{
			name: "real and virtual do not offset each other",
			builder: func() *Builder {
				return NewBuilder().SetDate(testDate).SetDesc("test").
					AddLine(realItem("A", 100)).
					AddLine(virtualItem("V", -100))
			},
			want: &BalanceError{Kind: DoesNotBalance, Amount: -100, Virtual: true},
		},
		{
			name: "real sum out of range",
			builder: func() *Builder {
				return NewBuilder().SetDate(testDate).SetDesc("test").
					SetLineItems([]LineItem{
						realItem("A", 1<<62),
						realItem("B", 1<<62),
						realItem("C", 1<<62),
						realItem("D", 1<<62),
					})
			},
			want: &BalanceError{Kind: DoesNotBalance, Unknown: true},
		},
		{
			name: "virtual sum out of range",
			builder: func() *Builder {
				return NewBuilder().SetDate(testDate).SetDesc("test").
					SetLineItems([]LineItem{
						realItem("A", 100),
						realItem("B", -100),
						virtualItem("V1", math.MinInt64),
						virtualItem("V2", -1),
					})
			},
			want: &BalanceError{Kind: DoesNotBalance, Virtual: true, Unknown: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txn, err := tt.builder().Balance()
			assert.Error(t, err)
			assert.True(t, txn == nil)

			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "expected %v, got %v", tt.wantErr, err)
			}
			if tt.want != nil {
				var berr *BalanceError
				assert.True(t, errors.As(err, &berr))
				assert.Equal(t, tt.want, berr)
				assert.True(t, errors.Is(err, ErrDoesNotBalance))
			}
		})
	}
}

func TestBuilderLastWriteWins(t *testing.T) {
	later := testDate.AddDate(0, 0, 1)
	txn, err := NewBuilder().
		SetDesc("first").
		SetDate(testDate).
		SetLineItems(balancedItems()).
		SetDesc("second").
		SetDate(later).
		Balance()
	assert.NoError(t, err)
	assert.Equal(t, "second", txn.Desc())
	assert.Equal(t, 2, txn.Date().Day())
}

func TestBuilderRebalances(t *testing.T) {
	b := NewBuilder().SetDate(testDate).SetDesc("x").AddLine(realItem("A", 100)).AddLine(realItem("B", -50))

	_, err := b.Balance()
	assert.True(t, errors.Is(err, ErrDoesNotBalance))
	current, err := b.CurrentRealBalance()
	assert.NoError(t, err)
	assert.Equal(t, money.Cents(50), current)

	b.AddLine(realItem("C", -50))
	_, err = b.Balance()
	assert.NoError(t, err)
	current, err = b.CurrentRealBalance()
	assert.NoError(t, err)
	assert.Equal(t, money.Cents(0), current)
	current, err = b.CurrentVirtualBalance()
	assert.NoError(t, err)
	assert.Equal(t, money.Cents(0), current)
}

func TestBuilderCurrentBalanceOutOfRange(t *testing.T) {
	b := NewBuilder().AddLine(realItem("A", math.MaxInt64)).AddLine(realItem("B", 1))

	_, err := b.CurrentRealBalance()
	assert.True(t, errors.Is(err, money.ErrOverflow))

	current, err := b.CurrentVirtualBalance()
	assert.NoError(t, err)
	assert.Equal(t, money.Cents(0), current)
}

func TestBuilderCopiesLineItems(t *testing.T) {
	items := balancedItems()
	b := NewBuilder().SetDate(testDate).SetDesc("x").SetLineItems(items)
	items[0] = realItem("A", 999)

	_, err := b.Balance()
	assert.NoError(t, err)
}

func TestTransactionString(t *testing.T) {
	txn, err := NewBuilder().
		SetDate(testDate).
		SetDesc("Groceries at the market").
		AddLine(realItem("Expenses:Food", 2550)).
		AddLine(realItem("Assets:Checking", -2550)).
		AddLine(virtualItem("Budget:Food", -2550)).
		AddLine(virtualItem("Budget:Available", 2550)).
		Balance()
	assert.NoError(t, err)

	want := "2024-01-01 Groceries at the market\n" +
		"    Expenses:Food  \t$25.50\n" +
		"    Assets:Checking  \t$-25.50\n" +
		"    [Budget:Food]  \t$-25.50\n" +
		"    [Budget:Available]  \t$25.50"
	assert.Equal(t, want, txn.String())
}

func TestTransactionLineItemsIsCopy(t *testing.T) {
	txn, err := NewBuilder().SetDate(testDate).SetDesc("x").SetLineItems(balancedItems()).Balance()
	assert.NoError(t, err)

	items := txn.LineItems()
	items[0].Value = 12345
	assert.Equal(t, money.Cents(0), txn.RealBalance())
}
