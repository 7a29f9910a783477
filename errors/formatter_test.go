package errors

import (
	"encoding/json"
	stdErrors "errors"
	"fmt"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/robinvdvleuten/ledgertmpl/template"
	"github.com/robinvdvleuten/ledgertmpl/transaction"
)

func TestJSONFormatter_Format(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorJSON
	}{
		{
			name: "parse error with line",
			err: &template.StageError{
				Stage: template.StageRender,
				Err:   &transaction.ParseError{Kind: transaction.MissingValue, Line: 2, Text: "Assets:Cash"},
			},
			want: ErrorJSON{
				Type:    TypeParse,
				Message: `line 2: line item is missing a value: "Assets:Cash"`,
				Stage:   "render",
				Line:    &LineJSON{Number: 2, Text: "Assets:Cash"},
				Details: map[string]any{"kind": "MissingValue"},
			},
		},
		{
			name: "wrapped override error",
			err: &template.StageError{
				Stage: template.StageBuild,
				Err:   fmt.Errorf("override 1: %w", &transaction.ParseError{Kind: transaction.MissingIsReal, Text: "[A  $1"}),
			},
			want: ErrorJSON{
				Type:    TypeParse,
				Message: `override 1: line item has unbalanced brackets around its account: "[A  $1"`,
				Stage:   "build",
				Details: map[string]any{"kind": "MissingIsReal"},
			},
		},
		{
			name: "does not balance",
			err: &template.StageError{
				Stage: template.StageBuild,
				Err:   &transaction.BalanceError{Kind: transaction.DoesNotBalance, Amount: 230, Virtual: true},
			},
			want: ErrorJSON{
				Type:    TypeBalance,
				Message: "transaction does not balance: virtual postings are off by $2.30",
				Stage:   "build",
				Details: map[string]any{"kind": "DoesNotBalance", "ledger": "virtual", "amount": "2.30"},
			},
		},
		{
			name: "missing description",
			err:  &transaction.BalanceError{Kind: transaction.MissingDesc},
			want: ErrorJSON{
				Type:    TypeBalance,
				Message: "transaction is missing a description",
				Details: map[string]any{"kind": "MissingDesc"},
			},
		},
		{
			name: "plain error",
			err:  stdErrors.New("hledger exited with status 1"),
			want: ErrorJSON{
				Type:    TypeError,
				Message: "hledger exited with status 1",
			},
		},
	}

	jf := NewJSONFormatter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got ErrorJSON
			assert.NoError(t, json.Unmarshal([]byte(jf.Format(tt.err)), &got))
			assert.Equal(t, tt.want, got)
		})
	}
}
