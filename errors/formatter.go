// Package errors formats ledgertmpl errors for machine consumption. The cli
// package renders errors for people; scripts driving ledgertmpl can ask for
// the same failures as JSON instead.
//
// Domain error types stay in their own packages (transaction, template);
// this package only handles presentation.
package errors

import (
	"encoding/json"
	stdErrors "errors"

	"github.com/robinvdvleuten/ledgertmpl/template"
	"github.com/robinvdvleuten/ledgertmpl/transaction"
)

// JSONFormatter formats errors as JSON.
type JSONFormatter struct{}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// ErrorJSON represents an error in JSON format.
type ErrorJSON struct {
	Type    string         `json:"type"`
	Message string         `json:"message"`
	Stage   string         `json:"stage,omitempty"`
	Line    *LineJSON      `json:"line,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// LineJSON identifies the rendered template line an error refers to.
type LineJSON struct {
	Number int    `json:"number"`
	Text   string `json:"text"`
}

// Error types reported in ErrorJSON.Type.
const (
	TypeParse   = "parse"
	TypeBalance = "balance"
	TypeError   = "error"
)

// Format formats a single error as JSON.
func (jf *JSONFormatter) Format(err error) string {
	data, _ := json.Marshal(jf.toJSON(err))
	return string(data)
}

func (jf *JSONFormatter) toJSON(err error) ErrorJSON {
	errJSON := ErrorJSON{
		Type:    TypeError,
		Message: err.Error(),
	}

	var stageErr *template.StageError
	if stdErrors.As(err, &stageErr) {
		errJSON.Stage = string(stageErr.Stage)
		errJSON.Message = stageErr.Err.Error()
	}

	var parseErr *transaction.ParseError
	var balanceErr *transaction.BalanceError
	switch {
	case stdErrors.As(err, &parseErr):
		errJSON.Type = TypeParse
		errJSON.Details = map[string]any{"kind": parseErr.Kind.String()}
		if parseErr.Line > 0 {
			errJSON.Line = &LineJSON{Number: parseErr.Line, Text: parseErr.Text}
		}

	case stdErrors.As(err, &balanceErr):
		errJSON.Type = TypeBalance
		errJSON.Details = map[string]any{"kind": balanceErr.Kind.String()}
		if balanceErr.Kind == transaction.DoesNotBalance && !balanceErr.Unknown {
			ledger := "real"
			if balanceErr.Virtual {
				ledger = "virtual"
			}
			errJSON.Details["ledger"] = ledger
			errJSON.Details["amount"] = balanceErr.Amount.String()
		}
	}

	return errJSON
}
