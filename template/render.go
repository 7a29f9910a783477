// Package template turns a transaction template into line items. A template
// is plain text rendered with text/template, one line item per line:
//
//	Expenses:Rent  ${{ dollars .rent }}
//	Assets:Checking  ${{ dollars (neg .rent) }}
//	[Budget:Rent]  ${{ dollars (neg <<Budget:Rent>>) }}
//	[Budget:Available]  ${{ dollars <<Budget:Rent>> }}
//
// Placeholders of the form <<Account>> are replaced with the account's
// balance in cents before the template is rendered.
package template

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	texttemplate "text/template"

	"github.com/robinvdvleuten/ledgertmpl/money"
)

// Renderer renders template text with a set of Vars.
type Renderer struct {
	funcs texttemplate.FuncMap
}

// NewRenderer returns a Renderer with the arithmetic helpers installed.
func NewRenderer() *Renderer {
	return &Renderer{funcs: texttemplate.FuncMap{
		"add":     add,
		"sub":     sub,
		"mul":     mul,
		"neg":     neg,
		"dollars": dollars,
	}}
}

// Render executes text as a template. Referencing an unset var is an error.
func (r *Renderer) Render(name, text string, vars Vars) (string, error) {
	tmpl, err := texttemplate.New(name).
		Option("missingkey=error").
		Funcs(r.funcs).
		Parse(text)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, map[string]any(vars)); err != nil {
		return "", fmt.Errorf("failed to render template: %w", err)
	}
	return buf.String(), nil
}

// Load reads a template file.
func Load(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read template: %w", err)
	}
	return string(raw), nil
}

func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	case int32:
		return int64(n), nil
	case money.Cents:
		return int64(n), nil
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%q is not an integer", n)
		}
		return i, nil
	default:
		return 0, fmt.Errorf("%v (%T) is not an integer", v, v)
	}
}

// The arithmetic helpers fail with money.ErrOverflow instead of wrapping.

func add(values ...any) (int64, error) {
	var total money.Cents
	for _, v := range values {
		n, err := toInt64(v)
		if err != nil {
			return 0, err
		}
		if total, err = money.Add(total, money.Cents(n)); err != nil {
			return 0, fmt.Errorf("add: %w", err)
		}
	}
	return int64(total), nil
}

func sub(a, b any) (int64, error) {
	return binary("sub", money.Sub, a, b)
}

func mul(a, b any) (int64, error) {
	return binary("mul", money.Mul, a, b)
}

func binary(name string, op func(x, y money.Cents) (money.Cents, error), a, b any) (int64, error) {
	x, err := toInt64(a)
	if err != nil {
		return 0, err
	}
	y, err := toInt64(b)
	if err != nil {
		return 0, err
	}
	r, err := op(money.Cents(x), money.Cents(y))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	return int64(r), nil
}

func neg(a any) (int64, error) {
	x, err := toInt64(a)
	if err != nil {
		return 0, err
	}
	r, err := money.Neg(money.Cents(x))
	if err != nil {
		return 0, fmt.Errorf("neg: %w", err)
	}
	return int64(r), nil
}

// dollars formats an integer number of cents as a two-decimal amount.
func dollars(a any) (string, error) {
	x, err := toInt64(a)
	if err != nil {
		return "", err
	}
	return money.Cents(x).String(), nil
}
