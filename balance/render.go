package balance

import (
	"context"
	"regexp"
)

// placeholderRegex matches "<<Account:Name>>" on a single line.
var placeholderRegex = regexp.MustCompile(`<<([^<>\n]+)>>`)

// Placeholders returns the distinct account names referenced in text, in
// order of first appearance.
func Placeholders(text string) []string {
	var accounts []string
	seen := make(map[string]bool)
	for _, m := range placeholderRegex.FindAllStringSubmatch(text, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			accounts = append(accounts, m[1])
		}
	}
	return accounts
}

// RenderBalances replaces every "<<account>>" placeholder in text with the
// integer-cents balance of that account. It runs on the raw template before
// the template engine sees it.
func RenderBalances(ctx context.Context, text string, lookup *Lookup) (string, error) {
	accounts := Placeholders(text)
	if len(accounts) == 0 {
		return text, nil
	}

	values := make(map[string]string, len(accounts))
	for _, account := range accounts {
		v, err := lookup.Balance(ctx, account)
		if err != nil {
			return "", err
		}
		values[account] = v.Raw()
	}

	return placeholderRegex.ReplaceAllStringFunc(text, func(m string) string {
		return values[m[2:len(m)-2]]
	}), nil
}
