package transaction

import "golang.org/x/exp/slices"

// Merge combines defaults with overrides. An override replaces the default
// with the same key; everything else passes through. The result is sorted
// by Compare. Neither input slice is modified.
func Merge(defaults, overrides []LineItem) ([]LineItem, error) {
	d := slices.Clone(defaults)
	o := slices.Clone(overrides)
	Sort(d)
	Sort(o)

	merged := make([]LineItem, 0, len(d)+len(o))
	i, j := 0, 0
	for i < len(d) && j < len(o) {
		switch c := Compare(o[j], d[i]); {
		case c < 0:
			merged = append(merged, o[j])
			j++
		case c == 0:
			merged = append(merged, o[j])
			i++
			j++
		case c > 0:
			merged = append(merged, d[i])
			i++
		default:
			// Unreachable while Compare is a total order.
			return nil, &BalanceError{Kind: DoesNotBalance, Unknown: true}
		}
	}
	merged = append(merged, o[j:]...)
	merged = append(merged, d[i:]...)

	return merged, nil
}
