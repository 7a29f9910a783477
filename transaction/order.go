package transaction

import (
	"strings"

	"golang.org/x/exp/slices"
)

// Compare orders real postings before virtual ones and then by account
// name. The value never takes part in the ordering.
func Compare(a, b LineItem) int {
	if a.IsReal != b.IsReal {
		if a.IsReal {
			return -1
		}
		return 1
	}
	return strings.Compare(a.Account, b.Account)
}

// SameKey reports whether a and b refer to the same posting for the purpose
// of overriding one with the other.
func SameKey(a, b LineItem) bool {
	return Compare(a, b) == 0
}

// Sort orders items in place by Compare. Items with the same key keep their
// relative order.
func Sort(items []LineItem) {
	slices.SortStableFunc(items, Compare)
}
