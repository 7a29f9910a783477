// Package journal appends finished transactions to a ledger file.
package journal

import (
	"fmt"
	"os"

	"github.com/robinvdvleuten/ledgertmpl/transaction"
)

// Append writes txn followed by a newline to the end of the file at path,
// creating the file if it does not exist.
func Append(path string, txn *transaction.Transaction) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open journal: %w", err)
	}

	if _, err := fmt.Fprintln(f, txn.String()); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write journal: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close journal: %w", err)
	}
	return nil
}
