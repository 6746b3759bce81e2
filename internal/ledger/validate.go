// Package ledger implements the accounting semantics of the system: row
// validation, balanced batch building, running-balance statements and
// grouped account summaries. Everything here is pure computation; fetching
// rows and persisting results is the repository's job.
package ledger

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/my-dora-hotel/ledger-server/internal/models"
)

var (
	ErrMissingDate    = errors.New("entry date is required")
	ErrMissingAccount = errors.New("entry account is required")
	ErrInvalidAmount  = errors.New("amount must be a number greater than zero")
	ErrTypeNotAllowed = errors.New("entry type is not permitted by the account's category")
	ErrEmptyBatch     = errors.New("batch has no complete rows")
)

// Row is a candidate ledger row before it is posted. Amount is the raw
// user-typed string; CategoryEntryType is the constraint inherited from the
// row's account.
type Row struct {
	AccountID         string
	CategoryID        string
	CategoryEntryType string
	Statement         string
	Type              string
	Amount            string
}

// ParseAmount parses a user-typed amount and requires it to be > 0.
func ParseAmount(s string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if !amount.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	return amount, nil
}

// ValidateRow checks a single candidate row against the submission date and
// the row's category constraint. It runs per-row as the user edits and
// again at submit time, since changing the account selection can change the
// category-implied constraint.
func ValidateRow(date models.Date, row Row) error {
	if date.IsZero() {
		return ErrMissingDate
	}
	if row.AccountID == "" {
		return ErrMissingAccount
	}
	if _, err := ParseAmount(row.Amount); err != nil {
		return err
	}
	if row.Type != models.EntryTypeDebt && row.Type != models.EntryTypeReceivable {
		return fmt.Errorf("%w: unknown entry type %q", ErrTypeNotAllowed, row.Type)
	}
	switch row.CategoryEntryType {
	case models.EntryTypeBoth, "":
		return nil
	case row.Type:
		return nil
	default:
		return fmt.Errorf("%w: category accepts only %q entries", ErrTypeNotAllowed, row.CategoryEntryType)
	}
}
