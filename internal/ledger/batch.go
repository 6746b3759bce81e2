package ledger

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/my-dora-hotel/ledger-server/internal/models"
)

// BalanceTolerance absorbs rounding noise in user-typed amounts when
// checking that a batch nets to zero.
var BalanceTolerance = decimal.RequireFromString("0.001")

// UnbalancedError reports a batch whose receivable and debt totals differ
// by more than the tolerance.
type UnbalancedError struct {
	TotalDebt       decimal.Decimal
	TotalReceivable decimal.Decimal
}

func (e *UnbalancedError) Error() string {
	return fmt.Sprintf("unbalanced batch: debt total %s, receivable total %s",
		e.TotalDebt.String(), e.TotalReceivable.String())
}

// Complete reports whether a row has enough data to be posted: account,
// category and a positive amount. Incomplete rows are skipped by BuildBatch
// rather than rejected, mirroring a half-filled form row.
func (r Row) Complete() bool {
	if r.AccountID == "" || r.CategoryID == "" {
		return false
	}
	_, err := ParseAmount(r.Amount)
	return err == nil
}

// BuildBatch turns a multi-row submission into ledger entries sharing one
// date. Multi-account postings must net to zero before any write is
// attempted: there is no partial-write rollback, so the balance check runs
// here, client errors included. Returns one entry per complete row.
func BuildBatch(date models.Date, rows []Row) ([]models.LedgerEntry, error) {
	complete := make([]Row, 0, len(rows))
	for _, row := range rows {
		if row.Complete() {
			complete = append(complete, row)
		}
	}
	if len(complete) == 0 {
		return nil, ErrEmptyBatch
	}

	totalDebt := decimal.Zero
	totalReceivable := decimal.Zero
	for _, row := range complete {
		if err := ValidateRow(date, row); err != nil {
			return nil, err
		}
		amount, _ := ParseAmount(row.Amount)
		if row.Type == models.EntryTypeDebt {
			totalDebt = totalDebt.Add(amount)
		} else {
			totalReceivable = totalReceivable.Add(amount)
		}
	}

	if totalReceivable.Sub(totalDebt).Abs().GreaterThan(BalanceTolerance) {
		return nil, &UnbalancedError{TotalDebt: totalDebt, TotalReceivable: totalReceivable}
	}

	entries := make([]models.LedgerEntry, 0, len(complete))
	for _, row := range complete {
		amount, _ := ParseAmount(row.Amount)
		entry := models.LedgerEntry{
			ID:         uuid.New().String(),
			Date:       date,
			CategoryID: row.CategoryID,
			AccountID:  row.AccountID,
			Receivable: decimal.Zero,
			Debt:       decimal.Zero,
		}
		if row.Statement != "" {
			statement := row.Statement
			entry.Statement = &statement
		}
		if row.Type == models.EntryTypeDebt {
			entry.Debt = amount
		} else {
			entry.Receivable = amount
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
