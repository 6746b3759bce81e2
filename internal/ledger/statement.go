package ledger

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/my-dora-hotel/ledger-server/internal/models"
)

// StatementEntry is one row of an account statement. Net is debt minus
// receivable for the row; RunningNet is the cumulative balance including
// the opening carry ("Devir"). Positive net means an outstanding debt
// balance, negative an outstanding receivable balance.
type StatementEntry struct {
	ID         string          `json:"id"`
	Date       models.Date     `json:"date"`
	Statement  *string         `json:"statement"`
	Debt       decimal.Decimal `json:"debt"`
	Receivable decimal.Decimal `json:"receivable"`
	Net        decimal.Decimal `json:"net"`
	RunningNet decimal.Decimal `json:"runningNet"`
}

// Statement is a single account's activity over a window with the balance
// carried in from before the window.
type Statement struct {
	OpeningNet      decimal.Decimal  `json:"openingNet"`
	Entries         []StatementEntry `json:"entries"`
	TotalDebt       decimal.Decimal  `json:"totalDebt"`
	TotalReceivable decimal.Decimal  `json:"totalReceivable"`
	ClosingNet      decimal.Decimal  `json:"closingNet"`
}

// BuildStatement computes the running-balance sequence for one account.
// openingNet is sum(debt) - sum(receivable) over all entries dated strictly
// before the window. Entries are ordered by date ascending; same-date
// entries keep the order they arrive in, so callers passing rows in
// insertion order get a stable, reproducible sequence.
func BuildStatement(openingNet decimal.Decimal, entries []models.LedgerEntry) *Statement {
	ordered := make([]models.LedgerEntry, len(entries))
	copy(ordered, entries)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date.Before(ordered[j].Date.Time)
	})

	statement := &Statement{
		OpeningNet:      openingNet,
		Entries:         make([]StatementEntry, 0, len(ordered)),
		TotalDebt:       decimal.Zero,
		TotalReceivable: decimal.Zero,
		ClosingNet:      openingNet,
	}

	running := openingNet
	for _, entry := range ordered {
		net := entry.Debt.Sub(entry.Receivable)
		running = running.Add(net)
		statement.Entries = append(statement.Entries, StatementEntry{
			ID:         entry.ID,
			Date:       entry.Date,
			Statement:  entry.Statement,
			Debt:       entry.Debt,
			Receivable: entry.Receivable,
			Net:        net,
			RunningNet: running,
		})
		statement.TotalDebt = statement.TotalDebt.Add(entry.Debt)
		statement.TotalReceivable = statement.TotalReceivable.Add(entry.Receivable)
	}
	statement.ClosingNet = running
	return statement
}

// OpeningNet computes the carried-forward balance from entries dated before
// a window start.
func OpeningNet(debtBefore, receivableBefore decimal.Decimal) decimal.Decimal {
	return debtBefore.Sub(receivableBefore)
}
