package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/my-dora-hotel/ledger-server/internal/models"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func entry(id, date, debt, receivable string) models.LedgerEntry {
	d, _ := models.ParseDate(date)
	return models.LedgerEntry{
		ID:         id,
		Date:       d,
		Debt:       dec(debt),
		Receivable: dec(receivable),
	}
}

func TestBuildStatementRunningNet(t *testing.T) {
	// Debt of 100 followed by a payment of 40 leaves a 60 debt balance
	entries := []models.LedgerEntry{
		entry("e1", "2024-01-10", "100", "0"),
		entry("e2", "2024-01-20", "0", "40"),
	}

	st := BuildStatement(decimal.Zero, entries)
	require.Len(t, st.Entries, 2)

	assert.True(t, st.Entries[0].Net.Equal(dec("100")))
	assert.True(t, st.Entries[0].RunningNet.Equal(dec("100")))
	assert.True(t, st.Entries[1].Net.Equal(dec("-40")))
	assert.True(t, st.Entries[1].RunningNet.Equal(dec("60")))

	assert.True(t, st.TotalDebt.Equal(dec("100")))
	assert.True(t, st.TotalReceivable.Equal(dec("40")))
	assert.True(t, st.ClosingNet.Equal(dec("60")))
}

func TestBuildStatementOpeningCarry(t *testing.T) {
	// The running balance starts from the pre-window carry, not zero
	opening := OpeningNet(dec("500"), dec("200"))
	assert.True(t, opening.Equal(dec("300")))

	entries := []models.LedgerEntry{
		entry("e1", "2024-02-01", "0", "300"),
	}

	st := BuildStatement(opening, entries)
	require.Len(t, st.Entries, 1)
	assert.True(t, st.OpeningNet.Equal(dec("300")))
	assert.True(t, st.Entries[0].RunningNet.IsZero())
	assert.True(t, st.ClosingNet.IsZero())
}

func TestBuildStatementOrdersByDate(t *testing.T) {
	entries := []models.LedgerEntry{
		entry("late", "2024-03-15", "10", "0"),
		entry("early", "2024-03-01", "20", "0"),
		entry("middle", "2024-03-10", "30", "0"),
	}

	st := BuildStatement(decimal.Zero, entries)
	require.Len(t, st.Entries, 3)
	assert.Equal(t, "early", st.Entries[0].ID)
	assert.Equal(t, "middle", st.Entries[1].ID)
	assert.Equal(t, "late", st.Entries[2].ID)
}

func TestBuildStatementSameDateKeepsInsertionOrder(t *testing.T) {
	// Same-date rows keep the order they arrive in, which the repository
	// fixes by creation time. Reordering ties would change intermediate
	// running balances between runs.
	entries := []models.LedgerEntry{
		entry("first", "2024-03-01", "100", "0"),
		entry("second", "2024-03-01", "0", "100"),
	}

	st := BuildStatement(decimal.Zero, entries)
	require.Len(t, st.Entries, 2)
	assert.Equal(t, "first", st.Entries[0].ID)
	assert.Equal(t, "second", st.Entries[1].ID)
	assert.True(t, st.Entries[0].RunningNet.Equal(dec("100")))
	assert.True(t, st.Entries[1].RunningNet.IsZero())
}

func TestBuildStatementEmptyWindow(t *testing.T) {
	st := BuildStatement(dec("42"), nil)
	assert.Empty(t, st.Entries)
	assert.True(t, st.OpeningNet.Equal(dec("42")))
	assert.True(t, st.ClosingNet.Equal(dec("42")))
	assert.True(t, st.TotalDebt.IsZero())
	assert.True(t, st.TotalReceivable.IsZero())
}

func TestBuildStatementContinuity(t *testing.T) {
	// Each running balance equals the previous one plus the row's net
	entries := []models.LedgerEntry{
		entry("e1", "2024-01-05", "120.50", "0"),
		entry("e2", "2024-01-07", "0", "80.25"),
		entry("e3", "2024-01-07", "15", "0"),
		entry("e4", "2024-01-30", "0", "55.25"),
	}

	st := BuildStatement(dec("10"), entries)
	previous := st.OpeningNet
	for _, row := range st.Entries {
		expected := previous.Add(row.Net)
		assert.True(t, row.RunningNet.Equal(expected),
			"running net %s, want %s", row.RunningNet, expected)
		previous = row.RunningNet
	}
	assert.True(t, st.ClosingNet.Equal(previous))
}

func TestBuildStatementDoesNotMutateInput(t *testing.T) {
	entries := []models.LedgerEntry{
		entry("late", "2024-03-15", "10", "0"),
		entry("early", "2024-03-01", "20", "0"),
	}

	BuildStatement(decimal.Zero, entries)
	assert.Equal(t, "late", entries[0].ID)
	assert.Equal(t, "early", entries[1].ID)
}

func TestDateRoundTrip(t *testing.T) {
	d := models.NewDate(2024, time.June, 30)
	parsed, err := models.ParseDate(d.String())
	require.NoError(t, err)
	assert.Equal(t, d.String(), parsed.String())
}
