package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/my-dora-hotel/ledger-server/internal/models"
)

func activity(categoryID, accountID, debt, receivable string, count int) models.AccountActivity {
	return models.AccountActivity{
		AccountID:       accountID,
		AccountName:     "Hesap " + accountID,
		CategoryID:      categoryID,
		CategoryName:    "Kategori " + categoryID,
		TotalDebt:       dec(debt),
		TotalReceivable: dec(receivable),
		EntryCount:      count,
	}
}

func TestParseFilterOption(t *testing.T) {
	f, err := ParseFilterOption("")
	require.NoError(t, err)
	assert.Equal(t, FilterAll, f)

	for _, valid := range []string{"all", "onlyDebtBalance", "onlyReceivableBalance", "onlyActive"} {
		f, err := ParseFilterOption(valid)
		require.NoError(t, err)
		assert.Equal(t, FilterOption(valid), f)
	}

	_, err = ParseFilterOption("onlyPositive")
	assert.Error(t, err)
}

func TestBuildSummaryGroupsAndTotals(t *testing.T) {
	rows := []models.AccountActivity{
		activity("C002", "a3", "0", "75", 1),
		activity("C001", "a1", "100", "40", 3),
		activity("C001", "a2", "50", "0", 2),
	}

	sum := BuildSummary(rows, FilterAll)
	require.Len(t, sum.Groups, 2)

	// Groups come out ordered by category id
	assert.Equal(t, "C001", sum.Groups[0].CategoryID)
	assert.Equal(t, "C002", sum.Groups[1].CategoryID)

	c001 := sum.Groups[0]
	require.Len(t, c001.Accounts, 2)
	assert.True(t, c001.TotalDebt.Equal(dec("150")))
	assert.True(t, c001.TotalReceivable.Equal(dec("40")))
	assert.True(t, c001.Net.Equal(dec("110")))

	assert.True(t, sum.TotalDebt.Equal(dec("150")))
	assert.True(t, sum.TotalReceivable.Equal(dec("115")))
	assert.True(t, sum.TotalNet.Equal(dec("35")))
}

func TestBuildSummaryFilterPartition(t *testing.T) {
	// One account per balance sign plus one with no activity; the three
	// non-"all" filters carve the set into debt, receivable and active.
	rows := []models.AccountActivity{
		activity("C001", "debtor", "100", "30", 2),
		activity("C001", "creditor", "20", "90", 2),
		activity("C001", "settled", "50", "50", 2),
		activity("C001", "idle", "0", "0", 0),
	}

	all := BuildSummary(rows, FilterAll)
	require.Len(t, all.Groups, 1)
	assert.Len(t, all.Groups[0].Accounts, 4)

	debt := BuildSummary(rows, FilterOnlyDebtBalance)
	require.Len(t, debt.Groups, 1)
	require.Len(t, debt.Groups[0].Accounts, 1)
	assert.Equal(t, "debtor", debt.Groups[0].Accounts[0].AccountID)

	receivable := BuildSummary(rows, FilterOnlyReceivableBalance)
	require.Len(t, receivable.Groups, 1)
	require.Len(t, receivable.Groups[0].Accounts, 1)
	assert.Equal(t, "creditor", receivable.Groups[0].Accounts[0].AccountID)

	active := BuildSummary(rows, FilterOnlyActive)
	require.Len(t, active.Groups, 1)
	assert.Len(t, active.Groups[0].Accounts, 3)
}

func TestBuildSummaryTotalsReflectFilter(t *testing.T) {
	rows := []models.AccountActivity{
		activity("C001", "debtor", "100", "0", 1),
		activity("C001", "creditor", "0", "60", 1),
	}

	debt := BuildSummary(rows, FilterOnlyDebtBalance)
	require.Len(t, debt.Groups, 1)
	// Group and grand totals only count retained accounts
	assert.True(t, debt.Groups[0].TotalDebt.Equal(dec("100")))
	assert.True(t, debt.Groups[0].TotalReceivable.IsZero())
	assert.True(t, debt.TotalNet.Equal(dec("100")))
}

func TestBuildSummaryDropsEmptiedGroups(t *testing.T) {
	rows := []models.AccountActivity{
		activity("C001", "creditor", "0", "60", 1),
		activity("C002", "debtor", "40", "0", 1),
	}

	sum := BuildSummary(rows, FilterOnlyDebtBalance)
	// C001 had no debt-balance accounts, so it never appears
	require.Len(t, sum.Groups, 1)
	assert.Equal(t, "C002", sum.Groups[0].CategoryID)
}

func TestBuildSummaryEmpty(t *testing.T) {
	sum := BuildSummary(nil, FilterAll)
	assert.Empty(t, sum.Groups)
	assert.True(t, sum.TotalNet.IsZero())
}

func TestIsAllTime(t *testing.T) {
	assert.True(t, IsAllTime(AllTimeStart, AllTimeEnd))
	assert.False(t, IsAllTime("2024-01-01", AllTimeEnd))
	assert.False(t, IsAllTime("2024-01-01", "2024-01-31"))
}

func TestGenerateTitle(t *testing.T) {
	statement := GenerateTitle(models.ReportTypeAccountStatement, models.ReportParameters{
		StartDate: "2024-01-01",
		EndDate:   "2024-01-31",
	}, "Kasa", "")
	assert.Equal(t, "Hesap Ekstresi - Kasa [01.01.2024 - 31.01.2024]", statement)

	// Sentinel bounds render as "Tüm Zamanlar"
	allTime := GenerateTitle(models.ReportTypeAccountSummary, models.ReportParameters{
		StartDate: AllTimeStart,
		EndDate:   AllTimeEnd,
	}, "", "")
	assert.Equal(t, "Hesap Özeti [Tüm Zamanlar]", allTime)

	// Single-day window collapses to one date
	single := GenerateTitle(models.ReportTypeAccountStatement, models.ReportParameters{
		StartDate: "2024-05-10",
		EndDate:   "2024-05-10",
	}, "Kasa", "")
	assert.Equal(t, "Hesap Ekstresi - Kasa [10.05.2024]", single)

	category := "C001"
	summary := GenerateTitle(models.ReportTypeAccountSummary, models.ReportParameters{
		StartDate:  "2024-01-01",
		EndDate:    "2024-01-31",
		CategoryID: &category,
	}, "", "Müşteriler")
	assert.Equal(t, "Hesap Özeti - Müşteriler [01.01.2024 - 31.01.2024]", summary)
}
