package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/my-dora-hotel/ledger-server/internal/ledger"
	"github.com/my-dora-hotel/ledger-server/internal/models"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func parseCSV(t *testing.T, data []byte) [][]string {
	t.Helper()
	// The file starts with a UTF-8 BOM for spreadsheet compatibility
	require.True(t, bytes.HasPrefix(data, []byte("\uFEFF")))
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, []byte("\uFEFF"))))
	rows, err := r.ReadAll()
	require.NoError(t, err)
	return rows
}

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "₺1.234,56", FormatCurrency(dec("1234.56")))
	assert.Equal(t, "₺0,00", FormatCurrency(decimal.Zero))
	assert.Equal(t, "₺999,90", FormatCurrency(dec("999.9")))
	assert.Equal(t, "₺1.000.000,00", FormatCurrency(dec("1000000")))
	assert.Equal(t, "-₺250,75", FormatCurrency(dec("-250.75")))
	assert.Equal(t, "₺12,34", FormatCurrency(dec("12.34")))
}

func TestSplitNet(t *testing.T) {
	debt, receivable := splitNet(dec("100"))
	assert.Equal(t, "₺100,00", debt)
	assert.Equal(t, "", receivable)

	debt, receivable = splitNet(dec("-40"))
	assert.Equal(t, "", debt)
	assert.Equal(t, "₺40,00", receivable)

	debt, receivable = splitNet(decimal.Zero)
	assert.Equal(t, "", debt)
	assert.Equal(t, "", receivable)
}

func statementFixture() *ledger.Statement {
	note := "Oda ücreti, Ocak"
	entries := []models.LedgerEntry{
		{ID: "e1", Date: mustDate("2024-01-10"), Debt: dec("100"), Receivable: decimal.Zero, Statement: &note},
		{ID: "e2", Date: mustDate("2024-01-20"), Debt: decimal.Zero, Receivable: dec("40")},
	}
	return ledger.BuildStatement(dec("50"), entries)
}

func mustDate(s string) models.Date {
	d, err := models.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestAccountStatementCSV(t *testing.T) {
	rows := parseCSV(t, AccountStatementCSV(statementFixture()))

	// Header, Devir, two entries, Toplam
	require.Len(t, rows, 5)
	assert.Equal(t, []string{"Tarih", "Açıklama", "Borç", "Alacak", "Borç Bakiye", "Alacak Bakiye"}, rows[0])

	// Opening carry row
	assert.Equal(t, "Devir", rows[1][0])
	assert.Equal(t, "₺50,00", rows[1][4])

	// First entry: date in Turkish format, running balance 150
	assert.Equal(t, "10.01.2024", rows[2][0])
	assert.Equal(t, "Oda ücreti, Ocak", rows[2][1])
	assert.Equal(t, "₺100,00", rows[2][2])
	assert.Equal(t, "₺150,00", rows[2][4])

	// Second entry drops the balance to 110
	assert.Equal(t, "20.01.2024", rows[3][0])
	assert.Equal(t, "₺40,00", rows[3][3])
	assert.Equal(t, "₺110,00", rows[3][4])

	// Totals row carries window sums and the closing balance
	assert.Equal(t, "Toplam", rows[4][0])
	assert.Equal(t, "₺100,00", rows[4][2])
	assert.Equal(t, "₺40,00", rows[4][3])
	assert.Equal(t, "₺110,00", rows[4][4])
}

func TestAccountSummaryCSV(t *testing.T) {
	activity := []models.AccountActivity{
		{AccountID: "a1", AccountName: "Kasa", CategoryID: "C001", CategoryName: "Müşteriler",
			TotalDebt: dec("300"), TotalReceivable: dec("100"), EntryCount: 2},
		{AccountID: "a2", AccountName: "Banka", CategoryID: "C001", CategoryName: "Müşteriler",
			TotalDebt: dec("0"), TotalReceivable: dec("50"), EntryCount: 1},
	}
	sum := ledger.BuildSummary(activity, ledger.FilterAll)

	rows := parseCSV(t, AccountSummaryCSV(sum))

	// Header, two accounts, group total, blank separator, grand total
	require.Len(t, rows, 6)
	assert.Equal(t, []string{"Kategori", "Hesap", "Borç", "Alacak", "Borç Bakiye", "Alacak Bakiye"}, rows[0])

	assert.Equal(t, "Müşteriler", rows[1][0])
	assert.Equal(t, "Kasa", rows[1][1])
	assert.Equal(t, "₺200,00", rows[1][4])

	assert.Equal(t, "Banka", rows[2][1])
	assert.Equal(t, "₺50,00", rows[2][5])

	assert.Equal(t, "Toplam", rows[3][1])
	assert.Equal(t, "₺300,00", rows[3][2])
	assert.Equal(t, "₺150,00", rows[3][3])

	assert.Equal(t, "Genel Toplam", rows[5][0])
	assert.Equal(t, "₺150,00", rows[5][4])
}

func TestCSVFormulaInjectionGuard(t *testing.T) {
	note := "=SUM(A1:A9)"
	entries := []models.LedgerEntry{
		{ID: "e1", Date: mustDate("2024-01-10"), Debt: dec("10"), Receivable: decimal.Zero, Statement: &note},
	}
	st := ledger.BuildStatement(decimal.Zero, entries)

	rows := parseCSV(t, AccountStatementCSV(st))
	require.Len(t, rows, 4)
	assert.True(t, strings.HasPrefix(rows[2][1], "'"), "formula-like cell must be escaped, got %q", rows[2][1])
	assert.Equal(t, "'=SUM(A1:A9)", rows[2][1])
}
