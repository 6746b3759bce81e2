// Package export renders executed reports as downloadable files. Exports
// are one-way; nothing here is ever read back.
package export

import (
	"bytes"
	"encoding/csv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/my-dora-hotel/ledger-server/internal/ledger"
	"github.com/my-dora-hotel/ledger-server/internal/utils"
)

var statementHeaders = []string{"Tarih", "Açıklama", "Borç", "Alacak", "Borç Bakiye", "Alacak Bakiye"}
var summaryHeaders = []string{"Kategori", "Hesap", "Borç", "Alacak", "Borç Bakiye", "Alacak Bakiye"}

// FormatCurrency renders an amount the way tr-TR currency formatting does:
// "₺1.234,56", sign in front of the symbol.
func FormatCurrency(d decimal.Decimal) string {
	fixed := d.Abs().StringFixed(2)
	intPart := fixed[:len(fixed)-3]
	fracPart := fixed[len(fixed)-2:]

	var grouped strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			grouped.WriteByte('.')
		}
		grouped.WriteRune(digit)
	}

	sign := ""
	if d.IsNegative() {
		sign = "-"
	}
	return sign + "₺" + grouped.String() + "," + fracPart
}

// currencyOrBlank renders an amount only when positive; report tables leave
// zero cells empty.
func currencyOrBlank(d decimal.Decimal) string {
	if d.IsPositive() {
		return FormatCurrency(d)
	}
	return ""
}

// splitNet renders a signed net as the two non-negative display columns:
// positive net fills "Borç Bakiye", negative fills "Alacak Bakiye".
func splitNet(net decimal.Decimal) (debtBalance, receivableBalance string) {
	if net.IsPositive() {
		return FormatCurrency(net), ""
	}
	if net.IsNegative() {
		return "", FormatCurrency(net.Abs())
	}
	return "", ""
}

func cell(s string) string {
	return utils.SanitizeForFormulaInjection(s)
}

// writeCSV renders rows with a UTF-8 BOM so spreadsheet software picks up
// the Turkish characters. encoding/csv quotes values containing commas,
// quotes or newlines.
func writeCSV(rows [][]string) []byte {
	var buf bytes.Buffer
	buf.WriteString("\uFEFF")
	w := csv.NewWriter(&buf)
	w.WriteAll(rows)
	return buf.Bytes()
}

func statementRows(st *ledger.Statement) [][]string {
	rows := [][]string{statementHeaders}

	openingDebt, openingReceivable := splitNet(st.OpeningNet)
	rows = append(rows, []string{"Devir", "", "", "", openingDebt, openingReceivable})

	for _, entry := range st.Entries {
		statement := ""
		if entry.Statement != nil {
			statement = *entry.Statement
		}
		runningDebt, runningReceivable := splitNet(entry.RunningNet)
		rows = append(rows, []string{
			entry.Date.Format("02.01.2006"),
			cell(statement),
			currencyOrBlank(entry.Debt),
			currencyOrBlank(entry.Receivable),
			runningDebt,
			runningReceivable,
		})
	}

	closingDebt, closingReceivable := splitNet(st.ClosingNet)
	rows = append(rows, []string{
		"Toplam", "",
		FormatCurrency(st.TotalDebt),
		FormatCurrency(st.TotalReceivable),
		closingDebt,
		closingReceivable,
	})
	return rows
}

func summaryRows(sum *ledger.Summary) [][]string {
	rows := [][]string{summaryHeaders}

	for _, group := range sum.Groups {
		for _, account := range group.Accounts {
			debtBalance, receivableBalance := splitNet(account.Net)
			rows = append(rows, []string{
				cell(group.CategoryName),
				cell(account.AccountName),
				currencyOrBlank(account.TotalDebt),
				currencyOrBlank(account.TotalReceivable),
				debtBalance,
				receivableBalance,
			})
		}

		groupDebt, groupReceivable := splitNet(group.Net)
		rows = append(rows, []string{
			cell(group.CategoryName),
			"Toplam",
			FormatCurrency(group.TotalDebt),
			FormatCurrency(group.TotalReceivable),
			groupDebt,
			groupReceivable,
		})
		rows = append(rows, []string{"", "", "", "", "", ""})
	}

	totalDebtBalance, totalReceivableBalance := splitNet(sum.TotalNet)
	rows = append(rows, []string{
		"Genel Toplam", "",
		FormatCurrency(sum.TotalDebt),
		FormatCurrency(sum.TotalReceivable),
		totalDebtBalance,
		totalReceivableBalance,
	})
	return rows
}

// AccountStatementCSV renders a statement as CSV.
func AccountStatementCSV(st *ledger.Statement) []byte {
	return writeCSV(statementRows(st))
}

// AccountSummaryCSV renders a summary as CSV.
func AccountSummaryCSV(sum *ledger.Summary) []byte {
	return writeCSV(summaryRows(sum))
}
