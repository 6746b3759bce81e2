package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/my-dora-hotel/ledger-server/internal/ledger"
)

func writeXLSX(sheetName string, rows [][]string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to remove default sheet: %w", err)
	}

	for i, row := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheetName, cellRef, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// AccountStatementXLSX renders a statement as an Excel workbook.
func AccountStatementXLSX(st *ledger.Statement) ([]byte, error) {
	return writeXLSX("Hesap Ekstresi", statementRows(st))
}

// AccountSummaryXLSX renders a summary as an Excel workbook.
func AccountSummaryXLSX(sum *ledger.Summary) ([]byte, error) {
	return writeXLSX("Hesap Özeti", summaryRows(sum))
}
