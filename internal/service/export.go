package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/my-dora-hotel/ledger-server/internal/export"
	"github.com/my-dora-hotel/ledger-server/internal/models"
)

// ExportReport executes a saved report and renders it as a CSV or XLSX
// download.
func (s *DefaultService) ExportReport(ctx context.Context, userID, reportID, format string) (*ExportFile, error) {
	data, err := s.GetReport(ctx, userID, reportID)
	if err != nil {
		return nil, err
	}

	var content []byte
	switch format {
	case "csv":
		if data.Report.Type == models.ReportTypeAccountStatement {
			content = export.AccountStatementCSV(data.Statement.Statement)
		} else {
			content = export.AccountSummaryCSV(data.Summary.Summary)
		}
		return &ExportFile{
			Filename:    exportFilename(data.Report.Title, "csv"),
			ContentType: "text/csv; charset=utf-8",
			Content:     content,
		}, nil
	case "xlsx":
		if data.Report.Type == models.ReportTypeAccountStatement {
			content, err = export.AccountStatementXLSX(data.Statement.Statement)
		} else {
			content, err = export.AccountSummaryXLSX(data.Summary.Summary)
		}
		if err != nil {
			return nil, fmt.Errorf("error rendering workbook: %w", err)
		}
		return &ExportFile{
			Filename:    exportFilename(data.Report.Title, "xlsx"),
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Content:     content,
		}, nil
	default:
		return nil, fmt.Errorf("%w: unknown export format %q", ErrValidation, format)
	}
}

// exportFilename flattens a report title into a safe download name.
func exportFilename(title, ext string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == ' ', r == '-', r == '_', r == '.':
			return '_'
		default:
			return -1
		}
	}, title)
	if name == "" {
		name = "rapor"
	}
	return name + "." + ext
}
