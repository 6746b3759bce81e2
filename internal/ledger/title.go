package ledger

import (
	"strings"

	"github.com/my-dora-hotel/ledger-server/internal/models"
)

// Sentinel bounds meaning "all time". The UI labels the window "Tüm
// Zamanlar" instead of printing these literal dates.
const (
	AllTimeStart = "2000-01-01"
	AllTimeEnd   = "2099-12-31"
)

// IsAllTime reports whether a window is the sentinel all-time range.
func IsAllTime(startDate, endDate string) bool {
	return startDate == AllTimeStart && endDate == AllTimeEnd
}

func formatTitleDate(s string) string {
	d, err := models.ParseDate(s)
	if err != nil {
		return s
	}
	return d.Format("02.01.2006")
}

// GenerateTitle builds the default report title, e.g.
// "Hesap Ekstresi - Kasa [01.01.2024 - 31.01.2024]" or
// "Hesap Özeti [Tüm Zamanlar]".
func GenerateTitle(reportType string, params models.ReportParameters, accountName, categoryName string) string {
	var dateRange string
	switch {
	case params.StartDate == "" || params.EndDate == "":
		dateRange = ""
	case IsAllTime(params.StartDate, params.EndDate):
		dateRange = "[Tüm Zamanlar]"
	case params.StartDate == params.EndDate:
		dateRange = "[" + formatTitleDate(params.StartDate) + "]"
	default:
		dateRange = "[" + formatTitleDate(params.StartDate) + " - " + formatTitleDate(params.EndDate) + "]"
	}

	var parts []string
	if reportType == models.ReportTypeAccountStatement {
		parts = []string{"Hesap Ekstresi"}
		if accountName != "" {
			parts = append(parts, "- "+accountName)
		}
	} else {
		parts = []string{"Hesap Özeti"}
		if params.CategoryID != nil && categoryName != "" {
			parts = append(parts, "- "+categoryName)
		}
	}
	if dateRange != "" {
		parts = append(parts, dateRange)
	}
	return strings.Join(parts, " ")
}
