package utils

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strictHTMLPolicy = bluemonday.StrictPolicy()

// SanitizeText strips all HTML tags and attributes from user input before
// it is persisted. Category/account names and statements are free text
// that ends up rendered in tables and exports.
func SanitizeText(s string) string {
	return strings.TrimSpace(strictHTMLPolicy.Sanitize(s))
}

// SanitizeForFormulaInjection prefixes a single quote when a value starts
// with a character spreadsheet software treats as a formula trigger, so
// exported CSV/XLSX cells stay inert text.
func SanitizeForFormulaInjection(s string) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return s
	}
	switch trimmed[0] {
	case '=', '+', '-', '@', '\t', '\r':
		return "'" + s
	}
	return s
}
