package utils

import "strings"

// Turkish casing is locale-sensitive: dotted İ lowers to i, dotless I
// lowers to ı. Handled before the generic lowercase pass so both map to
// plain "i" after folding.
var turkishLower = strings.NewReplacer("İ", "i", "I", "ı")

var asciiFold = strings.NewReplacer(
	"ç", "c", "ğ", "g", "ı", "i", "ö", "o", "ş", "s", "ü", "u",
	"â", "a", "î", "i", "û", "u",
)

// NormalizeForSearch lowers a string with Turkish casing rules and folds
// Turkish-specific characters to ASCII, so "is veren" matches "İş Veren".
func NormalizeForSearch(s string) string {
	return asciiFold.Replace(strings.ToLower(turkishLower.Replace(s)))
}

// MatchesSearch reports whether the normalized haystack contains the
// normalized needle. An empty needle matches everything.
func MatchesSearch(haystack, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(NormalizeForSearch(haystack), NormalizeForSearch(needle))
}
