package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeForSearch(t *testing.T) {
	assert.Equal(t, "is veren", NormalizeForSearch("İş Veren"))
	assert.Equal(t, "isparta", NormalizeForSearch("ISPARTA"))
	assert.Equal(t, "cigkofte", NormalizeForSearch("Çiğköfte"))
	assert.Equal(t, "plain text", NormalizeForSearch("plain text"))
}

func TestMatchesSearch(t *testing.T) {
	// Typing without Turkish characters still finds Turkish names
	assert.True(t, MatchesSearch("İş Veren Hesabı", "is veren"))
	assert.True(t, MatchesSearch("Müşteri Ödemesi", "odeme"))
	assert.True(t, MatchesSearch("Kasa", ""))
	assert.False(t, MatchesSearch("Kasa", "banka"))

	// Dotless I folds to plain i in both directions
	assert.True(t, MatchesSearch("KIRTASİYE", "kirtasiye"))
}

func TestSanitizeText(t *testing.T) {
	assert.Equal(t, "Kasa", SanitizeText("  Kasa  "))
	assert.Equal(t, "bold name", SanitizeText("<b>bold</b> name"))
	// Script elements are dropped together with their contents
	assert.Equal(t, "", SanitizeText("<script>alert(1)</script>"))
	assert.Equal(t, "Oda 101", SanitizeText(`<a href="http://evil">Oda 101</a>`))
}

func TestSanitizeForFormulaInjection(t *testing.T) {
	assert.Equal(t, "'=SUM(A1)", SanitizeForFormulaInjection("=SUM(A1)"))
	assert.Equal(t, "'+100", SanitizeForFormulaInjection("+100"))
	assert.Equal(t, "'-100", SanitizeForFormulaInjection("-100"))
	assert.Equal(t, "'@cmd", SanitizeForFormulaInjection("@cmd"))
	assert.Equal(t, "Oda ücreti", SanitizeForFormulaInjection("Oda ücreti"))
	assert.Equal(t, "", SanitizeForFormulaInjection(""))
}
