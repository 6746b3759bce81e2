package ledger

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/my-dora-hotel/ledger-server/internal/models"
)

func testDate() models.Date {
	return models.NewDate(2024, time.January, 15)
}

func TestParseAmount(t *testing.T) {
	amount, err := ParseAmount("150.50")
	require.NoError(t, err)
	assert.True(t, amount.Equal(decimal.RequireFromString("150.50")))

	// Zero and negative amounts are rejected
	_, err = ParseAmount("0")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = ParseAmount("-10")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	// Non-numeric input
	_, err = ParseAmount("abc")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = ParseAmount("")
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestValidateRow(t *testing.T) {
	validRow := Row{
		AccountID:         "acc-1",
		CategoryID:        "C001",
		CategoryEntryType: models.EntryTypeBoth,
		Type:              models.EntryTypeDebt,
		Amount:            "100",
	}

	assert.NoError(t, ValidateRow(testDate(), validRow))

	// Missing date
	err := ValidateRow(models.Date{}, validRow)
	assert.ErrorIs(t, err, ErrMissingDate)

	// Missing account
	row := validRow
	row.AccountID = ""
	err = ValidateRow(testDate(), row)
	assert.ErrorIs(t, err, ErrMissingAccount)

	// Invalid amount
	row = validRow
	row.Amount = "nope"
	err = ValidateRow(testDate(), row)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	// Unknown entry type
	row = validRow
	row.Type = "transfer"
	err = ValidateRow(testDate(), row)
	assert.ErrorIs(t, err, ErrTypeNotAllowed)
}

func TestValidateRowCategoryConstraint(t *testing.T) {
	base := Row{
		AccountID:  "acc-1",
		CategoryID: "C001",
		Amount:     "100",
	}

	// A debt-only category rejects receivable rows
	row := base
	row.CategoryEntryType = models.EntryTypeDebt
	row.Type = models.EntryTypeReceivable
	err := ValidateRow(testDate(), row)
	assert.ErrorIs(t, err, ErrTypeNotAllowed)

	// and accepts debt rows
	row.Type = models.EntryTypeDebt
	assert.NoError(t, ValidateRow(testDate(), row))

	// "both" accepts either direction
	row.CategoryEntryType = models.EntryTypeBoth
	row.Type = models.EntryTypeReceivable
	assert.NoError(t, ValidateRow(testDate(), row))
}

func TestBuildBatchBalanced(t *testing.T) {
	rows := []Row{
		{AccountID: "acc-1", CategoryID: "C001", CategoryEntryType: models.EntryTypeBoth, Type: models.EntryTypeDebt, Amount: "50", Statement: "Oda ücreti"},
		{AccountID: "acc-2", CategoryID: "C002", CategoryEntryType: models.EntryTypeBoth, Type: models.EntryTypeReceivable, Amount: "50"},
	}

	entries, err := BuildBatch(testDate(), rows)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Every entry shares the batch date and has a generated id
	for _, entry := range entries {
		assert.NotEmpty(t, entry.ID)
		assert.Equal(t, testDate().String(), entry.Date.String())
	}

	// Amounts land on the correct side; the other side stays zero
	assert.True(t, entries[0].Debt.Equal(decimal.RequireFromString("50")))
	assert.True(t, entries[0].Receivable.IsZero())
	require.NotNil(t, entries[0].Statement)
	assert.Equal(t, "Oda ücreti", *entries[0].Statement)

	assert.True(t, entries[1].Receivable.Equal(decimal.RequireFromString("50")))
	assert.True(t, entries[1].Debt.IsZero())
	assert.Nil(t, entries[1].Statement)
}

func TestBuildBatchUnbalanced(t *testing.T) {
	rows := []Row{
		{AccountID: "acc-1", CategoryID: "C001", CategoryEntryType: models.EntryTypeBoth, Type: models.EntryTypeDebt, Amount: "100"},
		{AccountID: "acc-2", CategoryID: "C002", CategoryEntryType: models.EntryTypeBoth, Type: models.EntryTypeReceivable, Amount: "60"},
	}

	_, err := BuildBatch(testDate(), rows)
	require.Error(t, err)

	var unbalanced *UnbalancedError
	require.True(t, errors.As(err, &unbalanced))
	assert.True(t, unbalanced.TotalDebt.Equal(decimal.RequireFromString("100")))
	assert.True(t, unbalanced.TotalReceivable.Equal(decimal.RequireFromString("60")))
}

func TestBuildBatchSingleRowIsUnbalanced(t *testing.T) {
	// A lone one-sided row can never net to zero
	rows := []Row{
		{AccountID: "acc-1", CategoryID: "C001", CategoryEntryType: models.EntryTypeBoth, Type: models.EntryTypeDebt, Amount: "100"},
	}

	_, err := BuildBatch(testDate(), rows)
	var unbalanced *UnbalancedError
	assert.True(t, errors.As(err, &unbalanced))
}

func TestBuildBatchWithinTolerance(t *testing.T) {
	rows := []Row{
		{AccountID: "acc-1", CategoryID: "C001", CategoryEntryType: models.EntryTypeBoth, Type: models.EntryTypeDebt, Amount: "33.333"},
		{AccountID: "acc-2", CategoryID: "C002", CategoryEntryType: models.EntryTypeBoth, Type: models.EntryTypeReceivable, Amount: "33.3325"},
	}

	entries, err := BuildBatch(testDate(), rows)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestBuildBatchSkipsIncompleteRows(t *testing.T) {
	rows := []Row{
		{AccountID: "acc-1", CategoryID: "C001", CategoryEntryType: models.EntryTypeBoth, Type: models.EntryTypeDebt, Amount: "75"},
		// Half-filled form rows: no account, or no usable amount yet
		{AccountID: "", CategoryID: "C001", Type: models.EntryTypeDebt, Amount: "10"},
		{AccountID: "acc-3", CategoryID: "C003", Type: models.EntryTypeReceivable, Amount: ""},
		{AccountID: "acc-2", CategoryID: "C002", CategoryEntryType: models.EntryTypeBoth, Type: models.EntryTypeReceivable, Amount: "75"},
	}

	entries, err := BuildBatch(testDate(), rows)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestBuildBatchAllRowsIncomplete(t *testing.T) {
	rows := []Row{
		{AccountID: "", Amount: ""},
		{AccountID: "acc-1", CategoryID: "C001", Amount: "not-a-number"},
	}

	_, err := BuildBatch(testDate(), rows)
	assert.ErrorIs(t, err, ErrEmptyBatch)
}

func TestBuildBatchCategoryConstraintViolation(t *testing.T) {
	rows := []Row{
		{AccountID: "acc-1", CategoryID: "C001", CategoryEntryType: models.EntryTypeReceivable, Type: models.EntryTypeDebt, Amount: "50"},
		{AccountID: "acc-2", CategoryID: "C002", CategoryEntryType: models.EntryTypeBoth, Type: models.EntryTypeReceivable, Amount: "50"},
	}

	_, err := BuildBatch(testDate(), rows)
	assert.ErrorIs(t, err, ErrTypeNotAllowed)
}
