package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Entry type constraints carried by a category. A "debt" category only
// accepts debt entries against its accounts, "receivable" only receivable
// ones, "both" accepts either.
const (
	EntryTypeDebt       = "debt"
	EntryTypeReceivable = "receivable"
	EntryTypeBoth       = "both"
)

// Report types.
const (
	ReportTypeAccountStatement = "account_statement"
	ReportTypeAccountSummary   = "account_summary"
)

// User represents a user in the system
type User struct {
	ID        string    `db:"id" json:"id"`
	Email     string    `db:"email" json:"email"`
	Name      string    `db:"name" json:"name"`
	Password  string    `db:"password" json:"-"` // Password hash, not returned in JSON
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Category is a grouping code for accounts ("Ana Hesap"). Its id is a
// user-assigned code and is immutable after creation. Deleting a category
// cascades to its accounts and their ledger entries.
type Category struct {
	ID                string    `db:"id" json:"id"`
	Name              string    `db:"name" json:"name"`
	EntryType         string    `db:"entry_type" json:"entryType"`
	AdvancePeriodDays *int      `db:"advance_period_days" json:"advancePeriodDays"`
	CreatedAt         time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt         time.Time `db:"updated_at" json:"updatedAt"`
}

// Account is a ledger-posting target within a category ("Alt Hesap").
type Account struct {
	ID          string    `db:"id" json:"id"`
	CategoryID  string    `db:"category_id" json:"categoryId"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// AccountWithCategory joins an account with the category fields the
// validator and list views need.
type AccountWithCategory struct {
	Account
	CategoryName      string `db:"category_name" json:"categoryName"`
	CategoryEntryType string `db:"category_entry_type" json:"categoryEntryType"`
}

// LedgerEntry is a single posted ledger row. Exactly one of Receivable and
// Debt is non-zero when created through the validated path. CategoryID is
// denormalized from the account for query convenience and must match it.
type LedgerEntry struct {
	ID         string          `db:"id" json:"id"`
	Date       Date            `db:"date" json:"date"`
	CategoryID string          `db:"category_id" json:"categoryId"`
	AccountID  string          `db:"account_id" json:"accountId"`
	Statement  *string         `db:"statement" json:"statement"`
	Receivable decimal.Decimal `db:"receivable" json:"receivable"`
	Debt       decimal.Decimal `db:"debt" json:"debt"`
	CreatedAt  time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time       `db:"updated_at" json:"updatedAt"`
}

// LedgerEntryWithRelations carries the account and category names alongside
// an entry for list views and search.
type LedgerEntryWithRelations struct {
	LedgerEntry
	AccountName  string `db:"account_name" json:"accountName"`
	CategoryName string `db:"category_name" json:"categoryName"`
}

// DraftEntry is one in-progress row of a multi-entry batch. Amount is kept
// as the raw string the user typed; it is only parsed at validation time.
type DraftEntry struct {
	ID         string `json:"id"`
	AccountID  string `json:"account_id"`
	CategoryID string `json:"category_id"`
	Statement  string `json:"statement"`
	Type       string `json:"type"`
	Amount     string `json:"amount"`
}

// DraftEntryList is stored as a JSONB column.
type DraftEntryList []DraftEntry

func (l DraftEntryList) Value() (driver.Value, error) {
	if l == nil {
		l = DraftEntryList{}
	}
	return json.Marshal(l)
}

func (l *DraftEntryList) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*l = DraftEntryList{}
		return nil
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("cannot scan %T into models.DraftEntryList", src)
	}
}

// LedgerDraft is a not-yet-committed multi-entry batch, persisted so
// in-progress work survives a closed dialog. Orphaned drafts have no TTL.
type LedgerDraft struct {
	ID        string         `db:"id" json:"id"`
	Date      *Date          `db:"date" json:"date"`
	Entries   DraftEntryList `db:"entries" json:"entries"`
	CreatedAt time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time      `db:"updated_at" json:"updatedAt"`
}

// ReportParameters is the saved query specification of a report. Statement
// reports use AccountID; summary reports use CategoryID and FilterOption.
type ReportParameters struct {
	StartDate    string  `json:"startDate"`
	EndDate      string  `json:"endDate"`
	AccountID    string  `json:"accountId,omitempty"`
	CategoryID   *string `json:"categoryId,omitempty"`
	FilterOption string  `json:"filterOption,omitempty"`
}

func (p ReportParameters) Value() (driver.Value, error) {
	return json.Marshal(p)
}

func (p *ReportParameters) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*p = ReportParameters{}
		return nil
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	default:
		return fmt.Errorf("cannot scan %T into models.ReportParameters", src)
	}
}

// Report is a saved query specification, not a cached result. Reopening a
// report re-executes its aggregation. Immutable once created except for
// deletion.
type Report struct {
	ID         string           `db:"id" json:"id"`
	UserID     string           `db:"user_id" json:"userId"`
	Type       string           `db:"type" json:"type"`
	Title      string           `db:"title" json:"title"`
	Parameters ReportParameters `db:"parameters" json:"parameters"`
	CreatedAt  time.Time        `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time        `db:"updated_at" json:"updatedAt"`
}

// AccountActivity is one account's aggregated totals over a report window,
// as produced by the repository's summary query. Accounts with no entries
// in the window appear with zero totals and EntryCount 0.
type AccountActivity struct {
	AccountID         string          `db:"account_id"`
	AccountName       string          `db:"account_name"`
	CategoryID        string          `db:"category_id"`
	CategoryName      string          `db:"category_name"`
	CategoryEntryType string          `db:"category_entry_type"`
	TotalDebt         decimal.Decimal `db:"total_debt"`
	TotalReceivable   decimal.Decimal `db:"total_receivable"`
	EntryCount        int             `db:"entry_count"`
}
