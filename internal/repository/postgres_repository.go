package repository

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/my-dora-hotel/ledger-server/internal/models"
)

// EntryFilter narrows the ledger entry list. Nil/empty fields are ignored.
type EntryFilter struct {
	StartDate  *models.Date
	EndDate    *models.Date
	CategoryID string
	AccountID  string
}

// Repository interface defines the methods that any repository implementation must satisfy
type Repository interface {
	// User operations
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// Category operations
	CreateCategory(ctx context.Context, category *models.Category) error
	UpdateCategory(ctx context.Context, category *models.Category) error
	DeleteCategory(ctx context.Context, categoryID string) error
	GetCategory(ctx context.Context, categoryID string) (*models.Category, error)
	ListCategories(ctx context.Context) ([]models.Category, error)

	// Account operations
	CreateAccount(ctx context.Context, account *models.Account) error
	UpdateAccount(ctx context.Context, account *models.Account) error
	DeleteAccount(ctx context.Context, accountID string) error
	GetAccount(ctx context.Context, accountID string) (*models.AccountWithCategory, error)
	ListAccounts(ctx context.Context, categoryID string) ([]models.AccountWithCategory, error)

	// Ledger entry operations
	CreateEntry(ctx context.Context, entry *models.LedgerEntry) error
	CreateEntries(ctx context.Context, entries []models.LedgerEntry) error
	UpdateEntry(ctx context.Context, entry *models.LedgerEntry) error
	DeleteEntry(ctx context.Context, entryID string) error
	GetEntry(ctx context.Context, entryID string) (*models.LedgerEntry, error)
	ListEntries(ctx context.Context, filter EntryFilter) ([]models.LedgerEntryWithRelations, error)

	// Aggregation inputs for statements and summaries
	EntriesInWindow(ctx context.Context, accountID string, start, end models.Date) ([]models.LedgerEntry, error)
	SumsBefore(ctx context.Context, accountID string, before models.Date) (debt, receivable decimal.Decimal, err error)
	AccountActivity(ctx context.Context, start, end models.Date, categoryID *string) ([]models.AccountActivity, error)

	// Draft operations
	SaveDraft(ctx context.Context, d *models.LedgerDraft) error
	DeleteDraft(ctx context.Context, draftID string) error
	GetDraft(ctx context.Context, draftID string) (*models.LedgerDraft, error)
	ListDrafts(ctx context.Context) ([]models.LedgerDraft, error)

	// Report operations
	CreateReport(ctx context.Context, report *models.Report) error
	DeleteReport(ctx context.Context, reportID string) error
	GetReport(ctx context.Context, reportID string) (*models.Report, error)
	ListReports(ctx context.Context, userID string) ([]models.Report, error)
}

// PostgresRepository implements the Repository interface using PostgreSQL
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{
		db: db,
	}
}

// GetDB returns the underlying database connection
func (r *PostgresRepository) GetDB() *sqlx.DB {
	return r.db
}

// User repository methods
func (r *PostgresRepository) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, email, name, password, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Email, user.Name, user.Password, user.CreatedAt, user.UpdatedAt)

	return err
}

func (r *PostgresRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT * FROM users WHERE email = $1`

	var user models.User
	err := r.db.GetContext(ctx, &user, query, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // User not found
		}
		return nil, err
	}

	return &user, nil
}

func (r *PostgresRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT * FROM users WHERE id = $1`

	var user models.User
	err := r.db.GetContext(ctx, &user, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // User not found
		}
		return nil, err
	}

	return &user, nil
}

// Category repository methods
func (r *PostgresRepository) CreateCategory(ctx context.Context, category *models.Category) error {
	query := `
		INSERT INTO categories (id, name, entry_type, advance_period_days, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	now := time.Now().UTC()
	category.CreatedAt = now
	category.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, query,
		category.ID, category.Name, category.EntryType, category.AdvancePeriodDays,
		category.CreatedAt, category.UpdatedAt)

	return err
}

// UpdateCategory never touches the id column; category codes are immutable.
func (r *PostgresRepository) UpdateCategory(ctx context.Context, category *models.Category) error {
	query := `
		UPDATE categories
		SET name = $1, entry_type = $2, advance_period_days = $3, updated_at = $4
		WHERE id = $5
	`

	category.UpdatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx, query,
		category.Name, category.EntryType, category.AdvancePeriodDays,
		category.UpdatedAt, category.ID)

	return err
}

// DeleteCategory removes a category with all of its accounts and their
// ledger entries. Explicit deletes inside one transaction; the schema's
// ON DELETE CASCADE is the backstop.
func (r *PostgresRepository) DeleteCategory(ctx context.Context, categoryID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			tx.Rollback()
			return
		}
	}()

	_, err = tx.ExecContext(ctx, `DELETE FROM ledger_entries WHERE category_id = $1`, categoryID)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `DELETE FROM accounts WHERE category_id = $1`, categoryID)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, categoryID)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *PostgresRepository) GetCategory(ctx context.Context, categoryID string) (*models.Category, error) {
	query := `SELECT * FROM categories WHERE id = $1`

	var category models.Category
	err := r.db.GetContext(ctx, &category, query, categoryID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Category not found
		}
		return nil, err
	}

	return &category, nil
}

func (r *PostgresRepository) ListCategories(ctx context.Context) ([]models.Category, error) {
	query := `SELECT * FROM categories ORDER BY id`

	var categories []models.Category
	err := r.db.SelectContext(ctx, &categories, query)
	if err != nil {
		return nil, err
	}

	return categories, nil
}

// Account repository methods
func (r *PostgresRepository) CreateAccount(ctx context.Context, account *models.Account) error {
	query := `
		INSERT INTO accounts (id, category_id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	now := time.Now().UTC()
	account.CreatedAt = now
	account.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, query,
		account.ID, account.CategoryID, account.Name, account.Description,
		account.CreatedAt, account.UpdatedAt)

	return err
}

func (r *PostgresRepository) UpdateAccount(ctx context.Context, account *models.Account) error {
	query := `
		UPDATE accounts
		SET category_id = $1, name = $2, description = $3, updated_at = $4
		WHERE id = $5
	`

	account.UpdatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx, query,
		account.CategoryID, account.Name, account.Description,
		account.UpdatedAt, account.ID)

	return err
}

// DeleteAccount removes an account and its ledger entries.
func (r *PostgresRepository) DeleteAccount(ctx context.Context, accountID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			tx.Rollback()
			return
		}
	}()

	_, err = tx.ExecContext(ctx, `DELETE FROM ledger_entries WHERE account_id = $1`, accountID)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, accountID)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *PostgresRepository) GetAccount(ctx context.Context, accountID string) (*models.AccountWithCategory, error) {
	query := `
		SELECT a.*, c.name AS category_name, c.entry_type AS category_entry_type
		FROM accounts a
		JOIN categories c ON c.id = a.category_id
		WHERE a.id = $1
	`

	var account models.AccountWithCategory
	err := r.db.GetContext(ctx, &account, query, accountID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Account not found
		}
		return nil, err
	}

	return &account, nil
}

func (r *PostgresRepository) ListAccounts(ctx context.Context, categoryID string) ([]models.AccountWithCategory, error) {
	query := `
		SELECT a.*, c.name AS category_name, c.entry_type AS category_entry_type
		FROM accounts a
		JOIN categories c ON c.id = a.category_id
	`

	args := []interface{}{}
	if categoryID != "" {
		query += ` WHERE a.category_id = $1`
		args = append(args, categoryID)
	}
	query += ` ORDER BY c.id, a.name`

	var accounts []models.AccountWithCategory
	err := r.db.SelectContext(ctx, &accounts, query, args...)
	if err != nil {
		return nil, err
	}

	return accounts, nil
}

// Ledger entry repository methods
func (r *PostgresRepository) CreateEntry(ctx context.Context, entry *models.LedgerEntry) error {
	query := `
		INSERT INTO ledger_entries (id, date, category_id, account_id, statement, receivable, debt, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	now := time.Now().UTC()
	entry.CreatedAt = now
	entry.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, query,
		entry.ID, entry.Date, entry.CategoryID, entry.AccountID, entry.Statement,
		entry.Receivable, entry.Debt, entry.CreatedAt, entry.UpdatedAt)

	return err
}

// CreateEntries inserts a batch atomically. Either the whole balanced batch
// lands or none of it does.
func (r *PostgresRepository) CreateEntries(ctx context.Context, entries []models.LedgerEntry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			tx.Rollback()
			return
		}
	}()

	query := `
		INSERT INTO ledger_entries (id, date, category_id, account_id, statement, receivable, debt, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	now := time.Now().UTC()
	for i := range entries {
		entries[i].CreatedAt = now
		entries[i].UpdatedAt = now
		_, err = tx.ExecContext(ctx, query,
			entries[i].ID, entries[i].Date, entries[i].CategoryID, entries[i].AccountID,
			entries[i].Statement, entries[i].Receivable, entries[i].Debt,
			entries[i].CreatedAt, entries[i].UpdatedAt)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *PostgresRepository) UpdateEntry(ctx context.Context, entry *models.LedgerEntry) error {
	query := `
		UPDATE ledger_entries
		SET date = $1, category_id = $2, account_id = $3, statement = $4, receivable = $5, debt = $6, updated_at = $7
		WHERE id = $8
	`

	entry.UpdatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx, query,
		entry.Date, entry.CategoryID, entry.AccountID, entry.Statement,
		entry.Receivable, entry.Debt, entry.UpdatedAt, entry.ID)

	return err
}

func (r *PostgresRepository) DeleteEntry(ctx context.Context, entryID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM ledger_entries WHERE id = $1`, entryID)
	return err
}

func (r *PostgresRepository) GetEntry(ctx context.Context, entryID string) (*models.LedgerEntry, error) {
	query := `SELECT * FROM ledger_entries WHERE id = $1`

	var entry models.LedgerEntry
	err := r.db.GetContext(ctx, &entry, query, entryID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Entry not found
		}
		return nil, err
	}

	return &entry, nil
}

func (r *PostgresRepository) ListEntries(ctx context.Context, filter EntryFilter) ([]models.LedgerEntryWithRelations, error) {
	query := `
		SELECT e.*, a.name AS account_name, c.name AS category_name
		FROM ledger_entries e
		JOIN accounts a ON a.id = e.account_id
		JOIN categories c ON c.id = e.category_id
		WHERE 1 = 1
	`

	args := []interface{}{}
	addClause := func(clause string, value interface{}) {
		args = append(args, value)
		query += clause + strconv.Itoa(len(args))
	}

	if filter.StartDate != nil {
		addClause(` AND e.date >= $`, *filter.StartDate)
	}
	if filter.EndDate != nil {
		addClause(` AND e.date <= $`, *filter.EndDate)
	}
	if filter.CategoryID != "" {
		addClause(` AND e.category_id = $`, filter.CategoryID)
	}
	if filter.AccountID != "" {
		addClause(` AND e.account_id = $`, filter.AccountID)
	}

	query += ` ORDER BY e.date DESC, e.created_at DESC, e.id DESC`

	var entries []models.LedgerEntryWithRelations
	err := r.db.SelectContext(ctx, &entries, query, args...)
	if err != nil {
		return nil, err
	}

	return entries, nil
}

// EntriesInWindow returns one account's entries inside [start, end] in the
// stable statement order: date, then insertion order for same-date entries.
func (r *PostgresRepository) EntriesInWindow(ctx context.Context, accountID string, start, end models.Date) ([]models.LedgerEntry, error) {
	query := `
		SELECT * FROM ledger_entries
		WHERE account_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date ASC, created_at ASC, id ASC
	`

	var entries []models.LedgerEntry
	err := r.db.SelectContext(ctx, &entries, query, accountID, start, end)
	if err != nil {
		return nil, err
	}

	return entries, nil
}

// SumsBefore returns the debt and receivable totals for entries dated
// strictly before the given date, feeding the opening balance.
func (r *PostgresRepository) SumsBefore(ctx context.Context, accountID string, before models.Date) (decimal.Decimal, decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(debt), 0) AS debt, COALESCE(SUM(receivable), 0) AS receivable
		FROM ledger_entries
		WHERE account_id = $1 AND date < $2
	`

	var sums struct {
		Debt       decimal.Decimal `db:"debt"`
		Receivable decimal.Decimal `db:"receivable"`
	}
	err := r.db.GetContext(ctx, &sums, query, accountID, before)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	return sums.Debt, sums.Receivable, nil
}

// AccountActivity aggregates per-account totals over a window, optionally
// restricted to one category. Accounts without entries in the window are
// included with zero totals so the "all" filter can show them.
func (r *PostgresRepository) AccountActivity(ctx context.Context, start, end models.Date, categoryID *string) ([]models.AccountActivity, error) {
	query := `
		SELECT
			a.id AS account_id,
			a.name AS account_name,
			c.id AS category_id,
			c.name AS category_name,
			c.entry_type AS category_entry_type,
			COALESCE(SUM(e.debt), 0) AS total_debt,
			COALESCE(SUM(e.receivable), 0) AS total_receivable,
			COUNT(e.id) AS entry_count
		FROM accounts a
		JOIN categories c ON c.id = a.category_id
		LEFT JOIN ledger_entries e
			ON e.account_id = a.id AND e.date >= $1 AND e.date <= $2
		WHERE $3::text IS NULL OR a.category_id = $3
		GROUP BY a.id, a.name, c.id, c.name, c.entry_type
		ORDER BY c.id, a.name
	`

	var activity []models.AccountActivity
	err := r.db.SelectContext(ctx, &activity, query, start, end, categoryID)
	if err != nil {
		return nil, err
	}

	return activity, nil
}

// Draft repository methods

// SaveDraft upserts a draft row. The coordinator assigns the id up front,
// so insert-vs-update is decided by the database.
func (r *PostgresRepository) SaveDraft(ctx context.Context, d *models.LedgerDraft) error {
	query := `
		INSERT INTO ledger_drafts (id, date, entries, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		ON CONFLICT (id) DO UPDATE
		SET date = EXCLUDED.date, entries = EXCLUDED.entries, updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.ExecContext(ctx, query, d.ID, d.Date, d.Entries, time.Now().UTC())
	return err
}

func (r *PostgresRepository) DeleteDraft(ctx context.Context, draftID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM ledger_drafts WHERE id = $1`, draftID)
	return err
}

func (r *PostgresRepository) GetDraft(ctx context.Context, draftID string) (*models.LedgerDraft, error) {
	query := `SELECT * FROM ledger_drafts WHERE id = $1`

	var d models.LedgerDraft
	err := r.db.GetContext(ctx, &d, query, draftID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Draft not found
		}
		return nil, err
	}

	return &d, nil
}

func (r *PostgresRepository) ListDrafts(ctx context.Context) ([]models.LedgerDraft, error) {
	query := `SELECT * FROM ledger_drafts ORDER BY updated_at DESC`

	var drafts []models.LedgerDraft
	err := r.db.SelectContext(ctx, &drafts, query)
	if err != nil {
		return nil, err
	}

	return drafts, nil
}

// Report repository methods
func (r *PostgresRepository) CreateReport(ctx context.Context, report *models.Report) error {
	query := `
		INSERT INTO reports (id, user_id, type, title, parameters, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	now := time.Now().UTC()
	report.CreatedAt = now
	report.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, query,
		report.ID, report.UserID, report.Type, report.Title, report.Parameters,
		report.CreatedAt, report.UpdatedAt)

	return err
}

func (r *PostgresRepository) DeleteReport(ctx context.Context, reportID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM reports WHERE id = $1`, reportID)
	return err
}

func (r *PostgresRepository) GetReport(ctx context.Context, reportID string) (*models.Report, error) {
	query := `SELECT * FROM reports WHERE id = $1`

	var report models.Report
	err := r.db.GetContext(ctx, &report, query, reportID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Report not found
		}
		return nil, err
	}

	return &report, nil
}

func (r *PostgresRepository) ListReports(ctx context.Context, userID string) ([]models.Report, error) {
	query := `SELECT * FROM reports WHERE user_id = $1 ORDER BY created_at DESC`

	var reports []models.Report
	err := r.db.SelectContext(ctx, &reports, query, userID)
	if err != nil {
		return nil, err
	}

	return reports, nil
}
