package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/my-dora-hotel/ledger-server/internal/draft"
	"github.com/my-dora-hotel/ledger-server/internal/ledger"
	"github.com/my-dora-hotel/ledger-server/internal/models"
	"github.com/my-dora-hotel/ledger-server/internal/repository"
	"github.com/my-dora-hotel/ledger-server/internal/utils"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrEmailTaken         = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrCategoryExists     = errors.New("category code already in use")
	ErrValidation         = errors.New("validation failed")
)

// IsValidationError reports whether an error should map to a 400 response:
// service-level validation plus every rejection the ledger package raises.
func IsValidationError(err error) bool {
	var unbalanced *ledger.UnbalancedError
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ledger.ErrMissingDate) ||
		errors.Is(err, ledger.ErrMissingAccount) ||
		errors.Is(err, ledger.ErrInvalidAmount) ||
		errors.Is(err, ledger.ErrTypeNotAllowed) ||
		errors.Is(err, ledger.ErrEmptyBatch) ||
		errors.As(err, &unbalanced)
}

// EntryListFilter is the query surface of the entry list endpoint.
type EntryListFilter struct {
	StartDate  string
	EndDate    string
	CategoryID string
	AccountID  string
	Search     string
}

// StatementResult is an executed account statement with its context.
type StatementResult struct {
	Account   *models.AccountWithCategory `json:"account"`
	StartDate string                      `json:"startDate"`
	EndDate   string                      `json:"endDate"`
	AllTime   bool                        `json:"allTime"`
	Statement *ledger.Statement           `json:"statement"`
}

// SummaryResult is an executed account summary with its context.
type SummaryResult struct {
	Category     *models.Category `json:"category"`
	StartDate    string           `json:"startDate"`
	EndDate      string           `json:"endDate"`
	AllTime      bool             `json:"allTime"`
	FilterOption string           `json:"filterOption"`
	Summary      *ledger.Summary  `json:"summary"`
}

// ReportWithData is a saved report plus its freshly executed aggregation.
// Exactly one of Statement and Summary is set depending on the type.
type ReportWithData struct {
	Report    models.Report    `json:"report"`
	Statement *StatementResult `json:"statement,omitempty"`
	Summary   *SummaryResult   `json:"summary,omitempty"`
}

// ExportFile is a generated one-way export, never read back.
type ExportFile struct {
	Filename    string
	ContentType string
	Content     []byte
}

// Service defines all the business logic operations
type Service interface {
	// Authentication
	SignUp(ctx context.Context, req models.SignUpRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)

	// Categories
	CreateCategory(ctx context.Context, req models.CreateCategoryRequest) (*models.Category, error)
	UpdateCategory(ctx context.Context, categoryID string, req models.UpdateCategoryRequest) (*models.Category, error)
	DeleteCategory(ctx context.Context, categoryID string) error
	ListCategories(ctx context.Context) ([]models.Category, error)

	// Accounts
	CreateAccount(ctx context.Context, req models.CreateAccountRequest) (*models.Account, error)
	UpdateAccount(ctx context.Context, accountID string, req models.UpdateAccountRequest) (*models.Account, error)
	DeleteAccount(ctx context.Context, accountID string) error
	ListAccounts(ctx context.Context, categoryID string) ([]models.AccountWithCategory, error)

	// Ledger entries
	ListEntries(ctx context.Context, filter EntryListFilter) ([]models.LedgerEntryWithRelations, error)
	CreateEntry(ctx context.Context, req models.CreateEntryRequest) (*models.LedgerEntry, error)
	UpdateEntry(ctx context.Context, entryID string, req models.UpdateEntryRequest) (*models.LedgerEntry, error)
	DeleteEntry(ctx context.Context, entryID string) error
	SubmitEntryBatch(ctx context.Context, req models.SubmitBatchRequest) (*models.SubmitBatchResponse, error)

	// Drafts
	ListDrafts(ctx context.Context) ([]models.LedgerDraft, error)
	AutosaveDraft(ctx context.Context, req models.AutosaveDraftRequest) (string, error)
	FlushDraft(ctx context.Context, draftID string) error
	DeleteDraft(ctx context.Context, draftID string) error

	// Reports
	AccountStatement(ctx context.Context, params models.ReportParameters) (*StatementResult, error)
	AccountSummary(ctx context.Context, params models.ReportParameters) (*SummaryResult, error)
	CreateReport(ctx context.Context, userID string, req models.CreateReportRequest) (*models.Report, error)
	GetReport(ctx context.Context, userID, reportID string) (*ReportWithData, error)
	ListReports(ctx context.Context, userID string) ([]models.Report, error)
	DeleteReport(ctx context.Context, userID, reportID string) error
	ExportReport(ctx context.Context, userID, reportID, format string) (*ExportFile, error)
}

// DefaultService implements the Service interface
type DefaultService struct {
	repo          repository.Repository
	jwtSecret     []byte
	tokenDuration time.Duration
	coordinator   *draft.Coordinator
	reportCache   *cache.Cache
	log           *slog.Logger
}

// NewDefaultService creates a new DefaultService
func NewDefaultService(repo repository.Repository, jwtSecret string, coordinator *draft.Coordinator, log *slog.Logger) Service {
	return &DefaultService{
		repo:          repo,
		jwtSecret:     []byte(jwtSecret),
		tokenDuration: 24 * time.Hour, // 24 hours token validity
		coordinator:   coordinator,
		reportCache:   cache.New(5*time.Minute, 10*time.Minute),
		log:           log,
	}
}

// Authentication methods
func (s *DefaultService) SignUp(ctx context.Context, req models.SignUpRequest) (*models.AuthResponse, error) {
	existingUser, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("error checking user existence: %w", err)
	}

	if existingUser != nil {
		return nil, ErrEmailTaken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		ID:       uuid.New().String(),
		Email:    req.Email,
		Name:     utils.SanitizeText(req.Name),
		Password: string(hashedPassword),
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return &models.AuthResponse{
		Status: "success",
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
	}, nil
}

func (s *DefaultService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("error getting user: %w", err)
	}

	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.generateJWT(user)
	if err != nil {
		return nil, fmt.Errorf("error generating token: %w", err)
	}

	return &models.AuthResponse{
		Status:    "success",
		UserID:    user.ID,
		Token:     token,
		ExpiresIn: int(s.tokenDuration.Seconds()),
	}, nil
}

// Category methods
func (s *DefaultService) CreateCategory(ctx context.Context, req models.CreateCategoryRequest) (*models.Category, error) {
	existing, err := s.repo.GetCategory(ctx, req.ID)
	if err != nil {
		return nil, fmt.Errorf("error checking category existence: %w", err)
	}
	if existing != nil {
		return nil, ErrCategoryExists
	}

	category := &models.Category{
		ID:                req.ID,
		Name:              utils.SanitizeText(req.Name),
		EntryType:         req.EntryType,
		AdvancePeriodDays: req.AdvancePeriodDays,
	}
	if category.Name == "" {
		return nil, fmt.Errorf("%w: category name is required", ErrValidation)
	}

	if err := s.repo.CreateCategory(ctx, category); err != nil {
		return nil, fmt.Errorf("error creating category: %w", err)
	}

	s.reportCache.Flush()
	return category, nil
}

func (s *DefaultService) UpdateCategory(ctx context.Context, categoryID string, req models.UpdateCategoryRequest) (*models.Category, error) {
	category, err := s.repo.GetCategory(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("error getting category: %w", err)
	}
	if category == nil {
		return nil, ErrNotFound
	}

	category.Name = utils.SanitizeText(req.Name)
	category.EntryType = req.EntryType
	category.AdvancePeriodDays = req.AdvancePeriodDays
	if category.Name == "" {
		return nil, fmt.Errorf("%w: category name is required", ErrValidation)
	}

	if err := s.repo.UpdateCategory(ctx, category); err != nil {
		return nil, fmt.Errorf("error updating category: %w", err)
	}

	s.reportCache.Flush()
	return category, nil
}

// DeleteCategory cascades to the category's accounts and their entries.
// Destructive and irreversible by design.
func (s *DefaultService) DeleteCategory(ctx context.Context, categoryID string) error {
	category, err := s.repo.GetCategory(ctx, categoryID)
	if err != nil {
		return fmt.Errorf("error getting category: %w", err)
	}
	if category == nil {
		return ErrNotFound
	}

	if err := s.repo.DeleteCategory(ctx, categoryID); err != nil {
		return fmt.Errorf("error deleting category: %w", err)
	}

	s.reportCache.Flush()
	return nil
}

func (s *DefaultService) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing categories: %w", err)
	}
	return categories, nil
}

// Account methods
func (s *DefaultService) CreateAccount(ctx context.Context, req models.CreateAccountRequest) (*models.Account, error) {
	category, err := s.repo.GetCategory(ctx, req.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("error getting category: %w", err)
	}
	if category == nil {
		return nil, fmt.Errorf("%w: category %q does not exist", ErrValidation, req.CategoryID)
	}

	account := &models.Account{
		ID:          uuid.New().String(),
		CategoryID:  req.CategoryID,
		Name:        utils.SanitizeText(req.Name),
		Description: sanitizeOptional(req.Description),
	}
	if account.Name == "" {
		return nil, fmt.Errorf("%w: account name is required", ErrValidation)
	}

	if err := s.repo.CreateAccount(ctx, account); err != nil {
		return nil, fmt.Errorf("error creating account: %w", err)
	}

	s.reportCache.Flush()
	return account, nil
}

func (s *DefaultService) UpdateAccount(ctx context.Context, accountID string, req models.UpdateAccountRequest) (*models.Account, error) {
	existing, err := s.repo.GetAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("error getting account: %w", err)
	}
	if existing == nil {
		return nil, ErrNotFound
	}

	category, err := s.repo.GetCategory(ctx, req.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("error getting category: %w", err)
	}
	if category == nil {
		return nil, fmt.Errorf("%w: category %q does not exist", ErrValidation, req.CategoryID)
	}

	account := existing.Account
	account.CategoryID = req.CategoryID
	account.Name = utils.SanitizeText(req.Name)
	account.Description = sanitizeOptional(req.Description)
	if account.Name == "" {
		return nil, fmt.Errorf("%w: account name is required", ErrValidation)
	}

	if err := s.repo.UpdateAccount(ctx, &account); err != nil {
		return nil, fmt.Errorf("error updating account: %w", err)
	}

	s.reportCache.Flush()
	return &account, nil
}

func (s *DefaultService) DeleteAccount(ctx context.Context, accountID string) error {
	account, err := s.repo.GetAccount(ctx, accountID)
	if err != nil {
		return fmt.Errorf("error getting account: %w", err)
	}
	if account == nil {
		return ErrNotFound
	}

	if err := s.repo.DeleteAccount(ctx, accountID); err != nil {
		return fmt.Errorf("error deleting account: %w", err)
	}

	s.reportCache.Flush()
	return nil
}

func (s *DefaultService) ListAccounts(ctx context.Context, categoryID string) ([]models.AccountWithCategory, error) {
	accounts, err := s.repo.ListAccounts(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("error listing accounts: %w", err)
	}
	return accounts, nil
}

// Ledger entry methods
func (s *DefaultService) ListEntries(ctx context.Context, filter EntryListFilter) ([]models.LedgerEntryWithRelations, error) {
	repoFilter := repository.EntryFilter{
		CategoryID: filter.CategoryID,
		AccountID:  filter.AccountID,
	}
	if filter.StartDate != "" {
		start, err := models.ParseDate(filter.StartDate)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		repoFilter.StartDate = &start
	}
	if filter.EndDate != "" {
		end, err := models.ParseDate(filter.EndDate)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		repoFilter.EndDate = &end
	}

	entries, err := s.repo.ListEntries(ctx, repoFilter)
	if err != nil {
		return nil, fmt.Errorf("error listing entries: %w", err)
	}

	if filter.Search == "" {
		return entries, nil
	}

	// Search matches the statement text or the account name, folded for
	// Turkish casing so "is veren" finds "İş Veren".
	matched := make([]models.LedgerEntryWithRelations, 0, len(entries))
	for _, entry := range entries {
		statement := ""
		if entry.Statement != nil {
			statement = *entry.Statement
		}
		if utils.MatchesSearch(statement, filter.Search) || utils.MatchesSearch(entry.AccountName, filter.Search) {
			matched = append(matched, entry)
		}
	}
	return matched, nil
}

func (s *DefaultService) buildEntry(ctx context.Context, id, dateStr, accountID, statement, entryType, amount string) (*models.LedgerEntry, error) {
	date, err := models.ParseDate(dateStr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	account, err := s.repo.GetAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("error getting account: %w", err)
	}
	if account == nil {
		return nil, fmt.Errorf("%w: account %q does not exist", ErrValidation, accountID)
	}

	row := ledger.Row{
		AccountID:         account.ID,
		CategoryID:        account.CategoryID,
		CategoryEntryType: account.CategoryEntryType,
		Statement:         utils.SanitizeText(statement),
		Type:              entryType,
		Amount:            amount,
	}
	if err := ledger.ValidateRow(date, row); err != nil {
		return nil, err
	}

	parsed, _ := ledger.ParseAmount(amount)
	entry := &models.LedgerEntry{
		ID:         id,
		Date:       date,
		CategoryID: account.CategoryID,
		AccountID:  account.ID,
	}
	if row.Statement != "" {
		statementCopy := row.Statement
		entry.Statement = &statementCopy
	}
	if entryType == models.EntryTypeDebt {
		entry.Debt = parsed
		entry.Receivable = decimal.Zero
	} else {
		entry.Receivable = parsed
		entry.Debt = decimal.Zero
	}
	return entry, nil
}

func (s *DefaultService) CreateEntry(ctx context.Context, req models.CreateEntryRequest) (*models.LedgerEntry, error) {
	entry, err := s.buildEntry(ctx, uuid.New().String(), req.Date, req.AccountID, req.Statement, req.Type, req.Amount)
	if err != nil {
		return nil, err
	}

	if err := s.repo.CreateEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("error creating entry: %w", err)
	}

	s.reportCache.Flush()
	return entry, nil
}

func (s *DefaultService) UpdateEntry(ctx context.Context, entryID string, req models.UpdateEntryRequest) (*models.LedgerEntry, error) {
	existing, err := s.repo.GetEntry(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("error getting entry: %w", err)
	}
	if existing == nil {
		return nil, ErrNotFound
	}

	entry, err := s.buildEntry(ctx, entryID, req.Date, req.AccountID, req.Statement, req.Type, req.Amount)
	if err != nil {
		return nil, err
	}
	entry.CreatedAt = existing.CreatedAt

	if err := s.repo.UpdateEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("error updating entry: %w", err)
	}

	s.reportCache.Flush()
	return entry, nil
}

func (s *DefaultService) DeleteEntry(ctx context.Context, entryID string) error {
	entry, err := s.repo.GetEntry(ctx, entryID)
	if err != nil {
		return fmt.Errorf("error getting entry: %w", err)
	}
	if entry == nil {
		return ErrNotFound
	}

	if err := s.repo.DeleteEntry(ctx, entryID); err != nil {
		return fmt.Errorf("error deleting entry: %w", err)
	}

	s.reportCache.Flush()
	return nil
}

// SubmitEntryBatch validates and commits a balanced multi-row batch. The
// net-zero check happens before any write: there is no partial-write
// rollback across rows, the batch lands in one transaction or not at all.
// On success the originating draft, if any, is deleted.
func (s *DefaultService) SubmitEntryBatch(ctx context.Context, req models.SubmitBatchRequest) (*models.SubmitBatchResponse, error) {
	date, err := models.ParseDate(req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	rows := make([]ledger.Row, 0, len(req.Rows))
	for _, reqRow := range req.Rows {
		row := ledger.Row{
			AccountID: reqRow.AccountID,
			Statement: utils.SanitizeText(reqRow.Statement),
			Type:      reqRow.Type,
			Amount:    reqRow.Amount,
		}
		if reqRow.AccountID != "" {
			account, err := s.repo.GetAccount(ctx, reqRow.AccountID)
			if err != nil {
				return nil, fmt.Errorf("error getting account: %w", err)
			}
			if account == nil {
				return nil, fmt.Errorf("%w: account %q does not exist", ErrValidation, reqRow.AccountID)
			}
			row.CategoryID = account.CategoryID
			row.CategoryEntryType = account.CategoryEntryType
		}
		rows = append(rows, row)
	}

	entries, err := ledger.BuildBatch(date, rows)
	if err != nil {
		return nil, err
	}

	if err := s.repo.CreateEntries(ctx, entries); err != nil {
		return nil, fmt.Errorf("error creating entries: %w", err)
	}

	if req.DraftID != "" {
		s.coordinator.Discard(req.DraftID)
		if err := s.repo.DeleteDraft(ctx, req.DraftID); err != nil {
			// The batch is committed; a leftover draft row is harmless.
			s.log.Error("failed to delete draft after commit", "draftId", req.DraftID, "error", err)
		}
	}

	s.reportCache.Flush()
	return &models.SubmitBatchResponse{
		Status:       "success",
		Entries:      entries,
		EntriesCount: len(entries),
	}, nil
}

// Draft methods
func (s *DefaultService) ListDrafts(ctx context.Context) ([]models.LedgerDraft, error) {
	drafts, err := s.repo.ListDrafts(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing drafts: %w", err)
	}
	return drafts, nil
}

// AutosaveDraft schedules a debounced persist of the latest snapshot and
// returns the draft id, assigning one on the first call. Snapshots without
// any account selected are ignored.
func (s *DefaultService) AutosaveDraft(ctx context.Context, req models.AutosaveDraftRequest) (string, error) {
	hasData := false
	for _, entry := range req.Entries {
		if entry.AccountID != "" {
			hasData = true
			break
		}
	}
	if !hasData {
		return req.DraftID, nil
	}

	var date *models.Date
	if req.Date != nil && *req.Date != "" {
		parsed, err := models.ParseDate(*req.Date)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrValidation, err)
		}
		date = &parsed
	}

	draftID := req.DraftID
	if draftID == "" {
		draftID = uuid.New().String()
	}

	s.coordinator.Autosave(draftID, date, models.DraftEntryList(req.Entries))
	return draftID, nil
}

// FlushDraft persists any pending snapshot immediately. Errors are logged
// and swallowed: autosave is best-effort and the dialog is already closing.
func (s *DefaultService) FlushDraft(ctx context.Context, draftID string) error {
	if err := s.coordinator.Flush(ctx, draftID); err != nil {
		s.log.Error("draft flush failed", "draftId", draftID, "error", err)
	}
	return nil
}

func (s *DefaultService) DeleteDraft(ctx context.Context, draftID string) error {
	s.coordinator.Discard(draftID)

	d, err := s.repo.GetDraft(ctx, draftID)
	if err != nil {
		return fmt.Errorf("error getting draft: %w", err)
	}
	if d == nil {
		return ErrNotFound
	}

	if err := s.repo.DeleteDraft(ctx, draftID); err != nil {
		return fmt.Errorf("error deleting draft: %w", err)
	}
	return nil
}

// Report methods
func (s *DefaultService) AccountStatement(ctx context.Context, params models.ReportParameters) (*StatementResult, error) {
	if params.AccountID == "" {
		return nil, fmt.Errorf("%w: accountId is required", ErrValidation)
	}
	start, err := models.ParseDate(params.StartDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	end, err := models.ParseDate(params.EndDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	cacheKey := "statement|" + params.AccountID + "|" + params.StartDate + "|" + params.EndDate
	if cached, ok := s.reportCache.Get(cacheKey); ok {
		return cached.(*StatementResult), nil
	}

	account, err := s.repo.GetAccount(ctx, params.AccountID)
	if err != nil {
		return nil, fmt.Errorf("error getting account: %w", err)
	}
	if account == nil {
		return nil, ErrNotFound
	}

	debtBefore, receivableBefore, err := s.repo.SumsBefore(ctx, params.AccountID, start)
	if err != nil {
		return nil, fmt.Errorf("error computing opening balance: %w", err)
	}

	entries, err := s.repo.EntriesInWindow(ctx, params.AccountID, start, end)
	if err != nil {
		return nil, fmt.Errorf("error loading entries: %w", err)
	}

	result := &StatementResult{
		Account:   account,
		StartDate: params.StartDate,
		EndDate:   params.EndDate,
		AllTime:   ledger.IsAllTime(params.StartDate, params.EndDate),
		Statement: ledger.BuildStatement(ledger.OpeningNet(debtBefore, receivableBefore), entries),
	}
	s.reportCache.SetDefault(cacheKey, result)
	return result, nil
}

func (s *DefaultService) AccountSummary(ctx context.Context, params models.ReportParameters) (*SummaryResult, error) {
	start, err := models.ParseDate(params.StartDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	end, err := models.ParseDate(params.EndDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	filter, err := ledger.ParseFilterOption(params.FilterOption)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	categoryKey := ""
	if params.CategoryID != nil {
		categoryKey = *params.CategoryID
	}
	cacheKey := "summary|" + categoryKey + "|" + string(filter) + "|" + params.StartDate + "|" + params.EndDate
	if cached, ok := s.reportCache.Get(cacheKey); ok {
		return cached.(*SummaryResult), nil
	}

	var category *models.Category
	if params.CategoryID != nil {
		category, err = s.repo.GetCategory(ctx, *params.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("error getting category: %w", err)
		}
		if category == nil {
			return nil, ErrNotFound
		}
	}

	activity, err := s.repo.AccountActivity(ctx, start, end, params.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("error aggregating accounts: %w", err)
	}

	result := &SummaryResult{
		Category:     category,
		StartDate:    params.StartDate,
		EndDate:      params.EndDate,
		AllTime:      ledger.IsAllTime(params.StartDate, params.EndDate),
		FilterOption: string(filter),
		Summary:      ledger.BuildSummary(activity, filter),
	}
	s.reportCache.SetDefault(cacheKey, result)
	return result, nil
}

func (s *DefaultService) CreateReport(ctx context.Context, userID string, req models.CreateReportRequest) (*models.Report, error) {
	var accountName, categoryName string

	switch req.Type {
	case models.ReportTypeAccountStatement:
		if req.Parameters.AccountID == "" {
			return nil, fmt.Errorf("%w: accountId is required for a statement report", ErrValidation)
		}
		account, err := s.repo.GetAccount(ctx, req.Parameters.AccountID)
		if err != nil {
			return nil, fmt.Errorf("error getting account: %w", err)
		}
		if account == nil {
			return nil, fmt.Errorf("%w: account %q does not exist", ErrValidation, req.Parameters.AccountID)
		}
		accountName = account.Name
	case models.ReportTypeAccountSummary:
		if _, err := ledger.ParseFilterOption(req.Parameters.FilterOption); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		if req.Parameters.CategoryID != nil {
			category, err := s.repo.GetCategory(ctx, *req.Parameters.CategoryID)
			if err != nil {
				return nil, fmt.Errorf("error getting category: %w", err)
			}
			if category == nil {
				return nil, fmt.Errorf("%w: category %q does not exist", ErrValidation, *req.Parameters.CategoryID)
			}
			categoryName = category.Name
		}
	}

	if _, err := models.ParseDate(req.Parameters.StartDate); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if _, err := models.ParseDate(req.Parameters.EndDate); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	title := utils.SanitizeText(req.Title)
	if title == "" {
		title = ledger.GenerateTitle(req.Type, req.Parameters, accountName, categoryName)
	}

	report := &models.Report{
		ID:         uuid.New().String(),
		UserID:     userID,
		Type:       req.Type,
		Title:      title,
		Parameters: req.Parameters,
	}

	if err := s.repo.CreateReport(ctx, report); err != nil {
		return nil, fmt.Errorf("error creating report: %w", err)
	}

	return report, nil
}

// GetReport re-executes the saved query specification; reports never cache
// results.
func (s *DefaultService) GetReport(ctx context.Context, userID, reportID string) (*ReportWithData, error) {
	report, err := s.getOwnedReport(ctx, userID, reportID)
	if err != nil {
		return nil, err
	}

	result := &ReportWithData{Report: *report}
	switch report.Type {
	case models.ReportTypeAccountStatement:
		result.Statement, err = s.AccountStatement(ctx, report.Parameters)
	case models.ReportTypeAccountSummary:
		result.Summary, err = s.AccountSummary(ctx, report.Parameters)
	default:
		err = fmt.Errorf("%w: unknown report type %q", ErrValidation, report.Type)
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *DefaultService) ListReports(ctx context.Context, userID string) ([]models.Report, error) {
	reports, err := s.repo.ListReports(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing reports: %w", err)
	}
	return reports, nil
}

func (s *DefaultService) DeleteReport(ctx context.Context, userID, reportID string) error {
	if _, err := s.getOwnedReport(ctx, userID, reportID); err != nil {
		return err
	}

	if err := s.repo.DeleteReport(ctx, reportID); err != nil {
		return fmt.Errorf("error deleting report: %w", err)
	}
	return nil
}

func (s *DefaultService) getOwnedReport(ctx context.Context, userID, reportID string) (*models.Report, error) {
	report, err := s.repo.GetReport(ctx, reportID)
	if err != nil {
		return nil, fmt.Errorf("error getting report: %w", err)
	}
	if report == nil {
		return nil, ErrNotFound
	}
	if report.UserID != userID {
		return nil, ErrForbidden
	}
	return report, nil
}

// Helper methods
func (s *DefaultService) generateJWT(user *models.User) (string, error) {
	expirationTime := time.Now().Add(s.tokenDuration)

	claims := jwt.MapClaims{
		"sub": user.ID, // subject
		"exp": expirationTime.Unix(),
		"iat": time.Now().Unix(), // issued at
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func sanitizeOptional(s *string) *string {
	if s == nil {
		return nil
	}
	clean := utils.SanitizeText(*s)
	if clean == "" {
		return nil
	}
	return &clean
}
