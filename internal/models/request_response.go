package models

// Request models
type SignUpRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type CreateCategoryRequest struct {
	ID                string `json:"id" binding:"required,max=32"`
	Name              string `json:"name" binding:"required"`
	EntryType         string `json:"entryType" binding:"required,oneof=debt receivable both"`
	AdvancePeriodDays *int   `json:"advancePeriodDays"`
}

// UpdateCategoryRequest has no id field: category codes are immutable.
type UpdateCategoryRequest struct {
	Name              string `json:"name" binding:"required"`
	EntryType         string `json:"entryType" binding:"required,oneof=debt receivable both"`
	AdvancePeriodDays *int   `json:"advancePeriodDays"`
}

type CreateAccountRequest struct {
	CategoryID  string  `json:"categoryId" binding:"required"`
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
}

type UpdateAccountRequest struct {
	CategoryID  string  `json:"categoryId" binding:"required"`
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
}

// CreateEntryRequest is the single-entry path. Amount arrives as the string
// the user typed and is validated server-side.
type CreateEntryRequest struct {
	Date      string `json:"date" binding:"required"`
	AccountID string `json:"accountId" binding:"required"`
	Statement string `json:"statement"`
	Type      string `json:"type" binding:"required,oneof=debt receivable"`
	Amount    string `json:"amount" binding:"required"`
}

type UpdateEntryRequest struct {
	Date      string `json:"date" binding:"required"`
	AccountID string `json:"accountId" binding:"required"`
	Statement string `json:"statement"`
	Type      string `json:"type" binding:"required,oneof=debt receivable"`
	Amount    string `json:"amount" binding:"required"`
}

// BatchRowRequest is one row of a multi-entry submission.
type BatchRowRequest struct {
	AccountID string `json:"accountId"`
	Statement string `json:"statement"`
	Type      string `json:"type"`
	Amount    string `json:"amount"`
}

// SubmitBatchRequest commits a balanced multi-entry batch. DraftID, when
// set, names the autosaved draft to delete after a successful commit.
type SubmitBatchRequest struct {
	Date    string            `json:"date" binding:"required"`
	DraftID string            `json:"draftId"`
	Rows    []BatchRowRequest `json:"rows" binding:"required"`
}

// AutosaveDraftRequest carries the latest snapshot of an in-progress batch.
type AutosaveDraftRequest struct {
	DraftID string       `json:"draftId"`
	Date    *string      `json:"date"`
	Entries []DraftEntry `json:"entries" binding:"required"`
}

type CreateReportRequest struct {
	Type       string           `json:"type" binding:"required,oneof=account_statement account_summary"`
	Title      string           `json:"title"`
	Parameters ReportParameters `json:"parameters" binding:"required"`
}

// Response models
type AuthResponse struct {
	Status    string `json:"status"`
	UserID    string `json:"userId,omitempty"`
	Email     string `json:"email,omitempty"`
	Name      string `json:"name,omitempty"`
	Token     string `json:"token,omitempty"`
	ExpiresIn int    `json:"expiresIn,omitempty"`
}

type AutosaveDraftResponse struct {
	Status  string `json:"status"`
	DraftID string `json:"draftId"`
}

type SubmitBatchResponse struct {
	Status       string        `json:"status"`
	Entries      []LedgerEntry `json:"entries"`
	EntriesCount int           `json:"entriesCount"`
}

type ErrorResponse struct {
	Status  string `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}
