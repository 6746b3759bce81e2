package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/my-dora-hotel/ledger-server/internal/models"
	"github.com/my-dora-hotel/ledger-server/internal/service"
)

// Handler wires the service layer to Gin routes.
type Handler struct {
	svc service.Service
}

// NewHandler creates a new API handler
func NewHandler(svc service.Service) *Handler {
	return &Handler{svc: svc}
}

// SetupRoutes registers all API routes on the router.
func (h *Handler) SetupRoutes(router *gin.Engine) {
	api := router.Group("/api")

	api.POST("/auth/signup", h.signUp)
	api.POST("/auth/login", h.login)

	authorized := api.Group("")
	authorized.Use(AuthMiddleware())
	{
		authorized.GET("/categories", h.listCategories)
		authorized.POST("/categories", h.createCategory)
		authorized.PUT("/categories/:id", h.updateCategory)
		authorized.DELETE("/categories/:id", h.deleteCategory)

		authorized.GET("/accounts", h.listAccounts)
		authorized.POST("/accounts", h.createAccount)
		authorized.PUT("/accounts/:id", h.updateAccount)
		authorized.DELETE("/accounts/:id", h.deleteAccount)

		authorized.GET("/entries", h.listEntries)
		authorized.POST("/entries", h.createEntry)
		authorized.POST("/entries/batch", h.submitBatch)
		authorized.PUT("/entries/:id", h.updateEntry)
		authorized.DELETE("/entries/:id", h.deleteEntry)

		authorized.GET("/drafts", h.listDrafts)
		authorized.PUT("/drafts/autosave", h.autosaveDraft)
		authorized.POST("/drafts/:id/flush", h.flushDraft)
		authorized.DELETE("/drafts/:id", h.deleteDraft)

		authorized.GET("/reports", h.listReports)
		authorized.POST("/reports", h.createReport)
		authorized.GET("/reports/statement", h.accountStatement)
		authorized.GET("/reports/summary", h.accountSummary)
		authorized.GET("/reports/:id", h.getReport)
		authorized.DELETE("/reports/:id", h.deleteReport)
		authorized.GET("/reports/:id/export", h.exportReport)
	}
}

// handleError maps service and ledger errors to HTTP responses.
func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Status: "error", Code: "NOT_FOUND", Message: err.Error(),
		})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, models.ErrorResponse{
			Status: "error", Code: "FORBIDDEN", Message: err.Error(),
		})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{
			Status: "error", Code: "UNAUTHORIZED", Message: err.Error(),
		})
	case errors.Is(err, service.ErrEmailTaken), errors.Is(err, service.ErrCategoryExists):
		c.JSON(http.StatusConflict, models.ErrorResponse{
			Status: "error", Code: "CONFLICT", Message: err.Error(),
		})
	case service.IsValidationError(err):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Status: "error", Code: "VALIDATION_ERROR", Message: err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Status: "error", Code: "INTERNAL_ERROR", Message: err.Error(),
		})
	}
}

func (h *Handler) bindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Status: "error", Code: "BAD_REQUEST", Message: err.Error(),
	})
}

func (h *Handler) userID(c *gin.Context) string {
	return c.GetString("userId")
}

// Auth handlers
func (h *Handler) signUp(c *gin.Context) {
	var req models.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	resp, err := h.svc.SignUp(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *Handler) login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Category handlers
func (h *Handler) listCategories(c *gin.Context) {
	categories, err := h.svc.ListCategories(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (h *Handler) createCategory(c *gin.Context) {
	var req models.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	category, err := h.svc.CreateCategory(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

func (h *Handler) updateCategory(c *gin.Context) {
	var req models.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	category, err := h.svc.UpdateCategory(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

func (h *Handler) deleteCategory(c *gin.Context) {
	if err := h.svc.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// Account handlers
func (h *Handler) listAccounts(c *gin.Context) {
	accounts, err := h.svc.ListAccounts(c.Request.Context(), c.Query("categoryId"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, accounts)
}

func (h *Handler) createAccount(c *gin.Context) {
	var req models.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	account, err := h.svc.CreateAccount(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, account)
}

func (h *Handler) updateAccount(c *gin.Context) {
	var req models.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	account, err := h.svc.UpdateAccount(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, account)
}

func (h *Handler) deleteAccount(c *gin.Context) {
	if err := h.svc.DeleteAccount(c.Request.Context(), c.Param("id")); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// Ledger entry handlers
func (h *Handler) listEntries(c *gin.Context) {
	filter := service.EntryListFilter{
		StartDate:  c.Query("startDate"),
		EndDate:    c.Query("endDate"),
		CategoryID: c.Query("categoryId"),
		AccountID:  c.Query("accountId"),
		Search:     c.Query("search"),
	}

	entries, err := h.svc.ListEntries(c.Request.Context(), filter)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (h *Handler) createEntry(c *gin.Context) {
	var req models.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	entry, err := h.svc.CreateEntry(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (h *Handler) submitBatch(c *gin.Context) {
	var req models.SubmitBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	resp, err := h.svc.SubmitEntryBatch(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *Handler) updateEntry(c *gin.Context) {
	var req models.UpdateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	entry, err := h.svc.UpdateEntry(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h *Handler) deleteEntry(c *gin.Context) {
	if err := h.svc.DeleteEntry(c.Request.Context(), c.Param("id")); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// Draft handlers
func (h *Handler) listDrafts(c *gin.Context) {
	drafts, err := h.svc.ListDrafts(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, drafts)
}

func (h *Handler) autosaveDraft(c *gin.Context) {
	var req models.AutosaveDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	draftID, err := h.svc.AutosaveDraft(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.AutosaveDraftResponse{Status: "success", DraftID: draftID})
}

func (h *Handler) flushDraft(c *gin.Context) {
	if err := h.svc.FlushDraft(c.Request.Context(), c.Param("id")); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

func (h *Handler) deleteDraft(c *gin.Context) {
	if err := h.svc.DeleteDraft(c.Request.Context(), c.Param("id")); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// Report handlers
func (h *Handler) listReports(c *gin.Context) {
	reports, err := h.svc.ListReports(c.Request.Context(), h.userID(c))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, reports)
}

func (h *Handler) createReport(c *gin.Context) {
	var req models.CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	report, err := h.svc.CreateReport(c.Request.Context(), h.userID(c), req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, report)
}

func (h *Handler) accountStatement(c *gin.Context) {
	params := models.ReportParameters{
		StartDate: c.Query("startDate"),
		EndDate:   c.Query("endDate"),
		AccountID: c.Query("accountId"),
	}

	result, err := h.svc.AccountStatement(c.Request.Context(), params)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) accountSummary(c *gin.Context) {
	params := models.ReportParameters{
		StartDate:    c.Query("startDate"),
		EndDate:      c.Query("endDate"),
		FilterOption: c.Query("filterOption"),
	}
	if categoryID := c.Query("categoryId"); categoryID != "" {
		params.CategoryID = &categoryID
	}

	result, err := h.svc.AccountSummary(c.Request.Context(), params)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) getReport(c *gin.Context) {
	result, err := h.svc.GetReport(c.Request.Context(), h.userID(c), c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) deleteReport(c *gin.Context) {
	if err := h.svc.DeleteReport(c.Request.Context(), h.userID(c), c.Param("id")); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

func (h *Handler) exportReport(c *gin.Context) {
	format := c.DefaultQuery("format", "csv")

	file, err := h.svc.ExportReport(c.Request.Context(), h.userID(c), c.Param("id"), format)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+file.Filename+`"`)
	c.Data(http.StatusOK, file.ContentType, file.Content)
}
