package testutils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/my-dora-hotel/ledger-server/internal/api"
	"github.com/my-dora-hotel/ledger-server/internal/config"
	"github.com/my-dora-hotel/ledger-server/internal/draft"
	"github.com/my-dora-hotel/ledger-server/internal/models"
	"github.com/my-dora-hotel/ledger-server/internal/repository"
	"github.com/my-dora-hotel/ledger-server/internal/service"
	"github.com/my-dora-hotel/ledger-server/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// TestContext holds all dependencies for tests
type TestContext struct {
	Router      *gin.Engine
	Repository  repository.Repository
	Service     service.Service
	Coordinator *draft.Coordinator
	JWTSecret   []byte
	DB          *sqlx.DB
	TestUserID  string
	TestUserJWT string
}

// SetupTestContext creates a new test context with initialized dependencies
func SetupTestContext(t *testing.T) *TestContext {
	cfg, err := config.LoadConfig()
	require.NoError(t, err, "Failed to load configuration")

	// Point at the dedicated test database
	if cfg.Database.TestDBName != "" {
		cfg.Database.DBName = cfg.Database.TestDBName
	} else {
		cfg.Database.DBName = "ledger_test"
	}

	if cfg.Auth.JWTSecret == "" {
		cfg.Auth.JWTSecret = "test-secret-key"
	}

	// Set up database
	db, err := config.SetupDatabase(cfg)
	require.NoError(t, err, "Failed to set up test database")

	logger := utils.NewLogger("error")

	// Create repository
	repo := repository.NewPostgresRepository(db)

	// Short debounce keeps autosave tests fast
	coordinator := draft.NewCoordinator(repo, logger, 20*time.Millisecond)

	// Create service
	svc := service.NewDefaultService(repo, cfg.Auth.JWTSecret, coordinator, logger)

	// Create API handler
	handler := api.NewHandler(svc)

	// Set up Gin router
	gin.SetMode(gin.TestMode)
	router := gin.Default()

	// Add middleware for JWT secret
	router.Use(func(c *gin.Context) {
		c.Set("jwtSecret", []byte(cfg.Auth.JWTSecret))
		c.Next()
	})

	// Set up routes
	handler.SetupRoutes(router)

	// Create test user if needed
	testUserID, token := createTestUser(t, repo, cfg.Auth.JWTSecret)

	return &TestContext{
		Router:      router,
		Repository:  repo,
		Service:     svc,
		Coordinator: coordinator,
		JWTSecret:   []byte(cfg.Auth.JWTSecret),
		DB:          db,
		TestUserID:  testUserID,
		TestUserJWT: token,
	}
}

// CleanupTestContext cleans up test resources
func CleanupTestContext(t *TestContext) {
	if t.DB != nil {
		cleanupTestDatabase(nil, t.Repository)
		t.DB.Close()
	}
}

// cleanupTestDatabase removes any existing test data. Children go first so
// the foreign keys never block a delete.
func cleanupTestDatabase(t *testing.T, repo repository.Repository) {
	pgRepo, ok := repo.(*repository.PostgresRepository)
	if !ok {
		return
	}
	db := pgRepo.GetDB()

	tables := []string{
		"reports",
		"ledger_drafts",
		"ledger_entries",
		"accounts",
		"categories",
		"users",
	}
	for _, table := range tables {
		_, err := db.Exec("DELETE FROM " + table)
		if t != nil && err != nil {
			t.Logf("Warning: Failed to clean %s: %v", table, err)
		}
	}
}

// Helper functions
func createTestUser(t *testing.T, repo repository.Repository, jwtSecret string) (string, string) {
	// Clean up any existing test data first
	cleanupTestDatabase(t, repo)

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("testpassword"), bcrypt.DefaultCost)

	user := &models.User{
		ID:        uuid.New().String(),
		Email:     "testuser@example.com",
		Name:      "Test User",
		Password:  string(hashedPassword),
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	err := repo.CreateUser(context.Background(), user)
	assert.NoError(t, err, "Failed to create test user")

	// Generate JWT token with the provided secret key
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": user.ID,
		"exp": time.Now().Add(24 * time.Hour).Unix(),
		"iat": time.Now().Unix(),
	})

	tokenString, err := token.SignedString([]byte(jwtSecret))
	assert.NoError(t, err, "Failed to generate JWT token")

	return user.ID, tokenString
}

// CreateTestCategory inserts a category directly through the API.
func CreateTestCategory(t *testing.T, ctx *TestContext, id, name, entryType string) models.Category {
	req := models.CreateCategoryRequest{
		ID:        id,
		Name:      name,
		EntryType: entryType,
	}

	w := PerformRequest(ctx.Router, http.MethodPost, "/api/categories", req, AuthHeaders(ctx.TestUserJWT))
	require.Equal(t, http.StatusCreated, w.Code, "Failed to create test category: %s", w.Body.String())

	var category models.Category
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &category))
	return category
}

// CreateTestAccount inserts an account under the given category.
func CreateTestAccount(t *testing.T, ctx *TestContext, categoryID, name string) models.Account {
	req := models.CreateAccountRequest{
		CategoryID: categoryID,
		Name:       name,
	}

	w := PerformRequest(ctx.Router, http.MethodPost, "/api/accounts", req, AuthHeaders(ctx.TestUserJWT))
	require.Equal(t, http.StatusCreated, w.Code, "Failed to create test account: %s", w.Body.String())

	var account models.Account
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &account))
	return account
}

// CreateTestEntry inserts a single ledger entry for the account.
func CreateTestEntry(t *testing.T, ctx *TestContext, accountID, date, entryType, amount string) models.LedgerEntry {
	req := models.CreateEntryRequest{
		Date:      date,
		AccountID: accountID,
		Type:      entryType,
		Amount:    amount,
	}

	w := PerformRequest(ctx.Router, http.MethodPost, "/api/entries", req, AuthHeaders(ctx.TestUserJWT))
	require.Equal(t, http.StatusCreated, w.Code, "Failed to create test entry: %s", w.Body.String())

	var entry models.LedgerEntry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entry))
	return entry
}

// PerformRequest executes an HTTP request against the router
func PerformRequest(r http.Handler, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer

	if body != nil {
		jsonBody, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBody)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// AuthHeaders returns headers with Authorization token
func AuthHeaders(token string) map[string]string {
	return map[string]string{
		"Authorization": fmt.Sprintf("Bearer %s", token),
	}
}
