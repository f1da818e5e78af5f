package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"fintrack/internal/api"
	"fintrack/internal/api/handlers"
	"fintrack/internal/dto"
	"fintrack/internal/models"
	"fintrack/internal/service"
	"fintrack/pkg/auth"
	"fintrack/pkg/config"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// memStore backs the transaction, analytics and export services in tests.
type memStore struct {
	transactions []models.Transaction
	total        int64
	monthly      []models.MonthlyCategorySum

	gotFilter models.TransactionFilter
	gotOpts   models.ListOptions
}

func (m *memStore) List(_ context.Context, f models.TransactionFilter, opts models.ListOptions) ([]models.Transaction, int64, error) {
	m.gotFilter = f
	m.gotOpts = opts
	return m.transactions, m.total, nil
}

func (m *memStore) FindAll(_ context.Context, f models.TransactionFilter) ([]models.Transaction, error) {
	m.gotFilter = f
	return m.transactions, nil
}

func (m *memStore) SumByCategory(_ context.Context, category string) (float64, error) {
	var sum float64
	for _, tx := range m.transactions {
		if tx.Category == category {
			sum += tx.Amount
		}
	}
	return sum, nil
}

func (m *memStore) Count(_ context.Context) (int64, error) {
	return int64(len(m.transactions)), nil
}

func (m *memStore) CategorySums(_ context.Context) ([]models.CategorySum, error) {
	totals := map[string]float64{}
	for _, tx := range m.transactions {
		totals[tx.Category] += tx.Amount
	}
	var sums []models.CategorySum
	for _, category := range []string{"Expense", "Revenue"} {
		if total, ok := totals[category]; ok {
			sums = append(sums, models.CategorySum{Category: category, Total: total})
		}
	}
	return sums, nil
}

func (m *memStore) MonthlyCategorySums(_ context.Context) ([]models.MonthlyCategorySum, error) {
	return m.monthly, nil
}

type memUsers struct {
	byEmail map[string]*models.User
}

func (m *memUsers) Create(_ context.Context, user *models.User) error {
	m.byEmail[user.Email] = user
	return nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	user, ok := m.byEmail[email]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return user, nil
}

type memTokens struct {
	revoked map[string]bool
}

func (m *memTokens) Blacklist(_ context.Context, token string, _ time.Time) error {
	m.revoked[token] = true
	return nil
}

func (m *memTokens) IsBlacklisted(_ context.Context, token string) (bool, error) {
	return m.revoked[token], nil
}

type testEnv struct {
	app    *fiber.App
	store  *memStore
	tokens *memTokens
	jwt    *auth.JWTManager
}

func newTestEnv(t *testing.T, store *memStore) *testEnv {
	t.Helper()
	log := zap.NewNop()
	jwtManager := auth.NewJWTManager("test-secret", 24*time.Hour)
	tokens := &memTokens{revoked: map[string]bool{}}
	users := &memUsers{byEmail: map[string]*models.User{}}

	authService := service.NewAuthService(users, tokens, jwtManager, log)
	txService := service.NewTransactionService(store, log)
	analyticsService := service.NewAnalyticsService(store, log)
	exportService := service.NewExportService(store, &config.ExportConfig{Scope: config.ScopeGlobal}, log)

	app := api.SetupRouter(
		handlers.NewAuthHandler(authService, log),
		handlers.NewTransactionHandler(txService, exportService, log),
		handlers.NewAnalyticsHandler(analyticsService, log),
		jwtManager,
		tokens,
		log,
	)

	return &testEnv{app: app, store: store, tokens: tokens, jwt: jwtManager}
}

func (e *testEnv) get(t *testing.T, path, token string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.app.Test(req)
	if err != nil {
		t.Fatalf("request %s failed: %v", path, err)
	}
	return resp
}

func (e *testEnv) postJSON(t *testing.T, path string, body any) *http.Response {
	t.Helper()
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	resp, err := e.app.Test(req)
	if err != nil {
		t.Fatalf("request %s failed: %v", path, err)
	}
	return resp
}

func (e *testEnv) token(t *testing.T) string {
	t.Helper()
	token, err := e.jwt.GenerateToken("caller-id")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	return token
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return out
}

func fixture() []models.Transaction {
	return []models.Transaction{
		{ID: 1, Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), Amount: 100, Category: "Revenue", Status: "Paid", UserID: "user_001", UserProfile: "a.png"},
		{ID: 2, Date: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), Amount: 200, Category: "Revenue", Status: "Paid", UserID: "user_002", UserProfile: "b.png"},
		{ID: 3, Date: time.Date(2024, 4, 3, 0, 0, 0, 0, time.UTC), Amount: 300, Category: "Revenue", Status: "Pending", UserID: "user_001", UserProfile: "a.png"},
		{ID: 4, Date: time.Date(2024, 4, 4, 0, 0, 0, 0, time.UTC), Amount: 50, Category: "Expense", Status: "Paid", UserID: "user_002", UserProfile: "b.png"},
		{ID: 5, Date: time.Date(2024, 4, 5, 0, 0, 0, 0, time.UTC), Amount: 75, Category: "Expense", Status: "Pending", UserID: "user_001", UserProfile: "a.png"},
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	env := newTestEnv(t, &memStore{})

	paths := []string{
		"/transactions",
		"/transactions/export",
		"/transactions/analytics/summary",
		"/transactions/analytics/category",
		"/transactions/analytics/trend",
		"/users/logout",
	}
	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			resp := env.get(t, path, "")
			if resp.StatusCode != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", resp.StatusCode)
			}
		})
	}
}

func TestListTransactions(t *testing.T) {
	store := &memStore{transactions: fixture(), total: 5}
	env := newTestEnv(t, store)

	resp := env.get(t, "/transactions?page=abc&limit=xyz", env.token(t))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	list := decode[dto.TransactionListResponse](t, resp)
	if list.Page != 1 || list.Limit != 10 {
		t.Errorf("non-numeric page/limit must default, got %d/%d", list.Page, list.Limit)
	}
	if list.Total != 5 || list.TotalPages != 1 {
		t.Errorf("total/totalPages = %d/%d, want 5/1", list.Total, list.TotalPages)
	}
	if len(list.Transactions) != 5 {
		t.Errorf("got %d transactions", len(list.Transactions))
	}
	if list.Transactions[0].UserID != "user_001" {
		t.Errorf("wire user_id = %q", list.Transactions[0].UserID)
	}
}

func TestListTransactionsFilterParams(t *testing.T) {
	store := &memStore{}
	env := newTestEnv(t, store)

	resp := env.get(t,
		"/transactions?category=Revenue&status=Paid&user_id=user_001&startDate=2024-01-01&endDate=2024-06-30&minAmount=0&maxAmount=500&search=rev&sortBy=amount&order=asc&page=2&limit=3",
		env.token(t))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	f := store.gotFilter
	if f.Category != "Revenue" || f.Status != "Paid" || f.UserID != "user_001" || f.Search != "rev" {
		t.Errorf("filter = %+v", f)
	}
	if f.StartDate == nil || f.StartDate.Format("2006-01-02") != "2024-01-01" {
		t.Errorf("startDate = %v", f.StartDate)
	}
	if f.EndDate == nil || f.EndDate.Format("2006-01-02") != "2024-06-30" {
		t.Errorf("endDate = %v", f.EndDate)
	}
	if f.MinAmount == nil || *f.MinAmount != 0 {
		t.Error("minAmount=0 must arrive as a present zero bound")
	}
	if f.MaxAmount == nil || *f.MaxAmount != 500 {
		t.Errorf("maxAmount = %v", f.MaxAmount)
	}
	if store.gotOpts.SortBy != "amount" || store.gotOpts.Order != "asc" {
		t.Errorf("sort = %+v", store.gotOpts)
	}
	if store.gotOpts.Page != 2 || store.gotOpts.Limit != 3 {
		t.Errorf("page/limit = %d/%d", store.gotOpts.Page, store.gotOpts.Limit)
	}
}

func TestListTransactionsBadDate(t *testing.T) {
	env := newTestEnv(t, &memStore{})

	resp := env.get(t, "/transactions?startDate=notadate", env.token(t))
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", resp.StatusCode)
	}
}

func TestExportCSVEndpoint(t *testing.T) {
	store := &memStore{transactions: fixture()}
	env := newTestEnv(t, store)

	resp := env.get(t, "/transactions/export?columns=date,amount", env.token(t))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := resp.Header.Get("Content-Disposition"); cd != "attachment; filename=transactions.csv" {
		t.Errorf("Content-Disposition = %q", cd)
	}

	body, _ := io.ReadAll(resp.Body)
	lines := strings.Split(strings.TrimSpace(string(body)), "\n")
	if lines[0] != "date,amount" {
		t.Errorf("header = %q", lines[0])
	}
	if len(lines)-1 != len(store.transactions) {
		t.Errorf("got %d rows, want %d", len(lines)-1, len(store.transactions))
	}
}

func TestExportCSVUnknownColumnEndpoint(t *testing.T) {
	env := newTestEnv(t, &memStore{})

	resp := env.get(t, "/transactions/export?columns=date,nope", env.token(t))
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestAnalyticsEndpoints(t *testing.T) {
	store := &memStore{
		transactions: fixture(),
		monthly: []models.MonthlyCategorySum{
			{Year: 2024, Month: 3, Category: "Revenue", Total: 300},
			{Year: 2024, Month: 4, Category: "Revenue", Total: 300},
			{Year: 2024, Month: 4, Category: "Expense", Total: 125},
		},
	}
	env := newTestEnv(t, store)
	token := env.token(t)

	t.Run("summary", func(t *testing.T) {
		resp := env.get(t, "/transactions/analytics/summary", token)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d", resp.StatusCode)
		}
		summary := decode[dto.SummaryResponse](t, resp)
		want := dto.SummaryResponse{TotalRevenue: 600, TotalExpense: 125, TransactionCount: 5}
		if summary != want {
			t.Errorf("summary = %+v, want %+v", summary, want)
		}
	})

	t.Run("category", func(t *testing.T) {
		resp := env.get(t, "/transactions/analytics/category", token)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d", resp.StatusCode)
		}
		breakdown := decode[[]dto.CategoryValue](t, resp)
		if len(breakdown) != 2 {
			t.Fatalf("got %d categories", len(breakdown))
		}
	})

	t.Run("trend", func(t *testing.T) {
		resp := env.get(t, "/transactions/analytics/trend", token)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d", resp.StatusCode)
		}
		trend := decode[[]dto.TrendPoint](t, resp)
		want := []dto.TrendPoint{
			{Month: "2024-03", Revenue: 300, Expense: 0},
			{Month: "2024-04", Revenue: 300, Expense: 125},
		}
		if len(trend) != len(want) {
			t.Fatalf("got %d points, want %d", len(trend), len(want))
		}
		for i := range want {
			if trend[i] != want[i] {
				t.Errorf("trend[%d] = %+v, want %+v", i, trend[i], want[i])
			}
		}
	})
}

func TestAuthFlow(t *testing.T) {
	env := newTestEnv(t, &memStore{})

	register := map[string]any{
		"email":    "jane@example.com",
		"password": "hunter2secret",
		"fullname": map[string]string{"firstname": "Jane", "lastname": "Doe"},
	}

	resp := env.postJSON(t, "/users/register", register)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register status = %d, want 201", resp.StatusCode)
	}
	created := decode[dto.AuthResponse](t, resp)
	if created.Token == "" || created.User.Email != "jane@example.com" {
		t.Fatalf("register response = %+v", created)
	}

	// duplicate registration
	if resp := env.postJSON(t, "/users/register", register); resp.StatusCode != http.StatusConflict {
		t.Errorf("duplicate register status = %d, want 409", resp.StatusCode)
	}

	// wrong password and unknown email are both 401
	for _, login := range []map[string]any{
		{"email": "jane@example.com", "password": "wrongpass"},
		{"email": "nobody@example.com", "password": "hunter2secret"},
	} {
		if resp := env.postJSON(t, "/users/login", login); resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("login %v status = %d, want 401", login, resp.StatusCode)
		}
	}

	resp = env.postJSON(t, "/users/login", map[string]any{"email": "jane@example.com", "password": "hunter2secret"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d, want 200", resp.StatusCode)
	}
	logged := decode[dto.AuthResponse](t, resp)

	// the issued token opens protected routes
	if resp := env.get(t, "/transactions", logged.Token); resp.StatusCode != http.StatusOK {
		t.Fatalf("list with fresh token status = %d", resp.StatusCode)
	}

	// logout revokes it
	if resp := env.get(t, "/users/logout", logged.Token); resp.StatusCode != http.StatusOK {
		t.Fatalf("logout status = %d", resp.StatusCode)
	}
	if !env.tokens.revoked[logged.Token] {
		t.Error("logout did not blacklist the token")
	}
	if resp := env.get(t, "/transactions", logged.Token); resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("revoked token status = %d, want 401", resp.StatusCode)
	}
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t, &memStore{})

	resp := env.postJSON(t, "/users/register", map[string]any{
		"email":    "bad",
		"password": "",
		"fullname": map[string]string{"firstname": ""},
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}

	body := decode[map[string][]dto.FieldError](t, resp)
	if len(body["errors"]) != 3 {
		t.Errorf("got %d field errors, want 3: %v", len(body["errors"]), body["errors"])
	}
}
