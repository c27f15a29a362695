package http

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/config"
	"fintrack/internal/services"
	"fintrack/internal/storage"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	cfg := &config.Config{
		Port:           "0",
		JWTSecret:      "unit-test-secret-key",
		TokenTTL:       time.Hour,
		UploadDir:      t.TempDir(),
		MaxUploadBytes: 1 << 20,
	}
	srv := NewServer(cfg, Services{
		Auth:       services.NewAuthService(repo),
		Accounts:   services.NewAccountService(repo),
		Categories: services.NewCategoryService(repo),
		Ledger:     services.NewLedgerService(repo, nil),
		Importer:   services.NewImporterService(repo),
		Budgets:    services.NewBudgetService(repo),
		Analytics:  services.NewAnalyticsService(repo),
	}, repo.Ping)

	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(ts.Close)
	return ts
}

// doJSON sends a request and returns the status code and raw body.
func doJSON(t *testing.T, ts *httptest.Server, method, path, token string, body any) (int, []byte) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		rd = bytes.NewReader(buf)
	}
	req, err := http.NewRequest(method, ts.URL+path, rd)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	return resp.StatusCode, data
}

func decodeInto(t *testing.T, data []byte, v any) {
	t.Helper()
	if err := json.Unmarshal(data, v); err != nil {
		t.Fatalf("decode response %s: %v", data, err)
	}
}

func registerTestUser(t *testing.T, ts *httptest.Server) (string, uuid.UUID) {
	t.Helper()
	status, body := doJSON(t, ts, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": "test@example.com", "name": "Test User", "password": "password123",
	})
	if status != http.StatusCreated {
		t.Fatalf("register status = %d: %s", status, body)
	}
	var resp authResponse
	decodeInto(t, body, &resp)
	if resp.Token == "" {
		t.Fatal("register returned no token")
	}
	return resp.Token, resp.User.ID
}

// findCategoryID picks a seeded category of the wanted type via the API.
func findCategoryID(t *testing.T, ts *httptest.Server, token, typ string) uuid.UUID {
	t.Helper()
	status, body := doJSON(t, ts, http.MethodGet, "/api/categories", token, nil)
	if status != http.StatusOK {
		t.Fatalf("list categories status = %d: %s", status, body)
	}
	var categories []categoryView
	decodeInto(t, body, &categories)
	for _, c := range categories {
		if c.Type == typ {
			return c.ID
		}
	}
	t.Fatalf("no %s category among %d seeded", typ, len(categories))
	return uuid.Nil
}

func createTestAccount(t *testing.T, ts *httptest.Server, token string, balance float64) accountView {
	t.Helper()
	status, body := doJSON(t, ts, http.MethodPost, "/api/accounts", token, map[string]any{
		"name": "Checking", "type": "checking", "balance": balance,
	})
	if status != http.StatusCreated {
		t.Fatalf("create account status = %d: %s", status, body)
	}
	var a accountView
	decodeInto(t, body, &a)
	return a
}

func TestHealthAndIndex(t *testing.T) {
	ts := newTestServer(t)

	status, body := doJSON(t, ts, http.MethodGet, "/healthz", "", nil)
	if status != http.StatusOK || string(body) != "ok" {
		t.Errorf("healthz = %d %q", status, body)
	}
	status, body = doJSON(t, ts, http.MethodGet, "/readyz", "", nil)
	if status != http.StatusOK || string(body) != "ready" {
		t.Errorf("readyz = %d %q", status, body)
	}
	status, body = doJSON(t, ts, http.MethodGet, "/", "", nil)
	if status != http.StatusOK || !strings.Contains(string(body), "<form") {
		t.Errorf("index = %d, expected the embedded login page", status)
	}
}

func TestAuthFlow(t *testing.T) {
	ts := newTestServer(t)
	token, userID := registerTestUser(t, ts)

	// The same email cannot register twice.
	status, _ := doJSON(t, ts, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": "test@example.com", "name": "Again", "password": "password123",
	})
	if status != http.StatusConflict {
		t.Errorf("duplicate register status = %d", status)
	}

	status, body := doJSON(t, ts, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "test@example.com", "password": "password123",
	})
	if status != http.StatusOK {
		t.Fatalf("login status = %d: %s", status, body)
	}

	status, body = doJSON(t, ts, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "test@example.com", "password": "wrong password",
	})
	if status != http.StatusUnauthorized {
		t.Errorf("bad login status = %d", status)
	}
	if !strings.Contains(string(body), "invalid credentials") {
		t.Errorf("bad login body = %s", body)
	}

	status, body = doJSON(t, ts, http.MethodGet, "/api/auth/me", token, nil)
	if status != http.StatusOK {
		t.Fatalf("me status = %d: %s", status, body)
	}
	var me userView
	decodeInto(t, body, &me)
	if me.ID != userID || me.Email != "test@example.com" {
		t.Errorf("me = %+v", me)
	}
}

func TestAuthRequired(t *testing.T) {
	ts := newTestServer(t)

	for _, token := range []string{"", "garbage", "Bearerless"} {
		status, _ := doJSON(t, ts, http.MethodGet, "/api/auth/me", token, nil)
		if status != http.StatusUnauthorized {
			t.Errorf("token %q: status = %d, want 401", token, status)
		}
	}
	status, _ := doJSON(t, ts, http.MethodGet, "/api/accounts", "", nil)
	if status != http.StatusUnauthorized {
		t.Errorf("unauthenticated list accounts status = %d", status)
	}
}

func TestUnknownJSONFieldRejected(t *testing.T) {
	ts := newTestServer(t)
	status, body := doJSON(t, ts, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": "test@example.com", "name": "Test", "password": "password123", "role": "admin",
	})
	if status != http.StatusBadRequest {
		t.Errorf("unknown field status = %d: %s", status, body)
	}
}

func TestAccountLifecycle(t *testing.T) {
	ts := newTestServer(t)
	token, _ := registerTestUser(t, ts)

	a := createTestAccount(t, ts, token, 100)
	if a.Balance != 100 || a.InitialBalance != 100 || !a.IsActive {
		t.Fatalf("created account = %+v", a)
	}

	// Rename through the allow-listed update.
	status, body := doJSON(t, ts, http.MethodPut, "/api/accounts/"+a.ID.String(), token, map[string]any{
		"name": "Main Checking",
	})
	if status != http.StatusOK {
		t.Fatalf("update status = %d: %s", status, body)
	}
	var updated accountView
	decodeInto(t, body, &updated)
	if updated.Name != "Main Checking" || updated.Balance != 100 {
		t.Errorf("updated account = %+v", updated)
	}

	// Balance is not part of the update surface.
	status, _ = doJSON(t, ts, http.MethodPut, "/api/accounts/"+a.ID.String(), token, map[string]any{
		"balance": 9999,
	})
	if status != http.StatusBadRequest {
		t.Errorf("balance update status = %d, want 400", status)
	}

	// An account with no transactions is removed outright.
	status, body = doJSON(t, ts, http.MethodDelete, "/api/accounts/"+a.ID.String(), token, nil)
	if status != http.StatusOK {
		t.Fatalf("delete status = %d: %s", status, body)
	}
	var del struct {
		Deactivated bool `json:"deactivated"`
	}
	decodeInto(t, body, &del)
	if del.Deactivated {
		t.Error("unused account was deactivated instead of deleted")
	}
	status, _ = doJSON(t, ts, http.MethodGet, "/api/accounts/"+a.ID.String(), token, nil)
	if status != http.StatusNotFound {
		t.Errorf("deleted account status = %d, want 404", status)
	}
}

func TestTransactionFlowAdjustsBalance(t *testing.T) {
	ts := newTestServer(t)
	token, _ := registerTestUser(t, ts)
	account := createTestAccount(t, ts, token, 100)
	expenseCat := findCategoryID(t, ts, token, "expense")

	status, body := doJSON(t, ts, http.MethodPost, "/api/transactions", token, map[string]any{
		"accountId":   account.ID.String(),
		"categoryId":  expenseCat.String(),
		"amount":      25.50,
		"type":        "expense",
		"date":        "2026-03-01",
		"description": "groceries",
	})
	if status != http.StatusCreated {
		t.Fatalf("create transaction status = %d: %s", status, body)
	}
	var created transactionView
	decodeInto(t, body, &created)
	if created.Amount != 25.50 || created.Date != "2026-03-01" {
		t.Errorf("created transaction = %+v", created)
	}

	status, body = doJSON(t, ts, http.MethodGet, "/api/accounts/"+account.ID.String(), token, nil)
	if status != http.StatusOK {
		t.Fatalf("get account status = %d", status)
	}
	var a accountView
	decodeInto(t, body, &a)
	if a.Balance != 74.50 {
		t.Errorf("balance after expense = %v, want 74.50", a.Balance)
	}

	status, body = doJSON(t, ts, http.MethodGet, "/api/transactions?type=expense", token, nil)
	if status != http.StatusOK {
		t.Fatalf("list status = %d", status)
	}
	var page transactionPage
	decodeInto(t, body, &page)
	if page.Total != 1 || len(page.Transactions) != 1 {
		t.Errorf("page = %+v", page)
	}

	// Deleting the transaction restores the balance.
	status, _ = doJSON(t, ts, http.MethodDelete, "/api/transactions/"+created.ID.String(), token, nil)
	if status != http.StatusNoContent {
		t.Fatalf("delete transaction status = %d", status)
	}
	_, body = doJSON(t, ts, http.MethodGet, "/api/accounts/"+account.ID.String(), token, nil)
	decodeInto(t, body, &a)
	if a.Balance != 100 {
		t.Errorf("balance after delete = %v, want 100", a.Balance)
	}
}

func TestErrorStatusMapping(t *testing.T) {
	ts := newTestServer(t)
	token, _ := registerTestUser(t, ts)
	account := createTestAccount(t, ts, token, 100)
	incomeCat := findCategoryID(t, ts, token, "income")

	// Unknown resource.
	status, _ := doJSON(t, ts, http.MethodGet, "/api/accounts/"+uuid.NewString(), token, nil)
	if status != http.StatusNotFound {
		t.Errorf("unknown account status = %d, want 404", status)
	}

	// Category type must match the transaction type.
	status, _ = doJSON(t, ts, http.MethodPost, "/api/transactions", token, map[string]any{
		"accountId":   account.ID.String(),
		"categoryId":  incomeCat.String(),
		"amount":      10,
		"type":        "expense",
		"date":        "2026-03-01",
		"description": "mismatch",
	})
	if status != http.StatusConflict {
		t.Errorf("category mismatch status = %d, want 409", status)
	}

	// Validation failures carry field details.
	status, body := doJSON(t, ts, http.MethodPost, "/api/accounts", token, map[string]any{
		"name": "", "type": "checking", "balance": 10,
	})
	if status != http.StatusBadRequest {
		t.Errorf("invalid account status = %d, want 400", status)
	}
	var errResp errorBody
	decodeInto(t, body, &errResp)
	if len(errResp.Fields) == 0 {
		t.Errorf("validation response has no fields: %s", body)
	}
}

func TestUploadCSVPreview(t *testing.T) {
	ts := newTestServer(t)
	token, _ := registerTestUser(t, ts)

	upload := func(filename, content string) (int, []byte) {
		t.Helper()
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		fw, err := mw.CreateFormFile("file", filename)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := io.WriteString(fw, content); err != nil {
			t.Fatalf("write form file: %v", err)
		}
		mw.Close()

		req, err := http.NewRequest(http.MethodPost, ts.URL+"/api/upload", &buf)
		if err != nil {
			t.Fatalf("build request: %v", err)
		}
		req.Header.Set("Content-Type", mw.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := ts.Client().Do(req)
		if err != nil {
			t.Fatalf("upload: %v", err)
		}
		defer resp.Body.Close()
		data, _ := io.ReadAll(resp.Body)
		return resp.StatusCode, data
	}

	status, body := upload("statement.csv", "date,description,amount\n2026-03-01,coffee,-3.50\n2026-03-02,salary,2500\n")
	if status != http.StatusOK {
		t.Fatalf("upload status = %d: %s", status, body)
	}
	var resp struct {
		Transactions []struct {
			Date   string  `json:"date"`
			Amount float64 `json:"amount"`
		} `json:"transactions"`
	}
	decodeInto(t, body, &resp)
	if len(resp.Transactions) != 2 {
		t.Fatalf("preview rows = %d, want 2", len(resp.Transactions))
	}
	if resp.Transactions[0].Amount != -3.50 || resp.Transactions[1].Amount != 2500 {
		t.Errorf("preview amounts = %+v", resp.Transactions)
	}

	status, _ = upload("statement.txt", "date,description,amount\n")
	if status != http.StatusBadRequest {
		t.Errorf("non-CSV upload status = %d, want 400", status)
	}
}
