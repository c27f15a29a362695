package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"fintrack/internal/core"
	"fintrack/internal/storage"
)

func newTestStorage(t *testing.T) *storage.SQLiteRepository {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

// registerUser creates a user through the real registration flow, so the
// default categories are seeded exactly as in production.
func registerUser(t *testing.T, repo *storage.SQLiteRepository) core.User {
	t.Helper()
	u, err := NewAuthService(repo).Register(context.Background(), "test@example.com", "Test User", "password123")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	return u
}

func createAccount(t *testing.T, repo *storage.SQLiteRepository, userID uuid.UUID, name string, balance float64) core.Account {
	t.Helper()
	a, err := NewAccountService(repo).Create(context.Background(), userID, AccountInput{
		Name: name, Type: core.AccountChecking, Balance: balance,
	})
	if err != nil {
		t.Fatalf("create account %q: %v", name, err)
	}
	return a
}

// categoryOfType finds a seeded default category of the given type.
func categoryOfType(t *testing.T, repo *storage.SQLiteRepository, userID uuid.UUID, typ core.TransactionType) core.Category {
	t.Helper()
	c, err := repo.FirstActiveCategoryOfType(context.Background(), userID, typ)
	if err != nil {
		t.Fatalf("find %s category: %v", typ, err)
	}
	return c
}
