package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"fintrack/internal/core"
	"fintrack/internal/storage"
)

// AuthService registers users and verifies credentials. Registration
// seeds the fixed default-category list.
type AuthService struct {
	storage *storage.SQLiteRepository
}

func NewAuthService(st *storage.SQLiteRepository) *AuthService {
	return &AuthService{storage: st}
}

// Register creates the user and seeds their default categories.
func (s *AuthService) Register(ctx context.Context, email, name, password string) (core.User, error) {
	if len(password) < 8 {
		return core.User{}, core.Invalid("password", "must be at least 8 characters")
	}
	u := core.User{
		ID:        uuid.New(),
		Email:     email,
		Name:      name,
		CreatedAt: time.Now(),
	}
	if err := u.Validate(); err != nil {
		return core.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return core.User{}, fmt.Errorf("hash password: %w", err)
	}
	u.PasswordHash = string(hash)

	if err := s.storage.CreateUser(ctx, u); err != nil {
		return core.User{}, err
	}

	now := time.Now()
	seed := make([]core.Category, 0, len(core.DefaultCategories))
	for _, dc := range core.DefaultCategories {
		seed = append(seed, core.Category{
			ID:        uuid.New(),
			UserID:    u.ID,
			Name:      dc.Name,
			Type:      dc.Type,
			IsDefault: true,
			IsActive:  true,
			CreatedAt: now,
		})
	}
	if err := s.storage.SeedDefaultCategories(ctx, seed); err != nil {
		return core.User{}, fmt.Errorf("seed default categories: %w", err)
	}

	slog.InfoContext(ctx, "User registered", "id", u.ID, "default_categories", len(seed))
	return u, nil
}

// Login verifies the credentials and returns the user. Both an unknown
// email and a wrong password map to the same unauthorized error so the
// response does not reveal which one failed.
func (s *AuthService) Login(ctx context.Context, email, password string) (core.User, error) {
	u, err := s.storage.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.User{}, core.ErrUnauthorized
		}
		return core.User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return core.User{}, core.ErrUnauthorized
	}
	return u, nil
}

func (s *AuthService) GetUser(ctx context.Context, id uuid.UUID) (core.User, error) {
	return s.storage.GetUser(ctx, id)
}
