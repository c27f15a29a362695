package core

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User owns every other entity exclusively; no cross-user reference is
// ever valid.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Name         string
	CreatedAt    time.Time
}

func (u User) Validate() error {
	verr := &ValidationError{}
	email := strings.TrimSpace(u.Email)
	if email == "" {
		verr.Add("email", "cannot be empty")
	} else if !strings.Contains(email, "@") {
		verr.Add("email", "must be a valid email address")
	}
	if strings.TrimSpace(u.Name) == "" {
		verr.Add("name", "cannot be empty")
	}
	return verr.OrNil()
}
