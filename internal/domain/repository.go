package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrUserNotFound = errors.New("user not found")
)

type UserRepository interface {
	// GetByID retrieves a user by primary key. Returns ErrUserNotFound if missing.
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)

	// GetByEmail retrieves a user by account email.
	GetByEmail(ctx context.Context, email string) (*User, error)

	// RecordLogin stamps last_login_at after a successful authentication.
	RecordLogin(ctx context.Context, id uuid.UUID) error
}
