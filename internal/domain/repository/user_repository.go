package repository

import (
	"context"
	"errors"
	"time"

	"github.com/oksasatya/pinit-down/internal/domain/entity"
)

var (
	// ErrNotFound is returned when no record matches.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateKey is returned when a unique index rejects an insert.
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrInvalidID is returned when an id cannot address any record of the backend.
	ErrInvalidID = errors.New("invalid id")
)

// UserFields is a partial update. Nil fields are left untouched.
type UserFields struct {
	Name            *string
	IsEmailVerified *bool
}

// UserRepository defines the credential store operations.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// GetByResetToken only matches tokens whose expiry is after now.
	GetByResetToken(ctx context.Context, token string, now time.Time) (*entity.User, error)
	GetByVerificationToken(ctx context.Context, token string, now time.Time) (*entity.User, error)
	UpdateFields(ctx context.Context, id string, f UserFields) error

	SetResetToken(ctx context.Context, id, token string, expires time.Time) error
	SetVerificationToken(ctx context.Context, id, token string, expires time.Time) error
	ClearResetToken(ctx context.Context, id string) error
	ClearVerificationToken(ctx context.Context, id string) error

	// MarkEmailVerified consumes an unexpired verification token in one conditional update.
	MarkEmailVerified(ctx context.Context, token string, now time.Time) (*entity.User, error)
	// SetPassword replaces the hash and clears any reset token.
	SetPassword(ctx context.Context, id, hash string) error
	// ResetPassword consumes an unexpired reset token and stores hash in one conditional update.
	ResetPassword(ctx context.Context, token, hash string, now time.Time) (*entity.User, error)

	Ping(ctx context.Context) error
}
