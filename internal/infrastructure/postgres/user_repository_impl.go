package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/pinit-down/internal/domain/entity"
	"github.com/oksasatya/pinit-down/internal/domain/repository"
)

const userColumns = `id, email, password, name, is_email_verified,
	email_verification_token, email_verification_expires,
	reset_password_token, reset_password_expires, created_at, updated_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

var _ repository.UserRepository = (*UserRepository)(nil)

func (r *UserRepository) Ping(ctx context.Context) error { return r.pool.Ping(ctx) }

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (email, password, name, is_email_verified)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, u.Email, u.Password, u.Name, u.IsEmailVerified)

	return mapErr(row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt))
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, repository.ErrNotFound
	}
	return r.queryOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.queryOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *UserRepository) GetByResetToken(ctx context.Context, token string, now time.Time) (*entity.User, error) {
	if token == "" {
		return nil, repository.ErrNotFound
	}
	return r.queryOne(ctx, `SELECT `+userColumns+` FROM users
		WHERE reset_password_token = $1 AND reset_password_expires > $2`, token, now)
}

func (r *UserRepository) GetByVerificationToken(ctx context.Context, token string, now time.Time) (*entity.User, error) {
	if token == "" {
		return nil, repository.ErrNotFound
	}
	return r.queryOne(ctx, `SELECT `+userColumns+` FROM users
		WHERE email_verification_token = $1 AND email_verification_expires > $2`, token, now)
}

func (r *UserRepository) UpdateFields(ctx context.Context, id string, f repository.UserFields) error {
	return r.execByID(ctx, `
		UPDATE users
		SET name = COALESCE($2, name),
		    is_email_verified = COALESCE($3, is_email_verified),
		    updated_at = now()
		WHERE id = $1
	`, id, f.Name, f.IsEmailVerified)
}

func (r *UserRepository) SetResetToken(ctx context.Context, id, token string, expires time.Time) error {
	return r.execByID(ctx, `
		UPDATE users SET reset_password_token = $2, reset_password_expires = $3, updated_at = now()
		WHERE id = $1
	`, id, token, expires)
}

func (r *UserRepository) SetVerificationToken(ctx context.Context, id, token string, expires time.Time) error {
	return r.execByID(ctx, `
		UPDATE users SET email_verification_token = $2, email_verification_expires = $3, updated_at = now()
		WHERE id = $1
	`, id, token, expires)
}

func (r *UserRepository) ClearResetToken(ctx context.Context, id string) error {
	return r.execByID(ctx, `
		UPDATE users SET reset_password_token = NULL, reset_password_expires = NULL, updated_at = now()
		WHERE id = $1
	`, id)
}

func (r *UserRepository) ClearVerificationToken(ctx context.Context, id string) error {
	return r.execByID(ctx, `
		UPDATE users SET email_verification_token = NULL, email_verification_expires = NULL, updated_at = now()
		WHERE id = $1
	`, id)
}

func (r *UserRepository) MarkEmailVerified(ctx context.Context, token string, now time.Time) (*entity.User, error) {
	if token == "" {
		return nil, repository.ErrNotFound
	}
	return r.queryOne(ctx, `
		UPDATE users
		SET is_email_verified = TRUE,
		    email_verification_token = NULL,
		    email_verification_expires = NULL,
		    updated_at = now()
		WHERE email_verification_token = $1 AND email_verification_expires > $2
		RETURNING `+userColumns, token, now)
}

func (r *UserRepository) SetPassword(ctx context.Context, id, hash string) error {
	return r.execByID(ctx, `
		UPDATE users
		SET password = $2, reset_password_token = NULL, reset_password_expires = NULL, updated_at = now()
		WHERE id = $1
	`, id, hash)
}

func (r *UserRepository) ResetPassword(ctx context.Context, token, hash string, now time.Time) (*entity.User, error) {
	if token == "" {
		return nil, repository.ErrNotFound
	}
	return r.queryOne(ctx, `
		UPDATE users
		SET password = $3,
		    reset_password_token = NULL,
		    reset_password_expires = NULL,
		    updated_at = now()
		WHERE reset_password_token = $1 AND reset_password_expires > $2
		RETURNING `+userColumns, token, now, hash)
}

func (r *UserRepository) queryOne(ctx context.Context, sql string, args ...any) (*entity.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, mapErr(err)
	}
	return u, nil
}

func (r *UserRepository) execByID(ctx context.Context, sql string, id string, args ...any) error {
	if _, err := uuid.Parse(id); err != nil {
		return repository.ErrNotFound
	}
	res, err := r.pool.Exec(ctx, sql, append([]any{id}, args...)...)
	if err != nil {
		return mapErr(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	if err := row.Scan(&u.ID, &u.Email, &u.Password, &u.Name, &u.IsEmailVerified,
		&u.EmailVerificationToken, &u.EmailVerificationExpires,
		&u.ResetPasswordToken, &u.ResetPasswordExpires,
		&u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return u, nil
}
