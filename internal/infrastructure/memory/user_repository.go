package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/pinit-down/internal/domain/entity"
	"github.com/oksasatya/pinit-down/internal/domain/repository"
)

// UserRepository keeps users in process memory. Used by STORE_DRIVER=memory and tests.
type UserRepository struct {
	mu      sync.RWMutex
	byID    map[string]*entity.User
	byEmail map[string]string
	now     func() time.Time
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:    make(map[string]*entity.User),
		byEmail: make(map[string]string),
		now:     time.Now,
	}
}

func (r *UserRepository) Ping(context.Context) error { return nil }

func (r *UserRepository) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[u.Email]; ok {
		return repository.ErrDuplicateKey
	}
	now := r.now().UTC()
	u.ID = uuid.NewString()
	u.CreatedAt = now
	u.UpdatedAt = now
	r.byID[u.ID] = cloneUser(u)
	r.byEmail[u.Email] = u.ID
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneUser(u), nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneUser(r.byID[id]), nil
}

func (r *UserRepository) GetByResetToken(_ context.Context, token string, now time.Time) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u := r.findReset(token, now)
	if u == nil {
		return nil, repository.ErrNotFound
	}
	return cloneUser(u), nil
}

func (r *UserRepository) GetByVerificationToken(_ context.Context, token string, now time.Time) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u := r.findVerification(token, now)
	if u == nil {
		return nil, repository.ErrNotFound
	}
	return cloneUser(u), nil
}

func (r *UserRepository) UpdateFields(_ context.Context, id string, f repository.UserFields) error {
	return r.mutate(id, func(u *entity.User) {
		if f.Name != nil {
			u.Name = *f.Name
		}
		if f.IsEmailVerified != nil {
			u.IsEmailVerified = *f.IsEmailVerified
		}
	})
}

func (r *UserRepository) SetResetToken(_ context.Context, id, token string, expires time.Time) error {
	return r.mutate(id, func(u *entity.User) {
		exp := expires.UTC()
		u.ResetPasswordToken = &token
		u.ResetPasswordExpires = &exp
	})
}

func (r *UserRepository) SetVerificationToken(_ context.Context, id, token string, expires time.Time) error {
	return r.mutate(id, func(u *entity.User) {
		exp := expires.UTC()
		u.EmailVerificationToken = &token
		u.EmailVerificationExpires = &exp
	})
}

func (r *UserRepository) ClearResetToken(_ context.Context, id string) error {
	return r.mutate(id, func(u *entity.User) {
		u.ResetPasswordToken = nil
		u.ResetPasswordExpires = nil
	})
}

func (r *UserRepository) ClearVerificationToken(_ context.Context, id string) error {
	return r.mutate(id, func(u *entity.User) {
		u.EmailVerificationToken = nil
		u.EmailVerificationExpires = nil
	})
}

func (r *UserRepository) MarkEmailVerified(_ context.Context, token string, now time.Time) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := r.findVerification(token, now)
	if u == nil {
		return nil, repository.ErrNotFound
	}
	u.IsEmailVerified = true
	u.EmailVerificationToken = nil
	u.EmailVerificationExpires = nil
	u.UpdatedAt = r.now().UTC()
	return cloneUser(u), nil
}

func (r *UserRepository) SetPassword(_ context.Context, id, hash string) error {
	return r.mutate(id, func(u *entity.User) {
		u.Password = hash
		u.ResetPasswordToken = nil
		u.ResetPasswordExpires = nil
	})
}

func (r *UserRepository) ResetPassword(_ context.Context, token, hash string, now time.Time) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := r.findReset(token, now)
	if u == nil {
		return nil, repository.ErrNotFound
	}
	u.Password = hash
	u.ResetPasswordToken = nil
	u.ResetPasswordExpires = nil
	u.UpdatedAt = r.now().UTC()
	return cloneUser(u), nil
}

func (r *UserRepository) mutate(id string, fn func(u *entity.User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	fn(u)
	u.UpdatedAt = r.now().UTC()
	return nil
}

// callers hold mu
func (r *UserRepository) findReset(token string, now time.Time) *entity.User {
	if token == "" {
		return nil
	}
	for _, u := range r.byID {
		if u.ResetPasswordToken != nil && *u.ResetPasswordToken == token &&
			u.ResetPasswordExpires != nil && u.ResetPasswordExpires.After(now) {
			return u
		}
	}
	return nil
}

func (r *UserRepository) findVerification(token string, now time.Time) *entity.User {
	if token == "" {
		return nil
	}
	for _, u := range r.byID {
		if u.EmailVerificationToken != nil && *u.EmailVerificationToken == token &&
			u.EmailVerificationExpires != nil && u.EmailVerificationExpires.After(now) {
			return u
		}
	}
	return nil
}

func cloneUser(u *entity.User) *entity.User {
	c := *u
	if u.EmailVerificationToken != nil {
		v := *u.EmailVerificationToken
		c.EmailVerificationToken = &v
	}
	if u.EmailVerificationExpires != nil {
		v := *u.EmailVerificationExpires
		c.EmailVerificationExpires = &v
	}
	if u.ResetPasswordToken != nil {
		v := *u.ResetPasswordToken
		c.ResetPasswordToken = &v
	}
	if u.ResetPasswordExpires != nil {
		v := *u.ResetPasswordExpires
		c.ResetPasswordExpires = &v
	}
	return &c
}
