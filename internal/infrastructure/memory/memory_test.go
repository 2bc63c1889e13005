package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/pinit-down/internal/domain/entity"
	"github.com/oksasatya/pinit-down/internal/domain/repository"
)

func TestUserCreateRejectsDuplicateEmail(t *testing.T) {
	r := NewUserRepository()
	ctx := context.Background()

	u := &entity.User{Email: "a@example.com", Password: "h", Name: "A"}
	require.NoError(t, r.Create(ctx, u))
	assert.NotEmpty(t, u.ID)
	assert.False(t, u.CreatedAt.IsZero())

	err := r.Create(ctx, &entity.User{Email: "a@example.com", Password: "h", Name: "B"})
	require.ErrorIs(t, err, repository.ErrDuplicateKey)
}

func TestUserReadsAreCopies(t *testing.T) {
	r := NewUserRepository()
	ctx := context.Background()
	u := &entity.User{Email: "a@example.com", Password: "h", Name: "A"}
	require.NoError(t, r.Create(ctx, u))

	got, err := r.GetByID(ctx, u.ID)
	require.NoError(t, err)
	got.Name = "changed"

	again, _ := r.GetByID(ctx, u.ID)
	assert.Equal(t, "A", again.Name)
}

func TestResetTokenExpiry(t *testing.T) {
	r := NewUserRepository()
	ctx := context.Background()
	u := &entity.User{Email: "a@example.com", Password: "old", Name: "A"}
	require.NoError(t, r.Create(ctx, u))

	now := time.Now()
	require.NoError(t, r.SetResetToken(ctx, u.ID, "tok", now.Add(time.Hour)))

	_, err := r.GetByResetToken(ctx, "tok", now)
	require.NoError(t, err)
	_, err = r.GetByResetToken(ctx, "tok", now.Add(time.Hour))
	require.ErrorIs(t, err, repository.ErrNotFound, "expiry equal to now is expired")
	_, err = r.GetByResetToken(ctx, "", now)
	require.ErrorIs(t, err, repository.ErrNotFound)

	_, err = r.ResetPassword(ctx, "tok", "new", now.Add(2*time.Hour))
	require.ErrorIs(t, err, repository.ErrNotFound)

	got, err := r.ResetPassword(ctx, "tok", "new", now)
	require.NoError(t, err)
	assert.Equal(t, "new", got.Password)
	assert.Nil(t, got.ResetPasswordToken)
	assert.Nil(t, got.ResetPasswordExpires)

	_, err = r.ResetPassword(ctx, "tok", "newer", now)
	require.ErrorIs(t, err, repository.ErrNotFound, "tokens are single use")
}

func TestMarkEmailVerified(t *testing.T) {
	r := NewUserRepository()
	ctx := context.Background()
	u := &entity.User{Email: "a@example.com", Password: "h", Name: "A"}
	require.NoError(t, r.Create(ctx, u))

	now := time.Now()
	require.NoError(t, r.SetVerificationToken(ctx, u.ID, "first", now.Add(time.Hour)))
	require.NoError(t, r.SetVerificationToken(ctx, u.ID, "second", now.Add(time.Hour)))

	_, err := r.MarkEmailVerified(ctx, "first", now)
	require.ErrorIs(t, err, repository.ErrNotFound, "a resend replaces the old token")

	got, err := r.MarkEmailVerified(ctx, "second", now)
	require.NoError(t, err)
	assert.True(t, got.IsEmailVerified)
	assert.Nil(t, got.EmailVerificationToken)
	assert.Nil(t, got.EmailVerificationExpires)
}

func TestUpdateFieldsAndMissingUser(t *testing.T) {
	r := NewUserRepository()
	ctx := context.Background()
	u := &entity.User{Email: "a@example.com", Password: "h", Name: "A"}
	require.NoError(t, r.Create(ctx, u))

	name := "Alice"
	require.NoError(t, r.UpdateFields(ctx, u.ID, repository.UserFields{Name: &name}))
	got, _ := r.GetByEmail(ctx, "a@example.com")
	assert.Equal(t, "Alice", got.Name)
	assert.False(t, got.IsEmailVerified)

	require.ErrorIs(t, r.UpdateFields(ctx, "missing", repository.UserFields{Name: &name}), repository.ErrNotFound)
	require.ErrorIs(t, r.SetPassword(ctx, "missing", "h"), repository.ErrNotFound)
}

func TestCartItemsAreOwnerScoped(t *testing.T) {
	r := NewCartItemRepository()
	ctx := context.Background()

	a := &entity.CartItem{UserID: "owner-a", Fields: map[string]any{"title": "milk"}}
	require.NoError(t, r.Create(ctx, a))
	b := &entity.CartItem{UserID: "owner-b", Fields: map[string]any{"title": "eggs"}}
	require.NoError(t, r.Create(ctx, b))

	_, err := r.GetOwned(ctx, a.ID, "owner-b")
	require.ErrorIs(t, err, repository.ErrNotFound)
	_, err = r.GetOwned(ctx, "not-a-uuid", "owner-a")
	require.ErrorIs(t, err, repository.ErrInvalidID)

	res, err := r.UpdateOwned(ctx, a.ID, "owner-b", map[string]any{"title": "stolen"})
	require.NoError(t, err)
	assert.Zero(t, res.MatchedCount)

	n, err := r.DeleteOwned(ctx, uuid.NewString(), "owner-a")
	require.NoError(t, err)
	assert.Zero(t, n)

	res, err = r.UpdateOwned(ctx, a.ID, "owner-a", map[string]any{"isFav": true})
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.MatchedCount)

	got, err := r.GetOwned(ctx, a.ID, "owner-a")
	require.NoError(t, err)
	assert.Equal(t, "milk", got.Fields["title"])
	assert.Equal(t, true, got.Fields["isFav"])
	require.NotNil(t, got.UpdatedAt)

	n, err = r.DeleteAllByOwner(ctx, "owner-a")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	left, err := r.ListByOwner(ctx, "owner-b")
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, "eggs", left[0].Fields["title"])
}
