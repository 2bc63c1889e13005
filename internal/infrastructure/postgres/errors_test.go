package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/oksasatya/pinit-down/internal/domain/repository"
)

func TestMapErr(t *testing.T) {
	assert.NoError(t, mapErr(nil))
	assert.ErrorIs(t, mapErr(pgx.ErrNoRows), repository.ErrNotFound)
	assert.ErrorIs(t, mapErr(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})), repository.ErrDuplicateKey)

	other := &pgconn.PgError{Code: "23503"}
	assert.Same(t, other, mapErr(other))

	boom := errors.New("boom")
	assert.Equal(t, boom, mapErr(boom))
}

func TestCheckOwnedIDs(t *testing.T) {
	assert.ErrorIs(t, checkOwnedIDs("nope", "8d3c5f8e-0000-4000-8000-000000000001"), repository.ErrInvalidID)
	assert.ErrorIs(t, checkOwnedIDs("8d3c5f8e-0000-4000-8000-000000000001", "nope"), repository.ErrNotFound)
	assert.NoError(t, checkOwnedIDs("8d3c5f8e-0000-4000-8000-000000000001", "8d3c5f8e-0000-4000-8000-000000000002"))
}
