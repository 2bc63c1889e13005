package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/pinit-down/internal/domain/entity"
	"github.com/oksasatya/pinit-down/internal/domain/repository"
)

// CartItemRepository keeps the client document in a JSONB column.
type CartItemRepository struct {
	pool *pgxpool.Pool
}

func NewCartItemRepository(pool *pgxpool.Pool) *CartItemRepository {
	return &CartItemRepository{pool: pool}
}

var _ repository.CartItemRepository = (*CartItemRepository)(nil)

func (r *CartItemRepository) ListByOwner(ctx context.Context, ownerID string) ([]*entity.CartItem, error) {
	items := make([]*entity.CartItem, 0)
	if _, err := uuid.Parse(ownerID); err != nil {
		return items, nil
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, fields, created_at, updated_at
		FROM cart_items
		WHERE user_id = $1
		ORDER BY created_at, id
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *CartItemRepository) GetOwned(ctx context.Context, id, ownerID string) (*entity.CartItem, error) {
	if err := checkOwnedIDs(id, ownerID); err != nil {
		return nil, err
	}
	it, err := scanItem(r.pool.QueryRow(ctx, `
		SELECT id, user_id, fields, created_at, updated_at
		FROM cart_items
		WHERE id = $1 AND user_id = $2
	`, id, ownerID))
	if err != nil {
		return nil, mapErr(err)
	}
	return it, nil
}

func (r *CartItemRepository) Create(ctx context.Context, item *entity.CartItem) error {
	if _, err := uuid.Parse(item.UserID); err != nil {
		return repository.ErrInvalidID
	}
	body, err := json.Marshal(nonNil(item.Fields))
	if err != nil {
		return err
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}
	return r.pool.QueryRow(ctx, `
		INSERT INTO cart_items (user_id, fields, created_at)
		VALUES ($1, $2::jsonb, $3)
		RETURNING id
	`, item.UserID, string(body), item.CreatedAt).Scan(&item.ID)
}

func (r *CartItemRepository) UpdateOwned(ctx context.Context, id, ownerID string, fields map[string]any) (repository.UpdateResult, error) {
	if err := checkOwnedIDs(id, ownerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return repository.UpdateResult{}, nil
		}
		return repository.UpdateResult{}, err
	}
	body, err := json.Marshal(nonNil(fields))
	if err != nil {
		return repository.UpdateResult{}, err
	}
	res, err := r.pool.Exec(ctx, `
		UPDATE cart_items
		SET fields = fields || $3::jsonb, updated_at = now()
		WHERE id = $1 AND user_id = $2
	`, id, ownerID, string(body))
	if err != nil {
		return repository.UpdateResult{}, err
	}
	n := res.RowsAffected()
	return repository.UpdateResult{MatchedCount: n, ModifiedCount: n}, nil
}

func (r *CartItemRepository) DeleteOwned(ctx context.Context, id, ownerID string) (int64, error) {
	if err := checkOwnedIDs(id, ownerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	res, err := r.pool.Exec(ctx, `DELETE FROM cart_items WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected(), nil
}

func (r *CartItemRepository) DeleteAllByOwner(ctx context.Context, ownerID string) (int64, error) {
	if _, err := uuid.Parse(ownerID); err != nil {
		return 0, nil
	}
	res, err := r.pool.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, ownerID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected(), nil
}

func checkOwnedIDs(id, ownerID string) error {
	if _, err := uuid.Parse(id); err != nil {
		return repository.ErrInvalidID
	}
	if _, err := uuid.Parse(ownerID); err != nil {
		return repository.ErrNotFound
	}
	return nil
}

func scanItem(row pgx.Row) (*entity.CartItem, error) {
	var (
		it   entity.CartItem
		body []byte
	)
	if err := row.Scan(&it.ID, &it.UserID, &body, &it.CreatedAt, &it.UpdatedAt); err != nil {
		return nil, err
	}
	it.Fields = map[string]any{}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &it.Fields); err != nil {
			return nil, err
		}
	}
	return &it, nil
}

func nonNil(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}
