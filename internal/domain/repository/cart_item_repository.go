package repository

import (
	"context"

	"github.com/oksasatya/pinit-down/internal/domain/entity"
)

// UpdateResult mirrors the matched/modified counters of a document update.
type UpdateResult struct {
	MatchedCount  int64 `json:"matchedCount"`
	ModifiedCount int64 `json:"modifiedCount"`
}

// CartItemRepository stores cart items. Every method is scoped by owner id.
type CartItemRepository interface {
	ListByOwner(ctx context.Context, ownerID string) ([]*entity.CartItem, error)
	GetOwned(ctx context.Context, id, ownerID string) (*entity.CartItem, error)
	Create(ctx context.Context, item *entity.CartItem) error
	// UpdateOwned merges fields into the item; ErrInvalidID for malformed ids.
	UpdateOwned(ctx context.Context, id, ownerID string, fields map[string]any) (UpdateResult, error)
	DeleteOwned(ctx context.Context, id, ownerID string) (int64, error)
	DeleteAllByOwner(ctx context.Context, ownerID string) (int64, error)
}
