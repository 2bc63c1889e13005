package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/pinit-down/internal/domain/entity"
	"github.com/oksasatya/pinit-down/internal/domain/repository"
	"github.com/oksasatya/pinit-down/pkg/helpers"
)

// ItemIndex is the optional full-text mirror of cart items.
type ItemIndex interface {
	Put(ctx context.Context, item *entity.CartItem) error
	Delete(ctx context.Context, id string) error
	DeleteByOwner(ctx context.Context, ownerID string) error
	Search(ctx context.Context, ownerID, q string, size int) ([]string, error)
}

// CartService is the owned-resource CRUD behind /cart-items. Every call is scoped to ownerID.
type CartService struct {
	Items  repository.CartItemRepository
	Index  ItemIndex
	Logger *logrus.Logger
}

func NewCartService(items repository.CartItemRepository, index ItemIndex, logger *logrus.Logger) *CartService {
	if logger == nil {
		logger = helpers.DiscardLogger()
	}
	return &CartService{Items: items, Index: index, Logger: logger}
}

// List returns the owner's items as documents. Never nil.
func (s *CartService) List(ctx context.Context, ownerID string) ([]map[string]any, error) {
	items, err := s.Items.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return documents(items), nil
}

// Create stores fields as a new item. Server-stamped keys in fields are ignored.
func (s *CartService) Create(ctx context.Context, ownerID string, fields map[string]any) (map[string]any, error) {
	item := &entity.CartItem{UserID: ownerID, Fields: entity.SanitizeFields(fields)}
	if err := s.Items.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}
	if s.Index != nil {
		if err := s.Index.Put(ctx, item); err != nil {
			s.Logger.WithError(err).WithField("item_id", item.ID).Warn("index item failed")
		}
	}
	return item.Document(), nil
}

// Update merges fields into an owned item and stamps updatedAt.
func (s *CartService) Update(ctx context.Context, id, ownerID string, fields map[string]any) (repository.UpdateResult, error) {
	res, err := s.Items.UpdateOwned(ctx, id, ownerID, entity.SanitizeFields(fields))
	if err != nil {
		if errors.Is(err, repository.ErrInvalidID) {
			return res, ErrInvalidID
		}
		return res, fmt.Errorf("update item: %w", err)
	}
	if res.MatchedCount == 0 {
		return res, ErrNotFound
	}
	if s.Index != nil {
		s.reindex(ctx, id, ownerID)
	}
	return res, nil
}

// Delete removes one owned item and returns the deleted count.
func (s *CartService) Delete(ctx context.Context, id, ownerID string) (int64, error) {
	n, err := s.Items.DeleteOwned(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidID) {
			return 0, ErrInvalidID
		}
		return 0, fmt.Errorf("delete item: %w", err)
	}
	if n == 0 {
		return 0, ErrNotFound
	}
	if s.Index != nil {
		if err := s.Index.Delete(ctx, id); err != nil {
			s.Logger.WithError(err).WithField("item_id", id).Warn("unindex item failed")
		}
	}
	return n, nil
}

// DeleteAll removes every item of the owner.
func (s *CartService) DeleteAll(ctx context.Context, ownerID string) (int64, error) {
	n, err := s.Items.DeleteAllByOwner(ctx, ownerID)
	if err != nil {
		return 0, fmt.Errorf("delete items: %w", err)
	}
	if s.Index != nil {
		if err := s.Index.DeleteByOwner(ctx, ownerID); err != nil {
			s.Logger.WithError(err).WithField("user_id", ownerID).Warn("unindex items failed")
		}
	}
	return n, nil
}

// Search returns the owner's items matching q. Without an index it returns an empty list.
func (s *CartService) Search(ctx context.Context, ownerID, q string, size int) ([]map[string]any, error) {
	q = strings.TrimSpace(q)
	if s.Index == nil || q == "" {
		return []map[string]any{}, nil
	}
	ids, err := s.Index.Search(ctx, ownerID, q, size)
	if err != nil {
		return nil, fmt.Errorf("search items: %w", err)
	}
	items := make([]*entity.CartItem, 0, len(ids))
	for _, id := range ids {
		it, err := s.Items.GetOwned(ctx, id, ownerID)
		if err != nil {
			// the index may lag behind deletes
			if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrInvalidID) {
				continue
			}
			return nil, fmt.Errorf("load item: %w", err)
		}
		items = append(items, it)
	}
	return documents(items), nil
}

func (s *CartService) reindex(ctx context.Context, id, ownerID string) {
	it, err := s.Items.GetOwned(ctx, id, ownerID)
	if err == nil {
		err = s.Index.Put(ctx, it)
	}
	if err != nil {
		s.Logger.WithError(err).WithField("item_id", id).Warn("reindex item failed")
	}
}

func documents(items []*entity.CartItem) []map[string]any {
	out := make([]map[string]any, 0, len(items))
	for _, it := range items {
		out = append(out, it.Document())
	}
	return out
}
