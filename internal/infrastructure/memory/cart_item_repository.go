package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/pinit-down/internal/domain/entity"
	"github.com/oksasatya/pinit-down/internal/domain/repository"
)

// CartItemRepository keeps cart items in process memory. Ids are UUIDs.
type CartItemRepository struct {
	mu    sync.RWMutex
	items map[string]*entity.CartItem
	now   func() time.Time
}

func NewCartItemRepository() *CartItemRepository {
	return &CartItemRepository{items: make(map[string]*entity.CartItem), now: time.Now}
}

func (r *CartItemRepository) ListByOwner(_ context.Context, ownerID string) ([]*entity.CartItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*entity.CartItem, 0)
	for _, it := range r.items {
		if it.UserID == ownerID {
			out = append(out, cloneItem(it))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *CartItemRepository) GetOwned(_ context.Context, id, ownerID string) (*entity.CartItem, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, repository.ErrInvalidID
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	it, ok := r.items[id]
	if !ok || it.UserID != ownerID {
		return nil, repository.ErrNotFound
	}
	return cloneItem(it), nil
}

func (r *CartItemRepository) Create(_ context.Context, item *entity.CartItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item.ID = uuid.NewString()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = r.now().UTC()
	}
	r.items[item.ID] = cloneItem(item)
	return nil
}

func (r *CartItemRepository) UpdateOwned(_ context.Context, id, ownerID string, fields map[string]any) (repository.UpdateResult, error) {
	if _, err := uuid.Parse(id); err != nil {
		return repository.UpdateResult{}, repository.ErrInvalidID
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.items[id]
	if !ok || it.UserID != ownerID {
		return repository.UpdateResult{}, nil
	}
	for k, v := range fields {
		it.Fields[k] = v
	}
	now := r.now().UTC()
	it.UpdatedAt = &now
	return repository.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
}

func (r *CartItemRepository) DeleteOwned(_ context.Context, id, ownerID string) (int64, error) {
	if _, err := uuid.Parse(id); err != nil {
		return 0, repository.ErrInvalidID
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.items[id]
	if !ok || it.UserID != ownerID {
		return 0, nil
	}
	delete(r.items, id)
	return 1, nil
}

func (r *CartItemRepository) DeleteAllByOwner(_ context.Context, ownerID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, it := range r.items {
		if it.UserID == ownerID {
			delete(r.items, id)
			n++
		}
	}
	return n, nil
}

func cloneItem(it *entity.CartItem) *entity.CartItem {
	c := *it
	c.Fields = make(map[string]any, len(it.Fields))
	for k, v := range it.Fields {
		c.Fields[k] = v
	}
	if it.UpdatedAt != nil {
		t := *it.UpdatedAt
		c.UpdatedAt = &t
	}
	return &c
}
