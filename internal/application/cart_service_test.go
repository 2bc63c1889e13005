package application

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/pinit-down/internal/domain/entity"
	"github.com/oksasatya/pinit-down/internal/infrastructure/memory"
)

// fakeIndex matches items whose title equals the query.
type fakeIndex struct {
	mu   sync.Mutex
	docs map[string]*entity.CartItem
}

func newFakeIndex() *fakeIndex { return &fakeIndex{docs: map[string]*entity.CartItem{}} }

func (x *fakeIndex) Put(_ context.Context, item *entity.CartItem) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.docs[item.ID] = item
	return nil
}

func (x *fakeIndex) Delete(_ context.Context, id string) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	delete(x.docs, id)
	return nil
}

func (x *fakeIndex) DeleteByOwner(_ context.Context, ownerID string) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	for id, d := range x.docs {
		if d.UserID == ownerID {
			delete(x.docs, id)
		}
	}
	return nil
}

func (x *fakeIndex) Search(_ context.Context, ownerID, q string, _ int) ([]string, error) {
	x.mu.Lock()
	defer x.mu.Unlock()
	var ids []string
	for id, d := range x.docs {
		if d.UserID == ownerID && d.Fields["title"] == q {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func TestCartCreateStampsOwner(t *testing.T) {
	svc := NewCartService(memory.NewCartItemRepository(), nil, nil)
	ctx := context.Background()

	doc, err := svc.Create(ctx, "owner-a", map[string]any{
		"title":     "milk",
		"isFav":     true,
		"userId":    "someone-else",
		"_id":       "forged",
		"createdAt": "1999-01-01",
	})
	require.NoError(t, err)
	assert.Equal(t, "owner-a", doc["userId"])
	assert.Equal(t, "milk", doc["title"])
	assert.Equal(t, true, doc["isFav"])
	assert.NotEqual(t, "forged", doc["_id"])
	assert.NotEqual(t, "1999-01-01", doc["createdAt"])
	assert.NotContains(t, doc, "updatedAt")
}

func TestCartListIsEmptyNotNil(t *testing.T) {
	svc := NewCartService(memory.NewCartItemRepository(), nil, nil)
	items, err := svc.List(context.Background(), "nobody")
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestCartOwnershipIsolation(t *testing.T) {
	svc := NewCartService(memory.NewCartItemRepository(), nil, nil)
	ctx := context.Background()

	a, err := svc.Create(ctx, "owner-a", map[string]any{"title": "milk"})
	require.NoError(t, err)
	b, err := svc.Create(ctx, "owner-b", map[string]any{"title": "eggs"})
	require.NoError(t, err)

	listA, err := svc.List(ctx, "owner-a")
	require.NoError(t, err)
	require.Len(t, listA, 1)
	assert.Equal(t, a["_id"], listA[0]["_id"])

	_, err = svc.Delete(ctx, b["_id"].(string), "owner-a")
	require.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Update(ctx, b["_id"].(string), "owner-a", map[string]any{"title": "stolen"})
	require.ErrorIs(t, err, ErrNotFound)

	listB, err := svc.List(ctx, "owner-b")
	require.NoError(t, err)
	require.Len(t, listB, 1)
	assert.Equal(t, "eggs", listB[0]["title"])
}

func TestCartUpdate(t *testing.T) {
	svc := NewCartService(memory.NewCartItemRepository(), nil, nil)
	ctx := context.Background()
	doc, _ := svc.Create(ctx, "owner-a", map[string]any{"title": "milk", "isFav": false})
	id := doc["_id"].(string)

	res, err := svc.Update(ctx, id, "owner-a", map[string]any{"isFav": true, "userId": "owner-b"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.MatchedCount)
	assert.EqualValues(t, 1, res.ModifiedCount)

	items, _ := svc.List(ctx, "owner-a")
	require.Len(t, items, 1)
	assert.Equal(t, true, items[0]["isFav"])
	assert.Equal(t, "milk", items[0]["title"])
	assert.Equal(t, "owner-a", items[0]["userId"])
	assert.Contains(t, items[0], "updatedAt")

	_, err = svc.Update(ctx, "not-an-id", "owner-a", map[string]any{})
	require.ErrorIs(t, err, ErrInvalidID)
	_, err = svc.Update(ctx, uuid.NewString(), "owner-a", map[string]any{})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCartDelete(t *testing.T) {
	svc := NewCartService(memory.NewCartItemRepository(), nil, nil)
	ctx := context.Background()
	doc, _ := svc.Create(ctx, "owner-a", map[string]any{"title": "milk"})
	_, _ = svc.Create(ctx, "owner-a", map[string]any{"title": "eggs"})
	_, _ = svc.Create(ctx, "owner-b", map[string]any{"title": "bread"})

	_, err := svc.Delete(ctx, "xyz", "owner-a")
	require.ErrorIs(t, err, ErrInvalidID)

	n, err := svc.Delete(ctx, doc["_id"].(string), "owner-a")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	_, err = svc.Delete(ctx, doc["_id"].(string), "owner-a")
	require.ErrorIs(t, err, ErrNotFound)

	n, err = svc.DeleteAll(ctx, "owner-a")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	left, _ := svc.List(ctx, "owner-b")
	assert.Len(t, left, 1)
}

func TestCartSearch(t *testing.T) {
	idx := newFakeIndex()
	svc := NewCartService(memory.NewCartItemRepository(), idx, nil)
	ctx := context.Background()

	milk, _ := svc.Create(ctx, "owner-a", map[string]any{"title": "milk"})
	_, _ = svc.Create(ctx, "owner-b", map[string]any{"title": "milk"})

	found, err := svc.Search(ctx, "owner-a", "milk", 10)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, milk["_id"], found[0]["_id"])

	_, err = svc.Update(ctx, milk["_id"].(string), "owner-a", map[string]any{"title": "oat milk"})
	require.NoError(t, err)
	found, _ = svc.Search(ctx, "owner-a", "oat milk", 10)
	assert.Len(t, found, 1)

	_, err = svc.DeleteAll(ctx, "owner-a")
	require.NoError(t, err)
	found, _ = svc.Search(ctx, "owner-a", "oat milk", 10)
	assert.Empty(t, found)

	empty, err := NewCartService(memory.NewCartItemRepository(), nil, nil).Search(ctx, "owner-a", "milk", 10)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}
