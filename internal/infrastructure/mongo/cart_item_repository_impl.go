package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/oksasatya/pinit-down/internal/domain/entity"
	"github.com/oksasatya/pinit-down/internal/domain/repository"
)

// CartItemRepository stores items as free-form documents keyed by ObjectID.
type CartItemRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewCartItemRepository(db *mongo.Database) *CartItemRepository {
	return &CartItemRepository{coll: db.Collection(CartItemsCollection), now: time.Now}
}

var _ repository.CartItemRepository = (*CartItemRepository)(nil)

func (r *CartItemRepository) ListByOwner(ctx context.Context, ownerID string) ([]*entity.CartItem, error) {
	owner, err := bson.ObjectIDFromHex(ownerID)
	if err != nil {
		return []*entity.CartItem{}, nil
	}
	cur, err := r.coll.Find(ctx, bson.M{entity.FieldUserID: owner},
		options.Find().SetSort(bson.D{{Key: entity.FieldCreatedAt, Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = cur.Close(ctx) }()

	items := make([]*entity.CartItem, 0)
	for cur.Next(ctx) {
		var m bson.M
		if err := cur.Decode(&m); err != nil {
			return nil, err
		}
		items = append(items, itemFromDoc(m))
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *CartItemRepository) GetOwned(ctx context.Context, id, ownerID string) (*entity.CartItem, error) {
	filter, err := ownedFilter(id, ownerID)
	if err != nil {
		return nil, err
	}
	var m bson.M
	if err := r.coll.FindOne(ctx, filter).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return itemFromDoc(m), nil
}

func (r *CartItemRepository) Create(ctx context.Context, item *entity.CartItem) error {
	owner, err := bson.ObjectIDFromHex(item.UserID)
	if err != nil {
		return repository.ErrInvalidID
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = r.now().UTC()
	}
	doc := bson.M{}
	for k, v := range item.Fields {
		doc[k] = v
	}
	oid := bson.NewObjectID()
	doc[entity.FieldID] = oid
	doc[entity.FieldUserID] = owner
	doc[entity.FieldCreatedAt] = item.CreatedAt

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return err
	}
	item.ID = oid.Hex()
	return nil
}

func (r *CartItemRepository) UpdateOwned(ctx context.Context, id, ownerID string, fields map[string]any) (repository.UpdateResult, error) {
	filter, err := ownedFilter(id, ownerID)
	if err != nil {
		return repository.UpdateResult{}, err
	}
	set := bson.M{}
	for k, v := range fields {
		set[k] = v
	}
	set[entity.FieldUpdatedAt] = r.now().UTC()

	res, err := r.coll.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return repository.UpdateResult{}, err
	}
	return repository.UpdateResult{MatchedCount: res.MatchedCount, ModifiedCount: res.ModifiedCount}, nil
}

func (r *CartItemRepository) DeleteOwned(ctx context.Context, id, ownerID string) (int64, error) {
	filter, err := ownedFilter(id, ownerID)
	if err != nil {
		return 0, err
	}
	res, err := r.coll.DeleteOne(ctx, filter)
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (r *CartItemRepository) DeleteAllByOwner(ctx context.Context, ownerID string) (int64, error) {
	owner, err := bson.ObjectIDFromHex(ownerID)
	if err != nil {
		return 0, nil
	}
	res, err := r.coll.DeleteMany(ctx, bson.M{entity.FieldUserID: owner})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// ownedFilter matches id only when it belongs to ownerID. A foreign owner reads as not found.
func ownedFilter(id, ownerID string) (bson.M, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrInvalidID
	}
	owner, err := bson.ObjectIDFromHex(ownerID)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	return bson.M{entity.FieldID: oid, entity.FieldUserID: owner}, nil
}

func itemFromDoc(m bson.M) *entity.CartItem {
	item := &entity.CartItem{Fields: make(map[string]any, len(m))}
	for k, v := range m {
		switch k {
		case entity.FieldID:
			item.ID = idString(v)
		case entity.FieldUserID:
			item.UserID = idString(v)
		case entity.FieldCreatedAt:
			if t, ok := asTime(v); ok {
				item.CreatedAt = t
			}
		case entity.FieldUpdatedAt:
			if t, ok := asTime(v); ok {
				item.UpdatedAt = &t
			}
		default:
			item.Fields[k] = normalize(v)
		}
	}
	return item
}
