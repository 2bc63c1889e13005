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

type userDoc struct {
	ID                       bson.ObjectID `bson:"_id,omitempty"`
	Email                    string        `bson:"email"`
	Password                 string        `bson:"password"`
	Name                     string        `bson:"name"`
	IsEmailVerified          bool          `bson:"isEmailVerified"`
	EmailVerificationToken   *string       `bson:"emailVerificationToken,omitempty"`
	EmailVerificationExpires *time.Time    `bson:"emailVerificationExpires,omitempty"`
	ResetPasswordToken       *string       `bson:"resetPasswordToken,omitempty"`
	ResetPasswordExpires     *time.Time    `bson:"resetPasswordExpires,omitempty"`
	CreatedAt                time.Time     `bson:"createdAt"`
	UpdatedAt                time.Time     `bson:"updatedAt"`
}

func (d *userDoc) toEntity() *entity.User {
	return &entity.User{
		ID:                       d.ID.Hex(),
		Email:                    d.Email,
		Password:                 d.Password,
		Name:                     d.Name,
		IsEmailVerified:          d.IsEmailVerified,
		EmailVerificationToken:   d.EmailVerificationToken,
		EmailVerificationExpires: d.EmailVerificationExpires,
		ResetPasswordToken:       d.ResetPasswordToken,
		ResetPasswordExpires:     d.ResetPasswordExpires,
		CreatedAt:                d.CreatedAt,
		UpdatedAt:                d.UpdatedAt,
	}
}

type UserRepository struct {
	coll *mongo.Collection
	ping func(context.Context) error
	now  func() time.Time
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{
		coll: db.Collection(UsersCollection),
		ping: Healthcheck(db.Client()),
		now:  time.Now,
	}
}

var _ repository.UserRepository = (*UserRepository)(nil)

func (r *UserRepository) Ping(ctx context.Context) error { return r.ping(ctx) }

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	now := r.now().UTC()
	doc := userDoc{
		ID:              bson.NewObjectID(),
		Email:           u.Email,
		Password:        u.Password,
		Name:            u.Name,
		IsEmailVerified: u.IsEmailVerified,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicateKey
		}
		return err
	}
	u.ID = doc.ID.Hex()
	u.CreatedAt = now
	u.UpdatedAt = now
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) GetByResetToken(ctx context.Context, token string, now time.Time) (*entity.User, error) {
	if token == "" {
		return nil, repository.ErrNotFound
	}
	return r.findOne(ctx, bson.M{"resetPasswordToken": token, "resetPasswordExpires": bson.M{"$gt": now.UTC()}})
}

func (r *UserRepository) GetByVerificationToken(ctx context.Context, token string, now time.Time) (*entity.User, error) {
	if token == "" {
		return nil, repository.ErrNotFound
	}
	return r.findOne(ctx, bson.M{"emailVerificationToken": token, "emailVerificationExpires": bson.M{"$gt": now.UTC()}})
}

func (r *UserRepository) UpdateFields(ctx context.Context, id string, f repository.UserFields) error {
	set := bson.M{}
	if f.Name != nil {
		set["name"] = *f.Name
	}
	if f.IsEmailVerified != nil {
		set["isEmailVerified"] = *f.IsEmailVerified
	}
	return r.updateByID(ctx, id, bson.M{"$set": set})
}

func (r *UserRepository) SetResetToken(ctx context.Context, id, token string, expires time.Time) error {
	return r.updateByID(ctx, id, bson.M{"$set": bson.M{"resetPasswordToken": token, "resetPasswordExpires": expires.UTC()}})
}

func (r *UserRepository) SetVerificationToken(ctx context.Context, id, token string, expires time.Time) error {
	return r.updateByID(ctx, id, bson.M{"$set": bson.M{"emailVerificationToken": token, "emailVerificationExpires": expires.UTC()}})
}

func (r *UserRepository) ClearResetToken(ctx context.Context, id string) error {
	return r.updateByID(ctx, id, bson.M{"$unset": bson.M{"resetPasswordToken": "", "resetPasswordExpires": ""}})
}

func (r *UserRepository) ClearVerificationToken(ctx context.Context, id string) error {
	return r.updateByID(ctx, id, bson.M{"$unset": bson.M{"emailVerificationToken": "", "emailVerificationExpires": ""}})
}

func (r *UserRepository) MarkEmailVerified(ctx context.Context, token string, now time.Time) (*entity.User, error) {
	if token == "" {
		return nil, repository.ErrNotFound
	}
	return r.consume(ctx,
		bson.M{"emailVerificationToken": token, "emailVerificationExpires": bson.M{"$gt": now.UTC()}},
		bson.M{
			"$set":   bson.M{"isEmailVerified": true},
			"$unset": bson.M{"emailVerificationToken": "", "emailVerificationExpires": ""},
		},
	)
}

func (r *UserRepository) SetPassword(ctx context.Context, id, hash string) error {
	return r.updateByID(ctx, id, bson.M{
		"$set":   bson.M{"password": hash},
		"$unset": bson.M{"resetPasswordToken": "", "resetPasswordExpires": ""},
	})
}

func (r *UserRepository) ResetPassword(ctx context.Context, token, hash string, now time.Time) (*entity.User, error) {
	if token == "" {
		return nil, repository.ErrNotFound
	}
	return r.consume(ctx,
		bson.M{"resetPasswordToken": token, "resetPasswordExpires": bson.M{"$gt": now.UTC()}},
		bson.M{
			"$set":   bson.M{"password": hash},
			"$unset": bson.M{"resetPasswordToken": "", "resetPasswordExpires": ""},
		},
	)
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*entity.User, error) {
	var doc userDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return doc.toEntity(), nil
}

// consume applies update to the single document matching filter and returns it after the update.
func (r *UserRepository) consume(ctx context.Context, filter, update bson.M) (*entity.User, error) {
	stampUpdated(update, r.now())
	var doc userDoc
	err := r.coll.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return doc.toEntity(), nil
}

func (r *UserRepository) updateByID(ctx context.Context, id string, update bson.M) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return repository.ErrNotFound
	}
	stampUpdated(update, r.now())
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func stampUpdated(update bson.M, now time.Time) {
	set, _ := update["$set"].(bson.M)
	if set == nil {
		set = bson.M{}
		update["$set"] = set
	}
	set["updatedAt"] = now.UTC()
}
