package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/jsupa/turbo-template/domain/user"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const usersCollection = "users"

type userDocument struct {
	ID        string    `bson:"_id"`
	Email     string    `bson:"email"`
	Name      string    `bson:"name"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

func (doc *userDocument) toDomain() *user.User {
	return user.Rebuild(user.Snapshot{
		ID:        doc.ID,
		Email:     doc.Email,
		Name:      doc.Name,
		CreatedAt: doc.CreatedAt.UTC(),
		UpdatedAt: doc.UpdatedAt.UTC(),
	})
}

type UserRepository struct {
	driver *Driver
	now    func() time.Time
}

func NewUserRepository(driver *Driver) *UserRepository {
	return &UserRepository{driver: driver, now: time.Now}
}

func (r *UserRepository) collection() (*mongo.Collection, error) {
	db, err := r.driver.Database()
	if err != nil {
		return nil, err
	}
	return db.Collection(usersCollection), nil
}

// EnsureSchema creates the unique email index. Mongo creates the collection on first insert.
func (r *UserRepository) EnsureSchema(ctx context.Context) error {
	coll, err := r.collection()
	if err != nil {
		return err
	}
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("email_1"),
	})
	return err
}

func (r *UserRepository) Save(ctx context.Context, u *user.User) error {
	coll, err := r.collection()
	if err != nil {
		return err
	}

	// BSON dates have millisecond precision.
	now := r.now().UTC().Truncate(time.Millisecond)
	snap := u.Snapshot()

	if u.IsNew() {
		doc := userDocument{
			ID:        snap.ID,
			Email:     snap.Email,
			Name:      snap.Name,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if _, err := coll.InsertOne(ctx, doc); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return user.NewEmailAlreadyExistsError(snap.Email)
			}
			return err
		}
	} else {
		result, err := coll.UpdateOne(ctx,
			bson.D{{Key: "_id", Value: snap.ID}},
			bson.D{{Key: "$set", Value: bson.D{
				{Key: "email", Value: snap.Email},
				{Key: "name", Value: snap.Name},
				{Key: "updatedAt", Value: now},
			}}},
		)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return user.NewEmailAlreadyExistsError(snap.Email)
			}
			return err
		}
		if result.MatchedCount == 0 {
			return user.NewUserNotFoundError(snap.ID)
		}
	}

	u.Touch(now)
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*user.User, error) {
	return r.findOne(ctx, id, bson.D{{Key: "_id", Value: id}})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	email = user.NormalizeEmail(email)
	return r.findOne(ctx, email, bson.D{{Key: "email", Value: email}})
}

func (r *UserRepository) findOne(ctx context.Context, key string, filter bson.D) (*user.User, error) {
	coll, err := r.collection()
	if err != nil {
		return nil, err
	}

	var doc userDocument
	if err := coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, user.NewUserNotFoundError(key)
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) List(ctx context.Context, limit int) ([]*user.User, error) {
	coll, err := r.collection()
	if err != nil {
		return nil, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(user.ClampLimit(limit)))
	cursor, err := coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, err
	}

	var docs []userDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	users := make([]*user.User, 0, len(docs))
	for i := range docs {
		users = append(users, docs[i].toDomain())
	}
	return users, nil
}

var _ user.Repository = (*UserRepository)(nil)
