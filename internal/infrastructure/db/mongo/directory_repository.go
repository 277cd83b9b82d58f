package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/99minutos/user-directory/internal/core/domain"
)

const directoryCollection = "directory_users"

// DirectoryRepository stores directory records in a MongoDB collection.
type DirectoryRepository struct {
	coll *mongo.Collection
}

func NewDirectoryRepository(db *mongo.Database) *DirectoryRepository {
	return &DirectoryRepository{coll: db.Collection(directoryCollection)}
}

type mongoUser struct {
	ID                primitive.ObjectID `bson:"_id,omitempty"`
	Email             string             `bson:"email"`
	PasswordHash      string             `bson:"passwordHash"`
	CreationTimestamp int64              `bson:"creationTimestamp"`
}

// EnsureIndexes creates the unique email index. The service already rejects
// duplicates; the index catches writers outside this process.
func (r *DirectoryRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create email index: %w", err)
	}
	return nil
}

func (r *DirectoryRepository) FetchAll(ctx context.Context) ([]domain.UserRecord, error) {
	opts := options.Find().
		SetProjection(bson.M{"email": 1, "passwordHash": 1, "creationTimestamp": 1}).
		SetSort(bson.D{{Key: "_id", Value: 1}})

	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoUser
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}

	out := make([]domain.UserRecord, 0, len(docs))
	for _, d := range docs {
		out = append(out, toRecord(d))
	}
	return out, nil
}

func (r *DirectoryRepository) Create(ctx context.Context, record domain.UserRecord) (*domain.UserRecord, error) {
	doc := mongoUser{
		Email:             record.Email,
		PasswordHash:      record.PasswordHash,
		CreationTimestamp: record.CreationTimestamp,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.UserExists(record.Email)
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		doc.ID = oid
	}
	created := toRecord(doc)
	return &created, nil
}

func toRecord(d mongoUser) domain.UserRecord {
	r := domain.UserRecord{
		Email:             d.Email,
		PasswordHash:      d.PasswordHash,
		CreationTimestamp: d.CreationTimestamp,
	}
	if !d.ID.IsZero() {
		r.ID = d.ID.Hex()
	}
	return r
}

// Ping checks the server behind the collection.
func (r *DirectoryRepository) Ping(ctx context.Context) error {
	return r.coll.Database().Client().Ping(ctx, nil)
}
