// Package mongodb provides a durable Post Store backed by a MongoDB collection.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/x/mongo/driver/topology"

	"Postboard/internal/core/posts"
)

// postDocument is the stored shape of a post. _id is generated by the driver on insert.
type postDocument struct {
	CreatedAt time.Time          `bson:"created_at"`
	Title     string             `bson:"title"`
	Content   string             `bson:"content"`
	ID        primitive.ObjectID `bson:"_id,omitempty"`
}

type mongoPostRepo struct {
	coll *mongo.Collection
	// client is set only when the repository opened the connection itself
	client *mongo.Client
}

// ClientOptions returns driver options for uri with server selection bounded by timeout.
// Every operation on an unreachable deployment fails after timeout instead of the
// driver's 30s default.
func ClientOptions(uri string, timeout time.Duration) *options.ClientOptions {
	return options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(timeout).
		SetConnectTimeout(timeout)
}

// Open connects to uri, pings the primary, and returns a repository over database.collection.
// The returned repository owns the client and disconnects it on Close.
func Open(ctx context.Context, uri, database, collection string, timeout time.Duration) (posts.Repository, error) {
	client, err := mongo.Connect(ctx, ClientOptions(uri, timeout))
	if err != nil {
		return nil, fmt.Errorf("failed to create mongo client: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, posts.StorageUnavailable("ping mongo", err)
	}

	return &mongoPostRepo{
		coll:   client.Database(database).Collection(collection),
		client: client,
	}, nil
}

// NewPostRepository creates a repository over an existing collection.
// The caller keeps ownership of the underlying client.
func NewPostRepository(coll *mongo.Collection) posts.Repository {
	return &mongoPostRepo{coll: coll}
}

// Create inserts a new document; the driver assigns the ObjectID
func (r *mongoPostRepo) Create(ctx context.Context, post *posts.Post) error {
	doc := postDocument{
		Title:   post.Title,
		Content: post.Content,
		// BSON dates have millisecond precision
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return wrapError("insert post", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}

	post.ID = oid.Hex()
	post.CreatedAt = doc.CreatedAt
	return nil
}

// List returns every post sorted by _id, which follows insertion order
func (r *mongoPostRepo) List(ctx context.Context) ([]*posts.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})

	cursor, err := r.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, wrapError("list posts", err)
	}

	var docs []postDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, wrapError("decode posts", err)
	}

	result := make([]*posts.Post, 0, len(docs))
	for _, doc := range docs {
		result = append(result, &posts.Post{
			ID:        doc.ID.Hex(),
			Title:     doc.Title,
			Content:   doc.Content,
			CreatedAt: doc.CreatedAt,
		})
	}
	return result, nil
}

// Close disconnects the client if this repository opened it
func (r *mongoPostRepo) Close(ctx context.Context) error {
	if r.client == nil {
		return nil
	}
	if err := r.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect mongo: %w", err)
	}
	return nil
}

// wrapError marks connectivity failures as posts.ErrStorageUnavailable
func wrapError(op string, err error) error {
	if isUnavailable(err) {
		return posts.StorageUnavailable(op, err)
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}

func isUnavailable(err error) bool {
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
		return true
	}
	if errors.Is(err, mongo.ErrClientDisconnected) || errors.Is(err, topology.ErrServerSelectionTimeout) {
		return true
	}
	var selErr topology.ServerSelectionError
	return errors.As(err, &selErr)
}
