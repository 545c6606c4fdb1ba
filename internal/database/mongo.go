package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/MuhammadUsmanGM/ChatUp/internal/config"
)

// Store holds the MongoDB client and the collections the application uses.
// It replaces module-level database globals with an injected handle that has
// a clear connect/close lifecycle.
type Store struct {
	client *mongo.Client
	Users  *mongo.Collection
	Chats  *mongo.Collection
}

// Connect establishes the MongoDB connection and verifies it with a ping.
func Connect(ctx context.Context, cfg config.Config) (*Store, error) {
	opts := options.Client().
		ApplyURI(cfg.MongoURI).
		SetServerSelectionTimeout(30 * time.Second)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	db := client.Database(cfg.DBName)
	return &Store{
		client: client,
		Users:  db.Collection(cfg.UserCollection),
		Chats:  db.Collection(cfg.ChatCollection),
	}, nil
}

// EnsureIndexes creates the indexes the application relies on. The unique
// index on user email makes the duplicate-registration check atomic instead
// of a read-then-write race.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.Users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create unique email index: %w", err)
	}

	_, err = s.Chats.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_email", Value: 1}, {Key: "created_at", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create chat history index: %w", err)
	}
	return nil
}

// Ping checks connectivity to the primary.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Probe performs a round-trip write test: insert a throwaway document into
// the user collection and remove it immediately.
func (s *Store) Probe(ctx context.Context) error {
	res, err := s.Users.InsertOne(ctx, bson.M{"test": "connection", "timestamp": time.Now()})
	if err != nil {
		return fmt.Errorf("probe insert failed: %w", err)
	}
	if _, err := s.Users.DeleteOne(ctx, bson.M{"_id": res.InsertedID}); err != nil {
		return fmt.Errorf("probe delete failed: %w", err)
	}
	return nil
}

// Close disconnects the MongoDB client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
