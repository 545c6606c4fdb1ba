package repositories

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/MuhammadUsmanGM/ChatUp/internal/models"
)

// MongoChatRepository is a MongoDB implementation of ChatRepository.
type MongoChatRepository struct {
	coll *mongo.Collection
}

// NewMongoChatRepository creates a new instance of MongoChatRepository.
func NewMongoChatRepository(coll *mongo.Collection) *MongoChatRepository {
	return &MongoChatRepository{coll: coll}
}

// Insert stores a new chat document and returns its hex id.
func (r *MongoChatRepository) Insert(ctx context.Context, chat *models.Chat) (string, error) {
	now := time.Now()
	if chat.CreatedAt.IsZero() {
		chat.CreatedAt = now
	}
	if chat.UpdatedAt.IsZero() {
		chat.UpdatedAt = now
	}

	res, err := r.coll.InsertOne(ctx, chat)
	if err != nil {
		return "", fmt.Errorf("failed to insert chat: %w", err)
	}
	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	chat.ID = id
	return id.Hex(), nil
}

// AppendMessages pushes messages onto an existing chat in one atomic update.
// The filter includes the owner email so a user cannot append to someone
// else's chat.
func (r *MongoChatRepository) AppendMessages(ctx context.Context, id, userEmail string, messages []models.ChatMessage) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		// A malformed id behaves like a miss; the caller creates a new chat.
		return false, nil
	}

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": oid, "user_email": userEmail},
		bson.M{
			"$push": bson.M{"messages": bson.M{"$each": messages}},
			"$set":  bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		return false, fmt.Errorf("failed to append chat messages: %w", err)
	}
	return res.MatchedCount > 0, nil
}

// ListByUser returns the user's chats, newest first, up to limit.
func (r *MongoChatRepository) ListByUser(ctx context.Context, userEmail string, limit int64) ([]models.Chat, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.coll.Find(ctx, bson.M{"user_email": userEmail}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list chats: %w", err)
	}
	defer cursor.Close(ctx)

	var chats []models.Chat
	if err := cursor.All(ctx, &chats); err != nil {
		return nil, fmt.Errorf("failed to decode chats: %w", err)
	}
	return chats, nil
}

// Delete removes a chat owned by userEmail. Deleting a chat the caller does
// not own reports ErrNotFound and leaves the document intact.
func (r *MongoChatRepository) Delete(ctx context.Context, id, userEmail string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid, "user_email": userEmail})
	if err != nil {
		return fmt.Errorf("failed to delete chat: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
