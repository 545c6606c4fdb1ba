package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/MuhammadUsmanGM/ChatUp/internal/models"
)

// MockChatRepository is an in-memory implementation of ChatRepository.
type MockChatRepository struct {
	chats map[string]models.Chat
	mu    sync.RWMutex
}

// NewMockChatRepository creates a new instance of MockChatRepository.
func NewMockChatRepository() *MockChatRepository {
	return &MockChatRepository{
		chats: make(map[string]models.Chat),
	}
}

// Insert stores a new chat and returns its hex id.
func (r *MockChatRepository) Insert(_ context.Context, chat *models.Chat) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if chat.ID.IsZero() {
		chat.ID = primitive.NewObjectID()
	}
	now := time.Now()
	if chat.CreatedAt.IsZero() {
		chat.CreatedAt = now
	}
	if chat.UpdatedAt.IsZero() {
		chat.UpdatedAt = now
	}
	r.chats[chat.ID.Hex()] = *chat
	return chat.ID.Hex(), nil
}

// AppendMessages appends messages if the chat exists and is owned by userEmail.
func (r *MockChatRepository) AppendMessages(_ context.Context, id, userEmail string, messages []models.ChatMessage) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	chat, ok := r.chats[id]
	if !ok || chat.UserEmail != userEmail {
		return false, nil
	}
	chat.Messages = append(chat.Messages, messages...)
	chat.UpdatedAt = time.Now()
	r.chats[id] = chat
	return true, nil
}

// ListByUser returns the user's chats, newest first, up to limit.
func (r *MockChatRepository) ListByUser(_ context.Context, userEmail string, limit int64) ([]models.Chat, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var chats []models.Chat
	for _, c := range r.chats {
		if c.UserEmail == userEmail {
			chats = append(chats, c)
		}
	}
	sort.Slice(chats, func(i, j int) bool {
		return chats[i].CreatedAt.After(chats[j].CreatedAt)
	})
	if limit > 0 && int64(len(chats)) > limit {
		chats = chats[:limit]
	}
	return chats, nil
}

// Delete removes a chat owned by userEmail.
func (r *MockChatRepository) Delete(_ context.Context, id, userEmail string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	chat, ok := r.chats[id]
	if !ok || chat.UserEmail != userEmail {
		return ErrNotFound
	}
	delete(r.chats, id)
	return nil
}
