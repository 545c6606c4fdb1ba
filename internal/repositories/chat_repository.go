package repositories

import (
	"context"

	"github.com/MuhammadUsmanGM/ChatUp/internal/models"
)

// ChatRepository defines the interface for chat transcript data access.
type ChatRepository interface {
	// Insert stores a new chat document and returns its hex id.
	Insert(ctx context.Context, chat *models.Chat) (string, error)
	// AppendMessages atomically appends messages to the chat identified by
	// id, provided it is owned by userEmail. It reports whether a chat
	// matched; a miss is not an error so callers can fall back to creating
	// a fresh chat.
	AppendMessages(ctx context.Context, id, userEmail string, messages []models.ChatMessage) (bool, error)
	// ListByUser returns the user's chats, newest first, up to limit.
	ListByUser(ctx context.Context, userEmail string, limit int64) ([]models.Chat, error)
	// Delete removes the chat identified by id if it is owned by userEmail.
	Delete(ctx context.Context, id, userEmail string) error
}
