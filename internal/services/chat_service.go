package services

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/MuhammadUsmanGM/ChatUp/internal/agent"
	"github.com/MuhammadUsmanGM/ChatUp/internal/models"
	"github.com/MuhammadUsmanGM/ChatUp/internal/repositories"
)

// titleLimit is the maximum number of characters of the first message used
// as a chat title before truncation.
const titleLimit = 50

// historyLimit caps how many chats a history listing returns.
const historyLimit = 50

// Fixed replies used when the agent cannot produce an answer. The HTTP call
// still succeeds and the exchange is persisted, matching the app's original
// behavior.
const (
	replyAgentDown = "I'm having trouble processing your request. Please try again later."
	replyTimeout   = "The request is taking too long to process. Please try again."
)

// Agent produces a bot reply for a single user message.
type Agent interface {
	Reply(ctx context.Context, message string) (string, error)
}

// ChatService relays user messages to the agent and persists the exchange.
type ChatService struct {
	chatRepo repositories.ChatRepository
	agent    Agent
}

// NewChatService creates a new ChatService.
func NewChatService(chatRepo repositories.ChatRepository, agent Agent) *ChatService {
	return &ChatService{
		chatRepo: chatRepo,
		agent:    agent,
	}
}

// SendMessage gets a bot reply for the message and appends the user/bot pair
// to the chat identified by chatID, creating a fresh chat when chatID is
// empty or does not belong to userEmail. It returns the reply and the id of
// the chat the exchange landed in. When userEmail is empty nothing is
// persisted and the returned chat id is empty.
func (s *ChatService) SendMessage(ctx context.Context, userEmail, chatID, message string) (string, string, error) {
	reply := s.replyFor(ctx, message)

	if userEmail == "" {
		return reply, "", nil
	}

	now := time.Now()
	exchange := []models.ChatMessage{
		{Sender: "user", Text: message, Timestamp: now},
		{Sender: "bot", Text: reply, Timestamp: now},
	}

	if chatID != "" {
		matched, err := s.chatRepo.AppendMessages(ctx, chatID, userEmail, exchange)
		if err != nil {
			return "", "", err
		}
		if matched {
			return reply, chatID, nil
		}
		// Chat not found for this user; fall through and create a new one.
	}

	chat := &models.Chat{
		UserEmail: userEmail,
		Title:     ChatTitle(message),
		CreatedAt: now,
		UpdatedAt: now,
		Messages:  exchange,
	}
	newID, err := s.chatRepo.Insert(ctx, chat)
	if err != nil {
		return "", "", err
	}
	return reply, newID, nil
}

// replyFor asks the agent for an answer, mapping failures to the fixed
// user-facing replies.
func (s *ChatService) replyFor(ctx context.Context, message string) string {
	reply, err := s.agent.Reply(ctx, message)
	if err != nil {
		log.Printf("Agent error: %v", err)
		if errors.Is(err, agent.ErrTimeout) {
			return replyTimeout
		}
		return replyAgentDown
	}
	return reply
}

// History returns the user's most recent chats, newest first.
func (s *ChatService) History(ctx context.Context, userEmail string) ([]models.Chat, error) {
	return s.chatRepo.ListByUser(ctx, userEmail, historyLimit)
}

// DeleteChat removes a chat owned by userEmail.
func (s *ChatService) DeleteChat(ctx context.Context, chatID, userEmail string) error {
	return s.chatRepo.Delete(ctx, chatID, userEmail)
}

// ChatTitle derives a chat title from its first message: the first 50
// characters, with an ellipsis when truncated.
func ChatTitle(message string) string {
	runes := []rune(message)
	if len(runes) > titleLimit {
		return string(runes[:titleLimit]) + "..."
	}
	return message
}
