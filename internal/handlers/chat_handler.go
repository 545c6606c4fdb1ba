package handlers

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/MuhammadUsmanGM/ChatUp/internal/middleware"
	"github.com/MuhammadUsmanGM/ChatUp/internal/models"
	"github.com/MuhammadUsmanGM/ChatUp/internal/repositories"
	"github.com/MuhammadUsmanGM/ChatUp/internal/services"
)

// ChatHandler relays chat messages to the agent and serves chat history.
type ChatHandler struct {
	chatService *services.ChatService
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(chatService *services.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// RegisterRoutes registers the chat routes. POST /chat is public so the
// frontend can offer an anonymous try-out mode; history access requires a
// session token.
func (h *ChatHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	router.Post("/chat", h.HandleChat)
	router.Get("/chat-history", authRequired, h.HandleChatHistory)
	router.Delete("/chat-history/:id", authRequired, h.HandleDeleteChat)
}

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	Message   string `json:"message"`
	UserEmail string `json:"userId"`
	ChatID    string `json:"chatId"`
}

// HandleChat forwards the message to the agent and returns its reply. When
// userId names an account the exchange is appended to the chat identified by
// chatId, or to a new chat when chatId is absent or not owned by the user.
// Agent failures still return 200 with a canned apology; only persistence
// failures produce a 500.
func (h *ChatHandler) HandleChat(c *fiber.Ctx) error {
	var req ChatRequest
	if err := c.BodyParser(&req); err != nil || req.Message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"response": "No message provided",
		})
	}

	reply, chatID, err := h.chatService.SendMessage(c.Context(), req.UserEmail, req.ChatID, req.Message)
	if err != nil {
		log.Printf("Chat error for %s: %v", req.UserEmail, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"response": "Sorry, I'm having trouble processing your message right now.",
		})
	}

	return c.JSON(fiber.Map{
		"response": reply,
		"chatId":   chatID,
	})
}

// chatMessageJSON is the wire shape of one transcript message.
type chatMessageJSON struct {
	Sender    string `json:"sender"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}

// chatJSON is the wire shape of one chat in a history listing.
type chatJSON struct {
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	CreatedAt string            `json:"created_at"`
	UpdatedAt string            `json:"updated_at"`
	Messages  []chatMessageJSON `json:"messages"`
}

func toChatJSON(chat models.Chat) chatJSON {
	messages := make([]chatMessageJSON, 0, len(chat.Messages))
	for _, m := range chat.Messages {
		messages = append(messages, chatMessageJSON{
			Sender:    m.Sender,
			Text:      m.Text,
			Timestamp: m.Timestamp.Format(time.RFC3339),
		})
	}
	return chatJSON{
		ID:        chat.ID.Hex(),
		Title:     chat.Title,
		CreatedAt: chat.CreatedAt.Format(time.RFC3339),
		UpdatedAt: chat.UpdatedAt.Format(time.RFC3339),
		Messages:  messages,
	}
}

// HandleChatHistory returns the caller's most recent chats, newest first.
func (h *ChatHandler) HandleChatHistory(c *fiber.Ctx) error {
	userEmail := c.Query("user_email")
	if userEmail == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "user_email parameter is required",
		})
	}
	if userEmail != middleware.TokenEmail(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success": false,
			"message": "Token does not match the requested account",
		})
	}

	chats, err := h.chatService.History(c.Context(), userEmail)
	if err != nil {
		log.Printf("Chat history error for %s: %v", userEmail, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "An error occurred while fetching chat history.",
		})
	}

	out := make([]chatJSON, 0, len(chats))
	for _, chat := range chats {
		out = append(out, toChatJSON(chat))
	}
	return c.JSON(fiber.Map{
		"success": true,
		"chats":   out,
	})
}

// HandleDeleteChat deletes one chat owned by the caller.
func (h *ChatHandler) HandleDeleteChat(c *fiber.Ctx) error {
	userEmail := middleware.TokenEmail(c)

	err := h.chatService.DeleteChat(c.Context(), c.Params("id"), userEmail)
	switch {
	case err == nil:
		return c.JSON(fiber.Map{
			"success": true,
			"message": "Chat deleted successfully",
		})
	case errors.Is(err, repositories.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Chat not found or you do not have permission to delete it",
		})
	default:
		log.Printf("Delete chat error for %s: %v", userEmail, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "An error occurred while deleting the chat.",
		})
	}
}
