package handlers

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/MuhammadUsmanGM/ChatUp/internal/services"
)

// SupportHandler forwards contact-form submissions to the support mailbox.
type SupportHandler struct {
	mailer   services.Mailer
	validate *validator.Validate
}

// NewSupportHandler creates a new SupportHandler.
func NewSupportHandler(mailer services.Mailer) *SupportHandler {
	return &SupportHandler{
		mailer:   mailer,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the support route.
func (h *SupportHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/contact-support", h.HandleContactSupport)
}

// SupportRequest is the body of POST /contact-support.
type SupportRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// HandleContactSupport validates the form and emails it to the support
// address.
func (h *SupportHandler) HandleContactSupport(c *fiber.Ctx) error {
	var req SupportRequest
	if err := c.BodyParser(&req); err != nil || req.Name == "" || req.Email == "" || req.Message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "All fields (name, email, message) are required",
		})
	}
	if err := h.validate.Var(req.Email, "email"); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid email format",
		})
	}
	if len(req.Message) < 10 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Message must be at least 10 characters long",
		})
	}

	if err := h.mailer.SendSupportEmail(req.Email, req.Name, req.Message); err != nil {
		log.Printf("Support email error from %s: %v", req.Email, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to send your message. Please try again later.",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Your message has been sent successfully! We'll get back to you soon.",
	})
}
