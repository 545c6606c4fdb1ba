package handlers

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"
)

// Prober reports database availability for the diagnostic endpoints.
type Prober interface {
	Ping(ctx context.Context) error
	Probe(ctx context.Context) error
}

// SystemHandler serves the health and database-check endpoints.
type SystemHandler struct {
	prober Prober
}

// NewSystemHandler creates a new SystemHandler.
func NewSystemHandler(prober Prober) *SystemHandler {
	return &SystemHandler{prober: prober}
}

// RegisterRoutes registers the diagnostic routes.
func (h *SystemHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/health", h.HandleHealth)
	router.Get("/test-db", h.HandleTestDB)
}

// HandleHealth reports server liveness and database reachability.
func (h *SystemHandler) HandleHealth(c *fiber.Ctx) error {
	database := "Connected"
	if err := h.prober.Ping(c.Context()); err != nil {
		log.Printf("Health check ping failed: %v", err)
		database = "Disconnected"
	}
	return c.JSON(fiber.Map{
		"status":   "Server is running",
		"database": database,
	})
}

// HandleTestDB performs a round-trip write against the database.
func (h *SystemHandler) HandleTestDB(c *fiber.Ctx) error {
	if err := h.prober.Probe(c.Context()); err != nil {
		log.Printf("Database probe failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Database connection failed",
		})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Database connection is working",
	})
}
