package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/MuhammadUsmanGM/ChatUp/internal/middleware"
	"github.com/MuhammadUsmanGM/ChatUp/internal/repositories"
	"github.com/MuhammadUsmanGM/ChatUp/internal/services"
)

// AccountHandler handles authenticated account management: password change,
// profile update, account deletion, and password verification.
type AccountHandler struct {
	authService *services.AuthService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(authService *services.AuthService) *AccountHandler {
	return &AccountHandler{authService: authService}
}

// RegisterRoutes registers the account routes behind the auth middleware.
func (h *AccountHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	router.Post("/change-password", authRequired, h.HandleChangePassword)
	router.Post("/update-profile", authRequired, h.HandleUpdateProfile)
	router.Delete("/delete-account", authRequired, h.HandleDeleteAccount)
	router.Post("/verify-password", authRequired, h.HandleVerifyPassword)
}

// requireOwnEmail rejects requests whose email does not match the session
// token's subject. The token is real now, so a caller cannot operate on
// another account just by naming its email.
func requireOwnEmail(c *fiber.Ctx, email string) error {
	if email != middleware.TokenEmail(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success": false,
			"message": "Token does not match the requested account",
		})
	}
	return nil
}

// ChangePasswordRequest is the body of POST /change-password.
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
	Email       string `json:"email"`
}

// HandleChangePassword verifies the current password and stores a new one.
func (h *AccountHandler) HandleChangePassword(c *fiber.Ctx) error {
	var req ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil || req.OldPassword == "" || req.NewPassword == "" || req.Email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Old password, new password, and email are required",
		})
	}
	if len(req.NewPassword) < 6 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "New password must be at least 6 characters long",
		})
	}
	if err := requireOwnEmail(c, req.Email); err != nil {
		return err
	}

	err := h.authService.ChangePassword(c.Context(), req.Email, req.OldPassword, req.NewPassword)
	switch {
	case err == nil:
		return c.JSON(fiber.Map{
			"success": true,
			"message": "Password changed successfully!",
		})
	case errors.Is(err, repositories.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "User not found",
		})
	case errors.Is(err, services.ErrWrongPassword):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "Current password is incorrect",
		})
	default:
		log.Printf("Change password error for %s: %v", req.Email, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "An error occurred while changing your password.",
		})
	}
}

// UpdateProfileRequest is the body of POST /update-profile.
type UpdateProfileRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// HandleUpdateProfile changes the account's display name.
func (h *AccountHandler) HandleUpdateProfile(c *fiber.Ctx) error {
	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil || req.Name == "" || req.Email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Name and email are required",
		})
	}
	if err := requireOwnEmail(c, req.Email); err != nil {
		return err
	}

	err := h.authService.UpdateProfile(c.Context(), req.Email, req.Name)
	switch {
	case err == nil:
		return c.JSON(fiber.Map{
			"success": true,
			"message": "Profile updated successfully!",
			"data": fiber.Map{
				"name":  req.Name,
				"email": req.Email,
			},
		})
	case errors.Is(err, repositories.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "User not found",
		})
	default:
		log.Printf("Update profile error for %s: %v", req.Email, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "An error occurred while updating your profile.",
		})
	}
}

// CredentialsRequest is a body carrying an email and password pair.
type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleDeleteAccount removes the account after re-checking the password.
func (h *AccountHandler) HandleDeleteAccount(c *fiber.Ctx) error {
	var req CredentialsRequest
	if err := c.BodyParser(&req); err != nil || req.Email == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Email and password are required",
		})
	}
	if err := requireOwnEmail(c, req.Email); err != nil {
		return err
	}

	err := h.authService.DeleteAccount(c.Context(), req.Email, req.Password)
	switch {
	case err == nil:
		return c.JSON(fiber.Map{
			"success": true,
			"message": "Account deleted successfully!",
		})
	case errors.Is(err, repositories.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "User not found",
		})
	case errors.Is(err, services.ErrWrongPassword):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "Password is incorrect",
		})
	default:
		log.Printf("Delete account error for %s: %v", req.Email, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "An error occurred while deleting your account.",
		})
	}
}

// HandleVerifyPassword checks the password without changing anything. Used
// by the frontend before destructive actions.
func (h *AccountHandler) HandleVerifyPassword(c *fiber.Ctx) error {
	var req CredentialsRequest
	if err := c.BodyParser(&req); err != nil || req.Email == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Email and password are required",
		})
	}
	if err := requireOwnEmail(c, req.Email); err != nil {
		return err
	}

	err := h.authService.VerifyPassword(c.Context(), req.Email, req.Password)
	switch {
	case err == nil:
		return c.JSON(fiber.Map{
			"success": true,
			"message": "Password verified successfully",
		})
	case errors.Is(err, repositories.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "User not found",
		})
	case errors.Is(err, services.ErrWrongPassword):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "Incorrect password",
		})
	default:
		log.Printf("Verify password error for %s: %v", req.Email, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "An error occurred while verifying your password.",
		})
	}
}
