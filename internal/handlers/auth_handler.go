package handlers

import (
	"errors"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/MuhammadUsmanGM/ChatUp/internal/repositories"
	"github.com/MuhammadUsmanGM/ChatUp/internal/services"
)

// AuthHandler handles registration, login, email verification, and password
// reset requests.
type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the public authentication routes.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/register", h.HandleRegister)
	router.Post("/login", h.HandleLogin)
	router.Get("/verify-email/:token", h.HandleVerifyEmailPage)
	router.Get("/api/verify-email/:token", h.HandleVerifyEmail)
	router.Post("/resend-verification", h.HandleResendVerification)
	router.Post("/request-password-reset", h.HandleRequestPasswordReset)
	router.Post("/reset-password", h.HandleResetPassword)
}

// RegisterRequest is the body of POST /register.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// HandleRegister creates an unverified account and sends the verification
// email. Registration still succeeds if the email cannot be sent; only the
// response message changes.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "All fields (name, email, password) are required",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "All fields (name, email, password) are required",
		})
	}

	user, emailSent, err := h.authService.RegisterUser(c.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"success": false,
				"message": "User with this email already exists",
			})
		}
		log.Printf("Registration error for %s: %v", req.Email, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Registration failed due to server error",
		})
	}

	message := "User registered successfully! Please check your email to verify your account."
	if !emailSent {
		message = "User registered successfully, but verification email could not be sent. Please contact support if you do not receive it."
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": message,
		"name":    user.Name,
		"email":   user.Email,
		"data": fiber.Map{
			"id":    user.ID.Hex(),
			"name":  user.Name,
			"email": user.Email,
		},
	})
}

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// HandleLogin authenticates a user and issues a session token. Unverified
// accounts are rejected regardless of password correctness.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Email and password are required",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Email and password are required",
		})
	}

	user, token, err := h.authService.LoginUser(c.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrEmailNotVerified) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "Please verify your email address before logging in. Check your email for a verification link.",
			})
		}
		if errors.Is(err, services.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "Invalid credentials",
			})
		}
		log.Printf("Login error for %s: %v", req.Email, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Login failed due to server error",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Login successful",
		"name":    user.Name,
		"email":   user.Email,
		"token":   token,
		"data": fiber.Map{
			"name":  user.Name,
			"email": user.Email,
		},
	})
}

// HandleVerifyEmailPage verifies the token and renders an HTML result page
// for users arriving from the emailed link.
func (h *AuthHandler) HandleVerifyEmailPage(c *fiber.Ctx) error {
	c.Type("html")

	err := h.authService.VerifyEmail(c.Context(), c.Params("token"))
	if err != nil {
		if !errors.Is(err, services.ErrInvalidToken) {
			log.Printf("Email verification error: %v", err)
			return c.SendString(verifyErrorPage)
		}
		return c.SendString(verifyFailedPage)
	}
	return c.SendString(verifySuccessPage)
}

// HandleVerifyEmail is the JSON variant of email verification, used by the
// frontend JavaScript.
func (h *AuthHandler) HandleVerifyEmail(c *fiber.Ctx) error {
	if err := h.authService.VerifyEmail(c.Context(), c.Params("token")); err != nil {
		if errors.Is(err, services.ErrInvalidToken) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "Invalid or expired verification token.",
			})
		}
		log.Printf("Email verification error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "An error occurred during email verification.",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Email verified successfully! You can now log in to your account.",
	})
}

// EmailRequest is a body carrying only an email field.
type EmailRequest struct {
	Email string `json:"email" validate:"required"`
}

// HandleResendVerification rotates the verification token and emails it again.
func (h *AuthHandler) HandleResendVerification(c *fiber.Ctx) error {
	var req EmailRequest
	if err := c.BodyParser(&req); err != nil || req.Email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Email is required",
		})
	}

	err := h.authService.ResendVerification(c.Context(), req.Email)
	switch {
	case err == nil:
		return c.JSON(fiber.Map{
			"success": true,
			"message": "Verification email has been sent successfully!",
		})
	case errors.Is(err, repositories.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "User not found",
		})
	case errors.Is(err, services.ErrAlreadyVerified):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Email is already verified",
		})
	case errors.Is(err, services.ErrEmailSend):
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to send verification email. Please try again later.",
		})
	default:
		log.Printf("Resend verification error for %s: %v", req.Email, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "An error occurred while resending verification email.",
		})
	}
}

// HandleRequestPasswordReset stores a 2-hour reset token and emails the link.
func (h *AuthHandler) HandleRequestPasswordReset(c *fiber.Ctx) error {
	var req EmailRequest
	if err := c.BodyParser(&req); err != nil || req.Email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Email is required",
		})
	}

	err := h.authService.RequestPasswordReset(c.Context(), req.Email)
	switch {
	case err == nil:
		return c.JSON(fiber.Map{
			"success": true,
			"message": "Password reset link has been sent to your email.",
		})
	case errors.Is(err, repositories.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Account with this email does not exist",
		})
	case errors.Is(err, services.ErrEmailSend):
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to send password reset email. Please try again later.",
		})
	default:
		log.Printf("Request password reset error for %s: %v", req.Email, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "An error occurred while requesting password reset.",
		})
	}
}

// ResetPasswordRequest is the body of POST /reset-password.
type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

// HandleResetPassword consumes a reset token and sets the new password.
// Expired tokens are cleared from the account when presented.
func (h *AuthHandler) HandleResetPassword(c *fiber.Ctx) error {
	var req ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil || req.Token == "" || req.NewPassword == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Token and new password are required",
		})
	}
	if len(req.NewPassword) < 6 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Password must be at least 6 characters long",
		})
	}

	err := h.authService.ResetPassword(c.Context(), req.Token, req.NewPassword)
	switch {
	case err == nil:
		return c.JSON(fiber.Map{
			"success": true,
			"message": "Password has been reset successfully!",
		})
	case errors.Is(err, services.ErrTokenExpired):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Reset token has expired. Please request a new password reset link.",
		})
	case errors.Is(err, services.ErrInvalidToken):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid or expired reset token.",
		})
	default:
		log.Printf("Reset password error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "An error occurred while resetting your password.",
		})
	}
}
