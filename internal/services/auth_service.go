package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log"
	"time"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"

	"github.com/MuhammadUsmanGM/ChatUp/internal/models"
	"github.com/MuhammadUsmanGM/ChatUp/internal/repositories"
)

// resetTokenTTL is how long a password reset link stays valid.
const resetTokenTTL = 2 * time.Hour

// AuthService handles business logic for accounts: registration, login,
// email verification, and password lifecycle.
type AuthService struct {
	userRepo   repositories.UserRepository
	mailer     Mailer
	jwtSecret  []byte
	tokenDurat time.Duration // Duration for which JWT is valid
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, mailer Mailer, jwtSecret string) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		mailer:     mailer,
		jwtSecret:  []byte(jwtSecret),
		tokenDurat: 24 * time.Hour, // Token valid for 24 hours
	}
}

// newURLToken returns a 32-byte URL-safe random token, the same shape as
// Python's secrets.token_urlsafe(32).
func newURLToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// RegisterUser creates an unverified account and emails a verification link.
// Registration succeeds even when the email cannot be sent; the returned
// bool reports whether the send worked so the caller can word its response.
func (s *AuthService) RegisterUser(ctx context.Context, name, email, password string) (*models.User, bool, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, false, fmt.Errorf("failed to hash password: %w", err)
	}

	token, err := newURLToken()
	if err != nil {
		return nil, false, err
	}

	user := &models.User{
		Name:              name,
		Email:             email,
		Password:          string(hashedPassword),
		EmailVerified:     false,
		VerificationToken: token,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, false, err
	}

	emailSent := true
	if err := s.mailer.SendVerificationEmail(email, name, token); err != nil {
		log.Printf("Failed to send verification email to %s: %v", email, err)
		emailSent = false
	}
	return user, emailSent, nil
}

// LoginUser authenticates a user and returns a signed session token.
// Login fails closed for unverified accounts regardless of the password.
func (s *AuthService) LoginUser(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		// Do not reveal whether the email exists.
		return nil, "", ErrInvalidCredentials
	}

	if !user.EmailVerified {
		return nil, "", ErrEmailNotVerified
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": user.Email,
		"name":  user.Name,
		"exp":   time.Now().Add(s.tokenDurat).Unix(),
		"iat":   time.Now().Unix(),
	})
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}
	return user, tokenString, nil
}

// ValidateToken parses and validates a session token, returning its claims.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid token")
}

// VerifyEmail marks the account holding the token as verified. The token is
// kept on the document for reference.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	user, err := s.userRepo.GetByVerificationToken(ctx, token)
	if err != nil {
		return ErrInvalidToken
	}
	return s.userRepo.MarkEmailVerified(ctx, user.ID)
}

// ResendVerification rotates the verification token and emails it again.
func (s *AuthService) ResendVerification(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user.EmailVerified {
		return ErrAlreadyVerified
	}

	token, err := newURLToken()
	if err != nil {
		return err
	}
	if err := s.userRepo.SetVerificationToken(ctx, user.ID, token); err != nil {
		return err
	}

	if err := s.mailer.SendVerificationEmail(email, user.Name, token); err != nil {
		log.Printf("Failed to send verification email to %s: %v", email, err)
		return ErrEmailSend
	}
	return nil
}

// ChangePassword verifies the old password and stores a new hash.
func (s *AuthService) ChangePassword(ctx context.Context, email, oldPassword, newPassword string) error {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)); err != nil {
		return ErrWrongPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.userRepo.UpdatePassword(ctx, user.ID, string(hashed))
}

// UpdateProfile changes the account's display name.
func (s *AuthService) UpdateProfile(ctx context.Context, email, name string) error {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	return s.userRepo.UpdateName(ctx, user.ID, name)
}

// DeleteAccount removes the account after re-checking the password.
func (s *AuthService) DeleteAccount(ctx context.Context, email, password string) error {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return ErrWrongPassword
	}
	return s.userRepo.Delete(ctx, user.ID)
}

// VerifyPassword checks the password for an account without changing anything.
func (s *AuthService) VerifyPassword(ctx context.Context, email, password string) error {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return ErrWrongPassword
	}
	return nil
}

// RequestPasswordReset stores a reset token with a 2-hour expiry and emails
// the reset link. Unlike registration, a failed send is reported to the
// caller.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}

	token, err := newURLToken()
	if err != nil {
		return err
	}
	expires := time.Now().Add(resetTokenTTL).Unix()
	if err := s.userRepo.SetResetToken(ctx, user.ID, token, expires); err != nil {
		return err
	}

	if err := s.mailer.SendPasswordResetEmail(email, user.Name, token); err != nil {
		log.Printf("Failed to send password reset email to %s: %v", email, err)
		return ErrEmailSend
	}
	return nil
}

// ResetPassword consumes a reset token. An expired token is cleared from the
// document lazily, at the moment it is presented.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	user, err := s.userRepo.GetByResetToken(ctx, token)
	if err != nil {
		return ErrInvalidToken
	}

	if user.ResetPasswordExpires > 0 && time.Now().Unix() > user.ResetPasswordExpires {
		if err := s.userRepo.ClearResetToken(ctx, user.ID); err != nil {
			log.Printf("Failed to clear expired reset token for %s: %v", user.Email, err)
		}
		return ErrTokenExpired
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.userRepo.ResetPassword(ctx, user.ID, string(hashed))
}
