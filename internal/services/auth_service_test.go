package services_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/MuhammadUsmanGM/ChatUp/internal/models"
	"github.com/MuhammadUsmanGM/ChatUp/internal/repositories"
	"github.com/MuhammadUsmanGM/ChatUp/internal/services"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByVerificationToken(ctx context.Context, token string) (*models.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByResetToken(ctx context.Context, token string) (*models.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) MarkEmailVerified(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) SetVerificationToken(ctx context.Context, id primitive.ObjectID, token string) error {
	args := m.Called(ctx, id, token)
	return args.Error(0)
}

func (m *MockUserRepository) SetResetToken(ctx context.Context, id primitive.ObjectID, token string, expires int64) error {
	args := m.Called(ctx, id, token, expires)
	return args.Error(0)
}

func (m *MockUserRepository) ClearResetToken(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

func (m *MockUserRepository) ResetPassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateName(ctx context.Context, id primitive.ObjectID, name string) error {
	args := m.Called(ctx, id, name)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockMailer is a mock implementation of services.Mailer
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendVerificationEmail(email, name, token string) error {
	args := m.Called(email, name, token)
	return args.Error(0)
}

func (m *MockMailer) SendPasswordResetEmail(email, name, token string) error {
	args := m.Called(email, name, token)
	return args.Error(0)
}

func (m *MockMailer) SendSupportEmail(email, name, message string) error {
	args := m.Called(email, name, message)
	return args.Error(0)
}

// TestMain is used to setup test environment
func TestMain(m *testing.M) {
	// Suppress logging during tests for cleaner output
	log.SetOutput(io.Discard)
	code := m.Run()
	os.Exit(code)
}

func TestAuthService_RegisterUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockMailer := new(MockMailer)
	authService := services.NewAuthService(mockRepo, mockMailer, "test_jwt_secret")
	ctx := context.Background()

	// Test successful registration
	mockRepo.On("Create", ctx, mock.AnythingOfType("*models.User")).Return(nil).Once()
	mockMailer.On("SendVerificationEmail", "test@example.com", "Test User", mock.AnythingOfType("string")).Return(nil).Once()

	user, emailSent, err := authService.RegisterUser(ctx, "Test User", "test@example.com", "password123")
	assert.NoError(t, err)
	assert.True(t, emailSent)
	assert.Equal(t, "Test User", user.Name)
	assert.False(t, user.EmailVerified)
	// token_urlsafe(32): 32 random bytes base64url-encoded without padding
	assert.Len(t, user.VerificationToken, 43)
	// Stored password must be a bcrypt hash of the plaintext
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("password123")))
	mockRepo.AssertExpectations(t)
	mockMailer.AssertExpectations(t)

	// Test duplicate email
	mockRepo.On("Create", ctx, mock.AnythingOfType("*models.User")).Return(repositories.ErrDuplicateEmail).Once()
	_, _, err = authService.RegisterUser(ctx, "Test User", "test@example.com", "password123")
	assert.ErrorIs(t, err, repositories.ErrDuplicateEmail)
	mockRepo.AssertExpectations(t)

	// Test registration still succeeds when the email cannot be sent
	mockRepo.On("Create", ctx, mock.AnythingOfType("*models.User")).Return(nil).Once()
	mockMailer.On("SendVerificationEmail", "test2@example.com", "Other User", mock.AnythingOfType("string")).
		Return(errors.New("smtp unavailable")).Once()

	user, emailSent, err = authService.RegisterUser(ctx, "Other User", "test2@example.com", "password123")
	assert.NoError(t, err)
	assert.False(t, emailSent)
	assert.NotNil(t, user)
	mockRepo.AssertExpectations(t)
	mockMailer.AssertExpectations(t)
}

func TestAuthService_LoginUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockMailer := new(MockMailer)
	testJWTSecret := "test_jwt_secret"
	authService := services.NewAuthService(mockRepo, mockMailer, testJWTSecret)
	ctx := context.Background()

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &models.User{
		ID:            primitive.NewObjectID(),
		Name:          "Test User",
		Email:         "test@example.com",
		Password:      string(hashedPassword),
		EmailVerified: true,
	}

	// Test successful login
	mockRepo.On("GetByEmail", ctx, user.Email).Return(user, nil).Once()

	loggedIn, token, err := authService.LoginUser(ctx, "test@example.com", "password123")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, user.Email, loggedIn.Email)

	// Validate the token structure
	parsedToken, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(testJWTSecret), nil
	})
	assert.NoError(t, err)
	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	assert.True(t, ok)
	assert.Equal(t, user.Email, claims["email"])
	assert.Equal(t, user.Name, claims["name"])
	mockRepo.AssertExpectations(t)

	// Test wrong password
	mockRepo.On("GetByEmail", ctx, user.Email).Return(user, nil).Once()
	_, _, err = authService.LoginUser(ctx, "test@example.com", "wrongpassword")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	mockRepo.AssertExpectations(t)

	// Test unknown email maps to the same generic error
	mockRepo.On("GetByEmail", ctx, "nobody@example.com").Return(nil, repositories.ErrNotFound).Once()
	_, _, err = authService.LoginUser(ctx, "nobody@example.com", "password123")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	mockRepo.AssertExpectations(t)

	// Test unverified account fails closed even with the right password
	unverified := &models.User{
		ID:            primitive.NewObjectID(),
		Name:          "Pending User",
		Email:         "pending@example.com",
		Password:      string(hashedPassword),
		EmailVerified: false,
	}
	mockRepo.On("GetByEmail", ctx, unverified.Email).Return(unverified, nil).Once()
	_, _, err = authService.LoginUser(ctx, "pending@example.com", "password123")
	assert.ErrorIs(t, err, services.ErrEmailNotVerified)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_ValidateToken(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockMailer := new(MockMailer)
	testJWTSecret := "test_jwt_secret"
	authService := services.NewAuthService(mockRepo, mockMailer, testJWTSecret)

	// Generate a valid token
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": "test@example.com",
		"name":  "Test User",
		"exp":   jwt.TimeFunc().Add(time.Hour).Unix(),
	})
	validTokenString, _ := token.SignedString([]byte(testJWTSecret))

	// Test valid token
	claims, err := authService.ValidateToken(validTokenString)
	assert.NoError(t, err)
	assert.NotNil(t, claims)
	assert.Equal(t, "test@example.com", claims["email"])
	assert.Equal(t, "Test User", claims["name"])

	// Test malformed token
	_, err = authService.ValidateToken("invalid.token.string")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid token")

	// Test expired token
	expiredToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": "test@example.com",
		"exp":   jwt.TimeFunc().Add(-time.Hour).Unix(),
	})
	expiredTokenString, _ := expiredToken.SignedString([]byte(testJWTSecret))
	_, err = authService.ValidateToken(expiredTokenString)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid token")
}

func TestAuthService_VerifyEmail(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockMailer := new(MockMailer)
	authService := services.NewAuthService(mockRepo, mockMailer, "test_jwt_secret")
	ctx := context.Background()

	user := &models.User{
		ID:                primitive.NewObjectID(),
		Email:             "test@example.com",
		VerificationToken: "valid-token",
	}

	// Test successful verification
	mockRepo.On("GetByVerificationToken", ctx, "valid-token").Return(user, nil).Once()
	mockRepo.On("MarkEmailVerified", ctx, user.ID).Return(nil).Once()
	err := authService.VerifyEmail(ctx, "valid-token")
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)

	// Test unknown token
	mockRepo.On("GetByVerificationToken", ctx, "bogus").Return(nil, repositories.ErrNotFound).Once()
	err = authService.VerifyEmail(ctx, "bogus")
	assert.ErrorIs(t, err, services.ErrInvalidToken)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_ResendVerification(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockMailer := new(MockMailer)
	authService := services.NewAuthService(mockRepo, mockMailer, "test_jwt_secret")
	ctx := context.Background()

	user := &models.User{
		ID:    primitive.NewObjectID(),
		Name:  "Test User",
		Email: "test@example.com",
	}

	// Test token rotation and resend
	mockRepo.On("GetByEmail", ctx, user.Email).Return(user, nil).Once()
	mockRepo.On("SetVerificationToken", ctx, user.ID, mock.AnythingOfType("string")).Return(nil).Once()
	mockMailer.On("SendVerificationEmail", user.Email, user.Name, mock.AnythingOfType("string")).Return(nil).Once()
	err := authService.ResendVerification(ctx, user.Email)
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
	mockMailer.AssertExpectations(t)

	// Test already verified account
	verified := &models.User{ID: primitive.NewObjectID(), Email: "done@example.com", EmailVerified: true}
	mockRepo.On("GetByEmail", ctx, verified.Email).Return(verified, nil).Once()
	err = authService.ResendVerification(ctx, verified.Email)
	assert.ErrorIs(t, err, services.ErrAlreadyVerified)
	mockRepo.AssertExpectations(t)

	// Test send failure surfaces as ErrEmailSend
	mockRepo.On("GetByEmail", ctx, user.Email).Return(user, nil).Once()
	mockRepo.On("SetVerificationToken", ctx, user.ID, mock.AnythingOfType("string")).Return(nil).Once()
	mockMailer.On("SendVerificationEmail", user.Email, user.Name, mock.AnythingOfType("string")).
		Return(errors.New("smtp unavailable")).Once()
	err = authService.ResendVerification(ctx, user.Email)
	assert.ErrorIs(t, err, services.ErrEmailSend)
	mockRepo.AssertExpectations(t)
	mockMailer.AssertExpectations(t)
}

func TestAuthService_ChangePassword(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockMailer := new(MockMailer)
	authService := services.NewAuthService(mockRepo, mockMailer, "test_jwt_secret")
	ctx := context.Background()

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("oldpassword"), bcrypt.DefaultCost)
	user := &models.User{
		ID:       primitive.NewObjectID(),
		Email:    "test@example.com",
		Password: string(hashedPassword),
	}

	// Test successful change
	mockRepo.On("GetByEmail", ctx, user.Email).Return(user, nil).Once()
	mockRepo.On("UpdatePassword", ctx, user.ID, mock.AnythingOfType("string")).Return(nil).Once()
	err := authService.ChangePassword(ctx, user.Email, "oldpassword", "newpassword")
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)

	// Test wrong current password
	mockRepo.On("GetByEmail", ctx, user.Email).Return(user, nil).Once()
	err = authService.ChangePassword(ctx, user.Email, "wrongpassword", "newpassword")
	assert.ErrorIs(t, err, services.ErrWrongPassword)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_PasswordReset(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockMailer := new(MockMailer)
	authService := services.NewAuthService(mockRepo, mockMailer, "test_jwt_secret")
	ctx := context.Background()

	user := &models.User{
		ID:    primitive.NewObjectID(),
		Name:  "Test User",
		Email: "test@example.com",
	}

	// Test requesting a reset stores a token with a future expiry
	var storedExpiry int64
	mockRepo.On("GetByEmail", ctx, user.Email).Return(user, nil).Once()
	mockRepo.On("SetResetToken", ctx, user.ID, mock.AnythingOfType("string"), mock.AnythingOfType("int64")).
		Run(func(args mock.Arguments) {
			storedExpiry = args.Get(3).(int64)
		}).Return(nil).Once()
	mockMailer.On("SendPasswordResetEmail", user.Email, user.Name, mock.AnythingOfType("string")).Return(nil).Once()

	err := authService.RequestPasswordReset(ctx, user.Email)
	assert.NoError(t, err)
	// Expiry should land about 2 hours out
	assert.InDelta(t, time.Now().Add(2*time.Hour).Unix(), storedExpiry, 5)
	mockRepo.AssertExpectations(t)
	mockMailer.AssertExpectations(t)

	// Test consuming a valid token
	valid := &models.User{
		ID:                   primitive.NewObjectID(),
		Email:                "test@example.com",
		ResetPasswordToken:   "reset-token",
		ResetPasswordExpires: time.Now().Add(time.Hour).Unix(),
	}
	mockRepo.On("GetByResetToken", ctx, "reset-token").Return(valid, nil).Once()
	mockRepo.On("ResetPassword", ctx, valid.ID, mock.AnythingOfType("string")).Return(nil).Once()
	err = authService.ResetPassword(ctx, "reset-token", "newpassword")
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)

	// Test an expired token is rejected and cleared
	expired := &models.User{
		ID:                   primitive.NewObjectID(),
		Email:                "test@example.com",
		ResetPasswordToken:   "stale-token",
		ResetPasswordExpires: time.Now().Add(-time.Minute).Unix(),
	}
	mockRepo.On("GetByResetToken", ctx, "stale-token").Return(expired, nil).Once()
	mockRepo.On("ClearResetToken", ctx, expired.ID).Return(nil).Once()
	err = authService.ResetPassword(ctx, "stale-token", "newpassword")
	assert.ErrorIs(t, err, services.ErrTokenExpired)
	mockRepo.AssertExpectations(t)

	// Test an unknown token
	mockRepo.On("GetByResetToken", ctx, "bogus").Return(nil, repositories.ErrNotFound).Once()
	err = authService.ResetPassword(ctx, "bogus", "newpassword")
	assert.ErrorIs(t, err, services.ErrInvalidToken)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_DeleteAccount(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockMailer := new(MockMailer)
	authService := services.NewAuthService(mockRepo, mockMailer, "test_jwt_secret")
	ctx := context.Background()

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &models.User{
		ID:       primitive.NewObjectID(),
		Email:    "test@example.com",
		Password: string(hashedPassword),
	}

	// Test successful deletion
	mockRepo.On("GetByEmail", ctx, user.Email).Return(user, nil).Once()
	mockRepo.On("Delete", ctx, user.ID).Return(nil).Once()
	err := authService.DeleteAccount(ctx, user.Email, "password123")
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)

	// Test wrong password leaves the account alone
	mockRepo.On("GetByEmail", ctx, user.Email).Return(user, nil).Once()
	err = authService.DeleteAccount(ctx, user.Email, "wrongpassword")
	assert.ErrorIs(t, err, services.ErrWrongPassword)
	mockRepo.AssertExpectations(t)
}
