package repositories

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/MuhammadUsmanGM/ChatUp/internal/models"
)

// MockUserRepository is an in-memory implementation of UserRepository.
// It enforces the same email uniqueness the Mongo index provides.
type MockUserRepository struct {
	users map[primitive.ObjectID]models.User
	mu    sync.RWMutex
}

// NewMockUserRepository creates a new instance of MockUserRepository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[primitive.ObjectID]models.User),
	}
}

// Create adds a new user, rejecting duplicate emails.
func (r *MockUserRepository) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == user.Email {
			return ErrDuplicateEmail
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	if user.UpdatedAt.IsZero() {
		user.UpdatedAt = now
	}
	r.users[user.ID] = *user
	return nil
}

// GetByEmail returns the user with the given email.
func (r *MockUserRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Email == email {
			user := u
			return &user, nil
		}
	}
	return nil, ErrNotFound
}

// GetByVerificationToken returns the user holding the verification token.
func (r *MockUserRepository) GetByVerificationToken(_ context.Context, token string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if token != "" && u.VerificationToken == token {
			user := u
			return &user, nil
		}
	}
	return nil, ErrNotFound
}

// GetByResetToken returns the user holding the password reset token.
func (r *MockUserRepository) GetByResetToken(_ context.Context, token string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if token != "" && u.ResetPasswordToken == token {
			user := u
			return &user, nil
		}
	}
	return nil, ErrNotFound
}

// MarkEmailVerified flags the account as verified, keeping the token.
func (r *MockUserRepository) MarkEmailVerified(_ context.Context, id primitive.ObjectID) error {
	return r.update(id, func(u *models.User) {
		u.EmailVerified = true
	})
}

// SetVerificationToken replaces the verification token.
func (r *MockUserRepository) SetVerificationToken(_ context.Context, id primitive.ObjectID, token string) error {
	return r.update(id, func(u *models.User) {
		u.VerificationToken = token
	})
}

// SetResetToken stores a reset token and its expiry.
func (r *MockUserRepository) SetResetToken(_ context.Context, id primitive.ObjectID, token string, expires int64) error {
	return r.update(id, func(u *models.User) {
		u.ResetPasswordToken = token
		u.ResetPasswordExpires = expires
	})
}

// ClearResetToken removes the reset token fields.
func (r *MockUserRepository) ClearResetToken(_ context.Context, id primitive.ObjectID) error {
	return r.update(id, func(u *models.User) {
		u.ResetPasswordToken = ""
		u.ResetPasswordExpires = 0
	})
}

// UpdatePassword replaces the stored password hash.
func (r *MockUserRepository) UpdatePassword(_ context.Context, id primitive.ObjectID, passwordHash string) error {
	return r.update(id, func(u *models.User) {
		u.Password = passwordHash
		u.UpdatedAt = time.Now()
	})
}

// ResetPassword replaces the password hash and clears the reset token.
func (r *MockUserRepository) ResetPassword(_ context.Context, id primitive.ObjectID, passwordHash string) error {
	return r.update(id, func(u *models.User) {
		u.Password = passwordHash
		u.ResetPasswordToken = ""
		u.ResetPasswordExpires = 0
		u.UpdatedAt = time.Now()
	})
}

// UpdateName changes the display name.
func (r *MockUserRepository) UpdateName(_ context.Context, id primitive.ObjectID, name string) error {
	return r.update(id, func(u *models.User) {
		u.Name = name
		u.UpdatedAt = time.Now()
	})
}

// Delete removes the user.
func (r *MockUserRepository) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return ErrNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *MockUserRepository) update(id primitive.ObjectID, fn func(*models.User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return ErrNotFound
	}
	fn(&user)
	r.users[id] = user
	return nil
}
