package service

import (
	"context"
	"strings"
	"time"

	"github.com/shelfshare/shelfshare/errs"
	"github.com/shelfshare/shelfshare/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost matches the work factor the original accounts were hashed
// with, so existing hashes keep verifying.
const bcryptCost = 10

const minPasswordLen = 6

// UserStore is the persistence capability the credential policy needs.
type UserStore interface {
	UserByUsername(ctx context.Context, username string) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) (primitive.ObjectID, error)
}

type CredentialService struct {
	Users UserStore
}

func NewCredentialService(users UserStore) *CredentialService {
	return &CredentialService{Users: users}
}

// HashPassword produces a salted, cost-factored one-way hash.
func HashPassword(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword compares via the hashing primitive's own comparison.
func VerifyPassword(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

// IsUsernameTaken is a case-sensitive exact lookup.
func (s *CredentialService) IsUsernameTaken(ctx context.Context, username string) (bool, error) {
	u, err := s.Users.UserByUsername(ctx, username)
	if err != nil {
		return false, &errs.PersistenceError{Op: "lookup username", Err: err}
	}
	return u != nil, nil
}

// Signup validates, checks uniqueness, and persists the user with a hashed
// password. Plaintext is never stored.
func (s *CredentialService) Signup(ctx context.Context, username, password, confirmPassword string) (*models.User, error) {
	if username == "" || password == "" || confirmPassword == "" {
		return nil, errs.Validation("Please fill in all fields.")
	}
	if password != confirmPassword {
		return nil, errs.Validation("Passwords do not match.")
	}
	if len(password) < minPasswordLen {
		return nil, errs.Validation("Password must be at least 6 characters long.")
	}

	taken, err := s.IsUsernameTaken(ctx, username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, errs.Conflict("Username already exists. Please choose another.")
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, &errs.PersistenceError{Op: "hash password", Err: err}
	}
	user := &models.User{
		Username:  strings.TrimSpace(username),
		Password:  hash,
		CreatedAt: time.Now(),
	}
	id, err := s.Users.CreateUser(ctx, user)
	if err != nil {
		return nil, &errs.PersistenceError{Op: "insert user", Err: err}
	}
	user.ID = id
	return user, nil
}

// Signin returns the same AuthError for an unknown username and a wrong
// password, so the two cases cannot be told apart.
func (s *CredentialService) Signin(ctx context.Context, username, password string) (*models.User, error) {
	if username == "" || password == "" {
		return nil, errs.Validation("Please enter both username and password.")
	}
	user, err := s.Users.UserByUsername(ctx, username)
	if err != nil {
		return nil, &errs.PersistenceError{Op: "lookup user", Err: err}
	}
	if user == nil {
		return nil, &errs.AuthError{}
	}
	if !VerifyPassword(password, user.Password) {
		return nil, &errs.AuthError{}
	}
	return user, nil
}
