package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/snapgrid/snapgrid-be/internal/apperrors"
	"github.com/snapgrid/snapgrid-be/internal/models"
)

// UserServiceProvider defines the interface for the user-record store.
type UserServiceProvider interface {
	GetUserByID(ctx context.Context, id string) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	CreateUser(ctx context.Context, email, password string) (models.User, error)
}

// UserService provides access to user records.
type UserService struct {
	db *sql.DB
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB) *UserService {
	return &UserService{db: db}
}

// GetUserByID retrieves a single user by their ID.
func (s *UserService) GetUserByID(ctx context.Context, id string) (models.User, error) {
	var user models.User
	row := s.db.QueryRowContext(ctx, "SELECT id, email, created_at FROM users WHERE id = ?", id)
	err := row.Scan(&user.ID, &user.Email, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, apperrors.ErrNotFound
		}
		return models.User{}, fmt.Errorf("%w: %v", apperrors.ErrTransport, err)
	}
	return user, nil
}

// GetUserByEmail retrieves a single user by their email, including the password hash.
func (s *UserService) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	row := s.db.QueryRowContext(ctx, "SELECT id, email, password_hash, created_at FROM users WHERE email = ?", email)
	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, apperrors.ErrNotFound
		}
		return models.User{}, fmt.Errorf("%w: %v", apperrors.ErrTransport, err)
	}
	return user, nil
}

// CreateUser inserts a new user record, hashing the password. The store
// assigns the record an opaque ID and enforces email uniqueness; a racing
// duplicate insert surfaces the same DuplicateError the pre-check would.
func (s *UserService) CreateUser(ctx context.Context, email, password string) (models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hashedPassword),
	}

	stmt, err := s.db.PrepareContext(ctx, "INSERT INTO users(id, email, password_hash) VALUES(?, ?, ?)")
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %v", apperrors.ErrTransport, err)
	}
	defer stmt.Close()

	_, err = stmt.ExecContext(ctx, user.ID, user.Email, user.PasswordHash)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return models.User{}, apperrors.ErrDuplicate
		}
		return models.User{}, fmt.Errorf("%w: %v", apperrors.ErrTransport, err)
	}

	// Return user without password hash
	user.PasswordHash = ""
	return user, nil
}
