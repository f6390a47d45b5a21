package repositories

import (
	"context"
	"errors"

	"paisa/internal/models"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrEmailTaken        = errors.New("email already taken")
	ErrDatabaseOperation = errors.New("database operation failed")
)

// UserRepository defines the interface for account persistence. Balances
// and bonuses are only ever mutated through the ledger service, which
// saves the whole account inside an atomic unit.
type UserRepository interface {
	// Create creates a new user account
	Create(ctx context.Context, user *models.User) error

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id uint) (*models.User, error)

	// GetByIDForUpdate retrieves a user by ID holding a row lock until
	// the surrounding transaction ends. Balance mutations read through
	// this so two concurrent units cannot apply the same stale balance.
	GetByIDForUpdate(ctx context.Context, id uint) (*models.User, error)

	// GetByEmail retrieves a user by email address
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// GetActiveByEmail retrieves a non-deleted user by email address
	GetActiveByEmail(ctx context.Context, email string) (*models.User, error)

	// Update persists the user's current state
	Update(ctx context.Context, user *models.User) error

	// List retrieves all users
	List(ctx context.Context) ([]models.User, error)

	// SoftDelete marks a user as deleted without removing the row
	SoftDelete(ctx context.Context, id uint) error
}
