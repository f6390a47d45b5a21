package repositories

import (
	"context"
	"errors"
	"time"

	"paisa/internal/models"
)

var (
	ErrTransactionNotFound = errors.New("transaction not found")
)

// SenderCount aggregates sent transactions per user.
type SenderCount struct {
	SenderID uint
	Count    int64
}

// TransactionRepository defines the interface for the append-only ledger
// entry log. Entries are created exactly once per completed operation and
// never mutated afterwards; SoftDelete exists for admin moderation only.
type TransactionRepository interface {
	// Create appends a ledger entry
	Create(ctx context.Context, txn *models.Transaction) error

	// GetByID retrieves a ledger entry by ID
	GetByID(ctx context.Context, id uint) (*models.Transaction, error)

	// HistoryForUser retrieves all entries where the user is sender or
	// receiver, newest first
	HistoryForUser(ctx context.Context, userID uint) ([]models.Transaction, error)

	// CountTransfersSince counts transfer entries sent by the user with a
	// creation time at or after the given instant
	CountTransfersSince(ctx context.Context, senderID uint, since time.Time) (int64, error)

	// FindCreatedSince retrieves all entries created at or after the given
	// instant
	FindCreatedSince(ctx context.Context, since time.Time) ([]models.Transaction, error)

	// TopSenders returns the users with the most sent entries
	TopSenders(ctx context.Context, limit int) ([]SenderCount, error)

	// SoftDelete marks an entry as deleted without removing the row
	SoftDelete(ctx context.Context, id uint) error
}
