package ledger

import (
	"context"

	"paisa/internal/models"
)

// Service defines the ledger operations exposed to callers.
type Service interface {
	// Deposit credits the account's balance and accrues GEMS bonus points
	Deposit(ctx context.Context, userID uint, amount float64, currency string) (DepositResult, error)

	// Withdraw debits the account's balance and returns the new balance
	Withdraw(ctx context.Context, userID uint, amount float64, currency string) (float64, error)

	// Transfer atomically moves funds from the sender to the account
	// registered under the recipient email
	Transfer(ctx context.Context, senderID uint, recipientEmail string, amount float64, currency string) error

	// GetHistory returns all ledger entries involving the user, newest first
	GetHistory(ctx context.Context, userID uint) ([]models.Transaction, error)
}

// FraudChecker evaluates a committed ledger entry against the fraud
// rules. It runs after the operation's transaction has committed; its
// errors are logged by the ledger service and never propagated.
type FraudChecker interface {
	Evaluate(ctx context.Context, userID uint, txn *models.Transaction) ([]models.Flag, error)
}

// CacheOperator invalidates cached account state after mutations.
type CacheOperator interface {
	InvalidateUser(ctx context.Context, userID uint) error
}

// NoopCache is a CacheOperator that does nothing.
type NoopCache struct{}

func (NoopCache) InvalidateUser(context.Context, uint) error { return nil }
