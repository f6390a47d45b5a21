package ledger

import "errors"

// Service errors
var (
	// ErrInvalidAmount covers non-positive amounts and, for withdrawals,
	// amounts exceeding the available balance.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInvalidRecipient is returned when a transfer target cannot be
	// resolved or equals the sender.
	ErrInvalidRecipient = errors.New("invalid recipient")

	// ErrInsufficientFunds is returned when a transfer exceeds the
	// sender's balance.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrTransferFailed is returned when the atomic transfer unit aborts;
	// both balances are left unchanged.
	ErrTransferFailed = errors.New("transfer failed")
)
