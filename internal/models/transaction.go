package models

import (
	"time"
)

// Transaction types
const (
	TransactionTypeDeposit     = "deposit"
	TransactionTypeWithdraw    = "withdraw"
	TransactionTypeTransfer    = "transfer"
	TransactionTypeBonusGems   = "bonus-gems"
	TransactionTypeBonusCoins  = "bonus-coins"
	TransactionTypeRedeemBonus = "redeem-bonus"
)

// Transaction statuses
const (
	TransactionStatusSuccess = "success"
	TransactionStatusFailed  = "failed"
)

// Transaction is one immutable ledger entry. Sender is null for deposits
// and bonus awards, receiver is null for withdrawals. Entries are never
// updated by ledger operations; IsDeleted exists for admin moderation only.
type Transaction struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	SenderID   *uint     `gorm:"index" json:"sender_id"`
	ReceiverID *uint     `gorm:"index" json:"receiver_id"`
	Amount     float64   `gorm:"not null" json:"amount"`
	Currency   string    `gorm:"not null;default:'INR'" json:"currency"`
	Type       string    `gorm:"not null;index" json:"type"`
	Status     string    `gorm:"not null;default:'success'" json:"status"`
	Reference  string    `gorm:"uniqueIndex" json:"reference"`
	Metadata   Metadata  `gorm:"type:jsonb" json:"metadata"`
	IsDeleted  bool      `gorm:"default:false" json:"is_deleted"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}
