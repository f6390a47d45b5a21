package models

import (
	"time"
)

// Flag types raised by the fraud rules and the daily scan.
const (
	FlagTypeHighFrequencyTransfer = "high-frequency-transfer"
	FlagTypeLargeAmount           = "large-amount"
	FlagTypeDailyScanLargeAmount  = "daily-scan-large-amount"
)

// Flag is an advisory fraud marker for administrative review. Flags never
// block or reverse the transaction they reference, and duplicates for the
// same transaction are tolerated.
type Flag struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	UserID        *uint     `gorm:"index" json:"user_id"`
	TransactionID uint      `gorm:"index" json:"transaction_id"`
	Type          string    `gorm:"not null" json:"type"`
	Message       string    `gorm:"not null" json:"message"`
	IsDeleted     bool      `gorm:"default:false" json:"is_deleted"`
	CreatedAt     time.Time `gorm:"index" json:"created_at"`
}
