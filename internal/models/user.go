package models

import (
	"gorm.io/gorm"
)

// Default balance codes seeded on account creation.
const (
	DefaultCurrency = "INR"
	BonusCodeGems   = "GEMS"
	BonusCodeCoins  = "COINS"
)

type User struct {
	gorm.Model
	Email     string     `gorm:"uniqueIndex;not null" json:"email"`
	Password  string     `gorm:"not null" json:"-"`
	Name      string     `gorm:"not null" json:"name"`
	Phone     string     `json:"phone,omitempty"`
	AvatarURL string     `json:"avatar_url,omitempty"`
	Balances  BalanceMap `gorm:"type:jsonb;not null" json:"balances"`
	Bonuses   BalanceMap `gorm:"type:jsonb;not null" json:"bonuses"`
	IsDeleted bool       `gorm:"default:false" json:"is_deleted"`
	IsAdmin   bool       `gorm:"default:false" json:"is_admin"`
}

// BeforeCreate seeds the default balance and bonus entries so every
// account starts with INR, GEMS and COINS keys present.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.Balances == nil {
		u.Balances = BalanceMap{DefaultCurrency: 0}
	}
	if u.Bonuses == nil {
		u.Bonuses = BalanceMap{BonusCodeGems: 0, BonusCodeCoins: 0}
	}
	return nil
}

// Balance returns the balance for a currency code, zero when absent.
func (u *User) Balance(currency string) float64 {
	return u.Balances[currency]
}

// Bonus returns the bonus balance for a code, zero when absent.
func (u *User) Bonus(code string) float64 {
	return u.Bonuses[code]
}
