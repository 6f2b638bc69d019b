package models

import (
	"time"

	"gorm.io/gorm"
)

// Wallet is the per-user coin account. Balance and the lifetime
// aggregates are whole coins; fractional amounts do not exist.
// Balance always equals TotalEarned - TotalSpent.
type Wallet struct {
	ID          uint  `gorm:"primarykey"`
	UserID      uint  `gorm:"uniqueIndex;not null"`
	Balance     int64 `gorm:"not null;default:0;check:balance >= 0"`
	TotalEarned int64 `gorm:"not null;default:0;check:total_earned >= 0"`
	TotalSpent  int64 `gorm:"not null;default:0;check:total_spent >= 0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (w *Wallet) BeforeCreate(tx *gorm.DB) error {
	// New wallets always start empty
	w.Balance = 0
	w.TotalEarned = 0
	w.TotalSpent = 0
	return nil
}
