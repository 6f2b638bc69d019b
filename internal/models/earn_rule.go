package models

import "time"

// EarnRule configures how a task type converts into coins.
// CooldownSeconds is the minimum gap between two rewarded completions;
// MaxPerDay caps rewarded completions per UTC calendar day. Zero
// disables the respective control.
type EarnRule struct {
	ID              uint   `gorm:"primarykey"`
	TaskType        string `gorm:"type:varchar(64);uniqueIndex;not null"`
	Description     string
	CoinAmount      int64 `gorm:"not null;check:coin_amount > 0"`
	CooldownSeconds int   `gorm:"not null;default:0"`
	MaxPerDay       int   `gorm:"not null;default:0"`
	IsActive        bool  `gorm:"not null;default:true"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Cooldown returns the configured cooldown as a duration.
func (r *EarnRule) Cooldown() time.Duration {
	return time.Duration(r.CooldownSeconds) * time.Second
}
