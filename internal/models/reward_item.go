package models

import "time"

// RewardItem is a catalog entry purchasable with coins. Stock may only
// reach zero, never go below it; IsAvailable is an admin kill switch
// independent of stock.
type RewardItem struct {
	ID          uint   `gorm:"primarykey"`
	Name        string `gorm:"type:varchar(128);not null"`
	Description string
	CoinCost    int64 `gorm:"not null;check:coin_cost > 0"`
	Stock       int   `gorm:"not null;default:0;check:stock >= 0"`
	IsAvailable bool  `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
