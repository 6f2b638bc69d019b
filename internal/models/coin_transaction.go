package models

import "time"

type TransactionType string

// Ledger entry types
const (
	TransactionEarn   TransactionType = "EARN"
	TransactionSpend  TransactionType = "SPEND"
	TransactionRefund TransactionType = "REFUND"
)

// Ledger reasons written by the redemption flow. Earn entries use the
// rule's task type as their reason.
const (
	ReasonRewardRedemption = "REWARD_REDEMPTION"
	ReasonRewardRefund     = "REWARD_REFUND"
)

// Valid reports whether t is a known ledger entry type.
func (t TransactionType) Valid() bool {
	switch t {
	case TransactionEarn, TransactionSpend, TransactionRefund:
		return true
	}
	return false
}

// CoinTransaction is one immutable ledger entry. Rows are only ever
// inserted; corrections are expressed as REFUND entries linked to the
// original through RelatedRef.
type CoinTransaction struct {
	ID          uint            `gorm:"primarykey"`
	ReferenceID string          `gorm:"type:uuid;uniqueIndex;not null"`
	WalletID    uint            `gorm:"not null;index:idx_coin_txns_wallet_created,priority:1;index:idx_coin_txns_wallet_reason,priority:1"`
	Type        TransactionType `gorm:"type:varchar(16);not null"`
	Amount      int64           `gorm:"not null;check:amount > 0"`
	Reason      string          `gorm:"type:varchar(64);not null;index:idx_coin_txns_wallet_reason,priority:2"`
	RelatedRef  *string         `gorm:"type:uuid;index"`
	Metadata    JSON            `gorm:"type:jsonb"`
	CreatedAt   time.Time       `gorm:"index:idx_coin_txns_wallet_created,priority:2;index:idx_coin_txns_wallet_reason,priority:3"`
}
