package wallet

import (
	"context"
	"time"

	"github.com/codexdhruv11/Health-Insurance-Help-Desk-sub001/internal/models"
)

// ListOptions filter and page a wallet's ledger history. Nil filters
// are ignored; From is inclusive, To exclusive.
type ListOptions struct {
	Type *models.TransactionType
	From *time.Time
	To   *time.Time
	Skip int
	Take int
}

// TransactionPage is one page of ledger history, newest first.
type TransactionPage struct {
	Transactions []models.CoinTransaction
	Total        int64
	Skip         int
	Take         int
	HasMore      bool
}

// AuditReport compares a wallet's stored aggregates against a full
// ledger replay. The two only diverge when rows were touched outside
// the repository writers.
type AuditReport struct {
	WalletID      uint
	UserID        uint
	Balance       int64
	TotalEarned   int64
	TotalSpent    int64
	LedgerEarned  int64
	LedgerSpent   int64
	LedgerBalance int64
	Consistent    bool
}

// MetricsCollector receives operational signals from the coin
// services. Implementations must be safe for concurrent use.
type MetricsCollector interface {
	RecordOperationDuration(operation string, duration time.Duration)
	RecordCacheHit(key string)
	RecordCacheMiss(key string)
	RecordTransaction(txType string, amount int64)
	RecordError(operation, errType string)
}

// Cache is the wallet read cache. Lookups that miss return an error;
// writers invalidate after every committed balance change.
type Cache interface {
	GetWallet(ctx context.Context, userID uint) (*models.Wallet, error)
	SetWallet(ctx context.Context, wallet *models.Wallet) error
	InvalidateWallet(ctx context.Context, userID uint) error
}
