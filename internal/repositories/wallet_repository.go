package repositories

import (
	"context"
	"time"

	"github.com/codexdhruv11/Health-Insurance-Help-Desk-sub001/internal/models"
)

// TransactionFilter narrows ledger listings. Nil fields are ignored;
// From is inclusive, To exclusive.
type TransactionFilter struct {
	Type *models.TransactionType
	From *time.Time
	To   *time.Time
}

// LedgerTotals are the replayed aggregates of one wallet's ledger.
type LedgerTotals struct {
	Earned int64 // EARN and REFUND credits
	Spent  int64 // SPEND debits
}

// Balance returns the balance the ledger implies.
func (t LedgerTotals) Balance() int64 {
	return t.Earned - t.Spent
}

// WalletRepository defines wallet and ledger database operations.
//
// The Apply methods are the only ledger writers. Each one runs in a
// single database transaction that locks the wallet row, mutates the
// aggregates and inserts the ledger entry, so the two can never
// diverge. Lock contention and serialization failures come back as
// ErrConcurrencyConflict, which callers may retry.
type WalletRepository interface {
	GetOrCreate(ctx context.Context, userID uint) (*models.Wallet, error)
	GetByUserID(ctx context.Context, userID uint) (*models.Wallet, error)
	GetByID(ctx context.Context, id uint) (*models.Wallet, error)

	// ApplyDelta moves amount through the wallet. EARN and REFUND
	// credit the balance, SPEND debits it.
	ApplyDelta(ctx context.Context, walletID uint, txType models.TransactionType, amount int64, reason string, metadata models.JSON) (*models.CoinTransaction, *models.Wallet, error)
	// ApplyRedemption debits quantity * cost coins and decrements the
	// reward item's stock in the same transaction.
	ApplyRedemption(ctx context.Context, walletID, rewardItemID uint, quantity int) (*models.CoinTransaction, *models.Wallet, error)
	// ApplyRefund reverses the redemption identified by originalRef:
	// stock is restored, the wallet credited and a REFUND entry linked
	// through RelatedRef. Refunding twice fails with ErrAlreadyRefunded.
	ApplyRefund(ctx context.Context, walletID uint, originalRef string) (*models.CoinTransaction, *models.Wallet, error)

	CountEarnsSince(ctx context.Context, walletID uint, taskType string, since time.Time) (int64, error)
	ListTransactions(ctx context.Context, walletID uint, filter TransactionFilter, skip, take int) ([]models.CoinTransaction, int64, error)
	GetTransactionByReference(ctx context.Context, referenceID string) (*models.CoinTransaction, error)
	SumLedger(ctx context.Context, walletID uint) (LedgerTotals, error)
}
