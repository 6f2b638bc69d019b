package wallet

import (
	"context"

	"github.com/codexdhruv11/Health-Insurance-Help-Desk-sub001/internal/models"
)

// Service reads wallet state. All writes go through the earning and
// redemption services.
type Service interface {
	// GetWallet returns the user's wallet, creating an empty one on
	// first access.
	GetWallet(ctx context.Context, userID uint) (*models.Wallet, error)

	// ListTransactions returns a filtered page of the wallet's ledger,
	// newest first. A user without a wallet gets an empty page.
	ListTransactions(ctx context.Context, userID uint, opts ListOptions) (*TransactionPage, error)

	// Audit replays the wallet's full ledger and reports whether the
	// stored aggregates match it.
	Audit(ctx context.Context, userID uint) (*AuditReport, error)
}
