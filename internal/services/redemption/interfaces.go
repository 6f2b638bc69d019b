package redemption

import (
	"context"

	"github.com/codexdhruv11/Health-Insurance-Help-Desk-sub001/internal/models"
)

// Service exchanges coins for reward items and reverses redemptions.
type Service interface {
	// Redeem debits quantity * cost coins from the user's wallet and
	// decrements the item's stock, both in one atomic step. Exactly
	// one of two concurrent redemptions contending for the last unit
	// succeeds.
	Redeem(ctx context.Context, userID, rewardItemID uint, quantity int) (*models.CoinTransaction, *models.Wallet, error)

	// Refund reverses the redemption identified by referenceID on
	// behalf of userID: coins return to the wallet and stock to the
	// item. A redemption can be refunded at most once.
	Refund(ctx context.Context, userID uint, referenceID string) (*models.CoinTransaction, *models.Wallet, error)
}
