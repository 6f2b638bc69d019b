package earning

import (
	"context"

	"github.com/codexdhruv11/Health-Insurance-Help-Desk-sub001/internal/limiter"
	"github.com/codexdhruv11/Health-Insurance-Help-Desk-sub001/internal/models"
)

// Service awards coins for completed tasks according to the configured
// earn rules.
type Service interface {
	// Earn validates the task against its rule and credits the user's
	// wallet. amountOverride replaces the rule's coin amount when
	// non-nil; it must be positive. A validation failure leaves no
	// trace in the ledger.
	Earn(ctx context.Context, userID uint, taskType string, amountOverride *int64, metadata models.JSON) (*models.CoinTransaction, *models.Wallet, error)

	// Validate runs the rule checks without touching the ledger. A
	// passing call consumes the task's cooldown slot, so callers
	// should follow it with the actual earn, not another Validate.
	Validate(ctx context.Context, userID uint, taskType string) (*models.EarnRule, error)

	// ListTasks returns the earn rules currently open for completion.
	ListTasks(ctx context.Context) ([]models.EarnRule, error)
}

// CooldownLimiter is the slice of the rate limiter the earning flow
// uses. Check consumes one window slot whether or not it is allowed.
type CooldownLimiter interface {
	Check(ctx context.Context, identifier string, cfg limiter.Config) (limiter.Result, error)
}
