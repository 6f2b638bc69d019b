// Package redemption spends coins on reward catalog items. The
// repository performs the actual stock and balance mutation in one
// database transaction; this service owns the request validation,
// fail-fast prechecks and cache invalidation around it.
package redemption

import (
	"context"
	"log"
	"strings"
	"time"

	apperrors "github.com/codexdhruv11/Health-Insurance-Help-Desk-sub001/internal/errors"
	"github.com/codexdhruv11/Health-Insurance-Help-Desk-sub001/internal/models"
	"github.com/codexdhruv11/Health-Insurance-Help-Desk-sub001/internal/repositories"
	"github.com/codexdhruv11/Health-Insurance-Help-Desk-sub001/internal/services/wallet"
)

type service struct {
	rewards repositories.RewardRepository
	wallets repositories.WalletRepository
	cache   wallet.Cache
	metrics wallet.MetricsCollector
}

// NewService creates a redemption service. Repositories are required;
// cache and metrics fall back to no-ops.
func NewService(
	rewards repositories.RewardRepository,
	wallets repositories.WalletRepository,
	cache wallet.Cache,
	metrics wallet.MetricsCollector,
) Service {
	if rewards == nil {
		panic("redemption: reward repository is required")
	}
	if wallets == nil {
		panic("redemption: wallet repository is required")
	}
	if cache == nil {
		cache = wallet.NoopCache{}
	}
	if metrics == nil {
		metrics = &wallet.NoopMetricsCollector{}
	}
	return &service{rewards: rewards, wallets: wallets, cache: cache, metrics: metrics}
}

func (s *service) Redeem(ctx context.Context, userID, rewardItemID uint, quantity int) (*models.CoinTransaction, *models.Wallet, error) {
	start := time.Now()
	defer func() { s.metrics.RecordOperationDuration("redeem", time.Since(start)) }()

	if quantity < 1 || quantity > MaxRedeemQuantity {
		s.metrics.RecordError("redeem", apperrors.Code(apperrors.ErrInvalidQuantity))
		return nil, nil, apperrors.ErrInvalidQuantity
	}

	// Fail-fast reads before any row is locked. The repository
	// re-checks all of this under locks; these only keep doomed
	// requests away from the hot rows.
	item, err := s.rewards.GetByID(ctx, rewardItemID)
	if err != nil {
		return nil, nil, err
	}
	if !item.IsAvailable {
		return nil, nil, apperrors.ErrRewardUnavailable
	}
	if item.Stock < quantity {
		return nil, nil, apperrors.ErrInsufficientStock
	}

	w, err := s.wallets.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if item.CoinCost*int64(quantity) > w.Balance {
		return nil, nil, apperrors.ErrInsufficientCoins
	}

	entry, updated, err := s.wallets.ApplyRedemption(ctx, w.ID, item.ID, quantity)
	if err != nil {
		s.metrics.RecordError("redeem", apperrors.Code(err))
		return nil, nil, err
	}

	s.invalidate(ctx, userID)
	s.metrics.RecordTransaction(string(models.TransactionSpend), entry.Amount)
	return entry, updated, nil
}

func (s *service) Refund(ctx context.Context, userID uint, referenceID string) (*models.CoinTransaction, *models.Wallet, error) {
	start := time.Now()
	defer func() { s.metrics.RecordOperationDuration("refund", time.Since(start)) }()

	referenceID = strings.TrimSpace(referenceID)
	if referenceID == "" {
		return nil, nil, apperrors.ErrTransactionNotFound
	}

	w, err := s.wallets.GetByUserID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	// Prechecks give clean errors before the transaction; ApplyRefund
	// revalidates everything under the wallet lock.
	original, err := s.wallets.GetTransactionByReference(ctx, referenceID)
	if err != nil {
		return nil, nil, err
	}
	if original.WalletID != w.ID {
		// References belonging to other wallets look like misses.
		return nil, nil, apperrors.ErrTransactionNotFound
	}
	if original.Type != models.TransactionSpend || original.Reason != models.ReasonRewardRedemption {
		return nil, nil, apperrors.ErrNotRefundable
	}

	entry, updated, err := s.wallets.ApplyRefund(ctx, w.ID, referenceID)
	if err != nil {
		s.metrics.RecordError("refund", apperrors.Code(err))
		return nil, nil, err
	}

	s.invalidate(ctx, userID)
	s.metrics.RecordTransaction(string(models.TransactionRefund), entry.Amount)
	return entry, updated, nil
}

func (s *service) invalidate(ctx context.Context, userID uint) {
	if err := s.cache.InvalidateWallet(ctx, userID); err != nil {
		log.Printf("failed to invalidate wallet cache for user %d: %v", userID, err)
	}
}
