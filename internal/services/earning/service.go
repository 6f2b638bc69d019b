// Package earning converts completed tasks into wallet credits. Every
// award is gated by the task's earn rule: the rule must be active, the
// per-task cooldown clear and the daily cap not yet reached.
package earning

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	apperrors "github.com/codexdhruv11/Health-Insurance-Help-Desk-sub001/internal/errors"
	"github.com/codexdhruv11/Health-Insurance-Help-Desk-sub001/internal/limiter"
	"github.com/codexdhruv11/Health-Insurance-Help-Desk-sub001/internal/models"
	"github.com/codexdhruv11/Health-Insurance-Help-Desk-sub001/internal/repositories"
	"github.com/codexdhruv11/Health-Insurance-Help-Desk-sub001/internal/services/wallet"
)

type service struct {
	rules     repositories.EarnRuleRepository
	wallets   repositories.WalletRepository
	cooldowns CooldownLimiter
	cache     wallet.Cache
	metrics   wallet.MetricsCollector
	now       func() time.Time
}

// NewService creates an earning service. Repositories and the cooldown
// limiter are required; cache and metrics fall back to no-ops.
func NewService(
	rules repositories.EarnRuleRepository,
	wallets repositories.WalletRepository,
	cooldowns CooldownLimiter,
	cache wallet.Cache,
	metrics wallet.MetricsCollector,
) Service {
	if rules == nil {
		panic("earning: earn rule repository is required")
	}
	if wallets == nil {
		panic("earning: wallet repository is required")
	}
	if cooldowns == nil {
		panic("earning: cooldown limiter is required")
	}
	if cache == nil {
		cache = wallet.NoopCache{}
	}
	if metrics == nil {
		metrics = &wallet.NoopMetricsCollector{}
	}
	return &service{
		rules:     rules,
		wallets:   wallets,
		cooldowns: cooldowns,
		cache:     cache,
		metrics:   metrics,
		now:       time.Now,
	}
}

func (s *service) Earn(ctx context.Context, userID uint, taskType string, amountOverride *int64, metadata models.JSON) (*models.CoinTransaction, *models.Wallet, error) {
	start := time.Now()
	defer func() { s.metrics.RecordOperationDuration("earn", time.Since(start)) }()

	taskType = strings.TrimSpace(taskType)
	if taskType == "" {
		s.metrics.RecordError("earn", apperrors.Code(apperrors.ErrInvalidTaskType))
		return nil, nil, apperrors.ErrInvalidTaskType
	}
	if amountOverride != nil && *amountOverride <= 0 {
		s.metrics.RecordError("earn", apperrors.Code(apperrors.ErrInvalidAmount))
		return nil, nil, apperrors.ErrInvalidAmount
	}

	w, err := s.wallets.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	rule, err := s.validate(ctx, userID, w.ID, taskType)
	if err != nil {
		s.metrics.RecordError("earn", apperrors.Code(err))
		return nil, nil, err
	}

	amount := rule.CoinAmount
	if amountOverride != nil {
		amount = *amountOverride
	}

	entry, updated, err := s.wallets.ApplyDelta(ctx, w.ID, models.TransactionEarn, amount, rule.TaskType, metadata)
	if err != nil {
		s.metrics.RecordError("earn", apperrors.Code(err))
		return nil, nil, err
	}

	if err := s.cache.InvalidateWallet(ctx, userID); err != nil {
		log.Printf("failed to invalidate wallet cache for user %d: %v", userID, err)
	}
	s.metrics.RecordTransaction(string(models.TransactionEarn), amount)
	return entry, updated, nil
}

func (s *service) Validate(ctx context.Context, userID uint, taskType string) (*models.EarnRule, error) {
	taskType = strings.TrimSpace(taskType)
	if taskType == "" {
		return nil, apperrors.ErrInvalidTaskType
	}

	// Without a wallet there is nothing earned today, so the daily cap
	// check can run against wallet ID zero and skip the count.
	walletID := uint(0)
	w, err := s.wallets.GetByUserID(ctx, userID)
	switch {
	case err == nil:
		walletID = w.ID
	case errors.Is(err, apperrors.ErrWalletNotFound):
	default:
		return nil, err
	}
	return s.validate(ctx, userID, walletID, taskType)
}

// validate runs the rule checks in order: rule existence, cooldown,
// daily cap. Failures leave no ledger trace; only the cooldown counter
// advances.
func (s *service) validate(ctx context.Context, userID, walletID uint, taskType string) (*models.EarnRule, error) {
	rule, err := s.rules.GetByTaskType(ctx, taskType)
	if err != nil {
		return nil, err
	}
	if !rule.IsActive {
		// Inactive rules are indistinguishable from missing ones.
		return nil, apperrors.ErrEarnRuleNotFound
	}

	if rule.CooldownSeconds > 0 {
		res, err := s.cooldowns.Check(ctx, cooldownKey(userID, taskType), limiter.Config{
			MaxRequests: 1,
			Window:      rule.Cooldown(),
			Prefix:      CooldownKeyPrefix,
		})
		if err != nil {
			// Earning fails closed when the cooldown store is
			// unreachable.
			return nil, fmt.Errorf("cooldown check failed: %w", err)
		}
		if !res.Allowed {
			return nil, apperrors.ErrRateLimited
		}
	}

	if rule.MaxPerDay > 0 && walletID != 0 {
		count, err := s.wallets.CountEarnsSince(ctx, walletID, taskType, startOfUTCDay(s.now()))
		if err != nil {
			return nil, err
		}
		if count >= int64(rule.MaxPerDay) {
			return nil, apperrors.ErrDailyLimitExceeded
		}
	}
	return rule, nil
}

func (s *service) ListTasks(ctx context.Context) ([]models.EarnRule, error) {
	return s.rules.ListActive(ctx)
}

func cooldownKey(userID uint, taskType string) string {
	return fmt.Sprintf("%d:%s", userID, taskType)
}

// startOfUTCDay returns midnight UTC of the day containing t. Daily
// caps count against the UTC calendar day, not a rolling 24 hours.
func startOfUTCDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
