package wallet

import (
	"context"
	"errors"
	"log"
	"time"

	apperrors "github.com/codexdhruv11/Health-Insurance-Help-Desk-sub001/internal/errors"
	"github.com/codexdhruv11/Health-Insurance-Help-Desk-sub001/internal/models"
	"github.com/codexdhruv11/Health-Insurance-Help-Desk-sub001/internal/repositories"
)

type service struct {
	repo    repositories.WalletRepository
	cache   Cache
	metrics MetricsCollector
}

// NewService creates a wallet read service. The repository is
// required; cache and metrics fall back to no-op implementations.
func NewService(repo repositories.WalletRepository, cache Cache, metrics MetricsCollector) Service {
	if repo == nil {
		panic("wallet: repository is required")
	}
	if cache == nil {
		cache = NoopCache{}
	}
	if metrics == nil {
		metrics = &NoopMetricsCollector{}
	}
	return &service{repo: repo, cache: cache, metrics: metrics}
}

func (s *service) GetWallet(ctx context.Context, userID uint) (*models.Wallet, error) {
	start := time.Now()
	defer func() { s.metrics.RecordOperationDuration("get_wallet", time.Since(start)) }()

	if cached, err := s.cache.GetWallet(ctx, userID); err == nil {
		s.metrics.RecordCacheHit("wallet")
		return cached, nil
	}
	s.metrics.RecordCacheMiss("wallet")

	wallet, err := s.repo.GetOrCreate(ctx, userID)
	if err != nil {
		s.metrics.RecordError("get_wallet", apperrors.Code(err))
		return nil, err
	}

	if err := s.cache.SetWallet(ctx, wallet); err != nil {
		log.Printf("failed to cache wallet for user %d: %v", userID, err)
	}
	return wallet, nil
}

func (s *service) ListTransactions(ctx context.Context, userID uint, opts ListOptions) (*TransactionPage, error) {
	opts = clampListOptions(opts)

	wallet, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrWalletNotFound) {
			// No wallet yet means an empty ledger, not an error.
			return &TransactionPage{
				Transactions: []models.CoinTransaction{},
				Skip:         opts.Skip,
				Take:         opts.Take,
			}, nil
		}
		return nil, err
	}

	filter := repositories.TransactionFilter{Type: opts.Type, From: opts.From, To: opts.To}
	entries, total, err := s.repo.ListTransactions(ctx, wallet.ID, filter, opts.Skip, opts.Take)
	if err != nil {
		s.metrics.RecordError("list_transactions", apperrors.Code(err))
		return nil, err
	}

	return &TransactionPage{
		Transactions: entries,
		Total:        total,
		Skip:         opts.Skip,
		Take:         opts.Take,
		HasMore:      int64(opts.Skip+len(entries)) < total,
	}, nil
}

func (s *service) Audit(ctx context.Context, userID uint) (*AuditReport, error) {
	wallet, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	totals, err := s.repo.SumLedger(ctx, wallet.ID)
	if err != nil {
		return nil, err
	}

	report := &AuditReport{
		WalletID:      wallet.ID,
		UserID:        wallet.UserID,
		Balance:       wallet.Balance,
		TotalEarned:   wallet.TotalEarned,
		TotalSpent:    wallet.TotalSpent,
		LedgerEarned:  totals.Earned,
		LedgerSpent:   totals.Spent,
		LedgerBalance: totals.Balance(),
		Consistent: wallet.Balance == totals.Balance() &&
			wallet.TotalEarned == totals.Earned &&
			wallet.TotalSpent == totals.Spent,
	}
	if !report.Consistent {
		s.metrics.RecordError("audit", "ledger_divergence")
		log.Printf("wallet %d aggregates diverge from ledger: balance %d, replayed %d",
			wallet.ID, wallet.Balance, totals.Balance())
	}
	return report, nil
}

func clampListOptions(opts ListOptions) ListOptions {
	if opts.Skip < 0 {
		opts.Skip = 0
	}
	if opts.Take <= 0 {
		opts.Take = DefaultPageSize
	}
	if opts.Take > MaxPageSize {
		opts.Take = MaxPageSize
	}
	return opts
}
