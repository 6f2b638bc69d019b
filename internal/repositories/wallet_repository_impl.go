package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "github.com/codexdhruv11/Health-Insurance-Help-Desk-sub001/internal/errors"
	"github.com/codexdhruv11/Health-Insurance-Help-Desk-sub001/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Metadata keys written by the redemption writers. ApplyRefund reads
// the same keys back when reversing a redemption.
const (
	metaRewardItemID = "reward_item_id"
	metaRewardName   = "reward_name"
	metaQuantity     = "quantity"
	metaUnitCost     = "unit_cost"
)

// Postgres SQLSTATE codes that mean the whole transaction should be
// retried by the caller.
const (
	pgLockNotAvailable  = "55P03"
	pgSerializationFail = "40001"
	pgDeadlockDetected  = "40P01"
)

type walletRepository struct {
	db *gorm.DB
}

func NewWalletRepository(db *gorm.DB) WalletRepository {
	return &walletRepository{db: db}
}

// forUpdate locks selected rows with NOWAIT so contending writers
// surface a retryable error instead of queueing behind each other.
func forUpdate() clause.Locking {
	return clause.Locking{Strength: "UPDATE", Options: "NOWAIT"}
}

// translateConcurrency maps lock and serialization failures onto
// ErrConcurrencyConflict. Other errors pass through untouched.
func translateConcurrency(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgLockNotAvailable, pgSerializationFail, pgDeadlockDetected:
			return apperrors.ErrConcurrencyConflict.WithCause(err)
		}
	}
	return err
}

// lockWallet loads the wallet row under FOR UPDATE NOWAIT.
func lockWallet(tx *gorm.DB, walletID uint) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := tx.Clauses(forUpdate()).First(&wallet, walletID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrWalletNotFound
		}
		return nil, err
	}
	return &wallet, nil
}

// lockRewardItem loads the reward item row under FOR UPDATE NOWAIT.
// Both redemption writers lock the item before the wallet; every
// writer touching both tables must keep that order.
func lockRewardItem(tx *gorm.DB, rewardItemID uint) (*models.RewardItem, error) {
	var item models.RewardItem
	if err := tx.Clauses(forUpdate()).First(&item, rewardItemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrRewardNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *walletRepository) GetOrCreate(ctx context.Context, userID uint) (*models.Wallet, error) {
	wallet, err := r.GetByUserID(ctx, userID)
	if err == nil {
		return wallet, nil
	}
	if !errors.Is(err, apperrors.ErrWalletNotFound) {
		return nil, err
	}

	// Two callers can race here; ON CONFLICT DO NOTHING makes the
	// insert idempotent and the re-read returns whichever row won.
	fresh := &models.Wallet{UserID: userID}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(fresh).Error; err != nil {
		return nil, fmt.Errorf("failed to create wallet: %w", err)
	}
	return r.GetByUserID(ctx, userID)
}

func (r *walletRepository) GetByUserID(ctx context.Context, userID uint) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&wallet).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	return &wallet, nil
}

func (r *walletRepository) GetByID(ctx context.Context, id uint) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := r.db.WithContext(ctx).First(&wallet, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	return &wallet, nil
}

func (r *walletRepository) ApplyDelta(ctx context.Context, walletID uint, txType models.TransactionType, amount int64, reason string, metadata models.JSON) (*models.CoinTransaction, *models.Wallet, error) {
	if amount <= 0 {
		return nil, nil, apperrors.ErrInvalidAmount
	}
	if !txType.Valid() {
		return nil, nil, fmt.Errorf("unknown transaction type %q", txType)
	}

	var (
		entry  *models.CoinTransaction
		wallet *models.Wallet
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		w, err := lockWallet(tx, walletID)
		if err != nil {
			return err
		}

		switch txType {
		case models.TransactionEarn, models.TransactionRefund:
			w.Balance += amount
			w.TotalEarned += amount
		case models.TransactionSpend:
			if amount > w.Balance {
				return apperrors.ErrInsufficientCoins
			}
			w.Balance -= amount
			w.TotalSpent += amount
		}

		if err := tx.Save(w).Error; err != nil {
			return fmt.Errorf("failed to update wallet: %w", err)
		}

		entry = &models.CoinTransaction{
			ReferenceID: uuid.NewString(),
			WalletID:    w.ID,
			Type:        txType,
			Amount:      amount,
			Reason:      reason,
			Metadata:    metadata,
		}
		if err := tx.Create(entry).Error; err != nil {
			return fmt.Errorf("failed to write ledger entry: %w", err)
		}
		wallet = w
		return nil
	})
	if err != nil {
		return nil, nil, translateConcurrency(err)
	}
	return entry, wallet, nil
}

func (r *walletRepository) ApplyRedemption(ctx context.Context, walletID, rewardItemID uint, quantity int) (*models.CoinTransaction, *models.Wallet, error) {
	if quantity <= 0 {
		return nil, nil, apperrors.ErrInvalidQuantity
	}

	var (
		entry  *models.CoinTransaction
		wallet *models.Wallet
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		item, err := lockRewardItem(tx, rewardItemID)
		if err != nil {
			return err
		}
		if !item.IsAvailable {
			return apperrors.ErrRewardUnavailable
		}
		if item.Stock < quantity {
			return apperrors.ErrInsufficientStock
		}

		w, err := lockWallet(tx, walletID)
		if err != nil {
			return err
		}

		totalCost := item.CoinCost * int64(quantity)
		if totalCost > w.Balance {
			return apperrors.ErrInsufficientCoins
		}

		// Guarded decrement: the WHERE clause re-asserts the stock
		// floor at write time.
		res := tx.Model(&models.RewardItem{}).
			Where("id = ? AND stock >= ?", item.ID, quantity).
			Update("stock", gorm.Expr("stock - ?", quantity))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.ErrInsufficientStock
		}

		w.Balance -= totalCost
		w.TotalSpent += totalCost
		if err := tx.Save(w).Error; err != nil {
			return fmt.Errorf("failed to update wallet: %w", err)
		}

		entry = &models.CoinTransaction{
			ReferenceID: uuid.NewString(),
			WalletID:    w.ID,
			Type:        models.TransactionSpend,
			Amount:      totalCost,
			Reason:      models.ReasonRewardRedemption,
			Metadata: models.JSON{
				metaRewardItemID: item.ID,
				metaRewardName:   item.Name,
				metaQuantity:     quantity,
				metaUnitCost:     item.CoinCost,
			},
		}
		if err := tx.Create(entry).Error; err != nil {
			return fmt.Errorf("failed to write ledger entry: %w", err)
		}
		wallet = w
		return nil
	})
	if err != nil {
		return nil, nil, translateConcurrency(err)
	}
	return entry, wallet, nil
}

func (r *walletRepository) ApplyRefund(ctx context.Context, walletID uint, originalRef string) (*models.CoinTransaction, *models.Wallet, error) {
	var (
		entry  *models.CoinTransaction
		wallet *models.Wallet
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var original models.CoinTransaction
		if err := tx.Where("reference_id = ?", originalRef).First(&original).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrTransactionNotFound
			}
			return fmt.Errorf("failed to load original transaction: %w", err)
		}
		if original.WalletID != walletID {
			return apperrors.ErrTransactionNotFound
		}
		if original.Type != models.TransactionSpend || original.Reason != models.ReasonRewardRedemption {
			return apperrors.ErrNotRefundable
		}

		itemID, ok := original.Metadata.Int64(metaRewardItemID)
		if !ok {
			return fmt.Errorf("redemption %s carries no reward item id", originalRef)
		}
		qty, ok := original.Metadata.Int64(metaQuantity)
		if !ok {
			return fmt.Errorf("redemption %s carries no quantity", originalRef)
		}

		item, err := lockRewardItem(tx, uint(itemID))
		if err != nil {
			return err
		}
		w, err := lockWallet(tx, walletID)
		if err != nil {
			return err
		}

		// The duplicate check runs under the wallet lock, so two
		// refunds of the same redemption cannot both pass it.
		var refunded int64
		if err := tx.Model(&models.CoinTransaction{}).
			Where("type = ? AND related_ref = ?", models.TransactionRefund, originalRef).
			Count(&refunded).Error; err != nil {
			return fmt.Errorf("failed to check for earlier refunds: %w", err)
		}
		if refunded > 0 {
			return apperrors.ErrAlreadyRefunded
		}

		if err := tx.Model(&models.RewardItem{}).
			Where("id = ?", item.ID).
			Update("stock", gorm.Expr("stock + ?", qty)).Error; err != nil {
			return fmt.Errorf("failed to restore stock: %w", err)
		}

		w.Balance += original.Amount
		w.TotalEarned += original.Amount
		if err := tx.Save(w).Error; err != nil {
			return fmt.Errorf("failed to update wallet: %w", err)
		}

		ref := original.ReferenceID
		entry = &models.CoinTransaction{
			ReferenceID: uuid.NewString(),
			WalletID:    w.ID,
			Type:        models.TransactionRefund,
			Amount:      original.Amount,
			Reason:      models.ReasonRewardRefund,
			RelatedRef:  &ref,
			Metadata: models.JSON{
				metaRewardItemID: item.ID,
				metaRewardName:   item.Name,
				metaQuantity:     qty,
			},
		}
		if err := tx.Create(entry).Error; err != nil {
			return fmt.Errorf("failed to write ledger entry: %w", err)
		}
		wallet = w
		return nil
	})
	if err != nil {
		return nil, nil, translateConcurrency(err)
	}
	return entry, wallet, nil
}

func (r *walletRepository) CountEarnsSince(ctx context.Context, walletID uint, taskType string, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.CoinTransaction{}).
		Where("wallet_id = ? AND type = ? AND reason = ? AND created_at >= ?",
			walletID, models.TransactionEarn, taskType, since).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count earn entries: %w", err)
	}
	return count, nil
}

func (r *walletRepository) ListTransactions(ctx context.Context, walletID uint, filter TransactionFilter, skip, take int) ([]models.CoinTransaction, int64, error) {
	base := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&models.CoinTransaction{}).Where("wallet_id = ?", walletID)
		if filter.Type != nil {
			q = q.Where("type = ?", *filter.Type)
		}
		if filter.From != nil {
			q = q.Where("created_at >= ?", *filter.From)
		}
		if filter.To != nil {
			q = q.Where("created_at < ?", *filter.To)
		}
		return q
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	var entries []models.CoinTransaction
	if err := base().
		Order("created_at DESC, id DESC").
		Limit(take).
		Offset(skip).
		Find(&entries).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions: %w", err)
	}
	return entries, total, nil
}

func (r *walletRepository) GetTransactionByReference(ctx context.Context, referenceID string) (*models.CoinTransaction, error) {
	var entry models.CoinTransaction
	if err := r.db.WithContext(ctx).Where("reference_id = ?", referenceID).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &entry, nil
}

// SumLedger replays the ledger into credit and debit totals. COALESCE
// keeps empty ledgers at zero instead of NULL.
func (r *walletRepository) SumLedger(ctx context.Context, walletID uint) (LedgerTotals, error) {
	var rows []struct {
		Type  models.TransactionType
		Total int64
	}
	err := r.db.WithContext(ctx).Model(&models.CoinTransaction{}).
		Select("type, COALESCE(SUM(amount), 0) AS total").
		Where("wallet_id = ?", walletID).
		Group("type").
		Scan(&rows).Error
	if err != nil {
		return LedgerTotals{}, fmt.Errorf("failed to sum ledger: %w", err)
	}

	var totals LedgerTotals
	for _, row := range rows {
		switch row.Type {
		case models.TransactionEarn, models.TransactionRefund:
			totals.Earned += row.Total
		case models.TransactionSpend:
			totals.Spent += row.Total
		}
	}
	return totals, nil
}
