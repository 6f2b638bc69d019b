package repositories

import (
	"context"
	"errors"
	"fmt"

	apperrors "github.com/codexdhruv11/Health-Insurance-Help-Desk-sub001/internal/errors"
	"github.com/codexdhruv11/Health-Insurance-Help-Desk-sub001/internal/models"

	"gorm.io/gorm"
)

// RewardRepository reads the reward catalog. Stock mutations happen
// inside the wallet repository's redemption writers, never here.
type RewardRepository interface {
	GetByID(ctx context.Context, id uint) (*models.RewardItem, error)
	ListAvailable(ctx context.Context) ([]models.RewardItem, error)
}

type rewardRepository struct {
	db *gorm.DB
}

func NewRewardRepository(db *gorm.DB) RewardRepository {
	return &rewardRepository{db: db}
}

func (r *rewardRepository) GetByID(ctx context.Context, id uint) (*models.RewardItem, error) {
	var item models.RewardItem
	if err := r.db.WithContext(ctx).First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrRewardNotFound
		}
		return nil, fmt.Errorf("failed to get reward item: %w", err)
	}
	return &item, nil
}

func (r *rewardRepository) ListAvailable(ctx context.Context) ([]models.RewardItem, error) {
	var items []models.RewardItem
	if err := r.db.WithContext(ctx).
		Where("is_available = ?", true).
		Order("coin_cost ASC").
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list reward items: %w", err)
	}
	return items, nil
}
