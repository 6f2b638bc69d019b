package repositories

import (
	"context"
	"errors"
	"fmt"

	apperrors "github.com/codexdhruv11/Health-Insurance-Help-Desk-sub001/internal/errors"
	"github.com/codexdhruv11/Health-Insurance-Help-Desk-sub001/internal/models"

	"gorm.io/gorm"
)

// EarnRuleRepository reads the earning configuration.
type EarnRuleRepository interface {
	GetByTaskType(ctx context.Context, taskType string) (*models.EarnRule, error)
	ListActive(ctx context.Context) ([]models.EarnRule, error)
}

type earnRuleRepository struct {
	db *gorm.DB
}

func NewEarnRuleRepository(db *gorm.DB) EarnRuleRepository {
	return &earnRuleRepository{db: db}
}

func (r *earnRuleRepository) GetByTaskType(ctx context.Context, taskType string) (*models.EarnRule, error) {
	var rule models.EarnRule
	if err := r.db.WithContext(ctx).Where("task_type = ?", taskType).First(&rule).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrEarnRuleNotFound
		}
		return nil, fmt.Errorf("failed to get earn rule: %w", err)
	}
	return &rule, nil
}

func (r *earnRuleRepository) ListActive(ctx context.Context) ([]models.EarnRule, error) {
	var rules []models.EarnRule
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("task_type ASC").
		Find(&rules).Error; err != nil {
		return nil, fmt.Errorf("failed to list earn rules: %w", err)
	}
	return rules, nil
}
