package wallet

import (
	"context"

	"github.com/codexdhruv11/Health-Insurance-Help-Desk-sub001/internal/models"
	"github.com/codexdhruv11/Health-Insurance-Help-Desk-sub001/internal/repositories/cache"
)

// NoopCache disables wallet caching; every read goes to the database.
// Used when Redis is not configured.
type NoopCache struct{}

func (NoopCache) GetWallet(ctx context.Context, userID uint) (*models.Wallet, error) {
	return nil, cache.ErrCacheMiss
}

func (NoopCache) SetWallet(ctx context.Context, wallet *models.Wallet) error { return nil }

func (NoopCache) InvalidateWallet(ctx context.Context, userID uint) error { return nil }
