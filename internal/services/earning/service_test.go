package earning

import (
	"context"
	"errors"
	"testing"
	"time"

	apperrors "github.com/codexdhruv11/Health-Insurance-Help-Desk-sub001/internal/errors"
	"github.com/codexdhruv11/Health-Insurance-Help-Desk-sub001/internal/limiter"
	"github.com/codexdhruv11/Health-Insurance-Help-Desk-sub001/internal/models"
	"github.com/codexdhruv11/Health-Insurance-Help-Desk-sub001/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockEarnRuleRepository struct {
	mock.Mock
}

func (m *MockEarnRuleRepository) GetByTaskType(ctx context.Context, taskType string) (*models.EarnRule, error) {
	args := m.Called(ctx, taskType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EarnRule), args.Error(1)
}

func (m *MockEarnRuleRepository) ListActive(ctx context.Context) ([]models.EarnRule, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.EarnRule), args.Error(1)
}

type MockWalletRepository struct {
	mock.Mock
}

func (m *MockWalletRepository) GetOrCreate(ctx context.Context, userID uint) (*models.Wallet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Wallet), args.Error(1)
}

func (m *MockWalletRepository) GetByUserID(ctx context.Context, userID uint) (*models.Wallet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Wallet), args.Error(1)
}

func (m *MockWalletRepository) GetByID(ctx context.Context, id uint) (*models.Wallet, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Wallet), args.Error(1)
}

func (m *MockWalletRepository) ApplyDelta(ctx context.Context, walletID uint, txType models.TransactionType, amount int64, reason string, metadata models.JSON) (*models.CoinTransaction, *models.Wallet, error) {
	args := m.Called(ctx, walletID, txType, amount, reason, metadata)
	return txnArg(args.Get(0)), walletArg(args.Get(1)), args.Error(2)
}

func (m *MockWalletRepository) ApplyRedemption(ctx context.Context, walletID, rewardItemID uint, quantity int) (*models.CoinTransaction, *models.Wallet, error) {
	args := m.Called(ctx, walletID, rewardItemID, quantity)
	return txnArg(args.Get(0)), walletArg(args.Get(1)), args.Error(2)
}

func (m *MockWalletRepository) ApplyRefund(ctx context.Context, walletID uint, originalRef string) (*models.CoinTransaction, *models.Wallet, error) {
	args := m.Called(ctx, walletID, originalRef)
	return txnArg(args.Get(0)), walletArg(args.Get(1)), args.Error(2)
}

func (m *MockWalletRepository) CountEarnsSince(ctx context.Context, walletID uint, taskType string, since time.Time) (int64, error) {
	args := m.Called(ctx, walletID, taskType, since)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockWalletRepository) ListTransactions(ctx context.Context, walletID uint, filter repositories.TransactionFilter, skip, take int) ([]models.CoinTransaction, int64, error) {
	args := m.Called(ctx, walletID, filter, skip, take)
	var entries []models.CoinTransaction
	if v := args.Get(0); v != nil {
		entries = v.([]models.CoinTransaction)
	}
	return entries, args.Get(1).(int64), args.Error(2)
}

func (m *MockWalletRepository) GetTransactionByReference(ctx context.Context, referenceID string) (*models.CoinTransaction, error) {
	args := m.Called(ctx, referenceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CoinTransaction), args.Error(1)
}

func (m *MockWalletRepository) SumLedger(ctx context.Context, walletID uint) (repositories.LedgerTotals, error) {
	args := m.Called(ctx, walletID)
	return args.Get(0).(repositories.LedgerTotals), args.Error(1)
}

func txnArg(v interface{}) *models.CoinTransaction {
	if v == nil {
		return nil
	}
	return v.(*models.CoinTransaction)
}

func walletArg(v interface{}) *models.Wallet {
	if v == nil {
		return nil
	}
	return v.(*models.Wallet)
}

type failingLimiter struct {
	err error
}

func (f *failingLimiter) Check(ctx context.Context, identifier string, cfg limiter.Config) (limiter.Result, error) {
	return limiter.Result{}, f.err
}

func activeRule(taskType string, amount int64, cooldownSeconds, maxPerDay int) *models.EarnRule {
	return &models.EarnRule{
		TaskType:        taskType,
		CoinAmount:      amount,
		CooldownSeconds: cooldownSeconds,
		MaxPerDay:       maxPerDay,
		IsActive:        true,
	}
}

func TestEarningService_Earn(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		taskType  string
		override  *int64
		setupMock func(rules *MockEarnRuleRepository, wallets *MockWalletRepository)
		wantErr   error
	}{
		{
			name:     "credits the rule amount",
			taskType: "ticket_resolved",
			setupMock: func(rules *MockEarnRuleRepository, wallets *MockWalletRepository) {
				rules.On("GetByTaskType", mock.Anything, "ticket_resolved").
					Return(activeRule("ticket_resolved", 10, 0, 0), nil)
				wallets.On("GetOrCreate", mock.Anything, uint(7)).
					Return(&models.Wallet{ID: 3, UserID: 7, Balance: 40}, nil)
				wallets.On("ApplyDelta", mock.Anything, uint(3), models.TransactionEarn, int64(10), "ticket_resolved", mock.Anything).
					Return(&models.CoinTransaction{Type: models.TransactionEarn, Amount: 10}, &models.Wallet{ID: 3, UserID: 7, Balance: 50}, nil)
			},
		},
		{
			name:     "override replaces the rule amount",
			taskType: "ticket_resolved",
			override: int64Ptr(25),
			setupMock: func(rules *MockEarnRuleRepository, wallets *MockWalletRepository) {
				rules.On("GetByTaskType", mock.Anything, "ticket_resolved").
					Return(activeRule("ticket_resolved", 10, 0, 0), nil)
				wallets.On("GetOrCreate", mock.Anything, uint(7)).
					Return(&models.Wallet{ID: 3, UserID: 7}, nil)
				wallets.On("ApplyDelta", mock.Anything, uint(3), models.TransactionEarn, int64(25), "ticket_resolved", mock.Anything).
					Return(&models.CoinTransaction{Type: models.TransactionEarn, Amount: 25}, &models.Wallet{ID: 3, UserID: 7, Balance: 25}, nil)
			},
		},
		{
			name:     "negative override is rejected before any lookup",
			taskType: "ticket_resolved",
			override: int64Ptr(-5),
			wantErr:  apperrors.ErrInvalidAmount,
		},
		{
			name:     "zero override is rejected",
			taskType: "ticket_resolved",
			override: int64Ptr(0),
			wantErr:  apperrors.ErrInvalidAmount,
		},
		{
			name:    "empty task type is rejected",
			wantErr: apperrors.ErrInvalidTaskType,
		},
		{
			name:     "unknown task type",
			taskType: "mystery_task",
			setupMock: func(rules *MockEarnRuleRepository, wallets *MockWalletRepository) {
				wallets.On("GetOrCreate", mock.Anything, uint(7)).
					Return(&models.Wallet{ID: 3, UserID: 7}, nil)
				rules.On("GetByTaskType", mock.Anything, "mystery_task").
					Return(nil, apperrors.ErrEarnRuleNotFound)
			},
			wantErr: apperrors.ErrEarnRuleNotFound,
		},
		{
			name:     "inactive rule looks like a missing one",
			taskType: "retired_task",
			setupMock: func(rules *MockEarnRuleRepository, wallets *MockWalletRepository) {
				wallets.On("GetOrCreate", mock.Anything, uint(7)).
					Return(&models.Wallet{ID: 3, UserID: 7}, nil)
				rule := activeRule("retired_task", 10, 0, 0)
				rule.IsActive = false
				rules.On("GetByTaskType", mock.Anything, "retired_task").Return(rule, nil)
			},
			wantErr: apperrors.ErrEarnRuleNotFound,
		},
		{
			name:     "daily cap blocks at the limit",
			taskType: "article_read",
			setupMock: func(rules *MockEarnRuleRepository, wallets *MockWalletRepository) {
				rules.On("GetByTaskType", mock.Anything, "article_read").
					Return(activeRule("article_read", 5, 0, 3), nil)
				wallets.On("GetOrCreate", mock.Anything, uint(7)).
					Return(&models.Wallet{ID: 3, UserID: 7}, nil)
				wallets.On("CountEarnsSince", mock.Anything, uint(3), "article_read", mock.Anything).
					Return(int64(3), nil)
			},
			wantErr: apperrors.ErrDailyLimitExceeded,
		},
		{
			name:     "count below the cap still earns",
			taskType: "article_read",
			setupMock: func(rules *MockEarnRuleRepository, wallets *MockWalletRepository) {
				rules.On("GetByTaskType", mock.Anything, "article_read").
					Return(activeRule("article_read", 5, 0, 3), nil)
				wallets.On("GetOrCreate", mock.Anything, uint(7)).
					Return(&models.Wallet{ID: 3, UserID: 7}, nil)
				wallets.On("CountEarnsSince", mock.Anything, uint(3), "article_read", mock.Anything).
					Return(int64(2), nil)
				wallets.On("ApplyDelta", mock.Anything, uint(3), models.TransactionEarn, int64(5), "article_read", mock.Anything).
					Return(&models.CoinTransaction{Type: models.TransactionEarn, Amount: 5}, &models.Wallet{ID: 3}, nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules := new(MockEarnRuleRepository)
			wallets := new(MockWalletRepository)
			if tt.setupMock != nil {
				tt.setupMock(rules, wallets)
			}

			s := NewService(rules, wallets, limiter.New(limiter.NewMemoryStore()), nil, nil)
			entry, w, err := s.Earn(ctx, 7, tt.taskType, tt.override, nil)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, entry)
				assert.Nil(t, w)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, entry)
				assert.NotNil(t, w)
			}

			rules.AssertExpectations(t)
			wallets.AssertExpectations(t)
		})
	}
}

func TestEarningService_Cooldown(t *testing.T) {
	ctx := context.Background()

	t.Run("second earn inside the window is rejected", func(t *testing.T) {
		rules := new(MockEarnRuleRepository)
		wallets := new(MockWalletRepository)
		rules.On("GetByTaskType", mock.Anything, "daily_login").
			Return(activeRule("daily_login", 10, 3600, 0), nil)
		wallets.On("GetOrCreate", mock.Anything, uint(7)).
			Return(&models.Wallet{ID: 3, UserID: 7}, nil)
		wallets.On("ApplyDelta", mock.Anything, uint(3), models.TransactionEarn, int64(10), "daily_login", mock.Anything).
			Return(&models.CoinTransaction{Type: models.TransactionEarn, Amount: 10}, &models.Wallet{ID: 3}, nil).
			Once()

		s := NewService(rules, wallets, limiter.New(limiter.NewMemoryStore()), nil, nil)

		_, _, err := s.Earn(ctx, 7, "daily_login", nil, nil)
		assert.NoError(t, err)

		_, _, err = s.Earn(ctx, 7, "daily_login", nil, nil)
		assert.ErrorIs(t, err, apperrors.ErrRateLimited)

		// The denial must leave no ledger trace.
		wallets.AssertNumberOfCalls(t, "ApplyDelta", 1)
	})

	t.Run("cooldowns are scoped per user and task", func(t *testing.T) {
		rules := new(MockEarnRuleRepository)
		wallets := new(MockWalletRepository)
		rules.On("GetByTaskType", mock.Anything, "daily_login").
			Return(activeRule("daily_login", 10, 3600, 0), nil)
		wallets.On("GetOrCreate", mock.Anything, mock.Anything).
			Return(&models.Wallet{ID: 3}, nil)
		wallets.On("ApplyDelta", mock.Anything, uint(3), models.TransactionEarn, int64(10), "daily_login", mock.Anything).
			Return(&models.CoinTransaction{Amount: 10}, &models.Wallet{ID: 3}, nil)

		s := NewService(rules, wallets, limiter.New(limiter.NewMemoryStore()), nil, nil)

		_, _, err := s.Earn(ctx, 7, "daily_login", nil, nil)
		assert.NoError(t, err)

		_, _, err = s.Earn(ctx, 8, "daily_login", nil, nil)
		assert.NoError(t, err, "another user must not share the cooldown")
	})

	t.Run("zero cooldown never touches the limiter", func(t *testing.T) {
		rules := new(MockEarnRuleRepository)
		wallets := new(MockWalletRepository)
		rules.On("GetByTaskType", mock.Anything, "ticket_resolved").
			Return(activeRule("ticket_resolved", 10, 0, 0), nil)
		wallets.On("GetOrCreate", mock.Anything, uint(7)).
			Return(&models.Wallet{ID: 3}, nil)
		wallets.On("ApplyDelta", mock.Anything, uint(3), models.TransactionEarn, int64(10), "ticket_resolved", mock.Anything).
			Return(&models.CoinTransaction{Amount: 10}, &models.Wallet{ID: 3}, nil)

		store := limiter.NewMemoryStore()
		s := NewService(rules, wallets, limiter.New(store), nil, nil)

		_, _, err := s.Earn(ctx, 7, "ticket_resolved", nil, nil)
		assert.NoError(t, err)
		assert.Equal(t, 0, store.Len())
	})

	t.Run("earning fails closed when the cooldown store is down", func(t *testing.T) {
		rules := new(MockEarnRuleRepository)
		wallets := new(MockWalletRepository)
		rules.On("GetByTaskType", mock.Anything, "daily_login").
			Return(activeRule("daily_login", 10, 3600, 0), nil)
		wallets.On("GetOrCreate", mock.Anything, uint(7)).
			Return(&models.Wallet{ID: 3}, nil)

		storeErr := errors.New("connection refused")
		s := NewService(rules, wallets, &failingLimiter{err: storeErr}, nil, nil)

		_, _, err := s.Earn(ctx, 7, "daily_login", nil, nil)
		assert.ErrorIs(t, err, storeErr)
		wallets.AssertNotCalled(t, "ApplyDelta",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestEarningService_DailyCapWindow(t *testing.T) {
	rules := new(MockEarnRuleRepository)
	wallets := new(MockWalletRepository)

	// 23:30 UTC; the cap must count from 00:00 UTC of the same day,
	// not 24 hours back.
	nowFn := func() time.Time { return time.Date(2025, 6, 15, 23, 30, 0, 0, time.UTC) }
	midnight := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	rules.On("GetByTaskType", mock.Anything, "article_read").
		Return(activeRule("article_read", 5, 0, 1), nil)
	wallets.On("GetOrCreate", mock.Anything, uint(7)).
		Return(&models.Wallet{ID: 3, UserID: 7}, nil)
	wallets.On("CountEarnsSince", mock.Anything, uint(3), "article_read", midnight).
		Return(int64(1), nil)

	s := NewService(rules, wallets, limiter.New(limiter.NewMemoryStore()), nil, nil).(*service)
	s.now = nowFn

	_, _, err := s.Earn(context.Background(), 7, "article_read", nil, nil)
	assert.ErrorIs(t, err, apperrors.ErrDailyLimitExceeded)
	wallets.AssertExpectations(t)
}

func TestEarningService_Validate(t *testing.T) {
	ctx := context.Background()

	t.Run("passes without a wallet and skips the cap query", func(t *testing.T) {
		rules := new(MockEarnRuleRepository)
		wallets := new(MockWalletRepository)
		rules.On("GetByTaskType", mock.Anything, "article_read").
			Return(activeRule("article_read", 5, 0, 3), nil)
		wallets.On("GetByUserID", mock.Anything, uint(9)).
			Return(nil, apperrors.ErrWalletNotFound)

		s := NewService(rules, wallets, limiter.New(limiter.NewMemoryStore()), nil, nil)

		rule, err := s.Validate(ctx, 9, "article_read")
		assert.NoError(t, err)
		assert.Equal(t, "article_read", rule.TaskType)
		wallets.AssertNotCalled(t, "CountEarnsSince",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("a passing check consumes the cooldown slot", func(t *testing.T) {
		rules := new(MockEarnRuleRepository)
		wallets := new(MockWalletRepository)
		rules.On("GetByTaskType", mock.Anything, "daily_login").
			Return(activeRule("daily_login", 10, 3600, 0), nil)
		wallets.On("GetByUserID", mock.Anything, uint(9)).
			Return(&models.Wallet{ID: 4, UserID: 9}, nil)

		s := NewService(rules, wallets, limiter.New(limiter.NewMemoryStore()), nil, nil)

		_, err := s.Validate(ctx, 9, "daily_login")
		assert.NoError(t, err)

		_, err = s.Validate(ctx, 9, "daily_login")
		assert.ErrorIs(t, err, apperrors.ErrRateLimited)
	})
}

func TestEarningService_ListTasks(t *testing.T) {
	rules := new(MockEarnRuleRepository)
	wallets := new(MockWalletRepository)
	rules.On("ListActive", mock.Anything).Return([]models.EarnRule{
		{TaskType: "daily_login", CoinAmount: 10, IsActive: true},
		{TaskType: "ticket_resolved", CoinAmount: 25, IsActive: true},
	}, nil)

	s := NewService(rules, wallets, limiter.New(limiter.NewMemoryStore()), nil, nil)

	tasks, err := s.ListTasks(context.Background())
	assert.NoError(t, err)
	assert.Len(t, tasks, 2)
	assert.Equal(t, "daily_login", tasks[0].TaskType)
	rules.AssertExpectations(t)
}

func int64Ptr(v int64) *int64 {
	return &v
}
