package errors

var (
	ErrWalletNotFound = &DomainError{
		Code:    "WALLET_NOT_FOUND",
		Message: "wallet not found",
		Kind:    KindNotFound,
	}
	ErrInvalidAmount = &DomainError{
		Code:    "INVALID_AMOUNT",
		Message: "amount must be a positive whole number of coins",
		Kind:    KindValidation,
	}
	ErrInvalidTaskType = &DomainError{
		Code:    "INVALID_TASK_TYPE",
		Message: "task type must not be empty",
		Kind:    KindValidation,
	}
	ErrEarnRuleNotFound = &DomainError{
		Code:    "EARN_RULE_NOT_FOUND",
		Message: "no active earn rule for this task type",
		Kind:    KindNotFound,
	}
	ErrRateLimited = &DomainError{
		Code:    "RATE_LIMITED",
		Message: "task is on cooldown, try again later",
		Kind:    KindPolicy,
	}
	ErrDailyLimitExceeded = &DomainError{
		Code:    "DAILY_LIMIT_EXCEEDED",
		Message: "daily earning limit reached for this task type",
		Kind:    KindPolicy,
	}
	ErrInsufficientCoins = &DomainError{
		Code:    "INSUFFICIENT_COINS",
		Message: "wallet balance is too low for this redemption",
		Kind:    KindPolicy,
	}
	ErrTransactionNotFound = &DomainError{
		Code:    "TRANSACTION_NOT_FOUND",
		Message: "transaction not found",
		Kind:    KindNotFound,
	}
	ErrNotRefundable = &DomainError{
		Code:    "NOT_REFUNDABLE",
		Message: "only reward redemptions can be refunded",
		Kind:    KindValidation,
	}
	ErrAlreadyRefunded = &DomainError{
		Code:    "ALREADY_REFUNDED",
		Message: "this redemption has already been refunded",
		Kind:    KindConflict,
	}
	// ErrConcurrencyConflict surfaces lock contention (FOR UPDATE NOWAIT,
	// serialization failures, deadlocks). Safe to retry.
	ErrConcurrencyConflict = &DomainError{
		Code:    "CONCURRENCY_CONFLICT",
		Message: "wallet is being updated concurrently, retry the request",
		Kind:    KindConflict,
	}
)
