package errors

var (
	ErrRewardNotFound = &DomainError{
		Code:    "REWARD_NOT_FOUND",
		Message: "reward item not found",
		Kind:    KindNotFound,
	}
	ErrRewardUnavailable = &DomainError{
		Code:    "REWARD_UNAVAILABLE",
		Message: "reward item is not available for redemption",
		Kind:    KindPolicy,
	}
	ErrInsufficientStock = &DomainError{
		Code:    "INSUFFICIENT_STOCK",
		Message: "not enough stock to fulfil this redemption",
		Kind:    KindPolicy,
	}
	ErrInvalidQuantity = &DomainError{
		Code:    "INVALID_QUANTITY",
		Message: "quantity is outside the allowed range",
		Kind:    KindValidation,
	}
)
