package handlers

import (
	"errors"
	"log"

	apperrors "github.com/codexdhruv11/Health-Insurance-Help-Desk-sub001/internal/errors"
	"github.com/codexdhruv11/Health-Insurance-Help-Desk-sub001/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// respondDomainError translates service errors into HTTP responses.
// Cooldown and daily cap rejections map to 429 so clients can back
// off; anything that is not a domain error stays a generic 500.
func respondDomainError(c *fiber.Ctx, err error) error {
	var derr *apperrors.DomainError
	if !errors.As(err, &derr) {
		log.Printf("unhandled error on %s %s: %v", c.Method(), c.Path(), err)
		return utils.InternalError(c, "something went wrong")
	}

	if errors.Is(err, apperrors.ErrRateLimited) || errors.Is(err, apperrors.ErrDailyLimitExceeded) {
		return utils.Respond(c, fiber.StatusTooManyRequests, errorBody(derr))
	}

	switch derr.Kind {
	case apperrors.KindValidation:
		return utils.Respond(c, fiber.StatusBadRequest, errorBody(derr))
	case apperrors.KindNotFound:
		return utils.Respond(c, fiber.StatusNotFound, errorBody(derr))
	case apperrors.KindPolicy, apperrors.KindConflict:
		return utils.Respond(c, fiber.StatusConflict, errorBody(derr))
	default:
		log.Printf("internal error on %s %s: %v", c.Method(), c.Path(), err)
		return utils.InternalError(c, "something went wrong")
	}
}

func errorBody(err *apperrors.DomainError) fiber.Map {
	return fiber.Map{
		"error": err.Message,
		"code":  err.Code,
	}
}
