package utils

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// PageParams holds offset pagination parameters parsed from a request.
type PageParams struct {
	Skip int `json:"skip"`
	Take int `json:"take"`
}

// GetPageParams extracts skip and take from the query parameters.
// Values that fail to parse fall back to the defaults; take is capped
// at maxTake.
func GetPageParams(c *fiber.Ctx, defaultTake, maxTake int) PageParams {
	skipStr := c.Query("skip", "0")
	takeStr := c.Query("take", strconv.Itoa(defaultTake))

	skip, err := strconv.Atoi(skipStr)
	if err != nil || skip < 0 {
		skip = 0
	}

	take, err := strconv.Atoi(takeStr)
	if err != nil || take < 1 {
		take = defaultTake
	}
	if take > maxTake {
		take = maxTake
	}

	return PageParams{Skip: skip, Take: take}
}
