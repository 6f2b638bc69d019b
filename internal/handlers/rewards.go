package handlers

import (
	"strconv"

	"github.com/codexdhruv11/Health-Insurance-Help-Desk-sub001/internal/models"
	"github.com/codexdhruv11/Health-Insurance-Help-Desk-sub001/internal/repositories"
	"github.com/codexdhruv11/Health-Insurance-Help-Desk-sub001/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// RewardsHandler serves the reward catalog.
type RewardsHandler struct {
	rewards repositories.RewardRepository
}

func NewRewardsHandler(rewards repositories.RewardRepository) *RewardsHandler {
	return &RewardsHandler{rewards: rewards}
}

func (h *RewardsHandler) ListRewards(c *fiber.Ctx) error {
	items, err := h.rewards.ListAvailable(c.Context())
	if err != nil {
		return respondDomainError(c, err)
	}

	rewards := make([]fiber.Map, 0, len(items))
	for i := range items {
		rewards = append(rewards, sanitizeRewardItem(&items[i]))
	}

	return utils.Success(c, fiber.Map{
		"rewards": rewards,
	})
}

func (h *RewardsHandler) GetReward(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return utils.BadRequest(c, "invalid reward id")
	}

	item, err := h.rewards.GetByID(c.Context(), uint(id))
	if err != nil {
		return respondDomainError(c, err)
	}

	return utils.Success(c, fiber.Map{
		"reward": sanitizeRewardItem(item),
	})
}

func sanitizeRewardItem(item *models.RewardItem) fiber.Map {
	return fiber.Map{
		"id":           item.ID,
		"name":         item.Name,
		"description":  item.Description,
		"coin_cost":    item.CoinCost,
		"stock":        item.Stock,
		"is_available": item.IsAvailable,
	}
}
