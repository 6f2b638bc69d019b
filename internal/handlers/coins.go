package handlers

import (
	"strings"
	"time"

	"github.com/codexdhruv11/Health-Insurance-Help-Desk-sub001/internal/models"
	"github.com/codexdhruv11/Health-Insurance-Help-Desk-sub001/internal/services/earning"
	"github.com/codexdhruv11/Health-Insurance-Help-Desk-sub001/internal/services/redemption"
	"github.com/codexdhruv11/Health-Insurance-Help-Desk-sub001/internal/services/wallet"
	"github.com/codexdhruv11/Health-Insurance-Help-Desk-sub001/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// CoinsHandler exposes the coin wallet over HTTP: balance reads,
// ledger history, task rewards and redemptions.
type CoinsHandler struct {
	walletService     wallet.Service
	earningService    earning.Service
	redemptionService redemption.Service
}

func NewCoinsHandler(walletService wallet.Service, earningService earning.Service, redemptionService redemption.Service) *CoinsHandler {
	return &CoinsHandler{
		walletService:     walletService,
		earningService:    earningService,
		redemptionService: redemptionService,
	}
}

// extractUserClaims is a helper function to reduce duplication
func extractUserClaims(c *fiber.Ctx) (*models.UserClaims, error) {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok || claims == nil {
		return nil, fiber.ErrUnauthorized
	}
	return claims, nil
}

func (h *CoinsHandler) GetWallet(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	w, err := h.walletService.GetWallet(c.Context(), claims.UserID)
	if err != nil {
		return respondDomainError(c, err)
	}

	return utils.Success(c, fiber.Map{
		"wallet": sanitizeWallet(w),
	})
}

func (h *CoinsHandler) Earn(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var input struct {
		TaskType string                 `json:"task_type"`
		Amount   int64                  `json:"amount"`
		Metadata map[string]interface{} `json:"metadata"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request format")
	}
	if input.Amount < 0 {
		return utils.BadRequest(c, "amount must not be negative")
	}

	// A zero amount means "use the rule's configured amount".
	var override *int64
	if input.Amount > 0 {
		override = &input.Amount
	}

	entry, w, err := h.earningService.Earn(c.Context(), claims.UserID, input.TaskType, override, models.JSON(input.Metadata))
	if err != nil {
		return respondDomainError(c, err)
	}

	return utils.Success(c, fiber.Map{
		"transaction": sanitizeCoinTransaction(entry),
		"wallet":      sanitizeWallet(w),
	})
}

func (h *CoinsHandler) Redeem(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var input struct {
		RewardItemID uint `json:"reward_item_id"`
		Quantity     int  `json:"quantity"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request format")
	}
	if input.RewardItemID == 0 {
		return utils.BadRequest(c, "reward_item_id is required")
	}
	if input.Quantity == 0 {
		input.Quantity = 1
	}

	entry, w, err := h.redemptionService.Redeem(c.Context(), claims.UserID, input.RewardItemID, input.Quantity)
	if err != nil {
		return respondDomainError(c, err)
	}

	return utils.Success(c, fiber.Map{
		"transaction": sanitizeCoinTransaction(entry),
		"wallet":      sanitizeWallet(w),
	})
}

func (h *CoinsHandler) ListTransactions(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	params := utils.GetPageParams(c, wallet.DefaultPageSize, wallet.MaxPageSize)
	opts := wallet.ListOptions{Skip: params.Skip, Take: params.Take}

	if v := c.Query("type"); v != "" {
		txType := models.TransactionType(strings.ToUpper(v))
		if !txType.Valid() {
			return utils.BadRequest(c, "type must be one of EARN, SPEND, REFUND")
		}
		opts.Type = &txType
	}
	if v := c.Query("from"); v != "" {
		from, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return utils.BadRequest(c, "from must be an RFC3339 timestamp")
		}
		opts.From = &from
	}
	if v := c.Query("to"); v != "" {
		to, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return utils.BadRequest(c, "to must be an RFC3339 timestamp")
		}
		opts.To = &to
	}

	page, err := h.walletService.ListTransactions(c.Context(), claims.UserID, opts)
	if err != nil {
		return respondDomainError(c, err)
	}

	transactions := make([]fiber.Map, 0, len(page.Transactions))
	for i := range page.Transactions {
		transactions = append(transactions, sanitizeCoinTransaction(&page.Transactions[i]))
	}

	return utils.Success(c, fiber.Map{
		"transactions": transactions,
		"pagination": fiber.Map{
			"total":    page.Total,
			"skip":     page.Skip,
			"take":     page.Take,
			"has_more": page.HasMore,
		},
	})
}

func (h *CoinsHandler) ListTasks(c *fiber.Ctx) error {
	rules, err := h.earningService.ListTasks(c.Context())
	if err != nil {
		return respondDomainError(c, err)
	}

	tasks := make([]fiber.Map, 0, len(rules))
	for i := range rules {
		tasks = append(tasks, sanitizeEarnRule(&rules[i]))
	}

	return utils.Success(c, fiber.Map{
		"tasks": tasks,
	})
}

func (h *CoinsHandler) Audit(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	report, err := h.walletService.Audit(c.Context(), claims.UserID)
	if err != nil {
		return respondDomainError(c, err)
	}

	return utils.Success(c, fiber.Map{
		"audit": fiber.Map{
			"user_id":        report.UserID,
			"balance":        report.Balance,
			"total_earned":   report.TotalEarned,
			"total_spent":    report.TotalSpent,
			"ledger_earned":  report.LedgerEarned,
			"ledger_spent":   report.LedgerSpent,
			"ledger_balance": report.LedgerBalance,
			"consistent":     report.Consistent,
		},
	})
}

// Refund reverses a redemption on behalf of a user. Admin only.
func (h *CoinsHandler) Refund(c *fiber.Ctx) error {
	var input struct {
		UserID      uint   `json:"user_id"`
		ReferenceID string `json:"reference_id"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request format")
	}
	if input.UserID == 0 {
		return utils.BadRequest(c, "user_id is required")
	}

	entry, w, err := h.redemptionService.Refund(c.Context(), input.UserID, input.ReferenceID)
	if err != nil {
		return respondDomainError(c, err)
	}

	return utils.Success(c, fiber.Map{
		"transaction": sanitizeCoinTransaction(entry),
		"wallet":      sanitizeWallet(w),
	})
}

func sanitizeWallet(w *models.Wallet) fiber.Map {
	return fiber.Map{
		"user_id":      w.UserID,
		"balance":      w.Balance,
		"total_earned": w.TotalEarned,
		"total_spent":  w.TotalSpent,
		"updated_at":   w.UpdatedAt,
	}
}

func sanitizeCoinTransaction(t *models.CoinTransaction) fiber.Map {
	m := fiber.Map{
		"reference_id": t.ReferenceID,
		"type":         t.Type,
		"amount":       t.Amount,
		"reason":       t.Reason,
		"created_at":   t.CreatedAt,
	}
	if t.RelatedRef != nil {
		m["related_ref"] = *t.RelatedRef
	}
	if len(t.Metadata) > 0 {
		m["metadata"] = t.Metadata
	}
	return m
}

func sanitizeEarnRule(r *models.EarnRule) fiber.Map {
	return fiber.Map{
		"task_type":        r.TaskType,
		"description":      r.Description,
		"coin_amount":      r.CoinAmount,
		"cooldown_seconds": r.CooldownSeconds,
		"max_per_day":      r.MaxPerDay,
	}
}
