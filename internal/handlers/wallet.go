package handlers

import (
	"errors"

	"paisa/internal/models"
	"paisa/internal/services/ledger"
	"paisa/internal/utils"
	"paisa/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type WalletHandler struct {
	ledgerService ledger.Service
}

func NewWalletHandler(ledgerService ledger.Service) *WalletHandler {
	return &WalletHandler{ledgerService: ledgerService}
}

// extractUserClaims is a helper to reduce duplication across handlers.
func extractUserClaims(c *fiber.Ctx) (*models.UserClaims, error) {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok || claims == nil {
		return nil, fiber.ErrUnauthorized
	}
	return claims, nil
}

type amountInput struct {
	Amount   float64 `json:"amount" validate:"required,gt=0"`
	Currency string  `json:"currency" validate:"omitempty,uppercase,alphanum,min=3,max=6"`
}

func (h *WalletHandler) Deposit(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var input amountInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}
	if err := validation.ValidateStruct(input); err != nil {
		return utils.BadRequest(c, "invalid deposit amount")
	}

	result, err := h.ledgerService.Deposit(c.Context(), claims.UserID, input.Amount, input.Currency)
	if err != nil {
		if errors.Is(err, ledger.ErrInvalidAmount) {
			return utils.BadRequest(c, "invalid deposit amount")
		}
		return utils.InternalError(c, "deposit failed")
	}

	return utils.Success(c, fiber.Map{
		"message":    "deposit successful",
		"balance":    result.Balance,
		"bonus_gems": result.GemsEarned,
	})
}

func (h *WalletHandler) Withdraw(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var input amountInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}
	if err := validation.ValidateStruct(input); err != nil {
		return utils.BadRequest(c, "invalid withdrawal amount")
	}

	balance, err := h.ledgerService.Withdraw(c.Context(), claims.UserID, input.Amount, input.Currency)
	if err != nil {
		if errors.Is(err, ledger.ErrInvalidAmount) {
			return utils.BadRequest(c, "invalid withdrawal amount")
		}
		return utils.InternalError(c, "withdrawal failed")
	}

	return utils.Success(c, fiber.Map{
		"message": "withdrawal successful",
		"balance": balance,
	})
}

func (h *WalletHandler) Transfer(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var input struct {
		Email    string  `json:"email" validate:"required,email"`
		Amount   float64 `json:"amount" validate:"required,gt=0"`
		Currency string  `json:"currency" validate:"omitempty,uppercase,alphanum,min=3,max=6"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}
	if err := validation.ValidateStruct(input); err != nil {
		return utils.BadRequest(c, "transfer amount must be positive")
	}

	err = h.ledgerService.Transfer(c.Context(), claims.UserID, input.Email, input.Amount, input.Currency)
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrInvalidAmount):
			return utils.BadRequest(c, "transfer amount must be positive")
		case errors.Is(err, ledger.ErrInvalidRecipient):
			return utils.BadRequest(c, "invalid recipient")
		case errors.Is(err, ledger.ErrInsufficientFunds):
			return utils.BadRequest(c, "insufficient funds")
		default:
			return utils.InternalError(c, "transfer failed, rolled back")
		}
	}

	return utils.Success(c, fiber.Map{"message": "transfer successful"})
}

func (h *WalletHandler) History(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	txns, err := h.ledgerService.GetHistory(c.Context(), claims.UserID)
	if err != nil {
		return utils.InternalError(c, "failed to retrieve history")
	}

	return utils.Success(c, fiber.Map{"transactions": txns})
}
