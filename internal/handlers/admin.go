package handlers

import (
	"errors"
	"strconv"

	"paisa/internal/repositories"
	"paisa/internal/services/admin"
	"paisa/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	adminService admin.Service
}

func NewAdminHandler(adminService admin.Service) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

func (h *AdminHandler) Flags(c *fiber.Ctx) error {
	flags, err := h.adminService.ListFlags(c.Context())
	if err != nil {
		return utils.InternalError(c, "failed to fetch flags")
	}
	return utils.Success(c, fiber.Map{"flags": flags})
}

func (h *AdminHandler) TotalBalances(c *fiber.Ctx) error {
	totals, err := h.adminService.TotalBalances(c.Context())
	if err != nil {
		return utils.InternalError(c, "failed to calculate total balances")
	}
	return utils.Success(c, fiber.Map{"total_balances": totals})
}

func (h *AdminHandler) TopUsers(c *fiber.Ctx) error {
	report, err := h.adminService.TopUsers(c.Context())
	if err != nil {
		return utils.InternalError(c, "failed to retrieve top users")
	}
	return utils.Success(c, report)
}

func (h *AdminHandler) SoftDeleteUser(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return utils.BadRequest(c, "invalid id")
	}

	if err := h.adminService.SoftDeleteUser(c.Context(), id); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return utils.NotFound(c, "user not found")
		}
		return utils.InternalError(c, "failed to delete user")
	}
	return utils.Success(c, fiber.Map{"message": "user marked as deleted"})
}

func (h *AdminHandler) SoftDeleteTransaction(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return utils.BadRequest(c, "invalid id")
	}

	if err := h.adminService.SoftDeleteTransaction(c.Context(), id); err != nil {
		if errors.Is(err, repositories.ErrTransactionNotFound) {
			return utils.NotFound(c, "transaction not found")
		}
		return utils.InternalError(c, "failed to delete transaction")
	}
	return utils.Success(c, fiber.Map{"message": "transaction marked as deleted"})
}

func parseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	return uint(id), err
}
