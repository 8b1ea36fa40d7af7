package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/club-service/internal/api/dto"
	"github.com/spec-kit/club-service/internal/auth"
	"github.com/spec-kit/club-service/internal/domain"
	"github.com/spec-kit/club-service/internal/service"
	apperrors "github.com/spec-kit/club-service/pkg/util"
)

// AccountsHandler exposes profile and administrative account endpoints.
type AccountsHandler struct {
	accounts *service.AccountService
}

// NewAccountsHandler constructs handler.
func NewAccountsHandler(accountService *service.AccountService) *AccountsHandler {
	return &AccountsHandler{accounts: accountService}
}

// Me handles GET /accounts/me.
func (h *AccountsHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{"account": dto.NewAccountResponse(principal.Account)},
	})
}

// UpdateMe handles PATCH /accounts/me.
func (h *AccountsHandler) UpdateMe(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.ProfileUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := req.Validate(); err != nil {
		return apperrors.NewValidationError("invalid request", dto.ValidationDetails(err))
	}

	account, err := h.accounts.UpdateProfile(c.Context(), principal.Account.ID, service.ProfileUpdateInput{
		Name:      req.Name,
		Phone:     req.Phone,
		Bio:       req.Bio,
		AvatarURL: req.AvatarURL,
		Skills:    req.Skills,
		Interests: req.Interests,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{"account": dto.NewAccountResponse(account)},
	})
}

// SetStatus handles PATCH /accounts/:id/status (site admin).
func (h *AccountsHandler) SetStatus(c *fiber.Ctx) error {
	var req dto.AccountStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := req.Validate(); err != nil {
		return apperrors.NewValidationError("invalid request", dto.ValidationDetails(err))
	}

	if err := h.accounts.SetActive(c.Context(), c.Params("id"), *req.Active); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{"message": "status updated"},
	})
}

// SetRole handles PATCH /accounts/:id/role (site admin).
func (h *AccountsHandler) SetRole(c *fiber.Ctx) error {
	var req dto.AccountRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := req.Validate(); err != nil {
		return apperrors.NewValidationError("invalid request", dto.ValidationDetails(err))
	}

	if err := h.accounts.SetRole(c.Context(), c.Params("id"), domain.Role(req.Role)); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{"message": "role updated"},
	})
}
