package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/club-service/internal/api/dto"
	"github.com/spec-kit/club-service/internal/auth"
	"github.com/spec-kit/club-service/internal/domain"
	"github.com/spec-kit/club-service/internal/service"
	apperrors "github.com/spec-kit/club-service/pkg/util"
)

// ClubsHandler exposes club CRUD and membership endpoints.
type ClubsHandler struct {
	clubs *service.ClubService
}

// NewClubsHandler constructs handler.
func NewClubsHandler(clubService *service.ClubService) *ClubsHandler {
	return &ClubsHandler{clubs: clubService}
}

// Create handles POST /clubs (site admin).
func (h *ClubsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.CreateClubRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := req.Validate(); err != nil {
		return apperrors.NewValidationError("invalid request", dto.ValidationDetails(err))
	}

	club, err := h.clubs.CreateClub(c.Context(), principal.Account.ID, service.ClubCreateInput{
		Name:            req.Name,
		Description:     req.Description,
		Category:        domain.ClubCategory(req.Category),
		LogoURL:         req.LogoURL,
		BannerURL:       req.BannerURL,
		AdminIDs:        req.AdminIDs,
		RecruitmentOpen: req.RecruitmentOpen,
		Tags:            req.Tags,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{"club": dto.NewClubResponse(club)},
	})
}

// List handles GET /clubs.
func (h *ClubsHandler) List(c *fiber.Ctx) error {
	input := service.ClubListInput{
		Page:     queryInt(c, "page", 1),
		PageSize: queryInt(c, "page_size", 20),
	}
	if category := c.Query("category"); category != "" {
		cat := domain.ClubCategory(category)
		input.Category = &cat
	}
	if open := c.Query("recruitment_open"); open != "" {
		parsed, err := strconv.ParseBool(open)
		if err != nil {
			return apperrors.NewValidationError("invalid recruitment_open", nil)
		}
		input.RecruitmentOpen = &parsed
	}
	if tag := c.Query("tag"); tag != "" {
		input.Tag = &tag
	}
	if search := c.Query("q"); search != "" {
		input.SearchTerm = &search
	}

	clubs, err := h.clubs.ListClubs(c.Context(), input)
	if err != nil {
		return apperrors.MapError(err)
	}

	responses := make([]dto.ClubResponse, 0, len(clubs))
	for i := range clubs {
		responses = append(responses, dto.NewClubResponse(&clubs[i]))
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{"clubs": responses},
	})
}

// Get handles GET /clubs/:slug.
func (h *ClubsHandler) Get(c *fiber.Ctx) error {
	club, err := h.clubs.GetClub(c.Context(), c.Params("slug"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{"club": dto.NewClubResponse(club)},
	})
}

// Update handles PATCH /clubs/:slug.
func (h *ClubsHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.UpdateClubRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := req.Validate(); err != nil {
		return apperrors.NewValidationError("invalid request", dto.ValidationDetails(err))
	}

	input := service.ClubUpdateInput{
		Description:     req.Description,
		LogoURL:         req.LogoURL,
		BannerURL:       req.BannerURL,
		RecruitmentOpen: req.RecruitmentOpen,
		Tags:            req.Tags,
	}
	if req.Category != nil {
		cat := domain.ClubCategory(*req.Category)
		input.Category = &cat
	}

	club, err := h.clubs.UpdateClub(c.Context(), principal.Account, c.Params("slug"), input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{"club": dto.NewClubResponse(club)},
	})
}

// Join handles POST /clubs/:slug/join.
func (h *ClubsHandler) Join(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	club, err := h.clubs.Join(c.Context(), principal.Account, c.Params("slug"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{"club": dto.NewClubResponse(club)},
	})
}

// Leave handles DELETE /clubs/:slug/members/me.
func (h *ClubsHandler) Leave(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	if err := h.clubs.Leave(c.Context(), principal.Account, c.Params("slug")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{"message": "membership removed"},
	})
}

// Like handles POST /clubs/:slug/like.
func (h *ClubsHandler) Like(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	liked, total, err := h.clubs.ToggleLike(c.Context(), principal.Account.ID, c.Params("slug"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": dto.LikeResponse{Liked: liked, Likes: total},
	})
}

// SetAdmin handles PATCH /clubs/:slug/admins (site admin).
func (h *ClubsHandler) SetAdmin(c *fiber.Ctx) error {
	var req dto.ClubAdminRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := req.Validate(); err != nil {
		return apperrors.NewValidationError("invalid request", dto.ValidationDetails(err))
	}

	club, err := h.clubs.SetAdmin(c.Context(), c.Params("slug"), req.AccountID, req.Grant)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{"club": dto.NewClubResponse(club)},
	})
}

func queryInt(c *fiber.Ctx, key string, fallback int) int {
	val := c.Query(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}
