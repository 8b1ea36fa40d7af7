package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/club-service/internal/api/dto"
	"github.com/spec-kit/club-service/internal/auth"
	"github.com/spec-kit/club-service/internal/service"
	apperrors "github.com/spec-kit/club-service/pkg/util"
)

// EventsHandler exposes event CRUD, like and comment endpoints.
type EventsHandler struct {
	events *service.EventService
}

// NewEventsHandler constructs handler.
func NewEventsHandler(eventService *service.EventService) *EventsHandler {
	return &EventsHandler{events: eventService}
}

// Create handles POST /clubs/:slug/events.
func (h *EventsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.CreateEventRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := req.Validate(); err != nil {
		return apperrors.NewValidationError("invalid request", dto.ValidationDetails(err))
	}

	event, err := h.events.CreateEvent(c.Context(), principal.Account, c.Params("slug"), service.EventCreateInput{
		Title:           req.Title,
		Description:     req.Description,
		Venue:           req.Venue,
		StartsAt:        req.StartsAt,
		EndsAt:          req.EndsAt,
		RegistrationURL: req.RegistrationURL,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{"event": dto.NewEventResponse(event)},
	})
}

// List handles GET /events.
func (h *EventsHandler) List(c *fiber.Ctx) error {
	input := service.EventListInput{
		Page:     queryInt(c, "page", 1),
		PageSize: queryInt(c, "page_size", 20),
	}
	if clubID := c.Query("club_id"); clubID != "" {
		input.ClubID = &clubID
	}
	if upcoming := c.Query("upcoming"); upcoming != "" {
		parsed, err := strconv.ParseBool(upcoming)
		if err != nil {
			return apperrors.NewValidationError("invalid upcoming", nil)
		}
		input.UpcomingOnly = parsed
	}
	if from := c.Query("from"); from != "" {
		parsed, err := time.Parse(time.RFC3339, from)
		if err != nil {
			return apperrors.NewValidationError("invalid from timestamp", nil)
		}
		input.From = &parsed
	}
	if to := c.Query("to"); to != "" {
		parsed, err := time.Parse(time.RFC3339, to)
		if err != nil {
			return apperrors.NewValidationError("invalid to timestamp", nil)
		}
		input.To = &parsed
	}
	if search := c.Query("q"); search != "" {
		input.SearchTerm = &search
	}

	eventList, err := h.events.ListEvents(c.Context(), input)
	if err != nil {
		return apperrors.MapError(err)
	}

	responses := make([]dto.EventResponse, 0, len(eventList))
	for i := range eventList {
		responses = append(responses, dto.NewEventResponse(&eventList[i]))
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{"events": responses},
	})
}

// Get handles GET /events/:id.
func (h *EventsHandler) Get(c *fiber.Ctx) error {
	event, err := h.events.GetEvent(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{"event": dto.NewEventResponse(event)},
	})
}

// Update handles PATCH /events/:id.
func (h *EventsHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.UpdateEventRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := req.Validate(); err != nil {
		return apperrors.NewValidationError("invalid request", dto.ValidationDetails(err))
	}

	event, err := h.events.UpdateEvent(c.Context(), principal.Account, c.Params("id"), service.EventUpdateInput{
		Title:           req.Title,
		Description:     req.Description,
		Venue:           req.Venue,
		StartsAt:        req.StartsAt,
		EndsAt:          req.EndsAt,
		RegistrationURL: req.RegistrationURL,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{"event": dto.NewEventResponse(event)},
	})
}

// Delete handles DELETE /events/:id.
func (h *EventsHandler) Delete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	if err := h.events.DeleteEvent(c.Context(), principal.Account, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{"message": "event deleted"},
	})
}

// Like handles POST /events/:id/like.
func (h *EventsHandler) Like(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	liked, total, err := h.events.ToggleLike(c.Context(), principal.Account.ID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": dto.LikeResponse{Liked: liked, Likes: total},
	})
}

// AddComment handles POST /events/:id/comments.
func (h *EventsHandler) AddComment(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := req.Validate(); err != nil {
		return apperrors.NewValidationError("invalid request", dto.ValidationDetails(err))
	}

	comment, err := h.events.AddComment(c.Context(), principal.Account, c.Params("id"), req.Body)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{"comment": dto.NewCommentResponse(comment)},
	})
}

// ListComments handles GET /events/:id/comments.
func (h *EventsHandler) ListComments(c *fiber.Ctx) error {
	comments, err := h.events.ListComments(c.Context(), c.Params("id"),
		queryInt(c, "page", 1), queryInt(c, "page_size", 20))
	if err != nil {
		return err
	}

	responses := make([]dto.CommentResponse, 0, len(comments))
	for i := range comments {
		responses = append(responses, dto.NewCommentResponse(&comments[i]))
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{"comments": responses},
	})
}

// DeleteComment handles DELETE /events/:id/comments/:commentID.
func (h *EventsHandler) DeleteComment(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	if err := h.events.DeleteComment(c.Context(), principal.Account, c.Params("id"), c.Params("commentID")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{"message": "comment deleted"},
	})
}
