package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/club-service/internal/domain"
	"github.com/spec-kit/club-service/internal/events"
	"github.com/spec-kit/club-service/internal/repository"
	apperrors "github.com/spec-kit/club-service/pkg/util"
)

// EventService coordinates event lifecycle, likes and comments.
type EventService struct {
	events     repository.EventRepository
	clubs      repository.ClubRepository
	comments   repository.CommentRepository
	likes      repository.LikeRepository
	dispatcher events.Dispatcher
	now        func() time.Time
}

// EventDependencies bundles repositories for event service.
type EventDependencies struct {
	EventRepo   repository.EventRepository
	ClubRepo    repository.ClubRepository
	CommentRepo repository.CommentRepository
	LikeRepo    repository.LikeRepository
	Dispatcher  events.Dispatcher
}

// EventCreateInput describes event creation payload.
type EventCreateInput struct {
	Title           string
	Description     string
	Venue           string
	StartsAt        time.Time
	EndsAt          time.Time
	RegistrationURL string
}

// EventUpdateInput describes the mutable fields. Nil pointers leave a field
// untouched.
type EventUpdateInput struct {
	Title           *string
	Description     *string
	Venue           *string
	StartsAt        *time.Time
	EndsAt          *time.Time
	RegistrationURL *string
}

// EventListInput describes listing filters.
type EventListInput struct {
	ClubID       *string
	UpcomingOnly bool
	From         *time.Time
	To           *time.Time
	SearchTerm   *string
	Page         int
	PageSize     int
}

// NewEventService constructs the service.
func NewEventService(deps EventDependencies) *EventService {
	return &EventService{
		events:     deps.EventRepo,
		clubs:      deps.ClubRepo,
		comments:   deps.CommentRepo,
		likes:      deps.LikeRepo,
		dispatcher: deps.Dispatcher,
		now:        time.Now,
	}
}

// CreateEvent publishes an event under a club. Caller must administer the
// club.
func (s *EventService) CreateEvent(ctx context.Context, caller *domain.Account, clubSlug string, input EventCreateInput) (*domain.Event, error) {
	club, err := s.clubBySlug(ctx, clubSlug)
	if err != nil {
		return nil, err
	}
	if !canManageClub(caller, club) {
		return nil, apperrors.NewForbidden("club admin required")
	}
	if !input.EndsAt.After(input.StartsAt) {
		return nil, apperrors.NewValidationError("event must end after it starts", map[string]any{"ends_at": "must be after starts_at"})
	}

	event := &domain.Event{
		ClubID:          club.ID,
		Title:           strings.TrimSpace(input.Title),
		Description:     strings.TrimSpace(input.Description),
		Venue:           strings.TrimSpace(input.Venue),
		StartsAt:        input.StartsAt,
		EndsAt:          input.EndsAt,
		RegistrationURL: input.RegistrationURL,
	}
	if err := s.events.Create(ctx, event); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:      events.EventEventPublished,
		AccountID: caller.ID,
		Payload: events.EventPublishedPayload{
			EventID:  event.ID,
			ClubID:   club.ID,
			Title:    event.Title,
			StartsAt: event.StartsAt,
		},
	})
	return event, nil
}

// ListEvents returns events matching the filter, paginated.
func (s *EventService) ListEvents(ctx context.Context, input EventListInput) ([]domain.Event, error) {
	limit, offset := pageToLimitOffset(input.Page, input.PageSize)
	filter := repository.EventFilter{
		ClubID:       input.ClubID,
		StartsBefore: input.To,
		SearchTerm:   input.SearchTerm,
		Limit:        limit,
		Offset:       offset,
	}
	filter.StartsAfter = input.From
	if input.UpcomingOnly {
		// Keep an explicit lower bound when it is stricter than "now".
		now := s.now()
		if input.From == nil || input.From.Before(now) {
			filter.StartsAfter = &now
		}
	}
	return s.events.ListWithFilter(ctx, filter)
}

// GetEvent fetches an event by id.
func (s *EventService) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("event", nil)
		}
		return nil, apperrors.MapError(err)
	}
	return event, nil
}

// UpdateEvent applies changes. Caller must administer the hosting club.
func (s *EventService) UpdateEvent(ctx context.Context, caller *domain.Account, id string, input EventUpdateInput) (*domain.Event, error) {
	event, err := s.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.requireClubAdmin(ctx, caller, event.ClubID); err != nil {
		return nil, err
	}

	if input.Title != nil {
		event.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		event.Description = strings.TrimSpace(*input.Description)
	}
	if input.Venue != nil {
		event.Venue = strings.TrimSpace(*input.Venue)
	}
	if input.StartsAt != nil {
		event.StartsAt = *input.StartsAt
	}
	if input.EndsAt != nil {
		event.EndsAt = *input.EndsAt
	}
	if input.RegistrationURL != nil {
		event.RegistrationURL = *input.RegistrationURL
	}
	if !event.EndsAt.After(event.StartsAt) {
		return nil, apperrors.NewValidationError("event must end after it starts", map[string]any{"ends_at": "must be after starts_at"})
	}

	if err := s.events.Update(ctx, event); err != nil {
		return nil, apperrors.MapError(err)
	}
	return event, nil
}

// DeleteEvent cancels an event. Caller must administer the hosting club.
func (s *EventService) DeleteEvent(ctx context.Context, caller *domain.Account, id string) error {
	event, err := s.GetEvent(ctx, id)
	if err != nil {
		return err
	}
	if err := s.requireClubAdmin(ctx, caller, event.ClubID); err != nil {
		return err
	}
	if err := s.events.Delete(ctx, id); err != nil {
		return apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:      events.EventEventCancelled,
		AccountID: caller.ID,
		Payload: events.EventCancelledPayload{
			EventID: event.ID,
			ClubID:  event.ClubID,
			Title:   event.Title,
		},
	})
	return nil
}

// ToggleLike flips the caller's like on the event.
func (s *EventService) ToggleLike(ctx context.Context, callerID, eventID string) (bool, int64, error) {
	event, err := s.GetEvent(ctx, eventID)
	if err != nil {
		return false, 0, err
	}
	liked, total, err := s.likes.Toggle(ctx, domain.LikeSubjectEvent, event.ID, callerID)
	if err != nil {
		return false, 0, apperrors.MapError(err)
	}
	return liked, total, nil
}

// AddComment attaches a comment to an event.
func (s *EventService) AddComment(ctx context.Context, caller *domain.Account, eventID, body string) (*domain.Comment, error) {
	event, err := s.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	comment := &domain.Comment{
		EventID:    event.ID,
		AuthorID:   caller.ID,
		AuthorName: caller.Name,
		Body:       strings.TrimSpace(body),
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:      events.EventCommentAdded,
		AccountID: caller.ID,
		Payload: events.CommentAddedPayload{
			CommentID:   comment.ID,
			EventID:     event.ID,
			BodyPreview: stringPreview(comment.Body, 120),
		},
	})
	return comment, nil
}

// ListComments returns an event's comments, newest first.
func (s *EventService) ListComments(ctx context.Context, eventID string, page, pageSize int) ([]domain.Comment, error) {
	if _, err := s.GetEvent(ctx, eventID); err != nil {
		return nil, err
	}
	limit, offset := pageToLimitOffset(page, pageSize)
	return s.comments.ListByEvent(ctx, eventID, limit, offset)
}

// DeleteComment removes a comment. Allowed for its author or an admin of the
// hosting club.
func (s *EventService) DeleteComment(ctx context.Context, caller *domain.Account, eventID, commentID string) error {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("comment", nil)
		}
		return apperrors.MapError(err)
	}
	if comment.EventID != eventID {
		return apperrors.NewNotFound("comment", nil)
	}

	if comment.AuthorID != caller.ID {
		event, err := s.GetEvent(ctx, eventID)
		if err != nil {
			return err
		}
		if err := s.requireClubAdmin(ctx, caller, event.ClubID); err != nil {
			return err
		}
	}
	return apperrors.MapError(s.comments.Delete(ctx, commentID))
}

func (s *EventService) clubBySlug(ctx context.Context, slug string) (*domain.Club, error) {
	club, err := s.clubs.GetBySlug(ctx, slug)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("club", nil)
		}
		return nil, apperrors.MapError(err)
	}
	return club, nil
}

func (s *EventService) requireClubAdmin(ctx context.Context, caller *domain.Account, clubID string) error {
	club, err := s.clubs.GetByID(ctx, clubID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("club", nil)
		}
		return apperrors.MapError(err)
	}
	if !canManageClub(caller, club) {
		return apperrors.NewForbidden("club admin required")
	}
	return nil
}

func (s *EventService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

// stringPreview truncates to at most max runes without splitting a
// multi-byte character.
func stringPreview(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}
