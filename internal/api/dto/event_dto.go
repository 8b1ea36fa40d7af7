package dto

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/spec-kit/club-service/internal/domain"
)

// CreateEventRequest payload.
type CreateEventRequest struct {
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Venue           string    `json:"venue"`
	StartsAt        time.Time `json:"starts_at"`
	EndsAt          time.Time `json:"ends_at"`
	RegistrationURL string    `json:"registration_url"`
}

// Validate enforces the event creation contract.
func (r CreateEventRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(2, 200)),
		validation.Field(&r.Description, validation.Length(0, 5000)),
		validation.Field(&r.Venue, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.StartsAt, validation.Required),
		validation.Field(&r.EndsAt, validation.Required),
		validation.Field(&r.RegistrationURL, validation.When(r.RegistrationURL != "", is.URL)),
	)
}

// UpdateEventRequest payload for event changes.
type UpdateEventRequest struct {
	Title           *string    `json:"title"`
	Description     *string    `json:"description"`
	Venue           *string    `json:"venue"`
	StartsAt        *time.Time `json:"starts_at"`
	EndsAt          *time.Time `json:"ends_at"`
	RegistrationURL *string    `json:"registration_url"`
}

// Validate enforces the event update contract.
func (r UpdateEventRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.NilOrNotEmpty, validation.Length(2, 200)),
		validation.Field(&r.Description, validation.Length(0, 5000)),
		validation.Field(&r.Venue, validation.NilOrNotEmpty, validation.Length(1, 200)),
		validation.Field(&r.RegistrationURL, validation.NilOrNotEmpty, is.URL),
	)
}

// CreateCommentRequest payload.
type CreateCommentRequest struct {
	Body string `json:"body"`
}

// Validate enforces the comment contract.
func (r CreateCommentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Body, validation.Required, validation.Length(1, 1000)),
	)
}

// EventResponse is the public shape of an event.
type EventResponse struct {
	ID              string    `json:"id"`
	ClubID          string    `json:"club_id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Venue           string    `json:"venue"`
	StartsAt        time.Time `json:"starts_at"`
	EndsAt          time.Time `json:"ends_at"`
	RegistrationURL string    `json:"registration_url,omitempty"`
	Likes           int64     `json:"likes"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NewEventResponse maps a domain event to its public shape.
func NewEventResponse(event *domain.Event) EventResponse {
	return EventResponse{
		ID:              event.ID,
		ClubID:          event.ClubID,
		Title:           event.Title,
		Description:     event.Description,
		Venue:           event.Venue,
		StartsAt:        event.StartsAt,
		EndsAt:          event.EndsAt,
		RegistrationURL: event.RegistrationURL,
		Likes:           event.Likes,
		CreatedAt:       event.CreatedAt,
		UpdatedAt:       event.UpdatedAt,
	}
}

// CommentResponse is the public shape of a comment.
type CommentResponse struct {
	ID         string    `json:"id"`
	EventID    string    `json:"event_id"`
	AuthorID   string    `json:"author_id"`
	AuthorName string    `json:"author_name"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewCommentResponse maps a domain comment to its public shape.
func NewCommentResponse(comment *domain.Comment) CommentResponse {
	return CommentResponse{
		ID:         comment.ID,
		EventID:    comment.EventID,
		AuthorID:   comment.AuthorID,
		AuthorName: comment.AuthorName,
		Body:       comment.Body,
		CreatedAt:  comment.CreatedAt,
	}
}
