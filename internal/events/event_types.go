package events

import (
	"time"

	"github.com/spec-kit/club-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventAccountRegistered EventType = "account_registered"
	EventAccountVerified   EventType = "account_verified"
	EventMemberJoined      EventType = "member_joined"
	EventMemberLeft        EventType = "member_left"
	EventEventPublished    EventType = "event_published"
	EventEventCancelled    EventType = "event_cancelled"
	EventCommentAdded      EventType = "comment_added"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	AccountID string      `json:"account_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// AccountRegisteredPayload payload.
type AccountRegisteredPayload struct {
	Email  string        `json:"email"`
	Name   string        `json:"name"`
	Branch domain.Branch `json:"branch"`
	Year   domain.Year   `json:"year"`
}

// AccountVerifiedPayload payload.
type AccountVerifiedPayload struct {
	Email string `json:"email"`
}

// MembershipPayload payload for join/leave events.
type MembershipPayload struct {
	ClubID   string `json:"club_id"`
	ClubName string `json:"club_name"`
}

// EventPublishedPayload payload.
type EventPublishedPayload struct {
	EventID  string    `json:"event_id"`
	ClubID   string    `json:"club_id"`
	Title    string    `json:"title"`
	StartsAt time.Time `json:"starts_at"`
}

// EventCancelledPayload payload.
type EventCancelledPayload struct {
	EventID string `json:"event_id"`
	ClubID  string `json:"club_id"`
	Title   string `json:"title"`
}

// CommentAddedPayload payload.
type CommentAddedPayload struct {
	CommentID   string `json:"comment_id"`
	EventID     string `json:"event_id"`
	BodyPreview string `json:"body_preview"`
}
