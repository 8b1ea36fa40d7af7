package domain

import "time"

// Event is the aggregate for a club-hosted event.
type Event struct {
	ID              string
	ClubID          string
	Title           string
	Description     string
	Venue           string
	StartsAt        time.Time
	EndsAt          time.Time
	RegistrationURL string
	Likes           int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Upcoming reports whether the event has not yet started at the given instant.
func (e *Event) Upcoming(now time.Time) bool {
	return e.StartsAt.After(now)
}
