package domain

import "time"

// Comment is a user remark on an event.
type Comment struct {
	ID         string
	EventID    string
	AuthorID   string
	AuthorName string
	Body       string
	CreatedAt  time.Time
}

// LikeSubject discriminates what a like points at.
type LikeSubject string

const (
	LikeSubjectClub  LikeSubject = "CLUB"
	LikeSubjectEvent LikeSubject = "EVENT"
)
