package domain

import "time"

// Status describes where a card sits in its spaced-repetition lifecycle.
type Status string

const (
	StatusNew      Status = "new"
	StatusActive   Status = "active"
	StatusMastered Status = "mastered"
)

// Rating is the user's judgment of how well they recalled a card.
type Rating int

const (
	Forgot Rating = 1
	Hard   Rating = 2
	Easy   Rating = 3
)

// String returns the rating name used in forms and logs.
func (r Rating) String() string {
	switch r {
	case Forgot:
		return "forgot"
	case Hard:
		return "hard"
	case Easy:
		return "easy"
	}
	return "unknown"
}

// Card is a single saved note plus its review state.
// Content and the generated metadata are immutable after creation; only the
// scheduling fields (Interval, NextReviewAt, ReviewCount, Status) change.
type Card struct {
	ID           string    `json:"id"`
	Content      string    `json:"content"`
	Title        string    `json:"title"`
	Summary      string    `json:"summary"`
	Keywords     []string  `json:"keywords"`
	Question     string    `json:"question"`
	CreatedAt    time.Time `json:"created_at"`
	NextReviewAt time.Time `json:"next_review_at"`
	Interval     float64   `json:"interval"` // days until the next review
	ReviewCount  int       `json:"review_count"`
	Status       Status    `json:"status"`
}

// Due reports whether the card's scheduled review time has passed.
func (c Card) Due(now time.Time) bool {
	return !c.NextReviewAt.After(now)
}

// CardMetadata is what the metadata generator distills from raw text.
type CardMetadata struct {
	Title    string   `json:"title"`
	Summary  string   `json:"summary"`
	Keywords []string `json:"keywords"`
	Question string   `json:"question"`
}

// Insights is the free-text pair produced by the weekly insight generator.
type Insights struct {
	Highlight  string `json:"highlight"`
	Suggestion string `json:"suggestion"`
}

// WeeklyStats is a derived, read-only summary recomputed on each request.
type WeeklyStats struct {
	CardsCreated      int
	ReviewSuccessRate int // percentage, 0-100
	Highlight         string
	Suggestion        string
}
