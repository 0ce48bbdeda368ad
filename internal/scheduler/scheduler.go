package scheduler

import (
	"math"
	"time"

	"github.com/conorfennell/hipo/internal/domain"
)

// maxIntervalDays caps how far out a review can be pushed.
const maxIntervalDays = 365

// reviewHour is the local hour of day every review-driven due time snaps to.
const reviewHour = 4

// NewCard builds a fresh card from raw text and its generated metadata.
// The first review lands exactly 24 hours after creation; the 04:00 snapping
// only applies to review-driven updates.
func NewCard(id, content string, meta domain.CardMetadata, now time.Time) domain.Card {
	keywords := meta.Keywords
	if keywords == nil {
		keywords = []string{}
	}
	return domain.Card{
		ID:           id,
		Content:      content,
		Title:        meta.Title,
		Summary:      meta.Summary,
		Keywords:     keywords,
		Question:     meta.Question,
		CreatedAt:    now,
		NextReviewAt: now.Add(24 * time.Hour),
		Interval:     1,
		ReviewCount:  0,
		Status:       domain.StatusNew,
	}
}

// Next computes a card's state after one review. It is pure: the input card
// is not mutated and identical inputs always produce identical outputs.
func Next(card domain.Card, rating domain.Rating, now time.Time) domain.Card {
	interval := card.Interval
	status := card.Status

	switch rating {
	case domain.Forgot:
		interval = 1
		status = domain.StatusActive
	case domain.Hard:
		interval = math.Max(1, math.Floor(interval*0.5))
	case domain.Easy:
		// Staged ladder on the current interval: 0 -> 1 -> 3 -> 7 -> 21,
		// then multiplicative growth capped at a year.
		switch interval {
		case 0:
			interval = 1
		case 1:
			interval = 3
		case 3:
			interval = 7
		case 7:
			interval = 21
		default:
			interval = math.Min(interval*2.5, maxIntervalDays)
		}
		if interval > 21 {
			status = domain.StatusMastered
		}
	}

	next := card
	next.Interval = interval
	next.Status = status
	next.NextReviewAt = snapToReviewHour(now.Add(days(interval)))
	next.ReviewCount = card.ReviewCount + 1
	return next
}

// days converts a fractional day count to a duration.
func days(n float64) time.Duration {
	return time.Duration(n * 24 * float64(time.Hour))
}

// snapToReviewHour rewrites the time-of-day to 04:00 local on the calendar
// day t already falls on. The date itself is never shifted, so a review due
// late in the day moves earlier within the same day, never to the next one.
func snapToReviewHour(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), reviewHour, 0, 0, 0, t.Location())
}
