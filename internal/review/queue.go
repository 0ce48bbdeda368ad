package review

import (
	"sort"
	"time"

	"github.com/conorfennell/hipo/internal/domain"
)

// DefaultDailyLimit is how many due cards one session presents at most.
const DefaultDailyLimit = 3

// SelectDue returns the cards whose review time has passed, ordered
// earliest-due first. The sort is stable, so cards sharing a due time keep
// their store order. The input slice is not modified.
func SelectDue(cards []domain.Card, now time.Time) []domain.Card {
	var due []domain.Card
	for _, c := range cards {
		if c.Due(now) {
			due = append(due, c)
		}
	}
	sort.SliceStable(due, func(i, j int) bool {
		return due[i].NextReviewAt.Before(due[j].NextReviewAt)
	})
	return due
}

// Truncate caps the due set at limit entries. A non-positive limit falls
// back to DefaultDailyLimit.
func Truncate(due []domain.Card, limit int) []domain.Card {
	if limit <= 0 {
		limit = DefaultDailyLimit
	}
	if len(due) > limit {
		return due[:limit]
	}
	return due
}
