package review

import (
	"testing"
	"time"

	"github.com/conorfennell/hipo/internal/domain"
)

func cardDueAt(id string, due time.Time) domain.Card {
	return domain.Card{ID: id, NextReviewAt: due, Status: domain.StatusActive}
}

func TestSelectDue(t *testing.T) {
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

	t.Run("filters and sorts earliest first", func(t *testing.T) {
		cards := []domain.Card{
			cardDueAt("late", now.Add(-1*time.Hour)),
			cardDueAt("future-1", now.Add(time.Minute)),
			cardDueAt("early", now.Add(-48*time.Hour)),
			cardDueAt("future-2", now.Add(72*time.Hour)),
			cardDueAt("exact", now),
		}

		due := SelectDue(cards, now)

		if len(due) != 3 {
			t.Fatalf("Expected 3 due cards, but got %d", len(due))
		}
		wantOrder := []string{"early", "late", "exact"}
		for i, id := range wantOrder {
			if due[i].ID != id {
				t.Errorf("Expected card %q at position %d, but got %q", id, i, due[i].ID)
			}
		}
	})

	t.Run("never returns a future card", func(t *testing.T) {
		cards := []domain.Card{
			cardDueAt("a", now.Add(time.Millisecond)),
			cardDueAt("b", now.Add(24*time.Hour)),
		}
		if due := SelectDue(cards, now); len(due) != 0 {
			t.Errorf("Expected no due cards, but got %d", len(due))
		}
	})

	t.Run("ties keep store order", func(t *testing.T) {
		same := now.Add(-time.Hour)
		cards := []domain.Card{
			cardDueAt("first", same),
			cardDueAt("second", same),
			cardDueAt("third", same),
		}
		due := SelectDue(cards, now)
		for i, id := range []string{"first", "second", "third"} {
			if due[i].ID != id {
				t.Errorf("Expected stable order, position %d should be %q but got %q", i, id, due[i].ID)
			}
		}
	})

	t.Run("does not mutate input", func(t *testing.T) {
		cards := []domain.Card{
			cardDueAt("z", now.Add(-time.Hour)),
			cardDueAt("a", now.Add(-2*time.Hour)),
		}
		SelectDue(cards, now)
		if cards[0].ID != "z" || cards[1].ID != "a" {
			t.Error("Expected input slice order to be unchanged")
		}
	})
}

func TestTruncate(t *testing.T) {
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	due := []domain.Card{
		cardDueAt("a", now),
		cardDueAt("b", now),
		cardDueAt("c", now),
		cardDueAt("d", now),
		cardDueAt("e", now),
	}

	if got := Truncate(due, 3); len(got) != 3 {
		t.Errorf("Expected 5 cards truncated to 3, but got %d", len(got))
	}
	if got := Truncate(due[:2], 3); len(got) != 2 {
		t.Errorf("Expected 2 cards left untouched by a cap of 3, but got %d", len(got))
	}
	if got := Truncate(due, 0); len(got) != DefaultDailyLimit {
		t.Errorf("Expected default limit %d for a non-positive cap, but got %d", DefaultDailyLimit, len(got))
	}
}
