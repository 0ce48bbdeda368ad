package scheduler

import (
	"reflect"
	"testing"
	"time"

	"github.com/conorfennell/hipo/internal/domain"
)

func testCard(interval float64, status domain.Status) domain.Card {
	return domain.Card{
		ID:          "card-1",
		Content:     "raw note text",
		Title:       "Title",
		Interval:    interval,
		ReviewCount: 2,
		Status:      status,
	}
}

func TestNewCard(t *testing.T) {
	now := time.Date(2025, time.March, 10, 18, 30, 15, 0, time.Local)
	meta := domain.CardMetadata{
		Title:    "Go interfaces",
		Summary:  "Interfaces are satisfied implicitly.",
		Keywords: []string{"go", "interfaces"},
		Question: "How does a type satisfy an interface in Go?",
	}

	card := NewCard("id-1", "some pasted text", meta, now)

	if card.Interval != 1 {
		t.Errorf("Expected initial interval 1, but got %v", card.Interval)
	}
	if card.Status != domain.StatusNew {
		t.Errorf("Expected status 'new', but got %q", card.Status)
	}
	if card.ReviewCount != 0 {
		t.Errorf("Expected review count 0, but got %d", card.ReviewCount)
	}
	// The first review is exactly 24h after creation, keeping the creation
	// time of day rather than snapping to 04:00.
	want := now.Add(24 * time.Hour)
	if !card.NextReviewAt.Equal(want) {
		t.Errorf("Expected next review at %v, but got %v", want, card.NextReviewAt)
	}

	t.Run("nil keywords become empty slice", func(t *testing.T) {
		card := NewCard("id-2", "text", domain.CardMetadata{Title: "T"}, now)
		if card.Keywords == nil {
			t.Error("Expected keywords to be an empty slice, but got nil")
		}
	})
}

func TestNextForgot(t *testing.T) {
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.Local)

	for _, status := range []domain.Status{domain.StatusNew, domain.StatusActive, domain.StatusMastered} {
		t.Run(string(status), func(t *testing.T) {
			card := testCard(52.5, status)
			next := Next(card, domain.Forgot, now)

			if next.Interval != 1 {
				t.Errorf("Expected interval 1 after forgetting, but got %v", next.Interval)
			}
			if next.Status != domain.StatusActive {
				t.Errorf("Expected status 'active' after forgetting, but got %q", next.Status)
			}
			if next.ReviewCount != card.ReviewCount+1 {
				t.Errorf("Expected review count %d, but got %d", card.ReviewCount+1, next.ReviewCount)
			}
		})
	}
}

func TestNextHard(t *testing.T) {
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.Local)

	cases := []struct {
		interval float64
		want     float64
	}{
		{0, 1},
		{1, 1},
		{2, 1},
		{3, 1},
		{7, 3},
		{21, 10},
		{52.5, 26},
	}

	for _, c := range cases {
		card := testCard(c.interval, domain.StatusActive)
		next := Next(card, domain.Hard, now)
		if next.Interval != c.want {
			t.Errorf("Hard on interval %v: expected %v, but got %v", c.interval, c.want, next.Interval)
		}
		if next.Status != domain.StatusActive {
			t.Errorf("Hard on interval %v: expected status unchanged, but got %q", c.interval, next.Status)
		}
	}
}

func TestNextEasyLadder(t *testing.T) {
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.Local)

	card := testCard(0, domain.StatusNew)
	want := []float64{1, 3, 7, 21, 52.5}

	for i, expected := range want {
		card = Next(card, domain.Easy, now)
		if card.Interval != expected {
			t.Fatalf("Easy step %d: expected interval %v, but got %v", i+1, expected, card.Interval)
		}
		// Mastery begins exactly at the step that produces 52.5, not at 21.
		if expected > 21 && card.Status != domain.StatusMastered {
			t.Errorf("Easy step %d: expected status 'mastered' at interval %v", i+1, expected)
		}
		if expected <= 21 && card.Status == domain.StatusMastered {
			t.Errorf("Easy step %d: card mastered too early at interval %v", i+1, expected)
		}
	}
}

func TestNextEasyCap(t *testing.T) {
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.Local)

	card := testCard(300, domain.StatusMastered)
	next := Next(card, domain.Easy, now)
	if next.Interval != 365 {
		t.Errorf("Expected interval capped at 365, but got %v", next.Interval)
	}

	// And once at the cap it stays there.
	next = Next(next, domain.Easy, now)
	if next.Interval != 365 {
		t.Errorf("Expected interval to stay at 365, but got %v", next.Interval)
	}
}

func TestNextEasyKeepsMastered(t *testing.T) {
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.Local)

	// Easy on a mastered card sitting at a ladder value must not downgrade it.
	card := testCard(21, domain.StatusMastered)
	next := Next(card, domain.Easy, now)
	if next.Status != domain.StatusMastered {
		t.Errorf("Expected mastered status preserved, but got %q", next.Status)
	}
}

func TestNextEasyAfterForgot(t *testing.T) {
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.Local)

	// A freshly forgotten card (interval 1) must advance to 3, not loop.
	card := testCard(8, domain.StatusActive)
	card = Next(card, domain.Forgot, now)
	card = Next(card, domain.Easy, now)
	if card.Interval != 3 {
		t.Errorf("Expected interval 3 after forgot then easy, but got %v", card.Interval)
	}
}

func TestNextDueTimeSnapsToFourAM(t *testing.T) {
	// 22:00 plus 7 days lands on the 17th; the due time must stay on the
	// 17th and move to 04:00, not roll forward a day.
	now := time.Date(2025, time.March, 10, 22, 0, 0, 0, time.Local)
	card := testCard(3, domain.StatusActive)

	next := Next(card, domain.Easy, now)
	want := time.Date(2025, time.March, 17, 4, 0, 0, 0, time.Local)
	if !next.NextReviewAt.Equal(want) {
		t.Errorf("Expected next review at %v, but got %v", want, next.NextReviewAt)
	}
}

func TestNextScenarioSevenToTwentyOne(t *testing.T) {
	now := time.Date(2025, time.June, 1, 9, 15, 0, 0, time.Local)
	card := testCard(7, domain.StatusActive)

	next := Next(card, domain.Easy, now)

	if next.Interval != 21 {
		t.Errorf("Expected interval 21, but got %v", next.Interval)
	}
	if next.Status != domain.StatusActive {
		t.Errorf("Expected status still 'active' at 21 days, but got %q", next.Status)
	}
	want := time.Date(2025, time.June, 22, 4, 0, 0, 0, time.Local)
	if !next.NextReviewAt.Equal(want) {
		t.Errorf("Expected next review at %v, but got %v", want, next.NextReviewAt)
	}
}

func TestNextScenarioMastery(t *testing.T) {
	now := time.Date(2025, time.June, 1, 9, 15, 0, 0, time.Local)
	card := testCard(21, domain.StatusActive)

	next := Next(card, domain.Easy, now)

	if next.Interval != 52.5 {
		t.Errorf("Expected interval 52.5, but got %v", next.Interval)
	}
	if next.Status != domain.StatusMastered {
		t.Errorf("Expected status 'mastered', but got %q", next.Status)
	}
}

func TestNextDoesNotMutateInput(t *testing.T) {
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.Local)
	card := testCard(7, domain.StatusActive)
	before := card

	Next(card, domain.Easy, now)

	if !reflect.DeepEqual(card, before) {
		t.Error("Expected input card to be unchanged, but it was mutated")
	}
}
