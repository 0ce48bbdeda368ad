package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/conorfennell/hipo/internal/domain"
	"github.com/conorfennell/hipo/internal/genai"
	"github.com/conorfennell/hipo/internal/scheduler"
	"github.com/conorfennell/hipo/internal/storage"
)

// State is the screen the session is currently on.
type State int

const (
	Home State = iota
	Reviewing
	Report
)

// String returns the state name for logs and templates.
func (s State) String() string {
	switch s {
	case Home:
		return "home"
	case Reviewing:
		return "reviewing"
	case Report:
		return "report"
	}
	return "unknown"
}

var (
	ErrNoDueCards        = errors.New("no cards are due for review")
	ErrNotReviewing      = errors.New("no review is in progress")
	ErrNotHome           = errors.New("action only available from the home screen")
	ErrReportUnavailable = errors.New("the weekly report is not available today")
)

// Session sequences one user through the tool: saving notes on the home
// screen, working a bounded queue of due cards, and opening the weekly
// report. It holds the card collection in memory and writes the whole
// collection back through the store after every change. Store write failures
// are logged, not surfaced; the in-memory state keeps the change either way.
//
// Session is single-user and not safe for concurrent use.
type Session struct {
	store      storage.Store
	dailyLimit int
	reportDay  time.Weekday
	logger     *slog.Logger
	now        func() time.Time

	state State
	cards []domain.Card
	queue []domain.Card
	index int
}

// NewSession builds a session over the given store. The card collection is
// loaded once here; an unreadable store logs a warning and starts empty.
func NewSession(ctx context.Context, store storage.Store, dailyLimit int, reportDay time.Weekday, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	if dailyLimit <= 0 {
		dailyLimit = DefaultDailyLimit
	}

	cards, err := store.Load(ctx)
	if err != nil {
		logger.Warn("failed to load cards, starting empty", "error", err)
		cards = []domain.Card{}
	}

	s := &Session{
		store:      store,
		dailyLimit: dailyLimit,
		reportDay:  reportDay,
		logger:     logger,
		now:        time.Now,
		cards:      cards,
	}
	s.enterHome()
	return s
}

// enterHome moves to the home screen and rebuilds the review queue from the
// current collection. The queue is never reused stale across a home entry.
func (s *Session) enterHome() {
	s.state = Home
	s.queue = Truncate(SelectDue(s.cards, s.now()), s.dailyLimit)
	s.index = 0
}

// State returns the current screen.
func (s *Session) State() State {
	return s.state
}

// Cards returns a copy of the full collection, newest first.
func (s *Session) Cards() []domain.Card {
	out := make([]domain.Card, len(s.cards))
	copy(out, s.cards)
	return out
}

// Queue returns a copy of today's review queue.
func (s *Session) Queue() []domain.Card {
	out := make([]domain.Card, len(s.queue))
	copy(out, s.queue)
	return out
}

// Progress reports the 1-based position within the queue while reviewing.
func (s *Session) Progress() (current, total int) {
	return s.index + 1, len(s.queue)
}

// Current returns the card under review.
func (s *Session) Current() (domain.Card, error) {
	if s.state != Reviewing {
		return domain.Card{}, ErrNotReviewing
	}
	return s.queue[s.index], nil
}

// CreateCard distills raw text through the generator and adds the resulting
// card to the collection. A generation failure creates nothing: the store is
// untouched and the error goes back to the caller.
func (s *Session) CreateCard(ctx context.Context, gen genai.Generator, text string) (domain.Card, error) {
	meta, err := gen.CardMetadata(ctx, text)
	if err != nil {
		return domain.Card{}, fmt.Errorf("failed to generate card metadata: %w", err)
	}

	card := scheduler.NewCard(uuid.NewString(), text, meta, s.now())
	s.AddCard(ctx, card)
	return card, nil
}

// AddCard prepends a card to the collection (newest first) and persists the
// collection. On the home screen the review queue is rebuilt so a
// just-created due card shows up immediately.
func (s *Session) AddCard(ctx context.Context, card domain.Card) {
	s.cards = append([]domain.Card{card}, s.cards...)
	s.persist(ctx)
	if s.state == Home {
		s.queue = Truncate(SelectDue(s.cards, s.now()), s.dailyLimit)
		s.index = 0
	}
}

// StartReview begins working the queue. It is only permitted from the home
// screen with a non-empty queue.
func (s *Session) StartReview() error {
	if s.state != Home {
		return ErrNotHome
	}
	if len(s.queue) == 0 {
		return ErrNoDueCards
	}
	s.state = Reviewing
	s.index = 0
	return nil
}

// SubmitRating applies a rating to the card under review, writes the updated
// collection back, and advances to the next card or returns home when the
// queue is exhausted.
func (s *Session) SubmitRating(ctx context.Context, rating domain.Rating) error {
	if s.state != Reviewing {
		return ErrNotReviewing
	}

	current := s.queue[s.index]
	updated := scheduler.Next(current, rating, s.now())

	for i, c := range s.cards {
		if c.ID == updated.ID {
			s.cards[i] = updated
			break
		}
	}
	s.persist(ctx)

	s.logger.Info("card reviewed",
		"id", updated.ID,
		"rating", rating.String(),
		"interval", updated.Interval,
		"status", string(updated.Status),
	)

	if s.index < len(s.queue)-1 {
		s.index++
		return nil
	}
	s.enterHome()
	return nil
}

// ReportAvailable reports whether the weekly report can be opened today.
func (s *Session) ReportAvailable() bool {
	return s.now().Weekday() == s.reportDay
}

// EnterReport moves to the report screen. Only permitted from home, and only
// on the configured report day.
func (s *Session) EnterReport() error {
	if s.state != Home {
		return ErrNotHome
	}
	if !s.ReportAvailable() {
		return ErrReportUnavailable
	}
	s.state = Report
	return nil
}

// CloseReport returns to the home screen unconditionally.
func (s *Session) CloseReport() {
	s.enterHome()
}

// persist writes the full collection through the store. Failures are logged
// and swallowed; persistence is best effort and the in-memory state stands.
func (s *Session) persist(ctx context.Context) {
	if err := s.store.Save(ctx, s.cards); err != nil {
		s.logger.Error("failed to save cards", "error", err)
	}
}

// SetClock overrides the session clock. Tests use this to pin "today".
func (s *Session) SetClock(now func() time.Time) {
	s.now = now
	if s.state == Home {
		s.enterHome()
	}
}
