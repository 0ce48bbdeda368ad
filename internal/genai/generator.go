package genai

import (
	"context"

	"github.com/conorfennell/hipo/internal/domain"
)

// Generator produces card metadata and weekly insights from raw text.
// Both calls are single-shot; callers decide what a failure means (card
// creation aborts, the weekly report falls back to static text).
type Generator interface {
	CardMetadata(ctx context.Context, text string) (domain.CardMetadata, error)
	WeeklyInsights(ctx context.Context, summaries []string) (domain.Insights, error)
}
