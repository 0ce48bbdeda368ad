// Package report derives the weekly growth summary from the card
// collection. The retention percentage here is a presentational heuristic,
// deliberately kept out of the scheduler so it can change without touching
// scheduling behavior.
package report

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/conorfennell/hipo/internal/domain"
	"github.com/conorfennell/hipo/internal/genai"
)

// Fallback copy used when the insight generator fails or the week is empty.
var (
	emptyWeekInsights = domain.Insights{
		Highlight:  "You haven't added many notes this week.",
		Suggestion: "Try adding one note per day.",
	}
	failureInsights = domain.Insights{
		Highlight:  "Data unavailable.",
		Suggestion: "Check back later.",
	}
)

// Build computes this week's stats from the full collection. The counts and
// retention rate are always computed locally; only the highlight and
// suggestion come from the generator, and a generator failure swaps in
// static text rather than failing the report.
func Build(ctx context.Context, cards []domain.Card, gen genai.Generator, now time.Time, logger *slog.Logger) domain.WeeklyStats {
	if logger == nil {
		logger = slog.Default()
	}

	weekAgo := now.Add(-7 * 24 * time.Hour)
	var summaries []string
	created := 0
	for _, c := range cards {
		if c.CreatedAt.After(weekAgo) {
			created++
			if c.Summary != "" {
				summaries = append(summaries, c.Summary)
			}
		}
	}

	insights := emptyWeekInsights
	if len(summaries) > 0 {
		got, err := gen.WeeklyInsights(ctx, summaries)
		if err != nil {
			logger.Warn("weekly insight generation failed, using fallback", "error", err)
			insights = failureInsights
		} else {
			insights = got
		}
	}

	return domain.WeeklyStats{
		CardsCreated:      created,
		ReviewSuccessRate: successRate(cards),
		Highlight:         insights.Highlight,
		Suggestion:        insights.Suggestion,
	}
}

// successRate blends mastered and active counts into a generous retention
// percentage. Not a statistic; individual review outcomes are not logged.
func successRate(cards []domain.Card) int {
	mastered := 0
	active := 0
	for _, c := range cards {
		switch c.Status {
		case domain.StatusMastered:
			mastered++
		case domain.StatusActive:
			active++
		}
	}
	if active == 0 {
		active = 1
	}

	rate := int(math.Round(float64(mastered)/float64(active+mastered)*100)) + 50
	if rate > 100 {
		rate = 100
	}
	return rate
}
