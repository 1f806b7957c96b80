package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/willowlytics/cricketstats/internal/domain/analytics"
	"github.com/willowlytics/cricketstats/internal/domain/performance"
	"github.com/willowlytics/cricketstats/internal/platform/logging"
)

// DefaultFormWindow is the fallback number of recent matches RecentForm
// considers when neither the caller nor configuration picks a window.
const DefaultFormWindow = 5

// FormService reports a player's recent batting trend over their last N
// matches. Recency follows ingestion order (performance created_at), not
// the match's scheduled date.
type FormService struct {
	performances performance.Repository
	window       int
	logger       *logging.Logger
}

// NewFormService builds the analyzer. window is the default number of
// matches considered when a caller does not pick one; window <= 0 falls
// back to DefaultFormWindow.
func NewFormService(performances performance.Repository, window int, logger *logging.Logger) *FormService {
	if window <= 0 {
		window = DefaultFormWindow
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &FormService{performances: performances, window: window, logger: logger}
}

// RecentForm aggregates the player's batting over their most recent
// lastN matches. A match counts toward the window if the player appears
// in it at all; only deliveries they faced count toward the numbers. A
// player with fewer than lastN matches gets all of them. No appearances
// at all yields a zero-valued trend, not an error.
func (s *FormService) RecentForm(ctx context.Context, playerID string, lastN int) (analytics.FormTrend, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FormService.RecentForm")
	defer span.End()

	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return analytics.FormTrend{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}
	if lastN <= 0 {
		lastN = s.window
	}

	// Newest first by created_at.
	items, err := s.performances.ListByPlayer(ctx, playerID)
	if err != nil {
		return analytics.FormTrend{}, fmt.Errorf("list player performances: %w", err)
	}

	window := recentMatchWindow(items, lastN)

	trend := analytics.FormTrend{PlayerID: playerID, Matches: len(window)}
	runs, balls, dismissals := 0, 0, 0
	for _, p := range items {
		if !window[p.MatchID] || p.BatterID != playerID {
			continue
		}
		runs += p.Runs
		balls++
		if p.DismissedBatter(playerID) {
			dismissals++
		}
	}

	if dismissals > 0 {
		trend.RecentAverage = float64(runs) / float64(dismissals)
	} else {
		trend.RecentAverage = float64(runs)
	}
	if balls > 0 {
		trend.RecentStrikeRate = float64(runs) / float64(balls) * 100
	}
	return trend, nil
}

// recentMatchWindow picks the first lastN distinct match IDs from a
// newest-first performance list.
func recentMatchWindow(items []performance.Performance, lastN int) map[string]bool {
	window := make(map[string]bool, lastN)
	for _, p := range items {
		if window[p.MatchID] {
			continue
		}
		if len(window) == lastN {
			break
		}
		window[p.MatchID] = true
	}
	return window
}
