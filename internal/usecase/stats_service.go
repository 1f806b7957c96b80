package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sourcegraph/conc"

	"github.com/willowlytics/cricketstats/internal/domain/analytics"
	"github.com/willowlytics/cricketstats/internal/domain/match"
	"github.com/willowlytics/cricketstats/internal/domain/performance"
	"github.com/willowlytics/cricketstats/internal/platform/cache"
	"github.com/willowlytics/cricketstats/internal/platform/logging"
)

// Cache key prefixes for derived player aggregates. The ingestion
// coordinator drops both prefixes after a batch so re-ingested matches
// are visible before the TTL runs out.
const (
	battingCachePrefix = "batting:"
	bowlingCachePrefix = "bowling:"
)

// StatsService computes batting, bowling and team aggregates from
// persisted performances. Reads return zero values when no data exists;
// hard errors are reserved for malformed identifiers and store failures.
// Non-empty team and player summaries are written back to the analytics
// store as regenerable view documents.
type StatsService struct {
	matches      match.Repository
	performances performance.Repository
	analytics    analytics.Repository
	cache        *cache.Store
	logger       *logging.Logger
}

// NewStatsService builds the aggregator. cacheStore may be nil to disable
// result caching; cached values are derived data, bounded in staleness by
// the store's TTL.
func NewStatsService(
	matches match.Repository,
	performances performance.Repository,
	analyticsRepo analytics.Repository,
	cacheStore *cache.Store,
	logger *logging.Logger,
) *StatsService {
	if logger == nil {
		logger = logging.Default()
	}
	return &StatsService{
		matches:      matches,
		performances: performances,
		analytics:    analyticsRepo,
		cache:        cacheStore,
		logger:       logger,
	}
}

// BattingStats aggregates a player's batting across all their deliveries,
// optionally restricted to matches at one venue.
//
// Average follows the cricket convention for the not-out edge case: with
// zero dismissals it reports raw runs (50 not out twice is an "average"
// of 50, not infinity). A dismissal counts only when the wicket's
// player_out is this batter; a non-striker run out on the batter's
// delivery does not dent the batter's average.
func (s *StatsService) BattingStats(ctx context.Context, playerID, venueID string) (analytics.BattingStats, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.BattingStats")
	defer span.End()

	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return analytics.BattingStats{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}

	key := battingCachePrefix + playerID + ":" + venueID
	return cachedStat(ctx, s.cache, key, func(ctx context.Context) (analytics.BattingStats, error) {
		return s.battingStats(ctx, playerID, venueID)
	})
}

func (s *StatsService) battingStats(ctx context.Context, playerID, venueID string) (analytics.BattingStats, error) {
	items, err := s.performances.ListByBatter(ctx, playerID)
	if err != nil {
		return analytics.BattingStats{}, fmt.Errorf("list batting performances: %w", err)
	}
	items, err = s.restrictToVenue(ctx, items, venueID)
	if err != nil {
		return analytics.BattingStats{}, err
	}

	runs, balls, dismissals := 0, 0, 0
	for _, p := range items {
		runs += p.Runs
		balls++
		if p.DismissedBatter(playerID) {
			dismissals++
		}
	}

	stats := analytics.BattingStats{Runs: runs}
	if dismissals > 0 {
		stats.Average = float64(runs) / float64(dismissals)
	} else {
		stats.Average = float64(runs)
	}
	if balls > 0 {
		stats.StrikeRate = float64(runs) / float64(balls) * 100
	}
	return stats, nil
}

// BowlingStats aggregates a player's bowling. Economy divides runs
// conceded by fractional overs (balls/6), not the overs notation used on
// match documents. Run outs and other non-bowler dismissals on the
// bowler's deliveries do not count as bowling wickets.
func (s *StatsService) BowlingStats(ctx context.Context, playerID, venueID string) (analytics.BowlingStats, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.BowlingStats")
	defer span.End()

	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return analytics.BowlingStats{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}

	key := bowlingCachePrefix + playerID + ":" + venueID
	return cachedStat(ctx, s.cache, key, func(ctx context.Context) (analytics.BowlingStats, error) {
		return s.bowlingStats(ctx, playerID, venueID)
	})
}

func (s *StatsService) bowlingStats(ctx context.Context, playerID, venueID string) (analytics.BowlingStats, error) {
	items, err := s.performances.ListByBowler(ctx, playerID)
	if err != nil {
		return analytics.BowlingStats{}, fmt.Errorf("list bowling performances: %w", err)
	}
	items, err = s.restrictToVenue(ctx, items, venueID)
	if err != nil {
		return analytics.BowlingStats{}, err
	}

	conceded, balls, wickets := 0, 0, 0
	for _, p := range items {
		conceded += p.TotalRuns
		balls++
		for _, w := range p.Wickets {
			if bowlerCreditedWicket(w.Kind) {
				wickets++
			}
		}
	}

	stats := analytics.BowlingStats{Wickets: wickets}
	if overs := analytics.OversDecimal(balls); overs > 0 {
		stats.Economy = float64(conceded) / overs
	}
	return stats, nil
}

func bowlerCreditedWicket(kind string) bool {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "run out", "retired hurt", "retired not out", "obstructing the field", "timed out":
		return false
	default:
		return true
	}
}

// PlayerStats is the combined batting and bowling view of one player.
type PlayerStats struct {
	PlayerID string                 `json:"player_id"`
	Batting  analytics.BattingStats `json:"batting"`
	Bowling  analytics.BowlingStats `json:"bowling"`
}

// PlayerSummary fetches batting and bowling aggregates concurrently; the
// two scans are independent.
func (s *StatsService) PlayerSummary(ctx context.Context, playerID, venueID string) (PlayerStats, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.PlayerSummary")
	defer span.End()

	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return PlayerStats{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}

	var (
		batting    analytics.BattingStats
		bowling    analytics.BowlingStats
		battingErr error
		bowlingErr error
	)

	var wg conc.WaitGroup
	wg.Go(func() {
		batting, battingErr = s.BattingStats(ctx, playerID, venueID)
	})
	wg.Go(func() {
		bowling, bowlingErr = s.BowlingStats(ctx, playerID, venueID)
	})
	wg.Wait()

	if err := errors.Join(battingErr, bowlingErr); err != nil {
		return PlayerStats{}, err
	}

	// Persist a summary document only when the aggregates are non-zero;
	// probing an unknown ID must not mint rows.
	if batting != (analytics.BattingStats{}) || bowling != (analytics.BowlingStats{}) {
		doc := analytics.PlayerSummaryDoc{
			PlayerID:    playerID,
			VenueID:     strings.TrimSpace(venueID),
			Batting:     batting,
			Bowling:     bowling,
			GeneratedAt: time.Now().UTC(),
		}
		if err := s.analytics.SavePlayerSummary(ctx, doc); err != nil {
			return PlayerStats{}, fmt.Errorf("save player summary: %w", err)
		}
	}

	return PlayerStats{PlayerID: playerID, Batting: batting, Bowling: bowling}, nil
}

// TeamPerformance is a team's win/loss record, optionally at one venue.
// Ties and no-results count as losses; the ledger has no draw column.
func (s *StatsService) TeamPerformance(ctx context.Context, teamID, venueID string) (analytics.TeamRecord, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.TeamPerformance")
	defer span.End()

	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return analytics.TeamRecord{}, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}

	matches, err := s.matches.ListByTeam(ctx, teamID, venueID)
	if err != nil {
		return analytics.TeamRecord{}, fmt.Errorf("list matches by team: %w", err)
	}

	record := analytics.TeamRecord{MatchesPlayed: len(matches)}
	for _, m := range matches {
		if m.Result != nil && m.Result.WinnerTeamID == teamID {
			record.Wins++
		} else {
			record.Losses++
		}
	}
	if record.MatchesPlayed > 0 {
		record.WinPercentage = float64(record.Wins) / float64(record.MatchesPlayed) * 100

		doc := analytics.TeamPerformanceDoc{
			TeamID:      teamID,
			VenueID:     strings.TrimSpace(venueID),
			Record:      record,
			GeneratedAt: time.Now().UTC(),
		}
		if err := s.analytics.SaveTeamPerformance(ctx, doc); err != nil {
			return analytics.TeamRecord{}, fmt.Errorf("save team performance: %w", err)
		}
	}
	return record, nil
}

// restrictToVenue filters performances down to matches played at venueID.
// An empty venueID means no restriction.
func (s *StatsService) restrictToVenue(
	ctx context.Context,
	items []performance.Performance,
	venueID string,
) ([]performance.Performance, error) {
	venueID = strings.TrimSpace(venueID)
	if venueID == "" || len(items) == 0 {
		return items, nil
	}

	matchIDs, err := s.matches.ListIDsByVenue(ctx, venueID)
	if err != nil {
		return nil, fmt.Errorf("list matches by venue: %w", err)
	}
	allowed := make(map[string]bool, len(matchIDs))
	for _, id := range matchIDs {
		allowed[id] = true
	}

	out := items[:0]
	for _, p := range items {
		if allowed[p.MatchID] {
			out = append(out, p)
		}
	}
	return out, nil
}

// cachedStat wraps a stat computation with the shared TTL cache.
func cachedStat[T any](ctx context.Context, store *cache.Store, key string, load func(context.Context) (T, error)) (T, error) {
	if store == nil {
		return load(ctx)
	}

	value, err := store.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		return load(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	typed, ok := value.(T)
	if !ok {
		// Key collision across stat kinds; recompute rather than fail.
		return load(ctx)
	}
	return typed, nil
}
