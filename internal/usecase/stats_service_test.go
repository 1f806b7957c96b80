package usecase

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/willowlytics/cricketstats/internal/domain/match"
	"github.com/willowlytics/cricketstats/internal/domain/performance"
	"github.com/willowlytics/cricketstats/internal/infrastructure/repository/memory"
	"github.com/willowlytics/cricketstats/internal/platform/cache"
	"github.com/willowlytics/cricketstats/internal/platform/logging"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func testMatch(id, venueID string, date time.Time, teams ...string) match.Match {
	lines := make([]match.TeamInMatch, 0, len(teams))
	for _, teamID := range teams {
		lines = append(lines, match.TeamInMatch{TeamID: teamID})
	}
	return match.Match{
		ID:      id,
		Date:    date,
		Format:  match.FormatT20,
		VenueID: venueID,
		Teams:   lines,
	}
}

func TestStatsService_BattingStats(t *testing.T) {
	day := time.Date(2024, time.March, 14, 0, 0, 0, 0, time.UTC)

	t.Run("not out average equals raw runs", func(t *testing.T) {
		matches := memory.NewMatchRepository()
		perfs := memory.NewPerformanceRepository()
		service := NewStatsService(matches, perfs, memory.NewAnalyticsRepository(), nil, logging.NewNop())

		err := perfs.ReplaceForMatch(t.Context(), "m1", []performance.Performance{
			{MatchID: "m1", TeamID: "t1", BatterID: "kohli", Runs: 24, TotalRuns: 24},
			{MatchID: "m1", TeamID: "t1", BatterID: "kohli", Runs: 26, TotalRuns: 26},
		})
		if err != nil {
			t.Fatalf("seed performances: %v", err)
		}

		got, err := service.BattingStats(t.Context(), "kohli", "")
		if err != nil {
			t.Fatalf("batting stats failed: %v", err)
		}
		if got.Runs != 50 {
			t.Fatalf("unexpected runs: got=%d want=50", got.Runs)
		}
		if !almostEqual(got.Average, 50) {
			t.Fatalf("unexpected average: got=%v want=50", got.Average)
		}
		if !almostEqual(got.StrikeRate, 2500) {
			t.Fatalf("unexpected strike rate: got=%v want=2500", got.StrikeRate)
		}
	})

	t.Run("average divides by dismissals", func(t *testing.T) {
		matches := memory.NewMatchRepository()
		perfs := memory.NewPerformanceRepository()
		service := NewStatsService(matches, perfs, memory.NewAnalyticsRepository(), nil, logging.NewNop())

		err := perfs.ReplaceForMatch(t.Context(), "m1", []performance.Performance{
			{MatchID: "m1", TeamID: "t1", BatterID: "kohli", Runs: 30, TotalRuns: 30},
			{MatchID: "m1", TeamID: "t1", BatterID: "kohli", Runs: 0, TotalRuns: 0,
				Wickets: []performance.Wicket{{PlayerOutID: "kohli", Kind: "bowled"}}},
		})
		if err != nil {
			t.Fatalf("seed performances: %v", err)
		}

		got, err := service.BattingStats(t.Context(), "kohli", "")
		if err != nil {
			t.Fatalf("batting stats failed: %v", err)
		}
		if !almostEqual(got.Average, 30) {
			t.Fatalf("unexpected average: got=%v want=30", got.Average)
		}
		if !almostEqual(got.StrikeRate, 1500) {
			t.Fatalf("unexpected strike rate: got=%v want=1500", got.StrikeRate)
		}
	})

	t.Run("non-striker run out is not a dismissal of the batter", func(t *testing.T) {
		matches := memory.NewMatchRepository()
		perfs := memory.NewPerformanceRepository()
		service := NewStatsService(matches, perfs, memory.NewAnalyticsRepository(), nil, logging.NewNop())

		err := perfs.ReplaceForMatch(t.Context(), "m1", []performance.Performance{
			{MatchID: "m1", TeamID: "t1", BatterID: "kohli", NonStrikerID: "rahul",
				Runs: 40, TotalRuns: 40,
				Wickets: []performance.Wicket{{PlayerOutID: "rahul", Kind: "run out"}}},
		})
		if err != nil {
			t.Fatalf("seed performances: %v", err)
		}

		got, err := service.BattingStats(t.Context(), "kohli", "")
		if err != nil {
			t.Fatalf("batting stats failed: %v", err)
		}
		if !almostEqual(got.Average, 40) {
			t.Fatalf("unexpected average: got=%v want=40", got.Average)
		}
	})

	t.Run("venue filter keeps only matches at that ground", func(t *testing.T) {
		matches := memory.NewMatchRepository()
		perfs := memory.NewPerformanceRepository()
		service := NewStatsService(matches, perfs, memory.NewAnalyticsRepository(), nil, logging.NewNop())

		if err := matches.Upsert(t.Context(), testMatch("m1", "eden-gardens", day, "t1", "t2")); err != nil {
			t.Fatalf("seed match m1: %v", err)
		}
		if err := matches.Upsert(t.Context(), testMatch("m2", "lords", day.AddDate(0, 0, 1), "t1", "t2")); err != nil {
			t.Fatalf("seed match m2: %v", err)
		}
		err := perfs.ReplaceForMatch(t.Context(), "m1", []performance.Performance{
			{MatchID: "m1", TeamID: "t1", BatterID: "kohli", Runs: 10, TotalRuns: 10},
		})
		if err != nil {
			t.Fatalf("seed m1 performances: %v", err)
		}
		err = perfs.ReplaceForMatch(t.Context(), "m2", []performance.Performance{
			{MatchID: "m2", TeamID: "t1", BatterID: "kohli", Runs: 90, TotalRuns: 90},
		})
		if err != nil {
			t.Fatalf("seed m2 performances: %v", err)
		}

		got, err := service.BattingStats(t.Context(), "kohli", "eden-gardens")
		if err != nil {
			t.Fatalf("batting stats failed: %v", err)
		}
		if got.Runs != 10 {
			t.Fatalf("unexpected runs at venue: got=%d want=10", got.Runs)
		}
	})

	t.Run("no deliveries yields zero values", func(t *testing.T) {
		service := NewStatsService(memory.NewMatchRepository(), memory.NewPerformanceRepository(), memory.NewAnalyticsRepository(), nil, logging.NewNop())

		got, err := service.BattingStats(t.Context(), "nobody", "")
		if err != nil {
			t.Fatalf("batting stats failed: %v", err)
		}
		if got.Runs != 0 || got.Average != 0 || got.StrikeRate != 0 {
			t.Fatalf("expected zero stats, got %+v", got)
		}
	})

	t.Run("blank player id is rejected", func(t *testing.T) {
		service := NewStatsService(memory.NewMatchRepository(), memory.NewPerformanceRepository(), memory.NewAnalyticsRepository(), nil, logging.NewNop())

		_, err := service.BattingStats(t.Context(), "   ", "")
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})
}

func TestStatsService_BowlingStats(t *testing.T) {
	t.Run("economy uses fractional overs and total conceded runs", func(t *testing.T) {
		perfs := memory.NewPerformanceRepository()
		service := NewStatsService(memory.NewMatchRepository(), perfs, memory.NewAnalyticsRepository(), nil, logging.NewNop())

		// Nine balls, 18 runs conceded including extras: 1.5 overs, economy 12.
		items := make([]performance.Performance, 0, 9)
		for i := 0; i < 9; i++ {
			items = append(items, performance.Performance{
				MatchID: "m1", TeamID: "t1", BatterID: "b", BowlerID: "bumrah",
				Runs: 1, Extras: performance.Extras{Wides: 1}, TotalRuns: 2,
			})
		}
		if err := perfs.ReplaceForMatch(t.Context(), "m1", items); err != nil {
			t.Fatalf("seed performances: %v", err)
		}

		got, err := service.BowlingStats(t.Context(), "bumrah", "")
		if err != nil {
			t.Fatalf("bowling stats failed: %v", err)
		}
		if !almostEqual(got.Economy, 12) {
			t.Fatalf("unexpected economy: got=%v want=12", got.Economy)
		}
	})

	t.Run("run outs are not bowling wickets", func(t *testing.T) {
		perfs := memory.NewPerformanceRepository()
		service := NewStatsService(memory.NewMatchRepository(), perfs, memory.NewAnalyticsRepository(), nil, logging.NewNop())

		err := perfs.ReplaceForMatch(t.Context(), "m1", []performance.Performance{
			{MatchID: "m1", TeamID: "t1", BowlerID: "bumrah", TotalRuns: 0,
				Wickets: []performance.Wicket{{PlayerOutID: "a", Kind: "bowled"}}},
			{MatchID: "m1", TeamID: "t1", BowlerID: "bumrah", TotalRuns: 1,
				Wickets: []performance.Wicket{{PlayerOutID: "b", Kind: "run out"}}},
			{MatchID: "m1", TeamID: "t1", BowlerID: "bumrah", TotalRuns: 4,
				Wickets: []performance.Wicket{{PlayerOutID: "c", Kind: "caught"}}},
		})
		if err != nil {
			t.Fatalf("seed performances: %v", err)
		}

		got, err := service.BowlingStats(t.Context(), "bumrah", "")
		if err != nil {
			t.Fatalf("bowling stats failed: %v", err)
		}
		if got.Wickets != 2 {
			t.Fatalf("unexpected wickets: got=%d want=2", got.Wickets)
		}
	})

	t.Run("no deliveries yields zero economy", func(t *testing.T) {
		service := NewStatsService(memory.NewMatchRepository(), memory.NewPerformanceRepository(), memory.NewAnalyticsRepository(), nil, logging.NewNop())

		got, err := service.BowlingStats(t.Context(), "bumrah", "")
		if err != nil {
			t.Fatalf("bowling stats failed: %v", err)
		}
		if got.Economy != 0 || got.Wickets != 0 {
			t.Fatalf("expected zero stats, got %+v", got)
		}
	})
}

func TestStatsService_PlayerSummary(t *testing.T) {
	perfs := memory.NewPerformanceRepository()
	reports := memory.NewAnalyticsRepository()
	service := NewStatsService(memory.NewMatchRepository(), perfs, reports, cache.NewStore(time.Minute), logging.NewNop())

	err := perfs.ReplaceForMatch(t.Context(), "m1", []performance.Performance{
		{MatchID: "m1", TeamID: "t1", BatterID: "stokes", BowlerID: "x", Runs: 12, TotalRuns: 12},
		{MatchID: "m1", TeamID: "t2", BatterID: "y", BowlerID: "stokes", TotalRuns: 6,
			Wickets: []performance.Wicket{{PlayerOutID: "y", Kind: "lbw"}}},
	})
	if err != nil {
		t.Fatalf("seed performances: %v", err)
	}

	got, err := service.PlayerSummary(t.Context(), "stokes", "")
	if err != nil {
		t.Fatalf("player summary failed: %v", err)
	}
	if got.PlayerID != "stokes" {
		t.Fatalf("unexpected player id: %s", got.PlayerID)
	}
	if got.Batting.Runs != 12 {
		t.Fatalf("unexpected batting runs: got=%d want=12", got.Batting.Runs)
	}
	if got.Bowling.Wickets != 1 {
		t.Fatalf("unexpected bowling wickets: got=%d want=1", got.Bowling.Wickets)
	}
	if !almostEqual(got.Bowling.Economy, 36) {
		t.Fatalf("unexpected economy: got=%v want=36", got.Bowling.Economy)
	}

	// The summary is also written back as a regenerable view document.
	doc, ok, err := reports.GetPlayerSummary(t.Context(), "stokes", "")
	if err != nil || !ok {
		t.Fatalf("expected persisted player summary: ok=%v err=%v", ok, err)
	}
	if doc.Batting.Runs != 12 || doc.Bowling.Wickets != 1 {
		t.Fatalf("unexpected persisted summary: %+v", doc)
	}
	if doc.GeneratedAt.IsZero() {
		t.Fatalf("expected generated_at set")
	}

	// A player with no deliveries leaves no document behind.
	if _, err := service.PlayerSummary(t.Context(), "ghost", ""); err != nil {
		t.Fatalf("player summary failed: %v", err)
	}
	if _, ok, err := reports.GetPlayerSummary(t.Context(), "ghost", ""); err != nil || ok {
		t.Fatalf("expected no summary for unknown player: ok=%v err=%v", ok, err)
	}
}

func TestStatsService_TeamPerformance(t *testing.T) {
	day := time.Date(2023, time.October, 5, 0, 0, 0, 0, time.UTC)

	t.Run("ties and no-results count as losses", func(t *testing.T) {
		matches := memory.NewMatchRepository()
		reports := memory.NewAnalyticsRepository()
		service := NewStatsService(matches, memory.NewPerformanceRepository(), reports, nil, logging.NewNop())

		won := testMatch("m1", "v1", day, "ind", "aus")
		won.Result = &match.Result{WinnerTeamID: "ind", Margin: &match.Margin{Type: "runs", Value: 37}}
		lost := testMatch("m2", "v1", day.AddDate(0, 0, 2), "ind", "aus")
		lost.Result = &match.Result{WinnerTeamID: "aus", Margin: &match.Margin{Type: "wickets", Value: 5}}
		noResult := testMatch("m3", "v2", day.AddDate(0, 0, 4), "ind", "eng")

		for _, m := range []match.Match{won, lost, noResult} {
			if err := matches.Upsert(t.Context(), m); err != nil {
				t.Fatalf("seed match %s: %v", m.ID, err)
			}
		}

		got, err := service.TeamPerformance(t.Context(), "ind", "")
		if err != nil {
			t.Fatalf("team performance failed: %v", err)
		}
		if got.MatchesPlayed != 3 || got.Wins != 1 || got.Losses != 2 {
			t.Fatalf("unexpected record: %+v", got)
		}
		if !almostEqual(got.WinPercentage, 100.0/3) {
			t.Fatalf("unexpected win percentage: got=%v", got.WinPercentage)
		}

		doc, ok, err := reports.GetTeamPerformance(t.Context(), "ind", "")
		if err != nil || !ok {
			t.Fatalf("expected persisted team performance: ok=%v err=%v", ok, err)
		}
		if doc.Record != got {
			t.Fatalf("persisted record diverges: doc=%+v got=%+v", doc.Record, got)
		}
	})

	t.Run("venue filter narrows the ledger", func(t *testing.T) {
		matches := memory.NewMatchRepository()
		service := NewStatsService(matches, memory.NewPerformanceRepository(), memory.NewAnalyticsRepository(), nil, logging.NewNop())

		home := testMatch("m1", "v1", day, "ind", "aus")
		home.Result = &match.Result{WinnerTeamID: "ind"}
		away := testMatch("m2", "v2", day.AddDate(0, 0, 2), "ind", "aus")
		away.Result = &match.Result{WinnerTeamID: "aus"}

		for _, m := range []match.Match{home, away} {
			if err := matches.Upsert(t.Context(), m); err != nil {
				t.Fatalf("seed match %s: %v", m.ID, err)
			}
		}

		got, err := service.TeamPerformance(t.Context(), "ind", "v1")
		if err != nil {
			t.Fatalf("team performance failed: %v", err)
		}
		if got.MatchesPlayed != 1 || got.Wins != 1 || got.Losses != 0 {
			t.Fatalf("unexpected record at venue: %+v", got)
		}
	})

	t.Run("team with no matches gets a zero ledger", func(t *testing.T) {
		reports := memory.NewAnalyticsRepository()
		service := NewStatsService(memory.NewMatchRepository(), memory.NewPerformanceRepository(), reports, nil, logging.NewNop())

		got, err := service.TeamPerformance(t.Context(), "zim", "")
		if err != nil {
			t.Fatalf("team performance failed: %v", err)
		}
		if got.MatchesPlayed != 0 || got.WinPercentage != 0 {
			t.Fatalf("expected empty record, got %+v", got)
		}
		if _, ok, err := reports.GetTeamPerformance(t.Context(), "zim", ""); err != nil || ok {
			t.Fatalf("expected no document for empty ledger: ok=%v err=%v", ok, err)
		}
	})
}
