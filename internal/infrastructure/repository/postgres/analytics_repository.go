package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"

	"github.com/willowlytics/cricketstats/internal/domain/analytics"
	qb "github.com/willowlytics/cricketstats/internal/platform/querybuilder"
)

type AnalyticsRepository struct {
	db *sqlx.DB
}

type matchAnalyticsTableModel struct {
	MatchID     string    `db:"match_id"`
	Collapses   []byte    `db:"collapses"`
	GeneratedAt time.Time `db:"generated_at"`
}

type teamPerformanceTableModel struct {
	TeamID        string    `db:"team_id"`
	VenueID       string    `db:"venue_id"`
	MatchesPlayed int       `db:"matches_played"`
	Wins          int       `db:"wins"`
	Losses        int       `db:"losses"`
	WinPercentage float64   `db:"win_percentage"`
	GeneratedAt   time.Time `db:"generated_at"`
}

type playerSummaryTableModel struct {
	PlayerID    string    `db:"player_id"`
	VenueID     string    `db:"venue_id"`
	Batting     []byte    `db:"batting"`
	Bowling     []byte    `db:"bowling"`
	GeneratedAt time.Time `db:"generated_at"`
}

func NewAnalyticsRepository(db *sqlx.DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

func (r *AnalyticsRepository) SaveMatchAnalytics(ctx context.Context, item analytics.MatchAnalytics) error {
	collapses, err := sonic.Marshal(item.Collapses)
	if err != nil {
		return fmt.Errorf("encode collapses: %w", err)
	}

	query, args, err := qb.InsertInto("match_analytics").
		Columns("match_id", "collapses", "generated_at").
		Values(item.MatchID, collapses, item.GeneratedAt).
		Suffix(`ON CONFLICT (match_id) DO UPDATE SET
			collapses = EXCLUDED.collapses,
			generated_at = EXCLUDED.generated_at`).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build upsert match analytics query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return markStoreErr(fmt.Errorf("upsert match analytics: %w", err))
	}

	return nil
}

func (r *AnalyticsRepository) GetMatchAnalytics(ctx context.Context, matchID string) (analytics.MatchAnalytics, bool, error) {
	query, args, err := qb.Select("match_id", "collapses", "generated_at").
		From("match_analytics").
		Where(qb.Eq("match_id", matchID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return analytics.MatchAnalytics{}, false, fmt.Errorf("build select match analytics query: %w", err)
	}

	var row matchAnalyticsTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return analytics.MatchAnalytics{}, false, nil
		}
		return analytics.MatchAnalytics{}, false, markStoreErr(fmt.Errorf("select match analytics: %w", err))
	}

	out := analytics.MatchAnalytics{
		MatchID:     row.MatchID,
		Collapses:   []analytics.Collapse{},
		GeneratedAt: row.GeneratedAt,
	}
	if len(row.Collapses) > 0 {
		if err := sonic.Unmarshal(row.Collapses, &out.Collapses); err != nil {
			return analytics.MatchAnalytics{}, false, fmt.Errorf("decode collapses: %w", err)
		}
	}

	return out, true, nil
}

func (r *AnalyticsRepository) DeleteMatchAnalytics(ctx context.Context, matchID string) error {
	query, args, err := qb.DeleteFrom("match_analytics").
		Where(qb.Eq("match_id", matchID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete match analytics query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return markStoreErr(fmt.Errorf("delete match analytics: %w", err))
	}

	return nil
}

func (r *AnalyticsRepository) SaveTeamPerformance(ctx context.Context, item analytics.TeamPerformanceDoc) error {
	query, args, err := qb.InsertInto("team_performances").
		Columns("team_id", "venue_id", "matches_played", "wins", "losses", "win_percentage", "generated_at").
		Values(item.TeamID, item.VenueID, item.Record.MatchesPlayed, item.Record.Wins,
			item.Record.Losses, item.Record.WinPercentage, item.GeneratedAt).
		Suffix(`ON CONFLICT (team_id, venue_id) DO UPDATE SET
			matches_played = EXCLUDED.matches_played,
			wins = EXCLUDED.wins,
			losses = EXCLUDED.losses,
			win_percentage = EXCLUDED.win_percentage,
			generated_at = EXCLUDED.generated_at`).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build upsert team performance query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return markStoreErr(fmt.Errorf("upsert team performance: %w", err))
	}

	return nil
}

func (r *AnalyticsRepository) GetTeamPerformance(ctx context.Context, teamID, venueID string) (analytics.TeamPerformanceDoc, bool, error) {
	query, args, err := qb.Select("team_id", "venue_id", "matches_played", "wins", "losses", "win_percentage", "generated_at").
		From("team_performances").
		Where(qb.Eq("team_id", teamID)).
		Where(qb.Eq("venue_id", venueID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return analytics.TeamPerformanceDoc{}, false, fmt.Errorf("build select team performance query: %w", err)
	}

	var row teamPerformanceTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return analytics.TeamPerformanceDoc{}, false, nil
		}
		return analytics.TeamPerformanceDoc{}, false, markStoreErr(fmt.Errorf("select team performance: %w", err))
	}

	return analytics.TeamPerformanceDoc{
		TeamID:  row.TeamID,
		VenueID: row.VenueID,
		Record: analytics.TeamRecord{
			MatchesPlayed: row.MatchesPlayed,
			Wins:          row.Wins,
			Losses:        row.Losses,
			WinPercentage: row.WinPercentage,
		},
		GeneratedAt: row.GeneratedAt,
	}, true, nil
}

func (r *AnalyticsRepository) SavePlayerSummary(ctx context.Context, item analytics.PlayerSummaryDoc) error {
	batting, err := sonic.Marshal(item.Batting)
	if err != nil {
		return fmt.Errorf("encode batting summary: %w", err)
	}
	bowling, err := sonic.Marshal(item.Bowling)
	if err != nil {
		return fmt.Errorf("encode bowling summary: %w", err)
	}

	query, args, err := qb.InsertInto("player_performances").
		Columns("player_id", "venue_id", "batting", "bowling", "generated_at").
		Values(item.PlayerID, item.VenueID, batting, bowling, item.GeneratedAt).
		Suffix(`ON CONFLICT (player_id, venue_id) DO UPDATE SET
			batting = EXCLUDED.batting,
			bowling = EXCLUDED.bowling,
			generated_at = EXCLUDED.generated_at`).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build upsert player summary query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return markStoreErr(fmt.Errorf("upsert player summary: %w", err))
	}

	return nil
}

func (r *AnalyticsRepository) GetPlayerSummary(ctx context.Context, playerID, venueID string) (analytics.PlayerSummaryDoc, bool, error) {
	query, args, err := qb.Select("player_id", "venue_id", "batting", "bowling", "generated_at").
		From("player_performances").
		Where(qb.Eq("player_id", playerID)).
		Where(qb.Eq("venue_id", venueID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return analytics.PlayerSummaryDoc{}, false, fmt.Errorf("build select player summary query: %w", err)
	}

	var row playerSummaryTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return analytics.PlayerSummaryDoc{}, false, nil
		}
		return analytics.PlayerSummaryDoc{}, false, markStoreErr(fmt.Errorf("select player summary: %w", err))
	}

	out := analytics.PlayerSummaryDoc{
		PlayerID:    row.PlayerID,
		VenueID:     row.VenueID,
		GeneratedAt: row.GeneratedAt,
	}
	if len(row.Batting) > 0 {
		if err := sonic.Unmarshal(row.Batting, &out.Batting); err != nil {
			return analytics.PlayerSummaryDoc{}, false, fmt.Errorf("decode batting summary: %w", err)
		}
	}
	if len(row.Bowling) > 0 {
		if err := sonic.Unmarshal(row.Bowling, &out.Bowling); err != nil {
			return analytics.PlayerSummaryDoc{}, false, fmt.Errorf("decode bowling summary: %w", err)
		}
	}

	return out, true, nil
}
