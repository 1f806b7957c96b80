package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/willowlytics/cricketstats/internal/domain/match"
	qb "github.com/willowlytics/cricketstats/internal/platform/querybuilder"
)

type MatchRepository struct {
	db *sqlx.DB
}

var matchSelectColumns = []string{
	"id",
	"match_date",
	"tournament",
	"format",
	"match_number",
	"gender",
	"season",
	"venue_id",
	"teams",
	"toss",
	"result",
	"player_of_match",
	"officials",
	"created_at",
	"updated_at",
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) GetByID(ctx context.Context, matchID string) (match.Match, bool, error) {
	query, args, err := qb.Select(matchSelectColumns...).From("matches").
		Where(qb.Eq("id", matchID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return match.Match{}, false, fmt.Errorf("build select match query: %w", err)
	}

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, markStoreErr(fmt.Errorf("select match: %w", err))
	}

	out, err := row.toDomain()
	if err != nil {
		return match.Match{}, false, err
	}

	return out, true, nil
}

// Upsert writes the whole match document, replacing every column of an
// existing row. Re-ingestion never merges with the previous revision.
func (r *MatchRepository) Upsert(ctx context.Context, item match.Match) error {
	if err := item.Validate(); err != nil {
		return err
	}

	row, err := matchToTableModel(item)
	if err != nil {
		return err
	}

	query, args, err := qb.InsertInto("matches").
		Columns(matchSelectColumns...).
		Values(row.ID, row.Date, row.Tournament, row.Format, row.MatchNumber,
			row.Gender, row.Season, row.VenueID, row.Teams, row.Toss, row.Result,
			row.PlayerOfMatch, row.Officials, row.CreatedAt, row.UpdatedAt).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			match_date = EXCLUDED.match_date,
			tournament = EXCLUDED.tournament,
			format = EXCLUDED.format,
			match_number = EXCLUDED.match_number,
			gender = EXCLUDED.gender,
			season = EXCLUDED.season,
			venue_id = EXCLUDED.venue_id,
			teams = EXCLUDED.teams,
			toss = EXCLUDED.toss,
			result = EXCLUDED.result,
			player_of_match = EXCLUDED.player_of_match,
			officials = EXCLUDED.officials,
			updated_at = EXCLUDED.updated_at`).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build upsert match query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return markStoreErr(fmt.Errorf("upsert match: %w", err))
	}

	return nil
}

func (r *MatchRepository) Delete(ctx context.Context, matchID string) error {
	query, args, err := qb.DeleteFrom("matches").
		Where(qb.Eq("id", matchID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete match query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return markStoreErr(fmt.Errorf("delete match: %w", err))
	}

	return nil
}

func (r *MatchRepository) ListByTeam(ctx context.Context, teamID, venueID string) ([]match.Match, error) {
	conditions := []qb.Condition{
		qb.Expr("teams @> ?::jsonb", fmt.Sprintf(`[{"team_id":%q}]`, teamID)),
	}
	if venueID != "" {
		conditions = append(conditions, qb.Eq("venue_id", venueID))
	}

	query, args, err := qb.Select(matchSelectColumns...).From("matches").
		Where(conditions...).
		OrderBy("match_date", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select matches by team query: %w", err)
	}

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, markStoreErr(fmt.Errorf("select matches by team: %w", err))
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		m, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}

	return out, nil
}

func (r *MatchRepository) ListIDsByVenue(ctx context.Context, venueID string) ([]string, error) {
	query, args, err := qb.Select("id").From("matches").
		Where(qb.Eq("venue_id", venueID)).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select match ids by venue query: %w", err)
	}

	var out []string
	if err := r.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, markStoreErr(fmt.Errorf("select match ids by venue: %w", err))
	}

	return out, nil
}
