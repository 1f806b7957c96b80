package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/willowlytics/cricketstats/internal/domain/performance"
	qb "github.com/willowlytics/cricketstats/internal/platform/querybuilder"
)

type PerformanceRepository struct {
	db *sqlx.DB
}

var performanceSelectColumns = []string{
	"id",
	"match_id",
	"team_id",
	"batter_id",
	"bowler_id",
	"non_striker_id",
	"over_number",
	"runs",
	"extras",
	"total_runs",
	"wickets",
	"created_at",
}

var performanceInsertColumns = []string{
	"match_id",
	"team_id",
	"batter_id",
	"bowler_id",
	"non_striker_id",
	"over_number",
	"runs",
	"extras",
	"total_runs",
	"wickets",
	"created_at",
}

func NewPerformanceRepository(db *sqlx.DB) *PerformanceRepository {
	return &PerformanceRepository{db: db}
}

// ReplaceForMatch swaps a match's delivery set in one transaction, so
// readers never see a half-replaced match.
func (r *PerformanceRepository) ReplaceForMatch(ctx context.Context, matchID string, items []performance.Performance) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return markStoreErr(fmt.Errorf("begin replace deliveries tx: %w", err))
	}
	defer func() {
		_ = tx.Rollback()
	}()

	deleteQuery, deleteArgs, err := qb.DeleteFrom("performances").
		Where(qb.Eq("match_id", matchID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete deliveries query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return markStoreErr(fmt.Errorf("delete deliveries: %w", err))
	}

	if len(items) > 0 {
		builder := qb.InsertInto("performances").Columns(performanceInsertColumns...)
		for _, item := range items {
			extras, wickets, err := encodePerformance(item)
			if err != nil {
				return err
			}
			builder.Values(item.MatchID, item.TeamID, item.BatterID, item.BowlerID,
				item.NonStrikerID, item.Over, item.Runs, extras, item.TotalRuns,
				wickets, item.CreatedAt)
		}

		insertQuery, insertArgs, err := builder.ToSQL()
		if err != nil {
			return fmt.Errorf("build insert deliveries query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
			return markStoreErr(fmt.Errorf("insert deliveries: %w", err))
		}
	}

	if err := tx.Commit(); err != nil {
		return markStoreErr(fmt.Errorf("commit replace deliveries tx: %w", err))
	}

	return nil
}

func (r *PerformanceRepository) DeleteByMatch(ctx context.Context, matchID string) error {
	query, args, err := qb.DeleteFrom("performances").
		Where(qb.Eq("match_id", matchID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete deliveries query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return markStoreErr(fmt.Errorf("delete deliveries: %w", err))
	}

	return nil
}

func (r *PerformanceRepository) ListByMatch(ctx context.Context, matchID string) ([]performance.Performance, error) {
	return r.list(ctx, []qb.Condition{qb.Eq("match_id", matchID)}, "id")
}

func (r *PerformanceRepository) ListByBatter(ctx context.Context, batterID string) ([]performance.Performance, error) {
	return r.list(ctx, []qb.Condition{qb.Eq("batter_id", batterID)}, "id")
}

func (r *PerformanceRepository) ListByBowler(ctx context.Context, bowlerID string) ([]performance.Performance, error) {
	return r.list(ctx, []qb.Condition{qb.Eq("bowler_id", bowlerID)}, "id")
}

func (r *PerformanceRepository) ListByPlayer(ctx context.Context, playerID string) ([]performance.Performance, error) {
	conditions := []qb.Condition{
		qb.Expr("(batter_id = ? OR bowler_id = ?)", playerID, playerID),
	}
	// Newest first for form windowing.
	return r.list(ctx, conditions, "created_at DESC", "id DESC")
}

func (r *PerformanceRepository) list(ctx context.Context, conditions []qb.Condition, orderBy ...string) ([]performance.Performance, error) {
	query, args, err := qb.Select(performanceSelectColumns...).From("performances").
		Where(conditions...).
		OrderBy(orderBy...).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select deliveries query: %w", err)
	}

	var rows []performanceTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, markStoreErr(fmt.Errorf("select deliveries: %w", err))
	}

	out := make([]performance.Performance, 0, len(rows))
	for _, row := range rows {
		p, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}

	return out, nil
}
