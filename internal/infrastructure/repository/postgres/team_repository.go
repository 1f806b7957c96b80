package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/willowlytics/cricketstats/internal/domain/team"
	qb "github.com/willowlytics/cricketstats/internal/platform/querybuilder"
)

type TeamRepository struct {
	db *sqlx.DB
}

var teamSelectColumns = []string{
	"id",
	"name",
	"name_key",
	"country",
	"created_at",
	"updated_at",
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID string) (team.Team, bool, error) {
	return r.getOne(ctx, qb.Eq("id", teamID))
}

func (r *TeamRepository) FindByName(ctx context.Context, name string) (team.Team, bool, error) {
	return r.getOne(ctx, qb.Eq("name_key", team.NameKey(name)))
}

func (r *TeamRepository) getOne(ctx context.Context, cond qb.Condition) (team.Team, bool, error) {
	query, args, err := qb.Select(teamSelectColumns...).From("teams").
		Where(cond).
		Limit(1).
		ToSQL()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build select team query: %w", err)
	}

	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, markStoreErr(fmt.Errorf("select team: %w", err))
	}

	return row.toDomain(), true, nil
}

// Ensure inserts the team unless a record with the same normalized name
// already exists, returning whichever record won. The unique index on
// name_key makes concurrent first sightings converge on one row.
func (r *TeamRepository) Ensure(ctx context.Context, item team.Team) (team.Team, bool, error) {
	if err := item.Validate(); err != nil {
		return team.Team{}, false, err
	}

	query, args, err := qb.InsertInto("teams").
		Columns("id", "name", "name_key", "country", "created_at", "updated_at").
		Values(item.ID, item.Name, team.NameKey(item.Name), item.Country, item.CreatedAt, item.UpdatedAt).
		Suffix("ON CONFLICT (name_key) DO NOTHING").
		ToSQL()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build insert team query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return team.Team{}, false, markStoreErr(fmt.Errorf("insert team: %w", err))
	}
	inserted, err := res.RowsAffected()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("insert team rows affected: %w", err)
	}

	stored, found, err := r.FindByName(ctx, item.Name)
	if err != nil {
		return team.Team{}, false, err
	}
	if !found {
		return team.Team{}, false, fmt.Errorf("team %q missing after ensure", item.Name)
	}

	return stored, inserted == 1, nil
}
