package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/willowlytics/cricketstats/internal/domain/player"
	qb "github.com/willowlytics/cricketstats/internal/platform/querybuilder"
)

type PlayerRepository struct {
	db *sqlx.DB
}

var playerSelectColumns = []string{
	"id",
	"name",
	"name_key",
	"country",
	"role",
	"batting_style",
	"bowling_style",
	"created_at",
	"updated_at",
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

func (r *PlayerRepository) GetByID(ctx context.Context, playerID string) (player.Player, bool, error) {
	return r.getOne(ctx, qb.Eq("id", playerID))
}

func (r *PlayerRepository) FindByName(ctx context.Context, name string) (player.Player, bool, error) {
	return r.getOne(ctx, qb.Eq("name_key", player.NameKey(name)))
}

func (r *PlayerRepository) getOne(ctx context.Context, cond qb.Condition) (player.Player, bool, error) {
	query, args, err := qb.Select(playerSelectColumns...).From("players").
		Where(cond).
		Limit(1).
		ToSQL()
	if err != nil {
		return player.Player{}, false, fmt.Errorf("build select player query: %w", err)
	}

	var row playerTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return player.Player{}, false, nil
		}
		return player.Player{}, false, markStoreErr(fmt.Errorf("select player: %w", err))
	}

	return row.toDomain(), true, nil
}

// Ensure inserts the player unless either the ID (source registry ID) or
// the normalized name already exists. A bare ON CONFLICT target cannot
// cover two distinct unique constraints, so this does DO NOTHING across
// all of them and re-reads whichever row won.
func (r *PlayerRepository) Ensure(ctx context.Context, item player.Player) (player.Player, bool, error) {
	if err := item.Validate(); err != nil {
		return player.Player{}, false, err
	}

	query, args, err := qb.InsertInto("players").
		Columns("id", "name", "name_key", "country", "role",
			"batting_style", "bowling_style", "created_at", "updated_at").
		Values(item.ID, item.Name, player.NameKey(item.Name), item.Country, string(item.Role),
			item.BattingStyle, item.BowlingStyle, item.CreatedAt, item.UpdatedAt).
		Suffix("ON CONFLICT DO NOTHING").
		ToSQL()
	if err != nil {
		return player.Player{}, false, fmt.Errorf("build insert player query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return player.Player{}, false, markStoreErr(fmt.Errorf("insert player: %w", err))
	}
	inserted, err := res.RowsAffected()
	if err != nil {
		return player.Player{}, false, fmt.Errorf("insert player rows affected: %w", err)
	}

	stored, found, err := r.GetByID(ctx, item.ID)
	if err != nil {
		return player.Player{}, false, err
	}
	if !found {
		stored, found, err = r.FindByName(ctx, item.Name)
		if err != nil {
			return player.Player{}, false, err
		}
		if !found {
			return player.Player{}, false, fmt.Errorf("player %q missing after ensure", item.Name)
		}
	}

	return stored, inserted == 1, nil
}

func (r *PlayerRepository) UpdateRole(ctx context.Context, playerID string, role player.Role) error {
	query, args, err := qb.Update("players").
		Set("role", string(role)).
		Set("updated_at", time.Now().UTC()).
		Where(qb.Eq("id", playerID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update player role query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return markStoreErr(fmt.Errorf("update player role: %w", err))
	}
	updated, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update player role rows affected: %w", err)
	}
	if updated == 0 {
		return fmt.Errorf("player %q not found", playerID)
	}

	return nil
}
