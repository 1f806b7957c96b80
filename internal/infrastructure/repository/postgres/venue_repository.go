package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/willowlytics/cricketstats/internal/domain/venue"
	qb "github.com/willowlytics/cricketstats/internal/platform/querybuilder"
)

type VenueRepository struct {
	db *sqlx.DB
}

var venueSelectColumns = []string{
	"id",
	"name",
	"name_key",
	"city",
	"country",
	"pitch_type",
	"average_scores",
	"toss_stats",
	"created_at",
	"updated_at",
}

func NewVenueRepository(db *sqlx.DB) *VenueRepository {
	return &VenueRepository{db: db}
}

func (r *VenueRepository) GetByID(ctx context.Context, venueID string) (venue.Venue, bool, error) {
	return r.getOne(ctx, qb.Eq("id", venueID))
}

func (r *VenueRepository) FindByName(ctx context.Context, name string) (venue.Venue, bool, error) {
	return r.getOne(ctx, qb.Eq("name_key", venue.NameKey(name)))
}

func (r *VenueRepository) getOne(ctx context.Context, cond qb.Condition) (venue.Venue, bool, error) {
	query, args, err := qb.Select(venueSelectColumns...).From("venues").
		Where(cond).
		Limit(1).
		ToSQL()
	if err != nil {
		return venue.Venue{}, false, fmt.Errorf("build select venue query: %w", err)
	}

	var row venueTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return venue.Venue{}, false, nil
		}
		return venue.Venue{}, false, markStoreErr(fmt.Errorf("select venue: %w", err))
	}

	out, err := row.toDomain()
	if err != nil {
		return venue.Venue{}, false, err
	}

	return out, true, nil
}

func (r *VenueRepository) Ensure(ctx context.Context, item venue.Venue) (venue.Venue, bool, error) {
	if err := item.Validate(); err != nil {
		return venue.Venue{}, false, err
	}

	averageScores, err := encodeScoreMap(item.AverageScores)
	if err != nil {
		return venue.Venue{}, false, fmt.Errorf("encode venue average scores: %w", err)
	}
	tossStats, err := encodeScoreMap(item.TossStats)
	if err != nil {
		return venue.Venue{}, false, fmt.Errorf("encode venue toss stats: %w", err)
	}

	query, args, err := qb.InsertInto("venues").
		Columns("id", "name", "name_key", "city", "country", "pitch_type",
			"average_scores", "toss_stats", "created_at", "updated_at").
		Values(item.ID, item.Name, venue.NameKey(item.Name), item.City, item.Country, item.PitchType,
			averageScores, tossStats, item.CreatedAt, item.UpdatedAt).
		Suffix("ON CONFLICT (name_key) DO NOTHING").
		ToSQL()
	if err != nil {
		return venue.Venue{}, false, fmt.Errorf("build insert venue query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return venue.Venue{}, false, markStoreErr(fmt.Errorf("insert venue: %w", err))
	}
	inserted, err := res.RowsAffected()
	if err != nil {
		return venue.Venue{}, false, fmt.Errorf("insert venue rows affected: %w", err)
	}

	stored, found, err := r.FindByName(ctx, item.Name)
	if err != nil {
		return venue.Venue{}, false, err
	}
	if !found {
		return venue.Venue{}, false, fmt.Errorf("venue %q missing after ensure", item.Name)
	}

	return stored, inserted == 1, nil
}
