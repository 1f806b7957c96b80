package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/willowlytics/cricketstats/internal/domain/player"
	"github.com/willowlytics/cricketstats/internal/domain/team"
	"github.com/willowlytics/cricketstats/internal/domain/venue"
	idgen "github.com/willowlytics/cricketstats/internal/platform/id"
	"github.com/willowlytics/cricketstats/internal/platform/logging"
)

// EntityResolver turns name references from source data into canonical
// entity IDs, minting and persisting new records on first sighting. It is
// the only component allowed to create teams, venues or players.
//
// Two resolutions racing on the same never-seen name may both miss the
// read path and both attempt an insert; the repositories' Ensure contract
// (a storage-level uniqueness constraint on the normalized name) is the
// correctness boundary, not any in-process lock.
type EntityResolver struct {
	teams   team.Repository
	venues  venue.Repository
	players player.Repository
	ids     idgen.Generator
	logger  *logging.Logger
}

func NewEntityResolver(
	teams team.Repository,
	venues venue.Repository,
	players player.Repository,
	ids idgen.Generator,
	logger *logging.Logger,
) *EntityResolver {
	if logger == nil {
		logger = logging.Default()
	}
	return &EntityResolver{
		teams:   teams,
		venues:  venues,
		players: players,
		ids:     ids,
		logger:  logger,
	}
}

func (r *EntityResolver) ResolveTeam(ctx context.Context, name string) (team.Team, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EntityResolver.ResolveTeam")
	defer span.End()

	name = team.NormalizeName(name)
	if name == "" {
		return team.Team{}, false, fmt.Errorf("%w: team name is empty", ErrInvalidReference)
	}

	if existing, ok, err := r.teams.FindByName(ctx, name); err != nil {
		return team.Team{}, false, fmt.Errorf("find team by name: %w", err)
	} else if ok {
		return existing, false, nil
	}

	newID, err := r.ids.NewID()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("mint team id: %w", err)
	}

	now := time.Now().UTC()
	candidate := team.Team{
		ID:   newID,
		Name: name,
		// Sources carry no separate country field for sides; national
		// teams are named after their country.
		Country:   name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	resolved, created, err := r.teams.Ensure(ctx, candidate)
	if err != nil {
		return team.Team{}, false, fmt.Errorf("ensure team %q: %w", name, err)
	}
	if created {
		r.logger.DebugContext(ctx, "team created", "team_id", resolved.ID, "name", resolved.Name)
	}
	return resolved, created, nil
}

func (r *EntityResolver) ResolveVenue(ctx context.Context, name, city string) (venue.Venue, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EntityResolver.ResolveVenue")
	defer span.End()

	name = venue.NormalizeName(name)
	if name == "" {
		return venue.Venue{}, false, fmt.Errorf("%w: venue name is empty", ErrInvalidReference)
	}

	if existing, ok, err := r.venues.FindByName(ctx, name); err != nil {
		return venue.Venue{}, false, fmt.Errorf("find venue by name: %w", err)
	} else if ok {
		return existing, false, nil
	}

	newID, err := r.ids.NewID()
	if err != nil {
		return venue.Venue{}, false, fmt.Errorf("mint venue id: %w", err)
	}

	now := time.Now().UTC()
	candidate := venue.Venue{
		ID:            newID,
		Name:          name,
		City:          strings.TrimSpace(city),
		Country:       venue.CountryForCity(city),
		AverageScores: map[string]float64{},
		TossStats:     map[string]float64{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	resolved, created, err := r.venues.Ensure(ctx, candidate)
	if err != nil {
		return venue.Venue{}, false, fmt.Errorf("ensure venue %q: %w", name, err)
	}
	if created {
		r.logger.DebugContext(ctx, "venue created", "venue_id", resolved.ID, "name", resolved.Name)
	}
	return resolved, created, nil
}

// PlayerRef is one named player reference from source data. RegistryID is
// the source's stable people ID when the source carries a registry;
// without it the player dedups on normalized name.
type PlayerRef struct {
	Name       string
	RegistryID string
	Country    string
	Role       player.Role
}

func (r *EntityResolver) ResolvePlayer(ctx context.Context, ref PlayerRef) (player.Player, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EntityResolver.ResolvePlayer")
	defer span.End()

	name := player.NormalizeName(ref.Name)
	if name == "" {
		return player.Player{}, false, fmt.Errorf("%w: player name is empty", ErrInvalidReference)
	}

	registryID := strings.TrimSpace(ref.RegistryID)
	existing, ok, err := r.lookupPlayer(ctx, registryID, name)
	if err != nil {
		return player.Player{}, false, err
	}
	if ok {
		return r.widenRole(ctx, existing, ref.Role)
	}

	playerID := registryID
	if playerID == "" {
		playerID, err = r.ids.NewID()
		if err != nil {
			return player.Player{}, false, fmt.Errorf("mint player id: %w", err)
		}
	}

	now := time.Now().UTC()
	candidate := player.Player{
		ID:           playerID,
		Name:         name,
		Country:      strings.TrimSpace(ref.Country),
		Role:         ref.Role,
		BattingStyle: player.StyleUnknown,
		BowlingStyle: player.StyleUnknown,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	resolved, created, err := r.players.Ensure(ctx, candidate)
	if err != nil {
		return player.Player{}, false, fmt.Errorf("ensure player %q: %w", name, err)
	}
	if created {
		r.logger.DebugContext(ctx, "player created",
			"player_id", resolved.ID, "name", resolved.Name, "role", string(resolved.Role))
		return resolved, true, nil
	}
	// Lost the insert race; fold the observed role into the winner.
	return r.widenRole(ctx, resolved, ref.Role)
}

func (r *EntityResolver) lookupPlayer(ctx context.Context, registryID, name string) (player.Player, bool, error) {
	if registryID != "" {
		existing, ok, err := r.players.GetByID(ctx, registryID)
		if err != nil {
			return player.Player{}, false, fmt.Errorf("get player by id: %w", err)
		}
		return existing, ok, nil
	}

	existing, ok, err := r.players.FindByName(ctx, name)
	if err != nil {
		return player.Player{}, false, fmt.Errorf("find player by name: %w", err)
	}
	return existing, ok, nil
}

// widenRole persists a widened role for an existing player. Roles only
// ever widen (see player.MergeRole), so a known all-rounder is never
// downgraded by a match in which they only batted.
func (r *EntityResolver) widenRole(ctx context.Context, existing player.Player, observed player.Role) (player.Player, bool, error) {
	merged := player.MergeRole(existing.Role, observed)
	if merged == existing.Role {
		return existing, false, nil
	}
	if err := r.players.UpdateRole(ctx, existing.ID, merged); err != nil {
		return player.Player{}, false, fmt.Errorf("update player role: %w", err)
	}
	r.logger.DebugContext(ctx, "player role widened",
		"player_id", existing.ID, "from", string(existing.Role), "to", string(merged))
	existing.Role = merged
	return existing, false, nil
}
