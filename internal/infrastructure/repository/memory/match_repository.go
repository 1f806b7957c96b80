package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/willowlytics/cricketstats/internal/domain/match"
)

type MatchRepository struct {
	mu    sync.RWMutex
	items map[string]match.Match
}

func NewMatchRepository() *MatchRepository {
	return &MatchRepository{
		items: make(map[string]match.Match),
	}
}

func (r *MatchRepository) GetByID(_ context.Context, matchID string) (match.Match, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.items[matchID]
	if !ok {
		return match.Match{}, false, nil
	}

	return m, true, nil
}

func (r *MatchRepository) Upsert(_ context.Context, item match.Match) error {
	if err := item.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	r.items[item.ID] = item
	r.mu.Unlock()

	return nil
}

func (r *MatchRepository) Delete(_ context.Context, matchID string) error {
	r.mu.Lock()
	delete(r.items, matchID)
	r.mu.Unlock()

	return nil
}

func (r *MatchRepository) ListByTeam(_ context.Context, teamID, venueID string) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Match, 0)
	for _, m := range r.items {
		if !m.HasTeam(teamID) {
			continue
		}
		if venueID != "" && m.VenueID != venueID {
			continue
		}
		out = append(out, m)
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})

	return out, nil
}

func (r *MatchRepository) ListIDsByVenue(_ context.Context, venueID string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0)
	for id, m := range r.items {
		if m.VenueID == venueID {
			out = append(out, id)
		}
	}
	sort.Strings(out)

	return out, nil
}
