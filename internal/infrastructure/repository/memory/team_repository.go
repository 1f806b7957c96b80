package memory

import (
	"context"
	"sync"

	"github.com/willowlytics/cricketstats/internal/domain/team"
)

type TeamRepository struct {
	mu        sync.RWMutex
	items     map[string]team.Team
	byNameKey map[string]string
}

func NewTeamRepository() *TeamRepository {
	return &TeamRepository{
		items:     make(map[string]team.Team),
		byNameKey: make(map[string]string),
	}
}

func (r *TeamRepository) GetByID(_ context.Context, teamID string) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.items[teamID]
	if !ok {
		return team.Team{}, false, nil
	}

	return t, true, nil
}

func (r *TeamRepository) FindByName(_ context.Context, name string) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byNameKey[team.NameKey(name)]
	if !ok {
		return team.Team{}, false, nil
	}

	return r.items[id], true, nil
}

func (r *TeamRepository) Ensure(_ context.Context, item team.Team) (team.Team, bool, error) {
	if err := item.Validate(); err != nil {
		return team.Team{}, false, err
	}

	key := team.NameKey(item.Name)

	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.byNameKey[key]; ok {
		return r.items[id], false, nil
	}

	r.items[item.ID] = item
	r.byNameKey[key] = item.ID

	return item, true, nil
}
