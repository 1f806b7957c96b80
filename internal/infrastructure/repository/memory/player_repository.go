package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/willowlytics/cricketstats/internal/domain/player"
)

type PlayerRepository struct {
	mu        sync.RWMutex
	items     map[string]player.Player
	byNameKey map[string]string
}

func NewPlayerRepository() *PlayerRepository {
	return &PlayerRepository{
		items:     make(map[string]player.Player),
		byNameKey: make(map[string]string),
	}
}

func (r *PlayerRepository) GetByID(_ context.Context, playerID string) (player.Player, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.items[playerID]
	if !ok {
		return player.Player{}, false, nil
	}

	return p, true, nil
}

func (r *PlayerRepository) FindByName(_ context.Context, name string) (player.Player, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byNameKey[player.NameKey(name)]
	if !ok {
		return player.Player{}, false, nil
	}

	return r.items[id], true, nil
}

func (r *PlayerRepository) Ensure(_ context.Context, item player.Player) (player.Player, bool, error) {
	if err := item.Validate(); err != nil {
		return player.Player{}, false, err
	}

	key := player.NameKey(item.Name)

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.items[item.ID]; ok {
		return existing, false, nil
	}
	if id, ok := r.byNameKey[key]; ok {
		return r.items[id], false, nil
	}

	r.items[item.ID] = item
	r.byNameKey[key] = item.ID

	return item, true, nil
}

func (r *PlayerRepository) UpdateRole(_ context.Context, playerID string, role player.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.items[playerID]
	if !ok {
		return fmt.Errorf("player %q not found", playerID)
	}

	p.Role = role
	p.UpdatedAt = time.Now().UTC()
	r.items[playerID] = p

	return nil
}
