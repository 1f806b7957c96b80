package memory

import (
	"context"
	"sync"

	"github.com/willowlytics/cricketstats/internal/domain/venue"
)

type VenueRepository struct {
	mu        sync.RWMutex
	items     map[string]venue.Venue
	byNameKey map[string]string
}

func NewVenueRepository() *VenueRepository {
	return &VenueRepository{
		items:     make(map[string]venue.Venue),
		byNameKey: make(map[string]string),
	}
}

func (r *VenueRepository) GetByID(_ context.Context, venueID string) (venue.Venue, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.items[venueID]
	if !ok {
		return venue.Venue{}, false, nil
	}

	return v, true, nil
}

func (r *VenueRepository) FindByName(_ context.Context, name string) (venue.Venue, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byNameKey[venue.NameKey(name)]
	if !ok {
		return venue.Venue{}, false, nil
	}

	return r.items[id], true, nil
}

func (r *VenueRepository) Ensure(_ context.Context, item venue.Venue) (venue.Venue, bool, error) {
	if err := item.Validate(); err != nil {
		return venue.Venue{}, false, err
	}

	key := venue.NameKey(item.Name)

	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.byNameKey[key]; ok {
		return r.items[id], false, nil
	}

	r.items[item.ID] = item
	r.byNameKey[key] = item.ID

	return item, true, nil
}
