package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/willowlytics/cricketstats/internal/domain/performance"
)

type PerformanceRepository struct {
	mu      sync.RWMutex
	byMatch map[string][]performance.Performance
}

func NewPerformanceRepository() *PerformanceRepository {
	return &PerformanceRepository{
		byMatch: make(map[string][]performance.Performance),
	}
}

func (r *PerformanceRepository) ReplaceForMatch(_ context.Context, matchID string, items []performance.Performance) error {
	stored := make([]performance.Performance, len(items))
	copy(stored, items)

	r.mu.Lock()
	r.byMatch[matchID] = stored
	r.mu.Unlock()

	return nil
}

func (r *PerformanceRepository) DeleteByMatch(_ context.Context, matchID string) error {
	r.mu.Lock()
	delete(r.byMatch, matchID)
	r.mu.Unlock()

	return nil
}

func (r *PerformanceRepository) ListByMatch(_ context.Context, matchID string) ([]performance.Performance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.byMatch[matchID]
	out := make([]performance.Performance, len(stored))
	copy(out, stored)

	return out, nil
}

func (r *PerformanceRepository) ListByBatter(_ context.Context, batterID string) ([]performance.Performance, error) {
	return r.list(func(p performance.Performance) bool {
		return p.BatterID == batterID
	}, false), nil
}

func (r *PerformanceRepository) ListByBowler(_ context.Context, bowlerID string) ([]performance.Performance, error) {
	return r.list(func(p performance.Performance) bool {
		return p.BowlerID == bowlerID
	}, false), nil
}

func (r *PerformanceRepository) ListByPlayer(_ context.Context, playerID string) ([]performance.Performance, error) {
	return r.list(func(p performance.Performance) bool {
		return p.BatterID == playerID || p.BowlerID == playerID
	}, true), nil
}

func (r *PerformanceRepository) list(keep func(performance.Performance) bool, newestFirst bool) []performance.Performance {
	r.mu.RLock()
	out := make([]performance.Performance, 0)
	for _, stored := range r.byMatch {
		for _, p := range stored {
			if keep(p) {
				out = append(out, p)
			}
		}
	}
	r.mu.RUnlock()

	if newestFirst {
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		})
	}

	return out
}
