package memory

import (
	"context"
	"sync"

	"github.com/willowlytics/cricketstats/internal/domain/analytics"
)

type AnalyticsRepository struct {
	mu       sync.RWMutex
	items    map[string]analytics.MatchAnalytics
	teamDocs map[string]analytics.TeamPerformanceDoc
	playDocs map[string]analytics.PlayerSummaryDoc
}

func NewAnalyticsRepository() *AnalyticsRepository {
	return &AnalyticsRepository{
		items:    make(map[string]analytics.MatchAnalytics),
		teamDocs: make(map[string]analytics.TeamPerformanceDoc),
		playDocs: make(map[string]analytics.PlayerSummaryDoc),
	}
}

// scopedKey keys the summary views: one document per (entity, venue) pair.
func scopedKey(entityID, venueID string) string {
	return entityID + "\x00" + venueID
}

func (r *AnalyticsRepository) SaveMatchAnalytics(_ context.Context, item analytics.MatchAnalytics) error {
	r.mu.Lock()
	r.items[item.MatchID] = item
	r.mu.Unlock()

	return nil
}

func (r *AnalyticsRepository) GetMatchAnalytics(_ context.Context, matchID string) (analytics.MatchAnalytics, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[matchID]
	if !ok {
		return analytics.MatchAnalytics{}, false, nil
	}

	return item, true, nil
}

func (r *AnalyticsRepository) DeleteMatchAnalytics(_ context.Context, matchID string) error {
	r.mu.Lock()
	delete(r.items, matchID)
	r.mu.Unlock()

	return nil
}

func (r *AnalyticsRepository) SaveTeamPerformance(_ context.Context, item analytics.TeamPerformanceDoc) error {
	r.mu.Lock()
	r.teamDocs[scopedKey(item.TeamID, item.VenueID)] = item
	r.mu.Unlock()

	return nil
}

func (r *AnalyticsRepository) GetTeamPerformance(_ context.Context, teamID, venueID string) (analytics.TeamPerformanceDoc, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.teamDocs[scopedKey(teamID, venueID)]
	if !ok {
		return analytics.TeamPerformanceDoc{}, false, nil
	}

	return item, true, nil
}

func (r *AnalyticsRepository) SavePlayerSummary(_ context.Context, item analytics.PlayerSummaryDoc) error {
	r.mu.Lock()
	r.playDocs[scopedKey(item.PlayerID, item.VenueID)] = item
	r.mu.Unlock()

	return nil
}

func (r *AnalyticsRepository) GetPlayerSummary(_ context.Context, playerID, venueID string) (analytics.PlayerSummaryDoc, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.playDocs[scopedKey(playerID, venueID)]
	if !ok {
		return analytics.PlayerSummaryDoc{}, false, nil
	}

	return item, true, nil
}
