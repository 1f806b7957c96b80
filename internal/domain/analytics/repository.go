package analytics

import "context"

// Repository persists regenerable derived documents: collapse reports per
// match, plus team and player summary views. Derived documents are views,
// never sources of truth; callers may drop and rebuild them freely.
type Repository interface {
	SaveMatchAnalytics(ctx context.Context, item MatchAnalytics) error
	GetMatchAnalytics(ctx context.Context, matchID string) (MatchAnalytics, bool, error)
	DeleteMatchAnalytics(ctx context.Context, matchID string) error

	SaveTeamPerformance(ctx context.Context, item TeamPerformanceDoc) error
	GetTeamPerformance(ctx context.Context, teamID, venueID string) (TeamPerformanceDoc, bool, error)

	SavePlayerSummary(ctx context.Context, item PlayerSummaryDoc) error
	GetPlayerSummary(ctx context.Context, playerID, venueID string) (PlayerSummaryDoc, bool, error)
}
