package performance

import "context"

// Repository describes delivery persistence needs from use cases.
//
// ReplaceForMatch deletes any existing deliveries for the match before
// inserting the new set, keeping match re-ingestion a full replacement.
// ListByPlayer returns deliveries where the player appears as batter or
// bowler, newest creation time first, for form windowing.
type Repository interface {
	ReplaceForMatch(ctx context.Context, matchID string, items []Performance) error
	DeleteByMatch(ctx context.Context, matchID string) error
	ListByMatch(ctx context.Context, matchID string) ([]Performance, error)
	ListByBatter(ctx context.Context, batterID string) ([]Performance, error)
	ListByBowler(ctx context.Context, bowlerID string) ([]Performance, error)
	ListByPlayer(ctx context.Context, playerID string) ([]Performance, error)
}
