package match

import "context"

// Repository describes match persistence needs from use cases.
//
// Upsert replaces the whole document for an existing match ID, never
// merges. ListByTeam and ListIDsByVenue back the analytics read paths;
// venueID may be empty on ListByTeam to mean "any venue".
type Repository interface {
	GetByID(ctx context.Context, matchID string) (Match, bool, error)
	Upsert(ctx context.Context, item Match) error
	Delete(ctx context.Context, matchID string) error
	ListByTeam(ctx context.Context, teamID, venueID string) ([]Match, error)
	ListIDsByVenue(ctx context.Context, venueID string) ([]string, error)
}
