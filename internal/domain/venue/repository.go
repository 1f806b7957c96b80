package venue

import "context"

// Repository describes venue persistence needs from use cases. Ensure has
// the same atomicity contract as the team repository: unique on the
// normalized name key.
type Repository interface {
	GetByID(ctx context.Context, venueID string) (Venue, bool, error)
	FindByName(ctx context.Context, name string) (Venue, bool, error)
	Ensure(ctx context.Context, item Venue) (Venue, bool, error)
}
