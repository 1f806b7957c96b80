package team

import "context"

// Repository describes team persistence needs from use cases.
//
// Ensure must be atomic on the normalized name key: two callers racing on
// the same never-seen name must converge on one record. The postgres
// implementation relies on a unique index plus ON CONFLICT; the memory
// implementation serializes under its lock.
type Repository interface {
	GetByID(ctx context.Context, teamID string) (Team, bool, error)
	FindByName(ctx context.Context, name string) (Team, bool, error)
	Ensure(ctx context.Context, item Team) (Team, bool, error)
}
