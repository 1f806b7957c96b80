package player

import "context"

// Repository describes player persistence needs from use cases.
//
// Ensure is keyed on the player ID (source registry ID when present) and
// falls back to the normalized name key so that registry-less sources stay
// idempotent across ingestion runs. UpdateRole persists a widened role; it
// never narrows (see MergeRole).
type Repository interface {
	GetByID(ctx context.Context, playerID string) (Player, bool, error)
	FindByName(ctx context.Context, name string) (Player, bool, error)
	Ensure(ctx context.Context, item Player) (Player, bool, error)
	UpdateRole(ctx context.Context, playerID string, role Role) error
}
