package player

import (
	"fmt"
	"strings"
	"time"
)

// Role classifies how a player has been observed participating.
type Role string

const (
	RoleBatsman    Role = "batsman"
	RoleBowler     Role = "bowler"
	RoleAllRounder Role = "all-rounder"
	RoleUnknown    Role = ""
)

// StyleUnknown is the placeholder for batting/bowling styles the source
// does not carry.
const StyleUnknown = "NA"

// Player is an individual seen in ingested match data. ID comes from the
// source registry when available, otherwise it is minted locally.
type Player struct {
	ID           string
	Name         string
	Country      string
	Role         Role
	BattingStyle string
	BowlingStyle string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (p Player) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("player id is required")
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("player name is required")
	}
	switch p.Role {
	case RoleBatsman, RoleBowler, RoleAllRounder, RoleUnknown:
	default:
		return fmt.Errorf("invalid player role: %s", p.Role)
	}

	return nil
}

func NormalizeName(value string) string {
	return strings.Join(strings.Fields(value), " ")
}

func NameKey(value string) string {
	return strings.ToLower(NormalizeName(value))
}

// MergeRole widens a stored role with newly observed participation. Roles
// only ever widen: a known all-rounder is never downgraded because a later
// match only shows one discipline, and batsman/bowler upgrade to
// all-rounder once the other discipline is observed.
func MergeRole(current, observed Role) Role {
	if observed == RoleUnknown {
		return current
	}
	switch current {
	case RoleUnknown:
		return observed
	case RoleAllRounder:
		return RoleAllRounder
	case observed:
		return current
	default:
		// batsman + bowler in either order
		return RoleAllRounder
	}
}
