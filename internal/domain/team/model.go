package team

import (
	"fmt"
	"strings"
	"time"
)

// Team is a national or club side seen in ingested match data.
type Team struct {
	ID        string
	Name      string
	Country   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (t Team) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("team id is required")
	}
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("team name is required")
	}

	return nil
}

// NormalizeName collapses internal whitespace and trims the edges. The
// result is the display name stored on the record.
func NormalizeName(value string) string {
	return strings.Join(strings.Fields(value), " ")
}

// NameKey is the dedup key: normalized name, case-folded. Two source rows
// naming the same side differently only in casing or spacing resolve to
// the same team.
func NameKey(value string) string {
	return strings.ToLower(NormalizeName(value))
}
