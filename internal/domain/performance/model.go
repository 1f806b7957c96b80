package performance

import (
	"fmt"
	"time"
)

// Extras is the breakdown of non-batter runs on a delivery.
type Extras struct {
	Wides   int
	NoBalls int
	Byes    int
	LegByes int
	Penalty int
}

func (e Extras) Total() int {
	return e.Wides + e.NoBalls + e.Byes + e.LegByes + e.Penalty
}

// Wicket is one dismissal on a delivery. A single delivery can carry up to
// two (run-out plus obstruction), so Performance holds a slice.
type Wicket struct {
	PlayerOutID string
	Kind        string
	FielderIDs  []string
}

// Performance is one delivery (ball) of a match. There is no single
// natural key: no-balls and wides legitimately produce repeats of the same
// (match, over) position, so uniqueness is not an invariant. The records
// are owned by their match and only ever replaced wholesale with it.
type Performance struct {
	MatchID      string
	TeamID       string // batting team
	BatterID     string
	BowlerID     string
	NonStrikerID string
	Over         int
	Runs         int // batter runs off the delivery
	Extras       Extras
	TotalRuns    int
	Wickets      []Wicket
	CreatedAt    time.Time
}

func (p Performance) Validate() error {
	if p.MatchID == "" {
		return fmt.Errorf("performance match id is required")
	}
	if p.TeamID == "" {
		return fmt.Errorf("performance team id is required")
	}
	if p.Over < 0 {
		return fmt.Errorf("performance over cannot be negative")
	}
	if len(p.Wickets) > 2 {
		return fmt.Errorf("a delivery cannot dismiss more than two players")
	}

	return nil
}

// DismissedBatter reports whether this delivery dismissed the given
// player. Checking the wicket's player_out rather than mere presence of a
// wicket matters: a run-out can take the non-striker, which must not count
// as a dismissal against the facing batter's average.
func (p Performance) DismissedBatter(playerID string) bool {
	for _, w := range p.Wickets {
		if w.PlayerOutID == playerID {
			return true
		}
	}
	return false
}

// WicketCount is the number of dismissals on this delivery.
func (p Performance) WicketCount() int {
	return len(p.Wickets)
}
