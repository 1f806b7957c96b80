package match

import (
	"fmt"
	"strings"
	"time"
)

const (
	FormatTest = "Test"
	FormatODI  = "ODI"
	FormatT20  = "T20"
)

// TeamInMatch is one side's line in a match document. Score fields stay
// nil until derived from delivery data.
type TeamInMatch struct {
	TeamID  string
	Score   *int
	Wickets *int
	Overs   *float64
}

// Toss records the pre-match coin flip.
type Toss struct {
	WinnerTeamID string
	Decision     string // "bat" or "field"
}

// Margin is the winning margin, e.g. {runs, 37} or {wickets, 5}.
type Margin struct {
	Type  string
	Value int
}

// Result records the match outcome. WinnerTeamID is empty for no-result
// matches.
type Result struct {
	WinnerTeamID string
	Margin       *Margin
}

// Officials holds resolved umpire references.
type Officials struct {
	UmpireIDs        []string
	ReserveUmpireIDs []string
}

// Match is the canonical match document. ID is the source's natural key
// (match-type sequence number) and doubles as the idempotency key:
// re-ingesting the same ID replaces the whole document.
type Match struct {
	ID            string
	Date          time.Time
	Tournament    string
	Format        string
	MatchNumber   *int
	Gender        string
	Season        string
	VenueID       string
	Teams         []TeamInMatch
	Toss          *Toss
	Result        *Result
	PlayerOfMatch string
	Officials     Officials
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (m Match) Validate() error {
	if strings.TrimSpace(m.ID) == "" {
		return fmt.Errorf("match id is required")
	}
	if m.Date.IsZero() {
		return fmt.Errorf("match date is required")
	}
	if m.VenueID == "" {
		return fmt.Errorf("match venue id is required")
	}
	if len(m.Teams) != 2 {
		return fmt.Errorf("match must have exactly two teams, got %d", len(m.Teams))
	}
	for i, t := range m.Teams {
		if t.TeamID == "" {
			return fmt.Errorf("match team %d has no team id", i)
		}
	}

	return nil
}

// HasTeam reports whether the given team played in this match.
func (m Match) HasTeam(teamID string) bool {
	for _, t := range m.Teams {
		if t.TeamID == teamID {
			return true
		}
	}
	return false
}

// OversFromBalls converts a ball count to cricket overs notation:
// completed overs plus balls-in-current-over as the tenths digit.
// 7 balls is 1.1 overs, not 1.17. Bowling economy uses the fractional
// representation in the analytics package instead; the two are deliberately
// distinct.
func OversFromBalls(balls int) float64 {
	if balls <= 0 {
		return 0
	}
	return float64(balls/6) + float64(balls%6)/10
}
