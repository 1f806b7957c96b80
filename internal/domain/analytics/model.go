package analytics

import "time"

// BattingStats is the aggregate view of a batter's deliveries.
//
// Average follows the cricket convention for the not-out edge case: with
// zero dismissals it reports raw runs, not infinity. StrikeRate is 0 when
// no balls were faced.
type BattingStats struct {
	Average    float64 `json:"average"`
	StrikeRate float64 `json:"strike_rate"`
	Runs       int     `json:"runs"`
}

// BowlingStats is the aggregate view of a bowler's deliveries. Economy is
// runs conceded per fractional over (balls/6), not overs notation.
type BowlingStats struct {
	Economy float64 `json:"economy"`
	Wickets int     `json:"wickets"`
}

// TeamRecord is a team's win/loss ledger. Ties and no-results count as
// losses; there is no draw column.
type TeamRecord struct {
	MatchesPlayed int     `json:"matches_played"`
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	WinPercentage float64 `json:"win_percentage"`
}

// FormTrend is a player's batting form over their most recent matches.
type FormTrend struct {
	PlayerID         string  `json:"player_id"`
	Matches          int     `json:"matches"`
	RecentAverage    float64 `json:"recent_avg"`
	RecentStrikeRate float64 `json:"recent_strike_rate"`
}

// Collapse flags a two-over window in which a batting side lost wickets at
// or above the detection threshold. Overlapping windows are each reported.
type Collapse struct {
	TeamID      string `json:"team_id"`
	Overs       [2]int `json:"overs"`
	WicketsLost int    `json:"wickets_lost"`
}

// MatchAnalytics is the regenerable collapse report for one match. It is a
// view over performances, safe to delete and rebuild at any time.
type MatchAnalytics struct {
	MatchID     string     `json:"match_id"`
	Collapses   []Collapse `json:"collapses"`
	GeneratedAt time.Time  `json:"generated_at"`
}

// TeamPerformanceDoc is the persisted win/loss ledger for one team,
// optionally scoped to a venue. An empty VenueID means all venues. Like
// MatchAnalytics it is a regenerable view, rewritten on recomputation.
type TeamPerformanceDoc struct {
	TeamID      string     `json:"team_id"`
	VenueID     string     `json:"venue_id"`
	Record      TeamRecord `json:"record"`
	GeneratedAt time.Time  `json:"generated_at"`
}

// PlayerSummaryDoc is the persisted combined batting and bowling view of
// one player, optionally scoped to a venue.
type PlayerSummaryDoc struct {
	PlayerID    string       `json:"player_id"`
	VenueID     string       `json:"venue_id"`
	Batting     BattingStats `json:"batting"`
	Bowling     BowlingStats `json:"bowling"`
	GeneratedAt time.Time    `json:"generated_at"`
}

// DefaultCollapseThreshold is the combined wicket count over two adjacent
// overs at which a collapse is flagged.
const DefaultCollapseThreshold = 3

// OversDecimal converts balls bowled to fractional overs for economy
// calculations. Distinct on purpose from match.OversFromBalls, which uses
// cricket's overs notation; unifying the two would silently change
// reported economy figures.
func OversDecimal(balls int) float64 {
	return float64(balls) / 6
}
