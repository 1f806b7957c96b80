// Package cricsheet reads Cricsheet-style ball-by-ball match sources (JSON
// or CSV) into a typed RawMatch. It is the only place in the codebase that
// touches the sources' stringly-typed, revision-varying field names; every
// field a source may omit is optional here and the normalizer decides what
// is fatal.
package cricsheet

// RawMatch is one match as read from a source file, before entity
// resolution.
type RawMatch struct {
	// SourceID identifies where the match came from (file path, plus a
	// row key for multi-match CSV files). Used in skip logs only.
	SourceID string

	Info    RawInfo
	Innings []RawInnings
}

type RawInfo struct {
	MatchTypeNumber *int
	// SourceMatchID is the source's own match key when it carries one
	// directly (CSV exports); used before minting when MatchTypeNumber is
	// absent.
	SourceMatchID   string
	Teams           []string
	Venue           string
	City            string
	Dates           []string
	EventName       string
	MatchNumber     *int
	MatchType       string
	Gender          string
	Season          string
	TossWinner      string
	TossDecision    string
	OutcomeWinner   string
	ByRuns          *int
	ByWickets       *int
	PlayerOfMatch   []string
	// PlayersByTeam lists each side's squad by name.
	PlayersByTeam map[string][]string
	// Registry maps player names to the source's stable people IDs.
	Registry       map[string]string
	Umpires        []string
	ReserveUmpires []string
}

type RawInnings struct {
	Team  string
	Overs []RawOver
}

type RawOver struct {
	Over       int
	Deliveries []RawDelivery
}

// RawDelivery is one ball. Runs is nil (or has a nil Total) when the row
// is malformed; such deliveries are skipped with a warning, never fatal.
type RawDelivery struct {
	Batter     string
	Bowler     string
	NonStriker string
	Runs       *RawRuns
	Extras     map[string]int
	Wickets    []RawWicket
}

type RawRuns struct {
	Batter int
	Extras int
	Total  *int
}

type RawWicket struct {
	PlayerOut string
	Kind      string
	Fielders  []string
}
