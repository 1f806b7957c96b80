package usecase

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/willowlytics/cricketstats/internal/domain/match"
	"github.com/willowlytics/cricketstats/internal/domain/performance"
	"github.com/willowlytics/cricketstats/internal/domain/player"
	"github.com/willowlytics/cricketstats/internal/domain/team"
	"github.com/willowlytics/cricketstats/internal/ingest/cricsheet"
	idgen "github.com/willowlytics/cricketstats/internal/platform/id"
	"github.com/willowlytics/cricketstats/internal/platform/logging"
)

var matchDateLayouts = []string{"2006-01-02", "2006/01/02"}

// MatchNormalizer turns one raw source match into a canonical Match plus
// its Performance records, resolving every named reference through the
// EntityResolver. A malformed delivery is skipped with a warning; a
// malformed match-level field (date, toss, teams) fails the whole match
// and nothing is persisted for it.
type MatchNormalizer struct {
	resolver *EntityResolver
	ids      idgen.Generator
	logger   *logging.Logger
}

func NewMatchNormalizer(resolver *EntityResolver, ids idgen.Generator, logger *logging.Logger) *MatchNormalizer {
	if logger == nil {
		logger = logging.Default()
	}
	return &MatchNormalizer{resolver: resolver, ids: ids, logger: logger}
}

// EntityCounts tallies how many entities a normalization run created, for
// ingestion statistics.
type EntityCounts struct {
	Teams   int
	Venues  int
	Players int
}

func (c *EntityCounts) add(other EntityCounts) {
	c.Teams += other.Teams
	c.Venues += other.Venues
	c.Players += other.Players
}

// NormalizeResult is a fully resolved match ready to persist.
type NormalizeResult struct {
	Match             match.Match
	Performances      []performance.Performance
	Created           EntityCounts
	DeliveriesSkipped int
}

func (n *MatchNormalizer) Normalize(ctx context.Context, raw cricsheet.RawMatch) (NormalizeResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchNormalizer.Normalize")
	defer span.End()

	var result NormalizeResult

	teamNames := normalizedTeamNames(raw.Info.Teams)
	if len(teamNames) != 2 {
		return NormalizeResult{}, fmt.Errorf("%w: source must name exactly two teams, got %d", ErrInvalidInput, len(teamNames))
	}

	date, err := parseMatchDate(raw.Info.Dates)
	if err != nil {
		return NormalizeResult{}, err
	}

	toss, err := buildToss(raw.Info, teamNames)
	if err != nil {
		return NormalizeResult{}, err
	}

	// Resolve the two sides in source order. Index 0 carries no home/away
	// meaning beyond that order.
	teamIDByKey := make(map[string]string, 2)
	teamIDs := make([]string, 0, 2)
	for _, name := range teamNames {
		resolved, created, err := n.resolver.ResolveTeam(ctx, name)
		if err != nil {
			return NormalizeResult{}, err
		}
		if created {
			result.Created.Teams++
		}
		teamIDByKey[team.NameKey(name)] = resolved.ID
		teamIDs = append(teamIDs, resolved.ID)
	}

	resolvedVenue, created, err := n.resolver.ResolveVenue(ctx, venueNameOrDefault(raw.Info.Venue), raw.Info.City)
	if err != nil {
		return NormalizeResult{}, err
	}
	if created {
		result.Created.Venues++
	}

	matchID, err := n.matchID(raw.Info)
	if err != nil {
		return NormalizeResult{}, err
	}

	players, err := n.resolvePlayers(ctx, raw, teamNames, &result.Created)
	if err != nil {
		return NormalizeResult{}, err
	}

	now := time.Now().UTC()
	performances, skipped := n.buildPerformances(raw, matchID, teamIDByKey, players, now)
	result.Performances = performances
	result.DeliveriesSkipped = skipped

	doc := match.Match{
		ID:            matchID,
		Date:          date,
		Tournament:    tournamentOrDefault(raw.Info.EventName),
		Format:        formatOrDefault(raw.Info.MatchType),
		MatchNumber:   raw.Info.MatchNumber,
		Gender:        raw.Info.Gender,
		Season:        raw.Info.Season,
		VenueID:       resolvedVenue.ID,
		Teams:         buildTeamLines(teamIDs, performances),
		PlayerOfMatch: players.idFor(firstOrEmpty(raw.Info.PlayerOfMatch)),
		Officials: match.Officials{
			UmpireIDs:        players.idsFor(raw.Info.Umpires),
			ReserveUmpireIDs: players.idsFor(raw.Info.ReserveUmpires),
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if toss != nil {
		doc.Toss = &match.Toss{
			WinnerTeamID: teamIDByKey[team.NameKey(toss.winner)],
			Decision:     toss.decision,
		}
	}
	doc.Result = buildResult(raw.Info, teamIDByKey)

	if err := doc.Validate(); err != nil {
		return NormalizeResult{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	result.Match = doc
	return result, nil
}

// resolvedPlayers maps normalized player names to canonical IDs for one
// match.
type resolvedPlayers struct {
	byKey map[string]string
}

func (p resolvedPlayers) idFor(name string) string {
	return p.byKey[player.NameKey(name)]
}

func (p resolvedPlayers) idsFor(names []string) []string {
	var out []string
	for _, name := range names {
		if id := p.idFor(name); id != "" {
			out = append(out, id)
		}
	}
	return out
}

func (n *MatchNormalizer) resolvePlayers(
	ctx context.Context,
	raw cricsheet.RawMatch,
	teamNames []string,
	created *EntityCounts,
) (resolvedPlayers, error) {
	batted, bowled := participation(raw)

	players := resolvedPlayers{byKey: make(map[string]string)}
	resolve := func(name, country string) error {
		key := player.NameKey(name)
		if key == "" {
			return nil
		}
		if _, done := players.byKey[key]; done {
			return nil
		}
		resolved, wasCreated, err := n.resolver.ResolvePlayer(ctx, PlayerRef{
			Name:       name,
			RegistryID: raw.Info.Registry[player.NormalizeName(name)],
			Country:    country,
			Role:       observedRole(batted[key], bowled[key]),
		})
		if err != nil {
			return err
		}
		if wasCreated {
			created.Players++
		}
		players.byKey[key] = resolved.ID
		return nil
	}

	// Squads first, so squad members get their team affiliation.
	for _, teamName := range teamNames {
		for _, name := range squadFor(raw.Info.PlayersByTeam, teamName) {
			if err := resolve(name, teamName); err != nil {
				return resolvedPlayers{}, err
			}
		}
	}

	// Delivery participants outside the listed squads (CSV sources carry
	// no squad lists at all).
	for _, innings := range raw.Innings {
		for _, over := range innings.Overs {
			for _, d := range over.Deliveries {
				for _, name := range []string{d.Batter, d.Bowler, d.NonStriker} {
					if err := resolve(name, innings.Team); err != nil {
						return resolvedPlayers{}, err
					}
				}
				for _, w := range d.Wickets {
					if err := resolve(w.PlayerOut, innings.Team); err != nil {
						return resolvedPlayers{}, err
					}
					for _, fielder := range w.Fielders {
						if err := resolve(fielder, ""); err != nil {
							return resolvedPlayers{}, err
						}
					}
				}
			}
		}
	}

	// Officials and player-of-match may not appear in any squad.
	for _, name := range raw.Info.Umpires {
		if err := resolve(name, ""); err != nil {
			return resolvedPlayers{}, err
		}
	}
	for _, name := range raw.Info.ReserveUmpires {
		if err := resolve(name, ""); err != nil {
			return resolvedPlayers{}, err
		}
	}
	if name := firstOrEmpty(raw.Info.PlayerOfMatch); name != "" {
		if err := resolve(name, ""); err != nil {
			return resolvedPlayers{}, err
		}
	}

	return players, nil
}

func (n *MatchNormalizer) buildPerformances(
	raw cricsheet.RawMatch,
	matchID string,
	teamIDByKey map[string]string,
	players resolvedPlayers,
	now time.Time,
) ([]performance.Performance, int) {
	var out []performance.Performance
	skipped := 0

	for _, innings := range raw.Innings {
		teamID := teamIDByKey[team.NameKey(innings.Team)]
		if teamID == "" {
			n.logger.Warn("innings for unknown team skipped",
				"source", raw.SourceID, "team", innings.Team)
			continue
		}
		for _, over := range innings.Overs {
			for _, d := range over.Deliveries {
				if d.Runs == nil || d.Runs.Total == nil {
					skipped++
					n.logger.Warn("malformed delivery skipped",
						"source", raw.SourceID, "over", over.Over, "reason", ErrPartialRow)
					continue
				}

				p := performance.Performance{
					MatchID:      matchID,
					TeamID:       teamID,
					BatterID:     players.idFor(d.Batter),
					BowlerID:     players.idFor(d.Bowler),
					NonStrikerID: players.idFor(d.NonStriker),
					Over:         over.Over,
					Runs:         d.Runs.Batter,
					Extras:       buildExtras(d.Extras),
					TotalRuns:    *d.Runs.Total,
					CreatedAt:    now,
				}
				for _, w := range d.Wickets {
					p.Wickets = append(p.Wickets, performance.Wicket{
						PlayerOutID: players.idFor(w.PlayerOut),
						Kind:        w.Kind,
						FielderIDs:  players.idsFor(w.Fielders),
					})
				}
				out = append(out, p)
			}
		}
	}

	return out, skipped
}

// buildTeamLines derives each side's score, wickets and overs from the
// emitted performances. Overs uses cricket notation (completed.balls), not
// fractional division.
func buildTeamLines(teamIDs []string, performances []performance.Performance) []match.TeamInMatch {
	type tally struct {
		runs    int
		wickets int
		balls   int
	}
	tallies := make(map[string]*tally, len(teamIDs))
	for _, id := range teamIDs {
		tallies[id] = &tally{}
	}
	for _, p := range performances {
		t, ok := tallies[p.TeamID]
		if !ok {
			continue
		}
		t.runs += p.TotalRuns
		t.wickets += p.WicketCount()
		t.balls++
	}

	out := make([]match.TeamInMatch, 0, len(teamIDs))
	for _, id := range teamIDs {
		t := tallies[id]
		score, wickets := t.runs, t.wickets
		overs := match.OversFromBalls(t.balls)
		out = append(out, match.TeamInMatch{
			TeamID:  id,
			Score:   &score,
			Wickets: &wickets,
			Overs:   &overs,
		})
	}
	return out
}

func (n *MatchNormalizer) matchID(info cricsheet.RawInfo) (string, error) {
	if info.MatchTypeNumber != nil {
		return strconv.Itoa(*info.MatchTypeNumber), nil
	}
	if info.SourceMatchID != "" {
		return info.SourceMatchID, nil
	}
	minted, err := n.ids.NewID()
	if err != nil {
		return "", fmt.Errorf("mint match id: %w", err)
	}
	return minted, nil
}

type rawToss struct {
	winner   string
	decision string
}

func buildToss(info cricsheet.RawInfo, teamNames []string) (*rawToss, error) {
	winner := team.NormalizeName(info.TossWinner)
	if winner == "" {
		// CSV sources carry no toss; the match document simply omits it.
		return nil, nil
	}
	for _, name := range teamNames {
		if team.NameKey(name) == team.NameKey(winner) {
			return &rawToss{winner: winner, decision: info.TossDecision}, nil
		}
	}
	return nil, fmt.Errorf("%w: toss winner %q is not one of the two teams", ErrInconsistentToss, winner)
}

func buildResult(info cricsheet.RawInfo, teamIDByKey map[string]string) *match.Result {
	winnerID := teamIDByKey[team.NameKey(info.OutcomeWinner)]
	if winnerID == "" {
		return nil
	}
	result := &match.Result{WinnerTeamID: winnerID}
	switch {
	case info.ByRuns != nil:
		result.Margin = &match.Margin{Type: "runs", Value: *info.ByRuns}
	case info.ByWickets != nil:
		result.Margin = &match.Margin{Type: "wickets", Value: *info.ByWickets}
	}
	return result
}

func buildExtras(raw map[string]int) performance.Extras {
	return performance.Extras{
		Wides:   raw["wides"],
		NoBalls: raw["noballs"],
		Byes:    raw["byes"],
		LegByes: raw["legbyes"],
		Penalty: raw["penalty"],
	}
}

// participation returns which normalized player names batted and bowled
// across the whole match; role inference is match-wide, not per innings.
func participation(raw cricsheet.RawMatch) (batted, bowled map[string]bool) {
	batted = make(map[string]bool)
	bowled = make(map[string]bool)
	for _, innings := range raw.Innings {
		for _, over := range innings.Overs {
			for _, d := range over.Deliveries {
				if key := player.NameKey(d.Batter); key != "" {
					batted[key] = true
				}
				if key := player.NameKey(d.NonStriker); key != "" {
					batted[key] = true
				}
				if key := player.NameKey(d.Bowler); key != "" {
					bowled[key] = true
				}
			}
		}
	}
	return batted, bowled
}

func observedRole(batted, bowled bool) player.Role {
	switch {
	case batted && bowled:
		return player.RoleAllRounder
	case batted:
		return player.RoleBatsman
	case bowled:
		return player.RoleBowler
	default:
		return player.RoleUnknown
	}
}

func normalizedTeamNames(names []string) []string {
	seen := make(map[string]bool, len(names))
	var out []string
	for _, name := range names {
		normalized := team.NormalizeName(name)
		if normalized == "" {
			continue
		}
		key := team.NameKey(normalized)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, normalized)
	}
	return out
}

func parseMatchDate(dates []string) (time.Time, error) {
	raw := firstOrEmpty(dates)
	if raw == "" {
		return time.Time{}, fmt.Errorf("%w: source has no match date", ErrMalformedDate)
	}
	for _, layout := range matchDateLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: cannot parse %q", ErrMalformedDate, raw)
}

func squadFor(players map[string][]string, teamName string) []string {
	if players == nil {
		return nil
	}
	if squad, ok := players[teamName]; ok {
		return squad
	}
	// Source squad keys may differ from the normalized side name only in
	// spacing or case.
	want := team.NameKey(teamName)
	for key, squad := range players {
		if team.NameKey(key) == want {
			return squad
		}
	}
	return nil
}

func venueNameOrDefault(name string) string {
	if team.NormalizeName(name) == "" {
		return "Unknown"
	}
	return name
}

func tournamentOrDefault(name string) string {
	if name == "" {
		return "Unknown"
	}
	return name
}

func formatOrDefault(matchType string) string {
	switch matchType {
	case "Test", "test":
		return match.FormatTest
	case "ODI", "odi", "ODM":
		return match.FormatODI
	case "":
		return match.FormatT20
	default:
		return matchType
	}
}

func firstOrEmpty(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
