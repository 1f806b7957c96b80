package cricsheet

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// ParseCSV reads a Cricsheet ball-by-ball CSV export. One file can hold
// several matches; rows are grouped by their match_id column in order of
// first appearance. Column order varies by export revision, so columns are
// located by header name and absent ones are tolerated.
func ParseCSV(sourceID string, r io.Reader) ([]RawMatch, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, errors.Wrapf(err, "read csv header %s", sourceID)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := cols["match_id"]; !ok {
		return nil, errors.Newf("csv %s has no match_id column", sourceID)
	}

	builders := make(map[string]*csvMatchBuilder)
	var order []string

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// A single unparsable row is not fatal; the rest of the file
			// may still hold valid deliveries.
			continue
		}

		row := csvRow{cols: cols, record: record}
		matchID := row.field("match_id")
		if matchID == "" {
			continue
		}

		b, ok := builders[matchID]
		if !ok {
			b = newCSVMatchBuilder(sourceID, matchID, row)
			builders[matchID] = b
			order = append(order, matchID)
		}
		b.addRow(row)
	}

	out := make([]RawMatch, 0, len(order))
	for _, matchID := range order {
		out = append(out, builders[matchID].build())
	}
	return out, nil
}

type csvRow struct {
	cols   map[string]int
	record []string
}

func (r csvRow) field(name string) string {
	idx, ok := r.cols[name]
	if !ok || idx >= len(r.record) {
		return ""
	}
	return strings.TrimSpace(r.record[idx])
}

func (r csvRow) intField(name string) (int, bool) {
	raw := r.field(name)
	if raw == "" {
		return 0, false
	}
	// Cricsheet CSV encodes counts as plain or float-formatted integers.
	if v, err := strconv.Atoi(raw); err == nil {
		return v, true
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return int(f), true
	}
	return 0, false
}

type csvMatchBuilder struct {
	sourceID string
	matchID  string
	info     RawInfo

	teamOrder []string
	innings   map[string]*RawInnings // keyed by batting team
}

func newCSVMatchBuilder(sourceID, matchID string, row csvRow) *csvMatchBuilder {
	b := &csvMatchBuilder{
		sourceID: sourceID + "#" + matchID,
		matchID:  matchID,
		innings:  make(map[string]*RawInnings),
	}
	b.info.Venue = row.field("venue")
	b.info.Season = row.field("season")
	if date := row.field("start_date"); date != "" {
		b.info.Dates = []string{date}
	}
	// CSV natural keys already identify the match; reuse them as the
	// match-type number substitute by leaving MatchTypeNumber nil and
	// letting the normalizer fall back to the source match id.
	b.info.SourceMatchID = matchID
	return b
}

func (b *csvMatchBuilder) addRow(row csvRow) {
	battingTeam := row.field("batting_team")
	bowlingTeam := row.field("bowling_team")
	b.noteTeam(battingTeam)
	b.noteTeam(bowlingTeam)
	if battingTeam == "" {
		return
	}

	inn, ok := b.innings[battingTeam]
	if !ok {
		inn = &RawInnings{Team: battingTeam}
		b.innings[battingTeam] = inn
	}

	over := overFromBall(row.field("ball"))
	delivery := RawDelivery{
		Batter:     row.field("striker"),
		Bowler:     row.field("bowler"),
		NonStriker: row.field("non_striker"),
	}

	batterRuns, batterOK := row.intField("runs_off_bat")
	extraRuns, extrasOK := row.intField("extras")
	if batterOK || extrasOK {
		total := batterRuns + extraRuns
		delivery.Runs = &RawRuns{Batter: batterRuns, Extras: extraRuns, Total: &total}
	}

	extras := make(map[string]int)
	for _, kind := range []string{"wides", "noballs", "byes", "legbyes", "penalty"} {
		if v, ok := row.intField(kind); ok && v != 0 {
			extras[kind] = v
		}
	}
	if len(extras) > 0 {
		delivery.Extras = extras
	}

	if kind := row.field("wicket_type"); kind != "" {
		delivery.Wickets = append(delivery.Wickets, RawWicket{
			PlayerOut: row.field("player_dismissed"),
			Kind:      kind,
		})
	}
	if kind := row.field("other_wicket_type"); kind != "" {
		delivery.Wickets = append(delivery.Wickets, RawWicket{
			PlayerOut: row.field("other_player_dismissed"),
			Kind:      kind,
		})
	}

	// Keep deliveries grouped per over in arrival order.
	if n := len(inn.Overs); n > 0 && inn.Overs[n-1].Over == over {
		inn.Overs[n-1].Deliveries = append(inn.Overs[n-1].Deliveries, delivery)
		return
	}
	inn.Overs = append(inn.Overs, RawOver{Over: over, Deliveries: []RawDelivery{delivery}})
}

func (b *csvMatchBuilder) noteTeam(name string) {
	if name == "" {
		return
	}
	for _, existing := range b.teamOrder {
		if existing == name {
			return
		}
	}
	b.teamOrder = append(b.teamOrder, name)
}

func (b *csvMatchBuilder) build() RawMatch {
	info := b.info
	info.Teams = b.teamOrder

	raw := RawMatch{SourceID: b.sourceID, Info: info}
	// Innings in the order their batting team first appeared.
	for _, team := range b.teamOrder {
		if inn, ok := b.innings[team]; ok {
			raw.Innings = append(raw.Innings, *inn)
		}
	}
	return raw
}

// overFromBall extracts the over number from Cricsheet's "over.ball"
// notation, e.g. "12.4" -> 12.
func overFromBall(value string) int {
	if value == "" {
		return 0
	}
	if dot := strings.IndexByte(value, '.'); dot >= 0 {
		value = value[:dot]
	}
	over, err := strconv.Atoi(value)
	if err != nil || over < 0 {
		return 0
	}
	return over
}
