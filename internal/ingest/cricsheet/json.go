package cricsheet

import (
	"strconv"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
)

// jsonFile mirrors the Cricsheet JSON schema. Everything is optional; the
// normalizer decides what is required.
type jsonFile struct {
	Info    jsonInfo      `json:"info"`
	Innings []jsonInnings `json:"innings"`
}

type jsonInfo struct {
	MatchTypeNumber *int                `json:"match_type_number"`
	Teams           []string            `json:"teams"`
	Venue           string              `json:"venue"`
	City            string              `json:"city"`
	Dates           []string            `json:"dates"`
	Event           jsonEvent           `json:"event"`
	MatchType       string              `json:"match_type"`
	Gender          string              `json:"gender"`
	Season          jsonSeason          `json:"season"`
	Toss            jsonToss            `json:"toss"`
	Outcome         jsonOutcome         `json:"outcome"`
	PlayerOfMatch   []string            `json:"player_of_match"`
	Players         map[string][]string `json:"players"`
	Registry        jsonRegistry        `json:"registry"`
	Officials       jsonOfficials       `json:"officials"`
}

type jsonEvent struct {
	Name        string `json:"name"`
	MatchNumber *int   `json:"match_number"`
}

// jsonSeason tolerates both "2024" (string) and 2024 (number) source
// revisions.
type jsonSeason struct {
	value string
}

func (s *jsonSeason) UnmarshalJSON(data []byte) error {
	var asString string
	if err := sonic.Unmarshal(data, &asString); err == nil {
		s.value = asString
		return nil
	}
	var asNumber int
	if err := sonic.Unmarshal(data, &asNumber); err == nil {
		s.value = strconv.Itoa(asNumber)
		return nil
	}
	// Unrecognized shape: leave empty rather than failing the match.
	s.value = ""
	return nil
}

type jsonToss struct {
	Winner   string `json:"winner"`
	Decision string `json:"decision"`
}

type jsonOutcome struct {
	Winner string         `json:"winner"`
	By     map[string]int `json:"by"`
}

type jsonRegistry struct {
	People map[string]string `json:"people"`
}

type jsonOfficials struct {
	Umpires        []string `json:"umpires"`
	ReserveUmpires []string `json:"reserve_umpires"`
}

type jsonInnings struct {
	Team  string     `json:"team"`
	Overs []jsonOver `json:"overs"`
}

type jsonOver struct {
	Over       int            `json:"over"`
	Deliveries []jsonDelivery `json:"deliveries"`
}

type jsonDelivery struct {
	Batter     string         `json:"batter"`
	Bowler     string         `json:"bowler"`
	NonStriker string         `json:"non_striker"`
	Runs       *jsonRuns      `json:"runs"`
	Extras     map[string]int `json:"extras"`
	Wickets    []jsonWicket   `json:"wickets"`
}

type jsonRuns struct {
	Batter int  `json:"batter"`
	Extras int  `json:"extras"`
	Total  *int `json:"total"`
}

type jsonWicket struct {
	PlayerOut string        `json:"player_out"`
	Kind      string        `json:"kind"`
	Fielders  []jsonFielder `json:"fielders"`
}

type jsonFielder struct {
	Name string `json:"name"`
}

// ParseJSON decodes one Cricsheet JSON document into a RawMatch.
func ParseJSON(sourceID string, data []byte) (RawMatch, error) {
	var file jsonFile
	if err := sonic.Unmarshal(data, &file); err != nil {
		return RawMatch{}, errors.Wrapf(err, "decode cricsheet json %s", sourceID)
	}

	raw := RawMatch{
		SourceID: sourceID,
		Info: RawInfo{
			MatchTypeNumber: file.Info.MatchTypeNumber,
			Teams:           file.Info.Teams,
			Venue:           file.Info.Venue,
			City:            file.Info.City,
			Dates:           file.Info.Dates,
			EventName:       file.Info.Event.Name,
			MatchNumber:     file.Info.Event.MatchNumber,
			MatchType:       file.Info.MatchType,
			Gender:          file.Info.Gender,
			Season:          file.Info.Season.value,
			TossWinner:      file.Info.Toss.Winner,
			TossDecision:    file.Info.Toss.Decision,
			OutcomeWinner:   file.Info.Outcome.Winner,
			PlayerOfMatch:   file.Info.PlayerOfMatch,
			PlayersByTeam:   file.Info.Players,
			Registry:        file.Info.Registry.People,
			Umpires:         file.Info.Officials.Umpires,
			ReserveUmpires:  file.Info.Officials.ReserveUmpires,
		},
	}

	if runs, ok := file.Info.Outcome.By["runs"]; ok {
		v := runs
		raw.Info.ByRuns = &v
	}
	if wickets, ok := file.Info.Outcome.By["wickets"]; ok {
		v := wickets
		raw.Info.ByWickets = &v
	}

	for _, innings := range file.Innings {
		rawInnings := RawInnings{Team: innings.Team}
		for _, over := range innings.Overs {
			rawOver := RawOver{Over: over.Over}
			for _, d := range over.Deliveries {
				rawOver.Deliveries = append(rawOver.Deliveries, convertJSONDelivery(d))
			}
			rawInnings.Overs = append(rawInnings.Overs, rawOver)
		}
		raw.Innings = append(raw.Innings, rawInnings)
	}

	return raw, nil
}

func convertJSONDelivery(d jsonDelivery) RawDelivery {
	out := RawDelivery{
		Batter:     d.Batter,
		Bowler:     d.Bowler,
		NonStriker: d.NonStriker,
		Extras:     d.Extras,
	}
	if d.Runs != nil {
		out.Runs = &RawRuns{
			Batter: d.Runs.Batter,
			Extras: d.Runs.Extras,
			Total:  d.Runs.Total,
		}
	}
	for _, w := range d.Wickets {
		raw := RawWicket{PlayerOut: w.PlayerOut, Kind: w.Kind}
		for _, f := range w.Fielders {
			raw.Fielders = append(raw.Fielders, f.Name)
		}
		out.Wickets = append(out.Wickets, raw)
	}
	return out
}
