package httpapi

import (
	"time"

	"github.com/willowlytics/cricketstats/internal/domain/match"
)

type matchTeamDTO struct {
	TeamID  string   `json:"team_id"`
	Score   *int     `json:"score"`
	Wickets *int     `json:"wickets"`
	Overs   *float64 `json:"overs"`
}

type tossDTO struct {
	WinnerTeamID string `json:"winner_team_id"`
	Decision     string `json:"decision"`
}

type marginDTO struct {
	Type  string `json:"type"`
	Value int    `json:"value"`
}

type resultDTO struct {
	WinnerTeamID string     `json:"winner_team_id"`
	Margin       *marginDTO `json:"margin,omitempty"`
}

type matchDTO struct {
	ID            string         `json:"id"`
	Date          time.Time      `json:"date"`
	Tournament    string         `json:"tournament"`
	Format        string         `json:"format"`
	MatchNumber   *int           `json:"match_number,omitempty"`
	Gender        string         `json:"gender,omitempty"`
	Season        string         `json:"season,omitempty"`
	VenueID       string         `json:"venue_id"`
	Teams         []matchTeamDTO `json:"teams"`
	Toss          *tossDTO       `json:"toss,omitempty"`
	Result        *resultDTO     `json:"result,omitempty"`
	PlayerOfMatch string         `json:"player_of_match,omitempty"`
	UmpireIDs     []string       `json:"umpire_ids,omitempty"`
}

func matchToDTO(m match.Match) matchDTO {
	out := matchDTO{
		ID:            m.ID,
		Date:          m.Date,
		Tournament:    m.Tournament,
		Format:        m.Format,
		MatchNumber:   m.MatchNumber,
		Gender:        m.Gender,
		Season:        m.Season,
		VenueID:       m.VenueID,
		PlayerOfMatch: m.PlayerOfMatch,
		UmpireIDs:     m.Officials.UmpireIDs,
	}

	out.Teams = make([]matchTeamDTO, 0, len(m.Teams))
	for _, t := range m.Teams {
		out.Teams = append(out.Teams, matchTeamDTO{
			TeamID:  t.TeamID,
			Score:   t.Score,
			Wickets: t.Wickets,
			Overs:   t.Overs,
		})
	}

	if m.Toss != nil {
		out.Toss = &tossDTO{WinnerTeamID: m.Toss.WinnerTeamID, Decision: m.Toss.Decision}
	}
	if m.Result != nil {
		result := &resultDTO{WinnerTeamID: m.Result.WinnerTeamID}
		if m.Result.Margin != nil {
			result.Margin = &marginDTO{Type: m.Result.Margin.Type, Value: m.Result.Margin.Value}
		}
		out.Result = result
	}

	return out
}
