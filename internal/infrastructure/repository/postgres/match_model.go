package postgres

import (
	"fmt"
	"time"

	"github.com/bytedance/sonic"

	"github.com/willowlytics/cricketstats/internal/domain/match"
)

type matchTableModel struct {
	ID            string    `db:"id"`
	Date          time.Time `db:"match_date"`
	Tournament    string    `db:"tournament"`
	Format        string    `db:"format"`
	MatchNumber   *int      `db:"match_number"`
	Gender        string    `db:"gender"`
	Season        string    `db:"season"`
	VenueID       string    `db:"venue_id"`
	Teams         []byte    `db:"teams"`
	Toss          []byte    `db:"toss"`
	Result        []byte    `db:"result"`
	PlayerOfMatch string    `db:"player_of_match"`
	Officials     []byte    `db:"officials"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

// JSON column shapes. The document store keeps nested match structure as
// jsonb rather than flattening sides and officials into join tables; a
// match document is always read and replaced whole.
type teamLineDoc struct {
	TeamID  string   `json:"team_id"`
	Score   *int     `json:"score"`
	Wickets *int     `json:"wickets"`
	Overs   *float64 `json:"overs"`
}

type tossDoc struct {
	WinnerTeamID string `json:"winner_team_id"`
	Decision     string `json:"decision"`
}

type marginDoc struct {
	Type  string `json:"type"`
	Value int    `json:"value"`
}

type resultDoc struct {
	WinnerTeamID string     `json:"winner_team_id"`
	Margin       *marginDoc `json:"margin,omitempty"`
}

type officialsDoc struct {
	UmpireIDs        []string `json:"umpire_ids"`
	ReserveUmpireIDs []string `json:"reserve_umpire_ids"`
}

func matchToTableModel(item match.Match) (matchTableModel, error) {
	teamLines := make([]teamLineDoc, 0, len(item.Teams))
	for _, t := range item.Teams {
		teamLines = append(teamLines, teamLineDoc{
			TeamID:  t.TeamID,
			Score:   t.Score,
			Wickets: t.Wickets,
			Overs:   t.Overs,
		})
	}
	teams, err := sonic.Marshal(teamLines)
	if err != nil {
		return matchTableModel{}, fmt.Errorf("encode match teams: %w", err)
	}

	var toss []byte
	if item.Toss != nil {
		toss, err = sonic.Marshal(tossDoc{
			WinnerTeamID: item.Toss.WinnerTeamID,
			Decision:     item.Toss.Decision,
		})
		if err != nil {
			return matchTableModel{}, fmt.Errorf("encode match toss: %w", err)
		}
	}

	var result []byte
	if item.Result != nil {
		doc := resultDoc{WinnerTeamID: item.Result.WinnerTeamID}
		if item.Result.Margin != nil {
			doc.Margin = &marginDoc{Type: item.Result.Margin.Type, Value: item.Result.Margin.Value}
		}
		result, err = sonic.Marshal(doc)
		if err != nil {
			return matchTableModel{}, fmt.Errorf("encode match result: %w", err)
		}
	}

	officials, err := sonic.Marshal(officialsDoc{
		UmpireIDs:        item.Officials.UmpireIDs,
		ReserveUmpireIDs: item.Officials.ReserveUmpireIDs,
	})
	if err != nil {
		return matchTableModel{}, fmt.Errorf("encode match officials: %w", err)
	}

	return matchTableModel{
		ID:            item.ID,
		Date:          item.Date,
		Tournament:    item.Tournament,
		Format:        item.Format,
		MatchNumber:   item.MatchNumber,
		Gender:        item.Gender,
		Season:        item.Season,
		VenueID:       item.VenueID,
		Teams:         teams,
		Toss:          toss,
		Result:        result,
		PlayerOfMatch: item.PlayerOfMatch,
		Officials:     officials,
		CreatedAt:     item.CreatedAt,
		UpdatedAt:     item.UpdatedAt,
	}, nil
}

func (m matchTableModel) toDomain() (match.Match, error) {
	out := match.Match{
		ID:            m.ID,
		Date:          m.Date,
		Tournament:    m.Tournament,
		Format:        m.Format,
		MatchNumber:   m.MatchNumber,
		Gender:        m.Gender,
		Season:        m.Season,
		VenueID:       m.VenueID,
		PlayerOfMatch: m.PlayerOfMatch,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}

	var teamLines []teamLineDoc
	if err := sonic.Unmarshal(m.Teams, &teamLines); err != nil {
		return match.Match{}, fmt.Errorf("decode match teams: %w", err)
	}
	out.Teams = make([]match.TeamInMatch, 0, len(teamLines))
	for _, t := range teamLines {
		out.Teams = append(out.Teams, match.TeamInMatch{
			TeamID:  t.TeamID,
			Score:   t.Score,
			Wickets: t.Wickets,
			Overs:   t.Overs,
		})
	}

	if len(m.Toss) > 0 {
		var doc tossDoc
		if err := sonic.Unmarshal(m.Toss, &doc); err != nil {
			return match.Match{}, fmt.Errorf("decode match toss: %w", err)
		}
		out.Toss = &match.Toss{WinnerTeamID: doc.WinnerTeamID, Decision: doc.Decision}
	}

	if len(m.Result) > 0 {
		var doc resultDoc
		if err := sonic.Unmarshal(m.Result, &doc); err != nil {
			return match.Match{}, fmt.Errorf("decode match result: %w", err)
		}
		result := &match.Result{WinnerTeamID: doc.WinnerTeamID}
		if doc.Margin != nil {
			result.Margin = &match.Margin{Type: doc.Margin.Type, Value: doc.Margin.Value}
		}
		out.Result = result
	}

	if len(m.Officials) > 0 {
		var doc officialsDoc
		if err := sonic.Unmarshal(m.Officials, &doc); err != nil {
			return match.Match{}, fmt.Errorf("decode match officials: %w", err)
		}
		out.Officials = match.Officials{
			UmpireIDs:        doc.UmpireIDs,
			ReserveUmpireIDs: doc.ReserveUmpireIDs,
		}
	}

	return out, nil
}
