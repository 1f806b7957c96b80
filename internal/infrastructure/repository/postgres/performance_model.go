package postgres

import (
	"fmt"
	"time"

	"github.com/bytedance/sonic"

	"github.com/willowlytics/cricketstats/internal/domain/performance"
)

type performanceTableModel struct {
	ID           int64     `db:"id"`
	MatchID      string    `db:"match_id"`
	TeamID       string    `db:"team_id"`
	BatterID     string    `db:"batter_id"`
	BowlerID     string    `db:"bowler_id"`
	NonStrikerID string    `db:"non_striker_id"`
	OverNumber   int       `db:"over_number"`
	Runs         int       `db:"runs"`
	Extras       []byte    `db:"extras"`
	TotalRuns    int       `db:"total_runs"`
	Wickets      []byte    `db:"wickets"`
	CreatedAt    time.Time `db:"created_at"`
}

type extrasDoc struct {
	Wides   int `json:"wides,omitempty"`
	NoBalls int `json:"noballs,omitempty"`
	Byes    int `json:"byes,omitempty"`
	LegByes int `json:"legbyes,omitempty"`
	Penalty int `json:"penalty,omitempty"`
}

type wicketDoc struct {
	PlayerOutID string   `json:"player_out_id"`
	Kind        string   `json:"kind"`
	FielderIDs  []string `json:"fielder_ids,omitempty"`
}

func encodePerformance(item performance.Performance) (extras, wickets []byte, err error) {
	extras, err = sonic.Marshal(extrasDoc{
		Wides:   item.Extras.Wides,
		NoBalls: item.Extras.NoBalls,
		Byes:    item.Extras.Byes,
		LegByes: item.Extras.LegByes,
		Penalty: item.Extras.Penalty,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("encode delivery extras: %w", err)
	}

	wicketDocs := make([]wicketDoc, 0, len(item.Wickets))
	for _, w := range item.Wickets {
		wicketDocs = append(wicketDocs, wicketDoc{
			PlayerOutID: w.PlayerOutID,
			Kind:        w.Kind,
			FielderIDs:  w.FielderIDs,
		})
	}
	wickets, err = sonic.Marshal(wicketDocs)
	if err != nil {
		return nil, nil, fmt.Errorf("encode delivery wickets: %w", err)
	}

	return extras, wickets, nil
}

func (m performanceTableModel) toDomain() (performance.Performance, error) {
	out := performance.Performance{
		MatchID:      m.MatchID,
		TeamID:       m.TeamID,
		BatterID:     m.BatterID,
		BowlerID:     m.BowlerID,
		NonStrikerID: m.NonStrikerID,
		Over:         m.OverNumber,
		Runs:         m.Runs,
		TotalRuns:    m.TotalRuns,
		CreatedAt:    m.CreatedAt,
	}

	if len(m.Extras) > 0 {
		var doc extrasDoc
		if err := sonic.Unmarshal(m.Extras, &doc); err != nil {
			return performance.Performance{}, fmt.Errorf("decode delivery extras: %w", err)
		}
		out.Extras = performance.Extras{
			Wides:   doc.Wides,
			NoBalls: doc.NoBalls,
			Byes:    doc.Byes,
			LegByes: doc.LegByes,
			Penalty: doc.Penalty,
		}
	}

	if len(m.Wickets) > 0 {
		var docs []wicketDoc
		if err := sonic.Unmarshal(m.Wickets, &docs); err != nil {
			return performance.Performance{}, fmt.Errorf("decode delivery wickets: %w", err)
		}
		out.Wickets = make([]performance.Wicket, 0, len(docs))
		for _, w := range docs {
			out.Wickets = append(out.Wickets, performance.Wicket{
				PlayerOutID: w.PlayerOutID,
				Kind:        w.Kind,
				FielderIDs:  w.FielderIDs,
			})
		}
	}

	return out, nil
}
