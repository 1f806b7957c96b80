package postgres

import (
	"fmt"
	"time"

	"github.com/bytedance/sonic"

	"github.com/willowlytics/cricketstats/internal/domain/venue"
)

type venueTableModel struct {
	ID            string    `db:"id"`
	Name          string    `db:"name"`
	NameKey       string    `db:"name_key"`
	City          string    `db:"city"`
	Country       string    `db:"country"`
	PitchType     string    `db:"pitch_type"`
	AverageScores []byte    `db:"average_scores"`
	TossStats     []byte    `db:"toss_stats"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

func (m venueTableModel) toDomain() (venue.Venue, error) {
	out := venue.Venue{
		ID:            m.ID,
		Name:          m.Name,
		City:          m.City,
		Country:       m.Country,
		PitchType:     m.PitchType,
		AverageScores: map[string]float64{},
		TossStats:     map[string]float64{},
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}

	if len(m.AverageScores) > 0 {
		if err := sonic.Unmarshal(m.AverageScores, &out.AverageScores); err != nil {
			return venue.Venue{}, fmt.Errorf("decode venue average scores: %w", err)
		}
	}
	if len(m.TossStats) > 0 {
		if err := sonic.Unmarshal(m.TossStats, &out.TossStats); err != nil {
			return venue.Venue{}, fmt.Errorf("decode venue toss stats: %w", err)
		}
	}

	return out, nil
}

func encodeScoreMap(values map[string]float64) ([]byte, error) {
	if values == nil {
		values = map[string]float64{}
	}
	return sonic.Marshal(values)
}
