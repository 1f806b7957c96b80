package postgres

import (
	"time"

	"github.com/willowlytics/cricketstats/internal/domain/player"
)

type playerTableModel struct {
	ID           string    `db:"id"`
	Name         string    `db:"name"`
	NameKey      string    `db:"name_key"`
	Country      string    `db:"country"`
	Role         string    `db:"role"`
	BattingStyle string    `db:"batting_style"`
	BowlingStyle string    `db:"bowling_style"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (m playerTableModel) toDomain() player.Player {
	return player.Player{
		ID:           m.ID,
		Name:         m.Name,
		Country:      m.Country,
		Role:         player.Role(m.Role),
		BattingStyle: m.BattingStyle,
		BowlingStyle: m.BowlingStyle,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
