package postgres

import (
	"time"

	"github.com/willowlytics/cricketstats/internal/domain/team"
)

type teamTableModel struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	NameKey   string    `db:"name_key"`
	Country   string    `db:"country"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (m teamTableModel) toDomain() team.Team {
	return team.Team{
		ID:        m.ID,
		Name:      m.Name,
		Country:   m.Country,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
