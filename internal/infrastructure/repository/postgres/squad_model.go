package postgres

import (
	"time"

	"github.com/lib/pq"
)

type squadTableModel struct {
	PublicID  string        `db:"public_id"`
	TeamID    string        `db:"team_id"`
	Name      string        `db:"name"`
	PlayerIDs pq.Int64Array `db:"player_ids"`
	BudgetCap float64       `db:"budget_cap"`
	CreatedAt time.Time     `db:"created_at"`
	UpdatedAt time.Time     `db:"updated_at"`
}

type transferTableModel struct {
	PublicID    string    `db:"public_id"`
	TeamID      string    `db:"team_id"`
	RoundID     int64     `db:"round_id"`
	OutPlayerID int64     `db:"out_player_id"`
	InPlayerID  int64     `db:"in_player_id"`
	CreatedAt   time.Time `db:"created_at"`
}
