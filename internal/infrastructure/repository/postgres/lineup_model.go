package postgres

import (
	"database/sql"
	"time"
)

type lineupTableModel struct {
	TeamID        string        `db:"team_id"`
	RoundID       int64         `db:"round_id"`
	Slots         []byte        `db:"slots"`
	CaptainID     sql.NullInt64 `db:"captain_player_id"`
	ViceCaptainID sql.NullInt64 `db:"vice_captain_player_id"`
	Closed        bool          `db:"closed"`
	UpdatedAt     time.Time     `db:"updated_at"`
}

// slotDocument is the JSONB shape of one lineup slot.
type slotDocument struct {
	Index           int      `json:"index"`
	IsStarter       bool     `json:"is_starter"`
	Role            string   `json:"role,omitempty"`
	PlayerID        *int64   `json:"player_id"`
	RoundPoints     *float64 `json:"round_points,omitempty"`
	PointsWithBonus *float64 `json:"points_with_bonus,omitempty"`
}
