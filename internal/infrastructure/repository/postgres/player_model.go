package postgres

import (
	"database/sql"
	"time"
)

type clubTableModel struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	Short     string    `db:"short"`
	UpdatedAt time.Time `db:"updated_at"`
}

type playerTableModel struct {
	ID          int64           `db:"id"`
	ClubID      int64           `db:"club_id"`
	Name        string          `db:"name"`
	Position    string          `db:"position"`
	Price       float64         `db:"price"`
	PriceDelta  sql.NullFloat64 `db:"price_delta"`
	IsInjured   bool            `db:"is_injured"`
	TotalPoints float64         `db:"total_points"`
	RoundPoints sql.NullFloat64 `db:"round_points"`
	UpdatedAt   time.Time       `db:"updated_at"`
}

type roundTableModel struct {
	ID       int64        `db:"id"`
	Number   int          `db:"number"`
	Status   string       `db:"status"`
	Deadline sql.NullTime `db:"deadline"`
	ClosedAt *time.Time   `db:"closed_at"`
}
