package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/riskibarqy/fantasy-roster/internal/domain/club"
	"github.com/riskibarqy/fantasy-roster/internal/domain/player"
	"github.com/riskibarqy/fantasy-roster/internal/domain/round"
)

const playerSelectColumns = `id, club_id, name, position, price, price_delta, is_injured, total_points, round_points, updated_at`

type PlayerRepository struct {
	db *sqlx.DB
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

func (r *PlayerRepository) List(ctx context.Context) ([]player.Player, error) {
	query := `SELECT ` + playerSelectColumns + ` FROM players ORDER BY id`

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("select players: %w", err)
	}

	return playersFromRows(rows), nil
}

// GetByIDs returns the matching players in the order of playerIDs. Ids with
// no row are skipped and duplicates are repeated.
func (r *PlayerRepository) GetByIDs(ctx context.Context, playerIDs []int64) ([]player.Player, error) {
	if len(playerIDs) == 0 {
		return []player.Player{}, nil
	}

	query := `SELECT ` + playerSelectColumns + ` FROM players WHERE id = ANY($1)`

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, pq.Int64Array(playerIDs)); err != nil {
		return nil, fmt.Errorf("select players by ids: %w", err)
	}

	byID := player.IndexByID(playersFromRows(rows))
	out := make([]player.Player, 0, len(playerIDs))
	for _, id := range playerIDs {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *PlayerRepository) UpsertPlayers(ctx context.Context, items []player.Player) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for player upsert: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const upsertPlayerQuery = `
INSERT INTO players (id, club_id, name, position, price, price_delta, is_injured, total_points, round_points)
VALUES (:id, :club_id, :name, :position, :price, :price_delta, :is_injured, :total_points, :round_points)
ON CONFLICT (id)
DO UPDATE SET
    club_id = EXCLUDED.club_id,
    name = EXCLUDED.name,
    position = EXCLUDED.position,
    price = EXCLUDED.price,
    price_delta = EXCLUDED.price_delta,
    is_injured = EXCLUDED.is_injured,
    total_points = EXCLUDED.total_points,
    round_points = EXCLUDED.round_points,
    updated_at = NOW()`

	for _, item := range items {
		row := playerTableModel{
			ID:          item.ID,
			ClubID:      item.ClubID,
			Name:        item.Name,
			Position:    string(item.Position),
			Price:       item.Price,
			PriceDelta:  floatPtrToNull(item.PriceDelta),
			IsInjured:   item.IsInjured,
			TotalPoints: item.TotalPoints,
			RoundPoints: floatPtrToNull(item.RoundPoints),
		}
		if _, err := tx.NamedExecContext(ctx, upsertPlayerQuery, row); err != nil {
			return fmt.Errorf("upsert player id=%d: %w", item.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit player upsert tx: %w", err)
	}
	return nil
}

func playersFromRows(rows []playerTableModel) []player.Player {
	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, player.Player{
			ID:          row.ID,
			Name:        row.Name,
			Position:    player.Position(row.Position),
			ClubID:      row.ClubID,
			Price:       row.Price,
			PriceDelta:  nullFloatPtr(row.PriceDelta),
			IsInjured:   row.IsInjured,
			TotalPoints: row.TotalPoints,
			RoundPoints: nullFloatPtr(row.RoundPoints),
		})
	}
	return out
}

type ClubRepository struct {
	db *sqlx.DB
}

func NewClubRepository(db *sqlx.DB) *ClubRepository {
	return &ClubRepository{db: db}
}

func (r *ClubRepository) List(ctx context.Context) ([]club.Club, error) {
	var rows []clubTableModel
	if err := r.db.SelectContext(ctx, &rows, `SELECT id, name, short, updated_at FROM clubs ORDER BY id`); err != nil {
		return nil, fmt.Errorf("select clubs: %w", err)
	}

	out := make([]club.Club, 0, len(rows))
	for _, row := range rows {
		out = append(out, club.Club{ID: row.ID, Name: row.Name, Short: row.Short})
	}
	return out, nil
}

func (r *ClubRepository) UpsertClubs(ctx context.Context, items []club.Club) error {
	const upsertClubQuery = `
INSERT INTO clubs (id, name, short)
VALUES (:id, :name, :short)
ON CONFLICT (id)
DO UPDATE SET
    name = EXCLUDED.name,
    short = EXCLUDED.short,
    updated_at = NOW()`

	for _, item := range items {
		row := clubTableModel{ID: item.ID, Name: item.Name, Short: item.Short}
		if _, err := r.db.NamedExecContext(ctx, upsertClubQuery, row); err != nil {
			return fmt.Errorf("upsert club id=%d: %w", item.ID, err)
		}
	}
	return nil
}

type RoundRepository struct {
	db *sqlx.DB
}

func NewRoundRepository(db *sqlx.DB) *RoundRepository {
	return &RoundRepository{db: db}
}

func (r *RoundRepository) GetByID(ctx context.Context, roundID int64) (round.Round, bool, error) {
	var row roundTableModel
	err := r.db.GetContext(ctx, &row, `SELECT id, number, status, deadline, closed_at FROM rounds WHERE id = $1`, roundID)
	if err != nil {
		if isNotFound(err) {
			return round.Round{}, false, nil
		}
		return round.Round{}, false, fmt.Errorf("get round id=%d: %w", roundID, err)
	}
	return roundFromRow(row), true, nil
}

func (r *RoundRepository) List(ctx context.Context) ([]round.Round, error) {
	var rows []roundTableModel
	if err := r.db.SelectContext(ctx, &rows, `SELECT id, number, status, deadline, closed_at FROM rounds ORDER BY number`); err != nil {
		return nil, fmt.Errorf("select rounds: %w", err)
	}

	out := make([]round.Round, 0, len(rows))
	for _, row := range rows {
		out = append(out, roundFromRow(row))
	}
	return out, nil
}

func (r *RoundRepository) Upsert(ctx context.Context, item round.Round) error {
	const upsertRoundQuery = `
INSERT INTO rounds (id, number, status, deadline, closed_at)
VALUES (:id, :number, :status, :deadline, :closed_at)
ON CONFLICT (id)
DO UPDATE SET
    number = EXCLUDED.number,
    status = EXCLUDED.status,
    deadline = EXCLUDED.deadline,
    closed_at = EXCLUDED.closed_at`

	row := roundTableModel{
		ID:       item.ID,
		Number:   item.Number,
		Status:   round.NormalizeStatus(item.Status),
		Deadline: nullTime(item.Deadline),
		ClosedAt: item.ClosedAt,
	}
	if _, err := r.db.NamedExecContext(ctx, upsertRoundQuery, row); err != nil {
		return fmt.Errorf("upsert round id=%d: %w", item.ID, err)
	}
	return nil
}

func roundFromRow(row roundTableModel) round.Round {
	out := round.Round{
		ID:       row.ID,
		Number:   row.Number,
		Status:   round.NormalizeStatus(row.Status),
		ClosedAt: row.ClosedAt,
	}
	if row.Deadline.Valid {
		out.Deadline = row.Deadline.Time
	}
	return out
}
