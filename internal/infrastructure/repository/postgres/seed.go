package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/fantasy-roster/internal/domain/round"
	"github.com/riskibarqy/fantasy-roster/internal/infrastructure/repository/memory"
)

// BootstrapSeed loads the demo catalog and rounds into an empty database.
func BootstrapSeed(ctx context.Context, db *sqlx.DB) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM clubs`); err != nil {
		return fmt.Errorf("count clubs for bootstrap seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, c := range memory.SeedClubs() {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO clubs (id, name, short)
VALUES (:id, :name, :short)
ON CONFLICT (id) DO NOTHING`, map[string]any{
			"id":    c.ID,
			"name":  c.Name,
			"short": c.Short,
		})
		if err != nil {
			return fmt.Errorf("bind seed club %d query: %w", c.ID, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed club %d: %w", c.ID, err)
		}
	}

	for _, p := range memory.SeedPlayers() {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO players (id, club_id, name, position, price, is_injured, total_points)
VALUES (:id, :club_id, :name, :position, :price, :is_injured, :total_points)
ON CONFLICT (id) DO NOTHING`, map[string]any{
			"id":           p.ID,
			"club_id":      p.ClubID,
			"name":         p.Name,
			"position":     string(p.Position),
			"price":        p.Price,
			"is_injured":   p.IsInjured,
			"total_points": p.TotalPoints,
		})
		if err != nil {
			return fmt.Errorf("bind seed player %d query: %w", p.ID, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed player %d: %w", p.ID, err)
		}
	}

	for _, r := range memory.SeedRounds() {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO rounds (id, number, status, deadline)
VALUES (:id, :number, :status, :deadline)
ON CONFLICT (id) DO NOTHING`, map[string]any{
			"id":       r.ID,
			"number":   r.Number,
			"status":   round.NormalizeStatus(r.Status),
			"deadline": nullTime(r.Deadline.UTC()),
		})
		if err != nil {
			return fmt.Errorf("bind seed round %d query: %w", r.ID, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed round %d: %w", r.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed tx: %w", err)
	}

	return nil
}
