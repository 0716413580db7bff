package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/riskibarqy/fantasy-roster/internal/domain/fantasy"
)

type SquadRepository struct {
	db *sqlx.DB
}

func NewSquadRepository(db *sqlx.DB) *SquadRepository {
	return &SquadRepository{db: db}
}

func (r *SquadRepository) GetByTeam(ctx context.Context, teamID string) (fantasy.Squad, bool, error) {
	const squadQuery = `
SELECT public_id, team_id, name, player_ids, budget_cap, created_at, updated_at
FROM fantasy_squads
WHERE team_id = $1`

	var row squadTableModel
	if err := r.db.GetContext(ctx, &row, squadQuery, teamID); err != nil {
		if isNotFound(err) {
			return fantasy.Squad{}, false, nil
		}
		return fantasy.Squad{}, false, fmt.Errorf("get squad: %w", err)
	}

	return fantasy.Squad{
		ID:        row.PublicID,
		TeamID:    row.TeamID,
		Name:      row.Name,
		PlayerIDs: append([]int64(nil), row.PlayerIDs...),
		BudgetCap: row.BudgetCap,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}, true, nil
}

// Upsert replaces the stored roster of squad.TeamID. The player id array
// keeps slot order.
func (r *SquadRepository) Upsert(ctx context.Context, squad fantasy.Squad) error {
	return upsertSquad(ctx, r.db, squad)
}

const upsertSquadQuery = `
INSERT INTO fantasy_squads (public_id, team_id, name, player_ids, budget_cap, created_at, updated_at)
VALUES (:public_id, :team_id, :name, :player_ids, :budget_cap, :created_at, :updated_at)
ON CONFLICT (team_id)
DO UPDATE SET
    name = EXCLUDED.name,
    player_ids = EXCLUDED.player_ids,
    budget_cap = EXCLUDED.budget_cap,
    updated_at = EXCLUDED.updated_at`

func upsertSquad(ctx context.Context, exec sqlx.ExtContext, squad fantasy.Squad) error {
	row := squadTableModel{
		PublicID:  squad.ID,
		TeamID:    squad.TeamID,
		Name:      squad.Name,
		PlayerIDs: pq.Int64Array(squad.PlayerIDs),
		BudgetCap: squad.BudgetCap,
		CreatedAt: squad.CreatedAt,
		UpdatedAt: squad.UpdatedAt,
	}
	if _, err := sqlx.NamedExecContext(ctx, exec, upsertSquadQuery, row); err != nil {
		return fmt.Errorf("upsert fantasy squad team=%s: %w", squad.TeamID, err)
	}
	return nil
}

type TransferRepository struct {
	db *sqlx.DB
}

func NewTransferRepository(db *sqlx.DB) *TransferRepository {
	return &TransferRepository{db: db}
}

// Apply stores the swapped squad and the transfer row in one transaction.
func (r *TransferRepository) Apply(ctx context.Context, squad fantasy.Squad, item fantasy.Transfer) error {
	const insertTransferQuery = `
INSERT INTO fantasy_squad_transfers (public_id, team_id, round_id, out_player_id, in_player_id, created_at)
VALUES (:public_id, :team_id, :round_id, :out_player_id, :in_player_id, :created_at)`

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for transfer: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := upsertSquad(ctx, tx, squad); err != nil {
		return err
	}

	row := transferTableModel{
		PublicID:    item.ID,
		TeamID:      item.TeamID,
		RoundID:     item.RoundID,
		OutPlayerID: item.OutPlayerID,
		InPlayerID:  item.InPlayerID,
		CreatedAt:   item.CreatedAt,
	}
	if _, err := tx.NamedExecContext(ctx, insertTransferQuery, row); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("transfer %s already recorded: %w", item.ID, err)
		}
		return fmt.Errorf("insert transfer team=%s: %w", item.TeamID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transfer: %w", err)
	}
	return nil
}

func (r *TransferRepository) ListByTeam(ctx context.Context, teamID string) ([]fantasy.Transfer, error) {
	const listTransfersQuery = `
SELECT public_id, team_id, round_id, out_player_id, in_player_id, created_at
FROM fantasy_squad_transfers
WHERE team_id = $1
ORDER BY created_at, public_id`

	var rows []transferTableModel
	if err := r.db.SelectContext(ctx, &rows, listTransfersQuery, teamID); err != nil {
		return nil, fmt.Errorf("list transfers team=%s: %w", teamID, err)
	}

	out := make([]fantasy.Transfer, 0, len(rows))
	for _, row := range rows {
		out = append(out, fantasy.Transfer{
			ID:          row.PublicID,
			TeamID:      row.TeamID,
			RoundID:     row.RoundID,
			OutPlayerID: row.OutPlayerID,
			InPlayerID:  row.InPlayerID,
			CreatedAt:   row.CreatedAt,
		})
	}
	return out, nil
}
