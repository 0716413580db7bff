package postgres

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/fantasy-roster/internal/domain/lineup"
	"github.com/riskibarqy/fantasy-roster/internal/domain/player"
)

const lineupSelectColumns = `team_id, round_id, slots, captain_player_id, vice_captain_player_id, closed, updated_at`

type LineupRepository struct {
	db *sqlx.DB
}

func NewLineupRepository(db *sqlx.DB) *LineupRepository {
	return &LineupRepository{db: db}
}

func (r *LineupRepository) GetByTeamAndRound(ctx context.Context, teamID string, roundID int64) (lineup.Lineup, bool, error) {
	query := `SELECT ` + lineupSelectColumns + ` FROM lineups WHERE team_id = $1 AND round_id = $2`

	var row lineupTableModel
	if err := r.db.GetContext(ctx, &row, query, teamID, roundID); err != nil {
		if isNotFound(err) {
			return lineup.Lineup{}, false, nil
		}
		return lineup.Lineup{}, false, fmt.Errorf("get lineup: %w", err)
	}

	item, err := lineupFromRow(row)
	if err != nil {
		return lineup.Lineup{}, false, err
	}
	return item, true, nil
}

func (r *LineupRepository) ListByRound(ctx context.Context, roundID int64) ([]lineup.Lineup, error) {
	query := `SELECT ` + lineupSelectColumns + ` FROM lineups WHERE round_id = $1 ORDER BY team_id`

	var rows []lineupTableModel
	if err := r.db.SelectContext(ctx, &rows, query, roundID); err != nil {
		return nil, fmt.Errorf("list lineups by round: %w", err)
	}

	out := make([]lineup.Lineup, 0, len(rows))
	for _, row := range rows {
		item, err := lineupFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func (r *LineupRepository) Upsert(ctx context.Context, item lineup.Lineup) error {
	slots, err := encodeSlots(item.Slots)
	if err != nil {
		return fmt.Errorf("encode lineup slots team=%s round=%d: %w", item.TeamID, item.RoundID, err)
	}

	const upsertLineupQuery = `
INSERT INTO lineups (team_id, round_id, slots, captain_player_id, vice_captain_player_id, closed, updated_at)
VALUES (:team_id, :round_id, :slots, :captain_player_id, :vice_captain_player_id, :closed, :updated_at)
ON CONFLICT (team_id, round_id)
DO UPDATE SET
    slots = EXCLUDED.slots,
    captain_player_id = EXCLUDED.captain_player_id,
    vice_captain_player_id = EXCLUDED.vice_captain_player_id,
    closed = EXCLUDED.closed,
    updated_at = EXCLUDED.updated_at`

	row := lineupTableModel{
		TeamID:        item.TeamID,
		RoundID:       item.RoundID,
		Slots:         slots,
		CaptainID:     int64PtrToNull(item.CaptainID),
		ViceCaptainID: int64PtrToNull(item.ViceCaptainID),
		Closed:        item.Closed,
		UpdatedAt:     item.UpdatedAt,
	}
	if _, err := r.db.NamedExecContext(ctx, upsertLineupQuery, row); err != nil {
		return fmt.Errorf("upsert lineup team=%s round=%d: %w", item.TeamID, item.RoundID, err)
	}
	return nil
}

func lineupFromRow(row lineupTableModel) (lineup.Lineup, error) {
	slots, err := decodeSlots(row.Slots)
	if err != nil {
		return lineup.Lineup{}, fmt.Errorf("decode lineup slots team=%s round=%d: %w", row.TeamID, row.RoundID, err)
	}

	return lineup.Lineup{
		TeamID:        row.TeamID,
		RoundID:       row.RoundID,
		Slots:         slots,
		CaptainID:     nullInt64Ptr(row.CaptainID),
		ViceCaptainID: nullInt64Ptr(row.ViceCaptainID),
		Closed:        row.Closed,
		UpdatedAt:     row.UpdatedAt,
	}, nil
}

func encodeSlots(slots []lineup.Slot) ([]byte, error) {
	docs := make([]slotDocument, 0, len(slots))
	for _, slot := range slots {
		docs = append(docs, slotDocument{
			Index:           slot.Index,
			IsStarter:       slot.IsStarter,
			Role:            string(slot.Role),
			PlayerID:        slot.PlayerID,
			RoundPoints:     slot.RoundPoints,
			PointsWithBonus: slot.PointsWithBonus,
		})
	}
	return sonic.Marshal(docs)
}

func decodeSlots(raw []byte) ([]lineup.Slot, error) {
	if len(raw) == 0 {
		return []lineup.Slot{}, nil
	}

	var docs []slotDocument
	if err := sonic.Unmarshal(raw, &docs); err != nil {
		return nil, err
	}

	out := make([]lineup.Slot, 0, len(docs))
	for _, doc := range docs {
		out = append(out, lineup.Slot{
			Index:           doc.Index,
			IsStarter:       doc.IsStarter,
			Role:            player.Position(doc.Role),
			PlayerID:        doc.PlayerID,
			RoundPoints:     doc.RoundPoints,
			PointsWithBonus: doc.PointsWithBonus,
		})
	}
	return lineup.CloneSlots(out), nil
}
