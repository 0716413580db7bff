package httpapi

import (
	"time"

	"github.com/riskibarqy/fantasy-roster/internal/domain/club"
	"github.com/riskibarqy/fantasy-roster/internal/domain/fantasy"
	"github.com/riskibarqy/fantasy-roster/internal/domain/lineup"
	"github.com/riskibarqy/fantasy-roster/internal/domain/player"
	"github.com/riskibarqy/fantasy-roster/internal/usecase"
)

type teamPathRequest struct {
	TeamID string `validate:"required,max=64"`
}

type saveSquadRequest struct {
	Name      string  `json:"name" validate:"omitempty,max=64"`
	PlayerIDs []int64 `json:"player_ids" validate:"required,dive,gt=0"`
}

type previewSquadRequest struct {
	PlayerIDs []int64 `json:"player_ids" validate:"required,dive,gt=0"`
}

type transferRequest struct {
	RoundID     int64 `json:"round_id" validate:"required,gt=0"`
	OutPlayerID int64 `json:"out_player_id" validate:"required,gt=0"`
	InPlayerID  int64 `json:"in_player_id" validate:"required,gt=0"`
}

type lineupSlotRequest struct {
	Index     int    `json:"index" validate:"gte=0"`
	IsStarter bool   `json:"is_starter"`
	PlayerID  *int64 `json:"player_id" validate:"omitempty,gt=0"`
}

type saveLineupRequest struct {
	Slots         []lineupSlotRequest `json:"slots" validate:"required,dive"`
	CaptainID     *int64              `json:"captain_id" validate:"omitempty,gt=0"`
	ViceCaptainID *int64              `json:"vice_captain_id" validate:"omitempty,gt=0"`
}

type validateSquadsRequest struct {
	Candidates []validateSquadCandidate `json:"candidates" validate:"required,min=1,max=500,dive"`
}

type validateSquadCandidate struct {
	Key       string  `json:"key" validate:"max=64"`
	PlayerIDs []int64 `json:"player_ids" validate:"dive,gt=0"`
	BudgetCap float64 `json:"budget_cap" validate:"gte=0"`
}

type playerDTO struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Position    string   `json:"position"`
	ClubID      int64    `json:"club_id"`
	Price       float64  `json:"price"`
	PriceDelta  *float64 `json:"price_delta,omitempty"`
	IsInjured   bool     `json:"is_injured"`
	TotalPoints float64  `json:"total_points"`
	RoundPoints *float64 `json:"round_points,omitempty"`
}

type clubDTO struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Short string `json:"short"`
}

type squadDTO struct {
	ID         string      `json:"id"`
	TeamID     string      `json:"team_id"`
	Name       string      `json:"name"`
	PlayerIDs  []int64     `json:"player_ids"`
	Players    []playerDTO `json:"players"`
	BudgetCap  float64     `json:"budget_cap"`
	BudgetUsed float64     `json:"budget_used"`
	BudgetLeft float64     `json:"budget_left"`
	Violations []string    `json:"violations"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

type transferPairDTO struct {
	Out playerDTO `json:"out"`
	In  playerDTO `json:"in"`
}

type transferPreviewDTO struct {
	Outgoing      []playerDTO       `json:"outgoing"`
	Incoming      []playerDTO       `json:"incoming"`
	Pairs         []transferPairDTO `json:"pairs"`
	TransferCount int               `json:"transfer_count"`
	BudgetUsed    float64           `json:"budget_used"`
	BudgetLeft    float64           `json:"budget_left"`
	Violations    []string          `json:"violations"`
}

type randomSquadDTO struct {
	PlayerIDs  []int64     `json:"player_ids"`
	Players    []playerDTO `json:"players"`
	BudgetUsed float64     `json:"budget_used"`
	BudgetLeft float64     `json:"budget_left"`
	Attempts   int         `json:"attempts"`
	Fallback   bool        `json:"fallback"`
}

type transferDTO struct {
	ID          string    `json:"id"`
	TeamID      string    `json:"team_id"`
	RoundID     int64     `json:"round_id"`
	OutPlayerID int64     `json:"out_player_id"`
	InPlayerID  int64     `json:"in_player_id"`
	CreatedAt   time.Time `json:"created_at"`
}

type lineupSlotDTO struct {
	Index           int      `json:"index"`
	IsStarter       bool     `json:"is_starter"`
	Role            string   `json:"role,omitempty"`
	PlayerID        *int64   `json:"player_id"`
	RoundPoints     *float64 `json:"round_points,omitempty"`
	PointsWithBonus *float64 `json:"points_with_bonus,omitempty"`
}

type lineupDTO struct {
	TeamID        string          `json:"team_id"`
	RoundID       int64           `json:"round_id"`
	Slots         []lineupSlotDTO `json:"slots"`
	CaptainID     *int64          `json:"captain_id"`
	ViceCaptainID *int64          `json:"vice_captain_id"`
	Closed        bool            `json:"closed"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type slotPointsDTO struct {
	Index      int     `json:"index"`
	PlayerID   *int64  `json:"player_id"`
	IsStarter  bool    `json:"is_starter"`
	Base       float64 `json:"base"`
	Multiplier int     `json:"multiplier"`
	Total      float64 `json:"total"`
	Settled    bool    `json:"settled"`
}

type roundPointsDTO struct {
	TeamID  string          `json:"team_id"`
	RoundID int64           `json:"round_id"`
	Closed  bool            `json:"closed"`
	Total   float64         `json:"total"`
	Slots   []slotPointsDTO `json:"slots"`
}

func playerToDTO(p player.Player) playerDTO {
	return playerDTO{
		ID:          p.ID,
		Name:        p.Name,
		Position:    string(p.Position),
		ClubID:      p.ClubID,
		Price:       p.Price,
		PriceDelta:  p.PriceDelta,
		IsInjured:   p.IsInjured,
		TotalPoints: p.TotalPoints,
		RoundPoints: p.RoundPoints,
	}
}

func playersToDTO(items []player.Player) []playerDTO {
	out := make([]playerDTO, 0, len(items))
	for _, p := range items {
		out = append(out, playerToDTO(p))
	}
	return out
}

func clubsToDTO(items []club.Club) []clubDTO {
	out := make([]clubDTO, 0, len(items))
	for _, c := range items {
		out = append(out, clubDTO{ID: c.ID, Name: c.Name, Short: c.Short})
	}
	return out
}

func squadViewToDTO(v usecase.SquadView) squadDTO {
	return squadDTO{
		ID:         v.Squad.ID,
		TeamID:     v.Squad.TeamID,
		Name:       v.Squad.Name,
		PlayerIDs:  append([]int64{}, v.Squad.PlayerIDs...),
		Players:    playersToDTO(v.Players),
		BudgetCap:  v.Squad.BudgetCap,
		BudgetUsed: fantasy.Round1(v.BudgetUsed),
		BudgetLeft: fantasy.Round1(v.BudgetLeft),
		Violations: fantasy.Codes(v.Violations),
		CreatedAt:  v.Squad.CreatedAt,
		UpdatedAt:  v.Squad.UpdatedAt,
	}
}

func transferPreviewToDTO(v usecase.TransferPreviewResult) transferPreviewDTO {
	pairs := make([]transferPairDTO, 0, len(v.Preview.Pairs))
	for _, pair := range v.Preview.Pairs {
		pairs = append(pairs, transferPairDTO{Out: playerToDTO(pair.Out), In: playerToDTO(pair.In)})
	}
	return transferPreviewDTO{
		Outgoing:      playersToDTO(v.Preview.Outgoing),
		Incoming:      playersToDTO(v.Preview.Incoming),
		Pairs:         pairs,
		TransferCount: v.Preview.Count,
		BudgetUsed:    fantasy.Round1(v.DraftBudgetUsed),
		BudgetLeft:    fantasy.Round1(v.DraftBudgetLeft),
		Violations:    fantasy.Codes(v.Violations),
	}
}

func randomSquadToDTO(v usecase.RandomSquadResult) randomSquadDTO {
	ids := make([]int64, 0, len(v.Players))
	for _, p := range v.Players {
		ids = append(ids, p.ID)
	}
	return randomSquadDTO{
		PlayerIDs:  ids,
		Players:    playersToDTO(v.Players),
		BudgetUsed: fantasy.Round1(v.BudgetUsed),
		BudgetLeft: fantasy.Round1(v.BudgetLeft),
		Attempts:   v.Attempts,
		Fallback:   v.Fallback,
	}
}

func transfersToDTO(items []fantasy.Transfer) []transferDTO {
	out := make([]transferDTO, 0, len(items))
	for _, t := range items {
		out = append(out, transferDTO{
			ID:          t.ID,
			TeamID:      t.TeamID,
			RoundID:     t.RoundID,
			OutPlayerID: t.OutPlayerID,
			InPlayerID:  t.InPlayerID,
			CreatedAt:   t.CreatedAt,
		})
	}
	return out
}

func lineupToDTO(item lineup.Lineup) lineupDTO {
	slots := make([]lineupSlotDTO, 0, len(item.Slots))
	for _, slot := range item.Slots {
		slots = append(slots, lineupSlotDTO{
			Index:           slot.Index,
			IsStarter:       slot.IsStarter,
			Role:            string(slot.Role),
			PlayerID:        slot.PlayerID,
			RoundPoints:     slot.RoundPoints,
			PointsWithBonus: slot.PointsWithBonus,
		})
	}
	return lineupDTO{
		TeamID:        item.TeamID,
		RoundID:       item.RoundID,
		Slots:         slots,
		CaptainID:     item.CaptainID,
		ViceCaptainID: item.ViceCaptainID,
		Closed:        item.Closed,
		UpdatedAt:     item.UpdatedAt,
	}
}

func lineupRequestToSlots(req saveLineupRequest) []lineup.Slot {
	out := make([]lineup.Slot, 0, len(req.Slots))
	for _, slot := range req.Slots {
		out = append(out, lineup.Slot{
			Index:     slot.Index,
			IsStarter: slot.IsStarter,
			PlayerID:  slot.PlayerID,
		})
	}
	return out
}

func roundPointsToDTO(v usecase.RoundPointsResult) roundPointsDTO {
	slots := make([]slotPointsDTO, 0, len(v.Slots))
	for _, s := range v.Slots {
		slots = append(slots, slotPointsDTO{
			Index:      s.Index,
			PlayerID:   s.PlayerID,
			IsStarter:  s.IsStarter,
			Base:       s.Base,
			Multiplier: s.Multiplier,
			Total:      s.Total,
			Settled:    s.Settled,
		})
	}
	return roundPointsDTO{
		TeamID:  v.TeamID,
		RoundID: v.RoundID,
		Closed:  v.Closed,
		Total:   v.Total,
		Slots:   slots,
	}
}
