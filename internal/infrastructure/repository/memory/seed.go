package memory

import (
	"fmt"
	"time"

	"github.com/riskibarqy/fantasy-roster/internal/domain/club"
	"github.com/riskibarqy/fantasy-roster/internal/domain/player"
	"github.com/riskibarqy/fantasy-roster/internal/domain/round"
)

const (
	RoundIDOpening int64 = 1
	RoundIDSecond  int64 = 2
)

func SeedClubs() []club.Club {
	return []club.Club{
		{ID: 1, Name: "Persija Jakarta", Short: "PSJ"},
		{ID: 2, Name: "Persib Bandung", Short: "PSB"},
		{ID: 3, Name: "Persebaya Surabaya", Short: "PRB"},
		{ID: 4, Name: "Bali United", Short: "BU"},
		{ID: 5, Name: "PSM Makassar", Short: "PSM"},
		{ID: 6, Name: "Borneo FC", Short: "BFC"},
	}
}

// SeedPlayers gives every club 1 GK, 3 DEF, 3 MID and 2 FWD. Player ids are
// club id * 100 + shirt order, e.g. 101 is Persija's goalkeeper.
func SeedPlayers() []player.Player {
	layout := []struct {
		pos   player.Position
		price float64
	}{
		{player.PositionGoalkeeper, 4.5},
		{player.PositionDefender, 4.5},
		{player.PositionDefender, 5.0},
		{player.PositionDefender, 5.5},
		{player.PositionMidfielder, 5.0},
		{player.PositionMidfielder, 6.5},
		{player.PositionMidfielder, 8.0},
		{player.PositionForward, 6.0},
		{player.PositionForward, 8.5},
	}

	out := make([]player.Player, 0, len(layout)*6)
	for _, c := range SeedClubs() {
		for i, slot := range layout {
			out = append(out, player.Player{
				ID:       c.ID*100 + int64(i+1),
				Name:     fmt.Sprintf("%s %s %d", c.Short, slot.pos, i+1),
				Position: slot.pos,
				ClubID:   c.ID,
				Price:    slot.price + float64(c.ID%2)*0.5,
			})
		}
	}
	return out
}

func SeedRounds() []round.Round {
	return []round.Round{
		{ID: RoundIDOpening, Number: 1, Status: round.StatusOpen, Deadline: time.Date(2026, 8, 8, 11, 0, 0, 0, time.UTC)},
		{ID: RoundIDSecond, Number: 2, Status: round.StatusOpen, Deadline: time.Date(2026, 8, 15, 11, 0, 0, 0, time.UTC)},
	}
}
