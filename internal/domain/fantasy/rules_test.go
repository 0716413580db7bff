package fantasy

import (
	"fmt"
	"slices"
	"testing"

	"github.com/riskibarqy/fantasy-roster/internal/domain/player"
)

// legalSquad returns 2 GK, 5 DEF, 5 MID, 3 FWD spread over five clubs at 6.0 each.
func legalSquad() []player.Player {
	positions := []player.Position{
		player.PositionGoalkeeper, player.PositionGoalkeeper,
		player.PositionDefender, player.PositionDefender, player.PositionDefender, player.PositionDefender, player.PositionDefender,
		player.PositionMidfielder, player.PositionMidfielder, player.PositionMidfielder, player.PositionMidfielder, player.PositionMidfielder,
		player.PositionForward, player.PositionForward, player.PositionForward,
	}

	out := make([]player.Player, 0, len(positions))
	for i, pos := range positions {
		out = append(out, player.Player{
			ID:       int64(i + 1),
			Name:     fmt.Sprintf("player-%02d", i+1),
			Position: pos,
			ClubID:   int64(i%5 + 1),
			Price:    6.0,
		})
	}
	return out
}

func TestValidateSquad(t *testing.T) {
	tests := []struct {
		name   string
		mutate func([]player.Player) []player.Player
		want   []Violation
	}{
		{
			name:   "legal squad",
			mutate: func(p []player.Player) []player.Player { return p },
		},
		{
			name:   "fourteen players",
			mutate: func(p []player.Player) []player.Player { return p[:14] },
			want:   []Violation{ViolationSquadSize},
		},
		{
			name: "duplicate player",
			mutate: func(p []player.Player) []player.Player {
				p[1].ID = p[0].ID
				return p
			},
			want: []Violation{ViolationSquadDuplicatePlayers},
		},
		{
			name: "three goalkeepers",
			mutate: func(p []player.Player) []player.Player {
				p[2].Position = player.PositionGoalkeeper
				return p
			},
			want: []Violation{ViolationSquadGoalkeepers},
		},
		{
			name: "one defender moved to midfield stays legal",
			mutate: func(p []player.Player) []player.Player {
				p[2].Position = player.PositionMidfielder
				return p
			},
		},
		{
			name: "seven midfielders",
			mutate: func(p []player.Player) []player.Player {
				p[2].Position = player.PositionMidfielder
				p[3].Position = player.PositionMidfielder
				return p
			},
			want: []Violation{ViolationSquadMidfieldersRange},
		},
		{
			name: "seven defenders",
			mutate: func(p []player.Player) []player.Player {
				p[7].Position = player.PositionDefender
				p[8].Position = player.PositionDefender
				return p
			},
			want: []Violation{ViolationSquadDefendersRange},
		},
		{
			name: "four forwards",
			mutate: func(p []player.Player) []player.Player {
				p[7].Position = player.PositionForward
				return p
			},
			want: []Violation{ViolationSquadForwardsRange},
		},
		{
			name: "four from one club",
			mutate: func(p []player.Player) []player.Player {
				p[14].ClubID = p[0].ClubID
				return p
			},
			want: []Violation{ViolationClubLimit},
		},
		{
			name: "budget exactly at cap",
			mutate: func(p []player.Player) []player.Player {
				p[0].Price = 16.0
				return p
			},
		},
		{
			name: "budget over cap",
			mutate: func(p []player.Player) []player.Player {
				p[0].Price = 16.1
				return p
			},
			want: []Violation{ViolationBudgetExceeded},
		},
		{
			name:   "empty squad reports every count rule",
			mutate: func(_ []player.Player) []player.Player { return nil },
			want: []Violation{
				ViolationSquadSize,
				ViolationSquadGoalkeepers,
				ViolationSquadDefendersRange,
				ViolationSquadMidfieldersRange,
				ViolationSquadForwardsRange,
			},
		},
		{
			name: "violations accumulate in order",
			mutate: func(p []player.Player) []player.Player {
				p = p[:14]
				p[1].ID = p[0].ID
				p[13].ClubID = p[0].ClubID
				p[0].Price = 30
				return p
			},
			want: []Violation{
				ViolationSquadSize,
				ViolationSquadDuplicatePlayers,
				ViolationClubLimit,
				ViolationBudgetExceeded,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			players := tt.mutate(legalSquad())
			got := ValidateSquad(players, 100)
			if !slices.Equal(got, tt.want) {
				t.Fatalf("unexpected violations: got=%v want=%v", got, tt.want)
			}
		})
	}
}

func TestValidateSquad_WrongSizeAlwaysReported(t *testing.T) {
	pool := append(legalSquad(), legalSquad()...)
	for i := range pool {
		pool[i].ID = int64(i + 1)
	}

	for size := 0; size <= 20; size++ {
		if size == 15 {
			continue
		}
		got := ValidateSquad(pool[:size], 100)
		if !Contains(got, ViolationSquadSize) {
			t.Fatalf("size %d: expected %s in %v", size, ViolationSquadSize, got)
		}
	}
}

func TestValidateSquad_DuplicateAlwaysReported(t *testing.T) {
	for i := 1; i < 15; i++ {
		players := legalSquad()
		players[i].ID = players[0].ID
		got := ValidateSquad(players, 100)
		if !Contains(got, ViolationSquadDuplicatePlayers) {
			t.Fatalf("duplicate at %d: expected %s in %v", i, ViolationSquadDuplicatePlayers, got)
		}
	}
}

func TestRules_OutfieldCombos(t *testing.T) {
	combos := DefaultRules().OutfieldCombos()
	if len(combos) != 6 {
		t.Fatalf("expected 6 outfield combos, got %d: %v", len(combos), combos)
	}
	for _, c := range combos {
		if c.Defenders+c.Midfielders+c.Forwards != 13 {
			t.Fatalf("combo does not fill 13 outfield places: %+v", c)
		}
	}
}

func TestRules_Validate(t *testing.T) {
	if err := DefaultRules().Validate(); err != nil {
		t.Fatalf("default rules should be valid: %v", err)
	}

	rules := DefaultRules()
	rules.Forwards = Range{Min: 1, Max: 1}
	rules.Defenders = Range{Min: 3, Max: 4}
	rules.Midfielders = Range{Min: 3, Max: 4}
	if err := rules.Validate(); err == nil {
		t.Fatalf("expected error when no split fills the outfield")
	}

	rules = DefaultRules()
	rules.BenchCount = 5
	if err := rules.Validate(); err == nil {
		t.Fatalf("expected error when starters plus bench differ from squad size")
	}
}
