package fantasy

import (
	"slices"
	"testing"

	"github.com/riskibarqy/fantasy-roster/internal/domain/lineup"
	"github.com/riskibarqy/fantasy-roster/internal/domain/player"
)

func int64Ptr(v int64) *int64 {
	return &v
}

func floatPtr(v float64) *float64 {
	return &v
}

// legalLineup starts 1 GK, 4 DEF, 4 MID, 2 FWD from legalSquad and benches one of each.
func legalLineup() []lineup.Slot {
	starters := []int64{1, 3, 4, 5, 6, 8, 9, 10, 11, 13, 14}
	bench := []int64{2, 7, 12, 15}
	squad := player.IndexByID(legalSquad())

	slots := make([]lineup.Slot, 0, 15)
	for _, id := range starters {
		slots = append(slots, lineup.Slot{Index: len(slots), IsStarter: true, Role: squad[id].Position, PlayerID: int64Ptr(id)})
	}
	for _, id := range bench {
		slots = append(slots, lineup.Slot{Index: len(slots), Role: squad[id].Position, PlayerID: int64Ptr(id)})
	}
	return slots
}

func setPosition(squad []player.Player, pos player.Position, ids ...int64) {
	for i := range squad {
		if slices.Contains(ids, squad[i].ID) {
			squad[i].Position = pos
		}
	}
}

func TestValidateLineup(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(slots []lineup.Slot, squad []player.Player) ([]lineup.Slot, []player.Player)
		want   []Violation
	}{
		{
			name: "legal lineup",
			mutate: func(s []lineup.Slot, p []player.Player) ([]lineup.Slot, []player.Player) {
				return s, p
			},
		},
		{
			name: "stale role is ignored",
			mutate: func(s []lineup.Slot, p []player.Player) ([]lineup.Slot, []player.Player) {
				s[0].Role = player.PositionForward
				s[1].Role = player.PositionGoalkeeper
				return s, p
			},
		},
		{
			name: "starting goalkeeper swapped with bench forward",
			mutate: func(s []lineup.Slot, p []player.Player) ([]lineup.Slot, []player.Player) {
				s[0].PlayerID, s[14].PlayerID = s[14].PlayerID, s[0].PlayerID
				return s, p
			},
			want: []Violation{ViolationStartersNeedGoalkeeper},
		},
		{
			name: "two starting goalkeepers",
			mutate: func(s []lineup.Slot, p []player.Player) ([]lineup.Slot, []player.Player) {
				s[1].PlayerID, s[11].PlayerID = s[11].PlayerID, s[1].PlayerID
				return s, p
			},
			want: []Violation{ViolationStartersMaxGoalkeeper},
		},
		{
			name: "five starting forwards",
			mutate: func(s []lineup.Slot, p []player.Player) ([]lineup.Slot, []player.Player) {
				setPosition(p, player.PositionForward, 3, 4, 8)
				return s, p
			},
			want: []Violation{ViolationStartersMaxForwards},
		},
		{
			name: "no starting defender",
			mutate: func(s []lineup.Slot, p []player.Player) ([]lineup.Slot, []player.Player) {
				setPosition(p, player.PositionMidfielder, 3, 4, 5, 6)
				return s, p
			},
			want: []Violation{ViolationStartersNeedDefender},
		},
		{
			name: "no starting midfielder",
			mutate: func(s []lineup.Slot, p []player.Player) ([]lineup.Slot, []player.Player) {
				setPosition(p, player.PositionDefender, 8, 9, 10, 11)
				return s, p
			},
			want: []Violation{ViolationStartersNeedMidfielder},
		},
		{
			name: "no starting forward",
			mutate: func(s []lineup.Slot, p []player.Player) ([]lineup.Slot, []player.Player) {
				setPosition(p, player.PositionMidfielder, 13, 14)
				return s, p
			},
			want: []Violation{ViolationStartersNeedForward},
		},
		{
			name: "fourteen slots",
			mutate: func(s []lineup.Slot, p []player.Player) ([]lineup.Slot, []player.Player) {
				return s[:14], p
			},
			want: []Violation{ViolationLineupSlotCount, ViolationLineupStarterBench},
		},
		{
			name: "duplicate slot index",
			mutate: func(s []lineup.Slot, p []player.Player) ([]lineup.Slot, []player.Player) {
				s[1].Index = 0
				return s, p
			},
			want: []Violation{ViolationLineupSlotIndex},
		},
		{
			name: "twelve starters",
			mutate: func(s []lineup.Slot, p []player.Player) ([]lineup.Slot, []player.Player) {
				s[12].IsStarter = true
				return s, p
			},
			want: []Violation{ViolationLineupStarterBench},
		},
		{
			name: "empty bench slot",
			mutate: func(s []lineup.Slot, p []player.Player) ([]lineup.Slot, []player.Player) {
				s[14].PlayerID = nil
				return s, p
			},
			want: []Violation{ViolationLineupEmptySlots},
		},
		{
			name: "duplicate player across slots",
			mutate: func(s []lineup.Slot, p []player.Player) ([]lineup.Slot, []player.Player) {
				s[14].PlayerID = int64Ptr(13)
				return s, p
			},
			want: []Violation{ViolationLineupDuplicatePlayers},
		},
		{
			name: "player outside squad",
			mutate: func(s []lineup.Slot, p []player.Player) ([]lineup.Slot, []player.Player) {
				s[14].PlayerID = int64Ptr(99)
				return s, p
			},
			want: []Violation{ViolationLineupNotInSquad},
		},
		{
			name: "empty lineup",
			mutate: func(_ []lineup.Slot, p []player.Player) ([]lineup.Slot, []player.Player) {
				return nil, p
			},
			want: []Violation{
				ViolationLineupSlotCount,
				ViolationLineupStarterBench,
				ViolationStartersNeedGoalkeeper,
				ViolationStartersNeedDefender,
				ViolationStartersNeedMidfielder,
				ViolationStartersNeedForward,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slots, squad := tt.mutate(legalLineup(), legalSquad())
			got := ValidateLineup(slots, squad)
			if !slices.Equal(got, tt.want) {
				t.Fatalf("unexpected violations: got=%v want=%v", got, tt.want)
			}
		})
	}
}

func TestValidateCaptaincy(t *testing.T) {
	tests := []struct {
		name    string
		captain *int64
		vice    *int64
		want    []Violation
	}{
		{name: "both starters", captain: int64Ptr(8), vice: int64Ptr(13)},
		{name: "unset"},
		{name: "captain on bench", captain: int64Ptr(2), vice: int64Ptr(13), want: []Violation{ViolationCaptainNotStarter}},
		{name: "vice on bench", captain: int64Ptr(8), vice: int64Ptr(15), want: []Violation{ViolationViceCaptainNotStarter}},
		{name: "same player", captain: int64Ptr(8), vice: int64Ptr(8), want: []Violation{ViolationCaptainSameAsVice}},
		{
			name:    "same bench player",
			captain: int64Ptr(7),
			vice:    int64Ptr(7),
			want:    []Violation{ViolationCaptainNotStarter, ViolationViceCaptainNotStarter, ViolationCaptainSameAsVice},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateCaptaincy(legalLineup(), tt.captain, tt.vice)
			if !slices.Equal(got, tt.want) {
				t.Fatalf("unexpected violations: got=%v want=%v", got, tt.want)
			}
		})
	}
}
