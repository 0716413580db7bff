package fantasy

import (
	"github.com/riskibarqy/fantasy-roster/internal/domain/lineup"
	"github.com/riskibarqy/fantasy-roster/internal/domain/player"
)

// ValidateLineup runs the lineup checks with default rules.
func ValidateLineup(slots []lineup.Slot, squad []player.Player) []Violation {
	return DefaultRules().ValidateLineup(slots, squad)
}

// ValidateLineup returns every violated lineup rule in display order.
// Starter composition is counted from each player's position in squad, never
// from the slot role.
func (r Rules) ValidateLineup(slots []lineup.Slot, squad []player.Player) []Violation {
	var violations []Violation

	if len(slots) != r.StarterCount+r.BenchCount {
		violations = append(violations, ViolationLineupSlotCount)
	}

	indexes := make(map[int]struct{}, len(slots))
	duplicateIndex := false
	starters, bench := 0, 0
	emptySlot := false
	for _, slot := range slots {
		if _, ok := indexes[slot.Index]; ok {
			duplicateIndex = true
		}
		indexes[slot.Index] = struct{}{}
		if slot.IsStarter {
			starters++
		} else {
			bench++
		}
		if slot.PlayerID == nil {
			emptySlot = true
		}
	}
	if duplicateIndex {
		violations = append(violations, ViolationLineupSlotIndex)
	}
	if starters != r.StarterCount || bench != r.BenchCount {
		violations = append(violations, ViolationLineupStarterBench)
	}
	if emptySlot {
		violations = append(violations, ViolationLineupEmptySlots)
	}

	squadByID := player.IndexByID(squad)
	seen := make(map[int64]struct{}, len(slots))
	duplicatePlayer := false
	outsideSquad := false
	starterPositions := make(map[player.Position]int, len(player.AllPositions))
	for _, slot := range slots {
		if slot.PlayerID == nil {
			continue
		}
		id := *slot.PlayerID
		if _, ok := seen[id]; ok {
			duplicatePlayer = true
		}
		seen[id] = struct{}{}

		member, ok := squadByID[id]
		if !ok {
			outsideSquad = true
			continue
		}
		if slot.IsStarter {
			starterPositions[member.Position]++
		}
	}
	if duplicatePlayer {
		violations = append(violations, ViolationLineupDuplicatePlayers)
	}
	if outsideSquad {
		violations = append(violations, ViolationLineupNotInSquad)
	}

	goalkeepers := starterPositions[player.PositionGoalkeeper]
	if goalkeepers == 0 {
		violations = append(violations, ViolationStartersNeedGoalkeeper)
	}
	if goalkeepers >= 2 {
		violations = append(violations, ViolationStartersMaxGoalkeeper)
	}
	if starterPositions[player.PositionDefender] < 1 {
		violations = append(violations, ViolationStartersNeedDefender)
	}
	if starterPositions[player.PositionMidfielder] < 1 {
		violations = append(violations, ViolationStartersNeedMidfielder)
	}
	forwards := starterPositions[player.PositionForward]
	if forwards < r.StarterForwards.Min {
		violations = append(violations, ViolationStartersNeedForward)
	}
	if forwards > r.StarterForwards.Max {
		violations = append(violations, ViolationStartersMaxForwards)
	}

	return violations
}

// ValidateCaptaincy is the pre-save guard for captain assignments. Either id
// may be nil; any id that is set must point at a starter.
func ValidateCaptaincy(slots []lineup.Slot, captainID, viceCaptainID *int64) []Violation {
	starters := make(map[int64]struct{}, lineup.StarterCount)
	for _, slot := range slots {
		if slot.IsStarter && slot.PlayerID != nil {
			starters[*slot.PlayerID] = struct{}{}
		}
	}

	var violations []Violation
	if captainID != nil {
		if _, ok := starters[*captainID]; !ok {
			violations = append(violations, ViolationCaptainNotStarter)
		}
	}
	if viceCaptainID != nil {
		if _, ok := starters[*viceCaptainID]; !ok {
			violations = append(violations, ViolationViceCaptainNotStarter)
		}
	}
	if captainID != nil && viceCaptainID != nil && *captainID == *viceCaptainID {
		violations = append(violations, ViolationCaptainSameAsVice)
	}

	return violations
}
