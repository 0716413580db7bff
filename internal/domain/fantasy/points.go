package fantasy

import "github.com/riskibarqy/fantasy-roster/internal/domain/lineup"

const (
	CaptainMultiplier     = 3
	ViceCaptainMultiplier = 2
)

// SlotPoints is the scoring row for one lineup slot.
type SlotPoints struct {
	Index      int
	PlayerID   *int64
	IsStarter  bool
	Base       float64
	Multiplier int
	Total      float64
	Settled    bool
}

// ResolveSlotPoints scores every slot. A settled figure (PointsWithBonus) is
// used as-is; otherwise raw round points apply with the captain tripled.
// Missing points count as zero and bench slots never contribute.
// The vice-captain is not promoted here: that substitution happens when a
// round is settled.
func ResolveSlotPoints(slots []lineup.Slot, captainID, viceCaptainID *int64) []SlotPoints {
	rows := make([]SlotPoints, 0, len(slots))
	for _, slot := range slots {
		row := SlotPoints{
			Index:      slot.Index,
			PlayerID:   slot.PlayerID,
			IsStarter:  slot.IsStarter,
			Multiplier: 1,
		}

		switch {
		case slot.PointsWithBonus != nil:
			row.Base = *slot.PointsWithBonus
			row.Settled = true
		case slot.RoundPoints != nil:
			row.Base = *slot.RoundPoints
			if isPlayer(slot.PlayerID, captainID) {
				row.Multiplier = CaptainMultiplier
			}
		}

		if slot.IsStarter && slot.PlayerID != nil {
			row.Total = row.Base * float64(row.Multiplier)
		} else {
			row.Multiplier = 0
		}
		rows = append(rows, row)
	}

	return rows
}

// ResolveRoundPoints sums the starters' effective round points.
func ResolveRoundPoints(slots []lineup.Slot, captainID, viceCaptainID *int64) float64 {
	var total float64
	for _, row := range ResolveSlotPoints(slots, captainID, viceCaptainID) {
		total += row.Total
	}
	return total
}

// SettleCaptaincy attaches PointsWithBonus to starters when a round closes.
// The captain is tripled when they have round points; otherwise the
// vice-captain is doubled. Starters without points settle at zero and bench
// slots carry no bonus figure.
func SettleCaptaincy(slots []lineup.Slot, captainID, viceCaptainID *int64) []lineup.Slot {
	out := lineup.CloneSlots(slots)

	captainPlayed := false
	for _, slot := range out {
		if slot.IsStarter && isPlayer(slot.PlayerID, captainID) && slot.RoundPoints != nil {
			captainPlayed = true
			break
		}
	}

	for i := range out {
		slot := &out[i]
		if !slot.IsStarter || slot.PlayerID == nil {
			slot.PointsWithBonus = nil
			continue
		}

		var base float64
		if slot.RoundPoints != nil {
			base = *slot.RoundPoints
		}
		multiplier := 1
		switch {
		case captainPlayed && isPlayer(slot.PlayerID, captainID):
			multiplier = CaptainMultiplier
		case !captainPlayed && isPlayer(slot.PlayerID, viceCaptainID):
			multiplier = ViceCaptainMultiplier
		}
		settled := base * float64(multiplier)
		slot.PointsWithBonus = &settled
	}

	return out
}

func isPlayer(slotPlayerID, target *int64) bool {
	return slotPlayerID != nil && target != nil && *slotPlayerID == *target
}
