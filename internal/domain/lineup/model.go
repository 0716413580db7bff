package lineup

import (
	"time"

	"github.com/riskibarqy/fantasy-roster/internal/domain/player"
)

const (
	SlotCount    = 15
	StarterCount = 11
	BenchCount   = 4
)

// Slot is one ordered position in a round lineup. Role is a display hint that
// can go stale after transfers; the live catalog position is authoritative.
type Slot struct {
	Index           int
	IsStarter       bool
	Role            player.Position
	PlayerID        *int64
	RoundPoints     *float64
	PointsWithBonus *float64
}

// Lineup stores one team's lineup for a round.
type Lineup struct {
	TeamID        string
	RoundID       int64
	Slots         []Slot
	CaptainID     *int64
	ViceCaptainID *int64
	Closed        bool
	UpdatedAt     time.Time
}

// Starters returns the starter slots in index order of the input.
func (l Lineup) Starters() []Slot {
	out := make([]Slot, 0, StarterCount)
	for _, slot := range l.Slots {
		if slot.IsStarter {
			out = append(out, slot)
		}
	}
	return out
}

// PlayerIDs returns every non-empty slot player id.
func PlayerIDs(slots []Slot) []int64 {
	out := make([]int64, 0, len(slots))
	for _, slot := range slots {
		if slot.PlayerID != nil {
			out = append(out, *slot.PlayerID)
		}
	}
	return out
}

// CloneSlots deep-copies slot pointers so callers cannot alias stored state.
func CloneSlots(slots []Slot) []Slot {
	if slots == nil {
		return nil
	}
	out := make([]Slot, len(slots))
	for i, slot := range slots {
		out[i] = slot
		out[i].PlayerID = cloneInt64(slot.PlayerID)
		out[i].RoundPoints = cloneFloat(slot.RoundPoints)
		out[i].PointsWithBonus = cloneFloat(slot.PointsWithBonus)
	}
	return out
}

func (l Lineup) Clone() Lineup {
	out := l
	out.Slots = CloneSlots(l.Slots)
	out.CaptainID = cloneInt64(l.CaptainID)
	out.ViceCaptainID = cloneInt64(l.ViceCaptainID)
	return out
}

func cloneInt64(v *int64) *int64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
