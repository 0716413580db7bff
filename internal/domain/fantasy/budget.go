package fantasy

import (
	"math"

	"github.com/riskibarqy/fantasy-roster/internal/domain/player"
)

// budgetZeroBand absorbs float noise in displayed remaining budget.
const budgetZeroBand = 0.05

// Round1 rounds half-up to one decimal place.
func Round1(v float64) float64 {
	rounded := math.Floor(v*10+0.5+1e-9) / 10
	if rounded == 0 {
		return 0
	}
	return rounded
}

// BudgetUsed is the rounded total current price of the members.
func BudgetUsed(players []player.Player) float64 {
	var total float64
	for _, p := range players {
		total += p.Price
	}
	return Round1(total)
}

// BudgetLeft is the rounded remaining budget; anything within 0.05 of zero is zero.
func BudgetLeft(budgetCap, used float64) float64 {
	left := budgetCap - used
	if math.Abs(left) < budgetZeroBand {
		return 0
	}
	return Round1(left)
}

// TransferPair matches the i-th outgoing player with the i-th incoming one.
type TransferPair struct {
	Out player.Player
	In  player.Player
}

// TransferPreview is the derived difference between a saved squad and a draft.
type TransferPreview struct {
	Outgoing []player.Player
	Incoming []player.Player
	Pairs    []TransferPair
	Count    int
}

// PreviewTransfers lists squad members missing from the draft (squad order)
// and draft members missing from the squad (draft order). Count is the number
// of positional pairs; unmatched additions or removals are not counted.
func PreviewTransfers(saved, draft []player.Player) TransferPreview {
	savedIDs := make(map[int64]struct{}, len(saved))
	for _, p := range saved {
		savedIDs[p.ID] = struct{}{}
	}
	draftIDs := make(map[int64]struct{}, len(draft))
	for _, p := range draft {
		draftIDs[p.ID] = struct{}{}
	}

	preview := TransferPreview{
		Outgoing: make([]player.Player, 0),
		Incoming: make([]player.Player, 0),
	}
	for _, p := range saved {
		if _, ok := draftIDs[p.ID]; !ok {
			preview.Outgoing = append(preview.Outgoing, p)
		}
	}
	for _, p := range draft {
		if _, ok := savedIDs[p.ID]; !ok {
			preview.Incoming = append(preview.Incoming, p)
		}
	}

	preview.Count = min(len(preview.Outgoing), len(preview.Incoming))
	preview.Pairs = make([]TransferPair, 0, preview.Count)
	for i := 0; i < preview.Count; i++ {
		preview.Pairs = append(preview.Pairs, TransferPair{Out: preview.Outgoing[i], In: preview.Incoming[i]})
	}

	return preview
}
