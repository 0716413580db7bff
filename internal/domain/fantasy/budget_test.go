package fantasy

import (
	"slices"
	"testing"

	"github.com/riskibarqy/fantasy-roster/internal/domain/player"
)

func TestBudgetLeft(t *testing.T) {
	tests := []struct {
		name string
		cap  float64
		used float64
		want float64
	}{
		{name: "noise inside zero band", cap: 100, used: 100.049999, want: 0},
		{name: "one tenth left", cap: 100, used: 99.9, want: 0.1},
		{name: "exact spend", cap: 100, used: 100, want: 0},
		{name: "overspent", cap: 100, used: 100.1, want: -0.1},
		{name: "plenty left", cap: 100, used: 83.5, want: 16.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BudgetLeft(tt.cap, tt.used); got != tt.want {
				t.Fatalf("unexpected budget left: got=%v want=%v", got, tt.want)
			}
		})
	}
}

func TestRound1_HalfUp(t *testing.T) {
	cases := map[float64]float64{
		0.25: 0.3,
		0.35: 0.4,
		1.04: 1.0,
		7.45: 7.5,
		0:    0,
	}
	for in, want := range cases {
		if got := Round1(in); got != want {
			t.Fatalf("Round1(%v): got=%v want=%v", in, got, want)
		}
	}
}

func TestBudgetUsed(t *testing.T) {
	if got := BudgetUsed(legalSquad()); got != 90 {
		t.Fatalf("unexpected budget used: %v", got)
	}

	players := []player.Player{{ID: 1, Price: 0.1}, {ID: 2, Price: 0.2}}
	if got := BudgetUsed(players); got != 0.3 {
		t.Fatalf("expected float noise rounded away, got %v", got)
	}
}

func TestPreviewTransfers(t *testing.T) {
	squad := legalSquad()
	saved := squad[:5]

	draft := []player.Player{squad[0], squad[1], squad[10], squad[11], squad[2]}
	preview := PreviewTransfers(saved, draft)

	if preview.Count != 2 {
		t.Fatalf("expected 2 transfers, got %d", preview.Count)
	}
	if got := playerIDs(preview.Outgoing); !slices.Equal(got, []int64{4, 5}) {
		t.Fatalf("unexpected outgoing: %v", got)
	}
	if got := playerIDs(preview.Incoming); !slices.Equal(got, []int64{11, 12}) {
		t.Fatalf("unexpected incoming: %v", got)
	}
	if preview.Pairs[0].Out.ID != 4 || preview.Pairs[0].In.ID != 11 {
		t.Fatalf("unexpected first pair: %+v", preview.Pairs[0])
	}
	if preview.Pairs[1].Out.ID != 5 || preview.Pairs[1].In.ID != 12 {
		t.Fatalf("unexpected second pair: %+v", preview.Pairs[1])
	}
}

func TestPreviewTransfers_UnmatchedChangesNotCounted(t *testing.T) {
	squad := legalSquad()
	saved := squad[:5]
	draft := []player.Player{squad[0], squad[1], squad[2], squad[10]}

	preview := PreviewTransfers(saved, draft)
	if preview.Count != 1 {
		t.Fatalf("expected 1 paired transfer, got %d", preview.Count)
	}
	if len(preview.Outgoing) != 2 || len(preview.Incoming) != 1 {
		t.Fatalf("unexpected diff sizes: out=%d in=%d", len(preview.Outgoing), len(preview.Incoming))
	}

	none := PreviewTransfers(saved, saved)
	if none.Count != 0 || len(none.Pairs) != 0 {
		t.Fatalf("expected no transfers for identical squads, got %+v", none)
	}
}

func playerIDs(players []player.Player) []int64 {
	out := make([]int64, 0, len(players))
	for _, p := range players {
		out = append(out, p.ID)
	}
	return out
}
