package usecase

import (
	"testing"

	"github.com/riskibarqy/fantasy-roster/internal/domain/fantasy"
	"github.com/riskibarqy/fantasy-roster/internal/domain/lineup"
	"github.com/riskibarqy/fantasy-roster/internal/domain/player"
	"github.com/riskibarqy/fantasy-roster/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/fantasy-roster/internal/platform/logging"
)

type staticIDGenerator struct {
	id string
}

func (g staticIDGenerator) NewID() (string, error) {
	return g.id, nil
}

type testRepos struct {
	players   *memory.PlayerRepository
	clubs     *memory.ClubRepository
	rounds    *memory.RoundRepository
	squads    *memory.SquadRepository
	transfers *memory.TransferRepository
	lineups   *memory.LineupRepository
}

func newTestRepos() testRepos {
	squads := memory.NewSquadRepository()
	return testRepos{
		players:   memory.NewPlayerRepository(memory.SeedPlayers()),
		clubs:     memory.NewClubRepository(memory.SeedClubs()),
		rounds:    memory.NewRoundRepository(memory.SeedRounds()),
		squads:    squads,
		transfers: memory.NewTransferRepository(squads),
		lineups:   memory.NewLineupRepository(),
	}
}

func newTestSquadService(repos testRepos, rules fantasy.Rules, opts ...fantasy.SynthesizerOption) *SquadService {
	return NewSquadService(
		repos.players,
		repos.squads,
		repos.transfers,
		repos.rounds,
		rules,
		fantasy.NewSynthesizer(rules, opts...),
		staticIDGenerator{id: "squad-001"},
		nil,
		logging.NewNop(),
	)
}

func newTestLineupService(repos testRepos) *LineupService {
	return NewLineupService(
		repos.players,
		repos.squads,
		repos.lineups,
		repos.rounds,
		fantasy.DefaultRules(),
		nil,
		logging.NewNop(),
	)
}

// seededSquadIDs is a legal seed squad costing 78.0: 2 GK, 5 DEF, 5 MID,
// 3 FWD with no club above three players.
func seededSquadIDs() []int64 {
	return []int64{
		201, 401,
		102, 202, 302, 402, 602,
		105, 205, 305, 505, 605,
		508, 608, 108,
	}
}

// seededLineupSlots starts 1 GK, 4 DEF, 4 MID and 2 FWD from seededSquadIDs.
func seededLineupSlots() []lineup.Slot {
	starters := []int64{201, 102, 202, 302, 402, 105, 205, 305, 505, 508, 608}
	bench := []int64{401, 602, 605, 108}

	slots := make([]lineup.Slot, 0, lineup.SlotCount)
	for _, id := range starters {
		slots = append(slots, lineup.Slot{Index: len(slots), IsStarter: true, PlayerID: int64Ptr(id)})
	}
	for _, id := range bench {
		slots = append(slots, lineup.Slot{Index: len(slots), PlayerID: int64Ptr(id)})
	}
	return slots
}

func saveSeededSquad(t *testing.T, service *SquadService, teamID string) fantasy.Squad {
	t.Helper()

	squad, err := service.SaveSquad(t.Context(), SaveSquadInput{
		TeamID:    teamID,
		Name:      "Garuda FC",
		PlayerIDs: seededSquadIDs(),
	})
	if err != nil {
		t.Fatalf("save seeded squad: %v", err)
	}
	return squad
}

func setRoundPoints(t *testing.T, repo *memory.PlayerRepository, points map[int64]float64) {
	t.Helper()

	ids := make([]int64, 0, len(points))
	for id := range points {
		ids = append(ids, id)
	}
	items, err := repo.GetByIDs(t.Context(), ids)
	if err != nil {
		t.Fatalf("get players: %v", err)
	}

	updated := make([]player.Player, 0, len(items))
	for _, p := range items {
		v := points[p.ID]
		p.RoundPoints = &v
		updated = append(updated, p)
	}
	if err := repo.UpsertPlayers(t.Context(), updated); err != nil {
		t.Fatalf("upsert players: %v", err)
	}
}

func int64Ptr(v int64) *int64 {
	return &v
}

func assertViolations(t *testing.T, err error, want ...fantasy.Violation) {
	t.Helper()

	got := ViolationCodes(err)
	if len(got) != len(want) {
		t.Fatalf("unexpected violations: got=%v want=%v (err=%v)", got, want, err)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unexpected violation at %d: got=%v want=%v", i, got, want)
		}
	}
}
