package fantasy

import (
	"errors"
	"fmt"

	"github.com/riskibarqy/fantasy-roster/internal/domain/player"
)

var ErrInvalidRules = errors.New("invalid roster rules")

// Range is an inclusive count window.
type Range struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

func (r Range) Contains(n int) bool {
	return n >= r.Min && n <= r.Max
}

// Rules stores fantasy roster validation parameters.
type Rules struct {
	SquadSize         int     `yaml:"squad_size"`
	Goalkeepers       int     `yaml:"goalkeepers"`
	Defenders         Range   `yaml:"defenders"`
	Midfielders       Range   `yaml:"midfielders"`
	Forwards          Range   `yaml:"forwards"`
	MaxPlayersPerClub int     `yaml:"max_players_per_club"`
	BudgetCap         float64 `yaml:"budget_cap"`
	BudgetTolerance   float64 `yaml:"budget_tolerance"`
	StarterCount      int     `yaml:"starter_count"`
	BenchCount        int     `yaml:"bench_count"`
	StarterForwards   Range   `yaml:"starter_forwards"`
}

func DefaultRules() Rules {
	return Rules{
		SquadSize:         15,
		Goalkeepers:       2,
		Defenders:         Range{Min: 3, Max: 6},
		Midfielders:       Range{Min: 3, Max: 6},
		Forwards:          Range{Min: 1, Max: 3},
		MaxPlayersPerClub: 3,
		BudgetCap:         100.0,
		BudgetTolerance:   1e-6,
		StarterCount:      11,
		BenchCount:        4,
		StarterForwards:   Range{Min: 1, Max: 4},
	}
}

// Validate checks the rules can describe at least one legal squad.
func (r Rules) Validate() error {
	if r.SquadSize <= 0 {
		return fmt.Errorf("%w: squad size must be > 0", ErrInvalidRules)
	}
	if r.Goalkeepers <= 0 {
		return fmt.Errorf("%w: goalkeepers must be > 0", ErrInvalidRules)
	}
	for name, rng := range map[string]Range{
		"defenders":        r.Defenders,
		"midfielders":      r.Midfielders,
		"forwards":         r.Forwards,
		"starter_forwards": r.StarterForwards,
	} {
		if rng.Min < 0 || rng.Max < rng.Min {
			return fmt.Errorf("%w: %s range [%d,%d] is invalid", ErrInvalidRules, name, rng.Min, rng.Max)
		}
	}
	if r.MaxPlayersPerClub <= 0 {
		return fmt.Errorf("%w: max players per club must be > 0", ErrInvalidRules)
	}
	if r.BudgetCap <= 0 {
		return fmt.Errorf("%w: budget cap must be > 0", ErrInvalidRules)
	}
	if r.BudgetTolerance < 0 {
		return fmt.Errorf("%w: budget tolerance must be >= 0", ErrInvalidRules)
	}
	if r.StarterCount <= 0 || r.BenchCount < 0 || r.StarterCount+r.BenchCount != r.SquadSize {
		return fmt.Errorf("%w: starters plus bench must equal squad size", ErrInvalidRules)
	}
	if len(r.OutfieldCombos()) == 0 {
		return fmt.Errorf("%w: no outfield split fills %d outfield places", ErrInvalidRules, r.OutfieldSize())
	}

	return nil
}

// OutfieldSize is the number of non-goalkeeper places in a squad.
func (r Rules) OutfieldSize() int {
	return r.SquadSize - r.Goalkeepers
}

// Quota returns the inclusive squad count window for a position.
func (r Rules) Quota(pos player.Position) Range {
	switch pos {
	case player.PositionGoalkeeper:
		return Range{Min: r.Goalkeepers, Max: r.Goalkeepers}
	case player.PositionDefender:
		return r.Defenders
	case player.PositionMidfielder:
		return r.Midfielders
	case player.PositionForward:
		return r.Forwards
	default:
		return Range{}
	}
}

// Formation is one outfield split of a squad.
type Formation struct {
	Defenders   int
	Midfielders int
	Forwards    int
}

func (f Formation) Count(pos player.Position, goalkeepers int) int {
	switch pos {
	case player.PositionGoalkeeper:
		return goalkeepers
	case player.PositionDefender:
		return f.Defenders
	case player.PositionMidfielder:
		return f.Midfielders
	case player.PositionForward:
		return f.Forwards
	default:
		return 0
	}
}

// OutfieldCombos enumerates every (D, M, F) inside the position windows whose
// sum equals the outfield size.
func (r Rules) OutfieldCombos() []Formation {
	out := make([]Formation, 0, 16)
	for d := r.Defenders.Min; d <= r.Defenders.Max; d++ {
		for m := r.Midfielders.Min; m <= r.Midfielders.Max; m++ {
			f := r.OutfieldSize() - d - m
			if r.Forwards.Contains(f) {
				out = append(out, Formation{Defenders: d, Midfielders: m, Forwards: f})
			}
		}
	}
	return out
}

// ValidateSquad runs the squad checks with default rules.
func ValidateSquad(players []player.Player, budgetCap float64) []Violation {
	return DefaultRules().ValidateSquad(players, budgetCap)
}

// ValidateSquad returns every violated squad rule in display order.
// All checks run so members present in a partial squad are still judged.
func (r Rules) ValidateSquad(players []player.Player, budgetCap float64) []Violation {
	var violations []Violation

	if len(players) != r.SquadSize {
		violations = append(violations, ViolationSquadSize)
	}

	seen := make(map[int64]struct{}, len(players))
	positions := make(map[player.Position]int, len(player.AllPositions))
	clubs := make(map[int64]int)
	var total float64
	for _, p := range players {
		seen[p.ID] = struct{}{}
		positions[p.Position]++
		clubs[p.ClubID]++
		total += p.Price
	}

	if len(seen) != len(players) {
		violations = append(violations, ViolationSquadDuplicatePlayers)
	}
	if positions[player.PositionGoalkeeper] != r.Goalkeepers {
		violations = append(violations, ViolationSquadGoalkeepers)
	}
	if !r.Defenders.Contains(positions[player.PositionDefender]) {
		violations = append(violations, ViolationSquadDefendersRange)
	}
	if !r.Midfielders.Contains(positions[player.PositionMidfielder]) {
		violations = append(violations, ViolationSquadMidfieldersRange)
	}
	if !r.Forwards.Contains(positions[player.PositionForward]) {
		violations = append(violations, ViolationSquadForwardsRange)
	}
	for _, count := range clubs {
		if count > r.MaxPlayersPerClub {
			violations = append(violations, ViolationClubLimit)
			break
		}
	}
	if total > budgetCap+r.BudgetTolerance {
		violations = append(violations, ViolationBudgetExceeded)
	}

	return violations
}
