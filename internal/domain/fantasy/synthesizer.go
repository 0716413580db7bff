package fantasy

import (
	"cmp"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/riskibarqy/fantasy-roster/internal/domain/player"
)

const DefaultSynthesisAttempts = 600

var (
	ErrNilCatalog       = errors.New("catalog is required")
	ErrNotEnoughPlayers = errors.New("not enough players in position")
	ErrNoValidSquad     = errors.New("no valid squad could be generated")
)

// PositionShortageError reports a catalog too small to fill a position quota.
type PositionShortageError struct {
	Position  player.Position
	Required  int
	Available int
}

func (e *PositionShortageError) Error() string {
	return fmt.Sprintf("%s: position=%s required=%d available=%d", ErrNotEnoughPlayers, e.Position, e.Required, e.Available)
}

func (e *PositionShortageError) Unwrap() error {
	return ErrNotEnoughPlayers
}

// Violation maps the shortage to its per-position code.
func (e *PositionShortageError) Violation() Violation {
	switch e.Position {
	case player.PositionGoalkeeper:
		return ViolationNotEnoughGoalkeepers
	case player.PositionDefender:
		return ViolationNotEnoughDefenders
	case player.PositionMidfielder:
		return ViolationNotEnoughMidfielders
	case player.PositionForward:
		return ViolationNotEnoughForwards
	default:
		return Violation("not_enough_" + strings.ToLower(string(e.Position)))
	}
}

// Synthesis is a generated legal squad. On ErrNoValidSquad only Attempts is set.
type Synthesis struct {
	Players  []player.Player
	Attempts int
	Fallback bool
}

type SynthesizerOption func(*Synthesizer)

// WithAttempts bounds the random phase.
func WithAttempts(n int) SynthesizerOption {
	return func(s *Synthesizer) {
		if n > 0 {
			s.attempts = n
		}
	}
}

// WithRandSource replaces the per-call generator factory.
func WithRandSource(newRand func() *rand.Rand) SynthesizerOption {
	return func(s *Synthesizer) {
		if newRand != nil {
			s.newRand = newRand
		}
	}
}

// WithSeed makes every call replay the same random sequence.
func WithSeed(seed uint64) SynthesizerOption {
	return WithRandSource(func() *rand.Rand {
		return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	})
}

// Synthesizer builds a random legal squad, falling back to a deterministic
// cheapest-first construction when sampling does not land one.
// It is safe for concurrent use; every call owns its generator.
type Synthesizer struct {
	rules    Rules
	attempts int
	newRand  func() *rand.Rand
}

func NewSynthesizer(rules Rules, opts ...SynthesizerOption) *Synthesizer {
	s := &Synthesizer{
		rules:    rules,
		attempts: DefaultSynthesisAttempts,
		newRand: func() *rand.Rand {
			return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Synthesizer) Synthesize(catalog []player.Player, budgetCap float64) (Synthesis, error) {
	if catalog == nil {
		return Synthesis{}, ErrNilCatalog
	}

	pools := partitionByPosition(catalog)
	for _, pos := range player.OrderedPositions {
		required := s.rules.Quota(pos).Min
		if len(pools[pos]) < required {
			return Synthesis{}, &PositionShortageError{Position: pos, Required: required, Available: len(pools[pos])}
		}
	}

	combos := s.rules.OutfieldCombos()
	if len(combos) == 0 {
		return Synthesis{}, ErrNoValidSquad
	}

	rng := s.newRand()
	for attempt := 1; attempt <= s.attempts; attempt++ {
		combo := combos[rng.IntN(len(combos))]
		candidate, ok := s.sample(rng, pools, combo)
		if !ok {
			continue
		}
		if len(s.rules.ValidateSquad(candidate, budgetCap)) == 0 {
			return Synthesis{Players: candidate, Attempts: attempt}, nil
		}
	}

	candidate, ok := s.cheapestFirst(pools)
	if ok && len(s.rules.ValidateSquad(candidate, budgetCap)) == 0 {
		return Synthesis{Players: candidate, Attempts: s.attempts, Fallback: true}, nil
	}

	return Synthesis{Attempts: s.attempts, Fallback: true}, ErrNoValidSquad
}

// sample draws each position in random order, accepting players while the
// club cap across the whole candidate holds.
func (s *Synthesizer) sample(rng *rand.Rand, pools map[player.Position][]player.Player, combo Formation) ([]player.Player, bool) {
	squad := make([]player.Player, 0, s.rules.SquadSize)
	clubs := make(map[int64]int)

	for _, pos := range player.OrderedPositions {
		target := combo.Count(pos, s.rules.Goalkeepers)
		pool := pools[pos]
		accepted := 0
		for _, i := range rng.Perm(len(pool)) {
			if accepted == target {
				break
			}
			candidate := pool[i]
			if clubs[candidate.ClubID] >= s.rules.MaxPlayersPerClub {
				continue
			}
			clubs[candidate.ClubID]++
			squad = append(squad, candidate)
			accepted++
		}
		if accepted < target {
			return nil, false
		}
	}

	return squad, true
}

// cheapestFirst fills every position minimum by ascending price, then tops up
// to the squad size from any position still under its maximum.
func (s *Synthesizer) cheapestFirst(pools map[player.Position][]player.Player) ([]player.Player, bool) {
	squad := make([]player.Player, 0, s.rules.SquadSize)
	taken := make(map[int64]struct{}, s.rules.SquadSize)
	clubs := make(map[int64]int)
	positions := make(map[player.Position]int, len(player.AllPositions))

	take := func(p player.Player) bool {
		if _, ok := taken[p.ID]; ok {
			return false
		}
		if clubs[p.ClubID] >= s.rules.MaxPlayersPerClub {
			return false
		}
		if positions[p.Position] >= s.rules.Quota(p.Position).Max {
			return false
		}
		taken[p.ID] = struct{}{}
		clubs[p.ClubID]++
		positions[p.Position]++
		squad = append(squad, p)
		return true
	}

	rest := make([]player.Player, 0)
	for _, pos := range player.OrderedPositions {
		pool := sortedByPrice(pools[pos])
		required := s.rules.Quota(pos).Min
		for _, p := range pool {
			if positions[pos] == required {
				break
			}
			take(p)
		}
		if positions[pos] < required {
			return nil, false
		}
		rest = append(rest, pool...)
	}

	for _, p := range sortedByPrice(rest) {
		if len(squad) == s.rules.SquadSize {
			break
		}
		take(p)
	}

	return squad, len(squad) == s.rules.SquadSize
}

func partitionByPosition(catalog []player.Player) map[player.Position][]player.Player {
	pools := make(map[player.Position][]player.Player, len(player.AllPositions))
	seen := make(map[int64]struct{}, len(catalog))
	for _, p := range catalog {
		if _, ok := seen[p.ID]; ok {
			continue
		}
		seen[p.ID] = struct{}{}
		pools[p.Position] = append(pools[p.Position], p)
	}
	return pools
}

func sortedByPrice(players []player.Player) []player.Player {
	out := slices.Clone(players)
	slices.SortStableFunc(out, func(a, b player.Player) int {
		if c := cmp.Compare(a.Price, b.Price); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}
