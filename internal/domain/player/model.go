package player

import (
	"fmt"
	"math"
	"strings"
)

// Position represents football position categories used in fantasy rules.
type Position string

const (
	PositionGoalkeeper Position = "GK"
	PositionDefender   Position = "DEF"
	PositionMidfielder Position = "MID"
	PositionForward    Position = "FWD"
)

var AllPositions = map[Position]struct{}{
	PositionGoalkeeper: {},
	PositionDefender:   {},
	PositionMidfielder: {},
	PositionForward:    {},
}

// OrderedPositions lists positions in squad display order.
var OrderedPositions = []Position{
	PositionGoalkeeper,
	PositionDefender,
	PositionMidfielder,
	PositionForward,
}

// ParsePosition accepts both short codes and provider spellings.
func ParsePosition(value string) (Position, error) {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "GK", "GKP", "GOALKEEPER":
		return PositionGoalkeeper, nil
	case "DEF", "DEFENDER":
		return PositionDefender, nil
	case "MID", "MIDFIELDER":
		return PositionMidfielder, nil
	case "FWD", "FW", "FORWARD", "ATTACKER":
		return PositionForward, nil
	default:
		return "", fmt.Errorf("invalid player position: %s", value)
	}
}

// Player is the read-only catalog projection of a selectable athlete.
// Prices carry one decimal of real precision.
type Player struct {
	ID          int64
	Name        string
	Position    Position
	ClubID      int64
	Price       float64
	PriceDelta  *float64
	IsInjured   bool
	TotalPoints float64
	RoundPoints *float64
}

func (p Player) Validate() error {
	if p.ID <= 0 {
		return fmt.Errorf("player id must be greater than zero")
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("player name is required")
	}
	if _, ok := AllPositions[p.Position]; !ok {
		return fmt.Errorf("invalid player position: %s", p.Position)
	}
	if p.ClubID <= 0 {
		return fmt.Errorf("player club id is required")
	}
	if p.Price < 0 || math.IsNaN(p.Price) || math.IsInf(p.Price, 0) {
		return fmt.Errorf("player price must be a non-negative number")
	}

	return nil
}

// IndexByID builds a lookup keyed by player id. Later duplicates win.
func IndexByID(players []Player) map[int64]Player {
	out := make(map[int64]Player, len(players))
	for _, p := range players {
		out[p.ID] = p
	}
	return out
}
