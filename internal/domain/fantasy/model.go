package fantasy

import (
	"fmt"
	"strings"
	"time"
)

// Squad is a team's 15-player roster. Player data is looked up from the
// catalog by id so validation always sees current prices and positions.
type Squad struct {
	ID        string
	TeamID    string
	Name      string
	PlayerIDs []int64
	BudgetCap float64
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (s Squad) ValidateBasic() error {
	if s.ID == "" {
		return fmt.Errorf("squad id is required")
	}
	if strings.TrimSpace(s.TeamID) == "" {
		return fmt.Errorf("team id is required")
	}
	if s.BudgetCap <= 0 {
		return fmt.Errorf("budget cap must be greater than zero")
	}
	if len(s.PlayerIDs) == 0 {
		return fmt.Errorf("squad players are required")
	}

	return nil
}

// Has reports whether the squad holds playerID.
func (s Squad) Has(playerID int64) bool {
	for _, id := range s.PlayerIDs {
		if id == playerID {
			return true
		}
	}
	return false
}

// Transfer records one out/in swap made during a round.
type Transfer struct {
	ID          string
	TeamID      string
	RoundID     int64
	OutPlayerID int64
	InPlayerID  int64
	CreatedAt   time.Time
}
