package round

import (
	"fmt"
	"strings"
	"time"
)

const (
	StatusOpen   = "OPEN"
	StatusClosed = "CLOSED"
)

// Round is one gameweek during which lineups may be edited until it closes.
type Round struct {
	ID       int64
	Number   int
	Status   string
	Deadline time.Time
	ClosedAt *time.Time
}

func NormalizeStatus(value string) string {
	status := strings.ToUpper(strings.TrimSpace(value))
	if status == "" {
		return StatusOpen
	}
	return status
}

func (r Round) IsOpen() bool {
	return NormalizeStatus(r.Status) == StatusOpen
}

func (r Round) Validate() error {
	if r.ID <= 0 {
		return fmt.Errorf("round id must be greater than zero")
	}
	if r.Number <= 0 {
		return fmt.Errorf("round number must be greater than zero")
	}
	switch NormalizeStatus(r.Status) {
	case StatusOpen, StatusClosed:
	default:
		return fmt.Errorf("invalid round status: %s", r.Status)
	}

	return nil
}
