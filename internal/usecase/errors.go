package usecase

import (
	"errors"
	"fmt"
	"strings"

	"github.com/riskibarqy/fantasy-roster/internal/domain/fantasy"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	ErrRuleViolation         = errors.New("roster rule violation")
)

// ViolationError carries every rule code that blocked a write. Cause, when
// set, is the engine error the codes were derived from.
type ViolationError struct {
	Codes []fantasy.Violation
	Cause error
}

func newViolationError(codes ...fantasy.Violation) *ViolationError {
	return &ViolationError{Codes: append([]fantasy.Violation(nil), codes...)}
}

func (e *ViolationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrRuleViolation, strings.Join(fantasy.Codes(e.Codes), ","))
}

func (e *ViolationError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrRuleViolation}
	}
	return []error{ErrRuleViolation, e.Cause}
}

// ViolationCodes extracts rule codes from err, or nil when err is not a
// rule violation.
func ViolationCodes(err error) []fantasy.Violation {
	var violationErr *ViolationError
	if errors.As(err, &violationErr) {
		return violationErr.Codes
	}
	return nil
}
