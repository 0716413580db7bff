package resilience

import (
	"errors"
	"testing"
	"time"
)

func TestCircuitBreaker_BasicTransitions(t *testing.T) {
	b := NewCircuitBreaker(2, 5*time.Second, 1)

	now := time.Date(2026, 2, 11, 12, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return now }

	if err := b.Allow(); err != nil {
		t.Fatalf("expected allow in closed state: %v", err)
	}

	b.RecordFailure()
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after first failure, got %s", state)
	}

	b.RecordFailure()
	if state := b.State(); state != CircuitStateOpen {
		t.Fatalf("expected open after threshold failures, got %s", state)
	}

	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected circuit open error, got %v", err)
	}

	now = now.Add(6 * time.Second)
	if err := b.Allow(); err != nil {
		t.Fatalf("expected half-open probe to pass, got %v", err)
	}
	if state := b.State(); state != CircuitStateHalfOpen {
		t.Fatalf("expected half-open state, got %s", state)
	}

	b.RecordSuccess()
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after successful half-open probe, got %s", state)
	}
}

func TestCircuitBreaker_ExecuteIgnoresUncountedErrors(t *testing.T) {
	b := NewCircuitBreakerFromConfig(CircuitBreakerConfig{Enabled: true, FailureThreshold: 1})

	var transitions []CircuitState
	b.OnStateChange(func(_, to CircuitState) { transitions = append(transitions, to) })

	errBadRequest := errors.New("bad request")
	errUpstream := errors.New("upstream down")
	transient := func(err error) bool { return errors.Is(err, errUpstream) }

	if err := b.Execute(func() error { return errBadRequest }, transient); !errors.Is(err, errBadRequest) {
		t.Fatalf("expected caller error passed through, got %v", err)
	}
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("uncounted error should keep breaker closed, got %s", state)
	}

	_ = b.Execute(func() error { return errUpstream }, transient)
	if state := b.State(); state != CircuitStateOpen {
		t.Fatalf("expected open after counted failure, got %s", state)
	}
	if err := b.Execute(func() error { return nil }, transient); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected ErrCircuitOpen, got %v", err)
	}
	if len(transitions) != 1 || transitions[0] != CircuitStateOpen {
		t.Fatalf("unexpected transitions: %v", transitions)
	}
}

func TestCircuitBreaker_DisabledConfigIsPassThrough(t *testing.T) {
	var b *CircuitBreaker = NewCircuitBreakerFromConfig(CircuitBreakerConfig{Enabled: false})
	if b != nil {
		t.Fatalf("expected nil breaker for disabled config")
	}
	calls := 0
	if err := b.Execute(func() error { calls++; return nil }, nil); err != nil || calls != 1 {
		t.Fatalf("nil breaker should run fn once, err=%v calls=%d", err, calls)
	}
}

func TestCircuitBreakerConfig_Normalized(t *testing.T) {
	got := CircuitBreakerConfig{Enabled: true, FailureThreshold: 3}.Normalized()
	if got.FailureThreshold != 3 {
		t.Fatalf("explicit threshold overwritten: %d", got.FailureThreshold)
	}
	if got.OpenTimeout != defaultOpenTimeout || got.HalfOpenMaxReq != defaultHalfOpenMaxReq {
		t.Fatalf("defaults not applied: %+v", got)
	}
	if DefaultCircuitBreakerConfig().Normalized() != DefaultCircuitBreakerConfig() {
		t.Fatalf("defaults should already be normalized")
	}
}
