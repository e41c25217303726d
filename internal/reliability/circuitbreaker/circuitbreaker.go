package circuitbreaker

import (
	"errors"
	"sync"
	"time"
)

// ErrOpen is returned by Execute while the breaker rejects calls.
var ErrOpen = errors.New("circuit breaker is open")

// State represents the circuit breaker state
type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// CircuitBreaker stops calling a dependency after failureThreshold
// consecutive failures. Once timeout has passed since it opened, calls are let
// through again and successThreshold successes close it.
type CircuitBreaker struct {
	mu               sync.Mutex
	state            State
	failures         int32
	successes        int32
	openedAt         time.Time
	failureThreshold int32
	successThreshold int32
	timeout          time.Duration
	now              func() time.Time
	onStateChange    func(from, to State)
}

func NewCircuitBreaker(failureThreshold, successThreshold int32, timeout time.Duration) *CircuitBreaker {
	if failureThreshold < 1 {
		failureThreshold = 1
	}
	if successThreshold < 1 {
		successThreshold = 1
	}
	return &CircuitBreaker{
		failureThreshold: failureThreshold,
		successThreshold: successThreshold,
		timeout:          timeout,
		now:              time.Now,
	}
}

// SetClock replaces the time source. Used by tests.
func (cb *CircuitBreaker) SetClock(now func() time.Time) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.now = now
}

// SetStateChangeCallback registers fn for state transitions. It runs outside
// the breaker's lock.
func (cb *CircuitBreaker) SetStateChangeCallback(fn func(from, to State)) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.onStateChange = fn
}

// Execute runs fn when the breaker allows it and records the outcome.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	if !cb.AllowRequest() {
		return ErrOpen
	}
	if err := fn(); err != nil {
		cb.RecordFailure()
		return err
	}
	cb.RecordSuccess()
	return nil
}

func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	from := cb.state
	switch cb.state {
	case StateHalfOpen:
		cb.successes++
		if cb.successes >= cb.successThreshold {
			cb.moveLocked(StateClosed)
		}
	case StateClosed:
		cb.failures = 0
	}
	cb.notify(from)
}

func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	from := cb.state
	switch cb.state {
	case StateClosed:
		cb.failures++
		if cb.failures >= cb.failureThreshold {
			cb.moveLocked(StateOpen)
		}
	case StateHalfOpen:
		cb.moveLocked(StateOpen)
	}
	cb.notify(from)
}

// AllowRequest reports whether a call may proceed, moving an expired open
// breaker to half-open.
func (cb *CircuitBreaker) AllowRequest() bool {
	cb.mu.Lock()
	from := cb.state
	allowed := true
	if cb.state == StateOpen {
		if cb.now().Sub(cb.openedAt) > cb.timeout {
			cb.moveLocked(StateHalfOpen)
		} else {
			allowed = false
		}
	}
	cb.notify(from)
	return allowed
}

func (cb *CircuitBreaker) GetState() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// moveLocked switches state and clears the counters. cb.mu must be held.
func (cb *CircuitBreaker) moveLocked(to State) {
	cb.state = to
	cb.failures = 0
	cb.successes = 0
	if to == StateOpen {
		cb.openedAt = cb.now()
	}
}

// notify releases cb.mu and reports a transition away from "from", if any.
func (cb *CircuitBreaker) notify(from State) {
	to := cb.state
	fn := cb.onStateChange
	cb.mu.Unlock()
	if fn != nil && from != to {
		fn(from, to)
	}
}
