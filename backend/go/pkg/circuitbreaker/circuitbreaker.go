package circuitbreaker

import (
	"errors"
	"sync"
	"time"
)

// State represents the state of the circuit breaker.
type State int

const (
	// Closed is the initial state where requests are allowed.
	Closed State = iota
	// Open state is when the circuit has tripped and requests are blocked.
	Open
	// HalfOpen is a state where a limited number of trial requests are allowed to test the system's recovery.
	HalfOpen
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case Closed:
		return "Closed"
	case Open:
		return "Open"
	case HalfOpen:
		return "Half-Open"
	default:
		return "Unknown"
	}
}

// ErrCircuitOpen is returned when the circuit breaker is in the Open state.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// CircuitBreaker is the interface for the circuit breaker pattern.
type CircuitBreaker interface {
	// Execute runs the given request if the circuit breaker is closed or half-open.
	Execute(req func() (interface{}, error)) (interface{}, error)
	// State returns the current state of the circuit breaker.
	State() State
}

type breaker struct {
	failureThreshold uint32        // consecutive failures to trip the circuit
	successThreshold uint32        // consecutive half-open successes to close it
	timeout          time.Duration // time spent open before probing again

	mu        sync.Mutex
	state     State
	failures  uint32
	successes uint32
	openedAt  time.Time
	now       func() time.Time // injectable for tests
}

// New creates a CircuitBreaker.
// failureThreshold: consecutive failures required to open the circuit.
// successThreshold: consecutive successes in the half-open state required to close it.
// timeout: how long the circuit stays open before allowing trial requests.
func New(failureThreshold, successThreshold uint32, timeout time.Duration) CircuitBreaker {
	return &breaker{
		failureThreshold: failureThreshold,
		successThreshold: successThreshold,
		timeout:          timeout,
		state:            Closed,
		now:              time.Now,
	}
}

// State returns the current state, accounting for an expired open timeout.
func (cb *breaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.maybeProbe()
	return cb.state
}

// Execute wraps the request with the circuit breaker logic. While open it
// fails fast with ErrCircuitOpen; the request itself runs outside the lock.
func (cb *breaker) Execute(req func() (interface{}, error)) (interface{}, error) {
	cb.mu.Lock()
	cb.maybeProbe()
	if cb.state == Open {
		cb.mu.Unlock()
		return nil, ErrCircuitOpen
	}
	cb.mu.Unlock()

	res, err := req()
	if err != nil {
		cb.onFailure()
		return nil, err
	}
	cb.onSuccess()
	return res, nil
}

// maybeProbe transitions Open to HalfOpen once the timeout has elapsed.
// Caller holds the lock.
func (cb *breaker) maybeProbe() {
	if cb.state == Open && cb.now().Sub(cb.openedAt) > cb.timeout {
		cb.state = HalfOpen
		cb.successes = 0
	}
}

func (cb *breaker) onSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case HalfOpen:
		cb.successes++
		if cb.successes >= cb.successThreshold {
			cb.state = Closed
			cb.failures = 0
			cb.successes = 0
		}
	case Closed:
		cb.failures = 0
	}
}

func (cb *breaker) onFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case HalfOpen:
		cb.trip()
	case Closed:
		cb.failures++
		if cb.failures >= cb.failureThreshold {
			cb.trip()
		}
	}
}

// trip opens the circuit. Caller holds the lock.
func (cb *breaker) trip() {
	cb.state = Open
	cb.openedAt = cb.now()
	cb.failures = 0
	cb.successes = 0
}
