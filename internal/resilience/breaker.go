// Package resilience provides reliability patterns for content-store calls.
package resilience

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrCircuitOpen is returned when the circuit breaker is rejecting calls.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// State is the breaker's current disposition toward new calls.
type State int

const (
	// Closed allows all calls.
	Closed State = iota
	// Open rejects all calls until the cool-down elapses.
	Open
	// HalfOpen allows probe calls after the cool-down.
	HalfOpen
)

// Breaker is a circuit breaker for the content-store HTTP client. It opens
// after a run of consecutive failures and rejects calls for a cool-down
// period, so a struggling content store is not hammered by every page
// request. A failed probe in the half-open state reopens the circuit.
type Breaker struct {
	mu       sync.Mutex
	state    State
	failures int
	openedAt time.Time

	maxFailures int
	coolDown    time.Duration
	clock       func() time.Time
}

// NewBreaker creates a breaker that opens after maxFailures consecutive
// failures and stays open for the given cool-down.
func NewBreaker(maxFailures int, coolDown time.Duration) *Breaker {
	return &Breaker{
		maxFailures: maxFailures,
		coolDown:    coolDown,
		clock:       time.Now,
	}
}

// Do runs fn unless the circuit is open or ctx is already done.
func (b *Breaker) Do(ctx context.Context, fn func(context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !b.admit() {
		return ErrCircuitOpen
	}

	err := fn(ctx)
	b.record(err)
	return err
}

// State returns the breaker's current state.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *Breaker) admit() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == Open {
		if b.clock().Sub(b.openedAt) < b.coolDown {
			return false
		}
		b.state = HalfOpen
	}
	return true
}

func (b *Breaker) record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err == nil {
		b.failures = 0
		b.state = Closed
		return
	}

	b.failures++
	if b.state == HalfOpen || b.failures >= b.maxFailures {
		b.state = Open
		b.openedAt = b.clock()
	}
}
