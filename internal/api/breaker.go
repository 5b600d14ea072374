package api

import (
	"sync"
	"time"

	"strategy-builder/internal/errors"
)

// CircuitState represents the state of a circuit breaker.
type CircuitState string

const (
	CircuitClosed   CircuitState = "CLOSED"    // Normal operation
	CircuitOpen     CircuitState = "OPEN"      // Backend failing, calls rejected
	CircuitHalfOpen CircuitState = "HALF_OPEN" // Probing whether the backend recovered
)

// BreakerConfig holds circuit breaker configuration.
type BreakerConfig struct {
	// FailureThreshold is the number of consecutive failures before opening
	FailureThreshold int
	// SuccessThreshold is the number of successes in half-open state to close
	SuccessThreshold int
	// Cooldown is how long the circuit stays open before probing again
	Cooldown time.Duration
}

// DefaultBreakerConfig returns the defaults used by NewClient.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		FailureThreshold: 5,
		SuccessThreshold: 1,
		Cooldown:         30 * time.Second,
	}
}

// breaker stops calling the backend after repeated unavailability. Only
// transport errors and 5xx responses count as failures; a 404 or a rejected
// payload means the backend is healthy.
type breaker struct {
	config BreakerConfig
	now    func() time.Time

	mu          sync.Mutex
	state       CircuitState
	failures    int
	successes   int
	lastFailure time.Time
}

func newBreaker(config BreakerConfig) *breaker {
	return &breaker{
		config: config,
		now:    time.Now,
		state:  CircuitClosed,
	}
}

func (b *breaker) allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == CircuitOpen {
		if b.now().Sub(b.lastFailure) < b.config.Cooldown {
			return errors.Wrap(errors.ErrBackendUnavailable, "circuit breaker is open")
		}
		b.transitionTo(CircuitHalfOpen)
	}
	return nil
}

// record updates the circuit with the outcome of one call.
func (b *breaker) record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err == nil || !errors.Is(err, errors.ErrBackendUnavailable) {
		switch b.state {
		case CircuitHalfOpen:
			b.successes++
			if b.successes >= b.config.SuccessThreshold {
				b.transitionTo(CircuitClosed)
			}
		case CircuitClosed:
			b.failures = 0
		}
		return
	}

	b.lastFailure = b.now()
	switch b.state {
	case CircuitClosed:
		b.failures++
		if b.failures >= b.config.FailureThreshold {
			b.transitionTo(CircuitOpen)
		}
	case CircuitHalfOpen:
		b.transitionTo(CircuitOpen)
	}
}

func (b *breaker) transitionTo(state CircuitState) {
	b.state = state
	b.failures = 0
	b.successes = 0
}

func (b *breaker) State() CircuitState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}
