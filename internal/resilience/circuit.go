// Package resilience guards calls to external lookup services. It never
// retries; an open breaker makes callers degrade immediately.
package resilience

import (
	"context"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// BreakerState is the state of a Breaker.
type BreakerState int

const (
	// StateClosed lets calls through.
	StateClosed BreakerState = iota
	// StateOpen rejects calls until the cool-down elapses.
	StateOpen
	// StateHalfOpen lets a single probe through.
	StateHalfOpen
)

func (s BreakerState) String() string {
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

// ErrBreakerOpen is returned when a call is rejected by an open breaker.
var ErrBreakerOpen = eris.New("resilience: breaker open")

// BreakerConfig controls when a Breaker trips.
type BreakerConfig struct {
	// Name labels log lines, e.g. "nominatim".
	Name string
	// Threshold is the number of consecutive tripping failures that open
	// the breaker. Default: 5.
	Threshold int
	// CoolDown is how long the breaker stays open. Default: 30s.
	CoolDown time.Duration
	// ShouldTrip decides whether err counts as a failure. Default: IsTransient.
	ShouldTrip func(err error) bool
}

// Breaker is a consecutive-failure circuit breaker for one external service.
type Breaker struct {
	cfg BreakerConfig

	mu          sync.Mutex
	state       BreakerState
	failures    int
	lastFailure time.Time

	nowFunc func() time.Time
}

// NewBreaker creates a closed Breaker.
func NewBreaker(cfg BreakerConfig) *Breaker {
	if cfg.Threshold <= 0 {
		cfg.Threshold = 5
	}
	if cfg.CoolDown <= 0 {
		cfg.CoolDown = 30 * time.Second
	}
	if cfg.ShouldTrip == nil {
		cfg.ShouldTrip = IsTransient
	}
	return &Breaker{cfg: cfg, nowFunc: time.Now}
}

// Do runs fn unless the breaker is open, and records its outcome.
func Do[T any](ctx context.Context, b *Breaker, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if b == nil {
		return fn(ctx)
	}
	if err := b.allow(); err != nil {
		return zero, err
	}
	v, err := fn(ctx)
	b.record(err)
	return v, err
}

// State returns the current state, reporting half-open once the cool-down
// has elapsed.
func (b *Breaker) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == StateOpen && b.nowFunc().Sub(b.lastFailure) >= b.cfg.CoolDown {
		return StateHalfOpen
	}
	return b.state
}

// Failures returns the consecutive failure count.
func (b *Breaker) Failures() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.failures
}

func (b *Breaker) allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state != StateOpen {
		return nil
	}
	if b.nowFunc().Sub(b.lastFailure) >= b.cfg.CoolDown {
		b.transition(StateHalfOpen)
		return nil
	}
	return ErrBreakerOpen
}

func (b *Breaker) record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err == nil || !b.cfg.ShouldTrip(err) {
		b.failures = 0
		if b.state == StateHalfOpen {
			b.transition(StateClosed)
		}
		return
	}

	b.failures++
	b.lastFailure = b.nowFunc()
	if b.state == StateHalfOpen || b.failures >= b.cfg.Threshold {
		b.transition(StateOpen)
	}
}

func (b *Breaker) transition(to BreakerState) {
	if b.state == to {
		return
	}
	zap.L().Warn("resilience: breaker state change",
		zap.String("service", b.cfg.Name),
		zap.Stringer("from", b.state),
		zap.Stringer("to", to),
		zap.Int("failures", b.failures),
	)
	b.state = to
}
