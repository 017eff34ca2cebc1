package http

import (
	"errors"
	"sync"
	"time"
)

// CircuitState represents the state of a host's circuit.
type CircuitState int

const (
	// CircuitClosed is the normal state where requests are allowed.
	CircuitClosed CircuitState = iota
	// CircuitOpen is the state where requests fail fast.
	CircuitOpen
	// CircuitHalfOpen allows one probe request through.
	CircuitHalfOpen
)

// String returns the string representation of a circuit state.
func (s CircuitState) String() string {
	switch s {
	case CircuitClosed:
		return "closed"
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// ErrCircuitOpen is returned when a host has failed too often recently.
var ErrCircuitOpen = errors.New("http: circuit open")

// BreakerConfig configures the per-host circuit breaker.
type BreakerConfig struct {
	// FailureThreshold is the number of consecutive transient failures that
	// opens a host's circuit. 0 disables the breaker.
	FailureThreshold int
	// RecoveryTimeout is how long a circuit stays open before a probe.
	RecoveryTimeout time.Duration
}

type circuit struct {
	state    CircuitState
	failures int
	changed  time.Time
	probing  bool
}

// Breaker fails requests fast after repeated transient failures per host.
// A nil Breaker allows everything.
type Breaker struct {
	mu       sync.Mutex
	cfg      BreakerConfig
	circuits map[string]*circuit
	now      func() time.Time
}

// NewBreaker creates a breaker, or returns nil when cfg disables it.
func NewBreaker(cfg BreakerConfig) *Breaker {
	if cfg.FailureThreshold <= 0 {
		return nil
	}
	if cfg.RecoveryTimeout <= 0 {
		cfg.RecoveryTimeout = 30 * time.Second
	}
	return &Breaker{cfg: cfg, circuits: make(map[string]*circuit), now: time.Now}
}

// Allow reports whether a request to host may proceed.
func (b *Breaker) Allow(host string) error {
	if b == nil {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	c := b.get(host)
	switch c.state {
	case CircuitOpen:
		if b.now().Sub(c.changed) < b.cfg.RecoveryTimeout {
			return ErrCircuitOpen
		}
		c.state = CircuitHalfOpen
		c.changed = b.now()
		c.probing = true
		return nil
	case CircuitHalfOpen:
		if c.probing {
			return ErrCircuitOpen
		}
		c.probing = true
	}
	return nil
}

// Record updates host's circuit with the outcome of a request. Errors that
// transient reports false for do not count as failures.
func (b *Breaker) Record(host string, err error, transient func(error) bool) {
	if b == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	c := b.get(host)
	c.probing = false

	if err == nil || (transient != nil && !transient(err)) {
		if c.state != CircuitClosed {
			c.changed = b.now()
		}
		c.state = CircuitClosed
		c.failures = 0
		return
	}

	c.failures++
	if c.state == CircuitHalfOpen || c.failures >= b.cfg.FailureThreshold {
		c.state = CircuitOpen
		c.changed = b.now()
	}
}

// State returns host's current state.
func (b *Breaker) State(host string) CircuitState {
	if b == nil {
		return CircuitClosed
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	c, ok := b.circuits[host]
	if !ok {
		return CircuitClosed
	}
	if c.state == CircuitOpen && b.now().Sub(c.changed) >= b.cfg.RecoveryTimeout {
		return CircuitHalfOpen
	}
	return c.state
}

// get must be called with mu held.
func (b *Breaker) get(host string) *circuit {
	c, ok := b.circuits[host]
	if !ok {
		c = &circuit{changed: b.now()}
		b.circuits[host] = c
	}
	return c
}
