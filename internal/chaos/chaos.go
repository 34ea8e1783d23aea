// Package chaos simulates transient failures of the payment network so the
// UI error paths can be exercised. Production wiring uses None or a small rate.
package chaos

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
)

var ErrInjected = errors.New("chaos: injected failure")

type Injector interface {
	// Inject returns a non-nil error when op should fail.
	Inject(ctx context.Context, op string) error
}

// Source is the randomness used across the simulated flows.
type Source interface {
	IntN(n int) int
	Float64() float64
}

type globalSource struct{}

func (globalSource) IntN(n int) int   { return rand.IntN(n) }
func (globalSource) Float64() float64 { return rand.Float64() }

// GlobalRandom draws from math/rand/v2's top-level generator, which is safe
// for concurrent use.
var GlobalRandom Source = globalSource{}

// Seeded returns a deterministic, goroutine-safe source.
func Seeded(seed uint64) Source {
	return &lockedSource{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

type lockedSource struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (s *lockedSource) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.IntN(n)
}

func (s *lockedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Float64()
}

type none struct{}

func (none) Inject(context.Context, string) error { return nil }

// None never fails.
var None Injector = none{}

type always struct{ err error }

func (a always) Inject(context.Context, string) error { return a.err }

// Always fails every call with err, or ErrInjected when err is nil.
func Always(err error) Injector {
	if err == nil {
		err = ErrInjected
	}
	return always{err: err}
}

type random struct {
	rate float64
	src  Source
}

func (r random) Inject(ctx context.Context, _ string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.src.Float64() < r.rate {
		return ErrInjected
	}
	return nil
}

// NewRandom fails a fraction rate of calls. A rate <= 0 returns None.
func NewRandom(rate float64, src Source) Injector {
	if rate <= 0 {
		return None
	}
	if src == nil {
		src = GlobalRandom
	}
	return random{rate: rate, src: src}
}
