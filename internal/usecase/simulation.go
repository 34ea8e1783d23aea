package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/internal/chaos"
	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/internal/domain"
)

// simulation carries the knobs that stand in for a real payment network:
// clock, processing delays, randomness and fault injection.
type simulation struct {
	now          func() time.Time
	wait         func(ctx context.Context, d time.Duration) error
	rnd          chaos.Source
	faults       chaos.Injector
	readerFaults chaos.Injector
	readerDelay  time.Duration
}

type Option func(*simulation)

func WithClock(now func() time.Time) Option {
	return func(s *simulation) { s.now = now }
}

// WithWait replaces the processing delay. Tests pass NoWait.
func WithWait(wait func(ctx context.Context, d time.Duration) error) Option {
	return func(s *simulation) { s.wait = wait }
}

func WithRandom(src chaos.Source) Option {
	return func(s *simulation) { s.rnd = src }
}

// WithFaults sets the injector consulted after a payment's processing delay.
func WithFaults(inj chaos.Injector) Option {
	return func(s *simulation) { s.faults = inj }
}

// WithReaderFaults sets the injector consulted by history, stats and
// notification reads.
func WithReaderFaults(inj chaos.Injector) Option {
	return func(s *simulation) { s.readerFaults = inj }
}

func WithReaderDelay(d time.Duration) Option {
	return func(s *simulation) { s.readerDelay = d }
}

func newSimulation(opts []Option) simulation {
	s := simulation{
		now:          time.Now,
		wait:         Sleep,
		rnd:          chaos.GlobalRandom,
		faults:       chaos.None,
		readerFaults: chaos.None,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// Sleep waits d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func NoWait(ctx context.Context, _ time.Duration) error {
	return ctx.Err()
}

// read applies the reader delay and fault injection shared by all readers.
func (s simulation) read(ctx context.Context, op string) error {
	if err := s.wait(ctx, s.readerDelay); err != nil {
		return err
	}
	if err := s.readerFaults.Inject(ctx, op); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return domain.ErrDataUnavailable
	}
	return nil
}
