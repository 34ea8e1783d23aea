package chaos

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fixed float64

func (f fixed) IntN(n int) int   { return 0 }
func (f fixed) Float64() float64 { return float64(f) }

func TestNone(t *testing.T) {
	assert.NoError(t, None.Inject(context.Background(), "pay"))
}

func TestAlways(t *testing.T) {
	boom := errors.New("boom")
	assert.ErrorIs(t, Always(boom).Inject(context.Background(), "pay"), boom)
	assert.ErrorIs(t, Always(nil).Inject(context.Background(), "pay"), ErrInjected)
}

func TestNewRandom(t *testing.T) {
	ctx := context.Background()

	assert.ErrorIs(t, NewRandom(0.02, fixed(0.01)).Inject(ctx, "pay"), ErrInjected)
	assert.NoError(t, NewRandom(0.02, fixed(0.5)).Inject(ctx, "pay"))
	assert.Equal(t, None, NewRandom(0, nil))
}

func TestNewRandom_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, NewRandom(0.5, fixed(0.9)).Inject(ctx, "pay"), context.Canceled)
}

func TestSeeded_Deterministic(t *testing.T) {
	a, b := Seeded(7), Seeded(7)
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.IntN(1000), b.IntN(1000))
	}
}
