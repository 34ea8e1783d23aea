package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/internal/domain"
	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/internal/events"
)

var testNow = time.Date(2026, time.March, 14, 10, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

// stubRandom always returns the same draw.
type stubRandom struct{ n int }

func (s stubRandom) IntN(n int) int {
	if s.n >= n {
		return n - 1
	}
	return s.n
}

func (s stubRandom) Float64() float64 { return 0.5 }

type sentNotification struct {
	UserID  string
	Kind    domain.NotificationType
	Title   string
	Message string
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentNotification
}

func (r *recordingNotifier) Notify(_ context.Context, userID string, kind domain.NotificationType, title, message string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, sentNotification{userID, kind, title, message})
	return nil
}

func (r *recordingNotifier) all() []sentNotification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]sentNotification(nil), r.sent...)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recordingPublisher) Publish(_ context.Context, evs ...events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evs...)
	return nil
}

func (r *recordingPublisher) Close() error { return nil }

func (r *recordingPublisher) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

func testOptions(extra ...Option) []Option {
	return append([]Option{
		WithClock(fixedClock),
		WithWait(NoWait),
		WithRandom(stubRandom{n: 42}),
	}, extra...)
}
