package id

import (
	"crypto/rand"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// New returns a sortable identifier such as "INV_01J9Z3...".
func New(prefix string) string {
	id := ulid.MustNew(ulid.Timestamp(time.Now()), ulid.Monotonic(rand.Reader, 0))
	return prefix + "_" + id.String()
}

// RequestID is attached to outbound calls so the tenant API can correlate them.
func RequestID() string {
	return uuid.New().String()
}
