package otp

import (
	"context"
	"crypto/subtle"
	"time"
)

// Verifier confirms a one-time code typed by the customer.
type Verifier interface {
	Verify(ctx context.Context, userID, purpose, code string) (bool, error)
}

// Issuer sends a fresh code. Only verifiers that own their codes implement it.
type Issuer interface {
	Issue(ctx context.Context, userID, purpose string) (Code, error)
}

// Checker is implemented by verifiers whose codes are single use. Check
// validates without spending; Consume spends once the operation goes ahead.
type Checker interface {
	Check(ctx context.Context, userID, purpose, code string) (bool, error)
	Consume(ctx context.Context, userID, purpose, code string) (bool, error)
}

type Code struct {
	Value     string
	ExpiresIn time.Duration
}

// DefaultCodes are accepted by the demo verifier.
var DefaultCodes = []string{"123456", "654321", "111111", "000000"}

type Static struct {
	codes []string
}

func NewStatic(codes ...string) *Static {
	if len(codes) == 0 {
		codes = DefaultCodes
	}
	return &Static{codes: codes}
}

func (s *Static) Verify(_ context.Context, _, _, code string) (bool, error) {
	for _, c := range s.codes {
		if subtle.ConstantTimeCompare([]byte(c), []byte(code)) == 1 {
			return true, nil
		}
	}
	return false, nil
}
