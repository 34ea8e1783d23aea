package events

import (
	"context"
	"time"
)

const (
	TypePaymentSettled     = "payment.settled"
	TypeFundsProvisioned   = "funds.provisioned"
	TypeInvestmentCreated  = "investment.created"
	TypeReclamationCreated = "reclamation.created"
)

// Event is a business fact emitted after a flow completes.
type Event struct {
	Type       string      `json:"type"`
	Key        string      `json:"key"`
	UserID     string      `json:"userId,omitempty"`
	OccurredAt time.Time   `json:"occurredAt"`
	Payload    interface{} `json:"payload"`
}

type Publisher interface {
	Publish(ctx context.Context, events ...Event) error
	Close() error
}

type noop struct{}

func (noop) Publish(context.Context, ...Event) error { return nil }
func (noop) Close() error                            { return nil }

// Noop drops every event. Used when no broker is configured.
var Noop Publisher = noop{}
