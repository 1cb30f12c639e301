package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gauravnehare1411/introducer-app-backend/pkg/logger"
	"github.com/nats-io/nats.go"
)

type Publisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
	Close() error
}

type NATSEventBus struct {
	conn *nats.Conn
}

func NewNATSEventBus(url string) (*NATSEventBus, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &NATSEventBus{conn: conn}, nil
}

func (n *NATSEventBus) Publish(ctx context.Context, subject string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	logger.DebugContext(ctx, "Publishing event", "subject", subject, "data", string(payload))

	return n.conn.Publish(subject, payload)
}

func (n *NATSEventBus) Close() error {
	n.conn.Close()
	return nil
}

// NoopEventBus discards events. Used when no broker is configured.
type NoopEventBus struct{}

func (NoopEventBus) Publish(ctx context.Context, subject string, data interface{}) error { return nil }
func (NoopEventBus) Close() error                                                        { return nil }

// Event subjects
const (
	UserRegistered        = "user.registered"
	UserVerified          = "user.verified"
	ReferralSubmitted     = "referral.submitted"
	ReferralStatusUpdated = "referral.status_updated"
	MortgageSubmitted     = "mortgage.submitted"
)

// Event payloads
type UserRegisteredEvent struct {
	Email        string    `json:"email"`
	RegisteredAt time.Time `json:"registered_at"`
}

type UserVerifiedEvent struct {
	UserID     string    `json:"user_id"`
	Email      string    `json:"email"`
	ReferralID string    `json:"referral_id"`
	VerifiedAt time.Time `json:"verified_at"`
}

type ReferralSubmittedEvent struct {
	ReferralID    string    `json:"referral_id"`
	ReferralEmail string    `json:"referral_email"`
	Purpose       string    `json:"purpose"`
	SubmittedAt   time.Time `json:"submitted_at"`
}

type ReferralStatusUpdatedEvent struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updated_at"`
}

type MortgageSubmittedEvent struct {
	UserID      string    `json:"user_id"`
	HasMortgage bool      `json:"has_mortgage"`
	SubmittedAt time.Time `json:"submitted_at"`
}
