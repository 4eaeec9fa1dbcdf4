package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/tekanya/plumbing-bookings/pkg/logger"
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

// Event subjects
const (
	UserRegistered = "user.registered"

	BookingCreated       = "booking.created"
	BookingAssigned      = "booking.assigned"
	BookingStatusChanged = "booking.status_changed"
	BookingCancelled     = "booking.cancelled"
	BookingDeleted       = "booking.deleted"
)

// Event payloads
type UserRegisteredEvent struct {
	UserID       string    `json:"user_id"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	RegisteredAt time.Time `json:"registered_at"`
}

type BookingCreatedEvent struct {
	BookingID     int64     `json:"booking_id"`
	CustomerID    string    `json:"customer_id"`
	ServiceID     int64     `json:"service_id"`
	ScheduledDate time.Time `json:"scheduled_date"`
	Priority      string    `json:"priority"`
	CreatedAt     time.Time `json:"created_at"`
}

type BookingAssignedEvent struct {
	BookingID  int64     `json:"booking_id"`
	PlumberID  string    `json:"plumber_id"`
	AssignedAt time.Time `json:"assigned_at"`
}

type BookingStatusChangedEvent struct {
	BookingID int64     `json:"booking_id"`
	OldStatus string    `json:"old_status"`
	NewStatus string    `json:"new_status"`
	ChangedAt time.Time `json:"changed_at"`
}

type BookingDeletedEvent struct {
	BookingID int64     `json:"booking_id"`
	DeletedAt time.Time `json:"deleted_at"`
}

type BookingCancelledEvent struct {
	BookingID   int64     `json:"booking_id"`
	CancelledBy string    `json:"cancelled_by"`
	Reason      string    `json:"reason"`
	CancelledAt time.Time `json:"cancelled_at"`
}
