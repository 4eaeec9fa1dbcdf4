package domain

import (
	"fmt"
	"time"
)

type BookingStatus string

const (
	BookingPending    BookingStatus = "pending"
	BookingConfirmed  BookingStatus = "confirmed"
	BookingInProgress BookingStatus = "in-progress"
	BookingCompleted  BookingStatus = "completed"
	BookingCancelled  BookingStatus = "cancelled"
)

func ParseBookingStatus(s string) (BookingStatus, bool) {
	switch BookingStatus(s) {
	case BookingPending, BookingConfirmed, BookingInProgress, BookingCompleted, BookingCancelled:
		return BookingStatus(s), true
	default:
		return "", false
	}
}

type BookingPriority string

const (
	PriorityLow       BookingPriority = "low"
	PriorityMedium    BookingPriority = "medium"
	PriorityHigh      BookingPriority = "high"
	PriorityEmergency BookingPriority = "emergency"
)

func ParseBookingPriority(s string) (BookingPriority, bool) {
	switch BookingPriority(s) {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityEmergency:
		return BookingPriority(s), true
	default:
		return "", false
	}
}

type Booking struct {
	ID             int64           `json:"id"`
	CustomerID     string          `json:"customer_id"`
	ServiceID      int64           `json:"service_id"`
	PlumberID      *string         `json:"plumber_id"`
	ScheduledDate  time.Time       `json:"scheduled_date"`
	Address        string          `json:"address"`
	Description    string          `json:"description,omitempty"`
	Status         BookingStatus   `json:"status"`
	EstimatedPrice *float64        `json:"estimated_price,omitempty"`
	FinalPrice     *float64        `json:"final_price,omitempty"`
	Priority       BookingPriority `json:"priority"`
	AdminNotes     string          `json:"admin_notes,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`

	// Joined relations, populated on reads.
	Customer *UserInfo `json:"customer,omitempty"`
	Service  *Service  `json:"service,omitempty"`
	Plumber  *Plumber  `json:"plumber,omitempty"`
}

// IsOwner reports whether the given user created this booking.
func (b *Booking) IsOwner(userID string) bool {
	return b.CustomerID == userID
}

type BookingCreateReq struct {
	ServiceID     int64     `json:"service_id"`
	ScheduledDate time.Time `json:"scheduled_date"`
	Address       string    `json:"address"`
	Description   string    `json:"description"`
	Priority      string    `json:"priority"`
}

func (r *BookingCreateReq) Validate() error {
	if r.ServiceID == 0 {
		return fmt.Errorf("%w: service_id is required", ErrValidation)
	}
	if r.ScheduledDate.IsZero() {
		return fmt.Errorf("%w: scheduled_date is required", ErrValidation)
	}
	if r.Address == "" {
		return fmt.Errorf("%w: address is required", ErrValidation)
	}
	if r.Priority != "" {
		if _, ok := ParseBookingPriority(r.Priority); !ok {
			return fmt.Errorf("%w: invalid priority %q", ErrValidation, r.Priority)
		}
	}
	return nil
}

// BookingPatch carries the admin-editable fields; nil means "leave as is".
type BookingPatch struct {
	PlumberID      *string        `json:"plumber_id,omitempty"`
	Status         *BookingStatus `json:"status,omitempty"`
	EstimatedPrice *float64       `json:"estimated_price,omitempty"`
	FinalPrice     *float64       `json:"final_price,omitempty"`
	AdminNotes     *string        `json:"admin_notes,omitempty"`
	ScheduledDate  *time.Time     `json:"scheduled_date,omitempty"`
}

func (p *BookingPatch) Validate() error {
	if p.Status != nil {
		if _, ok := ParseBookingStatus(string(*p.Status)); !ok {
			return fmt.Errorf("%w: invalid status %q", ErrValidation, *p.Status)
		}
	}
	return nil
}
