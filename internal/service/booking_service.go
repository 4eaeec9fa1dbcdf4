package service

import (
	"context"
	"fmt"
	"time"

	"github.com/tekanya/plumbing-bookings/internal/domain"
	"github.com/tekanya/plumbing-bookings/internal/repository"
	"github.com/tekanya/plumbing-bookings/pkg/events"
	"github.com/tekanya/plumbing-bookings/pkg/logger"
)

type BookingService interface {
	Create(ctx context.Context, customerID string, req *domain.BookingCreateReq) (*domain.Booking, error)
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ListAll(ctx context.Context) ([]domain.Booking, error)
	ListMine(ctx context.Context, customerID string) ([]domain.Booking, error)
	ListByStatus(ctx context.Context, status domain.BookingStatus) ([]domain.Booking, error)
	Update(ctx context.Context, id int64, patch domain.BookingPatch) (*domain.Booking, error)
	AssignPlumber(ctx context.Context, id int64, plumberID string) (*domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) (*domain.Booking, error)
	// Cancel is the one status change customers may perform, and only on
	// their own bookings. Admins may cancel anything.
	Cancel(ctx context.Context, id int64, actorID, actorRole string) (*domain.Booking, error)
	Delete(ctx context.Context, id int64) error
}

type bookingService struct {
	bookingRepo repository.BookingRepository
	eventBus    events.Publisher
}

func NewBookingService(bookingRepo repository.BookingRepository, eventBus events.Publisher) BookingService {
	return &bookingService{
		bookingRepo: bookingRepo,
		eventBus:    eventBus,
	}
}

func (s *bookingService) Create(ctx context.Context, customerID string, req *domain.BookingCreateReq) (*domain.Booking, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	priority := domain.PriorityMedium
	if req.Priority != "" {
		priority, _ = domain.ParseBookingPriority(req.Priority)
	}

	booking, err := s.bookingRepo.Create(ctx, customerID, req, priority)
	if err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	s.publish(ctx, events.BookingCreated, events.BookingCreatedEvent{
		BookingID:     booking.ID,
		CustomerID:    booking.CustomerID,
		ServiceID:     booking.ServiceID,
		ScheduledDate: booking.ScheduledDate,
		Priority:      string(booking.Priority),
		CreatedAt:     booking.CreatedAt,
	})

	return booking, nil
}

func (s *bookingService) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	if booking == nil {
		return nil, domain.ErrNotFound
	}
	return booking, nil
}

func (s *bookingService) ListAll(ctx context.Context) ([]domain.Booking, error) {
	return s.bookingRepo.List(ctx)
}

func (s *bookingService) ListMine(ctx context.Context, customerID string) ([]domain.Booking, error) {
	return s.bookingRepo.ListByCustomer(ctx, customerID)
}

func (s *bookingService) ListByStatus(ctx context.Context, status domain.BookingStatus) ([]domain.Booking, error) {
	return s.bookingRepo.ListByStatus(ctx, status)
}

func (s *bookingService) Update(ctx context.Context, id int64, patch domain.BookingPatch) (*domain.Booking, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	booking, err := s.bookingRepo.Update(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("failed to update booking: %w", err)
	}
	if booking == nil {
		return nil, domain.ErrNotFound
	}
	return booking, nil
}

// AssignPlumber attaches a plumber and moves the booking to confirmed,
// whatever status it was in. Reassignment is allowed.
func (s *bookingService) AssignPlumber(ctx context.Context, id int64, plumberID string) (*domain.Booking, error) {
	if plumberID == "" {
		return nil, fmt.Errorf("%w: plumberId is required", domain.ErrValidation)
	}

	booking, err := s.bookingRepo.AssignPlumber(ctx, id, plumberID)
	if err != nil {
		return nil, fmt.Errorf("failed to assign plumber: %w", err)
	}
	if booking == nil {
		return nil, domain.ErrNotFound
	}

	s.publish(ctx, events.BookingAssigned, events.BookingAssignedEvent{
		BookingID:  booking.ID,
		PlumberID:  plumberID,
		AssignedAt: booking.UpdatedAt,
	})

	return booking, nil
}

func (s *bookingService) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) (*domain.Booking, error) {
	existing, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	if existing == nil {
		return nil, domain.ErrNotFound
	}

	booking, err := s.bookingRepo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, fmt.Errorf("failed to update booking status: %w", err)
	}
	if booking == nil {
		return nil, domain.ErrNotFound
	}

	s.publish(ctx, events.BookingStatusChanged, events.BookingStatusChangedEvent{
		BookingID: booking.ID,
		OldStatus: string(existing.Status),
		NewStatus: string(booking.Status),
		ChangedAt: booking.UpdatedAt,
	})

	return booking, nil
}

func (s *bookingService) Cancel(ctx context.Context, id int64, actorID, actorRole string) (*domain.Booking, error) {
	existing, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	if existing == nil {
		return nil, domain.ErrNotFound
	}
	if !existing.IsOwner(actorID) && actorRole != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}

	booking, err := s.bookingRepo.UpdateStatus(ctx, id, domain.BookingCancelled)
	if err != nil {
		return nil, fmt.Errorf("failed to cancel booking: %w", err)
	}
	if booking == nil {
		return nil, domain.ErrNotFound
	}

	s.publish(ctx, events.BookingCancelled, events.BookingCancelledEvent{
		BookingID:   booking.ID,
		CancelledBy: actorID,
		CancelledAt: booking.UpdatedAt,
	})

	return booking, nil
}

func (s *bookingService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.bookingRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}
	if !deleted {
		return domain.ErrNotFound
	}

	s.publish(ctx, events.BookingDeleted, events.BookingDeletedEvent{
		BookingID: id,
		DeletedAt: time.Now(),
	})

	return nil
}

// publish emits a domain event. Delivery is best-effort; the API call
// already succeeded by the time we get here.
func (s *bookingService) publish(ctx context.Context, subject string, event any) {
	if err := s.eventBus.Publish(ctx, subject, event); err != nil {
		logger.ErrorContext(ctx, "Failed to publish event", "subject", subject, "error", err)
	}
}
