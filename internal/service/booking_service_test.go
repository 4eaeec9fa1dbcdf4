package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tekanya/plumbing-bookings/internal/domain"
	"github.com/tekanya/plumbing-bookings/internal/service"
)

type mockBookingRepo struct {
	nextID   int64
	bookings map[int64]*domain.Booking
}

func newMockBookingRepo() *mockBookingRepo {
	return &mockBookingRepo{nextID: 1, bookings: make(map[int64]*domain.Booking)}
}

func (m *mockBookingRepo) Create(_ context.Context, customerID string, req *domain.BookingCreateReq, priority domain.BookingPriority) (*domain.Booking, error) {
	booking := &domain.Booking{
		ID:            m.nextID,
		CustomerID:    customerID,
		ServiceID:     req.ServiceID,
		ScheduledDate: req.ScheduledDate,
		Address:       req.Address,
		Description:   req.Description,
		Status:        domain.BookingPending,
		Priority:      priority,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	m.nextID++
	m.bookings[booking.ID] = booking
	return booking, nil
}

func (m *mockBookingRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	return m.bookings[id], nil
}

func (m *mockBookingRepo) List(_ context.Context) ([]domain.Booking, error) {
	var result []domain.Booking
	for _, b := range m.bookings {
		result = append(result, *b)
	}
	return result, nil
}

func (m *mockBookingRepo) ListByCustomer(_ context.Context, customerID string) ([]domain.Booking, error) {
	var result []domain.Booking
	for _, b := range m.bookings {
		if b.CustomerID == customerID {
			result = append(result, *b)
		}
	}
	return result, nil
}

func (m *mockBookingRepo) ListByStatus(_ context.Context, status domain.BookingStatus) ([]domain.Booking, error) {
	var result []domain.Booking
	for _, b := range m.bookings {
		if b.Status == status {
			result = append(result, *b)
		}
	}
	return result, nil
}

func (m *mockBookingRepo) Update(_ context.Context, id int64, patch domain.BookingPatch) (*domain.Booking, error) {
	booking, exists := m.bookings[id]
	if !exists {
		return nil, nil
	}
	if patch.PlumberID != nil {
		booking.PlumberID = patch.PlumberID
	}
	if patch.Status != nil {
		booking.Status = *patch.Status
	}
	if patch.EstimatedPrice != nil {
		booking.EstimatedPrice = patch.EstimatedPrice
	}
	if patch.FinalPrice != nil {
		booking.FinalPrice = patch.FinalPrice
	}
	if patch.AdminNotes != nil {
		booking.AdminNotes = *patch.AdminNotes
	}
	if patch.ScheduledDate != nil {
		booking.ScheduledDate = *patch.ScheduledDate
	}
	booking.UpdatedAt = time.Now()
	return booking, nil
}

func (m *mockBookingRepo) AssignPlumber(_ context.Context, id int64, plumberID string) (*domain.Booking, error) {
	booking, exists := m.bookings[id]
	if !exists {
		return nil, nil
	}
	booking.PlumberID = &plumberID
	booking.Status = domain.BookingConfirmed
	booking.UpdatedAt = time.Now()
	return booking, nil
}

func (m *mockBookingRepo) UpdateStatus(_ context.Context, id int64, status domain.BookingStatus) (*domain.Booking, error) {
	booking, exists := m.bookings[id]
	if !exists {
		return nil, nil
	}
	booking.Status = status
	booking.UpdatedAt = time.Now()
	return booking, nil
}

func (m *mockBookingRepo) Delete(_ context.Context, id int64) (bool, error) {
	if _, exists := m.bookings[id]; !exists {
		return false, nil
	}
	delete(m.bookings, id)
	return true, nil
}

func setupBookingService() (service.BookingService, *mockBookingRepo) {
	repo := newMockBookingRepo()
	return service.NewBookingService(repo, noopPublisher{}), repo
}

func validCreateReq() *domain.BookingCreateReq {
	return &domain.BookingCreateReq{
		ServiceID:     1,
		ScheduledDate: time.Now().Add(24 * time.Hour),
		Address:       "12 Pipe Lane",
		Description:   "Leaking sink",
	}
}

func TestCreateBooking_Defaults(t *testing.T) {
	svc, _ := setupBookingService()

	booking, err := svc.Create(context.Background(), "cust-1", validCreateReq())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if booking.Status != domain.BookingPending {
		t.Errorf("Expected status pending, got %q", booking.Status)
	}
	if booking.Priority != domain.PriorityMedium {
		t.Errorf("Expected priority medium, got %q", booking.Priority)
	}
	if booking.CustomerID != "cust-1" {
		t.Errorf("Expected customer cust-1, got %q", booking.CustomerID)
	}
}

func TestCreateBooking_ExplicitPriority(t *testing.T) {
	svc, _ := setupBookingService()

	req := validCreateReq()
	req.Priority = "emergency"
	booking, err := svc.Create(context.Background(), "cust-1", req)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if booking.Priority != domain.PriorityEmergency {
		t.Errorf("Expected priority emergency, got %q", booking.Priority)
	}
}

func TestCreateBooking_Invalid(t *testing.T) {
	svc, _ := setupBookingService()
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*domain.BookingCreateReq)
	}{
		{"missing service", func(r *domain.BookingCreateReq) { r.ServiceID = 0 }},
		{"missing date", func(r *domain.BookingCreateReq) { r.ScheduledDate = time.Time{} }},
		{"missing address", func(r *domain.BookingCreateReq) { r.Address = "" }},
		{"bad priority", func(r *domain.BookingCreateReq) { r.Priority = "urgent" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCreateReq()
			tt.mutate(req)
			if _, err := svc.Create(ctx, "cust-1", req); !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("Expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestAssignPlumber_ForcesConfirmed(t *testing.T) {
	svc, repo := setupBookingService()
	ctx := context.Background()

	booking, _ := svc.Create(ctx, "cust-1", validCreateReq())

	// Even a cancelled booking goes back to confirmed on assignment.
	repo.UpdateStatus(ctx, booking.ID, domain.BookingCancelled)

	assigned, err := svc.AssignPlumber(ctx, booking.ID, "plumber-1")
	if err != nil {
		t.Fatalf("AssignPlumber failed: %v", err)
	}
	if assigned.Status != domain.BookingConfirmed {
		t.Errorf("Expected status confirmed, got %q", assigned.Status)
	}
	if assigned.PlumberID == nil || *assigned.PlumberID != "plumber-1" {
		t.Error("Expected plumber-1 assigned")
	}
}

func TestAssignPlumber_Validation(t *testing.T) {
	svc, _ := setupBookingService()

	if _, err := svc.AssignPlumber(context.Background(), 1, ""); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("Expected ErrValidation for empty plumber ID, got %v", err)
	}
}

func TestAssignPlumber_NotFound(t *testing.T) {
	svc, _ := setupBookingService()

	if _, err := svc.AssignPlumber(context.Background(), 42, "plumber-1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestUpdateStatus_AnyTransitionAllowed(t *testing.T) {
	svc, _ := setupBookingService()
	ctx := context.Background()

	booking, _ := svc.Create(ctx, "cust-1", validCreateReq())

	// Admin status updates are not constrained to forward transitions.
	for _, status := range []domain.BookingStatus{
		domain.BookingCompleted,
		domain.BookingPending,
		domain.BookingInProgress,
	} {
		updated, err := svc.UpdateStatus(ctx, booking.ID, status)
		if err != nil {
			t.Fatalf("UpdateStatus to %q failed: %v", status, err)
		}
		if updated.Status != status {
			t.Errorf("Expected status %q, got %q", status, updated.Status)
		}
	}
}

func TestUpdateStatus_NotFound(t *testing.T) {
	svc, _ := setupBookingService()

	if _, err := svc.UpdateStatus(context.Background(), 42, domain.BookingConfirmed); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestCancel_Permissions(t *testing.T) {
	svc, _ := setupBookingService()
	ctx := context.Background()

	tests := []struct {
		name      string
		actorID   string
		actorRole string
		wantErr   error
	}{
		{"owner may cancel", "cust-1", domain.RoleUser, nil},
		{"admin may cancel", "someone-else", domain.RoleAdmin, nil},
		{"other user may not", "cust-2", domain.RoleUser, domain.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			booking, _ := svc.Create(ctx, "cust-1", validCreateReq())

			cancelled, err := svc.Cancel(ctx, booking.ID, tt.actorID, tt.actorRole)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Cancel failed: %v", err)
			}
			if cancelled.Status != domain.BookingCancelled {
				t.Errorf("Expected status cancelled, got %q", cancelled.Status)
			}
		})
	}
}

func TestCancel_NotFound(t *testing.T) {
	svc, _ := setupBookingService()

	if _, err := svc.Cancel(context.Background(), 42, "cust-1", domain.RoleUser); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestUpdateBooking_PatchesFields(t *testing.T) {
	svc, _ := setupBookingService()
	ctx := context.Background()

	booking, _ := svc.Create(ctx, "cust-1", validCreateReq())

	price := 149.50
	notes := "bring spare valve"
	status := domain.BookingConfirmed
	updated, err := svc.Update(ctx, booking.ID, domain.BookingPatch{
		EstimatedPrice: &price,
		AdminNotes:     &notes,
		Status:         &status,
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.EstimatedPrice == nil || *updated.EstimatedPrice != price {
		t.Error("Estimated price not applied")
	}
	if updated.AdminNotes != notes {
		t.Errorf("Expected admin notes %q, got %q", notes, updated.AdminNotes)
	}
	if updated.Status != domain.BookingConfirmed {
		t.Errorf("Expected status confirmed, got %q", updated.Status)
	}
	// Untouched fields stay put.
	if updated.Address != "12 Pipe Lane" {
		t.Errorf("Address changed unexpectedly: %q", updated.Address)
	}
}

func TestUpdateBooking_InvalidStatus(t *testing.T) {
	svc, _ := setupBookingService()
	ctx := context.Background()

	booking, _ := svc.Create(ctx, "cust-1", validCreateReq())

	bad := domain.BookingStatus("finished")
	if _, err := svc.Update(ctx, booking.ID, domain.BookingPatch{Status: &bad}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("Expected ErrValidation, got %v", err)
	}
}

func TestDeleteBooking(t *testing.T) {
	svc, repo := setupBookingService()
	ctx := context.Background()

	booking, _ := svc.Create(ctx, "cust-1", validCreateReq())

	if err := svc.Delete(ctx, booking.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if repo.bookings[booking.ID] != nil {
		t.Fatal("Booking still present after delete")
	}
	if err := svc.Delete(ctx, booking.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound on second delete, got %v", err)
	}
}

func TestListMine_FiltersByCustomer(t *testing.T) {
	svc, _ := setupBookingService()
	ctx := context.Background()

	svc.Create(ctx, "cust-1", validCreateReq())
	svc.Create(ctx, "cust-1", validCreateReq())
	svc.Create(ctx, "cust-2", validCreateReq())

	mine, err := svc.ListMine(ctx, "cust-1")
	if err != nil {
		t.Fatalf("ListMine failed: %v", err)
	}
	if len(mine) != 2 {
		t.Fatalf("Expected 2 bookings, got %d", len(mine))
	}
	for _, b := range mine {
		if b.CustomerID != "cust-1" {
			t.Errorf("Foreign booking in list: %q", b.CustomerID)
		}
	}
}
