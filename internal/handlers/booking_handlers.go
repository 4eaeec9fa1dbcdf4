package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/tekanya/plumbing-bookings/internal/domain"
)

func bookingID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil
}

func (h *Handlers) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req domain.BookingCreateReq
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	claims := getClaims(r)
	booking, err := h.bookingService.Create(r.Context(), claims.Sub, &req)
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, map[string]any{
			"message": "Booking created successfully",
			"booking": booking,
		})
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.serverError(w, r, err)
	}
}

func (h *Handlers) MyBookings(w http.ResponseWriter, r *http.Request) {
	claims := getClaims(r)
	bookings, err := h.bookingService.ListMine(r.Context(), claims.Sub)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	writeBookingList(w, bookings)
}

func (h *Handlers) CancelBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := bookingID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid booking ID")
		return
	}

	claims := getClaims(r)
	booking, err := h.bookingService.Cancel(r.Context(), id, claims.Sub, claims.Role)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]any{
			"message": "Booking cancelled successfully",
			"booking": booking,
		})
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "Booking not found")
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, "You don't have permission to cancel this booking")
	default:
		h.serverError(w, r, err)
	}
}

func (h *Handlers) ListBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.bookingService.ListAll(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	writeBookingList(w, bookings)
}

func (h *Handlers) ListBookingsByStatus(w http.ResponseWriter, r *http.Request) {
	status, ok := domain.ParseBookingStatus(chi.URLParam(r, "status"))
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid status")
		return
	}

	bookings, err := h.bookingService.ListByStatus(r.Context(), status)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	writeBookingList(w, bookings)
}

func (h *Handlers) GetBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := bookingID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid booking ID")
		return
	}

	booking, err := h.bookingService.GetByID(r.Context(), id)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]any{"booking": booking})
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "Booking not found")
	default:
		h.serverError(w, r, err)
	}
}

func (h *Handlers) UpdateBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := bookingID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid booking ID")
		return
	}

	var patch domain.BookingPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	booking, err := h.bookingService.Update(r.Context(), id, patch)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]any{
			"message": "Booking updated successfully",
			"booking": booking,
		})
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "Booking not found")
	default:
		h.serverError(w, r, err)
	}
}

func (h *Handlers) AssignPlumber(w http.ResponseWriter, r *http.Request) {
	id, ok := bookingID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid booking ID")
		return
	}

	var req struct {
		PlumberID string `json:"plumber_id"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	booking, err := h.bookingService.AssignPlumber(r.Context(), id, req.PlumberID)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]any{
			"message": "Plumber assigned successfully",
			"booking": booking,
		})
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "Booking not found")
	default:
		h.serverError(w, r, err)
	}
}

func (h *Handlers) UpdateBookingStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := bookingID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid booking ID")
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	status, valid := domain.ParseBookingStatus(req.Status)
	if !valid {
		writeError(w, http.StatusBadRequest, "Invalid status")
		return
	}

	booking, err := h.bookingService.UpdateStatus(r.Context(), id, status)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]any{
			"message": "Booking status updated successfully",
			"booking": booking,
		})
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "Booking not found")
	default:
		h.serverError(w, r, err)
	}
}

func (h *Handlers) DeleteBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := bookingID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid booking ID")
		return
	}

	err := h.bookingService.Delete(r.Context(), id)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]string{"message": "Booking deleted successfully"})
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "Booking not found")
	default:
		h.serverError(w, r, err)
	}
}

func writeBookingList(w http.ResponseWriter, bookings []domain.Booking) {
	if bookings == nil {
		bookings = []domain.Booking{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count":    len(bookings),
		"bookings": bookings,
	})
}
