package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/tekanya/plumbing-bookings/internal/domain"
)

func (h *Handlers) CreatePlumber(w http.ResponseWriter, r *http.Request) {
	var req domain.PlumberCreateReq
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	plumber, err := h.catalogService.CreatePlumber(r.Context(), &req)
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, map[string]any{
			"message": "Plumber created successfully",
			"plumber": plumber,
		})
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrDuplicateEmail):
		writeError(w, http.StatusBadRequest, "Plumber already exists with this email")
	default:
		h.serverError(w, r, err)
	}
}

func (h *Handlers) GetPlumber(w http.ResponseWriter, r *http.Request) {
	plumber, err := h.catalogService.GetPlumber(r.Context(), chi.URLParam(r, "id"))
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]any{"plumber": plumber})
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "Plumber not found")
	default:
		h.serverError(w, r, err)
	}
}

func (h *Handlers) ListPlumbers(w http.ResponseWriter, r *http.Request) {
	plumbers, err := h.catalogService.ListPlumbers(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	writePlumberList(w, plumbers)
}

func (h *Handlers) ListAvailablePlumbers(w http.ResponseWriter, r *http.Request) {
	plumbers, err := h.catalogService.ListAvailablePlumbers(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	writePlumberList(w, plumbers)
}

func (h *Handlers) UpdatePlumber(w http.ResponseWriter, r *http.Request) {
	var patch domain.PlumberPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	plumber, err := h.catalogService.UpdatePlumber(r.Context(), chi.URLParam(r, "id"), patch)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]any{
			"message": "Plumber updated successfully",
			"plumber": plumber,
		})
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "Plumber not found")
	default:
		h.serverError(w, r, err)
	}
}

func (h *Handlers) DeletePlumber(w http.ResponseWriter, r *http.Request) {
	err := h.catalogService.DeletePlumber(r.Context(), chi.URLParam(r, "id"))
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]string{"message": "Plumber deleted successfully"})
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "Plumber not found")
	default:
		h.serverError(w, r, err)
	}
}

func serviceID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil
}

func (h *Handlers) CreateService(w http.ResponseWriter, r *http.Request) {
	var req domain.ServiceCreateReq
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	svc, err := h.catalogService.CreateService(r.Context(), &req)
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, map[string]any{
			"message": "Service created successfully",
			"service": svc,
		})
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrDuplicateName):
		writeError(w, http.StatusBadRequest, "Service already exists with this name")
	default:
		h.serverError(w, r, err)
	}
}

func (h *Handlers) GetService(w http.ResponseWriter, r *http.Request) {
	id, ok := serviceID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid service ID")
		return
	}

	svc, err := h.catalogService.GetService(r.Context(), id)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]any{"service": svc})
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "Service not found")
	default:
		h.serverError(w, r, err)
	}
}

func (h *Handlers) ListServices(w http.ResponseWriter, r *http.Request) {
	services, err := h.catalogService.ListServices(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	writeServiceList(w, services)
}

func (h *Handlers) ListActiveServices(w http.ResponseWriter, r *http.Request) {
	services, err := h.catalogService.ListActiveServices(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	writeServiceList(w, services)
}

func (h *Handlers) ListServicesByCategory(w http.ResponseWriter, r *http.Request) {
	services, err := h.catalogService.ListServicesByCategory(r.Context(), chi.URLParam(r, "category"))
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	writeServiceList(w, services)
}

func (h *Handlers) UpdateService(w http.ResponseWriter, r *http.Request) {
	id, ok := serviceID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid service ID")
		return
	}

	var patch domain.ServicePatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	svc, err := h.catalogService.UpdateService(r.Context(), id, patch)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]any{
			"message": "Service updated successfully",
			"service": svc,
		})
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "Service not found")
	default:
		h.serverError(w, r, err)
	}
}

func (h *Handlers) DeleteService(w http.ResponseWriter, r *http.Request) {
	id, ok := serviceID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid service ID")
		return
	}

	err := h.catalogService.DeleteService(r.Context(), id)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]string{"message": "Service deleted successfully"})
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "Service not found")
	default:
		h.serverError(w, r, err)
	}
}

func writePlumberList(w http.ResponseWriter, plumbers []domain.Plumber) {
	if plumbers == nil {
		plumbers = []domain.Plumber{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count":    len(plumbers),
		"plumbers": plumbers,
	})
}

func writeServiceList(w http.ResponseWriter, services []domain.Service) {
	if services == nil {
		services = []domain.Service{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count":    len(services),
		"services": services,
	})
}
