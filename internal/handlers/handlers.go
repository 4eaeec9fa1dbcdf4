package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/tekanya/plumbing-bookings/internal/domain"
	"github.com/tekanya/plumbing-bookings/internal/repository"
	"github.com/tekanya/plumbing-bookings/internal/service"
	"github.com/tekanya/plumbing-bookings/pkg/auth"
	"github.com/tekanya/plumbing-bookings/pkg/config"
	"github.com/tekanya/plumbing-bookings/pkg/logger"
)

type Handlers struct {
	authService    service.AuthService
	bookingService service.BookingService
	catalogService service.CatalogService
	userRepo       repository.UserRepository
	config         *config.Config
}

func New(
	authService service.AuthService,
	bookingService service.BookingService,
	catalogService service.CatalogService,
	userRepo repository.UserRepository,
	config *config.Config,
) *Handlers {
	return &Handlers{
		authService:    authService,
		bookingService: bookingService,
		catalogService: catalogService,
		userRepo:       userRepo,
		config:         config,
	}
}

// Routes mounts the API surface. Catalog reads are public; everything
// touching bookings requires a token, and admin routes check the live
// role on every request.
func (h *Handlers) Routes() chi.Router {
	r := chi.NewRouter()

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/verify-otp", h.VerifyOTP)
		r.Post("/login", h.Login)
	})

	r.Route("/bookings", func(r chi.Router) {
		r.Use(h.RequireAuth)

		r.Post("/", h.CreateBooking)
		r.Get("/my-bookings", h.MyBookings)
		r.Put("/{id}/cancel", h.CancelBooking)

		r.Group(func(r chi.Router) {
			r.Use(h.RequireAdmin)
			r.Get("/", h.ListBookings)
			r.Get("/status/{status}", h.ListBookingsByStatus)
			r.Get("/{id}", h.GetBooking)
			r.Put("/{id}", h.UpdateBooking)
			r.Put("/{id}/assign", h.AssignPlumber)
			r.Put("/{id}/status", h.UpdateBookingStatus)
			r.Delete("/{id}", h.DeleteBooking)
		})
	})

	r.Route("/plumbers", func(r chi.Router) {
		r.Get("/", h.ListPlumbers)
		r.Get("/available", h.ListAvailablePlumbers)
		r.Get("/{id}", h.GetPlumber)

		r.Group(func(r chi.Router) {
			r.Use(h.RequireAuth, h.RequireAdmin)
			r.Post("/", h.CreatePlumber)
			r.Put("/{id}", h.UpdatePlumber)
			r.Delete("/{id}", h.DeletePlumber)
		})
	})

	r.Route("/services", func(r chi.Router) {
		r.Get("/", h.ListServices)
		r.Get("/active", h.ListActiveServices)
		r.Get("/category/{category}", h.ListServicesByCategory)
		r.Get("/{id}", h.GetService)

		r.Group(func(r chi.Router) {
			r.Use(h.RequireAuth, h.RequireAdmin)
			r.Post("/", h.CreateService)
			r.Put("/{id}", h.UpdateService)
			r.Delete("/{id}", h.DeleteService)
		})
	})

	return r
}

type contextKey string

const claimsContextKey contextKey = "claims"

// RequireAuth validates the bearer token and stashes its claims. Claims
// are trusted as-is here; only admin routes re-check the database.
func (h *Handlers) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			writeError(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		claims, err := auth.Parse(strings.TrimPrefix(header, "Bearer "), h.config.Auth.JWTSecret)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), claimsContextKey, claims)
		ctx = context.WithValue(ctx, logger.UserIDKey, claims.Sub)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin re-fetches the user so a role revoked after token issuance
// takes effect immediately. A deleted user gets 401, a non-admin 403.
func (h *Handlers) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := getClaims(r)
		if claims == nil {
			writeError(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		user, err := h.userRepo.FindByID(r.Context(), claims.Sub)
		if err != nil {
			h.serverError(w, r, err)
			return
		}
		if user == nil {
			writeError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}
		if user.Role != domain.RoleAdmin {
			writeError(w, http.StatusForbidden, "Admin access required")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func getClaims(r *http.Request) *auth.Claims {
	claims, _ := r.Context().Value(claimsContextKey).(*auth.Claims)
	return claims
}

func decodeJSON(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

func (h *Handlers) serverError(w http.ResponseWriter, r *http.Request, err error) {
	logger.ErrorContext(r.Context(), "Internal server error", "error", err, "path", r.URL.Path)
	writeError(w, http.StatusInternalServerError, "Internal server error")
}
