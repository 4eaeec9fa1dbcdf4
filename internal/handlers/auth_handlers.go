package handlers

import (
	"errors"
	"net/http"

	"github.com/tekanya/plumbing-bookings/internal/domain"
)

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	err := h.authService.Register(r.Context(), &req)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]string{
			"message": "OTP sent to your email. Please verify to complete registration.",
		})
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrDuplicateEmail):
		writeError(w, http.StatusBadRequest, "User already exists with this email")
	case errors.Is(err, domain.ErrMailDelivery):
		writeError(w, http.StatusInternalServerError, "Failed to send OTP email")
	default:
		h.serverError(w, r, err)
	}
}

func (h *Handlers) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req domain.VerifyOTPRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.authService.VerifyOTP(r.Context(), &req)
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, map[string]any{
			"message": "User registered successfully",
			"user":    user.ToUserInfo(),
		})
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrInvalidOTP):
		writeError(w, http.StatusBadRequest, "Invalid or expired OTP")
	case errors.Is(err, domain.ErrDuplicateEmail):
		writeError(w, http.StatusBadRequest, "User already exists with this email")
	default:
		h.serverError(w, r, err)
	}
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.authService.Login(r.Context(), &req)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]any{
			"message":    "Login successful",
			"token":      resp.Token,
			"expires_in": resp.ExpiresIn,
			"user":       resp.User,
		})
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
	default:
		h.serverError(w, r, err)
	}
}
