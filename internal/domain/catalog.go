package domain

import (
	"fmt"
	"time"
)

// Service is a plumbing service offered in the catalog.
type Service struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       *float64  `json:"price"`
	Duration    string    `json:"duration,omitempty"`
	Category    string    `json:"category,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ServiceCreateReq struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       *float64 `json:"price"`
	Duration    string   `json:"duration"`
	Category    string   `json:"category"`
	IsActive    *bool    `json:"is_active"`
}

func (r *ServiceCreateReq) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if r.Description == "" {
		return fmt.Errorf("%w: description is required", ErrValidation)
	}
	return nil
}

type ServicePatch struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Duration    *string  `json:"duration,omitempty"`
	Category    *string  `json:"category,omitempty"`
	IsActive    *bool    `json:"is_active,omitempty"`
}

// Plumber is a technician who can be assigned to bookings.
type Plumber struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Phone          string    `json:"phone"`
	Email          string    `json:"email"`
	Specialization string    `json:"specialization,omitempty"`
	Experience     string    `json:"experience,omitempty"`
	Location       string    `json:"location,omitempty"`
	Available      bool      `json:"available"`
	Rating         *float64  `json:"rating"`
	Description    string    `json:"description,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type PlumberCreateReq struct {
	Name           string   `json:"name"`
	Phone          string   `json:"phone"`
	Email          string   `json:"email"`
	Specialization string   `json:"specialization"`
	Experience     string   `json:"experience"`
	Location       string   `json:"location"`
	Available      *bool    `json:"available"`
	Rating         *float64 `json:"rating"`
	Description    string   `json:"description"`
}

func (r *PlumberCreateReq) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if r.Phone == "" {
		return fmt.Errorf("%w: phone is required", ErrValidation)
	}
	return validateEmail(r.Email)
}

type PlumberPatch struct {
	Name           *string  `json:"name,omitempty"`
	Phone          *string  `json:"phone,omitempty"`
	Email          *string  `json:"email,omitempty"`
	Specialization *string  `json:"specialization,omitempty"`
	Experience     *string  `json:"experience,omitempty"`
	Location       *string  `json:"location,omitempty"`
	Available      *bool    `json:"available,omitempty"`
	Rating         *float64 `json:"rating,omitempty"`
	Description    *string  `json:"description,omitempty"`
}
