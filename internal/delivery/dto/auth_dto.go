package dto

import (
	"time"
)

// Request DTOs

type LoginRequest struct {
	Username string `json:"username" validate:"required,max=50"`
	Password string `json:"password" validate:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// Response DTOs

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// UserResponse is a user without its password hash. DoctorID or PatientID is
// set when the user owns the matching profile.
type UserResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	DoctorID  *int64    `json:"doctor_id,omitempty"`
	PatientID *int64    `json:"patient_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
