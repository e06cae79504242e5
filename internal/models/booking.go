package models

import "time"

// Booking statuses.
const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCancelled = "cancelled"
	BookingCompleted = "completed"
)

type Booking struct {
	ID             string
	UserID         string
	ServiceID      string
	ProfessionalID string
	StartsAt       time.Time
	Status         string
	Notes          string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
