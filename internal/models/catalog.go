package models

import "time"

// Service is a bookable catalog entry (haircut, manicure, facial, ...).
type Service struct {
	ID          string
	Name        string
	Description string
	Category    string
	PriceCents  int
	DurationMin int
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Professional is a provider offering services on the platform.
type Professional struct {
	ID          string
	UserID      *string // linked account, if the professional signed up
	DisplayName string
	Bio         string
	Specialty   string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
