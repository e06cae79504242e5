package models

import (
	"time"
)

// Account roles. A user always has Role as its primary role and may hold
// additional roles in Roles (e.g. a professional who also books as a client).
const (
	RoleClient       = "client"
	RoleProfessional = "professional"
	RoleVendor       = "vendor"
	RoleAdmin        = "admin"
)

// Account statuses.
const (
	StatusActive   = "active"
	StatusDisabled = "disabled"
)

// ValidRole reports whether role is one of the defined account roles.
func ValidRole(role string) bool {
	switch role {
	case RoleClient, RoleProfessional, RoleVendor, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID               string
	Email            string
	PasswordHash     string // empty for Google-only accounts
	FirstName        string
	LastName         string
	Phone            string
	Role             string
	Roles            []string
	EmailVerified    bool
	SMSNotifications bool
	PromoCode        string

	// Outstanding verification ticket, hashed at rest. Both fields are nil
	// once the email is verified.
	VerificationTokenHash *string
	VerificationExpiresAt *time.Time

	GoogleSub   *string // Google's stable subject id, set after federated sign-in
	Status      string  // "active", "disabled"
	LastLoginAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// HasRole reports whether the account holds the given role.
func (u *User) HasRole(role string) bool {
	if u.Role == role {
		return true
	}
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// TicketExpired reports whether the outstanding verification ticket has
// expired. A ticket expiring at exactly now is still valid.
func (u *User) TicketExpired(now time.Time) bool {
	if u.VerificationExpiresAt == nil {
		return true
	}
	return now.After(*u.VerificationExpiresAt)
}
