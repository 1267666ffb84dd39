package domain

import "time"

// User represents a user of the application in the domain.
type User struct {
	UserID                 string     `json:"userID"` // Primary Key (UUID)
	Username               string     `json:"username"`
	Name                   string     `json:"name"`
	PasswordHash           string     `json:"-"`
	AuthProvider           string     `json:"authProvider,omitempty"` // "local" or "google"
	ProviderUserID         string     `json:"-"`                      // Subject from the external provider
	RefreshTokenHash       string     `json:"-"`
	RefreshTokenExpiryTime *time.Time `json:"-"`
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty"` // Used for soft delete
}

// GoogleUserInfo holds the subset of the Google userinfo payload the
// application cares about.
type GoogleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}
