package dto

// CreateUserRequest defines the structure for registering a new user.
type CreateUserRequest struct {
	Username string `json:"username" binding:"required,min=3,max=64"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

// UpdateUserRequest defines the structure for updating a user's profile.
type UpdateUserRequest struct {
	Name *string `json:"name,omitempty"`
}

// LoginRequest defines the structure for a password login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest identifies the user for a token refresh. The refresh token
// itself usually travels in an HTTPOnly cookie; the body field is a fallback
// for clients that cannot use cookies.
type RefreshRequest struct {
	UserID       string `json:"userID" binding:"required"`
	RefreshToken string `json:"refreshToken,omitempty"`
}
