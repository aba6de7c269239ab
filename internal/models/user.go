package models

// ContextKey is the type of request context keys set by the auth middleware
type ContextKey string

// UserIDKey holds the authenticated user's ID (decimal string) in the request context
const UserIDKey ContextKey = "userID"

// User represents a user in the system
type User struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"` // Not serialized
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}
