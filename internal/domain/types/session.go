package types

// UserID identifies an account on the auth backend.
type UserID string

// String returns the string form of the identifier.
func (id UserID) String() string { return string(id) }

// User is the profile returned by the auth backend.
type User struct {
	ID    UserID `json:"id" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name,omitempty"`
}

// Session is the authenticated state persisted in the secure backend.
type Session struct {
	Token      string `json:"token" validate:"required"`
	User       *User  `json:"user,omitempty"`
	CreatedUTC int64  `json:"created_utc,omitempty"`
}
