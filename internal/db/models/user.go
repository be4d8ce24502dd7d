package models

// User represents the authenticated principal of a session.
// A user holds exactly one role; the role name is resolved against the static
// role table in the auth package and unknown names resolve to no permissions.
type User struct {
	// ID is the numeric identifier assigned by the backend.
	ID uint64 `json:"id" validate:"required"`
	// Username is the login name.
	Username string `json:"username" validate:"required,max=100"`
	// Email is the user's email address.
	Email string `json:"email,omitempty" validate:"omitempty,email"`
	// Name is the display name.
	Name string `json:"name,omitempty"`
	// Role is the single role identifier held by the user.
	Role string `json:"role" validate:"required"`
	// TenantID is the tenant the user is affiliated with, if any.
	TenantID *uint64 `json:"tenant_id,omitempty"`
	// Avatar is an optional avatar URL.
	Avatar string `json:"avatar,omitempty"`
	// Department is optional display metadata.
	Department string `json:"department,omitempty"`
	// Phone is optional display metadata.
	Phone string `json:"phone,omitempty"`
}

// Clone returns a deep copy of the user.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}

	out := *u
	if u.TenantID != nil {
		id := *u.TenantID
		out.TenantID = &id
	}

	return &out
}
