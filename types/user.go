package types

import "time"

// Role is the coarse authorization tag attached to every account.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// User represents an account of the console.
// It contains identity, role, and audit metadata.
type User struct {
	// ID is the unique identifier of the user.
	ID int `json:"id" db:"id"`

	// Username is the unique login name.
	Username string `json:"username" db:"username" validate:"required,min=3,max=50" label:"Username"`

	// FullName is the user's display name.
	FullName string `json:"fullname" db:"fullname" validate:"required,max=100" label:"Full name"`

	// Role indicates the user's authorization level, either ADMIN or USER.
	Role Role `json:"role" db:"role" validate:"required,oneof=ADMIN USER" label:"Role"`

	// PasswordHash stores the BCrypt digest of the user's password.
	// This field is never exposed in responses or edit forms.
	PasswordHash string `json:"-" db:"password_hash"`

	// CreatedAt is the timestamp when the user account was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent update to the user account.
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
