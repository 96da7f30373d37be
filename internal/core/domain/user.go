package domain

import "time"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User models an account in the directory.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Firstname    string    `json:"firstname"`
	Lastname     string    `json:"lastname"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UserPatch carries a partial update. Nil fields are left untouched.
// PasswordHash must already be hashed.
type UserPatch struct {
	Username     *string
	Firstname    *string
	Lastname     *string
	PasswordHash *string
	Role         *string
}

// Identity is the set of claims carried by a session token.
type Identity struct {
	UserID   string
	Username string
	Role     string
}

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleUser
}
