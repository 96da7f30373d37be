package handler

import "github.com/haulmatic/user-directory/internal/core/domain"

type createUserRequest struct {
	Username  string `json:"username"  validate:"required"`
	Firstname string `json:"firstname" validate:"required"`
	Lastname  string `json:"lastname"  validate:"required"`
	Password  string `json:"password"  validate:"required"`
	Role      string `json:"role"      validate:"omitempty,oneof=admin user"`
}

type updateUserRequest struct {
	Username  string `json:"username"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Password  string `json:"password"`
	Role      string `json:"role" validate:"omitempty,oneof=admin user"`
}

type createUserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// updateUserResponse carries the updated record. domain.User never
// serialises its password hash.
type updateUserResponse struct {
	Message string       `json:"message"`
	User    *domain.User `json:"user"`
}
