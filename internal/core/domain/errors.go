package domain

import "errors"

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrUsernameTaken   = errors.New("username already exists")
	ErrInvalidPassword = errors.New("invalid password")
	ErrInvalidData     = errors.New("invalid data")
	ErrAdminProtected  = errors.New("admin users cannot be deleted")
	ErrForbidden       = errors.New("access forbidden")
	ErrInvalidToken    = errors.New("invalid token")
	ErrEmptySecret     = errors.New("secret must not be empty")
)
