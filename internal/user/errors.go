package user

import (
	"errors"
	"net/http"
)

const minPasswordLength = 8

var (
	ErrRegisterFieldsRequired = errors.New("email, password, firstname and lastname are required")
	ErrInvalidEmail           = errors.New("Invalid email address")
	ErrEmailExists            = errors.New("Email exists")
	ErrInvalidCredentials     = errors.New("Invalid credentials")
	ErrTokenRequired          = errors.New("Token required")
	ErrInvalidOrExpiredToken  = errors.New("Invalid or expire token")
	ErrInvalidRefreshToken    = errors.New("Invalid refresh token")
	ErrUserNotFound           = errors.New("User not found")
	ErrNoProfileFields        = errors.New("At least one field (firstname, lastname, email) required")
	ErrEmailInUse             = errors.New("Email already in use")
	ErrPasswordFieldsRequired = errors.New("currentPassword and newPassword are required")
	ErrWeakPassword           = errors.New("New password must be at least 8 characters")
	ErrWrongPassword          = errors.New("Current password is incorrect")
	ErrSamePassword           = errors.New("New password must be different from current password")
	ErrNoFile                 = errors.New("No file uploaded")
	ErrNotAnImage             = errors.New("Only image uploads are allowed")
	ErrUploadFailed           = errors.New("Failed to upload image")
	ErrEmailRequired          = errors.New("Email is required")
	ErrResetFieldsRequired    = errors.New("email, otp and newPassword are required")
	ErrInvalidResetCode       = errors.New("Invalid or expired reset code")
	ErrResetRequestFailed     = errors.New("Failed to process password reset request")
)

// HTTPStatus maps a service error to its response status. Unknown errors
// are internal.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrRegisterFieldsRequired),
		errors.Is(err, ErrInvalidEmail),
		errors.Is(err, ErrEmailExists),
		errors.Is(err, ErrTokenRequired),
		errors.Is(err, ErrNoProfileFields),
		errors.Is(err, ErrEmailInUse),
		errors.Is(err, ErrPasswordFieldsRequired),
		errors.Is(err, ErrWeakPassword),
		errors.Is(err, ErrWrongPassword),
		errors.Is(err, ErrSamePassword),
		errors.Is(err, ErrNoFile),
		errors.Is(err, ErrNotAnImage),
		errors.Is(err, ErrEmailRequired),
		errors.Is(err, ErrResetFieldsRequired),
		errors.Is(err, ErrInvalidResetCode):
		return http.StatusBadRequest
	case errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, ErrInvalidOrExpiredToken), errors.Is(err, ErrInvalidRefreshToken):
		return http.StatusForbidden
	case errors.Is(err, ErrUserNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
