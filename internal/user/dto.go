package user

import (
	"errors"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = validator.New()

type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	Firstname string `json:"firstname" validate:"required"`
	Lastname  string `json:"lastname" validate:"required"`
}

func (r *RegisterRequest) normalize() {
	r.Email = normalizeEmail(r.Email)
	r.Firstname = strings.TrimSpace(r.Firstname)
	r.Lastname = strings.TrimSpace(r.Lastname)
}

// Validate reports ErrRegisterFieldsRequired for any missing field and
// ErrInvalidEmail for a malformed address.
func (r *RegisterRequest) Validate() error {
	r.normalize()
	if err := validate.Struct(r); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			for _, fe := range fieldErrs {
				if fe.Tag() == "required" {
					return ErrRegisterFieldsRequired
				}
			}
			return ErrInvalidEmail
		}
		return err
	}
	return nil
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	Token string `json:"token"`
}

type UpdateProfileRequest struct {
	Firstname *string `json:"firstname"`
	Lastname  *string `json:"lastname"`
	Email     *string `json:"email" validate:"omitempty,email"`
}

func (r *UpdateProfileRequest) Validate() error {
	r.Firstname = trimmedOrNil(r.Firstname)
	r.Lastname = trimmedOrNil(r.Lastname)
	if r.Email != nil {
		email := normalizeEmail(*r.Email)
		r.Email = &email
		if email == "" {
			r.Email = nil
		}
	}

	if r.Firstname == nil && r.Lastname == nil && r.Email == nil {
		return ErrNoProfileFields
	}
	if err := validate.Struct(r); err != nil {
		return ErrInvalidEmail
	}
	return nil
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required"`
}

func (r *ChangePasswordRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return ErrPasswordFieldsRequired
	}
	if len(r.NewPassword) < minPasswordLength {
		return ErrWeakPassword
	}
	return nil
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required"`
	OTP         string `json:"otp" validate:"required,len=6,numeric"`
	NewPassword string `json:"newPassword" validate:"required"`
}

func (r *ResetPasswordRequest) Validate() error {
	r.Email = normalizeEmail(r.Email)
	r.OTP = strings.TrimSpace(r.OTP)
	if r.Email == "" || r.OTP == "" || r.NewPassword == "" {
		return ErrResetFieldsRequired
	}
	if err := validate.Struct(r); err != nil {
		return ErrInvalidResetCode
	}
	if len(r.NewPassword) < minPasswordLength {
		return ErrWeakPassword
	}
	return nil
}

// AvatarUpload is a decoded multipart image.
type AvatarUpload struct {
	Body        io.Reader
	Size        int64
	ContentType string
	Ext         string
}

type AccountResponse struct {
	Email string   `json:"email"`
	Roles []string `json:"roles"`
}

type LoginResponse struct {
	Email        string   `json:"email"`
	Roles        []string `json:"roles"`
	AccessToken  string   `json:"accessToken"`
	RefreshToken string   `json:"refreshToken"`
}

type RefreshResponse struct {
	AccessToken string `json:"accessToken"`
}

type ProfileResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Roles     []string  `json:"roles"`
	Firstname string    `json:"firstname"`
	Lastname  string    `json:"lastname"`
	AvatarURL string    `json:"avatarUrl,omitempty"`
}

type envelope struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func toProfile(u *User) *ProfileResponse {
	return &ProfileResponse{
		ID:        u.ID,
		Email:     u.Email,
		Roles:     []string(u.Roles),
		Firstname: u.Firstname,
		Lastname:  u.Lastname,
		AvatarURL: u.AvatarURL,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
