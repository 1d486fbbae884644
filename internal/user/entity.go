package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

type User struct {
	ID                   uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	Email                string                      `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash         string                      `gorm:"column:password;not null" json:"-"`
	Firstname            string                      `json:"firstname"`
	Lastname             string                      `json:"lastname"`
	Roles                datatypes.JSONSlice[string] `gorm:"type:jsonb;not null" json:"roles"`
	AvatarURL            string                      `json:"avatarUrl,omitempty"`
	AvatarKey            string                      `json:"-"`
	ResetPasswordToken   string                      `json:"-"`
	ResetPasswordExpires *time.Time                  `json:"-"`
	ResetAttempts        int                         `gorm:"not null;default:0" json:"-"`
	CreatedAt            time.Time                   `json:"created_at"`
	UpdatedAt            time.Time                   `json:"updated_at"`
}

func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func (u *User) clearResetToken() {
	u.ResetPasswordToken = ""
	u.ResetPasswordExpires = nil
	u.ResetAttempts = 0
}
