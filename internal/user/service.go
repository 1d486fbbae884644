package user

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/saulo-duarte/interviewace-api/internal/auth"
	"github.com/saulo-duarte/interviewace-api/internal/config"
	"github.com/sirupsen/logrus"
)

// ResetCodeTTL is how long an emailed reset code stays valid.
const ResetCodeTTL = 15 * time.Minute

// maxResetAttempts wrong codes discard the stored one.
const maxResetAttempts = 5

type PasswordHasher interface {
	HashPassword(pw string) (string, error)
	VerifyPassword(pw, storedHash string) bool
}

type AvatarStore interface {
	Upload(ctx context.Context, r io.Reader, size int64, contentType, ext string) (url, key string, err error)
	Delete(ctx context.Context, key string) error
}

type Mailer interface {
	SendPasswordResetOTP(ctx context.Context, recipient, otp string) error
}

type UserService interface {
	Register(ctx context.Context, req RegisterRequest, role string) (*AccountResponse, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Refresh(ctx context.Context, token string) (*RefreshResponse, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*ProfileResponse, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*ProfileResponse, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, req ChangePasswordRequest) error
	UploadAvatar(ctx context.Context, userID uuid.UUID, upload AvatarUpload) (*ProfileResponse, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, req ResetPasswordRequest) error
}

type userService struct {
	repo      UserRepository
	passwords PasswordHasher
	tokens    config.JWTConfig
	avatars   AvatarStore
	mailer    Mailer
	now       func() time.Time
}

// NewService builds the account service. avatars may be nil when object
// storage is not configured; uploads then fail with ErrUploadFailed.
func NewService(repo UserRepository, passwords PasswordHasher, tokens config.JWTConfig, avatars AvatarStore, mailer Mailer) UserService {
	return &userService{
		repo:      repo,
		passwords: passwords,
		tokens:    tokens,
		avatars:   avatars,
		mailer:    mailer,
		now:       time.Now,
	}
}

func (s *userService) Register(ctx context.Context, req RegisterRequest, role string) (*AccountResponse, error) {
	log := config.WithContext(ctx)

	if err := req.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.repo.FindByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailExists
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("failed to look up email: %w", err)
	}

	hash, err := s.passwords.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	u := &User{
		ID:           uuid.New(),
		Email:        req.Email,
		PasswordHash: hash,
		Firstname:    req.Firstname,
		Lastname:     req.Lastname,
		Roles:        []string{role},
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	log.WithFields(logrus.Fields{"user_id": u.ID, "role": role}).Info("user registered")
	return &AccountResponse{Email: u.Email, Roles: []string(u.Roles)}, nil
}

func (s *userService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	log := config.WithContext(ctx)

	req.Email = normalizeEmail(req.Email)
	if err := validate.Struct(req); err != nil {
		return nil, ErrInvalidCredentials
	}

	u, err := s.repo.FindByEmail(ctx, req.Email)
	if errors.Is(err, ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !s.passwords.VerifyPassword(req.Password, u.PasswordHash) {
		log.WithField("user_id", u.ID).Warn("login with wrong password")
		return nil, ErrInvalidCredentials
	}

	access, err := auth.GenerateJWT(u.ID.String(), []string(u.Roles), s.tokens.AccessTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}
	refresh, err := auth.GenerateRefreshJWT(u.ID.String(), s.tokens.RefreshTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return &LoginResponse{
		Email:        u.Email,
		Roles:        []string(u.Roles),
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}

func (s *userService) Refresh(ctx context.Context, token string) (*RefreshResponse, error) {
	if token == "" {
		return nil, ErrTokenRequired
	}

	claims, err := auth.ValidateRefreshJWT(token)
	if err != nil {
		config.WithContext(ctx).WithError(err).Warn("rejected refresh token")
		return nil, ErrInvalidOrExpiredToken
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, ErrInvalidOrExpiredToken
	}

	u, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, ErrUserNotFound) {
		return nil, ErrInvalidRefreshToken
	}
	if err != nil {
		return nil, err
	}

	access, err := auth.GenerateJWT(u.ID.String(), []string(u.Roles), s.tokens.AccessTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}
	return &RefreshResponse{AccessToken: access}, nil
}

func (s *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*ProfileResponse, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toProfile(u), nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*ProfileResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Email != nil && *req.Email != u.Email {
		existing, err := s.repo.FindByEmail(ctx, *req.Email)
		switch {
		case err == nil && existing.ID != u.ID:
			return nil, ErrEmailInUse
		case err != nil && !errors.Is(err, ErrUserNotFound):
			return nil, err
		}
		u.Email = *req.Email
	}
	if req.Firstname != nil {
		u.Firstname = *req.Firstname
	}
	if req.Lastname != nil {
		u.Lastname = *req.Lastname
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return toProfile(u), nil
}

func (s *userService) ChangePassword(ctx context.Context, userID uuid.UUID, req ChangePasswordRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if !s.passwords.VerifyPassword(req.CurrentPassword, u.PasswordHash) {
		return ErrWrongPassword
	}
	if req.CurrentPassword == req.NewPassword {
		return ErrSamePassword
	}

	hash, err := s.passwords.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return s.repo.Update(ctx, u)
}

// UploadAvatar replaces the user's picture. Removing the previous object is
// best effort.
func (s *userService) UploadAvatar(ctx context.Context, userID uuid.UUID, upload AvatarUpload) (*ProfileResponse, error) {
	log := config.WithContext(ctx).WithField("user_id", userID)

	if s.avatars == nil {
		log.Error("avatar upload requested but object storage is not configured")
		return nil, ErrUploadFailed
	}

	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if u.AvatarKey != "" {
		if err := s.avatars.Delete(ctx, u.AvatarKey); err != nil {
			log.WithError(err).Warn("Failed to delete previous image")
		}
	}

	url, key, err := s.avatars.Upload(ctx, upload.Body, upload.Size, upload.ContentType, upload.Ext)
	if err != nil {
		log.WithError(err).Error("avatar upload failed")
		return nil, ErrUploadFailed
	}

	u.AvatarURL = url
	u.AvatarKey = key
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return toProfile(u), nil
}

// RequestPasswordReset stores a hashed one-time code and mails it. Unknown
// addresses succeed silently so callers cannot enumerate accounts.
func (s *userService) RequestPasswordReset(ctx context.Context, email string) error {
	log := config.WithContext(ctx)

	email = normalizeEmail(email)
	if email == "" {
		return ErrEmailRequired
	}

	u, err := s.repo.FindByEmail(ctx, email)
	if errors.Is(err, ErrUserNotFound) {
		log.Info("password reset requested for unknown email")
		return nil
	}
	if err != nil {
		return err
	}

	otp, err := config.GenerateOTP()
	if err != nil {
		return err
	}
	expires := s.now().Add(ResetCodeTTL)
	u.ResetPasswordToken = config.HashOTP(otp)
	u.ResetPasswordExpires = &expires
	u.ResetAttempts = 0
	if err := s.repo.Update(ctx, u); err != nil {
		return err
	}

	if err := s.mailer.SendPasswordResetOTP(ctx, u.Email, otp); err != nil {
		log.WithError(err).WithField("user_id", u.ID).Error("failed to send reset email")
		return ErrResetRequestFailed
	}
	return nil
}

func (s *userService) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	u, err := s.repo.FindByEmail(ctx, req.Email)
	if errors.Is(err, ErrUserNotFound) {
		return ErrInvalidResetCode
	}
	if err != nil {
		return err
	}

	if u.ResetPasswordToken == "" || u.ResetPasswordExpires == nil ||
		!s.now().Before(*u.ResetPasswordExpires) {
		return ErrInvalidResetCode
	}
	if !config.CompareOTP(req.OTP, u.ResetPasswordToken) {
		return s.recordFailedReset(ctx, u)
	}

	hash, err := s.passwords.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	u.clearResetToken()
	if err := s.repo.Update(ctx, u); err != nil {
		return err
	}

	config.WithContext(ctx).WithField("user_id", u.ID).Info("password reset completed")
	return nil
}

func (s *userService) recordFailedReset(ctx context.Context, u *User) error {
	log := config.WithContext(ctx).WithFields(logrus.Fields{"user_id": u.ID, "attempt": u.ResetAttempts + 1})

	u.ResetAttempts++
	if u.ResetAttempts >= maxResetAttempts {
		u.clearResetToken()
		log.Warn("too many wrong reset codes, discarding stored code")
	} else {
		log.Info("wrong reset code")
	}
	if err := s.repo.Update(ctx, u); err != nil {
		return err
	}
	return ErrInvalidResetCode
}
