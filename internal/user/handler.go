package user

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/saulo-duarte/interviewace-api/internal/auth"
	"github.com/saulo-duarte/interviewace-api/internal/config"
)

const (
	maxAvatarBytes = 5 << 20
	maxBodyBytes   = 1 << 20

	resetRequestedMessage = "If an account exists for that email, we sent password reset instructions."
)

type Handler struct {
	service UserService
}

func NewHandler(service UserService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	h.register(w, r, RoleUser)
}

func (h *Handler) RegisterAdmin(w http.ResponseWriter, r *http.Request) {
	h.register(w, r, RoleAdmin)
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request, role string) {
	var req RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	account, err := h.service.Register(r.Context(), req, role)
	if err != nil {
		writeError(w, r, err)
		return
	}
	config.JSON(w, http.StatusCreated, envelope{Message: "User registed", Data: account})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.Login(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	config.JSON(w, http.StatusOK, envelope{Message: "success", Data: resp})
}

func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.Refresh(r.Context(), strings.TrimSpace(req.Token))
	if err != nil {
		writeError(w, r, err)
		return
	}
	config.JSON(w, http.StatusOK, resp)
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	profile, err := h.service.GetProfile(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	config.JSON(w, http.StatusOK, envelope{Message: "ok", Data: profile})
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	profile, err := h.service.UpdateProfile(r.Context(), userID, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	config.JSON(w, http.StatusOK, envelope{Message: "updated", Data: profile})
}

func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var req ChangePasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.service.ChangePassword(r.Context(), userID, req); err != nil {
		writeError(w, r, err)
		return
	}
	config.JSON(w, http.StatusOK, envelope{Message: "Password updated successfully"})
}

func (h *Handler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxAvatarBytes+(512<<10))
	if err := r.ParseMultipartForm(maxAvatarBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			config.Error(w, http.StatusRequestEntityTooLarge, "File too large")
			return
		}
		log.WithError(err).Warn("invalid multipart body")
		writeError(w, r, ErrNoFile)
		return
	}

	file, header, err := r.FormFile("avatar")
	if err != nil {
		writeError(w, r, ErrNoFile)
		return
	}
	defer file.Close()

	if header.Size > maxAvatarBytes {
		config.Error(w, http.StatusRequestEntityTooLarge, "File too large")
		return
	}
	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		writeError(w, r, ErrNotAnImage)
		return
	}

	profile, err := h.service.UploadAvatar(r.Context(), userID, AvatarUpload{
		Body:        file,
		Size:        header.Size,
		ContentType: contentType,
		Ext:         filepath.Ext(header.Filename),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	config.JSON(w, http.StatusOK, envelope{Message: "uploaded", Data: profile})
}

func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.service.RequestPasswordReset(r.Context(), req.Email); err != nil {
		if HTTPStatus(err) == http.StatusInternalServerError {
			config.WithContext(r.Context()).WithError(err).Error("password reset request failed")
			config.Error(w, http.StatusInternalServerError, ErrResetRequestFailed.Error())
			return
		}
		writeError(w, r, err)
		return
	}
	config.JSON(w, http.StatusOK, envelope{Message: resetRequestedMessage})
}

func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.service.ResetPassword(r.Context(), req); err != nil {
		writeError(w, r, err)
		return
	}
	config.JSON(w, http.StatusOK, envelope{Message: "Password has been reset"})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		config.WithContext(r.Context()).WithError(err).Warn("Invalid request body")
		config.Error(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

func currentUserID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	claims, err := auth.GetUserClaimsFromContext(r.Context())
	if err != nil {
		config.WithContext(r.Context()).Warn("User not authenticated")
		config.Error(w, http.StatusUnauthorized, "Unauthorized")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		config.Error(w, http.StatusUnauthorized, "Unauthorized")
		return uuid.Nil, false
	}
	return id, true
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	if status == http.StatusInternalServerError && !errors.Is(err, ErrUploadFailed) && !errors.Is(err, ErrResetRequestFailed) {
		config.WithContext(r.Context()).WithError(err).Error("request failed")
		config.Error(w, status, "Internal server error")
		return
	}
	config.Error(w, status, err.Error())
}
