package user

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/saulo-duarte/interviewace-api/internal/auth"
)

// Routes mounts the account endpoints. throttle guards the credential
// endpoints and may be nil.
func Routes(h *Handler, throttle func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	limited := r.With()
	if throttle != nil {
		limited = r.With(throttle)
	}

	r.Post("/register", h.Register)
	limited.Post("/login", h.Login)
	r.Post("/refresh", h.RefreshToken)
	limited.Post("/forgot-password", h.ForgotPassword)
	limited.Post("/reset-password", h.ResetPassword)

	r.Group(func(r chi.Router) {
		r.Use(auth.AuthMiddleware)

		r.Get("/me", h.GetUser)
		r.Put("/me", h.UpdateUser)
		r.Put("/me/password", h.ChangePassword)
		r.Post("/me/avatar", h.UploadAvatar)
		r.With(auth.RequireRole(RoleAdmin)).Post("/admin/register", h.RegisterAdmin)
	})
	return r
}
