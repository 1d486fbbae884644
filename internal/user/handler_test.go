package user

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/saulo-duarte/interviewace-api/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (*testEnv, http.Handler) {
	t.Helper()
	env := newTestEnv(t)
	return env, Routes(NewHandler(env.service), nil)
}

func bearer(t *testing.T, u *User) string {
	t.Helper()
	token, err := auth.GenerateJWT(u.ID.String(), []string(u.Roles), time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

func serve(h http.Handler, method, path, body, authz string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHandler_Register(t *testing.T) {
	_, h := newTestRouter(t)

	rr := serve(h, http.MethodPost, "/register", `{"email":"jane@example.com","password":"secret123","firstname":"Jane","lastname":"Doe"}`, "")
	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.JSONEq(t, `{"message":"User registed","data":{"email":"jane@example.com","roles":["USER"]}}`, rr.Body.String())

	rr = serve(h, http.MethodPost, "/register", `{"email":"jane@example.com","password":"secret123","firstname":"Jane","lastname":"Doe"}`, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"message":"Email exists"}`, rr.Body.String())

	rr = serve(h, http.MethodPost, "/register", `{"email":"john@example.com"}`, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"message":"email, password, firstname and lastname are required"}`, rr.Body.String())

	rr = serve(h, http.MethodPost, "/register", `{"email":`, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"message":"Invalid request body"}`, rr.Body.String())
}

func TestHandler_LoginAndRefresh(t *testing.T) {
	env, h := newTestRouter(t)
	env.seedUser(t, "jane@example.com", "secret123")

	rr := serve(h, http.MethodPost, "/login", `{"email":"jane@example.com","password":"bad"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.JSONEq(t, `{"message":"Invalid credentials"}`, rr.Body.String())

	rr = serve(h, http.MethodPost, "/login", `{"email":"jane@example.com","password":"secret123"}`, "")
	require.Equal(t, http.StatusOK, rr.Code)

	var login struct {
		Message string        `json:"message"`
		Data    LoginResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &login))
	assert.Equal(t, "success", login.Message)
	assert.NotEmpty(t, login.Data.AccessToken)
	assert.NotEmpty(t, login.Data.RefreshToken)

	rr = serve(h, http.MethodPost, "/refresh", `{"token":"`+login.Data.RefreshToken+`"}`, "")
	require.Equal(t, http.StatusOK, rr.Code)
	var refreshed RefreshResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &refreshed))
	assert.NotEmpty(t, refreshed.AccessToken)

	rr = serve(h, http.MethodPost, "/refresh", `{}`, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"message":"Token required"}`, rr.Body.String())

	rr = serve(h, http.MethodPost, "/refresh", `{"token":"garbage"}`, "")
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.JSONEq(t, `{"message":"Invalid or expire token"}`, rr.Body.String())
}

func TestHandler_Me(t *testing.T) {
	env, h := newTestRouter(t)
	u := env.seedUser(t, "jane@example.com", "secret123")

	rr := serve(h, http.MethodGet, "/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.JSONEq(t, `{"message":"No token provided"}`, rr.Body.String())

	rr = serve(h, http.MethodGet, "/me", "", bearer(t, u))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t,
		`{"message":"ok","data":{"id":"`+u.ID.String()+`","email":"jane@example.com","roles":["USER"],"firstname":"Jane","lastname":"Doe"}}`,
		rr.Body.String())

	rr = serve(h, http.MethodPut, "/me", `{"lastname":"Smith"}`, bearer(t, u))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"lastname":"Smith"`)
	assert.Contains(t, rr.Body.String(), `"message":"updated"`)

	rr = serve(h, http.MethodPut, "/me", `{}`, bearer(t, u))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = serve(h, http.MethodPut, "/me/password", `{"currentPassword":"secret123","newPassword":"newsecret1"}`, bearer(t, u))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message":"Password updated successfully"}`, rr.Body.String())

	rr = serve(h, http.MethodPut, "/me/password", `{"currentPassword":"secret123","newPassword":"another12"}`, bearer(t, u))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"message":"Current password is incorrect"}`, rr.Body.String())
}

func TestHandler_MeUnknownUser(t *testing.T) {
	env, h := newTestRouter(t)
	ghost := env.seedUser(t, "jane@example.com", "secret123")
	delete(env.repo.users, ghost.ID)

	rr := serve(h, http.MethodGet, "/me", "", bearer(t, ghost))
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.JSONEq(t, `{"message":"User not found"}`, rr.Body.String())
}

func TestHandler_AdminRegister(t *testing.T) {
	env, h := newTestRouter(t)
	member := env.seedUser(t, "jane@example.com", "secret123")
	admin := env.seedUser(t, "root@example.com", "secret123", RoleAdmin)
	body := `{"email":"ops@example.com","password":"secret123","firstname":"Op","lastname":"S"}`

	rr := serve(h, http.MethodPost, "/admin/register", body, bearer(t, member))
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.JSONEq(t, `{"message":"Forbidden"}`, rr.Body.String())

	rr = serve(h, http.MethodPost, "/admin/register", body, bearer(t, admin))
	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.JSONEq(t, `{"message":"User registed","data":{"email":"ops@example.com","roles":["ADMIN"]}}`, rr.Body.String())
}

func multipartAvatar(t *testing.T, field, filename, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestHandler_UploadAvatar(t *testing.T) {
	env, h := newTestRouter(t)
	u := env.seedUser(t, "jane@example.com", "secret123")

	upload := func(field, filename, contentType string) *httptest.ResponseRecorder {
		body, ct := multipartAvatar(t, field, filename, contentType, []byte("\x89PNG-data"))
		req := httptest.NewRequest(http.MethodPost, "/me/avatar", body)
		req.Header.Set("Content-Type", ct)
		req.Header.Set("Authorization", bearer(t, u))
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr
	}

	rr := upload("avatar", "me.png", "image/png")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"avatarUrl":"https://cdn.example.com/profile-pictures/profile_pictures/new.png"`)
	assert.Equal(t, []byte("\x89PNG-data"), env.avatars.uploaded)

	rr = upload("file", "me.png", "image/png")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"message":"No file uploaded"}`, rr.Body.String())

	rr = upload("avatar", "notes.txt", "text/plain")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"message":"Only image uploads are allowed"}`, rr.Body.String())
}

func TestHandler_PasswordReset(t *testing.T) {
	env, h := newTestRouter(t)
	env.seedUser(t, "jane@example.com", "secret123")

	rr := serve(h, http.MethodPost, "/forgot-password", `{}`, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"message":"Email is required"}`, rr.Body.String())

	for _, email := range []string{"jane@example.com", "ghost@example.com"} {
		rr = serve(h, http.MethodPost, "/forgot-password", `{"email":"`+email+`"}`, "")
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"message":"`+resetRequestedMessage+`"}`, rr.Body.String())
	}
	require.Len(t, env.mailer.sent, 1)

	rr = serve(h, http.MethodPost, "/reset-password",
		`{"email":"jane@example.com","otp":"`+env.mailer.sent[0].otp+`","newPassword":"brandnew1"}`, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message":"Password has been reset"}`, rr.Body.String())

	env.mailer.err = assert.AnError
	rr = serve(h, http.MethodPost, "/forgot-password", `{"email":"jane@example.com"}`, "")
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"message":"Failed to process password reset request"}`, rr.Body.String())
}

func TestRoutes_Throttle(t *testing.T) {
	env := newTestEnv(t)
	calls := 0
	throttle := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			next.ServeHTTP(w, r)
		})
	}
	h := Routes(NewHandler(env.service), throttle)

	serve(h, http.MethodPost, "/login", `{}`, "")
	serve(h, http.MethodPost, "/forgot-password", `{}`, "")
	serve(h, http.MethodPost, "/reset-password", `{}`, "")
	serve(h, http.MethodPost, "/register", `{}`, "")
	serve(h, http.MethodPost, "/refresh", `{}`, "")

	assert.Equal(t, 3, calls)
}
