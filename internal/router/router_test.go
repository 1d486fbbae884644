package router

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/saulo-duarte/interviewace-api/internal/aiquestion"
	"github.com/saulo-duarte/interviewace-api/internal/config"
	"github.com/saulo-duarte/interviewace-api/internal/middlewares"
	"github.com/saulo-duarte/interviewace-api/internal/user"
	"github.com/stretchr/testify/assert"
)

type stubGenerator struct{}

func (stubGenerator) Generate(context.Context, string) (*aiquestion.GenerationResponse, error) {
	return &aiquestion.GenerationResponse{Candidates: []aiquestion.Candidate{{
		Content: aiquestion.CandidateContent{{Parts: []aiquestion.Part{{Text: "1. Tell me about yourself"}}}},
	}}}, nil
}

func newTestRouter(limiter *middlewares.RateLimiter) http.Handler {
	return New(testConfig(limiter))
}

func testConfig(limiter *middlewares.RateLimiter) RouterConfig {
	return RouterConfig{
		UserHandler:       user.NewHandler(nil),
		AIQuestionHandler: aiquestion.NewHandler(aiquestion.NewService(stubGenerator{}, nil, aiquestion.PolicyStrict)),
		CORS:              config.CORSConfig{AllowedOrigins: []string{"http://localhost:5173"}},
		RateLimiter:       limiter,
	}
}

func TestRouter_Welcome(t *testing.T) {
	rr := httptest.NewRecorder()
	newTestRouter(nil).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Welcome to InterviewAce API", rr.Body.String())
	assert.NotEmpty(t, rr.Header().Get("Content-Type"))
}

func TestRouter_AIRoutes(t *testing.T) {
	h := newTestRouter(nil)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/ai", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message":"AI endpoint"}`, rr.Body.String())

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/ai/create", strings.NewReader(`{"role":"SRE"}`)))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"questions":["Tell me about yourself"]}`, rr.Body.String())
}

func TestRouter_AuthRequiresToken(t *testing.T) {
	rr := httptest.NewRecorder()
	newTestRouter(nil).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil))

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.JSONEq(t, `{"message":"No token provided"}`, rr.Body.String())
}

func TestRouter_ThrottlesLogin(t *testing.T) {
	h := newTestRouter(middlewares.NewRateLimiter(config.RateLimitConfig{Enabled: true, Rate: 0.01, Burst: 1}))

	req := func() *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{`))
		r.RemoteAddr = "198.51.100.9:4000"
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, r)
		return rr
	}

	assert.Equal(t, http.StatusBadRequest, req().Code)
	assert.Equal(t, http.StatusTooManyRequests, req().Code)
}

func TestRouter_ThrottleIgnoresForwardedHeaders(t *testing.T) {
	h := newTestRouter(middlewares.NewRateLimiter(config.RateLimitConfig{Enabled: true, Rate: 0.01, Burst: 1}))

	codes := map[int]int{}
	for i := 0; i < 20; i++ {
		r := httptest.NewRequest(http.MethodPost, "/api/v1/auth/reset-password", strings.NewReader(`{`))
		r.RemoteAddr = "198.51.100.9:4000"
		r.Header.Set("X-Forwarded-For", fmt.Sprintf("203.0.113.%d", i))
		r.Header.Set("X-Real-IP", fmt.Sprintf("192.0.2.%d", i))
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, r)
		codes[rr.Code]++
	}

	assert.Equal(t, 1, codes[http.StatusBadRequest])
	assert.Equal(t, 19, codes[http.StatusTooManyRequests])
}

func TestRouter_TrustProxyUsesForwardedAddress(t *testing.T) {
	cfg := testConfig(middlewares.NewRateLimiter(config.RateLimitConfig{Enabled: true, Rate: 0.01, Burst: 1}))
	cfg.TrustProxy = true
	h := New(cfg)

	send := func(forwarded string) int {
		r := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{`))
		r.RemoteAddr = "10.0.0.1:4000"
		r.Header.Set("X-Forwarded-For", forwarded)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, r)
		return rr.Code
	}

	assert.Equal(t, http.StatusBadRequest, send("203.0.113.1"))
	assert.Equal(t, http.StatusTooManyRequests, send("203.0.113.1"))
	assert.Equal(t, http.StatusBadRequest, send("203.0.113.2"), "each forwarded client gets its own bucket")
}
