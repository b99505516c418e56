package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/services"
)

func TestToApiErr(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		field  string
	}{
		{"validation", &services.ValidationError{Field: "email", Message: "Invalid email format"}, http.StatusBadRequest, "email"},
		{"conflict", &services.ConflictError{Field: "username", Message: "Username already exists"}, http.StatusBadRequest, "username"},
		{"credentials", fmt.Errorf("login: %w", services.ErrInvalidCredentials), http.StatusUnauthorized, ""},
		{"unique violation", errs.NewUniqueConstraintViolationError("project", "project_slug", nil), http.StatusBadRequest, "project_slug"},
		{"api error", errs.NewNotFound("Project"), http.StatusNotFound, ""},
		{"unknown", errors.New("connection reset"), http.StatusInternalServerError, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := toApiErr(tt.err)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.field, apiErr.Field)
		})
	}
}

func TestWriteErrorHidesInternalFaults(t *testing.T) {
	rec := httptest.NewRecorder()
	NewResponder(zerolog.Nop(), EnvelopePlain).WriteError(rec, errors.New("pq: password authentication failed"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password authentication")
	body := decodeBody(t, rec)
	assert.Equal(t, "Internal Server Error", body["error"])
	assert.Equal(t, "An unexpected error occurred", body["message"])
}

func TestStandardEnvelope(t *testing.T) {
	env := newTestEnv(t, map[string]string{"RESPONSE_ENVELOPE": EnvelopeStandard})

	rec := env.do(t, http.MethodGet, "/projects/statistics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Statistics retrieved successfully", body["message"])
	assert.EqualValues(t, http.StatusOK, body["status_code"])
	assert.Equal(t, map[string]any{"total": 0.0, "published": 0.0, "featured": 0.0}, body["data"])

	rec = env.do(t, http.MethodGet, "/projects/not-a-uuid", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "error", decodeBody(t, rec)["status"])
}

func TestCORS(t *testing.T) {
	env := newTestEnv(t, map[string]string{"ACCEPTED_ORIGINS": "https://example.com"})

	rec := env.do(t, http.MethodOptions, "/projects", nil,
		"Origin", "https://evil.example",
		"Access-Control-Request-Method", http.MethodGet)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Origin 'https://evil.example' is not allowed by CORS policy", decodeBody(t, rec)["details"])

	rec = env.do(t, http.MethodOptions, "/projects", nil,
		"Origin", "https://example.com",
		"Access-Control-Request-Method", http.MethodGet)
	assert.Equal(t, "https://example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = env.do(t, http.MethodGet, "/projects", nil, "Origin", "https://evil.example")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestHealthAndMetricsEndpoints(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decodeBody(t, rec)["status"])

	rec = env.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `portfolio_http_requests_total{code="200",method="GET",route="/health"} 1`)
}

func TestMetricsMiddlewareUsesRoutePattern(t *testing.T) {
	metrics := newHTTPMetrics()
	r := chi.NewRouter()
	r.Use(metrics.middleware)
	r.Get("/items/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	for _, path := range []string{"/items/1", "/items/2", "/missing"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.requests.WithLabelValues(http.MethodGet, "/items/{id}", "418")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.requests.WithLabelValues(http.MethodGet, "unmatched", "404")))
}

func TestAuthenticateRejectsBadTokens(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(t, http.MethodGet, "/accounts/me", nil, "Authorization", "Bearer not.a.token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodGet, "/accounts/me", nil, "Authorization", "Basic dXNlcjpwYXNz")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestStartReportsCloseWithoutReader(t *testing.T) {
	server := Server{Server: &http.Server{Addr: "127.0.0.1:0"}}
	server.ShutdownGracefully(time.Second)

	errChannel := make(chan error, 2)
	server.Start(errChannel)
	require.Len(t, errChannel, 1)
	assert.ErrorIs(t, <-errChannel, http.ErrServerClosed)
}
