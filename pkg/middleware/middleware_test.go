package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/marlogas/caja-api/infrastructure/repository/memory"
	"github.com/marlogas/caja-api/internal/config"
	"github.com/marlogas/caja-api/internal/metrics"
	"github.com/marlogas/caja-api/internal/usecases/authenticating"
	"github.com/marlogas/caja-api/pkg/apiErrors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthenticator(t *testing.T) (authenticating.Authenticator, string) {
	t.Helper()

	cfg := &config.Config{Auth: config.Auth{Secret: "segredo-de-teste", TokenTTL: time.Hour}}
	authenticator := authenticating.NewService(memory.NewUserRepository(), cfg)

	_, err := authenticator.EnsureUser(context.Background(), "caja", "Caja", "senha123")
	require.NoError(t, err)

	token, err := authenticator.LoginUser(context.Background(), "caja", "senha123")
	require.NoError(t, err)

	return authenticator, token
}

func TestAuthMiddleware(t *testing.T) {
	authenticator, token := newAuthenticator(t)

	var seenUser string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if claims, ok := UserFromContext(r.Context()); ok {
			seenUser = claims.Username
		}
		w.WriteHeader(http.StatusOK)
	})
	handler := AuthMiddleware(authenticator)(next)

	tests := []struct {
		name           string
		method         string
		path           string
		authorization  string
		expectedStatus int
		expectedUser   string
	}{
		{name: "Rota pública", method: http.MethodPost, path: "/v1/login", expectedStatus: http.StatusOK},
		{name: "Healthcheck", method: http.MethodGet, path: "/healthcheck", expectedStatus: http.StatusOK},
		{name: "Preflight", method: http.MethodOptions, path: "/v1/dispatches", expectedStatus: http.StatusOK},
		{name: "Sem cabeçalho", method: http.MethodGet, path: "/v1/register/today", expectedStatus: http.StatusUnauthorized},
		{name: "Sem Bearer", method: http.MethodGet, path: "/v1/register/today", authorization: token, expectedStatus: http.StatusUnauthorized},
		{name: "Token inválido", method: http.MethodGet, path: "/v1/register/today", authorization: "Bearer abc.def.ghi", expectedStatus: http.StatusUnauthorized},
		{name: "Token válido", method: http.MethodGet, path: "/v1/register/today", authorization: "Bearer " + token, expectedStatus: http.StatusOK, expectedUser: "caja"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seenUser = ""
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.authorization != "" {
				req.Header.Set("Authorization", tt.authorization)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Equal(t, tt.expectedUser, seenUser)
			if tt.expectedStatus == http.StatusUnauthorized {
				assert.Contains(t, rec.Body.String(), `"code":"`+apiErrors.ErrInvalidToken+`"`)
			}
		})
	}
}

func TestCors(t *testing.T) {
	handler := Cors([]string{"https://marlogas.vercel.app"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("Origem permitida", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/dashboard", nil)
		req.Header.Set("Origin", "https://marlogas.vercel.app")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, "https://marlogas.vercel.app", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, rec.Header().Get("Access-Control-Expose-Headers"), "Retry-After")
	})

	t.Run("Origem desconhecida", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/dashboard", nil)
		req.Header.Set("Origin", "https://outro.site")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("Preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/v1/dispatches", nil)
		req.Header.Set("Origin", "https://marlogas.vercel.app")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}

func TestMetricsMiddleware_UsaPadraoDaRota(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := metrics.NewMetricsWithRegisterer(registry)

	handler := MetricsMiddleware(m, "/v1/register/close/:id")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/v1/register/close/ABC123", nil))

	families, err := registry.Gather()
	require.NoError(t, err)

	var labels map[string]string
	for _, family := range families {
		if family.GetName() != "marlogas_http_request_duration_seconds" {
			continue
		}
		require.Len(t, family.GetMetric(), 1)
		labels = map[string]string{}
		for _, l := range family.GetMetric()[0].GetLabel() {
			labels[l.GetName()] = l.GetValue()
		}
	}

	assert.Equal(t, map[string]string{
		"method": "POST",
		"route":  "/v1/register/close/:id",
		"status": "409",
	}, labels)
}

func TestLoggingMiddleware_DevolveCorrelationID(t *testing.T) {
	handler := LoggingMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(CorrelationIDHeader))
}

func TestLogPanicMiddleware(t *testing.T) {
	handler := LogPanicMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("falha inesperada")
	}))
	rec := httptest.NewRecorder()

	assert.NotPanics(t, func() {
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/dashboard", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), apiErrors.ErrInternalServer)
}
