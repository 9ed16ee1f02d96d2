package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/BaSui01/flowcanvas/config"
	"go.uber.org/zap"
)

func TestSecurityHeaders(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	handler := SecurityHeaders()(inner)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "strict-origin-when-cross-origin", w.Header().Get("Referrer-Policy"))
	assert.Equal(t, "1; mode=block", w.Header().Get("X-XSS-Protection"))
	assert.Equal(t, "default-src 'self'", w.Header().Get("Content-Security-Policy"))
}

func TestSecurityHeaders_ChainedWithOtherMiddleware(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	handler := Chain(inner, SecurityHeaders(), RequestID())

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/test", nil)
	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	// SecurityHeaders should be present
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "default-src 'self'", w.Header().Get("Content-Security-Policy"))
	// RequestID should also be present
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/api/v1/flow", "/api/v1/flow"},
		{"/api/v1/flow/export", "/api/v1/flow/export"},
		{"/api/v1/flow/edges/9f1b2c3d4e5f6a7b/move", "/api/v1/flow/edges/:id/move"},
		{"/api/v1/flow/nodes/550e8400-e29b-41d4-a716-446655440000", "/api/v1/flow/nodes/:id"},
		{"/api/v1/agents/42/handoffs", "/api/v1/agents/:id/handoffs"},
		{"/api/v1/agents/planner/handoffs", "/api/v1/agents/planner/handoffs"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizePath(tt.path))
		})
	}
}

func TestAuth_APIKey(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	cfg := config.AuthConfig{Enabled: true, APIKeys: []string{"secret-key"}}
	handler := Auth(cfg, []string{"/health"}, zap.NewNop())(inner)

	t.Run("valid key", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/api/v1/flow", nil)
		r.Header.Set("X-API-Key", "secret-key")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("wrong key", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/api/v1/flow", nil)
		r.Header.Set("X-API-Key", "nope")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("missing credentials", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/api/v1/flow", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("skip path bypasses auth", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/health", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestCORS(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("wildcard origin", func(t *testing.T) {
		handler := CORS("*")(inner)
		r := httptest.NewRequest(http.MethodGet, "/api/v1/flow", nil)
		r.Header.Set("Origin", "http://editor.example")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("exact origin match", func(t *testing.T) {
		handler := CORS("http://editor.example")(inner)
		r := httptest.NewRequest(http.MethodGet, "/api/v1/flow", nil)
		r.Header.Set("Origin", "http://editor.example")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		assert.Equal(t, "http://editor.example", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("mismatched origin gets no headers", func(t *testing.T) {
		handler := CORS("http://editor.example")(inner)
		r := httptest.NewRequest(http.MethodGet, "/api/v1/flow", nil)
		r.Header.Set("Origin", "http://evil.example")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight from disallowed origin rejected", func(t *testing.T) {
		handler := CORS("")(inner)
		r := httptest.NewRequest(http.MethodOptions, "/api/v1/flow", nil)
		r.Header.Set("Origin", "http://evil.example")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
