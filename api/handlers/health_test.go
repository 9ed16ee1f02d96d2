package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// =============================================================================
// 🧪 健康检查测试
// =============================================================================

func TestHealthHandler_HandleHealth(t *testing.T) {
	h := NewHealthHandler(zap.NewNop())

	w := httptest.NewRecorder()
	h.HandleHealth(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var status HealthStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.Equal(t, "healthy", status.Status)
	assert.False(t, status.Timestamp.IsZero())
}

func TestHealthHandler_HandleReady_AllPassing(t *testing.T) {
	h := NewHealthHandler(zap.NewNop())
	h.RegisterCheck(NewFuncHealthCheck("store", func(ctx context.Context) error { return nil }))

	w := httptest.NewRecorder()
	h.HandleReady(w, httptest.NewRequest(http.MethodGet, "/ready", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var status HealthStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.Equal(t, "healthy", status.Status)
	require.Contains(t, status.Checks, "store")
	assert.Equal(t, "pass", status.Checks["store"].Status)
}

func TestHealthHandler_HandleReady_FailingCheck(t *testing.T) {
	h := NewHealthHandler(zap.NewNop())
	h.RegisterCheck(NewFuncHealthCheck("store", func(ctx context.Context) error { return nil }))
	h.RegisterCheck(NewFuncHealthCheck("telemetry", func(ctx context.Context) error {
		return errors.New("exporter unreachable")
	}))

	w := httptest.NewRecorder()
	h.HandleReady(w, httptest.NewRequest(http.MethodGet, "/ready", nil))

	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	var status HealthStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.Equal(t, "unhealthy", status.Status)
	assert.Equal(t, "pass", status.Checks["store"].Status)
	assert.Equal(t, "fail", status.Checks["telemetry"].Status)
	assert.Equal(t, "exporter unreachable", status.Checks["telemetry"].Message)
}

func TestHealthHandler_HandleVersion(t *testing.T) {
	h := NewHealthHandler(zap.NewNop())

	w := httptest.NewRecorder()
	h.HandleVersion("1.2.3", "2026-01-02", "abc1234")(w, httptest.NewRequest(http.MethodGet, "/version", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var env struct {
		Data map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, "1.2.3", env.Data["version"])
	assert.Equal(t, "abc1234", env.Data["git_commit"])
}
