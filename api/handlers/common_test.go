package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/BaSui01/flowcanvas/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// =============================================================================
// 🧪 Common 函数测试
// =============================================================================

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()
	WriteJSON(w, http.StatusOK, map[string]string{"message": "hello"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Contains(t, w.Body.String(), "hello")
}

func TestWriteSuccess(t *testing.T) {
	w := httptest.NewRecorder()
	WriteSuccess(w, map[string]int{"n": 1})

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Nil(t, resp.Error)
	assert.False(t, resp.Timestamp.IsZero())
}

func TestWriteError(t *testing.T) {
	w := httptest.NewRecorder()
	err := types.NewValidationError("edge source does not exist", "edge.source")
	WriteError(w, err, zap.NewNop())

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, string(types.ErrValidationFailed), resp.Error.Code)
	assert.Equal(t, []string{"edge.source"}, resp.Error.Fields)
}

func TestMapErrorCodeToHTTPStatus(t *testing.T) {
	tests := []struct {
		code types.ErrorCode
		want int
	}{
		{types.ErrValidationFailed, http.StatusBadRequest},
		{types.ErrDecodeFailed, http.StatusBadRequest},
		{types.ErrSchemaVersion, http.StatusUnprocessableEntity},
		{types.ErrNotFound, http.StatusNotFound},
		{types.ErrPolicyRejected, http.StatusConflict},
		{types.ErrCycleDetected, http.StatusConflict},
		{types.ErrLastOrderedEdge, http.StatusConflict},
		{types.ErrUnauthorized, http.StatusUnauthorized},
		{types.ErrRateLimited, http.StatusTooManyRequests},
		{types.ErrServiceUnavailable, http.StatusServiceUnavailable},
		{types.ErrInternalError, http.StatusInternalServerError},
		{types.ErrorCode("SOMETHING_ELSE"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, mapErrorCodeToHTTPStatus(tt.code))
		})
	}
}

func TestDecodeJSONBody(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	t.Run("valid body", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"name":"flow"}`))
		w := httptest.NewRecorder()

		var p payload
		err := DecodeJSONBody(w, r, &p, zap.NewNop())
		require.NoError(t, err)
		assert.Equal(t, "flow", p.Name)
	})

	t.Run("unknown field rejected", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"name":"flow","extra":1}`))
		w := httptest.NewRecorder()

		var p payload
		err := DecodeJSONBody(w, r, &p, zap.NewNop())
		assert.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{"))
		w := httptest.NewRecorder()

		var p payload
		err := DecodeJSONBody(w, r, &p, zap.NewNop())
		assert.Error(t, err)
	})
}

func TestValidateContentType(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", nil)
	r.Header.Set("Content-Type", "text/plain")
	w := httptest.NewRecorder()

	assert.False(t, ValidateContentType(w, r, zap.NewNop()))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	r2 := httptest.NewRequest(http.MethodPost, "/", nil)
	r2.Header.Set("Content-Type", "application/json")
	assert.True(t, ValidateContentType(httptest.NewRecorder(), r2, zap.NewNop()))
}

func TestResponseWriter_CapturesStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := NewResponseWriter(rec)

	rw.WriteHeader(http.StatusTeapot)
	rw.WriteHeader(http.StatusOK) // 第二次调用被忽略

	assert.Equal(t, http.StatusTeapot, rw.StatusCode)
	assert.Equal(t, http.StatusTeapot, rec.Code)
}
