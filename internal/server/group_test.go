package server

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig() Config {
	return Config{
		Addr:           "127.0.0.1:0",
		ReadTimeout:    5 * time.Second,
		WriteTimeout:   5 * time.Second,
		IdleTimeout:    10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}
}

func okHandler(body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(body))
	})
}

func TestGroup_ListenServes(t *testing.T) {
	g := NewGroup(zap.NewNop())
	t.Cleanup(func() { g.Shutdown(context.Background()) })

	addr, err := g.Listen("api", okHandler("ok"), testConfig())
	require.NoError(t, err)
	require.NotEmpty(t, addr)
	assert.NotEqual(t, "127.0.0.1:0", addr, "Listen reports the bound port")

	resp, err := http.Get("http://" + addr + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(body))
}

func TestGroup_ShutdownDrainsAllListeners(t *testing.T) {
	g := NewGroup(zap.NewNop())

	apiAddr, err := g.Listen("api", okHandler("api"), testConfig())
	require.NoError(t, err)
	metricsAddr, err := g.Listen("metrics", okHandler("metrics"), testConfig())
	require.NoError(t, err)

	for _, addr := range []string{apiAddr, metricsAddr} {
		resp, err := http.Get("http://" + addr + "/")
		require.NoError(t, err)
		resp.Body.Close()
	}

	require.NoError(t, g.Shutdown(context.Background()))

	for _, addr := range []string{apiAddr, metricsAddr} {
		_, err := http.Get("http://" + addr + "/")
		assert.Error(t, err, "drained listener must refuse connections")
	}
}

func TestGroup_ShutdownIdempotent(t *testing.T) {
	g := NewGroup(zap.NewNop())
	_, err := g.Listen("api", okHandler("ok"), testConfig())
	require.NoError(t, err)

	require.NoError(t, g.Shutdown(context.Background()))
	require.NoError(t, g.Shutdown(context.Background()))
}

func TestGroup_ListenAfterShutdown(t *testing.T) {
	g := NewGroup(zap.NewNop())
	require.NoError(t, g.Shutdown(context.Background()))

	_, err := g.Listen("api", okHandler("ok"), testConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already shut down")
}

func TestGroup_ListenAddrTaken(t *testing.T) {
	g := NewGroup(zap.NewNop())
	t.Cleanup(func() { g.Shutdown(context.Background()) })

	addr, err := g.Listen("api", okHandler("ok"), testConfig())
	require.NoError(t, err)

	cfg := testConfig()
	cfg.Addr = addr
	_, err = g.Listen("metrics", okHandler("ok"), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bind metrics listener")
}
