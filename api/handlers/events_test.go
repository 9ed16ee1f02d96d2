package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BaSui01/flowcanvas/internal/metrics"
	"github.com/BaSui01/flowcanvas/store"
	"github.com/BaSui01/flowcanvas/types"
)

// =============================================================================
// 🔌 事件流测试
// =============================================================================

func TestEventsHandler_PushesCommits(t *testing.T) {
	st := store.New(pairDoc())
	collector := metrics.NewCollector(nextHandlerNamespace(), zap.NewNop())
	h := NewEventsHandler(st, collector, 4, zap.NewNop())

	srv := httptest.NewServer(http.HandlerFunc(h.HandleEvents))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "")

	// 订阅建立是异步的，给 HandleEvents 一点时间完成 Subscribe
	require.Eventually(t, func() bool {
		h.mu.Lock()
		defer h.mu.Unlock()
		return len(h.conns) == 1
	}, time.Second, 10*time.Millisecond)

	_, _, err = st.Dispatch(store.AddNode{Node: agentNode("critic", types.AgentAssistant)})
	require.NoError(t, err)

	_, data, err := conn.Read(ctx)
	require.NoError(t, err)

	var frame FlowEvent
	require.NoError(t, json.Unmarshal(data, &frame))
	assert.Equal(t, "flow.updated", frame.Event)
	assert.Equal(t, "add_node", frame.Action)
	assert.Equal(t, uint64(1), frame.Version)
	assert.Nil(t, frame.Notice)
}

func TestEventsHandler_PushesPolicyNotices(t *testing.T) {
	st := store.New(pairDoc())
	collector := metrics.NewCollector(nextHandlerNamespace(), zap.NewNop())
	h := NewEventsHandler(st, collector, 4, zap.NewNop())

	srv := httptest.NewServer(http.HandlerFunc(h.HandleEvents))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "")

	require.Eventually(t, func() bool {
		h.mu.Lock()
		defer h.mu.Unlock()
		return len(h.conns) == 1
	}, time.Second, 10*time.Millisecond)

	// 删除最后一条排序边被策略拒绝，但拒绝提示仍会广播
	_, notice, err := st.Dispatch(store.RemoveEdge{ID: "e1"})
	require.NoError(t, err)
	require.NotNil(t, notice)

	_, data, err := conn.Read(ctx)
	require.NoError(t, err)

	var frame FlowEvent
	require.NoError(t, json.Unmarshal(data, &frame))
	assert.Equal(t, "remove_edge", frame.Action)
	require.NotNil(t, frame.Notice)
	assert.Equal(t, types.SeverityError, frame.Notice.Severity)
}
