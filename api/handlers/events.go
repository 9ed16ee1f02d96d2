package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"github.com/BaSui01/flowcanvas/internal/metrics"
	"github.com/BaSui01/flowcanvas/store"
	"github.com/BaSui01/flowcanvas/types"
)

// =============================================================================
// 🔌 文档变更事件 Handler
// =============================================================================

// FlowEvent 是推送给画布订阅者的事件帧。
type FlowEvent struct {
	// 事件类型，目前固定为 flow.updated
	Event string `json:"event"`
	// 触发事件的动作名
	Action string `json:"action"`
	// 提交后的文档版本
	Version uint64 `json:"version"`
	// 策略拒绝提示（动作被拒绝时出现）
	Notice *types.Notice `json:"notice,omitempty"`
}

// EventsHandler 通过 WebSocket 广播文档变更事件。
// 写操作通过 per-connection mutex 保护，因为 WebSocket 不支持并发写。
type EventsHandler struct {
	store   *store.Store
	metrics *metrics.Collector
	logger  *zap.Logger

	buffer       int
	writeTimeout time.Duration

	mu    sync.Mutex
	conns map[*wsConn]struct{}
}

type wsConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// NewEventsHandler 创建事件广播处理器
func NewEventsHandler(st *store.Store, collector *metrics.Collector, buffer int, logger *zap.Logger) *EventsHandler {
	if buffer <= 0 {
		buffer = 16
	}
	return &EventsHandler{
		store:        st,
		metrics:      collector,
		logger:       logger.With(zap.String("component", "events_handler")),
		buffer:       buffer,
		writeTimeout: 10 * time.Second,
		conns:        make(map[*wsConn]struct{}),
	}
}

// HandleEvents 处理 /api/v1/flow/events WebSocket 升级请求
// @Summary 文档变更事件流
// @Description 升级为 WebSocket，每次文档提交推送一帧 FlowEvent
// @Tags 事件
// @Router /api/v1/flow/events [get]
func (h *EventsHandler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		h.logger.Warn("websocket accept failed", zap.Error(err))
		return
	}

	events, cancel := h.store.Subscribe(h.buffer)
	defer cancel()

	wc := &wsConn{conn: conn}
	h.track(wc)
	defer h.untrack(wc)

	h.logger.Debug("subscriber connected")

	// 读端仅用于感知关闭；客户端消息被丢弃。
	readerDone := make(chan struct{})
	go func() {
		defer close(readerDone)
		for {
			if _, _, err := conn.Read(r.Context()); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				conn.Close(websocket.StatusNormalClosure, "store closed")
				return
			}
			if err := h.send(r.Context(), wc, ev); err != nil {
				h.logger.Debug("subscriber write failed, dropping connection", zap.Error(err))
				return
			}
			h.metrics.RecordWSEvent("flow.updated")
		case <-readerDone:
			return
		case <-r.Context().Done():
			conn.Close(websocket.StatusGoingAway, "server shutting down")
			return
		}
	}
}

// Broadcast 立刻向所有连接推送一帧（用于服务端主动通知）。
func (h *EventsHandler) Broadcast(ctx context.Context, ev store.Event) {
	h.mu.Lock()
	conns := make([]*wsConn, 0, len(h.conns))
	for c := range h.conns {
		conns = append(conns, c)
	}
	h.mu.Unlock()

	for _, c := range conns {
		if err := h.send(ctx, c, ev); err != nil {
			h.logger.Debug("broadcast write failed", zap.Error(err))
		}
	}
}

func (h *EventsHandler) send(ctx context.Context, wc *wsConn, ev store.Event) error {
	frame := FlowEvent{
		Event:   "flow.updated",
		Action:  ev.Action,
		Version: ev.State.Version,
		Notice:  ev.Notice,
	}

	data, err := json.Marshal(frame)
	if err != nil {
		return err
	}

	writeCtx, cancel := context.WithTimeout(ctx, h.writeTimeout)
	defer cancel()

	wc.mu.Lock()
	defer wc.mu.Unlock()
	return wc.conn.Write(writeCtx, websocket.MessageText, data)
}

func (h *EventsHandler) track(wc *wsConn) {
	h.mu.Lock()
	h.conns[wc] = struct{}{}
	n := len(h.conns)
	h.mu.Unlock()
	h.metrics.RecordWSConnections(n)
}

func (h *EventsHandler) untrack(wc *wsConn) {
	h.mu.Lock()
	delete(h.conns, wc)
	n := len(h.conns)
	h.mu.Unlock()
	h.metrics.RecordWSConnections(n)
}
