// Package metrics provides internal metrics collection.
// This package is internal and should not be imported by external projects.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// =============================================================================
// 📊 指标收集器
// =============================================================================

// Collector 指标收集器
type Collector struct {
	// HTTP 指标
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpRequestSize     *prometheus.HistogramVec
	httpResponseSize    *prometheus.HistogramVec

	// 流文档操作指标
	actionsTotal   *prometheus.CounterVec
	actionDuration *prometheus.HistogramVec

	// 策略拒绝指标
	policyRejectionsTotal *prometheus.CounterVec

	// 导入合并指标
	mergesTotal *prometheus.CounterVec

	// 交接重排序指标
	handoffReordersTotal *prometheus.CounterVec

	// 异步排序重算指标
	recomputePasses *prometheus.HistogramVec
	cyclesDetected  *prometheus.CounterVec

	// 文档规模指标
	documentNodes *prometheus.GaugeVec
	documentEdges *prometheus.GaugeVec

	// WebSocket 指标
	wsConnections *prometheus.GaugeVec
	wsEventsTotal *prometheus.CounterVec

	logger *zap.Logger
	mu     sync.RWMutex
}

// NewCollector 创建指标收集器
func NewCollector(namespace string, logger *zap.Logger) *Collector {
	c := &Collector{
		logger: logger.With(zap.String("component", "metrics")),
	}

	// HTTP 指标
	c.httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	c.httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	c.httpRequestSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_size_bytes",
			Help:      "HTTP request size in bytes",
			Buckets:   prometheus.ExponentialBuckets(100, 10, 8),
		},
		[]string{"method", "path"},
	)

	c.httpResponseSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_response_size_bytes",
			Help:      "HTTP response size in bytes",
			Buckets:   prometheus.ExponentialBuckets(100, 10, 8),
		},
		[]string{"method", "path"},
	)

	// 流文档操作指标
	c.actionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flow_actions_total",
			Help:      "Total number of flow document actions",
		},
		[]string{"action", "outcome"}, // outcome: committed, refused, error
	)

	c.actionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "flow_action_duration_seconds",
			Help:      "Flow document action duration in seconds",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
		[]string{"action"},
	)

	// 策略拒绝指标
	c.policyRejectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flow_policy_rejections_total",
			Help:      "Total number of policy rejections",
		},
		[]string{"action"},
	)

	// 导入合并指标
	c.mergesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flow_merges_total",
			Help:      "Total number of flow document imports",
		},
		[]string{"mode", "status"}, // mode: override, merge
	)

	// 交接重排序指标
	c.handoffReordersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flow_handoff_reorders_total",
			Help:      "Total number of handoff reorder operations",
		},
		[]string{"status"},
	)

	// 异步排序重算指标
	c.recomputePasses = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "flow_recompute_passes",
			Help:      "Relaxation passes per async ordering recompute",
			Buckets:   []float64{1, 2, 3, 5, 8, 13, 21},
		},
		[]string{},
	)

	c.cyclesDetected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flow_prerequisite_cycles_total",
			Help:      "Total number of prerequisite cycles rejected",
		},
		[]string{},
	)

	// 文档规模指标
	c.documentNodes = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "flow_document_nodes",
			Help:      "Number of nodes in the current document",
		},
		[]string{},
	)

	c.documentEdges = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "flow_document_edges",
			Help:      "Number of edges in the current document",
		},
		[]string{},
	)

	// WebSocket 指标
	c.wsConnections = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ws_connections",
			Help:      "Number of active WebSocket subscribers",
		},
		[]string{},
	)

	c.wsEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ws_events_total",
			Help:      "Total number of WebSocket events broadcast",
		},
		[]string{"event"},
	)

	logger.Info("metrics collector initialized", zap.String("namespace", namespace))

	return c
}

// =============================================================================
// 🎯 HTTP 指标记录
// =============================================================================

// RecordHTTPRequest 记录 HTTP 请求
func (c *Collector) RecordHTTPRequest(method, path string, status int, duration time.Duration, requestSize, responseSize int64) {
	c.httpRequestsTotal.WithLabelValues(method, path, statusCode(status)).Inc()
	c.httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	c.httpRequestSize.WithLabelValues(method, path).Observe(float64(requestSize))
	c.httpResponseSize.WithLabelValues(method, path).Observe(float64(responseSize))
}

// =============================================================================
// 🧩 流文档操作指标记录
// =============================================================================

// RecordAction 记录一次文档动作
func (c *Collector) RecordAction(action, outcome string, duration time.Duration) {
	c.actionsTotal.WithLabelValues(action, outcome).Inc()
	c.actionDuration.WithLabelValues(action).Observe(duration.Seconds())
	if outcome == "refused" {
		c.policyRejectionsTotal.WithLabelValues(action).Inc()
	}
}

// RecordMerge 记录一次导入合并
func (c *Collector) RecordMerge(override bool, status string) {
	mode := "merge"
	if override {
		mode = "override"
	}
	c.mergesTotal.WithLabelValues(mode, status).Inc()
}

// RecordHandoffReorder 记录一次交接重排序
func (c *Collector) RecordHandoffReorder(status string) {
	c.handoffReordersTotal.WithLabelValues(status).Inc()
}

// RecordRecompute 记录一次异步排序重算
func (c *Collector) RecordRecompute(passes int, cycle bool) {
	c.recomputePasses.WithLabelValues().Observe(float64(passes))
	if cycle {
		c.cyclesDetected.WithLabelValues().Inc()
	}
}

// RecordDocumentSize 记录当前文档规模
func (c *Collector) RecordDocumentSize(nodes, edges int) {
	c.documentNodes.WithLabelValues().Set(float64(nodes))
	c.documentEdges.WithLabelValues().Set(float64(edges))
}

// =============================================================================
// 🔌 WebSocket 指标记录
// =============================================================================

// RecordWSConnections 记录当前 WebSocket 连接数
func (c *Collector) RecordWSConnections(n int) {
	c.wsConnections.WithLabelValues().Set(float64(n))
}

// RecordWSEvent 记录一次 WebSocket 事件广播
func (c *Collector) RecordWSEvent(event string) {
	c.wsEventsTotal.WithLabelValues(event).Inc()
}

// =============================================================================
// 🔧 辅助函数
// =============================================================================

// statusCode 将 HTTP 状态码转换为字符串
func statusCode(code int) string {
	switch {
	case code >= 200 && code < 300:
		return "2xx"
	case code >= 300 && code < 400:
		return "3xx"
	case code >= 400 && code < 500:
		return "4xx"
	case code >= 500:
		return "5xx"
	default:
		return "unknown"
	}
}
