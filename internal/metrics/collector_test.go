package metrics

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

var collectorNamespaceSeq uint64

func nextTestNamespace() string {
	seq := atomic.AddUint64(&collectorNamespaceSeq, 1)
	return fmt.Sprintf("test_%d", seq)
}

// =============================================================================
// 🧪 Collector 测试
// =============================================================================

func TestNewCollector(t *testing.T) {
	logger := zap.NewNop()
	collector := NewCollector(nextTestNamespace(), logger)

	assert.NotNil(t, collector)
	assert.NotNil(t, collector.httpRequestsTotal)
	assert.NotNil(t, collector.actionsTotal)
	assert.NotNil(t, collector.policyRejectionsTotal)
	assert.NotNil(t, collector.mergesTotal)
	assert.NotNil(t, collector.recomputePasses)
	assert.NotNil(t, collector.wsConnections)
}

func TestCollector_RecordHTTPRequest(t *testing.T) {
	logger := zap.NewNop()
	collector := NewCollector(nextTestNamespace(), logger)

	// 记录请求
	collector.RecordHTTPRequest("GET", "/api/flow", 200, 100*time.Millisecond, 1024, 2048)

	// 验证指标
	count := testutil.CollectAndCount(collector.httpRequestsTotal)
	assert.Greater(t, count, 0)
}

func TestCollector_RecordAction(t *testing.T) {
	logger := zap.NewNop()
	collector := NewCollector(nextTestNamespace(), logger)

	collector.RecordAction("add_edge", "committed", time.Millisecond)
	collector.RecordAction("remove_edge", "refused", time.Millisecond)

	assert.Greater(t, testutil.CollectAndCount(collector.actionsTotal), 0)

	// refused 动作同时计入策略拒绝
	rejections := testutil.ToFloat64(collector.policyRejectionsTotal.WithLabelValues("remove_edge"))
	assert.Equal(t, float64(1), rejections)
}

func TestCollector_RecordMerge(t *testing.T) {
	logger := zap.NewNop()
	collector := NewCollector(nextTestNamespace(), logger)

	collector.RecordMerge(true, "ok")
	collector.RecordMerge(false, "ok")
	collector.RecordMerge(false, "error")

	assert.Equal(t, float64(1), testutil.ToFloat64(collector.mergesTotal.WithLabelValues("override", "ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(collector.mergesTotal.WithLabelValues("merge", "ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(collector.mergesTotal.WithLabelValues("merge", "error")))
}

func TestCollector_RecordRecompute(t *testing.T) {
	logger := zap.NewNop()
	collector := NewCollector(nextTestNamespace(), logger)

	collector.RecordRecompute(3, false)
	collector.RecordRecompute(1, true)

	assert.Equal(t, float64(1), testutil.ToFloat64(collector.cyclesDetected.WithLabelValues()))
}

func TestCollector_RecordDocumentSize(t *testing.T) {
	logger := zap.NewNop()
	collector := NewCollector(nextTestNamespace(), logger)

	collector.RecordDocumentSize(12, 30)

	assert.Equal(t, float64(12), testutil.ToFloat64(collector.documentNodes.WithLabelValues()))
	assert.Equal(t, float64(30), testutil.ToFloat64(collector.documentEdges.WithLabelValues()))
}

func TestCollector_RecordWS(t *testing.T) {
	logger := zap.NewNop()
	collector := NewCollector(nextTestNamespace(), logger)

	collector.RecordWSConnections(2)
	collector.RecordWSEvent("flow.updated")

	assert.Equal(t, float64(2), testutil.ToFloat64(collector.wsConnections.WithLabelValues()))
	assert.Equal(t, float64(1), testutil.ToFloat64(collector.wsEventsTotal.WithLabelValues("flow.updated")))
}

func TestStatusCode(t *testing.T) {
	assert.Equal(t, "2xx", statusCode(204))
	assert.Equal(t, "3xx", statusCode(301))
	assert.Equal(t, "4xx", statusCode(404))
	assert.Equal(t, "5xx", statusCode(503))
	assert.Equal(t, "unknown", statusCode(42))
}
