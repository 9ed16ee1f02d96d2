package main

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/BaSui01/flowcanvas/api/handlers"
	"github.com/BaSui01/flowcanvas/config"
	"github.com/BaSui01/flowcanvas/flow"
	"github.com/BaSui01/flowcanvas/handoff"
	"github.com/BaSui01/flowcanvas/internal/metrics"
	"github.com/BaSui01/flowcanvas/internal/server"
	"github.com/BaSui01/flowcanvas/internal/telemetry"
	"github.com/BaSui01/flowcanvas/store"
)

// =============================================================================
// 🖥️ Server 结构
// =============================================================================

// Server 是 FlowCanvas 的主服务器
type Server struct {
	cfg    *config.Config
	logger *zap.Logger

	// 监听器组（API 端口 + metrics 端口）
	listeners *server.Group

	// 文档状态
	flowStore *store.Store

	// Handlers
	healthHandler  *handlers.HealthHandler
	flowHandler    *handlers.FlowHandler
	handoffHandler *handlers.HandoffHandler
	eventsHandler  *handlers.EventsHandler

	// 指标收集器
	metricsCollector *metrics.Collector

	// OpenTelemetry
	tel *telemetry.Telemetry

	// Rate limiter 生命周期管理
	rateLimiterCancel context.CancelFunc

	wg sync.WaitGroup
}

// NewServer 创建新的服务器实例
func NewServer(cfg *config.Config, logger *zap.Logger, tel *telemetry.Telemetry) *Server {
	return &Server{
		cfg:    cfg,
		logger: logger,
		tel:    tel,
	}
}

// =============================================================================
// 🚀 启动流程
// =============================================================================

// Start 启动所有服务
func (s *Server) Start() error {
	// 1. 初始化指标收集器
	s.metricsCollector = metrics.NewCollector("flowcanvas", s.logger)

	// 2. 初始化文档 store 与 Handlers
	if err := s.initHandlers(); err != nil {
		return fmt.Errorf("failed to init handlers: %w", err)
	}

	// 3. 启动监听器组：API 在前，排空时先停
	s.listeners = server.NewGroup(s.logger)
	if err := s.startAPIListener(); err != nil {
		return fmt.Errorf("failed to start API listener: %w", err)
	}
	if err := s.startMetricsListener(); err != nil {
		return fmt.Errorf("failed to start metrics listener: %w", err)
	}

	s.logger.Info("All servers started",
		zap.Int("http_port", s.cfg.Server.HTTPPort),
		zap.Int("metrics_port", s.cfg.Server.MetricsPort),
		zap.Bool("auth_enabled", s.cfg.Auth.Enabled),
	)

	return nil
}

// =============================================================================
// 🔧 初始化方法
// =============================================================================

// initHandlers 初始化文档 store 和所有 handlers
func (s *Server) initHandlers() error {
	// 文档 store：服务启动时从空文档开始，前端通过导入载入已有流
	s.flowStore = store.New(flow.Document{},
		store.WithHistory(s.cfg.Editor.HistorySize),
		store.WithLimits(s.cfg.Editor.MaxNodes, s.cfg.Editor.MaxEdges),
		store.WithLogger(s.logger),
	)

	// 健康检查 handler
	s.healthHandler = handlers.NewHealthHandler(s.logger)
	s.healthHandler.RegisterCheck(handlers.NewFuncHealthCheck("store", func(ctx context.Context) error {
		// store 为内存状态，可读即健康
		_ = s.flowStore.Version()
		return nil
	}))

	// 画布编辑与交接 handlers
	s.flowHandler = handlers.NewFlowHandler(s.flowStore, s.metricsCollector, s.cfg.Editor.MaxImportBytes, s.logger)
	s.handoffHandler = handlers.NewHandoffHandler(s.flowStore, handoff.NewEvaluator(), s.metricsCollector, s.logger)
	s.eventsHandler = handlers.NewEventsHandler(s.flowStore, s.metricsCollector, s.cfg.Editor.EventBuffer, s.logger)

	s.logger.Info("Handlers initialized")
	return nil
}

// =============================================================================
// 🌐 API 监听器
// =============================================================================

// startAPIListener 注册路由并绑定对外 API 监听器
func (s *Server) startAPIListener() error {
	mux := http.NewServeMux()

	// ========================================
	// 健康检查端点
	// ========================================
	mux.HandleFunc("/health", s.healthHandler.HandleHealth)
	mux.HandleFunc("/healthz", s.healthHandler.HandleHealthz)
	mux.HandleFunc("/ready", s.healthHandler.HandleReady)
	mux.HandleFunc("/readyz", s.healthHandler.HandleReady)

	// 版本信息端点
	mux.HandleFunc("/version", s.healthHandler.HandleVersion(Version, BuildTime, GitCommit))

	// ========================================
	// API 路由
	// ========================================
	mux.HandleFunc("/api/v1/flow", s.flowHandler.HandleState)
	mux.HandleFunc("/api/v1/flow/export", s.flowHandler.HandleExport)
	mux.HandleFunc("/api/v1/flow/validate", s.flowHandler.HandleValidate)
	mux.HandleFunc("/api/v1/flow/import", s.flowHandler.HandleImport)
	mux.HandleFunc("/api/v1/flow/nodes", s.flowHandler.HandleNodes)
	mux.HandleFunc("/api/v1/flow/nodes/", s.flowHandler.HandleNodes)
	mux.HandleFunc("/api/v1/flow/edges", s.flowHandler.HandleEdges)
	mux.HandleFunc("/api/v1/flow/edges/", s.flowHandler.HandleEdges)
	mux.HandleFunc("/api/v1/flow/async", s.flowHandler.HandleAsync)
	mux.HandleFunc("/api/v1/flow/events", s.eventsHandler.HandleEvents)
	mux.HandleFunc("/api/v1/agents/", s.handoffHandler.HandleHandoffs)

	// ========================================
	// 构建中间件链
	// ========================================
	skipAuthPaths := []string{"/health", "/healthz", "/ready", "/readyz", "/version", "/metrics"}
	rateLimiterCtx, rateLimiterCancel := context.WithCancel(context.Background())
	s.rateLimiterCancel = rateLimiterCancel

	middlewares := []Middleware{
		Recovery(s.logger),
		RequestID(),
		SecurityHeaders(),
		OTelTracing(),
		RequestLogger(s.logger),
		MetricsMiddleware(s.metricsCollector),
		CORS(s.cfg.Server.AllowedOrigin),
		RateLimiter(rateLimiterCtx, s.cfg.Server.RateLimitRPS, s.cfg.Server.RateLimitBurst, s.logger),
	}
	if s.cfg.Auth.Enabled {
		middlewares = append(middlewares, Auth(s.cfg.Auth, skipAuthPaths, s.logger))
	}
	handler := Chain(mux, middlewares...)

	addr, err := s.listeners.Listen("api", handler, server.Config{
		Addr:           fmt.Sprintf(":%d", s.cfg.Server.HTTPPort),
		ReadTimeout:    s.cfg.Server.ReadTimeout,
		WriteTimeout:   s.cfg.Server.WriteTimeout,
		IdleTimeout:    2 * s.cfg.Server.ReadTimeout, // 2x ReadTimeout
		MaxHeaderBytes: 1 << 20,                      // 1 MB
	})
	if err != nil {
		return err
	}

	s.logger.Info("API listener started", zap.String("addr", addr))
	return nil
}

// =============================================================================
// 📊 Metrics 监听器
// =============================================================================

// startMetricsListener 绑定 Prometheus 抓取端口
func (s *Server) startMetricsListener() error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	addr, err := s.listeners.Listen("metrics", mux, server.Config{
		Addr:         fmt.Sprintf(":%d", s.cfg.Server.MetricsPort),
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	})
	if err != nil {
		return err
	}

	s.logger.Info("Metrics listener started", zap.String("addr", addr))
	return nil
}

// =============================================================================
// 🛑 关闭流程
// =============================================================================

// WaitForShutdown 等待关闭信号并优雅关闭
func (s *Server) WaitForShutdown() {
	if s.listeners != nil {
		if err := s.listeners.Wait(); err != nil {
			s.logger.Error("listener error", zap.Error(err))
		}
	}

	// 执行清理
	s.Shutdown()
}

// Shutdown 优雅关闭所有服务
func (s *Server) Shutdown() {
	s.logger.Info("Starting graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()

	// 0. 停止 rate limiter 清理 goroutine
	if s.rateLimiterCancel != nil {
		s.rateLimiterCancel()
	}

	// 1. 排空监听器组（API 先于 metrics）
	if s.listeners != nil {
		if err := s.listeners.Shutdown(ctx); err != nil {
			s.logger.Error("listener shutdown error", zap.Error(err))
		}
	}

	// 2. 关闭 OpenTelemetry
	if s.tel != nil {
		if err := s.tel.Shutdown(ctx); err != nil {
			s.logger.Error("Telemetry shutdown error", zap.Error(err))
		}
	}

	// 3. 等待所有 goroutine 完成
	s.wg.Wait()

	s.logger.Info("Graceful shutdown completed")
}
