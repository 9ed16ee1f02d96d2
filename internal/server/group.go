// 版权所有 2024 FlowCanvas Authors. 版权所有。
// 此源代码的使用由 MIT 许可规范,该许可可以是
// 在LICENSE文件中找到。

package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// Config 描述单个监听器的 HTTP 参数。
type Config struct {
	// 监听地址，如 ":8080"；端口为 0 时由系统分配
	Addr string `yaml:"addr" json:"addr"`
	// 读取超时
	ReadTimeout time.Duration `yaml:"read_timeout" json:"read_timeout"`
	// 写入超时
	WriteTimeout time.Duration `yaml:"write_timeout" json:"write_timeout"`
	// 空闲连接超时
	IdleTimeout time.Duration `yaml:"idle_timeout" json:"idle_timeout"`
	// 请求头最大字节数
	MaxHeaderBytes int `yaml:"max_header_bytes" json:"max_header_bytes"`
}

// member 是组内的一个已绑定监听器。
type member struct {
	name string
	srv  *http.Server
	addr string
}

// Group 管理编辑器服务的全部 HTTP 监听器（API 端口与 metrics 端口），
// 统一处理后台 serve、信号等待与按注册顺序的优雅排空。API 先注册
// 先排空，WebSocket 事件连接随之关闭，metrics 端口保留到最后仍可被抓取。
type Group struct {
	logger *zap.Logger
	errCh  chan error

	mu      sync.Mutex
	closed  bool
	members []*member
}

// NewGroup 创建空的监听器组。
func NewGroup(logger *zap.Logger) *Group {
	return &Group{
		logger: logger.With(zap.String("component", "http_listener_group")),
		errCh:  make(chan error, 4),
	}
}

// Listen 以给定名称绑定一个监听器并在后台 goroutine 中开始服务。
// 返回实际绑定地址（cfg.Addr 端口为 0 时与配置不同）。组关闭后
// 再注册会返回错误。
func (g *Group) Listen(name string, handler http.Handler, cfg Config) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed {
		return "", fmt.Errorf("listener group already shut down")
	}

	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return "", fmt.Errorf("bind %s listener on %s: %w", name, cfg.Addr, err)
	}

	m := &member{
		name: name,
		addr: ln.Addr().String(),
		srv: &http.Server{
			Handler:        handler,
			ReadTimeout:    cfg.ReadTimeout,
			WriteTimeout:   cfg.WriteTimeout,
			IdleTimeout:    cfg.IdleTimeout,
			MaxHeaderBytes: cfg.MaxHeaderBytes,
		},
	}
	g.members = append(g.members, m)

	go func() {
		g.logger.Info("listener serving",
			zap.String("listener", m.name),
			zap.String("addr", m.addr))
		if err := m.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			select {
			case g.errCh <- fmt.Errorf("%s listener: %w", m.name, err):
			default:
			}
		}
	}()

	return m.addr, nil
}

// Wait 阻塞直到收到 SIGINT/SIGTERM 或任一监听器异常退出。
// 收到信号时返回 nil，监听器异常时返回对应错误。调用方随后
// 负责调用 Shutdown。
func (g *Group) Wait() error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		g.logger.Info("shutdown signal received", zap.String("signal", sig.String()))
		return nil
	case err := <-g.errCh:
		g.logger.Error("listener failed", zap.Error(err))
		return err
	}
}

// Shutdown 按注册顺序排空所有监听器，使对外 API 先停止接收请求。
// 幂等：二次调用直接返回 nil。
func (g *Group) Shutdown(ctx context.Context) error {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return nil
	}
	g.closed = true
	members := g.members
	g.members = nil
	g.mu.Unlock()

	var errs []error
	for _, m := range members {
		if err := m.srv.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("drain %s listener: %w", m.name, err))
			continue
		}
		g.logger.Info("listener drained", zap.String("listener", m.name))
	}
	return errors.Join(errs...)
}
