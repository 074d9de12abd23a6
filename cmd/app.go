package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"ddd-skeleton/api"
	"ddd-skeleton/config"
	"ddd-skeleton/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const defaultShutdownTimeout = 10 * time.Second

// App 应用程序
type App struct {
	config  *config.Config
	router  *api.Router
	server  *http.Server
	intents *Intents
	closers []func() error
}

// Intents 返回装配好的用例
func (a *App) Intents() *Intents {
	return a.intents
}

// Handler 返回 HTTP 处理器（用于测试）
func (a *App) Handler() *gin.Engine {
	return a.router.GetEngine()
}

// Run 启动 HTTP 服务，ctx 取消后优雅关闭
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting",
			zap.String("addr", a.server.Addr),
			zap.String("health", "/api/v1/health"))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	timeout := a.config.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	logger.Info("Shutting down server", zap.Duration("timeout", timeout))
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	logger.Info("Server stopped")
	return nil
}

// Close 释放数据库连接等资源，可以重复调用
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			logger.Warn("Failed to release resource", zap.Error(err))
		}
	}
	a.closers = nil
	_ = logger.Sync()
}
