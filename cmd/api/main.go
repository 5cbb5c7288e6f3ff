// cmd/api/main.go
// Gin RESTful API 入口

package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"crm-mail-api/internal/api/routes"
	"crm-mail-api/internal/config"
	"crm-mail-api/internal/services"
)

func main() {
	// 載入設定
	cfg := config.Load()

	// 初始化 Logger
	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting CRM Mail API...")

	if err := cfg.Validate(); err != nil {
		logger.Warn("Mail configuration issue, sending will fail", zap.Error(err))
	}

	// 初始化郵件傳送轉接層 (啟動後唯讀)
	transport, err := services.NewMailTransport(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize mail transport", zap.Error(err))
	}
	batchService := services.NewBatchService(cfg, transport, logger)

	// 初始化 Gin
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// 註冊路由
	router := routes.NewRouter(&routes.Dependencies{
		Config:       cfg,
		Logger:       logger,
		Transport:    transport,
		BatchService: batchService,
	})

	// 建立 HTTP Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 優雅關機
	go func() {
		logger.Info("CRM Email API running",
			zap.String("port", cfg.Port),
			zap.String("account", cfg.MailAccount),
			zap.String("provider", transport.Name()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// 等待中斷信號
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down API server...")

	// 優雅關閉
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("API Server stopped")
}

// newLogger 依環境建立 zap logger
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
