// internal/api/routes/routes.go
// Gin 路由註冊

package routes

import (
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"crm-mail-api/internal/api/handlers"
	"crm-mail-api/internal/api/middlewares"
	"crm-mail-api/internal/config"
	"crm-mail-api/internal/metrics"
	"crm-mail-api/internal/services"
)

// Dependencies 路由依賴
type Dependencies struct {
	Config       *config.Config
	Logger       *zap.Logger
	Transport    *services.MailTransport
	BatchService *services.BatchService
}

// NewRouter 建立 Gin engine 並註冊所有路由
func NewRouter(deps *Dependencies) *gin.Engine {
	router := gin.New()
	router.Use(
		ginzap.Ginzap(deps.Logger, time.RFC3339, true),
		ginzap.RecoveryWithZap(deps.Logger, true),
		middlewares.CORS(deps.Config.CORSAllowedOrigins),
	)

	RegisterRoutes(router, deps)
	return router
}

// RegisterRoutes 註冊所有路由
func RegisterRoutes(router *gin.Engine, deps *Dependencies) {
	// 初始化 Handlers
	healthHandler := handlers.NewHealthHandler()
	mailHandler := handlers.NewMailHandler(deps.Transport, deps.BatchService, deps.Logger)

	// 公開路由
	router.GET("/", healthHandler.Health)

	if deps.Config.MetricsEnabled {
		router.GET("/metrics", gin.WrapH(metrics.Handler()))
	}

	// 郵件相關 API
	api := router.Group("/api")
	api.Use(middlewares.JWTAuth(deps.Config.JWTSecret))
	{
		api.POST("/send-email", mailHandler.Send)
		api.POST("/send-batch", mailHandler.SendBatch)
	}
}
