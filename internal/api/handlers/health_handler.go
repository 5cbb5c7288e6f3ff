// internal/api/handlers/health_handler.go
// 健康檢查 Handler

package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// timestampLayout ISO-8601，UTC 毫秒
const timestampLayout = "2006-01-02T15:04:05.000Z"

// HealthHandler 健康檢查 Handler
type HealthHandler struct {
	now func() time.Time
}

// NewHealthHandler 建立 Health Handler
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{now: time.Now}
}

// Health 健康檢查
// 不檢查郵件供應商狀態，永遠回傳 200
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "OK",
		"message":   "CRM Email API is running",
		"timestamp": h.now().UTC().Format(timestampLayout),
	})
}
