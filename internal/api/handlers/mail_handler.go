// internal/api/handlers/mail_handler.go
// 郵件 API Handler

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"crm-mail-api/internal/models"
	"crm-mail-api/internal/services"
)

// MailHandler 郵件 Handler
type MailHandler struct {
	transport *services.MailTransport
	batch     *services.BatchService
	logger    *zap.Logger
}

// NewMailHandler 建立 Mail Handler
func NewMailHandler(transport *services.MailTransport, batch *services.BatchService, logger *zap.Logger) *MailHandler {
	return &MailHandler{
		transport: transport,
		batch:     batch,
		logger:    logger,
	}
}

// Send 發送單封郵件
func (h *MailHandler) Send(c *gin.Context) {
	var req models.SendEmailPayload
	// 空 body 視為缺少欄位
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.respondError(c, services.NewValidationError("%s", err.Error()))
		return
	}

	if req.To == "" || req.Subject == "" || req.Message == "" {
		h.respondError(c, services.NewValidationError("Missing required fields: to, subject, message"))
		return
	}

	// 用戶端中斷連線不取消發送
	messageID, err := h.transport.Send(context.WithoutCancel(c.Request.Context()), req.ToEmailRequest())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"messageId": messageID,
		"message":   "Email sent successfully",
	})
}

// SendBatch 批次發送郵件
// 回傳 200 代表批次已處理完，個別結果見 results
func (h *MailHandler) SendBatch(c *gin.Context) {
	var req models.SendBatchPayload
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		var typeErr *json.UnmarshalTypeError
		// 只有 emails 本身型別錯誤視為缺少陣列，項目欄位錯誤走一般錯誤
		if errors.As(err, &typeErr) && typeErr.Field == "emails" {
			h.respondError(c, services.NewValidationError("emails array is required"))
			return
		}
		h.respondError(c, err)
		return
	}

	summary, err := h.batch.Send(c.Request.Context(), req.ToBatchRequest())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"sent":    summary.SucceededCount,
		"failed":  summary.FailedCount,
		"results": summary.Results,
	})
}

// respondError 依錯誤類型回應
func (h *MailHandler) respondError(c *gin.Context, err error) {
	var validationErr *services.ValidationError
	var deliveryErr *services.DeliveryError

	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &validationErr):
		status = http.StatusBadRequest
	case errors.As(err, &deliveryErr):
		// 已由 MailTransport 記錄
	default:
		h.logger.Error("Unexpected error", zap.String("path", c.FullPath()), zap.Error(err))
	}

	c.JSON(status, gin.H{
		"success": false,
		"error":   err.Error(),
	})
}
