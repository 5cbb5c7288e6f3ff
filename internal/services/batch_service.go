// internal/services/batch_service.go
// 批次發送服務 - 依序發送，每封之間固定間隔

package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"crm-mail-api/internal/config"
	"crm-mail-api/internal/metrics"
	"crm-mail-api/internal/models"
)

// missingMessageText 項目與批次皆未提供 message 時的錯誤訊息
const missingMessageText = "message is required"

// Pacer 批次項目之間的等待
type Pacer interface {
	Wait()
}

// SleepPacer 固定時間的 Pacer
type SleepPacer struct {
	Delay time.Duration
}

// Wait 暫停目前請求，不影響其他請求
func (p SleepPacer) Wait() {
	if p.Delay > 0 {
		time.Sleep(p.Delay)
	}
}

// BatchService 批次發送服務
type BatchService struct {
	transport *MailTransport
	pacer     Pacer
	maxSize   int
	logger    *zap.Logger
}

// NewBatchService 建立批次發送服務
func NewBatchService(cfg *config.Config, transport *MailTransport, logger *zap.Logger) *BatchService {
	return &BatchService{
		transport: transport,
		pacer:     SleepPacer{Delay: cfg.BatchSendDelay},
		maxSize:   cfg.BatchMaxSize,
		logger:    logger,
	}
}

// WithPacer 替換 Pacer
func (s *BatchService) WithPacer(pacer Pacer) *BatchService {
	s.pacer = pacer
	return s
}

// Validate 檢查批次長度，第一個違規即回傳
func (s *BatchService) Validate(req *models.BatchEmailRequest) error {
	if req == nil || len(req.Items) == 0 {
		return NewValidationError("emails array is required")
	}
	if len(req.Items) > s.maxSize {
		return NewValidationError("Maximum %d emails per batch", s.maxSize)
	}
	return nil
}

// Send 依輸入順序逐一發送
// 單封失敗只記錄在該項結果中，不中斷批次；批次一旦開始便執行到結束
func (s *BatchService) Send(ctx context.Context, req *models.BatchEmailRequest) (*models.BatchSummary, error) {
	if err := s.Validate(req); err != nil {
		return nil, err
	}

	ctx = context.WithoutCancel(ctx)

	s.logger.Info("Batch started", zap.Int("items", len(req.Items)))

	summary := &models.BatchSummary{
		Results: make([]models.SendResult, 0, len(req.Items)),
	}

	for i, item := range req.Items {
		// 最後一封之後不等待
		if i > 0 {
			s.pacer.Wait()
		}

		result := s.sendItem(ctx, req, item)
		summary.Results = append(summary.Results, result)

		if result.Succeeded {
			summary.SucceededCount++
			metrics.BatchItems.WithLabelValues("sent").Inc()
		} else {
			summary.FailedCount++
			metrics.BatchItems.WithLabelValues("failed").Inc()
		}
	}

	metrics.BatchTotal.Inc()
	s.logger.Info("Batch finished",
		zap.Int("sent", summary.SucceededCount),
		zap.Int("failed", summary.FailedCount),
	)

	return summary, nil
}

// sendItem 發送單一項目，panic 也只會影響該項
func (s *BatchService) sendItem(ctx context.Context, req *models.BatchEmailRequest, item models.BatchItem) (result models.SendResult) {
	result.Recipient = item.Recipient

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Batch item panicked", zap.String("to", item.Recipient), zap.Any("panic", r))
			result = models.SendResult{
				Recipient:    item.Recipient,
				ErrorMessage: fmt.Sprint(r),
			}
		}
	}()

	msg := req.EmailFor(item)
	// 項目與批次都沒有內容時該項失敗，不送出空白郵件
	if msg.Body == "" {
		result.ErrorMessage = missingMessageText
		s.logger.Warn("Batch item has no message", zap.String("to", item.Recipient))
		return result
	}

	messageID, err := s.transport.Send(ctx, msg)
	if err != nil {
		result.ErrorMessage = err.Error()
		return result
	}

	result.Succeeded = true
	result.MessageID = messageID
	return result
}
