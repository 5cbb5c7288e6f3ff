// internal/services/resend_service.go
// Resend 郵件發送服務

package services

import (
	"context"
	"fmt"
	"net/url"

	"github.com/resend/resend-go/v3"
	"go.uber.org/zap"

	"crm-mail-api/internal/config"
	"crm-mail-api/internal/models"
)

// ResendService Resend 郵件發送服務
// 實作 MailSender interface
type ResendService struct {
	cfg    *config.Config
	logger *zap.Logger
	client *resend.Client
}

// NewResendService 建立 Resend 服務
func NewResendService(cfg *config.Config, logger *zap.Logger) *ResendService {
	return &ResendService{
		cfg:    cfg,
		logger: logger,
		client: resend.NewClient(cfg.ResendAPIKey),
	}
}

// WithBaseURL 覆寫 Resend API 端點
func (s *ResendService) WithBaseURL(baseURL *url.URL) *ResendService {
	s.client.BaseURL = baseURL
	return s
}

// Name 回傳服務名稱
func (s *ResendService) Name() string {
	return "Resend"
}

// SendMail 發送郵件 (使用 Resend API)
func (s *ResendService) SendMail(ctx context.Context, msg *models.EmailRequest) (string, error) {
	req := &resend.SendEmailRequest{
		From:    formatFrom(msg.SenderDisplayName, s.cfg.MailAccount),
		To:      []string{msg.Recipient},
		Subject: msg.Subject,
		Text:    msg.Body,
		Html:    RenderHTMLBody(msg.Body),
	}

	sent, err := s.client.Emails.SendWithContext(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to send email via Resend: %w", err)
	}

	s.logger.Debug("Resend accepted message", zap.String("id", sent.Id))
	return sent.Id, nil
}
