// internal/services/mailgun_service.go
// Mailgun 郵件發送服務

package services

import (
	"context"
	"fmt"

	"github.com/mailgun/mailgun-go/v4"
	"go.uber.org/zap"

	"crm-mail-api/internal/config"
	"crm-mail-api/internal/models"
)

// MailgunService Mailgun 郵件發送服務
// 實作 MailSender interface
type MailgunService struct {
	cfg    *config.Config
	logger *zap.Logger
	mg     *mailgun.MailgunImpl
}

// NewMailgunService 建立 Mailgun 服務
func NewMailgunService(cfg *config.Config, logger *zap.Logger) *MailgunService {
	mg := mailgun.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey)
	if cfg.MailgunAPIBase != "" {
		mg.SetAPIBase(cfg.MailgunAPIBase)
	}
	return &MailgunService{
		cfg:    cfg,
		logger: logger,
		mg:     mg,
	}
}

// Name 回傳服務名稱
func (s *MailgunService) Name() string {
	return "Mailgun"
}

// SendMail 發送郵件 (使用 Mailgun Messages API)
func (s *MailgunService) SendMail(ctx context.Context, msg *models.EmailRequest) (string, error) {
	message := s.mg.NewMessage(
		formatFrom(msg.SenderDisplayName, s.cfg.MailAccount),
		msg.Subject,
		msg.Body,
		msg.Recipient,
	)
	message.SetHtml(RenderHTMLBody(msg.Body))

	resp, id, err := s.mg.Send(ctx, message)
	if err != nil {
		return "", fmt.Errorf("failed to send email via Mailgun: %w", err)
	}

	s.logger.Debug("Mailgun accepted message", zap.String("id", id), zap.String("response", resp))
	return id, nil
}
