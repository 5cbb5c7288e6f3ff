// internal/services/sendgrid_service.go
// SendGrid 郵件發送服務

package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"

	"crm-mail-api/internal/config"
	"crm-mail-api/internal/models"
)

// SendGridService SendGrid 郵件發送服務
// 實作 MailSender interface
type SendGridService struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewSendGridService 建立 SendGrid 服務
func NewSendGridService(cfg *config.Config, logger *zap.Logger) *SendGridService {
	return &SendGridService{
		cfg:    cfg,
		logger: logger,
	}
}

// Name 回傳服務名稱
func (s *SendGridService) Name() string {
	return "SendGrid"
}

// IsConfigured 檢查 SendGrid 是否已設定
func (s *SendGridService) IsConfigured() bool {
	return s.cfg.SendGridAPIKey != ""
}

// SendMail 發送郵件 (使用 SendGrid API)
func (s *SendGridService) SendMail(ctx context.Context, msg *models.EmailRequest) (string, error) {
	message := sgmail.NewV3Mail()
	message.SetFrom(sgmail.NewEmail(msg.SenderDisplayName, s.cfg.MailAccount))
	message.Subject = msg.Subject

	// 建立個人化設定 (收件人)
	personalization := sgmail.NewPersonalization()
	personalization.AddTos(sgmail.NewEmail("", msg.Recipient))
	message.AddPersonalizations(personalization)

	// SendGrid 要求順序: text/plain 必須在 text/html 之前
	message.AddContent(
		sgmail.NewContent("text/plain", msg.Body),
		sgmail.NewContent("text/html", RenderHTMLBody(msg.Body)),
	)

	request := sendgrid.GetRequest(s.cfg.SendGridAPIKey, "/v3/mail/send", s.cfg.SendGridHost)
	request.Method = http.MethodPost
	request.Body = sgmail.GetRequestBody(message)

	response, err := sendgrid.MakeRequestWithContext(ctx, request)
	if err != nil {
		return "", fmt.Errorf("failed to send email via SendGrid: %w", err)
	}

	// 檢查回應狀態 (2xx 表示成功)
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return "", fmt.Errorf("SendGrid API error (status %d): %s", response.StatusCode, response.Body)
	}

	messageID := ""
	if ids := response.Headers["X-Message-Id"]; len(ids) > 0 {
		messageID = ids[0]
	}
	s.logger.Debug("SendGrid accepted message", zap.Int("status", response.StatusCode), zap.String("message_id", messageID))

	return messageID, nil
}
