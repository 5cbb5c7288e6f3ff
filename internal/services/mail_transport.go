// internal/services/mail_transport.go
// 郵件傳送轉接層 - 啟動時依設定選擇供應商，之後唯讀共用

package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"crm-mail-api/internal/config"
	"crm-mail-api/internal/metrics"
	"crm-mail-api/internal/models"
	"crm-mail-api/pkg/microsoft"
)

// MailTransport 郵件傳送轉接層
// 所有請求共用同一個實例，建立後不再修改
type MailTransport struct {
	sender          MailSender
	defaultFromName string
	logger          *zap.Logger
}

// NewMailSender 依 MAIL_PROVIDER 建立對應的郵件服務
func NewMailSender(cfg *config.Config, logger *zap.Logger) (MailSender, error) {
	switch cfg.MailProvider {
	case config.ProviderSMTP:
		return NewSMTPService(cfg, logger), nil
	case config.ProviderGraph:
		oauthService := microsoft.NewOAuthService(
			cfg.MicrosoftTenantID,
			cfg.MicrosoftClientID,
			cfg.MicrosoftClientSecret,
		)
		return NewGraphMailService(cfg, logger, oauthService), nil
	case config.ProviderSendGrid:
		return NewSendGridService(cfg, logger), nil
	case config.ProviderMailgun:
		return NewMailgunService(cfg, logger), nil
	case config.ProviderResend:
		return NewResendService(cfg, logger), nil
	default:
		return nil, fmt.Errorf("unknown mail provider: %q", cfg.MailProvider)
	}
}

// NewMailTransport 建立郵件傳送轉接層
func NewMailTransport(cfg *config.Config, logger *zap.Logger) (*MailTransport, error) {
	sender, err := NewMailSender(cfg, logger)
	if err != nil {
		return nil, err
	}
	return NewMailTransportWithSender(sender, cfg.DefaultFromName, logger), nil
}

// NewMailTransportWithSender 使用指定的 MailSender 建立轉接層
func NewMailTransportWithSender(sender MailSender, defaultFromName string, logger *zap.Logger) *MailTransport {
	logger.Info("Mail transport initialized", zap.String("provider", sender.Name()))
	return &MailTransport{
		sender:          sender,
		defaultFromName: defaultFromName,
		logger:          logger,
	}
}

// Name 回傳使用中的供應商名稱
func (t *MailTransport) Name() string {
	return t.sender.Name()
}

// Send 發送單封郵件，回傳供應商 message id
// 失敗一律包裝為 *DeliveryError，不重試
func (t *MailTransport) Send(ctx context.Context, msg *models.EmailRequest) (string, error) {
	out := *msg
	if out.SenderDisplayName == "" {
		out.SenderDisplayName = t.defaultFromName
	}

	provider := t.sender.Name()
	messageID, err := t.sender.SendMail(ctx, &out)
	if err != nil {
		metrics.MailSendFailure.WithLabelValues(provider).Inc()
		t.logger.Error("Failed to send mail",
			zap.String("provider", provider),
			zap.String("to", out.Recipient),
			zap.Error(err),
		)
		return "", &DeliveryError{Provider: provider, Err: err}
	}

	metrics.MailSendSuccess.WithLabelValues(provider).Inc()
	t.logger.Info("Mail sent successfully",
		zap.String("provider", provider),
		zap.String("to", out.Recipient),
		zap.String("message_id", messageID),
	)
	return messageID, nil
}
