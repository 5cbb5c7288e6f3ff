// internal/services/smtp_service.go
// SMTP 郵件發送服務 (預設使用 Gmail)

package services

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/emersion/go-message/mail"
	"github.com/emersion/go-sasl"
	gosmtp "github.com/emersion/go-smtp"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"crm-mail-api/internal/config"
	"crm-mail-api/internal/models"
)

// SMTPService SMTP 郵件發送服務
// 實作 MailSender interface
type SMTPService struct {
	cfg    *config.Config
	logger *zap.Logger
	addr   string
}

// NewSMTPService 建立 SMTP 服務
func NewSMTPService(cfg *config.Config, logger *zap.Logger) *SMTPService {
	return &SMTPService{
		cfg:    cfg,
		logger: logger,
		addr:   net.JoinHostPort(cfg.SMTPHost, strconv.Itoa(cfg.SMTPPort)),
	}
}

// Name 回傳服務名稱
func (s *SMTPService) Name() string {
	return "SMTP"
}

// SendMail 發送郵件 (使用 SMTP)
func (s *SMTPService) SendMail(ctx context.Context, msg *models.EmailRequest) (string, error) {
	if s.cfg.MailAccount == "" {
		return "", errors.New("sender account is not configured")
	}
	if strings.TrimSpace(msg.Recipient) == "" {
		return "", errors.New("no recipients defined")
	}

	// 支援逗號分隔的多個收件人
	to, err := mail.ParseAddressList(msg.Recipient)
	if err != nil {
		return "", fmt.Errorf("invalid recipient %q: %w", msg.Recipient, err)
	}

	messageID := s.newMessageID()

	var buf bytes.Buffer
	if err := s.writeMessage(&buf, msg, to, messageID); err != nil {
		return "", fmt.Errorf("failed to build message: %w", err)
	}

	rcpts := make([]string, len(to))
	for i, addr := range to {
		rcpts[i] = addr.Address
	}

	if err := s.deliver(ctx, rcpts, &buf); err != nil {
		return "", err
	}

	return "<" + messageID + ">", nil
}

// writeMessage 建立 multipart/alternative 郵件 (純文字 + HTML)
func (s *SMTPService) writeMessage(w io.Writer, msg *models.EmailRequest, to []*mail.Address, messageID string) error {
	var h mail.Header
	h.SetDate(time.Now())
	h.SetAddressList("From", []*mail.Address{{Name: msg.SenderDisplayName, Address: s.cfg.MailAccount}})
	h.SetAddressList("To", to)
	h.SetSubject(msg.Subject)
	h.SetMessageID(messageID)

	iw, err := mail.CreateInlineWriter(w, h)
	if err != nil {
		return err
	}

	if err := writeInlinePart(iw, "text/plain", msg.Body); err != nil {
		return err
	}
	if err := writeInlinePart(iw, "text/html", RenderHTMLBody(msg.Body)); err != nil {
		return err
	}

	return iw.Close()
}

// writeInlinePart 寫入單一內嵌內容
func writeInlinePart(iw *mail.InlineWriter, contentType, content string) error {
	var ph mail.InlineHeader
	ph.SetContentType(contentType, map[string]string{"charset": "utf-8"})
	ph.Set("Content-Transfer-Encoding", "quoted-printable")

	pw, err := iw.CreatePart(ph)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(pw, content); err != nil {
		pw.Close()
		return err
	}
	return pw.Close()
}

// deliver 連線到 SMTP 伺服器並送出郵件
// 465 埠使用 implicit TLS，其他埠在伺服器支援時升級 STARTTLS
func (s *SMTPService) deliver(ctx context.Context, rcpts []string, r io.Reader) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tlsConfig := &tls.Config{ServerName: s.cfg.SMTPHost}

	conn, err := s.dial(ctx, tlsConfig)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", s.addr, err)
	}
	c := gosmtp.NewClient(conn)
	defer c.Close()

	c.CommandTimeout = s.cfg.SMTPTimeout
	c.SubmissionTimeout = s.cfg.SMTPTimeout

	if !s.implicitTLS() {
		if ok, _ := c.Extension("STARTTLS"); ok {
			if err := c.StartTLS(tlsConfig); err != nil {
				return fmt.Errorf("failed to start TLS: %w", err)
			}
		}
	}

	if s.cfg.SMTPPassword != "" {
		auth := sasl.NewPlainClient("", s.cfg.MailAccount, s.cfg.SMTPPassword)
		if err := c.Auth(auth); err != nil {
			return fmt.Errorf("authentication failed: %w", err)
		}
	}

	if err := c.SendMail(s.cfg.MailAccount, rcpts, r); err != nil {
		return err
	}
	s.logger.Debug("SMTP server accepted message", zap.String("addr", s.addr), zap.Strings("rcpt", rcpts))

	return c.Quit()
}

// dial 建立 TCP 連線，連線與 TLS 握手都受 SMTP_TIMEOUT 限制
func (s *SMTPService) dial(ctx context.Context, tlsConfig *tls.Config) (net.Conn, error) {
	dialer := &net.Dialer{Timeout: s.cfg.SMTPTimeout}
	if s.implicitTLS() {
		tlsDialer := &tls.Dialer{NetDialer: dialer, Config: tlsConfig}
		return tlsDialer.DialContext(ctx, "tcp", s.addr)
	}
	return dialer.DialContext(ctx, "tcp", s.addr)
}

func (s *SMTPService) implicitTLS() bool {
	return s.cfg.SMTPPort == 465
}

// newMessageID 產生 Message-Id (不含角括號)
func (s *SMTPService) newMessageID() string {
	domain := s.cfg.SMTPHost
	if at := strings.LastIndex(s.cfg.MailAccount, "@"); at >= 0 && at < len(s.cfg.MailAccount)-1 {
		domain = s.cfg.MailAccount[at+1:]
	}
	return uuid.NewString() + "@" + domain
}
