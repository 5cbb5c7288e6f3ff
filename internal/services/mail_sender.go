// internal/services/mail_sender.go
// 郵件發送服務共用介面

package services

import (
	"context"
	"strings"

	"crm-mail-api/internal/models"
)

// MailSender 郵件發送服務介面
// 所有郵件發送服務（SMTP、Graph API、SendGrid、Mailgun、Resend）都需實作此介面
type MailSender interface {
	// SendMail 發送郵件，成功時回傳供應商的 message id
	SendMail(ctx context.Context, msg *models.EmailRequest) (string, error)

	// Name 回傳服務名稱，用於 logging
	Name() string
}

// htmlBodyOpen/htmlBodyClose 純文字轉 HTML 時的外層容器
const (
	htmlBodyOpen  = `<div style="font-family: Arial, sans-serif; line-height: 1.6;">`
	htmlBodyClose = `</div>`
)

// RenderHTMLBody 將純文字內容轉為 HTML
// 只把換行替換為 <br>，不做任何跳脫
func RenderHTMLBody(body string) string {
	return htmlBodyOpen + strings.ReplaceAll(body, "\n", "<br>") + htmlBodyClose
}

// formatFrom 組成 "顯示名稱 <帳號>" 格式的寄件者
func formatFrom(displayName, account string) string {
	return displayName + " <" + account + ">"
}
