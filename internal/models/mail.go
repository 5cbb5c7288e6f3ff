// internal/models/mail.go
// 郵件資料模型 - 每個請求建立，回應後即丟棄

package models

// EmailRequest 單封郵件
type EmailRequest struct {
	Recipient         string
	Subject           string
	Body              string
	SenderDisplayName string
}

// BatchItem 批次中的單一項目，主旨與內容可省略 (使用批次預設值)
type BatchItem struct {
	Recipient string `json:"to"`
	Subject   string `json:"subject,omitempty"`
	Body      string `json:"message,omitempty"`
}

// BatchEmailRequest 批次郵件
type BatchEmailRequest struct {
	Items             []BatchItem
	DefaultSubject    string
	DefaultBody       string
	SenderDisplayName string
}

// EmailFor 依項目與批次預設值組成 EmailRequest
func (b *BatchEmailRequest) EmailFor(item BatchItem) *EmailRequest {
	subject := item.Subject
	if subject == "" {
		subject = b.DefaultSubject
	}
	body := item.Body
	if body == "" {
		body = b.DefaultBody
	}
	return &EmailRequest{
		Recipient:         item.Recipient,
		Subject:           subject,
		Body:              body,
		SenderDisplayName: b.SenderDisplayName,
	}
}

// SendResult 單一項目的發送結果，順序與輸入相同
type SendResult struct {
	Recipient    string `json:"to"`
	Succeeded    bool   `json:"success"`
	MessageID    string `json:"messageId,omitempty"`
	ErrorMessage string `json:"error,omitempty"`
}

// BatchSummary 批次發送摘要
type BatchSummary struct {
	SucceededCount int          `json:"sent"`
	FailedCount    int          `json:"failed"`
	Results        []SendResult `json:"results"`
}

// SendEmailPayload POST /api/send-email 請求內容
type SendEmailPayload struct {
	To       string `json:"to"`
	Subject  string `json:"subject"`
	Message  string `json:"message"`
	FromName string `json:"fromName,omitempty"`
}

// ToEmailRequest 轉換為 EmailRequest
func (p *SendEmailPayload) ToEmailRequest() *EmailRequest {
	return &EmailRequest{
		Recipient:         p.To,
		Subject:           p.Subject,
		Body:              p.Message,
		SenderDisplayName: p.FromName,
	}
}

// SendBatchPayload POST /api/send-batch 請求內容
type SendBatchPayload struct {
	Emails   []BatchItem `json:"emails"`
	Subject  string      `json:"subject,omitempty"`
	Message  string      `json:"message,omitempty"`
	FromName string      `json:"fromName,omitempty"`
}

// ToBatchRequest 轉換為 BatchEmailRequest
func (p *SendBatchPayload) ToBatchRequest() *BatchEmailRequest {
	return &BatchEmailRequest{
		Items:             p.Emails,
		DefaultSubject:    p.Subject,
		DefaultBody:       p.Message,
		SenderDisplayName: p.FromName,
	}
}
