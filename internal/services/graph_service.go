// internal/services/graph_service.go
// Microsoft Graph API 郵件發送服務

package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/emersion/go-message/mail"
	"go.uber.org/zap"

	"crm-mail-api/internal/config"
	"crm-mail-api/internal/models"
	"crm-mail-api/pkg/microsoft"
)

// DefaultGraphBaseURL Graph API v1.0 端點
const DefaultGraphBaseURL = "https://graph.microsoft.com/v1.0"

// GraphMailService Microsoft Graph API 郵件發送服務
// 實作 MailSender interface
type GraphMailService struct {
	cfg          *config.Config
	logger       *zap.Logger
	oauthService *microsoft.OAuthService
	httpClient   *http.Client
	baseURL      string
}

// NewGraphMailService 建立 Graph API 郵件服務
func NewGraphMailService(cfg *config.Config, logger *zap.Logger, oauthService *microsoft.OAuthService) *GraphMailService {
	return &GraphMailService{
		cfg:          cfg,
		logger:       logger,
		oauthService: oauthService,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		baseURL:      DefaultGraphBaseURL,
	}
}

// WithBaseURL 覆寫 Graph API 端點
func (s *GraphMailService) WithBaseURL(baseURL string) *GraphMailService {
	s.baseURL = strings.TrimRight(baseURL, "/")
	return s
}

// Name 回傳服務名稱
func (s *GraphMailService) Name() string {
	return "Microsoft Graph API"
}

// GraphMailRequest Graph API 郵件請求結構
type GraphMailRequest struct {
	Message         GraphMessage `json:"message"`
	SaveToSentItems bool         `json:"saveToSentItems"`
}

// GraphMessage Graph API 郵件訊息結構
type GraphMessage struct {
	Subject      string           `json:"subject"`
	Body         GraphBody        `json:"body"`
	From         *GraphRecipient  `json:"from,omitempty"`
	ToRecipients []GraphRecipient `json:"toRecipients"`
}

// GraphBody Graph API 郵件內容結構
type GraphBody struct {
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

// GraphRecipient Graph API 收件人結構
type GraphRecipient struct {
	EmailAddress GraphEmailAddress `json:"emailAddress"`
}

// GraphEmailAddress Graph API 電子郵件地址結構
type GraphEmailAddress struct {
	Name    string `json:"name,omitempty"`
	Address string `json:"address"`
}

// GraphErrorResponse Graph API 錯誤回應
type GraphErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// SendMail 發送郵件 (使用 Microsoft Graph API)
// Graph 的 sendMail 不回傳 message id，改用回應的 request-id
func (s *GraphMailService) SendMail(ctx context.Context, msg *models.EmailRequest) (string, error) {
	to, err := mail.ParseAddressList(msg.Recipient)
	if err != nil {
		return "", fmt.Errorf("invalid recipient %q: %w", msg.Recipient, err)
	}

	// 取得 OAuth 2.0 Access Token
	accessToken, err := s.oauthService.GetAccessToken(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get access token: %w", err)
	}

	// 序列化請求
	jsonBody, err := json.Marshal(s.buildGraphRequest(msg, to))
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	graphURL := fmt.Sprintf("%s/users/%s/sendMail", s.baseURL, url.PathEscape(s.cfg.MailAccount))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, graphURL, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	// 檢查回應 (202 Accepted 表示成功)
	if resp.StatusCode != http.StatusAccepted && resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)

		var errResp GraphErrorResponse
		if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
			return "", fmt.Errorf("Graph API error (%s): %s", errResp.Error.Code, errResp.Error.Message)
		}

		return "", fmt.Errorf("Graph API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	requestID := resp.Header.Get("request-id")
	s.logger.Debug("Graph API accepted message", zap.Int("status", resp.StatusCode), zap.String("request_id", requestID))

	return requestID, nil
}

// buildGraphRequest 建立 Graph API 請求結構
// Graph 只接受單一 body，送出 HTML 版本
func (s *GraphMailService) buildGraphRequest(msg *models.EmailRequest, to []*mail.Address) *GraphMailRequest {
	toRecipients := make([]GraphRecipient, len(to))
	for i, addr := range to {
		toRecipients[i] = GraphRecipient{
			EmailAddress: GraphEmailAddress{Name: addr.Name, Address: addr.Address},
		}
	}

	return &GraphMailRequest{
		Message: GraphMessage{
			Subject: msg.Subject,
			Body: GraphBody{
				ContentType: "html",
				Content:     RenderHTMLBody(msg.Body),
			},
			From: &GraphRecipient{
				EmailAddress: GraphEmailAddress{Name: msg.SenderDisplayName, Address: s.cfg.MailAccount},
			},
			ToRecipients: toRecipients,
		},
		SaveToSentItems: true,
	}
}
