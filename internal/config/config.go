// internal/config/config.go
// 設定模組 - 載入環境變數

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// 支援的郵件服務供應商
const (
	ProviderSMTP     = "smtp"
	ProviderGraph    = "graph"
	ProviderSendGrid = "sendgrid"
	ProviderMailgun  = "mailgun"
	ProviderResend   = "resend"
)

// Config 應用程式設定
type Config struct {
	// 環境
	Env  string
	Port string

	// 郵件服務
	MailProvider    string
	MailAccount     string // 寄件帳號，所有供應商的 From 位址
	DefaultFromName string

	// SMTP (預設為 Gmail)
	SMTPHost     string
	SMTPPort     int
	SMTPPassword string
	SMTPTimeout  time.Duration

	// SendGrid
	SendGridAPIKey string
	SendGridHost   string

	// Mailgun
	MailgunDomain  string
	MailgunAPIKey  string
	MailgunAPIBase string

	// Resend
	ResendAPIKey string

	// Microsoft OAuth 2.0 (Graph API)
	MicrosoftTenantID     string
	MicrosoftClientID     string
	MicrosoftClientSecret string

	// 批次發送
	BatchSendDelay time.Duration
	BatchMaxSize   int

	// HTTP
	CORSAllowedOrigins []string
	JWTSecret          string
	MetricsEnabled     bool
}

// Load 載入設定
func Load() *Config {
	// 嘗試載入 .env 檔案 (開發環境)
	_ = godotenv.Load()

	return &Config{
		// 環境
		Env:  getEnv("APP_ENV", "development"),
		Port: getEnv("PORT", "3000"),

		// 郵件服務
		MailProvider:    strings.ToLower(getEnv("MAIL_PROVIDER", ProviderSMTP)),
		MailAccount:     getEnv("GMAIL_USER", ""),
		DefaultFromName: getEnv("DEFAULT_FROM_NAME", "CRM Avocats"),

		// SMTP
		SMTPHost:     getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:     getEnvAsInt("SMTP_PORT", 465),
		SMTPPassword: getEnv("GMAIL_APP_PASSWORD", ""),
		SMTPTimeout:  getEnvAsDuration("SMTP_TIMEOUT", 30*time.Second),

		// SendGrid
		SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),
		SendGridHost:   getEnv("SENDGRID_HOST", "https://api.sendgrid.com"),

		// Mailgun
		MailgunDomain:  getEnv("MAILGUN_DOMAIN", ""),
		MailgunAPIKey:  getEnv("MAILGUN_API_KEY", ""),
		MailgunAPIBase: getEnv("MAILGUN_API_BASE", ""),

		// Resend
		ResendAPIKey: getEnv("RESEND_API_KEY", ""),

		// Microsoft OAuth 2.0
		MicrosoftTenantID:     getEnv("MICROSOFT_TENANT_ID", ""),
		MicrosoftClientID:     getEnv("MICROSOFT_CLIENT_ID", ""),
		MicrosoftClientSecret: getEnv("MICROSOFT_CLIENT_SECRET", ""),

		// 批次發送
		BatchSendDelay: getEnvAsDuration("BATCH_SEND_DELAY", 3*time.Second),
		BatchMaxSize:   getEnvAsInt("BATCH_MAX_SIZE", 10),

		// HTTP
		CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{}),
		JWTSecret:          getEnv("API_JWT_SECRET", ""),
		MetricsEnabled:     getEnvAsBool("METRICS_ENABLED", true),
	}
}

// IsProduction 是否為正式環境
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate 檢查所選供應商的必要設定
func (c *Config) Validate() error {
	var errs []error

	if c.MailAccount == "" {
		errs = append(errs, errors.New("GMAIL_USER is not configured"))
	}

	switch c.MailProvider {
	case ProviderSMTP:
		if c.SMTPHost == "" || c.SMTPPort <= 0 {
			errs = append(errs, errors.New("SMTP_HOST/SMTP_PORT are not configured"))
		}
		if c.SMTPPassword == "" {
			errs = append(errs, errors.New("GMAIL_APP_PASSWORD is not configured"))
		}
	case ProviderGraph:
		if c.MicrosoftTenantID == "" || c.MicrosoftClientID == "" || c.MicrosoftClientSecret == "" {
			errs = append(errs, errors.New("Microsoft OAuth is not configured"))
		}
	case ProviderSendGrid:
		if c.SendGridAPIKey == "" {
			errs = append(errs, errors.New("SENDGRID_API_KEY is not configured"))
		}
	case ProviderMailgun:
		if c.MailgunDomain == "" || c.MailgunAPIKey == "" {
			errs = append(errs, errors.New("MAILGUN_DOMAIN/MAILGUN_API_KEY are not configured"))
		}
	case ProviderResend:
		if c.ResendAPIKey == "" {
			errs = append(errs, errors.New("RESEND_API_KEY is not configured"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown MAIL_PROVIDER: %q", c.MailProvider))
	}

	if c.BatchMaxSize <= 0 {
		errs = append(errs, errors.New("BATCH_MAX_SIZE must be positive"))
	}

	return errors.Join(errs...)
}

// getEnv 取得環境變數，若不存在則回傳預設值
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt 取得環境變數並轉換為整數
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsBool 取得環境變數並轉換為布林值
func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

// getEnvAsDuration 取得環境變數並轉換為時間長度
// 接受 "3s" 這類格式，純數字視為毫秒
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if ms, err := strconv.Atoi(value); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	return defaultValue
}

// getEnvAsSlice 取得環境變數並轉換為字串切片（以逗號分隔）
func getEnvAsSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			trimmed := strings.TrimSpace(p)
			if trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return defaultValue
}
