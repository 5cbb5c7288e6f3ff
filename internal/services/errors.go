// internal/services/errors.go
// 錯誤類型

package services

import "fmt"

// ValidationError 輸入缺漏或超出範圍，不會觸發任何發送
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError 建立 ValidationError
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// DeliveryError 供應商或網路錯誤 (單封郵件)
// Error() 只回傳供應商訊息，供 API 回應直接使用
type DeliveryError struct {
	Provider string
	Err      error
}

func (e *DeliveryError) Error() string {
	return e.Err.Error()
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}
