// internal/services/token_service.go
// API 用戶端 Token 簽發服務

package services

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenIssuer 簽發 JWTAuth 接受的 HS256 Token
type TokenIssuer struct {
	secret []byte
	now    func() time.Time
}

// NewTokenIssuer 建立 Token 簽發服務
func NewTokenIssuer(secret string) (*TokenIssuer, error) {
	if secret == "" {
		return nil, errors.New("API_JWT_SECRET is not set")
	}
	return &TokenIssuer{secret: []byte(secret), now: time.Now}, nil
}

// Issue 為 clientID 簽發 Token
// ttl <= 0 時不設定 exp (永久有效)
func (s *TokenIssuer) Issue(clientID string, ttl time.Duration) (string, error) {
	if clientID == "" {
		return "", errors.New("client id is required")
	}

	now := s.now()
	claims := jwt.MapClaims{
		"iss": "crm-mail-api",
		"sub": clientID,
		"jti": uuid.New().String(),
		"iat": now.Unix(),
	}
	if ttl > 0 {
		claims["exp"] = now.Add(ttl).Unix()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}
