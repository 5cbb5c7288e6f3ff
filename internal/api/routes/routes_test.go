package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"crm-mail-api/internal/config"
	"crm-mail-api/internal/models"
	"crm-mail-api/internal/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type okSender struct{ sent int }

func (s *okSender) SendMail(_ context.Context, _ *models.EmailRequest) (string, error) {
	s.sent++
	return "<ok@test.local>", nil
}

func (s *okSender) Name() string { return "ok" }

func newTestEngine(t *testing.T, cfg *config.Config) (*gin.Engine, *okSender) {
	t.Helper()
	logger := zaptest.NewLogger(t)
	sender := &okSender{}
	transport := services.NewMailTransportWithSender(sender, cfg.DefaultFromName, logger)

	return NewRouter(&Dependencies{
		Config:       cfg,
		Logger:       logger,
		Transport:    transport,
		BatchService: services.NewBatchService(cfg, transport, logger),
	}), sender
}

func serve(router http.Handler, method, path, body, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRouter_Endpoints(t *testing.T) {
	router, sender := newTestEngine(t, &config.Config{DefaultFromName: "CRM Avocats", BatchMaxSize: 10})

	w := serve(router, http.MethodGet, "/", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var health map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "OK", health["status"])

	w = serve(router, http.MethodPost, "/api/send-email", `{"to":"a@example.org","subject":"s","message":"m"}`, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(router, http.MethodPost, "/api/send-batch", `{"emails":[{"to":"a@example.org"},{"to":"b@example.org"}],"subject":"s","message":"m"}`, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 3, sender.sent)

	w = serve(router, http.MethodGet, "/api/send-email", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_MetricsToggle(t *testing.T) {
	router, _ := newTestEngine(t, &config.Config{BatchMaxSize: 10})
	w := serve(router, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	router, _ = newTestEngine(t, &config.Config{BatchMaxSize: 10, MetricsEnabled: true})
	w = serve(router, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "mail_api_batch_total")
}

func TestRouter_JWTGuardsAPIOnly(t *testing.T) {
	const secret = "router-secret"
	router, sender := newTestEngine(t, &config.Config{BatchMaxSize: 10, JWTSecret: secret})

	w := serve(router, http.MethodGet, "/", "", "")
	assert.Equal(t, http.StatusOK, w.Code)

	body := `{"to":"a@example.org","subject":"s","message":"m"}`
	w = serve(router, http.MethodPost, "/api/send-email", body, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Zero(t, sender.sent)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "crm-backend"}).SignedString([]byte(secret))
	require.NoError(t, err)

	w = serve(router, http.MethodPost, "/api/send-email", body, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, sender.sent)
}

func TestRouter_RecoversFromPanic(t *testing.T) {
	router, _ := newTestEngine(t, &config.Config{BatchMaxSize: 10})
	router.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := serve(router, http.MethodGet, "/boom", "", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
