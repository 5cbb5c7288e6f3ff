package microsoft

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOAuthService_GetAccessToken_Caches(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "/tenant-1/oauth2/v2.0/token", r.URL.Path)
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))
		assert.Equal(t, "client-1", r.PostForm.Get("client_id"))
		assert.Equal(t, GraphScope, r.PostForm.Get("scope"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok-123","token_type":"Bearer","expires_in":3600}`))
	}))
	defer server.Close()

	svc := NewOAuthService("tenant-1", "client-1", "secret", WithAuthority(server.URL+"/"))

	token, err := svc.GetAccessToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-123", token)

	token, err = svc.GetAccessToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-123", token)

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestOAuthService_GetAccessToken_ShortLivedTokenRefreshes(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		_, _ = w.Write([]byte(`{"access_token":"tok","expires_in":30}`))
	}))
	defer server.Close()

	svc := NewOAuthService("t", "c", "s", WithAuthority(server.URL))

	_, err := svc.GetAccessToken(context.Background())
	require.NoError(t, err)
	_, err = svc.GetAccessToken(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestOAuthService_GetAccessToken_Error(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	svc := NewOAuthService("t", "c", "bad", WithAuthority(server.URL))

	_, err := svc.GetAccessToken(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status: 401")
}

func TestOAuthService_IsConfigured(t *testing.T) {
	assert.True(t, NewOAuthService("t", "c", "s").IsConfigured())
	assert.False(t, NewOAuthService("t", "", "s").IsConfigured())
}
