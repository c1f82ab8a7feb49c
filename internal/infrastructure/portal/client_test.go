package portal

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ircomercio/ordens/internal/domain/shared"
	"github.com/ircomercio/ordens/internal/infrastructure/config"
)

func newTestClient(baseURL string) *Client {
	return NewClient(config.PortalConfig{BaseURL: baseURL, Timeout: 2 * time.Second}, zap.NewNop())
}

func TestClientVerify(t *testing.T) {
	t.Run("valid session", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/api/verify-session", r.URL.Path)

			var req map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "tok-123", req["sessionToken"])

			json.NewEncoder(w).Encode(map[string]any{
				"valid":   true,
				"session": map[string]string{"userId": "u1", "username": "maria"},
			})
		}))
		defer srv.Close()

		session, err := newTestClient(srv.URL).Verify(context.Background(), "tok-123")

		require.NoError(t, err)
		assert.Equal(t, "maria", session.Username)
	})

	t.Run("portal rejects with non-200", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer srv.Close()

		_, err := newTestClient(srv.URL).Verify(context.Background(), "tok-123")
		assert.Equal(t, shared.ErrUnauthorized, err)
	})

	t.Run("portal answers 200 but valid false", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{"valid": false})
		}))
		defer srv.Close()

		_, err := newTestClient(srv.URL).Verify(context.Background(), "tok-123")
		assert.Equal(t, shared.ErrUnauthorized, err)
	})

	t.Run("empty token short-circuits", func(t *testing.T) {
		_, err := newTestClient("http://portal.invalid").Verify(context.Background(), "")
		assert.Equal(t, shared.ErrUnauthorized, err)
	})

	t.Run("unreachable portal is not an auth rejection", func(t *testing.T) {
		_, err := newTestClient("http://127.0.0.1:1").Verify(context.Background(), "tok-123")
		require.Error(t, err)
		assert.NotEqual(t, shared.ErrUnauthorized, err)
	})
}
