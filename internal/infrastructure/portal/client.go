// Package portal talks to the identity portal that owns user sessions.
// This service never mints or parses tokens itself; every opaque token
// is verified against the portal on each request.
package portal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/ircomercio/ordens/internal/domain/shared"
	"github.com/ircomercio/ordens/internal/infrastructure/config"
)

// Session describes the portal-side session attached to a token
type Session struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// SessionVerifier validates opaque session tokens
type SessionVerifier interface {
	Verify(ctx context.Context, token string) (*Session, error)
}

// Client verifies sessions against the portal's verify-session endpoint
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a portal client with a bounded request timeout
func NewClient(cfg config.PortalConfig, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type verifyRequest struct {
	SessionToken string `json:"sessionToken"`
}

type verifyResponse struct {
	Valid   bool     `json:"valid"`
	Session *Session `json:"session"`
}

// Verify checks the token with the portal. An invalid or expired token
// yields shared.ErrUnauthorized; an unreachable portal yields a wrapped
// transport error so callers can distinguish outage from rejection.
func (c *Client) Verify(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, shared.ErrUnauthorized
	}

	body, err := json.Marshal(verifyRequest{SessionToken: token})
	if err != nil {
		return nil, fmt.Errorf("marshal verify request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/verify-session", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build verify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Portal unreachable", zap.Error(err))
		return nil, fmt.Errorf("portal unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Debug("Portal rejected session", zap.Int("status", resp.StatusCode))
		return nil, shared.ErrUnauthorized
	}

	var vr verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&vr); err != nil {
		return nil, fmt.Errorf("decode verify response: %w", err)
	}
	if !vr.Valid {
		return nil, shared.ErrUnauthorized
	}

	return vr.Session, nil
}
