// Package sync implements the client-side engine that keeps a local
// view of the order backend fresh: a month-scoped cache, an advisory
// sequential counter, a polling loop with offline detection, and the
// form aggregation used to build order payloads.
package sync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	orderapp "github.com/ircomercio/ordens/internal/application/order"
	partnerapp "github.com/ircomercio/ordens/internal/application/partner"
	"github.com/ircomercio/ordens/internal/domain/shared"
)

// ErrSessionExpired signals that the backend rejected the stored
// session token. The token has already been cleared when this surfaces.
var ErrSessionExpired = shared.NewDomainError("SESSION_EXPIRED", "Session expired, sign in again")

// SessionTokenHeader carries the opaque portal token on every API call
const SessionTokenHeader = "X-Session-Token"

// TokenStore holds the opaque session token shared by all API calls
type TokenStore struct {
	mu    sync.RWMutex
	token string
}

// NewTokenStore creates an empty token store
func NewTokenStore() *TokenStore {
	return &TokenStore{}
}

// Set replaces the stored token
func (s *TokenStore) Set(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

// Get returns the stored token, empty when signed out
func (s *TokenStore) Get() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Clear drops the stored token
func (s *TokenStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
}

// Client is a typed client for the order backend API. Every call is
// bounded by the configured timeout; a 401 from any endpoint clears the
// stored token and surfaces ErrSessionExpired.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     *TokenStore
	logger     *zap.Logger
}

// NewClient creates an API client
func NewClient(baseURL string, timeout time.Duration, tokens *TokenStore, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		tokens:     tokens,
		logger:     logger,
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.tokens.Get(); token != "" {
		req.Header.Set(SessionTokenHeader, token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("backend unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		c.tokens.Clear()
		return ErrSessionExpired
	}

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	if resp.StatusCode >= 400 || !env.Success {
		if env.Error != nil {
			return shared.NewDomainError(env.Error.Code, env.Error.Message)
		}
		return fmt.Errorf("backend answered status %d", resp.StatusCode)
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode response data: %w", err)
		}
	}
	return nil
}

// Health probes the public liveness endpoint
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("backend unreachable: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health answered status %d", resp.StatusCode)
	}
	return nil
}

// ListOrders fetches one calendar month. The wire month is zero based.
func (c *Client) ListOrders(ctx context.Context, month time.Month, year int) ([]orderapp.OrderResponse, error) {
	var out []orderapp.OrderResponse
	path := fmt.Sprintf("/api/ordens?mes=%d&ano=%d", int(month)-1, year)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// LastNumber fetches the highest sequential number ever issued
func (c *Client) LastNumber(ctx context.Context) (int, error) {
	var out orderapp.LastNumberResponse
	if err := c.do(ctx, http.MethodGet, "/api/ordens/ultimo-numero", nil, &out); err != nil {
		return 0, err
	}
	return out.UltimoNumero, nil
}

// CreateOrder persists a new order
func (c *Client) CreateOrder(ctx context.Context, req *orderapp.OrderRequest) (*orderapp.OrderResponse, error) {
	var out orderapp.OrderResponse
	if err := c.do(ctx, http.MethodPost, "/api/ordens", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateOrder replaces an existing order
func (c *Client) UpdateOrder(ctx context.Context, id string, req *orderapp.OrderRequest) (*orderapp.OrderResponse, error) {
	var out orderapp.OrderResponse
	if err := c.do(ctx, http.MethodPut, "/api/ordens/"+id, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ToggleStatus asks the backend to flip an order's status
func (c *Client) ToggleStatus(ctx context.Context, id, status string) (*orderapp.OrderResponse, error) {
	var out orderapp.OrderResponse
	body := orderapp.StatusRequest{Status: status}
	if err := c.do(ctx, http.MethodPatch, "/api/ordens/"+id+"/status", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteOrder removes an order
func (c *Client) DeleteOrder(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/ordens/"+id, nil, nil)
}

// ListSuppliers fetches the supplier catalog
func (c *Client) ListSuppliers(ctx context.Context) ([]partnerapp.SupplierResponse, error) {
	var out []partnerapp.SupplierResponse
	if err := c.do(ctx, http.MethodGet, "/api/fornecedores", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
