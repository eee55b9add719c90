// Package api is the HTTP client of the dashsync API
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/iudanet/dashsync/pkg/api"
)

// DefaultTimeout таймаут одного HTTP запроса
const DefaultTimeout = 30 * time.Second

// ErrNotFound возвращается, когда у сервера нет состояния для workspace
var ErrNotFound = errors.New("state not found")

// Client представляет HTTP клиент для взаимодействия с сервером
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// NewClient создает новый API клиент; token передается как Bearer
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
}

// SaveResult is the server answer to a save
type SaveResult struct {
	api.SaveStateResponse
	StatusCode int
}

// GetState получает состояние workspace. ErrNotFound если его нет
func (c *Client) GetState(ctx context.Context, workspaceID string) (*api.StateResponse, error) {
	var resp api.StateResponse
	status, err := c.doRequest(ctx, http.MethodGet, statePath(workspaceID), nil, &resp)
	if status == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get state request failed: %w", err)
	}
	return &resp, nil
}

// SaveState отправляет состояние workspace.
// Конфликт (409) и несохраненная запись (503) не являются ошибкой:
// ответ сервера возвращается в SaveResult.
func (c *Client) SaveState(ctx context.Context, workspaceID string, req api.SaveStateRequest) (*SaveResult, error) {
	var resp api.SaveStateResponse
	status, err := c.doRequest(ctx, http.MethodPut, statePath(workspaceID), req, &resp,
		http.StatusConflict, http.StatusServiceUnavailable)
	if err != nil {
		return nil, fmt.Errorf("save state request failed: %w", err)
	}
	return &SaveResult{SaveStateResponse: resp, StatusCode: status}, nil
}

// DeleteState удаляет состояние workspace
func (c *Client) DeleteState(ctx context.Context, workspaceID string) (*api.DeleteStateResponse, error) {
	var resp api.DeleteStateResponse
	if _, err := c.doRequest(ctx, http.MethodDelete, statePath(workspaceID), nil, &resp); err != nil {
		return nil, fmt.Errorf("delete state request failed: %w", err)
	}
	return &resp, nil
}

// Health запрашивает состояние сервера
func (c *Client) Health(ctx context.Context) (*api.HealthResponse, error) {
	var resp api.HealthResponse
	if _, err := c.doRequest(ctx, http.MethodGet, "/api/v1/health", nil, &resp); err != nil {
		return nil, fmt.Errorf("health request failed: %w", err)
	}
	return &resp, nil
}

func statePath(workspaceID string) string {
	return "/api/v1/workspaces/" + url.PathEscape(workspaceID) + "/state"
}

// doRequest выполняет HTTP запрос. Ответы 2xx и перечисленные в accept
// декодируются в result; остальные превращаются в ошибку.
func (c *Client) doRequest(ctx context.Context, method, path string, body, result any, accept ...int) (int, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("failed to read response body: %w", err)
	}

	ok := resp.StatusCode >= 200 && resp.StatusCode < 300
	for _, code := range accept {
		ok = ok || resp.StatusCode == code
	}
	if !ok {
		var errResp api.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error != "" {
			return resp.StatusCode, fmt.Errorf("server error (%d): %s", resp.StatusCode, errResp.Message)
		}
		return resp.StatusCode, fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return resp.StatusCode, nil
}
