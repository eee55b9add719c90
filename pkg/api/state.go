// Package api holds the JSON messages of the dashsync HTTP API
package api

import (
	"encoding/json"
	"time"
)

// SaveStateRequest тело PUT /api/v1/workspaces/{workspaceID}/state
type SaveStateRequest struct {
	Version    *int64          `json:"version"`              // обязательное поле, >= 0
	ModifiedAt *time.Time      `json:"modifiedAt,omitempty"` // время изменения на клиенте
	Checksum   string          `json:"checksum,omitempty"`   // сохраняется без проверки
	State      json.RawMessage `json:"state"`                // состояние дашборда
}

// StateResponse ответ GET /api/v1/workspaces/{workspaceID}/state
type StateResponse struct {
	LastModified time.Time       `json:"lastModified"`
	State        json.RawMessage `json:"state"`
	Version      int64           `json:"version"`
}

// SaveStateResponse ответ PUT /api/v1/workspaces/{workspaceID}/state
type SaveStateResponse struct {
	ConflictResolution string `json:"conflictResolution,omitempty"` // "server" или "client"
	ServerVersion      int64  `json:"serverVersion"`
	Success            bool   `json:"success"`
}

// DeleteStateResponse ответ DELETE /api/v1/workspaces/{workspaceID}/state
type DeleteStateResponse struct {
	Success bool `json:"success"`
}

// HealthResponse ответ GET /api/v1/health
type HealthResponse struct {
	Stats   map[string]int64 `json:"stats,omitempty"`
	Status  string           `json:"status"`
	Version string           `json:"version,omitempty"`
	Store   string           `json:"store"` // "up" или "down"
}

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Error   string `json:"error"`             // описание ошибки
	Message string `json:"message,omitempty"` // дополнительное сообщение
}
