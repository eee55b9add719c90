package handlers

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"golang.org/x/crypto/blake2b"

	"github.com/iudanet/dashsync/internal/models"
	"github.com/iudanet/dashsync/internal/statesync"
	"github.com/iudanet/dashsync/internal/validation"
	"github.com/iudanet/dashsync/pkg/api"
)

//go:generate moq -out state_service_mock.go . StateService

// MaxStateBodyBytes ограничение размера тела PUT запроса
const MaxStateBodyBytes = 1 << 20

// StateService определяет операции над состоянием дашборда
type StateService interface {
	SaveState(ctx context.Context, userID, workspaceID string, req statesync.SaveRequest) models.SaveOutcome
	GetState(ctx context.Context, userID, workspaceID string) *models.StateSnapshot
	DeleteState(ctx context.Context, userID, workspaceID string) models.DeleteOutcome
}

// StateHandler handles /api/v1/workspaces/{workspaceID}/state
type StateHandler struct {
	logger  *slog.Logger
	service StateService
}

// NewStateHandler creates a new state handler
func NewStateHandler(logger *slog.Logger, service StateService) *StateHandler {
	return &StateHandler{
		logger:  logger,
		service: service,
	}
}

// Get обрабатывает GET /api/v1/workspaces/{workspaceID}/state
// Отсутствие состояния и недоступность хранилища неразличимы: 404
func (h *StateHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, workspaceID, ok := h.identify(w, r)
	if !ok {
		return
	}

	snapshot := h.service.GetState(r.Context(), userID, workspaceID)
	if snapshot == nil {
		h.sendError(w, "state not found", http.StatusNotFound)
		return
	}

	etag := stateETag(snapshot.State)
	w.Header().Set("ETag", etag)
	if match := r.Header.Get("If-None-Match"); match != "" && match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	h.sendJSON(w, api.StateResponse{
		Version:      snapshot.Version,
		State:        snapshot.State,
		LastModified: snapshot.LastModified,
	}, http.StatusOK)
}

// Put обрабатывает PUT /api/v1/workspaces/{workspaceID}/state
// 200 - состояние сохранено, 409 - на сервере более новая версия,
// 503 - запись не выполнена (блокировка занята или хранилище недоступно)
func (h *StateHandler) Put(w http.ResponseWriter, r *http.Request) {
	userID, workspaceID, ok := h.identify(w, r)
	if !ok {
		return
	}

	req, err := decodeSaveRequest(w, r)
	if err != nil {
		h.logger.Warn("Invalid save request", "user_id", userID, "workspace_id", workspaceID, "error", err)
		h.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	outcome := h.service.SaveState(r.Context(), userID, workspaceID, req)

	status := http.StatusOK
	switch {
	case outcome.Success:
	case outcome.ConflictResolution == models.ResolutionServer:
		status = http.StatusConflict
	default:
		status = http.StatusServiceUnavailable
		w.Header().Set("Retry-After", "1")
	}

	h.sendJSON(w, api.SaveStateResponse{
		Success:            outcome.Success,
		ServerVersion:      outcome.ServerVersion,
		ConflictResolution: string(outcome.ConflictResolution),
	}, status)
}

// Delete обрабатывает DELETE /api/v1/workspaces/{workspaceID}/state
func (h *StateHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, workspaceID, ok := h.identify(w, r)
	if !ok {
		return
	}

	outcome := h.service.DeleteState(r.Context(), userID, workspaceID)
	h.sendJSON(w, api.DeleteStateResponse{Success: outcome.Success}, http.StatusOK)
}

// identify извлекает пользователя из контекста и workspace из пути
func (h *StateHandler) identify(w http.ResponseWriter, r *http.Request) (string, string, bool) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		h.logger.Error("User ID not found in context")
		h.sendError(w, "unauthorized", http.StatusUnauthorized)
		return "", "", false
	}
	// user_id из токена должен быть допустимой частью ключа
	if err := validation.ValidateUserID(userID); err != nil {
		h.logger.Warn("Token carries invalid user id", "error", err)
		h.sendError(w, "invalid user id in token", http.StatusUnauthorized)
		return "", "", false
	}

	workspaceID := r.PathValue("workspaceID")
	if err := validation.ValidateWorkspaceID(workspaceID); err != nil {
		h.sendError(w, err.Error(), http.StatusBadRequest)
		return "", "", false
	}

	return userID, workspaceID, true
}

func decodeSaveRequest(w http.ResponseWriter, r *http.Request) (statesync.SaveRequest, error) {
	var body api.SaveStateRequest

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxStateBodyBytes))
	if err := dec.Decode(&body); err != nil {
		return statesync.SaveRequest{}, fmt.Errorf("malformed request body: %w", err)
	}

	if body.Version == nil {
		return statesync.SaveRequest{}, errors.New("version is required")
	}
	if *body.Version < 0 {
		return statesync.SaveRequest{}, errors.New("version must not be negative")
	}
	if len(body.State) == 0 || string(body.State) == "null" {
		return statesync.SaveRequest{}, errors.New("state is required")
	}

	return statesync.SaveRequest{
		Version:    *body.Version,
		State:      body.State,
		Checksum:   body.Checksum,
		ModifiedAt: body.ModifiedAt,
	}, nil
}

// stateETag - BLAKE2b-256 от байтов состояния
func stateETag(state []byte) string {
	sum := blake2b.Sum256(state)
	return `"` + hex.EncodeToString(sum[:]) + `"`
}

// sendJSON отправляет JSON ответ
func (h *StateHandler) sendJSON(w http.ResponseWriter, data any, statusCode int) {
	writeJSON(h.logger, w, data, statusCode)
}

// sendError отправляет JSON ответ с ошибкой
func (h *StateHandler) sendError(w http.ResponseWriter, message string, statusCode int) {
	writeJSON(h.logger, w, api.ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	}, statusCode)
}

func writeJSON(logger *slog.Logger, w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", slog.Any("error", err))
	}
}
