package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// DefaultNamespace префикс ключей состояния в хранилище
const DefaultNamespace = "dashboard-state"

// Resolution результат сравнения сохраненной записи с входящей версией
type Resolution string

const (
	// ResolutionNone - сохраненной записи нет, входящая запись принимается
	ResolutionNone Resolution = "none"
	// ResolutionServer - сохраненная запись новее, входящая отклоняется
	ResolutionServer Resolution = "server"
	// ResolutionClient - входящая запись новее (или равна), она перезаписывает сохраненную
	ResolutionClient Resolution = "client"
)

// ErrCorruptedRecord indicates that stored bytes are not a valid StoredStateRecord
var ErrCorruptedRecord = errors.New("corrupted state record")

// StateKey identifies the dashboard state of one user in one workspace.
type StateKey struct {
	namespace   string
	userID      string
	workspaceID string
}

// NewStateKey builds a key in the given namespace.
// An empty namespace falls back to DefaultNamespace.
func NewStateKey(namespace, userID, workspaceID string) StateKey {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return StateKey{
		namespace:   namespace,
		userID:      userID,
		workspaceID: workspaceID,
	}
}

// UserID returns the owner of the state.
func (k StateKey) UserID() string { return k.userID }

// WorkspaceID returns the workspace the state belongs to.
func (k StateKey) WorkspaceID() string { return k.workspaceID }

// String encodes the key as <namespace>:<userID>:<workspaceID>.
func (k StateKey) String() string {
	return k.namespace + ":" + k.userID + ":" + k.workspaceID
}

// LockKey returns the store key of the per-state write lock.
func (k StateKey) LockKey() string {
	return k.String() + ":lock"
}

// StoredStateRecord представляет сохраненное состояние дашборда.
// Version монотонно не убывает между успешными записями.
type StoredStateRecord struct {
	LastModified time.Time       `json:"lastModified"`       // время записи, установившей Version
	Checksum     string          `json:"checksum,omitempty"` // клиентский тег целостности, не проверяется
	State        json.RawMessage `json:"state"`              // непрозрачные данные клиента
	Version      int64           `json:"version"`            // версия записи
}

// Validate checks structural invariants of a decoded record.
func (r *StoredStateRecord) Validate() error {
	if r.Version < 0 {
		return fmt.Errorf("%w: negative version %d", ErrCorruptedRecord, r.Version)
	}
	if len(r.State) == 0 {
		return fmt.Errorf("%w: missing state", ErrCorruptedRecord)
	}
	return nil
}

// Snapshot projects the record to what Get returns: the checksum is dropped.
func (r *StoredStateRecord) Snapshot() *StateSnapshot {
	state := make(json.RawMessage, len(r.State))
	copy(state, r.State)

	return &StateSnapshot{
		Version:      r.Version,
		State:        state,
		LastModified: r.LastModified,
	}
}

// Encode serializes the record for the store.
func (r *StoredStateRecord) Encode() ([]byte, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal state record: %w", err)
	}
	return data, nil
}

// DecodeRecord parses stored bytes into a record.
// Any failure is reported as ErrCorruptedRecord.
func DecodeRecord(data []byte) (*StoredStateRecord, error) {
	var record StoredStateRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptedRecord, err)
	}
	if err := record.Validate(); err != nil {
		return nil, err
	}
	return &record, nil
}

// ParseOrNone runs parse over data and turns every failure into the absent
// value. The failure is handed to onCorrupt (if set) so callers can log or
// count it. Nil data is absent without calling onCorrupt.
func ParseOrNone[T any](data []byte, parse func([]byte) (*T, error), onCorrupt func(error)) *T {
	if data == nil {
		return nil
	}
	value, err := parse(data)
	if err != nil {
		if onCorrupt != nil {
			onCorrupt(err)
		}
		return nil
	}
	return value
}

// StateSnapshot is the public projection of a stored record.
type StateSnapshot struct {
	LastModified time.Time       `json:"lastModified"`
	State        json.RawMessage `json:"state"`
	Version      int64           `json:"version"`
}

// SaveOutcome describes the result of a save. It is never persisted.
// ConflictResolution is set only when an existing record was compared.
type SaveOutcome struct {
	ConflictResolution Resolution `json:"conflictResolution,omitempty"`
	ServerVersion      int64      `json:"serverVersion"`
	Success            bool       `json:"success"`
}

// DeleteOutcome describes the result of a delete.
type DeleteOutcome struct {
	Success bool `json:"success"`
}
