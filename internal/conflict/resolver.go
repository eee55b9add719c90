// Package conflict decides which side wins when a client writes a dashboard
// state over a stored one. Resolution is whole-document and version based.
package conflict

import (
	"time"

	"github.com/iudanet/dashsync/internal/models"
)

// Resolve сравнивает сохраненную запись с входящей версией.
//
// Правила:
//  1. Записи нет (или она повреждена и передана как nil) - ResolutionNone.
//  2. Больший Version выигрывает.
//  3. При равных версиях сервер выигрывает только если его LastModified
//     строго позже переданного времени клиента. Без времени клиента
//     выигрывает клиент.
func Resolve(existing *models.StoredStateRecord, incomingVersion int64, incomingModifiedAt *time.Time) models.Resolution {
	if existing == nil {
		return models.ResolutionNone
	}

	if existing.Version > incomingVersion {
		return models.ResolutionServer
	}
	if incomingVersion > existing.Version {
		return models.ResolutionClient
	}

	// Версии равны - сравниваем время изменения
	if incomingModifiedAt != nil && !existing.LastModified.IsZero() &&
		existing.LastModified.After(*incomingModifiedAt) {
		return models.ResolutionServer
	}

	return models.ResolutionClient
}

// External collapses ResolutionNone into ResolutionClient for callers that
// only distinguish "server wins" from "client wins".
func External(r models.Resolution) models.Resolution {
	if r == models.ResolutionServer {
		return models.ResolutionServer
	}
	return models.ResolutionClient
}
