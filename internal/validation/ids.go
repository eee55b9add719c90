package validation

import (
	"fmt"
	"regexp"
)

// IDPattern определяет допустимый формат идентификаторов пользователя и workspace.
// Латинские буквы, цифры и символы _ . @ -
// Двоеточие запрещено: оно разделяет части ключа в хранилище
var IDPattern = regexp.MustCompile(`^[A-Za-z0-9_.@-]+$`)

// MaxIDLen максимальная длина идентификатора
const MaxIDLen = 128

// ValidateUserID проверяет идентификатор пользователя
func ValidateUserID(userID string) error {
	return validateID("user id", userID)
}

// ValidateWorkspaceID проверяет идентификатор workspace
func ValidateWorkspaceID(workspaceID string) error {
	return validateID("workspace id", workspaceID)
}

func validateID(kind, id string) error {
	if id == "" {
		return fmt.Errorf("%s cannot be empty", kind)
	}

	if len(id) > MaxIDLen {
		return fmt.Errorf("%s must not exceed %d characters", kind, MaxIDLen)
	}

	if !IDPattern.MatchString(id) {
		return fmt.Errorf("%s can only contain letters, numbers and the characters _ . @ -", kind)
	}

	return nil
}
