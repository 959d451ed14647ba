package repository

import (
	"errors"
	"strings"
)

const (
	userTable = "user"
	noteTable = "note"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrNoteNotFound = errors.New("note not found")

	// ErrDuplicateKey surfaces a unique index violation as a typed conflict.
	ErrDuplicateKey = errors.New("duplicate key")
)

type countRow struct {
	Total int `json:"total"`
}

// isDuplicateIndex matches SurrealDB's unique index violation error.
func isDuplicateIndex(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "already contains") && strings.Contains(msg, "index")
}

// isNoResult matches the errors the client returns when selecting a record
// that does not exist.
func isNoResult(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "Expected a single or multiple results but got 0") ||
		strings.Contains(msg, "cannot unmarshal array into Go value")
}
