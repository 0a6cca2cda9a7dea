package models

import "errors"

// Domain errors. Repositories translate driver errors into these and the
// HTTP layer translates them into status codes, so no layer in between
// needs to know about pgx or HTTP.
var (
	// ErrNotFound: the identifier is absent from the store, or the record
	// belongs to a different owner. Maps to 404 Not Found either way so
	// card existence is never leaked across owners.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate: a uniqueness constraint was hit (username, email).
	// Maps to 409 Conflict.
	ErrDuplicate = errors.New("already exists")

	// ErrInvalidCredentials: login failed. Maps to 401 Unauthorized with
	// a deliberately vague message.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
