package constant

import "errors"

// Sentinel errors services return so the HTTP error handler can map them
// to status codes without inspecting message text.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("conflict")
)
