package domain

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrValidation         = errors.New("validation failed")
	ErrLookupFailed       = errors.New("lookup failed")
	ErrWriteFailed        = errors.New("write failed")
	ErrStoreUnavailable   = errors.New("store unavailable")
	ErrDuplicateCategoria = errors.New("duplicate categoria")
)
