package catalog

import "errors"

// Sentinel kinds for catalog errors.
var (
	ErrInvalidDocument   = errors.New("invalid collections document")
	ErrUnknownCollection = errors.New("unknown collection")
)
