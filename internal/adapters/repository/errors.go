package repository

import "errors"

// Sentinel kinds for storage errors.
var (
	ErrIncrement = errors.New("increment rating failed")
	ErrInsert    = errors.New("insert catalog entries failed")
	ErrQuery     = errors.New("ratings query failed")
	ErrBadValue  = errors.New("rating value out of range")
)
