package service

import "errors"

// Engine error taxonomy. All operations fail synchronously with one of these
// (possibly wrapped); nothing is retried internally.
var (
	ErrInvalidAmount       = errors.New("quantity must be positive")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrUnknownTarget       = errors.New("transfer target missing, inactive, or same as source")
	ErrNotFound            = errors.New("not found")
	ErrAlreadyDecided      = errors.New("request already decided")
)
