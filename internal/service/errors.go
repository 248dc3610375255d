package service

import "errors"

// Sentinel errors shared by the services. Handlers map these onto HTTP
// statuses; everything else surfaces as an internal error.
var (
	// ErrInsufficientStock rejects an export whose quantity exceeds the
	// product's current stock. Nothing is persisted when it fires.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrNotFound covers missing referenced entities (product, customer,
	// agent, category, order, user).
	ErrNotFound = errors.New("not found")

	// ErrConflict covers uniqueness violations (duplicate code/username/email)
	ErrConflict = errors.New("already exists")

	// ErrInvalidTransition rejects order state changes that the lifecycle
	// does not allow (e.g. cancelling an already cancelled order).
	ErrInvalidTransition = errors.New("invalid state transition")
)
