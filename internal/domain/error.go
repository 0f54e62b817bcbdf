package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound              = errors.New("entity not found")
	ErrInvalidArgument       = errors.New("invalid argument")
	ErrAlreadyExists         = errors.New("entity already exists")
	ErrUserNotFound          = errors.New("user not found")
	ErrSignatureMismatch     = errors.New("payment signature mismatch")
	ErrConflictingActivation = errors.New("order already activated with a different payment")

	// Storage-layer errors. Repositories normalize driver failures into these
	// so use cases can classify failures without importing pgx.
	ErrOperationFailed    = errors.New("storage operation failed")
	ErrInvalidExecContext = errors.New("invalid query execution context")
	ErrReadDatabaseRow    = errors.New("failed to read database row")
)
