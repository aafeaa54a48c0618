package errors

import "errors"

var (
	ErrNotFound = errors.New("availability window not found")

	ErrDuplicate = errors.New("availability window already exists for provider and date")
)
