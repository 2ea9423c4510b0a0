package domain

import "errors"

var (
	ErrValidation          = errors.New("validation failed")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrUnknownProcessor    = errors.New("unknown processor")
	ErrInvalidState        = errors.New("invalid transaction state")
	ErrProcessor           = errors.New("processor failure")
	ErrTransport           = errors.New("transport failure")
	ErrDuplicateID         = errors.New("duplicate transaction id")
)
