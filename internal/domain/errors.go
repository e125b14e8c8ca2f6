package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound             = errors.New("not found")
	ErrValidation           = errors.New("validation failed")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrConfirmationRequired = errors.New("delete requires confirmation")
	ErrGateway              = errors.New("gateway error")
)

// ValidationError is caught before any network call; Is(ErrValidation) holds.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func Invalid(field, msg string) error { return &ValidationError{Field: field, Msg: msg} }

// GatewayError wraps a failure returned by the data store or object storage.
type GatewayError struct {
	Op  string
	Err error
}

func (e *GatewayError) Error() string        { return e.Op + ": " + e.Err.Error() }
func (e *GatewayError) Unwrap() error        { return e.Err }
func (e *GatewayError) Is(target error) bool { return target == ErrGateway }

func Gateway(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) {
		return err
	}
	return &GatewayError{Op: op, Err: err}
}
