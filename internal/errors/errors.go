// Package errors provides custom error types for strategy validation,
// transformation and backend calls.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Standard sentinel errors
var (
	ErrInvalidStrategy     = errors.New("invalid strategy")
	ErrProductTypeConflict = errors.New("product type not allowed for trading type")
	ErrPayloadSchema       = errors.New("payload does not match backend schema")
	ErrStrategyNotFound    = errors.New("strategy not found")
	ErrBackendUnavailable  = errors.New("backend unavailable")
	ErrNotAuthenticated    = errors.New("not authenticated")
	ErrConfigInvalid       = errors.New("invalid configuration")
	ErrInputValidation     = errors.New("input validation failed")
)

// MISNotAllowedMessage is the reason reported when MIS is combined with a
// positional or overnight strategy.
const MISNotAllowedMessage = "MIS product type is only allowed for INTRADAY trading with SAME_DAY exit mode."

// ProductTypeValidationError is raised by the transformer when the product
// type is not allowed for the strategy's trading type and exit mode.
type ProductTypeValidationError struct {
	ProductType      string
	TradingType      string
	IntradayExitMode string
	Reason           string
}

func (e *ProductTypeValidationError) Error() string {
	return fmt.Sprintf("product type validation failed: %s", e.Reason)
}

// Is matches ErrProductTypeConflict.
func (e *ProductTypeValidationError) Is(target error) bool {
	return target == ErrProductTypeConflict
}

// NewProductTypeValidationError creates a new ProductTypeValidationError.
func NewProductTypeValidationError(productType, tradingType, exitMode, reason string) *ProductTypeValidationError {
	return &ProductTypeValidationError{
		ProductType:      productType,
		TradingType:      tradingType,
		IntradayExitMode: exitMode,
		Reason:           reason,
	}
}

// StrategyValidationError aggregates every blocking validation error of a
// strategy.
type StrategyValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *StrategyValidationError) Error() string {
	return "Validation failed: " + strings.Join(e.Errors, ", ")
}

// Is matches ErrInvalidStrategy.
func (e *StrategyValidationError) Is(target error) bool {
	return target == ErrInvalidStrategy
}

// NewStrategyValidationError creates a new StrategyValidationError.
func NewStrategyValidationError(errs, warnings []string) *StrategyValidationError {
	return &StrategyValidationError{
		Errors:   errs,
		Warnings: warnings,
	}
}

// ValidationError represents a single field validation error.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s (%v): %s", e.Field, e.Value, e.Message)
}

// Is matches ErrInputValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInputValidation
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// APIError represents a failed call to the strategy backend.
type APIError struct {
	Method     string
	Endpoint   string
	StatusCode int
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("api error [%s %s] %d: %s: %v", e.Method, e.Endpoint, e.StatusCode, e.Message, e.Err)
	}
	return fmt.Sprintf("api error [%s %s] %d: %s", e.Method, e.Endpoint, e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// NewAPIError creates a new APIError.
func NewAPIError(method, endpoint string, statusCode int, message string, err error) *APIError {
	return &APIError{
		Method:     method,
		Endpoint:   endpoint,
		StatusCode: statusCode,
		Message:    message,
		Err:        err,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
