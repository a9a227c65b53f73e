package types

import (
	"errors"
	"fmt"
)

// ErrorCode represents a namespaced error code for kstar errors.
type ErrorCode string

// Configuration error codes
const (
	CONFIG_LOAD_FAILED       ErrorCode = "CONFIG_LOAD_FAILED"
	CONFIG_PARSE_FAILED      ErrorCode = "CONFIG_PARSE_FAILED"
	CONFIG_VALIDATION_FAILED ErrorCode = "CONFIG_VALIDATION_FAILED"
)

// Task error codes
const (
	TASK_LOAD_FAILED       ErrorCode = "TASK_LOAD_FAILED"
	TASK_PARSE_FAILED      ErrorCode = "TASK_PARSE_FAILED"
	TASK_INVALID           ErrorCode = "TASK_INVALID"
	TASK_FACT_OUT_OF_RANGE ErrorCode = "TASK_FACT_OUT_OF_RANGE"
)

// Landmark heuristic error codes. The three LM_*_UNSUPPORTED codes are the
// fatal construction-time rejections of the admissible configuration; each
// illegal combination gets its own code so callers can tell them apart.
const (
	LM_REASONABLE_ORDERS_UNSUPPORTED   ErrorCode = "LM_REASONABLE_ORDERS_UNSUPPORTED"
	LM_AXIOMS_UNSUPPORTED              ErrorCode = "LM_AXIOMS_UNSUPPORTED"
	LM_CONDITIONAL_EFFECTS_UNSUPPORTED ErrorCode = "LM_CONDITIONAL_EFFECTS_UNSUPPORTED"
	LM_NEGATIVE_HEURISTIC              ErrorCode = "LM_NEGATIVE_HEURISTIC"
	LM_GRAPH_INVALID                   ErrorCode = "LM_GRAPH_INVALID"
)

// Cost-partitioning error codes
const (
	COST_LP_SOLVER_MISSING ErrorCode = "COST_LP_SOLVER_MISSING"
	COST_LP_SOLVE_FAILED   ErrorCode = "COST_LP_SOLVE_FAILED"
)

// Search error codes
const (
	SEARCH_EXPANSION_LIMIT ErrorCode = "SEARCH_EXPANSION_LIMIT"
	SEARCH_UNSOLVABLE      ErrorCode = "SEARCH_UNSOLVABLE"
)

// KstarError represents a structured error with error code, message, and
// optional cause. It supports error wrapping and errors.Is comparison by code.
type KstarError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// Error implements the error interface, returning a formatted error message.
// Format: "[CODE] message" or "[CODE] message: cause" if cause exists.
func (e *KstarError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error for error unwrapping chains.
func (e *KstarError) Unwrap() error {
	return e.Cause
}

// Is checks if the target error matches this error by error code.
// Returns true if target is a KstarError with the same Code.
func (e *KstarError) Is(target error) bool {
	var kerr *KstarError
	if errors.As(target, &kerr) {
		return e.Code == kerr.Code
	}
	return false
}

// NewError creates a new KstarError with the given code and message.
func NewError(code ErrorCode, message string) *KstarError {
	return &KstarError{
		Code:    code,
		Message: message,
	}
}

// NewErrorf creates a new KstarError with a formatted message.
func NewErrorf(code ErrorCode, format string, args ...any) *KstarError {
	return &KstarError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// WrapError wraps an existing error with a code and message.
func WrapError(code ErrorCode, message string, cause error) *KstarError {
	return &KstarError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// IsCode reports whether err carries the given error code anywhere in its chain.
func IsCode(err error, code ErrorCode) bool {
	var kerr *KstarError
	if errors.As(err, &kerr) {
		return kerr.Code == code
	}
	return false
}
