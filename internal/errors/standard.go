// Package errors provides standardized error messaging for Tessera.
package errors

import (
	"fmt"
	"runtime"
)

// ErrorCategory represents different categories of errors.
type ErrorCategory string

const (
	CategoryOverflow   ErrorCategory = "OVERFLOW"
	CategoryValidation ErrorCategory = "VALIDATION"
	CategoryCast       ErrorCategory = "CAST"
	CategorySystem     ErrorCategory = "SYSTEM"
)

// StandardError provides a consistent error format.
type StandardError struct {
	Category ErrorCategory
	Code     string
	Message  string
	Context  map[string]interface{}
	Caller   string
}

// Error implements the error interface.
func (e *StandardError) Error() string {
	return fmt.Sprintf("[%s:%s] %s (caller: %s)", e.Category, e.Code, e.Message, e.Caller)
}

// NewStandardError creates a new standardized error.
func NewStandardError(category ErrorCategory, code, message string, context map[string]interface{}) *StandardError {
	pc, _, _, ok := runtime.Caller(2)
	caller := "unknown"
	if ok {
		if fn := runtime.FuncForPC(pc); fn != nil {
			caller = fn.Name()
		}
	}

	return &StandardError{
		Category: category,
		Code:     code,
		Message:  message,
		Context:  context,
		Caller:   caller,
	}
}

// IsCode reports whether err is a StandardError carrying the given code.
func IsCode(err error, code string) bool {
	se, ok := err.(*StandardError)

	return ok && se.Code == code
}

// Error codes used by the type registry and the construction facade.
const (
	CodeTypeCodeExhausted    = "TYPE_CODE_EXHAUSTED"
	CodeIncompleteCapability = "INCOMPLETE_CAPABILITY"
	CodeInvalidLayout        = "INVALID_LAYOUT"
	CodeInvalidParameter     = "INVALID_PARAMETER"
	CodeCastUnsupported      = "CAST_UNSUPPORTED"
	CodeCastFailed           = "CAST_FAILED"
)

// Common error constructors.

// TypeCodeExhausted reports exhaustion of the monotonic type code counter.
func TypeCodeExhausted(next uint64) *StandardError {
	return NewStandardError(CategoryOverflow, CodeTypeCodeExhausted,
		fmt.Sprintf("Type code counter exhausted at %d (limited to 4 billion types)", next),
		map[string]interface{}{"next": next})
}

// IncompleteCapability reports a type variant finalized without a required
// capability implementation.
func IncompleteCapability(variant, capability string) *StandardError {
	return NewStandardError(CategoryValidation, CodeIncompleteCapability,
		fmt.Sprintf("Type variant %s is missing required capability %s", variant, capability),
		map[string]interface{}{"variant": variant, "capability": capability})
}

// InvalidLayout reports an unknown buffer memory layout tag.
func InvalidLayout(layout string) *StandardError {
	return NewStandardError(CategoryValidation, CodeInvalidLayout,
		fmt.Sprintf("Invalid buffer layout %q", layout),
		map[string]interface{}{"layout": layout})
}

// InvalidParameter reports a programmatically invalid constructor parameter.
func InvalidParameter(variant, detail string) *StandardError {
	return NewStandardError(CategoryValidation, CodeInvalidParameter,
		fmt.Sprintf("Invalid parameter for %s: %s", variant, detail),
		map[string]interface{}{"variant": variant, "detail": detail})
}

// CastUnsupported reports that a type variant implements no value caster.
func CastUnsupported(typeName string) *StandardError {
	return NewStandardError(CategoryCast, CodeCastUnsupported,
		fmt.Sprintf("Type %s does not support value casting", typeName),
		map[string]interface{}{"type": typeName})
}

// CastFailed reports a value that could not be converted to a type.
func CastFailed(typeName string, value interface{}, reason string) *StandardError {
	return NewStandardError(CategoryCast, CodeCastFailed,
		fmt.Sprintf("Cannot cast %v to %s: %s", value, typeName, reason),
		map[string]interface{}{"type": typeName, "value": value, "reason": reason})
}
