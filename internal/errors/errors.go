package errors

import (
	"errors"
	"fmt"
)

// Exit codes for archbox
const (
	ExitSuccess      = 0
	ExitGeneralError = 1
	ExitConfigError  = 2
	ExitValidation   = 3
	ExitVagrant      = 4
	ExitPlanNotFound = 5
)

// ArchboxError is the base error type for archbox commands
type ArchboxError struct {
	Code    int
	Message string
	Cause   error
}

func (e *ArchboxError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ArchboxError) Unwrap() error {
	return e.Cause
}

// ExitCode returns the exit code for this error
func (e *ArchboxError) ExitCode() int {
	return e.Code
}

// New creates a new ArchboxError
func New(code int, message string) *ArchboxError {
	return &ArchboxError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with an ArchboxError
func Wrap(code int, message string, cause error) *ArchboxError {
	return &ArchboxError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// ConfigError returns an error for settings that could not be loaded
func ConfigError(message string, cause error) *ArchboxError {
	return Wrap(ExitConfigError, message, cause)
}

// ValidationError returns an error for settings rejected before provisioning
func ValidationError(cause error) *ArchboxError {
	return Wrap(ExitValidation, "invalid settings", cause)
}

// VagrantError returns an error for vagrant invocations
func VagrantError(op string, cause error) *ArchboxError {
	return Wrap(ExitVagrant, fmt.Sprintf("vagrant %s failed", op), cause)
}

// PlanNotFound returns an error for a missing plan record
func PlanNotFound(ref string, cause error) *ArchboxError {
	return Wrap(ExitPlanNotFound, fmt.Sprintf("no plan recorded for %s", ref), cause)
}

// GetExitCode extracts the exit code from an error
func GetExitCode(err error) int {
	var archboxErr *ArchboxError
	if errors.As(err, &archboxErr) {
		return archboxErr.ExitCode()
	}
	return ExitGeneralError
}

// Is checks if an error is of a specific type
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target any) bool {
	return errors.As(err, target)
}
