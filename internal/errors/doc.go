// Package errors provides typed errors with exit codes for archbox.
//
// ArchboxError wraps an error with an exit code:
//
//	type ArchboxError struct {
//	    Code    int    // Exit code
//	    Message string // User-facing message
//	    Cause   error  // Wrapped error
//	}
//
// Exit codes:
//
//	ExitSuccess      = 0  // Success
//	ExitGeneralError = 1  // General/unknown errors
//	ExitConfigError  = 2  // Settings file could not be loaded
//	ExitValidation   = 3  // Settings rejected before provisioning
//	ExitVagrant      = 4  // vagrant missing or failed
//	ExitPlanNotFound = 5  // No recorded plan matches
//
// Use GetExitCode to extract the exit code from an error chain:
//
//	if err != nil {
//	    os.Exit(errors.GetExitCode(err))
//	}
package errors
