package provision

import (
	"errors"
	"fmt"
)

var (
	ErrNoPrivateKeys       = errors.New("you have no private key(s) specified")
	ErrPrivateKeyNotFound  = errors.New("the path to your private key does not exist")
	ErrInvalidPort         = errors.New("port must be between 1 and 65535")
	ErrUnknownDatabaseKind = errors.New("no backup strategy for database kind")
)

// ValidationError reports a settings value rejected before any provisioning call is made.
type ValidationError struct {
	Field string // settings key, e.g. "privkeys[0]"
	Value string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("check your configuration file, %s (%s: %s)", e.Err, e.Field, e.Value)
	}
	return fmt.Sprintf("check your configuration file, %s (%s)", e.Err, e.Field)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
