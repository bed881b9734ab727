// Package vagrant drives the vagrant CLI for a rendered project directory.
package vagrant

import (
	"context"
	"errors"
)

// ErrVagrantNotFound is returned when no vagrant binary is available
var ErrVagrantNotFound = errors.New("vagrant executable not found in PATH")

// Manager runs machine lifecycle commands for one project directory
type Manager interface {
	Up(ctx context.Context, provision bool) error
	Halt(ctx context.Context) error
	Destroy(ctx context.Context, force bool) error
	Status(ctx context.Context) (string, error)
	Plugins(ctx context.Context) ([]string, error)
}

// StubManager is used when vagrant is not installed; it can still report no plugins
// so a plan can be rendered.
type StubManager struct{}

func NewStubManager() *StubManager {
	return &StubManager{}
}

func (m *StubManager) Up(ctx context.Context, provision bool) error {
	return ErrVagrantNotFound
}

func (m *StubManager) Halt(ctx context.Context) error {
	return ErrVagrantNotFound
}

func (m *StubManager) Destroy(ctx context.Context, force bool) error {
	return ErrVagrantNotFound
}

func (m *StubManager) Status(ctx context.Context) (string, error) {
	return "", ErrVagrantNotFound
}

func (m *StubManager) Plugins(ctx context.Context) ([]string, error) {
	return []string{}, nil
}
