package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArchboxError_Error(t *testing.T) {
	tests := []struct {
		name    string
		err     *ArchboxError
		wantMsg string
	}{
		{
			name:    "without cause",
			err:     New(ExitGeneralError, "something went wrong"),
			wantMsg: "something went wrong",
		},
		{
			name:    "with cause",
			err:     Wrap(ExitGeneralError, "operation failed", fmt.Errorf("underlying error")),
			wantMsg: "operation failed: underlying error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMsg, tt.err.Error())
		})
	}
}

func TestArchboxError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("root cause")
	err := Wrap(ExitGeneralError, "wrapped", cause)

	assert.Equal(t, cause, err.Unwrap())
	assert.True(t, Is(err, cause))
	assert.Nil(t, New(ExitGeneralError, "no cause").Unwrap())
}

func TestConstructors(t *testing.T) {
	cause := fmt.Errorf("boom")

	tests := []struct {
		name     string
		err      *ArchboxError
		wantCode int
		wantMsg  string
	}{
		{"config", ConfigError("failed to load settings", cause), ExitConfigError, "failed to load settings: boom"},
		{"validation", ValidationError(cause), ExitValidation, "invalid settings: boom"},
		{"vagrant", VagrantError("up", cause), ExitVagrant, "vagrant up failed: boom"},
		{"plan not found", PlanNotFound("/work/app", cause), ExitPlanNotFound, "no plan recorded for /work/app: boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantCode, tt.err.ExitCode())
			assert.Equal(t, tt.wantMsg, tt.err.Error())
			assert.Equal(t, cause, tt.err.Cause)
		})
	}
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"ArchboxError", VagrantError("halt", nil), ExitVagrant},
		{"wrapped ArchboxError", fmt.Errorf("outer: %w", ValidationError(fmt.Errorf("bad port"))), ExitValidation},
		{"regular error", fmt.Errorf("some error"), ExitGeneralError},
		{"nil error", nil, ExitGeneralError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantCode, GetExitCode(tt.err))
		})
	}
}

func TestAs(t *testing.T) {
	err := fmt.Errorf("outer: %w", ConfigError("bad file", nil))

	var target *ArchboxError
	assert.True(t, As(err, &target))
	assert.Equal(t, ExitConfigError, target.Code)
}
