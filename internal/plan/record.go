package plan

import (
	"time"

	"github.com/faize-ai/archbox/internal/provision"
	"github.com/google/uuid"
)

// Record statuses
const (
	StatusRendered  = "rendered"
	StatusRunning   = "running"
	StatusHalted    = "halted"
	StatusDestroyed = "destroyed"
)

// Record is one rendered plan together with what happened to the machine
type Record struct {
	ID           string          `json:"id"`
	ProjectDir   string          `json:"project_dir"`
	SettingsFile string          `json:"settings_file,omitempty"`
	Provider     string          `json:"provider"`
	Status       string          `json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
	StoppedAt    *time.Time      `json:"stopped_at,omitempty"`
	Plan         *provision.Plan `json:"plan"`
}

// NewRecord creates a record with a fresh id in the rendered state.
func NewRecord(projectDir, settingsFile string, p *provision.Plan) *Record {
	return &Record{
		ID:           uuid.NewString(),
		ProjectDir:   projectDir,
		SettingsFile: settingsFile,
		Provider:     p.DefaultProvider,
		Status:       StatusRendered,
		CreatedAt:    time.Now().UTC(),
		Plan:         p,
	}
}

// ShortID returns the first 8 characters of the id, as shown by ps.
func (r *Record) ShortID() string {
	if len(r.ID) > 8 {
		return r.ID[:8]
	}
	return r.ID
}

// Stopped reports whether the machine is no longer running.
func (r *Record) Stopped() bool {
	return r.Status == StatusHalted || r.Status == StatusDestroyed
}

// MarkStopped moves the record to a stopped status at now.
func (r *Record) MarkStopped(status string, now time.Time) {
	r.Status = status
	stopped := now.UTC()
	r.StoppedAt = &stopped
}
