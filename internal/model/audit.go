package model

import (
	"fmt"
	"time"
)

// AuditStep is one timed pipeline step in the trail.
type AuditStep struct {
	Name      string     `json:"name"`
	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
	Notes     []string   `json:"notes,omitempty"`
}

// AuditTrail is the request-scoped, append-only log of step timings and
// non-fatal errors. It never causes a pipeline abort; callers inspect Errors
// to distinguish degraded runs from clean ones.
type AuditTrail struct {
	RequestID string      `json:"request_id"`
	Steps     []AuditStep `json:"steps"`
	Errors    []string    `json:"errors"`
}

// StartStep appends a new step with the current time and returns its index.
func (t *AuditTrail) StartStep(name string) int {
	t.Steps = append(t.Steps, AuditStep{Name: name, StartedAt: time.Now().UTC()})
	return len(t.Steps) - 1
}

// EndStep closes the step at idx, recording its duration and any notes.
func (t *AuditTrail) EndStep(idx int, notes ...string) {
	if idx < 0 || idx >= len(t.Steps) {
		return
	}
	now := time.Now().UTC()
	step := &t.Steps[idx]
	step.EndedAt = &now
	step.Notes = append(step.Notes, notes...)
	step.Notes = append(step.Notes, fmt.Sprintf("duration=%s", now.Sub(step.StartedAt).Round(time.Millisecond)))
}

// AddError appends a non-fatal error string to the trail.
func (t *AuditTrail) AddError(stepName string, err error) {
	if err == nil {
		return
	}
	t.Errors = append(t.Errors, fmt.Sprintf("%s error: %s", stepName, err.Error()))
}
