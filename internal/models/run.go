package models

import (
	"fmt"
	"time"
)

// RunStatus is the outcome of an indexing run.
type RunStatus string

const (
	RunRunning   RunStatus = "running"
	RunSucceeded RunStatus = "succeeded" // no warnings, no errors
	RunCompleted RunStatus = "completed" // finished with warnings or errors
	RunFailed    RunStatus = "failed"    // aborted by a fatal error
)

// Run is the persisted record of one indexing run.
type Run struct {
	id         string
	sequence   int
	IndexPath  string
	OutputRoot string
	Status     RunStatus
	Songs      int
	Copied     int
	Bytes      int64
	Warnings   int
	Errors     int
	Message    string
	StartedAt  time.Time
	FinishedAt *time.Time
	createdAt  time.Time
	updatedAt  time.Time
	deletedAt  *time.Time
}

// NewRun creates a running [Run] started now.
func NewRun(indexPath, outputRoot string) *Run {
	now := time.Now()
	return &Run{
		IndexPath:  indexPath,
		OutputRoot: outputRoot,
		Status:     RunRunning,
		StartedAt:  now,
		createdAt:  now,
		updatedAt:  now,
	}
}

// RestoreRun rebuilds a [Run] from stored columns.
func RestoreRun(id string, sequence int, createdAt, updatedAt time.Time, deletedAt *time.Time) *Run {
	return &Run{id: id, sequence: sequence, createdAt: createdAt, updatedAt: updatedAt, deletedAt: deletedAt}
}

func (r *Run) ID() string               { return r.id }
func (r *Run) SetID(id string)          { r.id = id }
func (r *Run) Sequence() int            { return r.sequence }
func (r *Run) SetSequence(seq int)      { r.sequence = seq }
func (r *Run) CreatedAt() time.Time     { return r.createdAt }
func (r *Run) UpdatedAt() time.Time     { return r.updatedAt }
func (r *Run) SetUpdatedAt(t time.Time) { r.updatedAt = t }
func (r *Run) DeletedAt() *time.Time    { return r.deletedAt }
func (r *Run) IsDeleted() bool          { return r.deletedAt != nil }
func (r *Run) Finished() bool           { return r.FinishedAt != nil }

// Duration is the run's wall time so far.
func (r *Run) Duration() time.Duration {
	if r.FinishedAt != nil {
		return r.FinishedAt.Sub(r.StartedAt)
	}
	return time.Since(r.StartedAt)
}

// Finish stamps the run with its outcome.
func (r *Run) Finish(status RunStatus, message string) {
	now := time.Now()
	r.Status = status
	r.Message = message
	r.FinishedAt = &now
	r.updatedAt = now
}

// Validate implements [Model].
func (r *Run) Validate() error {
	if r.IndexPath == "" {
		return fmt.Errorf("index path is required")
	}
	if r.OutputRoot == "" {
		return fmt.Errorf("output root is required")
	}
	switch r.Status {
	case RunRunning, RunSucceeded, RunCompleted, RunFailed:
	default:
		return fmt.Errorf("unknown run status %q", r.Status)
	}
	if r.Warnings < 0 || r.Errors < 0 || r.Copied < 0 || r.Songs < 0 {
		return fmt.Errorf("counters must not be negative")
	}
	return nil
}

// EventLevel distinguishes warnings from errors.
type EventLevel string

const (
	LevelWarning EventLevel = "warning"
	LevelError   EventLevel = "error"
)

// RunEvent is a warning or error recorded during a run.
type RunEvent struct {
	Level   EventLevel `json:"level"`
	Song    string     `json:"song,omitempty"`
	Part    string     `json:"part,omitempty"`
	Message string     `json:"message"`
}
