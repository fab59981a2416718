package app

import (
	"time"

	"leadtrack/internal/lead"
)

// Operation tracks one CLI invocation. Its ID tags every log line the
// invocation writes.
type Operation struct {
	ID      string
	Name    string
	Started time.Time
	Status  string // "success" or "error"
}

// NewOperation creates an operation named name. The ID is the start time
// in UTC followed by the first block of a generated ID.
func NewOperation(name string, clock lead.Clock, ids lead.IDGenerator) *Operation {
	now := clock.Now()
	id := ids.New()
	if len(id) > 8 {
		id = id[:8]
	}
	return &Operation{
		ID:      now.UTC().Format("20060102T150405Z") + "-" + id,
		Name:    name,
		Started: now,
		Status:  "success",
	}
}

// Fail marks the operation as failed when err is non-nil and returns err.
func (op *Operation) Fail(err error) error {
	if err != nil {
		op.Status = "error"
	}
	return err
}

// Succeeded reports whether no step of the operation failed.
func (op *Operation) Succeeded() bool {
	return op.Status == "success"
}
