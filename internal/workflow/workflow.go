// Package workflow tracks the review lifecycle of an uploaded statement.
// A run moves strictly forward through upload, categorize, review and
// confirmed; the only backward move is a full reset to upload.
package workflow

import (
	"fmt"
	"time"
)

type State string

const (
	StateUpload     State = "upload"
	StateCategorize State = "categorize"
	StateReview     State = "review"
	StateConfirmed  State = "confirmed"
)

// transitions maps each state to the single state that may follow it.
var transitions = map[State]State{
	StateUpload:     StateCategorize,
	StateCategorize: StateReview,
	StateReview:     StateConfirmed,
}

// Run is the workflow instance for one statement upload.
type Run struct {
	ID        string    `json:"id"`
	State     State     `json:"state"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func NewRun(id string) *Run {
	return &Run{
		ID:        id,
		State:     StateUpload,
		UpdatedAt: time.Now(),
	}
}

// Advance moves the run to the next state in the lifecycle. Advancing a
// confirmed run is an error.
func (r *Run) Advance() error {
	next, ok := transitions[r.State]
	if !ok {
		return fmt.Errorf("Advance: run %s is %s and cannot advance", r.ID, r.State)
	}
	r.State = next
	r.UpdatedAt = time.Now()
	return nil
}

// AdvanceTo moves the run to target, which must be the immediate next state.
func (r *Run) AdvanceTo(target State) error {
	next, ok := transitions[r.State]
	if !ok || next != target {
		return fmt.Errorf("AdvanceTo: run %s cannot move from %s to %s", r.ID, r.State, target)
	}
	r.State = target
	r.UpdatedAt = time.Now()
	return nil
}

// Reset returns the run to the upload state from any state.
func (r *Run) Reset() {
	r.State = StateUpload
	r.UpdatedAt = time.Now()
}

// Terminal reports whether the run has reached its final state.
func (r *Run) Terminal() bool {
	return r.State == StateConfirmed
}
