package graph

import (
	"errors"
	"fmt"
)

// Interrupt describes a single pause point raised by a node. ID is how a
// later Resume call targets this interrupt with a value; Node is the name of
// the node that raised it, filled in by the executor (a node doesn't know
// its own registered name); Reason is a human-readable description surfaced
// to the host; Payload carries whatever context the node wants the host to
// see before deciding how to resume.
type Interrupt struct {
	ID      string
	Node    string
	Reason  string
	Payload any
}

// Interrupted is the error a node returns to request a pause. The executor
// never treats it as a failure: it captures a Checkpoint naming the
// interrupted node and hands Interrupts back to the caller.
type Interrupted struct {
	Interrupts []Interrupt
}

func (e *Interrupted) Error() string {
	if len(e.Interrupts) == 1 {
		return fmt.Sprintf("interrupted: %s", e.Interrupts[0].Reason)
	}
	return fmt.Sprintf("interrupted: %d pending", len(e.Interrupts))
}

// NewInterrupt builds a single-interrupt *Interrupted for a node to return.
func NewInterrupt(id, reason string, payload any) *Interrupted {
	return &Interrupted{Interrupts: []Interrupt{{ID: id, Reason: reason, Payload: payload}}}
}

// asInterrupted extracts *Interrupted from err, if that's what it is.
func asInterrupted(err error) (*Interrupted, bool) {
	var in *Interrupted
	if errors.As(err, &in) {
		return in, true
	}
	return nil, false
}

// ResumeCommand supplies the value a paused node was waiting on. InterruptID
// selects which pending interrupt the value answers; when a checkpoint has
// exactly one pending interrupt, InterruptID may be left empty and the
// command is matched to it automatically.
type ResumeCommand struct {
	InterruptID string
	Value       any
}
