// Package wizard implements the step-driven form flow shared by listing
// creation/editing and the guided search: a generic step sequencer and
// the draft-tolerant form aggregate with its image invariants.
package wizard

import "slices"

// StepID names one step of a wizard flow.
type StepID string

// Mode controls jump restrictions of a sequencer.
type Mode int

const (
	// ModeCreate only allows jumping back to already-visited steps, so
	// users cannot skip ahead of unfilled steps.
	ModeCreate Mode = iota
	// ModeEdit allows jumping to any step; every step already has content.
	ModeEdit
)

// Sequencer tracks position in an ordered, fixed list of steps.
//
// All transitions are defensive: Next at the last step, Previous at the
// first, and disallowed jumps are silent no-ops. The UI is expected to
// only offer valid targets, but misuse must never panic or corrupt the
// index.
//
// Reaching the last step never auto-submits; submission is a separate
// explicit action gated on IsLast by the caller.
type Sequencer struct {
	steps []StepID
	idx   int
	mode  Mode
}

// NewSequencer creates a sequencer positioned at the first step.
// The step list must be non-empty and is copied.
func NewSequencer(steps []StepID, mode Mode) *Sequencer {
	return &Sequencer{steps: slices.Clone(steps), mode: mode}
}

// Current returns the current step.
func (s *Sequencer) Current() StepID { return s.steps[s.idx] }

// Index returns the current step index.
func (s *Sequencer) Index() int { return s.idx }

// Steps returns a copy of the step list.
func (s *Sequencer) Steps() []StepID { return slices.Clone(s.steps) }

// IsFirst reports whether the sequencer is at the first step.
func (s *Sequencer) IsFirst() bool { return s.idx == 0 }

// IsLast reports whether the sequencer is at the last step.
func (s *Sequencer) IsLast() bool { return s.idx == len(s.steps)-1 }

// Next advances one step. No-op at the last step.
func (s *Sequencer) Next() {
	if !s.IsLast() {
		s.idx++
	}
}

// Previous moves back one step. No-op at the first step.
func (s *Sequencer) Previous() {
	if !s.IsFirst() {
		s.idx--
	}
}

// Skip advances without validating the current step's contents. Every
// step is optional, so Skip is exactly Next under a user-facing name.
func (s *Sequencer) Skip() { s.Next() }

// JumpTo moves directly to the named step. In create mode only
// already-visited steps (index below current) are reachable; in edit
// mode any step is. Unknown steps and disallowed targets are no-ops.
func (s *Sequencer) JumpTo(step StepID) {
	target := slices.Index(s.steps, step)
	if target < 0 {
		return
	}
	if s.mode == ModeEdit || target < s.idx {
		s.idx = target
	}
}

// Reset returns the sequencer to the first step.
func (s *Sequencer) Reset() { s.idx = 0 }
