package tennis

import (
	"errors"
	"fmt"
)

var (
	ErrScore        = errors.New("invalid score")
	ErrNotFound     = errors.New("not found")
	ErrPrecondition = errors.New("precondition failed")
	ErrState        = errors.New("invalid tournament state")
)

// ScoreError reports a score that failed to parse or is not a legal result.
type ScoreError struct {
	Raw    string
	Format Format
	Reason string
}

func (e *ScoreError) Error() string {
	return fmt.Sprintf("invalid score %q for %s format: %s", e.Raw, e.Format, e.Reason)
}

func (e *ScoreError) Unwrap() error { return ErrScore }

// NotFoundError reports a group, stage or fixture that does not exist.
type NotFoundError struct {
	Stage   string
	Player1 string
	Player2 string
}

func (e *NotFoundError) Error() string {
	if e.Player1 == "" && e.Player2 == "" {
		return fmt.Sprintf("%s not found", e.Stage)
	}
	return fmt.Sprintf("%s: no match %s vs %s", e.Stage, e.Player1, e.Player2)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// PreconditionError reports an operation requested too early.
type PreconditionError struct {
	Op     string
	Reason string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

func (e *PreconditionError) Unwrap() error { return ErrPrecondition }

// StateError reports a playoff result for a fixture that does not exist yet.
type StateError struct {
	Stage  string
	Reason string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s: %s", e.Stage, e.Reason)
}

func (e *StateError) Unwrap() error { return ErrState }
