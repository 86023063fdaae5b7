package quiz

import (
	"errors"
	"fmt"
)

// ErrSessionPaused rejects answer/skip/advance attempts while paused.
var ErrSessionPaused = errors.New("session is paused")

// ErrSnapshotNotFound is returned when resuming an id with no saved session.
var ErrSnapshotNotFound = errors.New("saved session not found")

// ErrCorruptSnapshot is returned when a saved session payload cannot be
// decoded back into a session.
var ErrCorruptSnapshot = errors.New("saved session is corrupt")

// TransitionError reports an action attempted from a state that does not
// permit it. The session is left unchanged; callers are expected to disable
// the corresponding controls rather than rely on the engine ignoring them.
type TransitionError struct {
	Action string
	State  string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s while session is %s", e.Action, e.State)
}
