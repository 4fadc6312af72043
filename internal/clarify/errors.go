package clarify

import "github.com/rotisserie/eris"

var (
	// ErrRequestNotFound means the referenced clarification request id is
	// unknown to the tracker.
	ErrRequestNotFound = eris.New("clarification request not found")

	// ErrRequestNotPending means the referenced request exists but is no
	// longer open for a response or cancellation.
	ErrRequestNotPending = eris.New("clarification request is not pending")
)
