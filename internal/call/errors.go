package call

import (
	"errors"
	"fmt"
)

var (
	ErrRoomRequired     = errors.New("room id is required")
	ErrSignalingError   = errors.New("signaling relay error")
	ErrPeerDisconnected = errors.New("peer disconnected")
	ErrPeerUnreachable  = errors.New("peer unreachable")
	ErrUnexpectedSignal = errors.New("unexpected signal")
	ErrInvalidState     = errors.New("invalid call state")
	ErrNoVideoSender    = errors.New("no outgoing video sender")
	ErrSessionClosed    = errors.New("session closed")
)

// CallError wraps a failure with the operation that produced it.
type CallError struct {
	Op      string
	Err     error
	Details string
}

func (e *CallError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %v (%s)", e.Op, e.Err, e.Details)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *CallError) Unwrap() error {
	return e.Err
}

func NewError(op string, err error) *CallError {
	return &CallError{Op: op, Err: err}
}

func WrapError(op string, err error, details string) *CallError {
	return &CallError{Op: op, Err: err, Details: details}
}
