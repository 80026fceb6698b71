package peerproxy

import "fmt"

// RemoteError wraps a failure that occurred talking to a surrogate.
// Callers distinguish it from other failure kinds via errors.As.
type RemoteError struct {
	PeerName string
	Op       string
	Err      error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("peerproxy: %s on %s: %v", e.Op, e.PeerName, e.Err)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}
