package scheduler

import "errors"

// NoSurrogates signals that no live peers were available at scheduling
// time. Not a fault — the caller is expected to fall back to local
// execution when it has local code for the task.
var NoSurrogates = errors.New("scheduler: no surrogates available")

// DoLocal signals that the local host won candidate scoring. Like
// NoSurrogates, this is control flow rather than a fault.
var DoLocal = errors.New("scheduler: local host selected")

// PeerGone is wrapped into a RemoteError when the winning peer
// disappeared from the context between scheduling and the RPC.
var PeerGone = errors.New("scheduler: peer no longer present")

// BadFormula failures surface the *formula.BadFormulaError produced by
// formula.Eval directly; callers distinguish the kind with errors.As.

// RemoteError wraps any failure from a PeerProxy call: connect,
// install, perform, or a peer vanishing mid-attempt.
type RemoteError struct {
	PeerName string
	Err      error
}

func (e *RemoteError) Error() string {
	return "scheduler: remote failure on " + e.PeerName + ": " + e.Err.Error()
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}
