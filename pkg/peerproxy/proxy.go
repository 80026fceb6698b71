// Package peerproxy defines the RPC surface for talking to a
// surrogate, and a concrete HTTP-based implementation. This is the
// "external collaborator" the core scheduler depends on only through
// the Proxy interface, never this package's concrete transport.
package peerproxy

import (
	"context"
	"time"

	"github.com/cyberforage/aprofile-scavenger/pkg/models"
)

// Proxy is the set of operations required against a surrogate, adapted
// from pkg/colonyos/client.go's ColonyOSAPI interface shape (grouped,
// documented methods) to the scavenger domain's RPCs.
type Proxy interface {
	// HasTask reports whether the peer already has the named task
	// installed.
	HasTask(ctx context.Context, name string) (bool, error)
	// InstallTask uploads a task's source body to the peer.
	InstallTask(ctx context.Context, name, code string) error
	// PerformTask invokes a task on the peer and returns its result.
	// When profileMode is set the peer also returns the observed
	// complexity of this run.
	PerformTask(ctx context.Context, req PerformRequest) (PerformResult, error)
	// StoreData uploads bytes to the peer and returns a handle to them.
	StoreData(ctx context.Context, data []byte) (models.RemoteDataHandle, error)
	// FetchData downloads the bytes behind a handle.
	FetchData(ctx context.Context, handle models.RemoteDataHandle) ([]byte, error)
	// RetainData asks the peer to refresh a handle's staleness clock so
	// it is not reclaimed before the caller fetches it.
	RetainData(ctx context.Context, handle models.RemoteDataHandle) error
	// ExpireData tells the peer it may discard a handle's bytes early.
	ExpireData(ctx context.Context, handle models.RemoteDataHandle) error
	// Close releases the connection.
	Close() error
}

// PerformRequest is the wire shape of a performTask call.
type PerformRequest struct {
	TaskName    string
	Input       models.Input
	Timeout     time.Duration
	Store       bool
	ProfileMode bool
}

// PerformResult is the wire shape of a performTask response.
type PerformResult struct {
	Output             interface{}
	ObservedComplexity float64 // only meaningful when ProfileMode was set
}

// DefaultTimeout is the RPC layer's default timeout, overridable per
// task.
const DefaultTimeout = 600 * time.Second

// Dialer opens a Proxy to a peer's address. Consumed by the scheduler
// so it never needs to know the transport in use.
type Dialer interface {
	Dial(ctx context.Context, addr models.Address) (Proxy, error)
}
