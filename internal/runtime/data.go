package runtime

import (
	"context"

	"github.com/cyberforage/aprofile-scavenger/pkg/models"
	"github.com/cyberforage/aprofile-scavenger/pkg/peerproxy"
)

// StoreData pushes data to peerName and returns a handle to it, the
// producer side of the RemoteDataHandle the cost model already reasons
// about. Grounded on scavenger.py's Scavenger.store_data.
func (rt *Runtime) StoreData(ctx context.Context, peerName string, data []byte) (models.RemoteDataHandle, error) {
	proxy, err := rt.dial(ctx, peerName)
	if err != nil {
		return models.RemoteDataHandle{}, err
	}
	defer proxy.Close()

	handle, err := proxy.StoreData(ctx, data)
	if err != nil {
		return models.RemoteDataHandle{}, &peerproxy.RemoteError{PeerName: peerName, Op: "store_data", Err: err}
	}
	return handle, nil
}

// RetainData asks a handle's owning peer to refresh its staleness
// clock, keeping the bytes alive past their normal eviction window.
// Grounded on scavenger.py's Scavenger.retain_data.
func (rt *Runtime) RetainData(ctx context.Context, handle models.RemoteDataHandle) error {
	proxy, err := rt.dial(ctx, handle.ServerName)
	if err != nil {
		return err
	}
	defer proxy.Close()

	if err := proxy.RetainData(ctx, handle); err != nil {
		return &peerproxy.RemoteError{PeerName: handle.ServerName, Op: "retain_data", Err: err}
	}
	return nil
}

// ExpireData tells a handle's owning peer it may discard the bytes
// early. Grounded on scavenger.py's Scavenger.expire_data.
func (rt *Runtime) ExpireData(ctx context.Context, handle models.RemoteDataHandle) error {
	proxy, err := rt.dial(ctx, handle.ServerName)
	if err != nil {
		return err
	}
	defer proxy.Close()

	if err := proxy.ExpireData(ctx, handle); err != nil {
		return &peerproxy.RemoteError{PeerName: handle.ServerName, Op: "expire_data", Err: err}
	}
	return nil
}
