// Package peercontext maintains the in-memory directory of known
// surrogates: staleness, activity accounting, and the deep-copied
// snapshots the scheduler scores candidates against.
package peercontext

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/cyberforage/aprofile-scavenger/pkg/models"
)

// Staleness is how long a peer may go unseen before it is considered
// gone.
const Staleness = 5 * time.Second

// CleanupAt is the directory size above which Upsert opportunistically
// sweeps stale entries.
const CleanupAt = 100

// ErrNotFound is returned by Get/Resolve for an unknown or stale peer
// name.
var ErrNotFound = errors.New("peercontext: no such peer")

// Context is the live surrogate directory. All operations are
// serialized under a single mutex (a plain Mutex, not an RWMutex:
// every operation here mutates something, even reads that
// opportunistically evict).
type Context struct {
	mu    sync.Mutex
	peers map[string]models.Peer
	now   func() time.Time
}

// New creates an empty peer directory.
func New() *Context {
	return &Context{peers: make(map[string]models.Peer), now: time.Now}
}

// Upsert inserts or overwrites a peer record by name. If the directory
// exceeds CleanupAt afterward, stale entries are swept out.
func (c *Context) Upsert(p models.Peer) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.peers[p.Name] = p
	if len(c.peers) > CleanupAt {
		c.sweepLocked()
	}
}

func (c *Context) sweepLocked() {
	now := c.now()
	for name, p := range c.peers {
		if now.Sub(p.LastSeen) > Staleness {
			delete(c.peers, name)
		}
	}
}

// Get returns a copy of the named peer, evicting it first if stale.
func (c *Context) Get(name string) (models.Peer, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.peers[name]
	if !ok {
		return models.Peer{}, ErrNotFound
	}
	if c.now().Sub(p.LastSeen) > Staleness {
		delete(c.peers, name)
		return models.Peer{}, ErrNotFound
	}
	return p.Clone(), nil
}

// Snapshot returns deep copies of every non-stale peer, evicting stale
// ones in the process. Candidate scoring reasons about this stable
// view even as announcements continue to mutate the live directory.
func (c *Context) Snapshot() []models.Peer {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	out := make([]models.Peer, 0, len(c.peers))
	for name, p := range c.peers {
		if now.Sub(p.LastSeen) > Staleness {
			delete(c.peers, name)
			continue
		}
		out = append(out, p.Clone())
	}
	// Map iteration order is random; sort by name so the scheduler's
	// "peers in snapshot order" tie-break is reproducible.
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Has reports whether name is a currently known, non-stale peer.
func (c *Context) Has(name string) bool {
	_, err := c.Get(name)
	return err == nil
}

// Resolve returns the RPC address of a known peer.
func (c *Context) Resolve(name string) (models.Address, error) {
	p, err := c.Get(name)
	if err != nil {
		return models.Address{}, err
	}
	return p.Address, nil
}

// IncActivity increments the named peer's in-flight task count.
// A no-op if the peer is unknown (it may have gone stale mid-flight).
func (c *Context) IncActivity(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if p, ok := c.peers[name]; ok {
		p.ActiveTasks++
		c.peers[name] = p
	}
}

// DecActivity decrements the named peer's in-flight task count,
// clamped at 0.
func (c *Context) DecActivity(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if p, ok := c.peers[name]; ok {
		if p.ActiveTasks > 0 {
			p.ActiveTasks--
		}
		c.peers[name] = p
	}
}
