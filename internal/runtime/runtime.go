// Package runtime is the scavenger's public entry point: a
// constructor-injected orchestrator, in the same "one orchestrator
// object" shape as Algorithm. Runtime wires PeerContext, both
// ProfileStores, the Scheduler, and the Dispatcher behind one Scavenge
// call that collapses every internal signal into a flat
// *ScavengerError.
package runtime

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/cyberforage/aprofile-scavenger/internal/config"
	"github.com/cyberforage/aprofile-scavenger/internal/decisionlog"
	"github.com/cyberforage/aprofile-scavenger/pkg/dispatch"
	"github.com/cyberforage/aprofile-scavenger/pkg/models"
	"github.com/cyberforage/aprofile-scavenger/pkg/peercontext"
	"github.com/cyberforage/aprofile-scavenger/pkg/peerproxy"
	"github.com/cyberforage/aprofile-scavenger/pkg/profile"
	"github.com/cyberforage/aprofile-scavenger/pkg/scheduler"
	"github.com/cyberforage/aprofile-scavenger/pkg/serializer"
)

// Runtime is the DI container a program builds once and shares across
// every Scavenge call.
type Runtime struct {
	cfg        config.Config
	peers      *peercontext.Context
	global     *profile.Store
	local      *profile.Store
	inFlight   *scheduler.InFlightCounter
	dialer     peerproxy.Dialer
	sched      *scheduler.Scheduler
	dispatcher *dispatch.Dispatcher
	decisions  *decisionlog.Store
}

// WithDecisionLog attaches a decisionlog.Store that every Scavenge
// call appends an audit row to. Optional: a Runtime with no store
// attached simply skips logging.
func (rt *Runtime) WithDecisionLog(store *decisionlog.Store) *Runtime {
	rt.decisions = store
	return rt
}

// New builds a Runtime. globalProfilePath/localProfilePath are the two
// profile store backing files; a missing file starts empty
// (profile.Load's StoreCorrupt recovery).
func New(cfg config.Config, peers *peercontext.Context, globalProfilePath, localProfilePath string, dialer peerproxy.Dialer) *Runtime {
	global := profile.Load(globalProfilePath)
	local := profile.Load(localProfilePath)
	inFlight := scheduler.NewInFlightCounter()

	rt := &Runtime{
		cfg:      cfg,
		peers:    peers,
		global:   global,
		local:    local,
		inFlight: inFlight,
		dialer:   dialer,
	}
	rt.sched = scheduler.New(peers, global, local, serializer.GobSerializer{}, dialer)
	rt.dispatcher = dispatch.New(cfg.CPUStrength, inFlight, global, local, rt.fetchHandle)
	return rt
}

// Scavenge runs one task invocation: it asks the Scheduler to place
// the task, runs it remotely on success, and falls back to localFunc
// when the scheduler signals NoSurrogates or DoLocal. If localFunc has
// no branch populated (the caller supplied no local fallback), a
// NoSurrogates/DoLocal signal becomes a user-facing ScavengerError
// instead, matching scavenger.py's "raise ScavengerException('No
// surrogates available.')" branch.
func (rt *Runtime) Scavenge(ctx context.Context, task models.TaskDescriptor, localFunc dispatch.LocalFunc) (interface{}, error) {
	params := scheduler.Params{
		LocalCPU:     rt.cfg.CPUStrength,
		LocalNet:     models.NetClass(rt.cfg.NetSpeed),
		InFlight:     rt.inFlight,
		PreferRemote: localFunc.IsZero(),
	}

	result, err := rt.sched.Schedule(ctx, &task, params)
	switch {
	case err == nil:
		rt.recordDecision(task, "remote", "")
		return result.Output, nil

	case errors.Is(err, scheduler.NoSurrogates), errors.Is(err, scheduler.DoLocal):
		if localFunc.IsZero() {
			rt.recordDecision(task, "no_surrogates", "")
			return nil, &ScavengerError{Op: "scavenge", Err: errors.New("no surrogates available")}
		}
		out, derr := rt.dispatcher.Invoke(ctx, &task, localFunc)
		if derr != nil {
			rt.recordDecision(task, "error", derr.Error())
			return nil, &ScavengerError{Op: "scavenge", Err: derr}
		}
		rt.recordDecision(task, "local", "")
		return out, nil

	default:
		rt.recordDecision(task, "error", err.Error())
		return nil, &ScavengerError{Op: "scavenge", Err: err}
	}
}

// recordDecision best-effort appends an audit row; a logging failure
// never fails the caller's invocation.
func (rt *Runtime) recordDecision(task models.TaskDescriptor, outcome, errMsg string) {
	if rt.decisions == nil {
		return
	}
	d := decisionlog.Decision{
		TaskName:   task.Name,
		Timestamp:  time.Now(),
		Complexity: task.ComplexityOrZero(),
		Outcome:    outcome,
		Err:        errMsg,
	}
	if err := rt.decisions.RecordDecision(d, nil); err != nil {
		log.Printf("decisionlog: failed to record decision for %s: %v", task.Name, err)
	}
}

// Shutdown flushes both profile stores to disk. Grounded on
// scavenger.py's Scavenger._shutdown, which saves lprofile/gprofile on
// the way out.
func (rt *Runtime) Shutdown() error {
	if err := rt.local.Save(); err != nil {
		return err
	}
	return rt.global.Save()
}

// Peers exposes the live surrogate directory for introspection (used
// by internal/api).
func (rt *Runtime) Peers() *peercontext.Context {
	return rt.peers
}

func (rt *Runtime) dial(ctx context.Context, peerName string) (peerproxy.Proxy, error) {
	addr, err := rt.peers.Resolve(peerName)
	if err != nil {
		return nil, &peerproxy.RemoteError{PeerName: peerName, Op: "resolve", Err: err}
	}
	proxy, err := rt.dialer.Dial(ctx, addr)
	if err != nil {
		return nil, &peerproxy.RemoteError{PeerName: peerName, Op: "dial", Err: err}
	}
	return proxy, nil
}

func (rt *Runtime) fetchHandle(ctx context.Context, handle models.RemoteDataHandle) ([]byte, error) {
	proxy, err := rt.dial(ctx, handle.ServerName)
	if err != nil {
		return nil, err
	}
	defer proxy.Close()
	data, err := proxy.FetchData(ctx, handle)
	if err != nil {
		return nil, &peerproxy.RemoteError{PeerName: handle.ServerName, Op: "fetch_data", Err: err}
	}
	return data, nil
}
