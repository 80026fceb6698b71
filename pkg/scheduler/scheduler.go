// Package scheduler implements the adaptive-profiling decision core:
// build a candidate set of executors for a task, score it with
// costmodel and the profile stores, pick the expected-fastest, and
// coordinate remote installation/invocation under concurrent callers.
// Structured the way decision_engine.go breaks MakeDecision into named
// steps (filter, score, select), but the scheduling lock is held only
// for candidate construction and registration, never across the RPC.
package scheduler

import (
	"context"
	"sync"

	"github.com/cyberforage/aprofile-scavenger/pkg/costmodel"
	"github.com/cyberforage/aprofile-scavenger/pkg/formula"
	"github.com/cyberforage/aprofile-scavenger/pkg/models"
	"github.com/cyberforage/aprofile-scavenger/pkg/peercontext"
	"github.com/cyberforage/aprofile-scavenger/pkg/peerproxy"
	"github.com/cyberforage/aprofile-scavenger/pkg/profile"
	"github.com/cyberforage/aprofile-scavenger/pkg/serializer"
)

// Scheduler is the decision core. One instance is shared by every
// caller; its scheduling lock is the sole point of serialization
// between concurrent schedule attempts.
type Scheduler struct {
	mu sync.Mutex

	peers      *peercontext.Context
	global     *profile.Store
	local      *profile.Store
	serializer serializer.Serializer
	dialer     peerproxy.Dialer
}

// New builds a Scheduler over the given collaborators. global and
// local are the two cost-history stores, keyed by task name and by
// (executor, task) respectively; dialer opens a peerproxy.Proxy to a
// chosen peer's address.
func New(peers *peercontext.Context, global, local *profile.Store, ser serializer.Serializer, dialer peerproxy.Dialer) *Scheduler {
	return &Scheduler{
		peers:      peers,
		global:     global,
		local:      local,
		serializer: ser,
		dialer:     dialer,
	}
}

// Params bundles the per-call inputs to Schedule.
type Params struct {
	LocalCPU     float64
	LocalNet     models.NetClass
	InFlight     *InFlightCounter
	PreferRemote bool
}

// Schedule runs the full decision algorithm for one invocation.
// Returns (result, nil) on a successful remote execution. Returns
// (nil, NoSurrogates) or (nil, DoLocal) when the caller should run the
// task locally — these are control-flow signals, not faults. Any
// other non-nil error is a genuine failure (BadFormula, RemoteError).
func (s *Scheduler) Schedule(ctx context.Context, task *models.TaskDescriptor, p Params) (*peerproxy.PerformResult, error) {
	if err := s.resolveComplexity(task); err != nil {
		return nil, err
	}

	winner, err := s.selectCandidate(task, p)
	if err != nil {
		return nil, err
	}
	if winner.IsLocal() {
		p.InFlight.Inc()
		return nil, DoLocal
	}

	return s.runRemote(ctx, task, winner)
}

// resolveComplexity evaluates task.ComplexityRelation against the
// task's list-shaped input.
func (s *Scheduler) resolveComplexity(task *models.TaskDescriptor) error {
	if task.ComplexityRelation == "" {
		return nil
	}
	resolve := func(i int) (float64, error) {
		v, ok := task.Input.At(i)
		if !ok {
			return 0, &formula.BadFormulaError{Formula: task.ComplexityRelation, Reason: "input reference out of range"}
		}
		return toFloat(v)
	}
	v, err := formula.Eval(task.ComplexityRelation, resolve)
	if err != nil {
		return err
	}
	task.Complexity = &v
	return nil
}

// selectCandidate takes the scheduling lock, builds and scores the
// candidate set, and returns the winner. The lock is released before
// this function returns; it is NOT held across the remote RPC.
func (s *Scheduler) selectCandidate(task *models.TaskDescriptor, p Params) (models.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	peers := s.peers.Snapshot()
	if len(peers) == 0 {
		p.InFlight.Inc()
		return models.Candidate{}, NoSurrogates
	}

	inputBytes := serializer.InputSize(s.serializer, task.Input) + int64(len(task.Code))
	outputBytes, err := s.resolveOutputSize(task)
	if err != nil {
		return models.Candidate{}, err
	}

	candidates := make([]models.Candidate, 0, len(peers)+1)
	if !p.PreferRemote {
		candidates = append(candidates, s.scoreLocal(task, p, peers))
	}
	for i := range peers {
		candidates = append(candidates, s.scoreRemote(task, &peers[i], p.LocalNet, inputBytes, outputBytes, peers))
	}

	models.SortCandidates(candidates)
	winner := candidates[0]

	// The winner's activity count is incremented here, still under the
	// scheduling lock, before the lock is released by the deferred
	// Unlock above.
	if !winner.IsLocal() {
		s.peers.IncActivity(winner.Peer.Name)
	}
	return winner, nil
}

func (s *Scheduler) resolveOutputSize(task *models.TaskDescriptor) (int64, error) {
	if task.Store {
		return 0, nil
	}
	if task.OutputSizeIsConst {
		return int64(task.OutputSizeValue), nil
	}
	resolve := func(i int) (float64, error) {
		v, ok := task.Input.At(i)
		if !ok {
			return 0, &formula.BadFormulaError{Formula: task.OutputSizeFormula, Reason: "input reference out of range"}
		}
		return toFloat(v)
	}
	v, err := formula.Eval(task.OutputSizeFormula, resolve)
	if err != nil {
		return 0, err
	}
	return int64(v), nil
}

// scoreLocal scores the local host as a candidate executor. Input and
// output are already resident locally, so only data-handle transfer
// cost applies.
func (s *Scheduler) scoreLocal(task *models.TaskDescriptor, p Params, peers []models.Peer) models.Candidate {
	expected := s.expectedComplexity("localhost", task)
	effCPU := costmodel.LocalEffectiveCPU(p.LocalCPU, p.InFlight.Value())
	exec := costmodel.ExecutionTime(expected, effCPU)

	var handleCosts []float64
	for _, h := range task.Input.DataHandles() {
		owner, ok := peerByName(peers, h.ServerName)
		if !ok {
			continue
		}
		handleCosts = append(handleCosts, costmodel.DataHandleCost(h, "", p.LocalNet, owner.NetClass))
	}
	transfer := costmodel.LocalTransferTime(handleCosts)

	return models.Candidate{TotalTime: exec + transfer, Peer: nil}
}

func (s *Scheduler) scoreRemote(task *models.TaskDescriptor, peer *models.Peer, localNet models.NetClass, inputBytes, outputBytes int64, peers []models.Peer) models.Candidate {
	expected := s.expectedComplexity(peer.Name, task)
	effCPU := costmodel.PeerEffectiveCPU(*peer)
	exec := costmodel.ExecutionTime(expected, effCPU)

	var handleCosts []float64
	for _, h := range task.Input.DataHandles() {
		owner, ok := peerByName(peers, h.ServerName)
		ownerNet := peer.NetClass
		if ok {
			ownerNet = owner.NetClass
		}
		handleCosts = append(handleCosts, costmodel.DataHandleCost(h, peer.Name, peer.NetClass, ownerNet))
	}
	transfer := costmodel.RemoteTransferTime(inputBytes, outputBytes, localNet, peer.NetClass, handleCosts)

	p := *peer
	return models.Candidate{TotalTime: exec + transfer, Peer: &p}
}

func (s *Scheduler) expectedComplexity(executor string, task *models.TaskDescriptor) float64 {
	globalDefault := s.global.GetComplexity(task.Name, profile.DefaultComplexity, task.Complexity)
	return s.local.GetComplexity(profile.LocalKey(executor, task.Name), globalDefault, task.Complexity)
}

func peerByName(peers []models.Peer, name string) (models.Peer, bool) {
	for _, p := range peers {
		if p.Name == name {
			return p, true
		}
	}
	return models.Peer{}, false
}

func toFloat(v interface{}) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	default:
		return 0, &formula.BadFormulaError{Formula: "", Reason: "input is not numeric"}
	}
}
