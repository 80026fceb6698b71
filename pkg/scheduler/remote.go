package scheduler

import (
	"context"
	"time"

	"github.com/cyberforage/aprofile-scavenger/pkg/models"
	"github.com/cyberforage/aprofile-scavenger/pkg/peerproxy"
	"github.com/cyberforage/aprofile-scavenger/pkg/profile"
)

// runRemote carries out a remote execution once a winner has been
// chosen and its activity count already incremented: dial the peer,
// install the task if needed, perform it in profiling mode, register
// the observation into both profile stores under the scheduling lock
// (re-acquired after the RPC), and always decrement
// activity and close the proxy on the way out.
func (s *Scheduler) runRemote(ctx context.Context, task *models.TaskDescriptor, winner models.Candidate) (*peerproxy.PerformResult, error) {
	peerName := winner.Peer.Name

	defer s.peers.DecActivity(peerName)

	addr, err := s.peers.Resolve(peerName)
	if err != nil {
		return nil, &RemoteError{PeerName: peerName, Err: PeerGone}
	}

	proxy, err := s.dialer.Dial(ctx, addr)
	if err != nil {
		return nil, &RemoteError{PeerName: peerName, Err: err}
	}
	defer proxy.Close()

	has, err := proxy.HasTask(ctx, task.Name)
	if err != nil {
		return nil, &RemoteError{PeerName: peerName, Err: err}
	}
	if !has {
		if err := proxy.InstallTask(ctx, task.Name, task.Code); err != nil {
			return nil, &RemoteError{PeerName: peerName, Err: err}
		}
	}

	timeout := peerproxy.DefaultTimeout
	if task.TimeoutSeconds > 0 {
		timeout = time.Duration(task.TimeoutSeconds * float64(time.Second))
	}
	result, err := proxy.PerformTask(ctx, peerproxy.PerformRequest{
		TaskName:    task.Name,
		Input:       task.Input,
		Timeout:     timeout,
		Store:       task.Store,
		ProfileMode: true,
	})
	if err != nil {
		return nil, &RemoteError{PeerName: peerName, Err: err}
	}

	s.mu.Lock()
	s.global.Register(task.Name, result.ObservedComplexity, task.Complexity)
	s.local.Register(profile.LocalKey(peerName, task.Name), result.ObservedComplexity, task.Complexity)
	s.mu.Unlock()

	return &result, nil
}
