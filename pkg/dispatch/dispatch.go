// Package dispatch runs a task's local fallback path: consumed by the
// caller when the scheduler can't place a task remotely, it resolves
// remote data handles, invokes the user's local callable with
// arguments shaped to the input form, and feeds the observed
// complexity back into both profile stores.
package dispatch

import (
	"context"
	"time"

	"github.com/cyberforage/aprofile-scavenger/pkg/models"
	"github.com/cyberforage/aprofile-scavenger/pkg/profile"
	"github.com/cyberforage/aprofile-scavenger/pkg/scheduler"
)

// Dispatcher runs a task's local fallback path.
type Dispatcher struct {
	cpuStrength float64
	inFlight    *scheduler.InFlightCounter
	global      *profile.Store
	local       *profile.Store
	resolve     HandleResolver
}

// New builds a Dispatcher over the shared InFlightCounter and profile
// stores the Scheduler also uses, plus a HandleResolver for fetching
// RemoteDataHandle bytes.
func New(cpuStrength float64, inFlight *scheduler.InFlightCounter, global, local *profile.Store, resolve HandleResolver) *Dispatcher {
	return &Dispatcher{
		cpuStrength: cpuStrength,
		inFlight:    inFlight,
		global:      global,
		local:       local,
		resolve:     resolve,
	}
}

// Invoke resolves task.Input's data handles, calls fn with arguments
// shaped to the input form, times the run, and, when fn succeeds,
// registers the observed complexity into both the global and local
// ("localhost") profile stores. inFlight is always decremented on exit, success or failure,
// and the decrement happens immediately once fn returns so the
// post-call activity count reflects this task having finished, not
// still being counted against itself.
func (d *Dispatcher) Invoke(ctx context.Context, task *models.TaskDescriptor, fn LocalFunc) (interface{}, error) {
	resolved, err := resolveHandles(ctx, d.resolve, task.Input)
	if err != nil {
		d.inFlight.Dec()
		return nil, err
	}

	a1 := d.inFlight.Value()
	start := time.Now()
	result, callErr := fn.call(resolved)
	elapsed := time.Since(start)
	d.inFlight.Dec()
	a2 := d.inFlight.Value() + 1

	activityLevel := float64(a1+a2) / 2
	if callErr == nil && activityLevel > 0 {
		observed := (elapsed.Seconds() * d.cpuStrength) / activityLevel
		d.global.Register(task.Name, observed, task.Complexity)
		d.local.Register(profile.LocalKey("localhost", task.Name), observed, task.Complexity)
	}

	return result, callErr
}
