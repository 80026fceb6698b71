package scheduler

import "sync"

// InFlightCounter tracks the number of tasks currently executing on
// the local host. The cost model divides local CPU strength by
// Value()+1 to reflect contention from concurrently running tasks.
type InFlightCounter struct {
	mu    sync.Mutex
	value int
}

func NewInFlightCounter() *InFlightCounter {
	return &InFlightCounter{}
}

func (c *InFlightCounter) Inc() {
	c.mu.Lock()
	c.value++
	c.mu.Unlock()
}

// Dec decrements, clamped at 0.
func (c *InFlightCounter) Dec() {
	c.mu.Lock()
	if c.value > 0 {
		c.value--
	}
	c.mu.Unlock()
}

func (c *InFlightCounter) Value() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}
