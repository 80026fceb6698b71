package models

// SchedulerTag identifies which scheduler implementation a
// TaskDescriptor was built for. This core only implements "aprofile".
const SchedulerTag = "aprofile"

// TaskDescriptor is an invocation request: the task's identity, its
// input, optionally its code body, and the formulas the scheduler uses
// to estimate cost.
type TaskDescriptor struct {
	Name  string
	Input Input

	// Code is the source body of the task, present only the first time
	// a task visits a given peer.
	Code string

	// Store, if true, tells the surrogate to keep the output and
	// return only a handle rather than the bytes themselves.
	Store bool

	// OutputSize is either a constant byte count or a formula string in
	// #0..#n referencing positional Input elements. Exactly one of
	// OutputSizeValue/OutputSizeFormula is populated.
	OutputSizeValue   float64
	OutputSizeFormula string
	OutputSizeIsConst bool

	// ComplexityRelation is an optional formula string, same #i syntax,
	// yielding a scalar "input complexity" used to bucket profile
	// history. Empty means no relation was supplied.
	ComplexityRelation string

	// Complexity is populated by evaluating ComplexityRelation at
	// scheduling time. Nil until resolved.
	Complexity *float64

	// SchedulerTag names which scheduler this task targets.
	SchedulerTag string

	// TimeoutSeconds overrides the RPC layer's default timeout; zero means
	// "use the default".
	TimeoutSeconds float64
}

// NewTask builds a TaskDescriptor targeting the adaptive-profiling
// scheduler with a constant output size.
func NewTask(name string, input Input, outputSize float64) TaskDescriptor {
	return TaskDescriptor{
		Name:              name,
		Input:             input,
		OutputSizeValue:   outputSize,
		OutputSizeIsConst: true,
		SchedulerTag:      SchedulerTag,
	}
}

// WithCode attaches a source body, present only on first visit to a peer.
func (t TaskDescriptor) WithCode(code string) TaskDescriptor {
	t.Code = code
	return t
}

// WithStore marks the task's output as surrogate-retained.
func (t TaskDescriptor) WithStore(store bool) TaskDescriptor {
	t.Store = store
	return t
}

// WithOutputSizeFormula replaces the constant output size with a
// formula string relating output size to positional input.
func (t TaskDescriptor) WithOutputSizeFormula(formula string) TaskDescriptor {
	t.OutputSizeFormula = formula
	t.OutputSizeIsConst = false
	return t
}

// WithComplexityRelation attaches the formula used to derive input
// complexity for profile bucketing.
func (t TaskDescriptor) WithComplexityRelation(formula string) TaskDescriptor {
	t.ComplexityRelation = formula
	return t
}

// ComplexityOrZero returns the resolved complexity, or 0 if it has not
// been resolved yet (no ComplexityRelation was supplied, or Schedule
// has not run).
func (t TaskDescriptor) ComplexityOrZero() float64 {
	if t.Complexity == nil {
		return 0
	}
	return *t.Complexity
}
