package dispatch

import "github.com/cyberforage/aprofile-scavenger/pkg/models"

// LocalFunc is a user-supplied local fallback callable, shaped to
// match however the task's input arrives: a keyed mapping calls Keyed
// with named arguments, a list/tuple calls Positional, and a single
// value calls Scalar. Exactly one branch is invoked per call, selected
// by the task's Input.Kind; a caller only needs to populate the branch
// its callable actually expects.
type LocalFunc struct {
	Keyed      func(args map[string]interface{}) (interface{}, error)
	Positional func(args ...interface{}) (interface{}, error)
	Scalar     func(arg interface{}) (interface{}, error)
}

// unsupportedShapeError is returned when the task's Input.Kind has no
// corresponding branch populated on the LocalFunc.
type unsupportedShapeError struct {
	kind models.InputKind
}

func (e *unsupportedShapeError) Error() string {
	return "dispatch: local function has no branch for this input shape"
}

// IsZero reports whether no branch was populated, i.e. the caller
// supplied no local fallback code at all.
func (f LocalFunc) IsZero() bool {
	return f.Keyed == nil && f.Positional == nil && f.Scalar == nil
}

func (f LocalFunc) call(input models.Input) (interface{}, error) {
	switch input.Kind {
	case models.InputKeyed:
		if f.Keyed == nil {
			return nil, &unsupportedShapeError{kind: input.Kind}
		}
		return f.Keyed(input.Keyed)
	case models.InputList:
		if f.Positional == nil {
			return nil, &unsupportedShapeError{kind: input.Kind}
		}
		return f.Positional(input.List...)
	case models.InputScalar:
		if f.Scalar == nil {
			return nil, &unsupportedShapeError{kind: input.Kind}
		}
		return f.Scalar(input.Scalar)
	default:
		return nil, &unsupportedShapeError{kind: input.Kind}
	}
}
