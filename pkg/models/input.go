package models

// InputKind discriminates the shape of a TaskDescriptor's input, which
// in turn determines how the dispatcher shapes the arguments it passes
// to a local callable.
type InputKind int

const (
	// InputScalar is a single positional value.
	InputScalar InputKind = iota
	// InputList is an ordered, positional sequence.
	InputList
	// InputKeyed is a mapping from parameter name to value.
	InputKeyed
)

// Input is a TaskDescriptor's input payload. Exactly one of the three
// representations is populated, selected by Kind.
type Input struct {
	Kind   InputKind
	Scalar interface{}
	List   []interface{}
	Keyed  map[string]interface{}
}

// NewScalarInput wraps a single value as task input.
func NewScalarInput(v interface{}) Input {
	return Input{Kind: InputScalar, Scalar: v}
}

// NewListInput wraps an ordered sequence as task input.
func NewListInput(v []interface{}) Input {
	return Input{Kind: InputList, List: v}
}

// NewKeyedInput wraps a named mapping as task input.
func NewKeyedInput(v map[string]interface{}) Input {
	return Input{Kind: InputKeyed, Keyed: v}
}

// At returns the i'th positional element. Only valid for InputList;
// used when substituting #i references in a formula.
func (in Input) At(i int) (interface{}, bool) {
	if in.Kind != InputList || i < 0 || i >= len(in.List) {
		return nil, false
	}
	return in.List[i], true
}

// DataHandles returns every RemoteDataHandle embedded in the input,
// regardless of shape, in encounter order.
func (in Input) DataHandles() []RemoteDataHandle {
	var out []RemoteDataHandle
	switch in.Kind {
	case InputKeyed:
		for _, v := range in.Keyed {
			if h, ok := v.(RemoteDataHandle); ok {
				out = append(out, h)
			}
		}
	case InputList:
		for _, v := range in.List {
			if h, ok := v.(RemoteDataHandle); ok {
				out = append(out, h)
			}
		}
	case InputScalar:
		if h, ok := in.Scalar.(RemoteDataHandle); ok {
			out = append(out, h)
		}
	}
	return out
}

// RemoteDataHandle is a reference to bytes already resident on a
// surrogate. The scheduler never materializes it, only reasons about
// transfer cost.
type RemoteDataHandle struct {
	ServerName string `json:"server_name"`
	Size       int64  `json:"size"`
	HandleID   string `json:"handle_id"`
}
