// Package serializer turns an arbitrary input/output value into a byte
// count the cost model can plug into its transfer-time formula.
package serializer

import (
	"bytes"
	"encoding/gob"

	"github.com/cyberforage/aprofile-scavenger/pkg/models"
)

// Serializer estimates the wire size of a value, in bytes, for use by
// the transfer-time cost formula. Implementations never need to
// actually transmit the value — only size it.
type Serializer interface {
	SizeOf(value interface{}) int64
}

// GobSerializer sizes a value by encoding it with encoding/gob and
// measuring the result. It is deliberately conservative: gob framing
// overhead means sizes run slightly larger than a minimal wire format
// would, matching the teacher's own habit of using a stdlib encoder
// rather than a custom byte counter.
type GobSerializer struct{}

// SizeOf returns the gob-encoded length of value, or 0 if value cannot
// be encoded (e.g. an unexported-field struct or a channel).
func (GobSerializer) SizeOf(value interface{}) int64 {
	if value == nil {
		return 0
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(value); err != nil {
		return 0
	}
	return int64(buf.Len())
}

// InputSize sums the size of every scalar/list/keyed value in an
// Input, skipping RemoteDataHandle entries — those are priced by
// costmodel.DataHandleCost instead, not by their own (tiny) handle
// struct size.
func InputSize(s Serializer, in models.Input) int64 {
	switch in.Kind {
	case models.InputScalar:
		if _, ok := in.Scalar.(models.RemoteDataHandle); ok {
			return 0
		}
		return s.SizeOf(in.Scalar)
	case models.InputList:
		var total int64
		for _, v := range in.List {
			if _, ok := v.(models.RemoteDataHandle); ok {
				continue
			}
			total += s.SizeOf(v)
		}
		return total
	case models.InputKeyed:
		var total int64
		for _, v := range in.Keyed {
			if _, ok := v.(models.RemoteDataHandle); ok {
				continue
			}
			total += s.SizeOf(v)
		}
		return total
	default:
		return 0
	}
}
