package profile

import (
	"errors"
	"math"
)

// DefaultComplexity is returned when a key is unknown, or a bucket
// exists but is empty.
const DefaultComplexity = 0.0

// Admission thresholds for splitting a 2-D ProfileItem into a new
// bucket: both the bucket's complexity and its anchor must vary more
// than these fractions from the incoming sample before a split occurs.
// Exactly-at-threshold keeps the sample in place — admission requires
// strictly greater variation on both axes.
const (
	ComplexityVariation = 0.20
	SizeVariation       = 0.01
)

// ErrModeMismatch is returned when a caller registers a 1-D
// measurement against a key that has already been used in 2-D mode, or
// vice versa: a ProfileItem's mode is fixed at first use and never
// switches back.
var ErrModeMismatch = errors.New("profile: key already registered in the other mode")

type itemMode int

const (
	modeUnset itemMode = iota
	mode1D
	mode2D
)

// Item is the histogram of observed complexities for one key: either a
// flat ring buffer (1-D mode) or a sorted list of anchored buckets
// (2-D mode). The mode is fixed by whichever kind of registration
// happens first.
type Item struct {
	mode    itemMode
	flat    *Bucket  // used in 1-D mode
	buckets []*Bucket // used in 2-D mode, sorted ascending by Key
}

func newItem() *Item {
	return &Item{}
}

// Register appends a measurement. inputComplexity == nil selects 1-D
// mode; a non-nil value selects 2-D mode and drives bucket selection.
func (it *Item) Register(value float64, inputComplexity *float64) error {
	if inputComplexity == nil {
		return it.registerFlat(value)
	}
	return it.registerBucketed(value, *inputComplexity)
}

func (it *Item) registerFlat(value float64) error {
	if it.mode == mode2D {
		return ErrModeMismatch
	}
	it.mode = mode1D
	if it.flat == nil {
		it.flat = newBucket(0)
	}
	it.flat.Register(value)
	return nil
}

func (it *Item) registerBucketed(value, inputComplexity float64) error {
	if it.mode == mode1D {
		return ErrModeMismatch
	}
	it.mode = mode2D

	if len(it.buckets) == 0 {
		b := newBucket(inputComplexity)
		b.Register(value)
		it.buckets = append(it.buckets, b)
		return nil
	}

	candidateIdx := closestTo(it.buckets, inputComplexity)
	candidate := it.buckets[candidateIdx]

	candidateMean, ok := candidate.Mean()
	var complexityVariation, sizeVariation float64
	if ok && candidateMean != 0 {
		complexityVariation = math.Abs((candidateMean - value) / candidateMean)
	} else {
		// Zero mean has no relative variation; force a split.
		complexityVariation = ComplexityVariation + 1
	}
	if candidate.Key != 0 {
		sizeVariation = math.Abs((candidate.Key - inputComplexity) / candidate.Key)
	} else {
		sizeVariation = SizeVariation + 1
	}

	if complexityVariation > ComplexityVariation && sizeVariation > SizeVariation {
		newB := newBucket(inputComplexity)
		newB.Register(value)
		insertAt := insertionIndex(it.buckets, candidateIdx, inputComplexity)
		it.buckets = append(it.buckets, nil)
		copy(it.buckets[insertAt+1:], it.buckets[insertAt:])
		it.buckets[insertAt] = newB
		return nil
	}

	candidate.Register(value)
	return nil
}

// GetComplexity returns the mean of the selected bucket (2-D) or the
// flat ring (1-D). Returns DefaultComplexity if the item/bucket has no
// samples yet.
func (it *Item) GetComplexity(inputComplexity *float64) float64 {
	if inputComplexity == nil {
		if it.flat == nil {
			return DefaultComplexity
		}
		mean, ok := it.flat.Mean()
		if !ok {
			return DefaultComplexity
		}
		return mean
	}
	if len(it.buckets) == 0 {
		return DefaultComplexity
	}
	idx := closestTo(it.buckets, *inputComplexity)
	mean, ok := it.buckets[idx].Mean()
	if !ok {
		return DefaultComplexity
	}
	return mean
}

// Buckets exposes the current 2-D bucket list for persistence. Empty
// in 1-D mode.
func (it *Item) Buckets() []*Bucket {
	return it.buckets
}

// Flat exposes the current 1-D ring for persistence. Nil in 2-D mode.
func (it *Item) Flat() *Bucket {
	return it.flat
}

// IsBucketed reports whether this item is in 2-D mode.
func (it *Item) IsBucketed() bool {
	return it.mode == mode2D
}
