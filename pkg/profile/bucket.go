package profile

// Backlog is the bounded ring of recent measurements kept per bucket
// (or per 1-D ProfileItem).
const Backlog = 10

// Bucket holds up to Backlog observed complexities anchored at a given
// input-complexity key. Buckets are kept in a ProfileItem's slice,
// sorted ascending by Key.
type Bucket struct {
	Key     float64
	samples []float64
}

func newBucket(key float64) *Bucket {
	return &Bucket{Key: key, samples: make([]float64, 0, Backlog)}
}

// Register appends value to the bucket, evicting the oldest sample
// once the backlog is full.
func (b *Bucket) Register(value float64) {
	if len(b.samples) >= Backlog {
		b.samples = b.samples[1:]
	}
	b.samples = append(b.samples, value)
}

// Mean returns the arithmetic mean of the bucket's samples, or
// (0, false) if the bucket is empty.
func (b *Bucket) Mean() (float64, bool) {
	if len(b.samples) == 0 {
		return 0, false
	}
	var sum float64
	for _, v := range b.samples {
		sum += v
	}
	return sum / float64(len(b.samples)), true
}

// Len returns the number of samples currently held.
func (b *Bucket) Len() int {
	return len(b.samples)
}

// Samples returns a copy of the current backlog, oldest first.
func (b *Bucket) Samples() []float64 {
	out := make([]float64, len(b.samples))
	copy(out, b.samples)
	return out
}
