package audio

import (
	"sync/atomic"
)

// DefaultRingCapacity is the sample capacity used when none is configured
const DefaultRingCapacity = 32768

const maxRingCapacity = 1 << 30

// Ring is a fixed-capacity SPSC sample queue
// Indices grow monotonically and wrap at 2^32; occupancy is write-read
// Producer side: Push, FreeSpace. Consumer side: Pop and the mixer
type Ring struct {
	buf  []float32
	mask uint32

	write atomic.Uint32 // Published by the producer after samples are stored
	read  atomic.Uint32 // Published by the consumer after samples are consumed

	dropped atomic.Uint64
}

// NewRing allocates a ring rounded up to a power of two
func NewRing(capacity int) *Ring {
	if capacity <= 0 {
		capacity = DefaultRingCapacity
	}
	capacity = ceilPow2(capacity)
	return &Ring{
		buf:  make([]float32, capacity),
		mask: uint32(capacity - 1),
	}
}

// ceilPow2 rounds n up to the next power of two, capped at maxRingCapacity
func ceilPow2(n int) int {
	if n >= maxRingCapacity {
		return maxRingCapacity
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// Cap returns the capacity in samples
func (r *Ring) Cap() int { return len(r.buf) }

// Len returns the number of unread samples
func (r *Ring) Len() int {
	return int(r.write.Load() - r.read.Load())
}

// FreeSpace returns how many samples Push can accept without dropping
func (r *Ring) FreeSpace() int {
	return len(r.buf) - r.Len()
}

// Push appends samples and returns how many were stored
// Samples beyond the free space are dropped; never blocks
func (r *Ring) Push(samples []float32) int {
	w := r.write.Load()
	free := uint32(len(r.buf)) - (w - r.read.Load())

	n := len(samples)
	if uint64(n) > uint64(free) {
		r.dropped.Add(uint64(n) - uint64(free))
		n = int(free)
	}
	for i := 0; i < n; i++ {
		r.buf[(w+uint32(i))&r.mask] = samples[i]
	}

	// Atomic store orders the sample writes above before the new index
	r.write.Store(w + uint32(n))
	return n
}

// Pop drains up to len(dst) samples in FIFO order
func (r *Ring) Pop(dst []float32) int {
	rd := r.read.Load()
	avail := r.write.Load() - rd

	n := len(dst)
	if uint64(n) > uint64(avail) {
		n = int(avail)
	}
	for i := 0; i < n; i++ {
		dst[i] = r.buf[(rd+uint32(i))&r.mask]
	}
	r.read.Store(rd + uint32(n))
	return n
}

// Dropped returns the total count of samples rejected by Push
func (r *Ring) Dropped() uint64 {
	return r.dropped.Load()
}
