package staterng

import (
	"encoding/binary"
	"runtime"
	"sync"
	"sync/atomic"
)

// spinLock is a test-and-set lock for very short critical sections.
type spinLock struct {
	state atomic.Uint32
}

// Lock spins until the lock is acquired.
func (l *spinLock) Lock() {
	for !l.state.CompareAndSwap(0, 1) {
		runtime.Gosched()
	}
}

// Unlock releases the lock.
func (l *spinLock) Unlock() {
	l.state.Store(0)
}

var _ sync.Locker = (*spinLock)(nil)

// UniquenessAllocator hands out distinct 256-bit values used as generator
// headers. It is safe for concurrent use.
type UniquenessAllocator struct {
	lock    spinLock
	counter [4]uint64 // little-endian word order
}

var defaultUniqueness UniquenessAllocator

// DefaultUniqueness returns the process-wide allocator used by New. It
// starts at zero when the process starts.
func DefaultUniqueness() *UniquenessAllocator {
	return &defaultUniqueness
}

// NewUniquenessAllocator returns an isolated allocator starting at zero.
// Generators drawing headers from different allocators may collide.
func NewUniquenessAllocator() *UniquenessAllocator {
	return &UniquenessAllocator{}
}

// newUniquenessAllocatorAt returns an isolated allocator whose first
// Allocate call returns start.
func newUniquenessAllocatorAt(start [4]uint64) *UniquenessAllocator {
	return &UniquenessAllocator{counter: start}
}

// Allocate returns the current counter value and increments the counter
// as an unsigned 256-bit integer.
func (u *UniquenessAllocator) Allocate() [4]uint64 {
	u.lock.Lock()
	value := u.counter
	wrapped := increment256(&u.counter)
	u.lock.Unlock()

	if wrapped {
		logger().Warn().Msg("uniqueness counter wrapped")
	}
	return value
}

// increment256 adds one with ripple carry and reports a full wrap to zero.
func increment256(c *[4]uint64) bool {
	for i := range c {
		c[i]++
		if c[i] != 0 {
			return false
		}
	}
	return true
}

// putHeader writes the four header words little-endian.
func putHeader(dst []byte, header [4]uint64) {
	for i, w := range header {
		binary.LittleEndian.PutUint64(dst[i*8:], w)
	}
}

// Header returns the 256-bit uniqueness header of g.
func (g *Generator) Header() [4]uint64 {
	var header [4]uint64
	if !g.IsValid() {
		return header
	}
	for i := range header {
		header[i] = binary.LittleEndian.Uint64(g.state[i*8:])
	}
	return header
}
