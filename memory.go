package staterng

import (
	"fmt"
	"math/bits"
	"sync"
)

// Allocator provides the memory behind generator buffers. Every call may
// fail; a failed Reallocate leaves buf untouched and still owned by the
// caller.
type Allocator interface {
	// Allocate returns a zeroed buffer of exactly n bytes.
	Allocate(n uint32) ([]byte, error)

	// Reallocate returns a buffer of exactly n bytes holding the first
	// min(len(buf), n) bytes of buf. On success buf must not be used again.
	Reallocate(buf []byte, n uint32) ([]byte, error)

	// Free releases buf.
	Free(buf []byte)
}

// HeapAllocator allocates from the Go heap and never fails.
type HeapAllocator struct{}

// Allocate implements Allocator.
func (HeapAllocator) Allocate(n uint32) ([]byte, error) {
	return make([]byte, n), nil
}

// Reallocate implements Allocator.
func (HeapAllocator) Reallocate(buf []byte, n uint32) ([]byte, error) {
	next := make([]byte, n)
	copy(next, buf)
	return next, nil
}

// Free implements Allocator. The garbage collector reclaims buf.
func (HeapAllocator) Free(buf []byte) {}

const (
	// Buffers above this size class bypass the pools.
	maxPooledClass = 20 // 1 MiB
)

// PoolAllocator recycles power-of-two buffers through one sync.Pool per
// size class. Released buffers are cleared before reuse. The zero value is
// ready to use and it is safe for concurrent use.
type PoolAllocator struct {
	pools [maxPooledClass + 1]sync.Pool
}

// sizeClass returns the pool index for n, or -1 when n is not pooled.
func sizeClass(n uint32) int {
	if n == 0 || n&(n-1) != 0 {
		return -1
	}
	class := bits.TrailingZeros32(n)
	if class > maxPooledClass {
		return -1
	}
	return class
}

// Allocate implements Allocator.
func (p *PoolAllocator) Allocate(n uint32) ([]byte, error) {
	class := sizeClass(n)
	if class < 0 {
		return make([]byte, n), nil
	}
	if v := p.pools[class].Get(); v != nil {
		return *(v.(*[]byte)), nil
	}
	return make([]byte, n), nil
}

// Reallocate implements Allocator.
func (p *PoolAllocator) Reallocate(buf []byte, n uint32) ([]byte, error) {
	next, err := p.Allocate(n)
	if err != nil {
		return nil, err
	}
	copy(next, buf)
	p.Free(buf)
	return next, nil
}

// Free implements Allocator.
func (p *PoolAllocator) Free(buf []byte) {
	class := sizeClass(uint32(len(buf)))
	if class < 0 || cap(buf) != len(buf) {
		return
	}
	zeroBytes(buf)
	p.pools[class].Put(&buf)
}

// LimitedAllocator fails any request that would take the bytes it has
// handed out above Limit. It is safe for concurrent use.
type LimitedAllocator struct {
	Base  Allocator // defaults to HeapAllocator
	Limit uint64

	mu   sync.Mutex
	live uint64
}

// NewLimitedAllocator wraps base with a byte budget.
func NewLimitedAllocator(base Allocator, limit uint64) *LimitedAllocator {
	return &LimitedAllocator{Base: base, Limit: limit}
}

func (l *LimitedAllocator) base() Allocator {
	if l.Base == nil {
		return HeapAllocator{}
	}
	return l.Base
}

// Live returns the number of bytes currently handed out.
func (l *LimitedAllocator) Live() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.live
}

// reserve charges delta more bytes against the budget.
func (l *LimitedAllocator) reserve(delta uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.live+delta > l.Limit {
		return fmt.Errorf("%w: %d live + %d requested exceeds limit %d",
			ErrAllocationFailure, l.live, delta, l.Limit)
	}
	l.live += delta
	return nil
}

func (l *LimitedAllocator) credit(n uint64) {
	l.mu.Lock()
	l.live -= n
	l.mu.Unlock()
}

// Allocate implements Allocator.
func (l *LimitedAllocator) Allocate(n uint32) ([]byte, error) {
	if err := l.reserve(uint64(n)); err != nil {
		return nil, err
	}
	buf, err := l.base().Allocate(n)
	if err != nil {
		l.credit(uint64(n))
		return nil, err
	}
	return buf, nil
}

// Reallocate implements Allocator.
func (l *LimitedAllocator) Reallocate(buf []byte, n uint32) ([]byte, error) {
	old := uint64(len(buf))
	if uint64(n) > old {
		if err := l.reserve(uint64(n) - old); err != nil {
			return nil, err
		}
	}

	next, err := l.base().Reallocate(buf, n)
	if err != nil {
		if uint64(n) > old {
			l.credit(uint64(n) - old)
		}
		return nil, err
	}

	if uint64(n) < old {
		l.credit(old - uint64(n))
	}
	return next, nil
}

// Free implements Allocator.
func (l *LimitedAllocator) Free(buf []byte) {
	l.credit(uint64(len(buf)))
	l.base().Free(buf)
}

// zeroBytes clears a byte slice.
func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
