package staterng

import (
	"fmt"
	"math/bits"
)

// growthKind tells ensureCapacity how to interpret its size argument.
type growthKind int

const (
	// growBase: size is the required total buffer size.
	growBase growthKind = iota

	// growIdentifier: size is the required total buffer size after an
	// identifier change.
	growIdentifier

	// growUser: size is the number of bytes about to be pushed. The
	// resulting user stack is checked against the user cap first.
	growUser
)

// String names the growth kind in diagnostics.
func (k growthKind) String() string {
	switch k {
	case growBase:
		return "base"
	case growIdentifier:
		return "identifier"
	case growUser:
		return "user"
	default:
		return fmt.Sprintf("growthKind(%d)", int(k))
	}
}

// ceilPow2 rounds x up to a power of two. Zero, and values above 1<<31,
// round to zero.
func ceilPow2(x uint32) uint32 {
	if x <= 1 {
		return x
	}
	n := bits.Len32(x - 1)
	if n >= 32 {
		return 0
	}
	return 1 << n
}

// ensureCapacity grows the buffer so that the requested size fits. On any
// failure the generator is left exactly as it was.
func (g *Generator) ensureCapacity(size uint32, kind growthKind) error {
	required := uint64(size)

	if kind == growUser {
		user := uint64(g.userSize()) + uint64(size)
		if user > uint64(g.userCap) {
			traceRejected(kind, user, uint64(g.userCap))
			return fmt.Errorf("%w: user stack of %d bytes exceeds cap %d",
				ErrCapacityExceeded, user, g.userCap)
		}
		required = user + uint64(g.userOffset())
	}

	capacity := uint64(len(g.state))
	if capacity >= required {
		return nil
	}

	limit := uint64(g.totalCap)
	if required > limit {
		traceRejected(kind, required, limit)
		return fmt.Errorf("%w: buffer of %d bytes exceeds total cap %d",
			ErrCapacityExceeded, required, limit)
	}

	next := capacity
	if next == 0 {
		next = 1
	}
	for next < required && next < limit {
		next <<= 1
	}
	if next > limit || next < required {
		traceRejected(kind, required, limit)
		return fmt.Errorf("%w: buffer of %d bytes exceeds total cap %d",
			ErrCapacityExceeded, required, limit)
	}

	var (
		buf []byte
		err error
	)
	if g.state == nil {
		buf, err = g.alloc.Allocate(uint32(next))
	} else {
		buf, err = g.alloc.Reallocate(g.state, uint32(next))
	}
	if err != nil {
		logger().Warn().Err(err).Stringer("kind", kind).Uint64("capacity", next).Msg("allocation failed")
		return fmt.Errorf("%w: grow to %d bytes: %v", ErrAllocationFailure, next, err)
	}

	g.state = buf
	return nil
}

// Shrink reallocates the buffer down to the smallest power of two that
// still holds the used bytes. A failed reallocation leaves the larger
// buffer in place and is reported, but the generator remains usable.
func (g *Generator) Shrink() error {
	if !g.IsValid() {
		return ErrInvalidGenerator
	}

	target := ceilPow2(g.size)
	capacity := uint32(len(g.state))
	if target >= capacity {
		return nil
	}

	buf, err := g.alloc.Reallocate(g.state, target)
	if err != nil {
		logger().Debug().Err(err).Uint32("from", capacity).Uint32("to", target).Msg("shrink failed")
		return fmt.Errorf("%w: shrink to %d bytes: %v", ErrAllocationFailure, target, err)
	}

	g.state = buf
	logger().Debug().Uint32("from", capacity).Uint32("to", target).Msg("shrunk")
	return nil
}

// SetTotalCapacityCap sets the cap on the whole buffer. size is rounded up
// to a power of two and must not be below the allocated capacity.
func (g *Generator) SetTotalCapacityCap(size uint32) error {
	if !g.IsValid() {
		return ErrInvalidGenerator
	}

	capped := ceilPow2(size)
	if capped == 0 {
		return fmt.Errorf("%w: total cap %d", ErrInvalidCapacity, size)
	}
	if capped < uint32(len(g.state)) {
		return fmt.Errorf("%w: total cap %d below allocated %d", ErrInvalidCapacity, capped, len(g.state))
	}

	g.totalCap = capped
	return nil
}

// SetUserCapacityCap sets the cap on the user stack. size is rounded up to
// a power of two and must not be below the current user stack size.
func (g *Generator) SetUserCapacityCap(size uint32) error {
	if !g.IsValid() {
		return ErrInvalidGenerator
	}

	capped := ceilPow2(size)
	if capped == 0 {
		return fmt.Errorf("%w: user cap %d", ErrInvalidCapacity, size)
	}
	if capped < g.userSize() {
		return fmt.Errorf("%w: user cap %d below used %d", ErrInvalidCapacity, capped, g.userSize())
	}

	g.userCap = capped
	return nil
}

// TotalCapacityCap returns the cap on the whole buffer.
func (g *Generator) TotalCapacityCap() uint32 {
	if !g.IsValid() {
		return 0
	}
	return g.totalCap
}

// UserCapacityCap returns the effective cap on the user stack: the user
// cap, or the room the total cap leaves after header and identifier when
// that is smaller.
func (g *Generator) UserCapacityCap() uint32 {
	if !g.IsValid() {
		return 0
	}
	overhead := g.userOffset()
	if overhead >= g.totalCap {
		return 0
	}
	if room := g.totalCap - overhead; room < g.userCap {
		return room
	}
	return g.userCap
}

// TotalUsedSize returns the number of bytes hashed: header, identifier and
// user stack.
func (g *Generator) TotalUsedSize() uint32 {
	if !g.IsValid() {
		return 0
	}
	return g.size
}

// UserUsedSize returns the number of bytes on the user stack.
func (g *Generator) UserUsedSize() uint32 {
	if !g.IsValid() {
		return 0
	}
	return g.userSize()
}

// AllocatedCapacity returns the number of bytes currently reserved.
func (g *Generator) AllocatedCapacity() uint32 {
	if !g.IsValid() {
		return 0
	}
	return uint32(len(g.state))
}
