// Package staterng provides a deterministic, state-addressable
// pseudo-random generator.
//
// A Generator owns a growable byte buffer made of a 32-byte uniqueness
// header, an optional identifier and a stack of user-pushed values. Every
// random value is a hash of the whole buffer, so two generators holding the
// same bytes produce the same values, and changing any pushed value changes
// the stream.
//
// Example usage:
//
//	g := staterng.New()
//	defer g.Destroy()
//
//	g.SetIdentifierFromText("enemy-17")
//	g.PushU32(step)
//	x := g.RandomF64()
//
// Generators are not safe for concurrent use. Only construction touches
// shared state (the uniqueness counter) and that is locked internally.
package staterng

import (
	"fmt"
)

const (
	// HeaderSize is the size of the uniqueness header at the start of
	// every generator buffer.
	HeaderSize = 32

	// DefaultCapacityCap is the default total and user capacity cap.
	DefaultCapacityCap = 1 << 16

	// MaxCapacityCap is the largest power of two a uint32 cap can hold.
	MaxCapacityCap = 1 << 31
)

// IDKind records how the identifier segment was written.
type IDKind int

const (
	// IDNone means no identifier has been set.
	IDNone IDKind = iota

	// IDString is a text identifier. Read-back appends a zero terminator.
	IDString

	// IDU64 is the 8-byte little-endian encoding of an integer.
	IDU64

	// IDStringHash is the 8-byte hash of a text identifier.
	IDStringHash

	// IDGeneric is an arbitrary byte identifier.
	IDGeneric
)

// String returns the string representation of the identifier kind.
func (k IDKind) String() string {
	switch k {
	case IDNone:
		return "None"
	case IDString:
		return "String"
	case IDU64:
		return "U64"
	case IDStringHash:
		return "StringHash"
	case IDGeneric:
		return "Generic"
	default:
		return fmt.Sprintf("IDKind(%d)", k)
	}
}

// Generator is a pseudo-random source keyed by the content of its buffer.
//
// The buffer layout is fixed:
//
//	[0, 32)                  uniqueness header
//	[32, 32+idLength)        identifier
//	[32+idLength, size)      user stack
//
// The zero value is an invalid generator.
type Generator struct {
	state    []byte // len(state) is the allocated capacity
	size     uint32 // bytes in use
	totalCap uint32
	userCap  uint32
	idLength uint32
	idKind   IDKind

	hash  HashFunc
	alloc Allocator
}

// New creates a generator with the default configuration and a fresh
// uniqueness header. If the buffer cannot be allocated the returned
// generator is invalid; check it with IsValid.
func New() *Generator {
	g, err := NewWithConfig(DefaultConfig())
	if err != nil {
		return &Generator{}
	}
	return g
}

// NewWithConfig creates a generator using the given configuration.
func NewWithConfig(config Config) (*Generator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	g := &Generator{
		size:     HeaderSize,
		totalCap: ceilPow2(config.TotalCapacityCap),
		userCap:  ceilPow2(config.UserCapacityCap),
		hash:     config.hashFunc(),
		alloc:    config.allocator(),
	}

	if err := g.ensureCapacity(HeaderSize, growBase); err != nil {
		g.release()
		return nil, fmt.Errorf("staterng: new generator: %w", err)
	}

	header := config.uniqueness().Allocate()
	putHeader(g.state[:HeaderSize], header)

	traceHeader("new generator", header)
	return g, nil
}

// Clone returns a deep copy of g. The header is copied verbatim, so the
// clone produces the same values as g until either one is mutated. If the
// copy cannot be allocated the returned generator is invalid.
func (g *Generator) Clone() *Generator {
	if !g.IsValid() {
		return &Generator{}
	}

	c := &Generator{
		size:     g.size,
		totalCap: g.totalCap,
		userCap:  g.userCap,
		idLength: g.idLength,
		idKind:   g.idKind,
		hash:     g.hash,
		alloc:    g.alloc,
	}

	if err := c.ensureCapacity(uint32(len(g.state)), growBase); err != nil {
		logger().Warn().Err(err).Uint32("capacity", uint32(len(g.state))).Msg("clone failed")
		c.release()
		return &Generator{}
	}
	copy(c.state, g.state)

	return c
}

// Destroy releases the buffer and zeroes the generator. Afterwards
// IsValid reports false.
func (g *Generator) Destroy() {
	if g == nil {
		return
	}
	g.release()
}

// release frees the buffer and resets every field.
func (g *Generator) release() {
	if g.state != nil && g.alloc != nil {
		g.alloc.Free(g.state)
	}
	*g = Generator{}
}

// IsValid reports whether g holds a buffer with at least a full header.
func (g *Generator) IsValid() bool {
	return g != nil && g.state != nil && g.size >= HeaderSize
}

// State returns a copy of the bytes that are hashed to produce values.
func (g *Generator) State() []byte {
	if !g.IsValid() {
		return nil
	}
	return append([]byte(nil), g.state[:g.size]...)
}

// userOffset is the buffer offset of the first user byte.
func (g *Generator) userOffset() uint32 {
	return HeaderSize + g.idLength
}

// userSize is the number of user bytes on the stack.
func (g *Generator) userSize() uint32 {
	return g.size - g.userOffset()
}
