package staterng

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Push appends data to the user stack.
func (g *Generator) Push(data []byte) error {
	if !g.IsValid() {
		return ErrInvalidGenerator
	}
	if uint64(len(data)) > math.MaxUint32 {
		return fmt.Errorf("%w: push of %d bytes", ErrCapacityExceeded, len(data))
	}

	size := uint32(len(data))
	if err := g.ensureCapacity(size, growUser); err != nil {
		return err
	}

	copy(g.state[g.size:g.size+size], data)
	g.size += size
	return nil
}

// PushZeros reserves size zero bytes on the user stack. The reserved bytes
// can later be filled with SetRelative.
func (g *Generator) PushZeros(size uint32) error {
	if !g.IsValid() {
		return ErrInvalidGenerator
	}
	if err := g.ensureCapacity(size, growUser); err != nil {
		return err
	}

	zeroBytes(g.state[g.size : g.size+size])
	g.size += size
	return nil
}

// Pop removes the top size bytes from the user stack. If out is non-nil
// the removed bytes are copied into it first; it must hold size bytes.
func (g *Generator) Pop(size uint32, out []byte) error {
	if !g.IsValid() {
		return ErrInvalidGenerator
	}
	if size > g.userSize() {
		return fmt.Errorf("%w: pop of %d bytes from a stack of %d", ErrOutOfRange, size, g.userSize())
	}
	if out != nil && uint64(len(out)) < uint64(size) {
		return fmt.Errorf("%w: pop of %d bytes into a buffer of %d", ErrOutOfRange, size, len(out))
	}

	if out != nil {
		copy(out, g.state[g.size-size:g.size])
	}
	g.size -= size
	return nil
}

// Reset discards the user stack, keeping header, identifier and the
// allocated capacity.
func (g *Generator) Reset() {
	if !g.IsValid() {
		return
	}
	g.size = g.userOffset()
}

// relativeWindow returns the buffer offset of a size-byte window that
// starts offset bytes below the top of the user stack.
func (g *Generator) relativeWindow(offset, size uint32) (uint32, error) {
	user := g.userSize()
	if offset > user {
		return 0, fmt.Errorf("%w: offset %d beyond stack of %d", ErrOutOfRange, offset, user)
	}
	if offset < size {
		return 0, fmt.Errorf("%w: offset %d shorter than window of %d", ErrOutOfRange, offset, size)
	}
	return g.userOffset() + (user - offset), nil
}

// SetRelative overwrites len(data) bytes starting offset bytes below the
// top of the user stack. offset must lie in [len(data), UserUsedSize()].
func (g *Generator) SetRelative(offset uint32, data []byte) error {
	if !g.IsValid() {
		return ErrInvalidGenerator
	}
	if uint64(len(data)) > math.MaxUint32 {
		return fmt.Errorf("%w: window of %d bytes", ErrOutOfRange, len(data))
	}
	at, err := g.relativeWindow(offset, uint32(len(data)))
	if err != nil {
		return err
	}
	copy(g.state[at:], data)
	return nil
}

// GetRelative copies len(out) bytes starting offset bytes below the top of
// the user stack into out.
func (g *Generator) GetRelative(offset uint32, out []byte) error {
	if !g.IsValid() {
		return ErrInvalidGenerator
	}
	if uint64(len(out)) > math.MaxUint32 {
		return fmt.Errorf("%w: window of %d bytes", ErrOutOfRange, len(out))
	}
	at, err := g.relativeWindow(offset, uint32(len(out)))
	if err != nil {
		return err
	}
	copy(out, g.state[at:at+uint32(len(out))])
	return nil
}

// elementOffset converts an offset counted in width-byte elements to bytes.
func elementOffset(offset, width uint32) (uint32, error) {
	bytes := uint64(offset) * uint64(width)
	if bytes > math.MaxUint32 {
		return 0, fmt.Errorf("%w: element offset %d", ErrOutOfRange, offset)
	}
	return uint32(bytes), nil
}

func (g *Generator) setRelativeN(offset uint32, data []byte) error {
	bytes, err := elementOffset(offset, uint32(len(data)))
	if err != nil {
		return err
	}
	return g.SetRelative(bytes, data)
}

func (g *Generator) getRelativeN(offset uint32, out []byte) error {
	bytes, err := elementOffset(offset, uint32(len(out)))
	if err != nil {
		return err
	}
	return g.GetRelative(bytes, out)
}

// PushU64 pushes x as 8 little-endian bytes.
func (g *Generator) PushU64(x uint64) error {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], x)
	return g.Push(b[:])
}

// PushU32 pushes x as 4 little-endian bytes.
func (g *Generator) PushU32(x uint32) error {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], x)
	return g.Push(b[:])
}

// PushU16 pushes x as 2 little-endian bytes.
func (g *Generator) PushU16(x uint16) error {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], x)
	return g.Push(b[:])
}

// PushU8 pushes x as a single byte.
func (g *Generator) PushU8(x uint8) error {
	return g.Push([]byte{x})
}

// PushI64 pushes x as 8 little-endian bytes.
func (g *Generator) PushI64(x int64) error { return g.PushU64(uint64(x)) }

// PushI32 pushes x as 4 little-endian bytes.
func (g *Generator) PushI32(x int32) error { return g.PushU32(uint32(x)) }

// PushI16 pushes x as 2 little-endian bytes.
func (g *Generator) PushI16(x int16) error { return g.PushU16(uint16(x)) }

// PushI8 pushes x as a single byte.
func (g *Generator) PushI8(x int8) error { return g.PushU8(uint8(x)) }

// PopU64 removes the top uint64 from the user stack. A failed pop returns
// zero and leaves the stack unchanged, as do the other typed pops.
func (g *Generator) PopU64() (uint64, error) {
	var b [8]byte
	if err := g.Pop(8, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

// PopU32 removes the top uint32 from the user stack.
func (g *Generator) PopU32() (uint32, error) {
	var b [4]byte
	if err := g.Pop(4, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

// PopU16 removes the top uint16 from the user stack.
func (g *Generator) PopU16() (uint16, error) {
	var b [2]byte
	if err := g.Pop(2, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b[:]), nil
}

// PopU8 removes the top uint8 from the user stack.
func (g *Generator) PopU8() (uint8, error) {
	var b [1]byte
	if err := g.Pop(1, b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

// PopI64 removes the top int64 from the user stack.
func (g *Generator) PopI64() (int64, error) {
	v, err := g.PopU64()
	return int64(v), err
}

// PopI32 removes the top int32 from the user stack.
func (g *Generator) PopI32() (int32, error) {
	v, err := g.PopU32()
	return int32(v), err
}

// PopI16 removes the top int16 from the user stack.
func (g *Generator) PopI16() (int16, error) {
	v, err := g.PopU16()
	return int16(v), err
}

// PopI8 removes the top int8 from the user stack.
func (g *Generator) PopI8() (int8, error) {
	v, err := g.PopU8()
	return int8(v), err
}

// SetRelativeU64 overwrites the uint64 at offset elements below the top. In
// all typed relative accessors offset counts elements of the value's width,
// so offset 1 is the value on top of the stack, offset 2 the one beneath it.
func (g *Generator) SetRelativeU64(offset uint32, x uint64) error {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], x)
	return g.setRelativeN(offset, b[:])
}

// SetRelativeU32 overwrites the uint32 at offset elements below the top.
func (g *Generator) SetRelativeU32(offset uint32, x uint32) error {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], x)
	return g.setRelativeN(offset, b[:])
}

// SetRelativeU16 overwrites the uint16 at offset elements below the top.
func (g *Generator) SetRelativeU16(offset uint32, x uint16) error {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], x)
	return g.setRelativeN(offset, b[:])
}

// SetRelativeU8 overwrites the uint8 at offset elements below the top.
func (g *Generator) SetRelativeU8(offset uint32, x uint8) error {
	return g.setRelativeN(offset, []byte{x})
}

// SetRelativeI64 overwrites the int64 at offset elements below the top.
func (g *Generator) SetRelativeI64(offset uint32, x int64) error {
	return g.SetRelativeU64(offset, uint64(x))
}

// SetRelativeI32 overwrites the int32 at offset elements below the top.
func (g *Generator) SetRelativeI32(offset uint32, x int32) error {
	return g.SetRelativeU32(offset, uint32(x))
}

// SetRelativeI16 overwrites the int16 at offset elements below the top.
func (g *Generator) SetRelativeI16(offset uint32, x int16) error {
	return g.SetRelativeU16(offset, uint16(x))
}

// SetRelativeI8 overwrites the int8 at offset elements below the top.
func (g *Generator) SetRelativeI8(offset uint32, x int8) error {
	return g.SetRelativeU8(offset, uint8(x))
}

// GetRelativeU64 reads the uint64 at offset elements below the top.
func (g *Generator) GetRelativeU64(offset uint32) (uint64, error) {
	var b [8]byte
	if err := g.getRelativeN(offset, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

// GetRelativeU32 reads the uint32 at offset elements below the top.
func (g *Generator) GetRelativeU32(offset uint32) (uint32, error) {
	var b [4]byte
	if err := g.getRelativeN(offset, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

// GetRelativeU16 reads the uint16 at offset elements below the top.
func (g *Generator) GetRelativeU16(offset uint32) (uint16, error) {
	var b [2]byte
	if err := g.getRelativeN(offset, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b[:]), nil
}

// GetRelativeU8 reads the uint8 at offset elements below the top.
func (g *Generator) GetRelativeU8(offset uint32) (uint8, error) {
	var b [1]byte
	if err := g.getRelativeN(offset, b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

// GetRelativeI64 reads the int64 at offset elements below the top.
func (g *Generator) GetRelativeI64(offset uint32) (int64, error) {
	v, err := g.GetRelativeU64(offset)
	return int64(v), err
}

// GetRelativeI32 reads the int32 at offset elements below the top.
func (g *Generator) GetRelativeI32(offset uint32) (int32, error) {
	v, err := g.GetRelativeU32(offset)
	return int32(v), err
}

// GetRelativeI16 reads the int16 at offset elements below the top.
func (g *Generator) GetRelativeI16(offset uint32) (int16, error) {
	v, err := g.GetRelativeU16(offset)
	return int16(v), err
}

// GetRelativeI8 reads the int8 at offset elements below the top.
func (g *Generator) GetRelativeI8(offset uint32) (int8, error) {
	v, err := g.GetRelativeU8(offset)
	return int8(v), err
}
