package staterng

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPushPop_Identity(t *testing.T) {
	payloads := [][]byte{
		{},
		{0},
		[]byte("hello"),
		make([]byte, 300),
	}

	for _, p := range payloads {
		g := newTestGenerator(t)
		require.NoError(t, g.SetIdentifierFromText("id"))
		require.NoError(t, g.PushU16(9))
		before := g.State()

		require.NoError(t, g.Push(p))
		out := make([]byte, len(p))
		require.NoError(t, g.Pop(uint32(len(p)), out))

		assert.Equal(t, p, out)
		assert.Equal(t, before, g.State())
	}
}

func TestPop_Underflow(t *testing.T) {
	g := newTestGenerator(t)
	require.NoError(t, g.SetIdentifierFromText("identifier bytes are not poppable"))
	require.NoError(t, g.PushU16(1))
	before := g.State()

	assert.ErrorIs(t, g.Pop(3, nil), ErrOutOfRange)
	_, err := g.PopU32()
	assert.ErrorIs(t, err, ErrOutOfRange)
	assert.Equal(t, before, g.State())

	assert.ErrorIs(t, g.Pop(2, make([]byte, 1)), ErrOutOfRange)
	assert.NoError(t, g.Pop(2, nil))
	assert.Equal(t, uint32(0), g.UserUsedSize())
}

func TestTypedPushPop(t *testing.T) {
	g := newTestGenerator(t)

	require.NoError(t, g.PushU8(0xAB))
	require.NoError(t, g.PushU16(0xBEEF))
	require.NoError(t, g.PushU32(0xDEADBEEF))
	require.NoError(t, g.PushU64(math.MaxUint64 - 1))
	require.NoError(t, g.PushI8(-1))
	require.NoError(t, g.PushI16(math.MinInt16))
	require.NoError(t, g.PushI32(-123456))
	require.NoError(t, g.PushI64(math.MinInt64))
	assert.Equal(t, uint32(1+2+4+8+1+2+4+8), g.UserUsedSize())

	i64, err := g.PopI64()
	require.NoError(t, err)
	assert.Equal(t, int64(math.MinInt64), i64)

	i32, err := g.PopI32()
	require.NoError(t, err)
	assert.Equal(t, int32(-123456), i32)

	i16, err := g.PopI16()
	require.NoError(t, err)
	assert.Equal(t, int16(math.MinInt16), i16)

	i8, err := g.PopI8()
	require.NoError(t, err)
	assert.Equal(t, int8(-1), i8)

	u64, err := g.PopU64()
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64-1), u64)

	u32, err := g.PopU32()
	require.NoError(t, err)
	assert.Equal(t, uint32(0xDEADBEEF), u32)

	u16, err := g.PopU16()
	require.NoError(t, err)
	assert.Equal(t, uint16(0xBEEF), u16)

	u8, err := g.PopU8()
	require.NoError(t, err)
	assert.Equal(t, uint8(0xAB), u8)

	assert.Equal(t, uint32(0), g.UserUsedSize())
}

// Values are laid out little-endian regardless of the host.
func TestPush_LittleEndianLayout(t *testing.T) {
	g := newTestGenerator(t)
	require.NoError(t, g.PushU32(0x04030201))
	require.NoError(t, g.PushI16(-2))

	assert.Equal(t, []byte{1, 2, 3, 4, 0xFE, 0xFF}, g.State()[HeaderSize:])
}

func TestPushZeros(t *testing.T) {
	g := newTestGenerator(t)
	require.NoError(t, g.PushU64(math.MaxUint64))
	require.NoError(t, g.Pop(8, nil))

	// Reused capacity must still read back as zeros.
	require.NoError(t, g.PushZeros(8))
	assert.Equal(t, make([]byte, 8), g.State()[HeaderSize:])
}

func TestRelative_SetThenGet(t *testing.T) {
	g := newTestGenerator(t)
	require.NoError(t, g.PushZeros(16))

	for size := uint32(0); size <= 4; size++ {
		for offset := size; offset <= g.UserUsedSize(); offset++ {
			v := make([]byte, size)
			for i := range v {
				v[i] = byte(offset*7 + uint32(i))
			}
			require.NoError(t, g.SetRelative(offset, v), "offset %d size %d", offset, size)

			out := make([]byte, size)
			require.NoError(t, g.GetRelative(offset, out))
			assert.Equal(t, v, out, "offset %d size %d", offset, size)
		}
	}
}

func TestRelative_Bounds(t *testing.T) {
	g := newTestGenerator(t)
	require.NoError(t, g.SetIdentifierFromText("id"))
	require.NoError(t, g.PushZeros(8))
	before := g.State()

	tests := []struct {
		name   string
		offset uint32
		size   int
	}{
		{"beyond stack", 9, 1},
		{"offset shorter than window", 3, 4},
		{"window starts before stack", 9, 9},
		{"far beyond", math.MaxUint32, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, g.SetRelative(tt.offset, make([]byte, tt.size)), ErrOutOfRange)
			assert.ErrorIs(t, g.GetRelative(tt.offset, make([]byte, tt.size)), ErrOutOfRange)
			assert.Equal(t, before, g.State())
		})
	}

	assert.NoError(t, g.SetRelative(8, []byte{1}))
	assert.Equal(t, byte(1), g.State()[HeaderSize+2])
}

// A value can be rewritten in place without popping the values above it.
func TestRelative_EditBelowTop(t *testing.T) {
	g := newTestGenerator(t)
	require.NoError(t, g.PushU32(1))
	require.NoError(t, g.PushU32(2))
	require.NoError(t, g.PushU32(3))

	v, err := g.GetRelativeU32(2)
	require.NoError(t, err)
	assert.Equal(t, uint32(2), v)

	require.NoError(t, g.SetRelativeU32(2, 20))
	require.NoError(t, g.SetRelativeU32(3, 10))

	for _, want := range []uint32{3, 20, 10} {
		got, err := g.PopU32()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestRelative_Typed(t *testing.T) {
	g := newTestGenerator(t)
	require.NoError(t, g.PushZeros(64))

	t.Run("u8", func(t *testing.T) {
		require.NoError(t, g.SetRelativeU8(3, 0x11))
		v, err := g.GetRelativeU8(3)
		require.NoError(t, err)
		assert.Equal(t, uint8(0x11), v)
		assert.Equal(t, byte(0x11), g.State()[HeaderSize+61])
	})

	t.Run("u16", func(t *testing.T) {
		require.NoError(t, g.SetRelativeU16(2, 0x2222))
		v, err := g.GetRelativeU16(2)
		require.NoError(t, err)
		assert.Equal(t, uint16(0x2222), v)
	})

	t.Run("u32", func(t *testing.T) {
		require.NoError(t, g.SetRelativeU32(3, 0x33333333))
		v, err := g.GetRelativeU32(3)
		require.NoError(t, err)
		assert.Equal(t, uint32(0x33333333), v)
	})

	t.Run("u64", func(t *testing.T) {
		require.NoError(t, g.SetRelativeU64(8, 0x4444444444444444))
		v, err := g.GetRelativeU64(8)
		require.NoError(t, err)
		assert.Equal(t, uint64(0x4444444444444444), v)
		assert.Equal(t, byte(0x44), g.State()[HeaderSize])
	})

	t.Run("i8", func(t *testing.T) {
		require.NoError(t, g.SetRelativeI8(5, -5))
		v, err := g.GetRelativeI8(5)
		require.NoError(t, err)
		assert.Equal(t, int8(-5), v)
	})

	t.Run("i16", func(t *testing.T) {
		require.NoError(t, g.SetRelativeI16(6, -6))
		v, err := g.GetRelativeI16(6)
		require.NoError(t, err)
		assert.Equal(t, int16(-6), v)
	})

	t.Run("i32", func(t *testing.T) {
		require.NoError(t, g.SetRelativeI32(7, -7))
		v, err := g.GetRelativeI32(7)
		require.NoError(t, err)
		assert.Equal(t, int32(-7), v)
	})

	t.Run("i64", func(t *testing.T) {
		require.NoError(t, g.SetRelativeI64(1, -8))
		v, err := g.GetRelativeI64(1)
		require.NoError(t, err)
		assert.Equal(t, int64(-8), v)
	})

	t.Run("bounds", func(t *testing.T) {
		_, err := g.GetRelativeU64(9)
		assert.ErrorIs(t, err, ErrOutOfRange)
		_, err = g.GetRelativeU8(0)
		assert.ErrorIs(t, err, ErrOutOfRange)
		assert.ErrorIs(t, g.SetRelativeU64(1<<30, 1), ErrOutOfRange)
	})
}

func TestReset(t *testing.T) {
	g := newTestGenerator(t)
	empty := g.RandomU64()

	require.NoError(t, g.PushZeros(100))
	capacity := g.AllocatedCapacity()
	g.Reset()

	assert.Equal(t, uint32(0), g.UserUsedSize())
	assert.Equal(t, capacity, g.AllocatedCapacity())
	assert.Equal(t, empty, g.RandomU64())
}
