package staterng

import (
	"encoding/binary"
	"math"
	"math/bits"
)

const hashBits = 64

// floatFormat describes an IEEE-754 binary format.
type floatFormat struct {
	exponentBits uint
	mantissaBits uint
}

var (
	binary32 = floatFormat{exponentBits: 8, mantissaBits: 23}
	binary64 = floatFormat{exponentBits: 11, mantissaBits: 52}
)

// maxExponent is the largest biased exponent produced: the exponent of
// values in [0.5, 1).
func (f floatFormat) maxExponent() uint32 {
	return 1<<(f.exponentBits-1) - 2
}

// maxRounds bounds the number of hashes spent counting leading zeros:
// ceil(maxExponent / 64).
func (f floatFormat) maxRounds() uint32 {
	return (f.maxExponent() + hashBits - 1) / hashBits
}

// RandomU64 returns a 64-bit value derived from the current state. It does
// not modify the generator; call it twice without a mutation in between
// and it returns the same value. An invalid generator returns 0.
//
// The narrower integer accessors truncate this same seed-0 hash, so draws
// of different widths from one state share their low bits.
func (g *Generator) RandomU64() uint64 {
	if !g.IsValid() {
		return 0
	}
	return g.hashState(0)
}

// RandomU32 returns the low 32 bits of RandomU64.
func (g *Generator) RandomU32() uint32 { return uint32(g.RandomU64()) }

// RandomU16 returns the low 16 bits of RandomU64.
func (g *Generator) RandomU16() uint16 { return uint16(g.RandomU64()) }

// RandomU8 returns the low 8 bits of RandomU64.
func (g *Generator) RandomU8() uint8 { return uint8(g.RandomU64()) }

// RandomI64 returns RandomU64 reinterpreted as signed.
func (g *Generator) RandomI64() int64 { return int64(g.RandomU64()) }

// RandomI32 returns the low 32 bits of RandomU64 as a signed value.
func (g *Generator) RandomI32() int32 { return int32(g.RandomU64()) }

// RandomI16 returns the low 16 bits of RandomU64 as a signed value.
func (g *Generator) RandomI16() int16 { return int16(g.RandomU64()) }

// RandomI8 returns the low 8 bits of RandomU64 as a signed value.
func (g *Generator) RandomI8() int8 { return int8(g.RandomU64()) }

// RandomF32 returns a value in [0, 1) with the density of a continuous
// uniform distribution, subnormals included. An invalid generator returns 0.
func (g *Generator) RandomF32() float32 {
	if !g.IsValid() {
		return 0
	}
	return math.Float32frombits(uint32(g.floatBits(binary32)))
}

// RandomF64 returns a value in [0, 1) with the density of a continuous
// uniform distribution, subnormals included. An invalid generator returns 0.
func (g *Generator) RandomF64() float64 {
	if !g.IsValid() {
		return 0
	}
	return math.Float64frombits(g.floatBits(binary64))
}

// floatBits builds the bit pattern of a float in [0, 1).
//
// Each leading zero of the hash halves the magnitude, so the exponent is
// geometrically distributed like that of a uniform real. A hash that is all
// zeros continues the count into the next seed, until the count runs past
// the smallest normal exponent. The mantissa comes from the low bits of the
// last hash; when the zero run left too few of them another hash is drawn.
func (g *Generator) floatBits(f floatFormat) uint64 {
	current := g.hashState(0)
	zeros := uint32(bits.LeadingZeros64(current))
	pw2 := zeros

	seed := uint32(1)
	for ; seed < f.maxRounds() && zeros == hashBits; seed++ {
		current = g.hashState(uint64(seed))
		zeros = uint32(bits.LeadingZeros64(current))
		pw2 += zeros
		traceExtension(seed, pw2)
	}

	if int(hashBits)-int(zeros)-1 < int(f.mantissaBits) {
		current = g.hashState(uint64(seed))
	}

	var exponent uint64
	if pw2 < f.maxExponent() {
		exponent = uint64(f.maxExponent() - pw2)
	}

	mantissaMask := uint64(1)<<f.mantissaBits - 1
	return exponent<<f.mantissaBits | current&mantissaMask
}

// Read fills p with bytes derived from the current state: word i is the
// seed-i hash, little-endian. Like the other accessors it does not modify
// the generator, so the first eight bytes equal RandomU64. It always fills
// p unless the generator is invalid.
func (g *Generator) Read(p []byte) (int, error) {
	if !g.IsValid() {
		return 0, ErrInvalidGenerator
	}

	var word [8]byte
	for i, seed := 0, uint64(0); i < len(p); seed++ {
		binary.LittleEndian.PutUint64(word[:], g.hashState(seed))
		i += copy(p[i:], word[:])
	}
	return len(p), nil
}
