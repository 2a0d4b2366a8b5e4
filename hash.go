package staterng

import (
	"fmt"
	"strings"

	"github.com/opd-ai/go-staterng/internal"
)

// HashFunc is a deterministic 64-bit hash of data under seed. Output bits
// must be close to independent; the float construction counts leading zeros
// of the result and relies on them being geometrically distributed.
type HashFunc func(data []byte, seed uint64) uint64

// HashKind selects one of the built-in hash primitives.
type HashKind int

const (
	// HashXXH3 is the low 64 bits of XXH3-128. It is the default.
	HashXXH3 HashKind = iota

	// HashXXH64 is the classic XXH64 hash.
	HashXXH64

	// HashBlake2b is an 8-byte Blake2b digest keyed by the seed. It is
	// much slower but has no dependency on assembly kernels.
	HashBlake2b
)

// String returns the configuration name of the hash kind.
func (k HashKind) String() string {
	switch k {
	case HashXXH3:
		return "xxh3"
	case HashXXH64:
		return "xxh64"
	case HashBlake2b:
		return "blake2b"
	default:
		return fmt.Sprintf("HashKind(%d)", k)
	}
}

// ParseHashKind converts a configuration name into a HashKind.
func ParseHashKind(name string) (HashKind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "xxh3", "xxh128":
		return HashXXH3, nil
	case "xxh64", "xxhash":
		return HashXXH64, nil
	case "blake2b":
		return HashBlake2b, nil
	default:
		return 0, fmt.Errorf("staterng: unknown hash %q", name)
	}
}

// Func returns the hash primitive for k, or nil if k is unknown.
func (k HashKind) Func() HashFunc {
	switch k {
	case HashXXH3:
		return internal.XXH3
	case HashXXH64:
		return internal.XXH64
	case HashBlake2b:
		return internal.Blake2b
	default:
		return nil
	}
}

// hashState hashes the used part of the buffer.
func (g *Generator) hashState(seed uint64) uint64 {
	return g.hash(g.state[:g.size], seed)
}
