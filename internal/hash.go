// Package internal provides the 64-bit hash primitives behind staterng.
// This package wraps github.com/zeebo/xxh3, github.com/cespare/xxhash/v2
// and golang.org/x/crypto/blake2b behind one seeded signature.
package internal

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	"github.com/zeebo/xxh3"
	"golang.org/x/crypto/blake2b"
)

// XXH3 returns the low 64 bits of the seeded XXH3-128 hash of data.
func XXH3(data []byte, seed uint64) uint64 {
	return xxh3.Hash128Seed(data, seed).Lo
}

// XXH64 returns the seeded XXH64 hash of data.
func XXH64(data []byte, seed uint64) uint64 {
	if seed == 0 {
		return xxhash.Sum64(data)
	}
	d := xxhash.NewWithSeed(seed)
	d.Write(data)
	return d.Sum64()
}

// Blake2b returns an 8-byte Blake2b digest of data keyed with the
// little-endian encoding of seed, read back as a little-endian uint64.
func Blake2b(data []byte, seed uint64) uint64 {
	var key [8]byte
	binary.LittleEndian.PutUint64(key[:], seed)

	// New only fails for sizes outside 1..64 or keys longer than 64 bytes.
	h, err := blake2b.New(8, key[:])
	if err != nil {
		panic("staterng: blake2b: " + err.Error())
	}
	h.Write(data)

	var sum [8]byte
	h.Sum(sum[:0])
	return binary.LittleEndian.Uint64(sum[:])
}
