package staterng

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// TestVector describes a generator state and the values it must produce.
// These vectors pin the buffer layout and the float construction against
// an independent implementation of the same hash.
type TestVector struct {
	Name   string   `json:"name"`
	Hash   string   `json:"hash"`
	Header []string `json:"header"` // four words, hex, little-endian word order

	IDText string `json:"id_text,omitempty"`
	IDU64  string `json:"id_u64,omitempty"`
	IDHex  string `json:"id_hex,omitempty"`

	Pushes []string `json:"pushes"` // hex-encoded raw pushes, bottom first

	State string `json:"state"` // expected hashed image, hex
	U64   string `json:"u64"`   // expected RandomU64, hex
	F32   string `json:"f32"`   // expected RandomF32 bits, hex
	F64   string `json:"f64"`   // expected RandomF64 bits, hex
}

// TestVectorSuite contains all test vectors with metadata about their source.
type TestVectorSuite struct {
	Version     string       `json:"version"`
	Description string       `json:"description"`
	Vectors     []TestVector `json:"vectors"`
}

// LoadTestVectors loads test vectors from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadTestVectors(path string) (*TestVectorSuite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read test vectors: %w", err)
	}

	var suite TestVectorSuite
	if err := json.Unmarshal(data, &suite); err != nil {
		return nil, fmt.Errorf("failed to parse test vectors: %w", err)
	}

	return &suite, nil
}

// GetHeader returns the decoded header words.
func (tv *TestVector) GetHeader() ([4]uint64, error) {
	var header [4]uint64
	if len(tv.Header) != len(header) {
		return header, fmt.Errorf("header must have 4 words, got %d", len(tv.Header))
	}
	for i, s := range tv.Header {
		w, err := strconv.ParseUint(s, 0, 64)
		if err != nil {
			return header, fmt.Errorf("invalid header word %d: %w", i, err)
		}
		header[i] = w
	}
	return header, nil
}

// Build creates the generator the vector describes. The header is drawn
// from an isolated uniqueness allocator positioned at the vector's header.
func (tv *TestVector) Build() (*Generator, error) {
	kind, err := ParseHashKind(tv.Hash)
	if err != nil {
		return nil, err
	}
	header, err := tv.GetHeader()
	if err != nil {
		return nil, err
	}

	config := DefaultConfig()
	config.Hash = kind
	config.Uniqueness = newUniquenessAllocatorAt(header)

	g, err := NewWithConfig(config)
	if err != nil {
		return nil, err
	}

	switch {
	case tv.IDText != "":
		err = g.SetIdentifierFromText(tv.IDText)
	case tv.IDU64 != "":
		var id uint64
		id, err = strconv.ParseUint(tv.IDU64, 0, 64)
		if err == nil {
			err = g.SetIdentifierFromU64(id)
		}
	case tv.IDHex != "":
		var id []byte
		id, err = hex.DecodeString(tv.IDHex)
		if err == nil {
			err = g.SetIdentifier(id)
		}
	}
	if err != nil {
		g.Destroy()
		return nil, fmt.Errorf("invalid identifier: %w", err)
	}

	for i, p := range tv.Pushes {
		data, err := hex.DecodeString(p)
		if err != nil {
			g.Destroy()
			return nil, fmt.Errorf("invalid push %d: %w", i, err)
		}
		if err := g.Push(data); err != nil {
			g.Destroy()
			return nil, fmt.Errorf("push %d: %w", i, err)
		}
	}

	return g, nil
}

// GetState returns the decoded expected state image.
func (tv *TestVector) GetState() ([]byte, error) {
	state, err := hex.DecodeString(tv.State)
	if err != nil {
		return nil, fmt.Errorf("invalid state hex: %w", err)
	}
	return state, nil
}

// GetU64 returns the expected RandomU64 value.
func (tv *TestVector) GetU64() (uint64, error) {
	return strconv.ParseUint(tv.U64, 16, 64)
}

// GetF32Bits returns the expected RandomF32 bit pattern.
func (tv *TestVector) GetF32Bits() (uint32, error) {
	v, err := strconv.ParseUint(tv.F32, 16, 32)
	return uint32(v), err
}

// GetF64Bits returns the expected RandomF64 bit pattern.
func (tv *TestVector) GetF64Bits() (uint64, error) {
	return strconv.ParseUint(tv.F64, 16, 64)
}
