package staterng

import (
	"encoding/binary"
	"fmt"
	"math"
)

// SetIdentifier replaces the identifier with a copy of id. The user stack
// moves to follow the new identifier. On failure the old identifier and
// the user stack are left intact.
func (g *Generator) SetIdentifier(id []byte) error {
	return g.setIdentifier(id, IDGeneric)
}

// SetIdentifierFromText sets a text identifier.
func (g *Generator) SetIdentifierFromText(s string) error {
	return g.setIdentifier([]byte(s), IDString)
}

// SetIdentifierFromU64 sets the 8-byte little-endian encoding of v as the
// identifier.
func (g *Generator) SetIdentifierFromU64(v uint64) error {
	var id [8]byte
	binary.LittleEndian.PutUint64(id[:], v)
	return g.setIdentifier(id[:], IDU64)
}

// SetIdentifierFromTextHash sets the 8-byte hash of s, with seed 0, as the
// identifier. Long names cost the same as short ones afterwards.
func (g *Generator) SetIdentifierFromTextHash(s string) error {
	if !g.IsValid() {
		return ErrInvalidGenerator
	}
	var id [8]byte
	binary.LittleEndian.PutUint64(id[:], g.hash([]byte(s), 0))
	return g.setIdentifier(id[:], IDStringHash)
}

// ClearIdentifier removes the identifier. The user stack is kept.
func (g *Generator) ClearIdentifier() error {
	return g.setIdentifier(nil, IDNone)
}

func (g *Generator) setIdentifier(id []byte, kind IDKind) error {
	if !g.IsValid() {
		return ErrInvalidGenerator
	}

	user := g.userSize()
	required := uint64(HeaderSize) + uint64(len(id)) + uint64(user)
	if required > math.MaxUint32 {
		return fmt.Errorf("%w: identifier of %d bytes", ErrCapacityExceeded, len(id))
	}

	if err := g.ensureCapacity(uint32(required), growIdentifier); err != nil {
		return err
	}

	oldUser := g.userOffset()
	newUser := HeaderSize + uint32(len(id))

	// The two user ranges overlap whenever the length changes by less than
	// the user stack size; copy handles that like memmove.
	copy(g.state[newUser:newUser+user], g.state[oldUser:oldUser+user])
	copy(g.state[HeaderSize:newUser], id)

	g.idLength = uint32(len(id))
	g.size = uint32(required)
	g.idKind = kind
	return nil
}

// IdentifierKind returns how the identifier was set.
func (g *Generator) IdentifierKind() IDKind {
	if !g.IsValid() {
		return IDNone
	}
	return g.idKind
}

// IdentifierLength returns the number of bytes ReadIdentifier writes. Text
// identifiers count their zero terminator.
func (g *Generator) IdentifierLength() uint32 {
	if !g.IsValid() {
		return 0
	}
	if g.idKind == IDString {
		return g.idLength + 1
	}
	return g.idLength
}

// ReadIdentifier copies the identifier into out and returns the number of
// bytes written. Text identifiers are followed by a zero terminator. out
// must hold at least IdentifierLength bytes.
func (g *Generator) ReadIdentifier(out []byte) (int, error) {
	if !g.IsValid() {
		return 0, ErrInvalidGenerator
	}
	if g.idLength == 0 {
		return 0, ErrNoIdentifier
	}

	n := g.IdentifierLength()
	if uint64(len(out)) < uint64(n) {
		return 0, fmt.Errorf("%w: identifier needs %d bytes, buffer has %d", ErrOutOfRange, n, len(out))
	}

	copy(out, g.state[HeaderSize:HeaderSize+g.idLength])
	if g.idKind == IDString {
		out[g.idLength] = 0
	}
	return int(n), nil
}

// Identifier returns a copy of the raw identifier bytes, without any
// terminator. It returns nil when no identifier is set.
func (g *Generator) Identifier() []byte {
	if !g.IsValid() || g.idLength == 0 {
		return nil
	}
	return append([]byte(nil), g.state[HeaderSize:HeaderSize+g.idLength]...)
}
