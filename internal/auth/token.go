// Package auth implements the token issuer (component H): 128-bit random
// tokens rendered as 32 lowercase hex characters, drawn from two
// independent 64-bit PRNG streams seeded once from a non-deterministic
// source.
package auth

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	mathrand "math/rand"
)

// Token is a 32-character lowercase-hex opaque string identifying a player
// to the API.
type Token string

// Issuer owns two independent 64-bit PRNG streams, one per half of the
// token. They never share state with a map's spawn-position PRNG (see
// internal/worldmap).
type Issuer struct {
	hi *mathrand.Rand
	lo *mathrand.Rand
}

// NewIssuer creates an issuer with both streams seeded from a
// non-deterministic source.
func NewIssuer() *Issuer {
	return &Issuer{
		hi: mathrand.New(mathrand.NewSource(entropySeed())),
		lo: mathrand.New(mathrand.NewSource(entropySeed())),
	}
}

func entropySeed() int64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 1
	}
	return int64(binary.LittleEndian.Uint64(buf[:]) & (1<<63 - 1))
}

// Issue draws the next value from each stream and renders the concatenation
// as a 32-character lowercase hex token. Collisions are treated as
// astronomically improbable; no dedup check is performed.
func (iss *Issuer) Issue() Token {
	return Token(fmt.Sprintf("%016x%016x", iss.hi.Uint64(), iss.lo.Uint64()))
}

// Valid reports whether s has the shape of a token: exactly 32 lowercase
// hex characters. It does not check whether the token is known.
func Valid(s string) bool {
	if len(s) != 32 {
		return false
	}
	for _, c := range s {
		if !(c >= '0' && c <= '9') && !(c >= 'a' && c <= 'f') {
			return false
		}
	}
	return true
}
