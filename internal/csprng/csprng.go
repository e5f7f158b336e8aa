// Package csprng implements the CS-PRNG described in spec.md §4.4: a
// deterministic byte generator seeded from (stream_cipher, key, nonce),
// and its Preallocation alternative seeded from a fixed byte vector. Both
// satisfy the same Source surface so writer and reader drive identical
// length/ordering decisions from identical seed material.
package csprng

import (
	"encoding/binary"

	"golang.org/x/crypto/salsa20/salsa"

	"github.com/obscurcore/obsc/internal/errors"
)

// rawSource supplies the next len(buf) raw bytes of entropy.
type rawSource interface {
	nextRaw(buf []byte) error
}

// Source is the common CS-PRNG surface: next_u32/next_i32/next_bounded/
// next_in_range/next_bytes, implemented once over any rawSource so a
// stream-cipher-backed generator and a preallocated byte vector produce
// byte-identical sequences given byte-identical raw output.
type Source struct {
	raw rawSource
}

// NextBytes fills buf with the next len(buf) bytes of entropy.
func (s *Source) NextBytes(buf []byte) error { return s.raw.nextRaw(buf) }

// NextU32 returns the next 4 bytes as a little-endian uint32.
func (s *Source) NextU32() (uint32, error) {
	var b [4]byte
	if err := s.raw.nextRaw(b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

// NextI32 reinterprets NextU32's output as a signed int32.
func (s *Source) NextI32() (int32, error) {
	u, err := s.NextU32()
	if err != nil {
		return 0, err
	}
	return int32(u), nil
}

// NextBounded returns a value in [0, maxExclusive) via rejection sampling
// against the nearest power-of-two upper bound, so the distribution is
// exactly uniform and the sequence of draws is identical on every platform.
func (s *Source) NextBounded(maxExclusive int32) (int32, error) {
	if maxExclusive <= 0 {
		return 0, &errors.InvalidConfiguration{What: "csprng.NextBounded", Allowed: "maxExclusive > 0"}
	}
	mask := nextPowerOfTwoMask(uint32(maxExclusive))
	for {
		u, err := s.NextU32()
		if err != nil {
			return 0, err
		}
		v := int32(u & mask)
		if v < maxExclusive {
			return v, nil
		}
	}
}

// NextInRange returns a value in [minInclusive, maxExclusive). When the
// interval is positive, it is min + NextBounded(max-min); otherwise it
// falls back to rejection sampling across the full int32 range.
func (s *Source) NextInRange(minInclusive, maxExclusive int32) (int32, error) {
	if maxExclusive > minInclusive {
		bounded, err := s.NextBounded(maxExclusive - minInclusive)
		if err != nil {
			return 0, err
		}
		return minInclusive + bounded, nil
	}
	for {
		v, err := s.NextI32()
		if err != nil {
			return 0, err
		}
		if v >= minInclusive && v < maxExclusive {
			return v, nil
		}
		// Degenerate interval (minInclusive >= maxExclusive): any draw is
		// accepted so the loop always terminates.
		if minInclusive >= maxExclusive {
			return v, nil
		}
	}
}

func nextPowerOfTwoMask(n uint32) uint32 {
	if n == 0 {
		return 0
	}
	m := n - 1
	m |= m >> 1
	m |= m >> 2
	m |= m >> 4
	m |= m >> 8
	m |= m >> 16
	return m
}

// streamRaw generates Salsa20 keystream bytes on an all-zero plaintext, one
// 64-byte block at a time via salsa.XORKeyStream (XOR against an all-zero
// input is the identity, so this yields the raw block), advancing its own
// nonce||counter by hand between blocks — rather than calling the top-level
// salsa20.XORKeyStream once over the whole output, which always restarts at
// block counter zero — so successive Source calls continue the same
// keystream instead of resetting it.
type streamRaw struct {
	key     [32]byte
	nonce   [8]byte
	counter uint64
	block   [64]byte
	pos     int
}

func (r *streamRaw) fill() {
	var in [16]byte
	copy(in[:8], r.nonce[:])
	binary.LittleEndian.PutUint64(in[8:], r.counter)
	var zero [64]byte
	salsa.XORKeyStream(r.block[:], zero[:], &in, &r.key)
	r.counter++
	r.pos = 0
}

func (r *streamRaw) nextRaw(buf []byte) error {
	for i := range buf {
		if r.pos >= 64 {
			r.fill()
		}
		buf[i] = r.block[r.pos]
		r.pos++
	}
	return nil
}

// NewStreamSource builds a deterministic Salsa20-backed CS-PRNG Source.
// key must be 32 bytes, nonce 8 bytes (spec.md §4.4's determinism
// requirement: identical (key, nonce) must yield identical output on any
// implementation, so the construction deliberately matches the ECRYPT
// Salsa20/20 reference keystream bit-for-bit — see csprng_test.go's S6
// known-answer vector).
func NewStreamSource(key, nonce []byte) (*Source, error) {
	if len(key) != 32 {
		return nil, &errors.InvalidConfiguration{What: "csprng key", Allowed: "32 bytes"}
	}
	if len(nonce) != 8 {
		return nil, &errors.InvalidConfiguration{What: "csprng nonce", Allowed: "8 bytes"}
	}
	r := &streamRaw{pos: 64}
	copy(r.key[:], key)
	copy(r.nonce[:], nonce)
	return &Source{raw: r}, nil
}
