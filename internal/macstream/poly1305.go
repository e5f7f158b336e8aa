package macstream

import (
	"fmt"

	"golang.org/x/crypto/poly1305"
)

// poly1305Hash adapts golang.org/x/crypto/poly1305's one-shot Sum function
// (which is not itself a hash.Hash, unlike every other MAC in this package)
// to the hash.Hash interface the Chain type expects: Write buffers, Sum
// computes the tag over everything buffered so far.
type poly1305Hash struct {
	key [32]byte
	buf []byte
}

func newPoly1305Hash(key []byte) (*poly1305Hash, error) {
	if len(key) != 32 {
		return nil, fmt.Errorf("macstream: poly1305 requires a 32-byte one-time key")
	}
	h := &poly1305Hash{}
	copy(h.key[:], key)
	return h, nil
}

func (h *poly1305Hash) Write(p []byte) (int, error) {
	h.buf = append(h.buf, p...)
	return len(p), nil
}

func (h *poly1305Hash) Sum(b []byte) []byte {
	var tag [16]byte
	poly1305.Sum(&tag, h.buf, &h.key)
	return append(b, tag[:]...)
}

func (h *poly1305Hash) Reset() { h.buf = nil }

func (h *poly1305Hash) Size() int { return 16 }

func (h *poly1305Hash) BlockSize() int { return 16 }
