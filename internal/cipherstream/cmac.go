package cipherstream

import "crypto/cipher"

// cmac implements the one-key CBC-MAC (RFC 4493 / OMAC1) over an arbitrary
// 128-bit-block cipher.Block. It backs the EAX AEAD construction below; none
// of golang.org/x/crypto, circl, or Picocrypt/serpent export a standalone
// CMAC, so this is grounded directly on RFC 4493's pseudocode rather than on
// any example repo.
type cmac struct {
	block cipher.Block
	k1    []byte
	k2    []byte
}

func newCMAC(block cipher.Block) *cmac {
	bs := block.BlockSize()
	zero := make([]byte, bs)
	l := make([]byte, bs)
	block.Encrypt(l, zero)

	k1 := gfDouble(l)
	k2 := gfDouble(k1)
	return &cmac{block: block, k1: k1, k2: k2}
}

// gfDouble doubles a block in GF(2^128) per RFC 4493 §2.3.
func gfDouble(in []byte) []byte {
	n := len(in)
	out := make([]byte, n)
	msb := in[0]&0x80 != 0
	carry := byte(0)
	for i := n - 1; i >= 0; i-- {
		out[i] = (in[i] << 1) | carry
		if in[i]&0x80 != 0 {
			carry = 1
		} else {
			carry = 0
		}
	}
	if msb {
		out[n-1] ^= 0x87
	}
	return out
}

func xorInto(dst, src []byte) {
	for i := range dst {
		dst[i] ^= src[i]
	}
}

// Tag computes the CMAC of msg, returning a full block-sized tag.
func (c *cmac) Tag(msg []byte) []byte {
	bs := c.block.BlockSize()
	if len(msg) == 0 {
		padded := make([]byte, bs)
		padded[0] = 0x80
		xorInto(padded, c.k2)
		return c.mac(padded)
	}
	nBlocks := (len(msg) + bs - 1) / bs
	lastLen := len(msg) - (nBlocks-1)*bs
	complete := lastLen == bs

	buf := make([]byte, nBlocks*bs)
	copy(buf, msg)
	lastBlock := buf[(nBlocks-1)*bs : nBlocks*bs]
	if complete {
		xorInto(lastBlock, c.k1)
	} else {
		buf[len(msg)] = 0x80
		xorInto(lastBlock, c.k2)
	}
	return c.mac(buf)
}

func (c *cmac) mac(buf []byte) []byte {
	bs := c.block.BlockSize()
	y := make([]byte, bs)
	for off := 0; off < len(buf); off += bs {
		block := buf[off : off+bs]
		xorInto(y, block)
		next := make([]byte, bs)
		c.block.Encrypt(next, y)
		y = next
	}
	return y
}

// CMACHash exposes the cmac construction as a hash.Hash, so it can be used
// anywhere a keyed MAC primitive is expected (internal/macstream's registry
// of MAC constructions). CMAC has no true incremental mode shorter than the
// whole message — like the teacher's own MAC usage, the tag only exists
// once every byte has been seen — so Write buffers and Sum computes the
// tag lazily.
type CMACHash struct {
	c   *cmac
	buf []byte
}

// NewCMACHash wraps block (AES, by registry convention) in the CMAC
// construction.
func NewCMACHash(block cipher.Block) *CMACHash {
	return &CMACHash{c: newCMAC(block)}
}

func (h *CMACHash) Write(p []byte) (int, error) {
	h.buf = append(h.buf, p...)
	return len(p), nil
}

func (h *CMACHash) Sum(b []byte) []byte {
	return append(b, h.c.Tag(h.buf)...)
}

func (h *CMACHash) Reset() { h.buf = nil }

func (h *CMACHash) Size() int { return h.c.block.BlockSize() }

func (h *CMACHash) BlockSize() int { return h.c.block.BlockSize() }
