package cipherstream

import "fmt"

// hc128 implements the HC-128 stream cipher (Hongjun Wu, eSTREAM portfolio).
// No repo in the dependency pack carries an HC-128 implementation, and it has
// no maintained package anywhere in the golang.org/x/crypto tree, so unlike
// every other cipher in this package it is not dependency-backed: it is
// hand-rolled directly from the published HC-128 specification, the way the
// teacher hand-rolls its own padding and header framing instead of pulling in
// a library for something this narrow. See DESIGN.md.
type hc128 struct {
	p, q [512]uint32
	cnt  uint32
}

func rotr32(x uint32, n uint) uint32 { return (x >> n) | (x << (32 - n)) }
func rotl32(x uint32, n uint) uint32 { return (x << n) | (x >> (32 - n)) }

func hc128f1(x uint32) uint32 { return rotr32(x, 7) ^ rotr32(x, 18) ^ (x >> 3) }
func hc128f2(x uint32) uint32 { return rotr32(x, 17) ^ rotr32(x, 19) ^ (x >> 10) }

func hc128g1(x, y, z uint32) uint32 { return (rotr32(x, 10) ^ rotr32(z, 23)) + rotr32(y, 8) }
func hc128g2(x, y, z uint32) uint32 { return (rotl32(x, 10) ^ rotl32(z, 23)) + rotl32(y, 8) }

func byte0(x uint32) uint32 { return x & 0xff }
func byte2(x uint32) uint32 { return (x >> 16) & 0xff }

func (c *hc128) h1(x uint32) uint32 { return c.q[byte0(x)] + c.q[256+byte2(x)] }
func (c *hc128) h2(x uint32) uint32 { return c.p[byte0(x)] + c.p[256+byte2(x)] }

func newHC128(key, iv []byte) (*hc128, error) {
	if len(key) != 16 {
		return nil, fmt.Errorf("cipherstream: HC-128 requires a 128-bit key")
	}
	if len(iv) != 16 {
		return nil, fmt.Errorf("cipherstream: HC-128 requires a 128-bit nonce")
	}

	var k, n [4]uint32
	for i := 0; i < 4; i++ {
		k[i] = leUint32(key[i*4:])
		n[i] = leUint32(iv[i*4:])
	}

	w := make([]uint32, 1280)
	for i := 0; i < 4; i++ {
		w[i] = k[i]
		w[i+4] = n[i]
	}
	for i := 8; i < 16; i++ {
		w[i] = w[i-8]
	}
	for i := 16; i < 1280; i++ {
		w[i] = hc128f2(w[i-2]) + w[i-7] + hc128f1(w[i-15]) + w[i-16] + uint32(i)
	}

	c := &hc128{}
	copy(c.p[:], w[256:768])
	copy(c.q[:], w[768:1280])

	for i := uint32(0); i < 1024; i++ {
		c.step()
	}
	c.cnt = 0
	return c, nil
}

// step produces one 32-bit keystream word and advances the internal counter.
func (c *hc128) step() uint32 {
	j := c.cnt % 512
	var out uint32
	if (c.cnt/512)%2 == 0 {
		c.p[j] = c.p[j] + c.p[(j-3)%512] + hc128g1(c.p[(j-10)%512], c.p[(j+1)%512], c.q[j%256])
		out = c.h1(c.p[(j-12)%512]) ^ c.p[j]
	} else {
		c.q[j] = c.q[j] + c.q[(j-3)%512] + hc128g2(c.q[(j-10)%512], c.q[(j+1)%512], c.p[j%256])
		out = c.h2(c.q[(j-12)%512]) ^ c.q[j]
	}
	c.cnt++
	return out
}

func leUint32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

// XORKeyStream generates len(src) bytes of keystream and XORs them into dst.
func (c *hc128) XORKeyStream(dst, src []byte) {
	i := 0
	for i+4 <= len(src) {
		w := c.step()
		dst[i] = src[i] ^ byte(w)
		dst[i+1] = src[i+1] ^ byte(w>>8)
		dst[i+2] = src[i+2] ^ byte(w>>16)
		dst[i+3] = src[i+3] ^ byte(w>>24)
		i += 4
	}
	if i < len(src) {
		w := c.step()
		buf := [4]byte{byte(w), byte(w >> 8), byte(w >> 16), byte(w >> 24)}
		for k := 0; i < len(src); i, k = i+1, k+1 {
			dst[i] = src[i] ^ buf[k]
		}
	}
}
