package cipherstream

import (
	"crypto/cipher"
	"crypto/subtle"
	"fmt"
)

// eax implements the EAX AEAD mode (Bellare/Rogaway/Wagner) over any
// 128-bit-block cipher.Block, built from the cmac construction above plus
// CTR mode. Go's standard library and golang.org/x/crypto both export GCM
// but neither exports EAX; spec.md §4.2 names EAX as an allowed AEAD mode
// for 128-bit block ciphers (the teacher's Serpent/Twofish CTR-then-MAC
// idiom in internal/crypto/cipher.go is the closest grounding available),
// so it is built here directly from the primitives beneath GCM.
type eax struct {
	block   cipher.Block
	mac     *cmac
	tagSize int
}

// newEAX wraps block with the EAX construction. tagSize is in bytes.
func newEAX(block cipher.Block, tagSize int) (*eax, error) {
	if block.BlockSize() != 16 {
		return nil, fmt.Errorf("cipherstream: EAX requires a 128-bit block cipher")
	}
	if tagSize <= 0 || tagSize > block.BlockSize() {
		tagSize = block.BlockSize()
	}
	return &eax{block: block, mac: newCMAC(block), tagSize: tagSize}, nil
}

func (e *eax) NonceSize() int { return e.block.BlockSize() }
func (e *eax) Overhead() int  { return e.tagSize }

func omacBlock(bs int, t byte) []byte {
	b := make([]byte, bs)
	b[bs-1] = t
	return b
}

func (e *eax) omac(t byte, data []byte) []byte {
	bs := e.block.BlockSize()
	prefix := omacBlock(bs, t)
	buf := make([]byte, 0, bs+len(data))
	buf = append(buf, prefix...)
	buf = append(buf, data...)
	return e.mac.Tag(buf)
}

// Seal encrypts plaintext and appends an e.tagSize-byte tag, in the
// cipher.AEAD calling convention (dst may alias plaintext's backing array
// only via append semantics, as with stdlib AEAD implementations).
func (e *eax) Seal(dst, nonce, plaintext, additionalData []byte) []byte {
	nPrime := e.omac(0, nonce)
	hPrime := e.omac(1, additionalData)

	ciphertext := make([]byte, len(plaintext))
	stream := cipher.NewCTR(e.block, nPrime)
	stream.XORKeyStream(ciphertext, plaintext)

	cPrime := e.omac(2, ciphertext)

	tag := make([]byte, e.block.BlockSize())
	for i := range tag {
		tag[i] = nPrime[i] ^ hPrime[i] ^ cPrime[i]
	}

	ret, out := sliceForAppend(dst, len(ciphertext)+e.tagSize)
	copy(out, ciphertext)
	copy(out[len(ciphertext):], tag[:e.tagSize])
	return ret
}

// Open verifies and decrypts ciphertext||tag, returning an error on auth failure.
func (e *eax) Open(dst, nonce, ciphertextAndTag, additionalData []byte) ([]byte, error) {
	if len(ciphertextAndTag) < e.tagSize {
		return nil, fmt.Errorf("cipherstream: EAX ciphertext shorter than tag")
	}
	ciphertext := ciphertextAndTag[:len(ciphertextAndTag)-e.tagSize]
	gotTag := ciphertextAndTag[len(ciphertextAndTag)-e.tagSize:]

	nPrime := e.omac(0, nonce)
	hPrime := e.omac(1, additionalData)
	cPrime := e.omac(2, ciphertext)

	wantTag := make([]byte, e.block.BlockSize())
	for i := range wantTag {
		wantTag[i] = nPrime[i] ^ hPrime[i] ^ cPrime[i]
	}

	if subtle.ConstantTimeCompare(wantTag[:e.tagSize], gotTag) != 1 {
		return nil, fmt.Errorf("cipherstream: EAX authentication failed")
	}

	plaintext := make([]byte, len(ciphertext))
	stream := cipher.NewCTR(e.block, nPrime)
	stream.XORKeyStream(plaintext, ciphertext)

	ret, out := sliceForAppend(dst, len(plaintext))
	copy(out, plaintext)
	return ret, nil
}

func sliceForAppend(in []byte, n int) (head, tail []byte) {
	if total := len(in) + n; cap(in) >= total {
		head = in[:total]
	} else {
		head = make([]byte, total)
		copy(head, in)
	}
	tail = head[len(in):]
	return
}
