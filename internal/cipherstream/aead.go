package cipherstream

import (
	"crypto/cipher"
	"fmt"
)

// aeadLike is satisfied by both cipher.AEAD (GCM) and the hand-rolled eax
// type, so cipherstream.Wrapper can treat both uniformly.
type aeadLike interface {
	NonceSize() int
	Overhead() int
	Seal(dst, nonce, plaintext, additionalData []byte) []byte
	Open(dst, nonce, ciphertext, additionalData []byte) ([]byte, error)
}

func gcmFor(block cipher.Block, nonceSize int) (aeadLike, error) {
	if nonceSize <= 0 {
		nonceSize = 12
	}
	g, err := cipher.NewGCMWithNonceSize(block, nonceSize)
	if err != nil {
		return nil, fmt.Errorf("gcm: %w", err)
	}
	return g, nil
}

func eaxFor(block cipher.Block) (aeadLike, error) {
	return newEAX(block, block.BlockSize())
}
