// Package macstream implements the MAC Stream / Hash Stream component of
// spec.md §4.3: a pass-through that folds bytes into a keyed MAC as they
// flow to an inner sink, emitting the tag at Finalize and rejecting writes
// afterward. It is the one discipline this engine ever uses authentication
// in: Encrypt-then-MAC over every ciphertext span (manifest, each payload
// item, the trailer).
package macstream

import (
	"crypto/aes"
	"crypto/hmac"
	"crypto/sha512"
	"fmt"
	"hash"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"

	"github.com/obscurcore/obsc/internal/cipherstream"
	"github.com/obscurcore/obsc/internal/errors"
	"github.com/obscurcore/obsc/internal/registry"
)

// NewMAC constructs the hash.Hash backing a registered MAC primitive,
// keyed with key. Generalizes the teacher's internal/crypto/mac.go
// NewMAC (which only ever chose between HMAC-SHA3-512 and keyed
// BLAKE2b-512) into the full registry.MACID catalogue.
func NewMAC(id registry.MACID, key []byte) (hash.Hash, error) {
	if _, err := registry.LookupMAC(id, len(key)*8); err != nil {
		return nil, err
	}
	switch id {
	case registry.MACHMAC:
		return hmac.New(sha512.New, key), nil
	case registry.MACKeccakKeyed:
		return hmac.New(sha3.NewLegacyKeccak512, key), nil
	case registry.MACBLAKE2bKeyed:
		return blake2b.New512(key)
	case registry.MACCMAC:
		block, err := aes.NewCipher(key)
		if err != nil {
			return nil, fmt.Errorf("macstream: cmac key: %w", err)
		}
		return cipherstream.NewCMACHash(block), nil
	case registry.MACPoly1305:
		return newPoly1305Hash(key)
	default:
		return nil, &errors.InvalidConfiguration{What: fmt.Sprintf("mac:%s", id), Allowed: "HMAC, CMAC, Poly1305, BLAKE2b-keyed, Keccak-keyed"}
	}
}
