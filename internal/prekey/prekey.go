// Package prekey combines multiple pre-key secrets — a passphrase plus any
// number of secret files — into the single symmetric-direct pre-key that
// internal/manifest's KDF stage derives a manifest key from, adapted from
// the teacher's internal/keyfile combiner (SHA3-256 ordered concatenation
// vs. unordered per-secret XOR).
package prekey

import (
	"crypto/subtle"

	"golang.org/x/crypto/sha3"
)

// Combine merges secrets into one 32-byte pre-key. If ordered is true, the
// secrets are hashed as one sequential stream (SHA3-256(s1||s2||...)) and
// their order matters. If false, each secret is hashed independently and
// the digests are XORed together (SHA3-256(s1) XOR SHA3-256(s2) XOR ...),
// so the order they're supplied in doesn't matter.
//
// An empty secrets list returns an all-zero pre-key, matching the teacher's
// empty-keyfile-list convention.
func Combine(secrets [][]byte, ordered bool) []byte {
	if len(secrets) == 0 {
		return make([]byte, 32)
	}
	if ordered {
		return combineOrdered(secrets)
	}
	return combineUnordered(secrets)
}

func combineOrdered(secrets [][]byte) []byte {
	h := sha3.New256()
	for _, s := range secrets {
		h.Write(s)
	}
	return h.Sum(nil)
}

func combineUnordered(secrets [][]byte) []byte {
	var combined []byte
	for _, s := range secrets {
		h := sha3.New256()
		h.Write(s)
		sum := h.Sum(nil)
		if combined == nil {
			combined = sum
			continue
		}
		for i := range combined {
			combined[i] ^= sum[i]
		}
	}
	return combined
}

// IsDegenerate reports whether combined is all-zero. Under unordered
// combination this happens when an even number of the supplied secrets are
// byte-identical (their digests cancel out under XOR) — the caller should
// treat this as a configuration error rather than silently packaging under
// an all-zero pre-key.
func IsDegenerate(combined []byte) bool {
	zero := make([]byte, len(combined))
	return subtle.ConstantTimeCompare(combined, zero) == 1
}
