package manifest

import (
	"crypto/subtle"

	"golang.org/x/crypto/blake2b"
)

// confirmationTag is the fixed ASCII tag spec.md §4.6 step 3 folds into the
// key-confirmation token, so confirmation blobs cannot be confused with
// any other MAC computed under the manifest key.
const confirmationTag = "OBSC-KEY-CONFIRM-v1"

// confirmationToken builds the canonical "confirmation token" (fixed ASCII
// tag || ephemeral-or-nil || salt) spec.md §4.6 step 3 describes.
func confirmationToken(ephemeralPublic, salt []byte) []byte {
	token := make([]byte, 0, len(confirmationTag)+len(ephemeralPublic)+len(salt))
	token = append(token, confirmationTag...)
	token = append(token, ephemeralPublic...)
	token = append(token, salt...)
	return token
}

// computeConfirmation hashes the confirmation token keyed with the
// candidate manifest key, using keyed BLAKE2b-256 (cheap, and distinct
// from whichever primitive secures the manifest itself or its MAC).
func computeConfirmation(manifestKey, ephemeralPublic, salt []byte) ([]byte, error) {
	h, err := blake2b.New256(manifestKey)
	if err != nil {
		return nil, err
	}
	h.Write(confirmationToken(ephemeralPublic, salt))
	return h.Sum(nil), nil
}

// verifyConfirmation reports whether candidateKey matches the header's
// key-confirmation blob, compared in constant time per spec.md §7's
// constant-time comparison requirement.
func verifyConfirmation(candidateKey, ephemeralPublic, salt, want []byte) (bool, error) {
	got, err := computeConfirmation(candidateKey, ephemeralPublic, salt)
	if err != nil {
		return false, err
	}
	return subtle.ConstantTimeCompare(got, want) == 1, nil
}
