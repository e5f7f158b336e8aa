package cipherstream

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"

	"github.com/Picocrypt/serpent"
	"golang.org/x/crypto/twofish"

	"github.com/obscurcore/obsc/internal/registry"
)

// blockCipherFor constructs a cipher.Block for a registered block cipher id.
// Mirrors Picocrypt-NG's internal/crypto/cipher.go cascade construction, minus
// the cascade: here each block cipher stands alone behind a mode chosen by
// the caller.
func blockCipherFor(id registry.CipherID, key []byte) (cipher.Block, error) {
	switch id {
	case registry.CipherAES:
		b, err := aes.NewCipher(key)
		if err != nil {
			return nil, fmt.Errorf("aes: %w", err)
		}
		return b, nil
	case registry.CipherSerpent:
		b, err := serpent.NewCipher(key)
		if err != nil {
			return nil, fmt.Errorf("serpent: %w", err)
		}
		return b, nil
	case registry.CipherTwofish:
		b, err := twofish.NewCipher(key)
		if err != nil {
			return nil, fmt.Errorf("twofish: %w", err)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("cipherstream: %s is not a block cipher", id)
	}
}
