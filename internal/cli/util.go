package cli

import (
	"encoding/hex"
	"fmt"
)

// decodeHex decodes a hex-encoded flag value, naming flagName in any error
// so the user can tell which flag was malformed.
func decodeHex(s, flagName string) ([]byte, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid hex: %w", flagName, err)
	}
	return b, nil
}
