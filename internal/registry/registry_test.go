package registry

import (
	"testing"

	"github.com/obscurcore/obsc/internal/errors"
)

func TestLookupCipherRejectsBadKeySize(t *testing.T) {
	_, err := LookupCipher(CipherAES, 100, 0)
	var mismatch *errors.KeySizeMismatch
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected KeySizeMismatch, got %v", err)
	}
}

func TestLookupCipherUnavailable(t *testing.T) {
	_, err := LookupCipher(CipherSosemanuk, 0, 0)
	var cfg *errors.InvalidConfiguration
	if !errors.As(err, &cfg) {
		t.Fatalf("expected InvalidConfiguration, got %v", err)
	}
}

func TestModeCompatibleRejectsAEADOverNon128BitBlock(t *testing.T) {
	// Hypothetical: no registered cipher has a non-128 block size today,
	// but the rule must hold structurally.
	c, _ := Cipher(CipherAES)
	if !ModeCompatible(c, ModeGCM) {
		t.Fatalf("AES-128 block should accept GCM")
	}
	c.BlockSizeBits = 64
	if ModeCompatible(c, ModeGCM) {
		t.Fatalf("GCM should be rejected over a 64-bit block cipher")
	}
}

func TestLookupModeRejectsCBCOverStreamCipher(t *testing.T) {
	_, err := LookupMode(CipherChaCha20, ModeCBC)
	if err == nil {
		t.Fatalf("expected error selecting a block mode for a stream cipher")
	}
}

func TestLookupCurveBrainpoolUnavailable(t *testing.T) {
	_, err := LookupCurve(CurveBrainpoolP256)
	if err == nil {
		t.Fatalf("expected brainpool curve lookup to fail")
	}
}
