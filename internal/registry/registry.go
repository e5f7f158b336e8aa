package registry

import (
	"fmt"

	"github.com/obscurcore/obsc/internal/errors"
)

func containsInt(set []int, v int) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// LookupCipher validates a cipher id and requested key/nonce sizes,
// failing with InvalidConfiguration before any bytes move.
func LookupCipher(id CipherID, keyBits, nonceBits int) (CipherSpec, error) {
	c, ok := Cipher(id)
	if !ok || c.Unavailable {
		reason := "unknown cipher"
		if ok {
			reason = c.UnavailableReason
		}
		return CipherSpec{}, &errors.InvalidConfiguration{
			What:    fmt.Sprintf("cipher:%s", id),
			Allowed: reason,
		}
	}
	if keyBits != 0 && !containsInt(c.AllowableKeySizesBits, keyBits) {
		return CipherSpec{}, &errors.KeySizeMismatch{
			Primitive: string(id), GotBits: keyBits, Allowed: c.AllowableKeySizesBits,
		}
	}
	if nonceBits != 0 && !containsInt(c.AllowableNonceSizesBits, nonceBits) {
		return CipherSpec{}, &errors.NonceSizeMismatch{
			Primitive: string(id), GotBits: nonceBits, Allowed: c.AllowableNonceSizesBits,
		}
	}
	return c, nil
}

// LookupMode validates that mode is usable with cipher id, rejecting e.g.
// GCM/EAX over a non-128-bit block cipher.
func LookupMode(id CipherID, mode BlockCipherMode) (CipherSpec, error) {
	c, err := LookupCipher(id, 0, 0)
	if err != nil {
		return CipherSpec{}, err
	}
	if c.Kind != KindBlock {
		return CipherSpec{}, &errors.InvalidConfiguration{
			What:    fmt.Sprintf("mode:%s over stream cipher %s", mode, id),
			Allowed: "block ciphers only",
		}
	}
	if !ModeCompatible(c, mode) {
		return CipherSpec{}, &errors.InvalidConfiguration{
			What:    fmt.Sprintf("mode:%s+%s", mode, id),
			Allowed: "CTR, CBC, CFB, OFB for any block size; GCM, EAX only for 128-bit block ciphers",
		}
	}
	return c, nil
}

// LookupHash validates a hash id.
func LookupHash(id HashID) (HashSpec, error) {
	h, ok := Hash(id)
	if !ok || h.Unavailable {
		reason := "unknown hash"
		if ok {
			reason = h.UnavailableReason
		}
		return HashSpec{}, &errors.InvalidConfiguration{What: fmt.Sprintf("hash:%s", id), Allowed: reason}
	}
	return h, nil
}

// LookupMAC validates a MAC id and key size.
func LookupMAC(id MACID, keyBits int) (MACSpec, error) {
	m, ok := MAC(id)
	if !ok || m.Unavailable {
		reason := "unknown MAC"
		if ok {
			reason = m.UnavailableReason
		}
		return MACSpec{}, &errors.InvalidConfiguration{What: fmt.Sprintf("mac:%s", id), Allowed: reason}
	}
	if keyBits != 0 && len(m.AllowableKeySizesBits) > 0 && !containsInt(m.AllowableKeySizesBits, keyBits) {
		return MACSpec{}, &errors.KeySizeMismatch{
			Primitive: string(id), GotBits: keyBits, Allowed: m.AllowableKeySizesBits,
		}
	}
	return m, nil
}

// LookupKDF validates a KDF id.
func LookupKDF(id KDFID) (KDFSpec, error) {
	k, ok := KDF(id)
	if !ok {
		return KDFSpec{}, &errors.InvalidConfiguration{What: fmt.Sprintf("kdf:%s", id), Allowed: "scrypt, pbkdf2"}
	}
	return k, nil
}

// LookupCurve validates a curve id.
func LookupCurve(id CurveID) (CurveSpec, error) {
	c, ok := Curve(id)
	if !ok || c.Unavailable {
		reason := "unknown curve"
		if ok {
			reason = c.UnavailableReason
		}
		return CurveSpec{}, &errors.InvalidConfiguration{What: fmt.Sprintf("curve:%s", id), Allowed: reason}
	}
	return c, nil
}
