package registry

// ciphers is the static cipher catalogue. Block ciphers name CTR/CBC/CFB/OFB
// as allowed non-AEAD modes; GCM/EAX are only ever allowed for 128-bit block
// ciphers (spec.md §4.2), enforced in ModeCompatible below.
var ciphers = map[CipherID]CipherSpec{
	CipherAES: {
		ID:                      CipherAES,
		Kind:                    KindBlock,
		AllowableKeySizesBits:   []int{128, 192, 256},
		DefaultKeySizeBits:      256,
		AllowableNonceSizesBits: []int{96, 128},
		DefaultNonceSizeBits:    96,
		BlockSizeBits:           128,
		DefaultMode:             ModeGCM,
		AllowedModes:            []BlockCipherMode{ModeCTR, ModeCBC, ModeCFB, ModeOFB, ModeGCM, ModeEAX},
		PaddingRequirement:      PaddingAlways,
		NonceReusePolicy:        NonceRequireRandom,
	},
	CipherSerpent: {
		ID:                      CipherSerpent,
		Kind:                    KindBlock,
		AllowableKeySizesBits:   []int{128, 192, 256},
		DefaultKeySizeBits:      256,
		AllowableNonceSizesBits: []int{128},
		DefaultNonceSizeBits:    128,
		BlockSizeBits:           128,
		DefaultMode:             ModeCTR,
		AllowedModes:            []BlockCipherMode{ModeCTR, ModeCBC, ModeCFB, ModeOFB, ModeGCM, ModeEAX},
		PaddingRequirement:      PaddingAlways,
		NonceReusePolicy:        NonceRequireRandom,
	},
	CipherTwofish: {
		ID:                      CipherTwofish,
		Kind:                    KindBlock,
		AllowableKeySizesBits:   []int{128, 192, 256},
		DefaultKeySizeBits:      256,
		AllowableNonceSizesBits: []int{128},
		DefaultNonceSizeBits:    128,
		BlockSizeBits:           128,
		DefaultMode:             ModeCTR,
		AllowedModes:            []BlockCipherMode{ModeCTR, ModeCBC, ModeCFB, ModeOFB, ModeGCM, ModeEAX},
		PaddingRequirement:      PaddingAlways,
		NonceReusePolicy:        NonceRequireRandom,
	},
	CipherSalsa20: {
		ID:                      CipherSalsa20,
		Kind:                    KindStream,
		AllowableKeySizesBits:   []int{256},
		DefaultKeySizeBits:      256,
		AllowableNonceSizesBits: []int{64},
		DefaultNonceSizeBits:    64,
		PaddingRequirement:      PaddingNone,
		NonceReusePolicy:        NonceCounterAllowed,
	},
	CipherXSalsa20: {
		ID:                      CipherXSalsa20,
		Kind:                    KindStream,
		AllowableKeySizesBits:   []int{256},
		DefaultKeySizeBits:      256,
		AllowableNonceSizesBits: []int{192},
		DefaultNonceSizeBits:    192,
		PaddingRequirement:      PaddingNone,
		NonceReusePolicy:        NonceRequireRandom,
	},
	CipherChaCha20: {
		ID:                      CipherChaCha20,
		Kind:                    KindStream,
		AllowableKeySizesBits:   []int{256},
		DefaultKeySizeBits:      256,
		AllowableNonceSizesBits: []int{96},
		DefaultNonceSizeBits:    96,
		PaddingRequirement:      PaddingNone,
		NonceReusePolicy:        NonceCounterAllowed,
	},
	CipherXChaCha20: {
		ID:                      CipherXChaCha20,
		Kind:                    KindStream,
		AllowableKeySizesBits:   []int{256},
		DefaultKeySizeBits:      256,
		AllowableNonceSizesBits: []int{192},
		DefaultNonceSizeBits:    192,
		PaddingRequirement:      PaddingNone,
		NonceReusePolicy:        NonceRequireRandom,
	},
	CipherHC128: {
		ID:                      CipherHC128,
		Kind:                    KindStream,
		AllowableKeySizesBits:   []int{128},
		DefaultKeySizeBits:      128,
		AllowableNonceSizesBits: []int{128},
		DefaultNonceSizeBits:    128,
		PaddingRequirement:      PaddingNone,
		NonceReusePolicy:        NonceRequireRandom,
	},
	// SOSEMANUK and Rabbit have no maintained Go implementation anywhere in
	// the retrieval pack or stdlib/x/crypto; they are catalogued (per
	// spec.md §1's naming) but marked Unavailable so cipherstream.New
	// rejects them with InvalidConfiguration rather than faking support.
	// See DESIGN.md.
	CipherSosemanuk: {
		ID:                CipherSosemanuk,
		Kind:              KindStream,
		Unavailable:       true,
		UnavailableReason: "no Go implementation available in the dependency pack",
	},
	CipherRabbit: {
		ID:                CipherRabbit,
		Kind:              KindStream,
		Unavailable:       true,
		UnavailableReason: "no Go implementation available in the dependency pack",
	},
}

// Cipher looks up a cipher's registry entry.
func Cipher(id CipherID) (CipherSpec, bool) {
	c, ok := ciphers[id]
	return c, ok
}

// ModeCompatible reports whether mode may be used with the given cipher,
// enforcing that AEAD modes (GCM, EAX) are only ever accepted for 128-bit
// block ciphers (spec.md §4.2).
func ModeCompatible(c CipherSpec, mode BlockCipherMode) bool {
	if c.Kind != KindBlock {
		return false
	}
	if mode.IsAEAD() && c.BlockSizeBits != 128 {
		return false
	}
	for _, m := range c.AllowedModes {
		if m == mode {
			return true
		}
	}
	return false
}

// PaddingForMode returns the effective padding requirement once a mode is
// chosen: AEAD and the non-padded stream modes never pad; CBC always pads.
func PaddingForMode(mode BlockCipherMode) PaddingRequirement {
	switch mode {
	case ModeCBC:
		return PaddingAlways
	default:
		return PaddingNone
	}
}
