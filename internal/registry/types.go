// Package registry is the primitive catalogue: a static, table-driven
// description of every cipher/hash/MAC/KDF/curve the engine knows about,
// consumed by every other component to validate parameter combinations
// before any bytes move.
package registry

// PaddingRequirement describes whether a cipher construction needs padding.
type PaddingRequirement int

const (
	PaddingNone PaddingRequirement = iota
	PaddingIfUnderOneBlock
	PaddingAlways
)

// NonceReusePolicy describes how strict a primitive is about nonce reuse.
type NonceReusePolicy int

const (
	NonceNotApplicable NonceReusePolicy = iota
	NonceReuseAllowed
	NonceCounterAllowed
	NonceRequireRandom
)

// CipherKind distinguishes block ciphers (which need a mode) from stream
// ciphers (which are already a keystream generator).
type CipherKind int

const (
	KindBlock CipherKind = iota
	KindStream
)

// BlockCipherMode is the mode of operation layered over a block cipher.
type BlockCipherMode int

const (
	ModeCTR BlockCipherMode = iota
	ModeCBC
	ModeCFB
	ModeOFB
	ModeGCM
	ModeEAX
)

func (m BlockCipherMode) IsAEAD() bool { return m == ModeGCM || m == ModeEAX }

func (m BlockCipherMode) String() string {
	switch m {
	case ModeCTR:
		return "CTR"
	case ModeCBC:
		return "CBC"
	case ModeCFB:
		return "CFB"
	case ModeOFB:
		return "OFB"
	case ModeGCM:
		return "GCM"
	case ModeEAX:
		return "EAX"
	default:
		return "unknown"
	}
}

// CipherID names a concrete cipher primitive.
type CipherID string

const (
	CipherAES       CipherID = "AES"
	CipherSerpent   CipherID = "Serpent"
	CipherTwofish   CipherID = "Twofish"
	CipherSalsa20   CipherID = "Salsa20"
	CipherXSalsa20  CipherID = "XSalsa20"
	CipherChaCha20  CipherID = "ChaCha20"
	CipherXChaCha20 CipherID = "XChaCha20"
	CipherHC128     CipherID = "HC-128"
	CipherSosemanuk CipherID = "SOSEMANUK"
	CipherRabbit    CipherID = "Rabbit"
)

// HashID names a concrete hash primitive.
type HashID string

const (
	HashBLAKE2b    HashID = "BLAKE2b"
	HashSHA3       HashID = "SHA-3"
	HashSHA2       HashID = "SHA-2"
	HashRIPEMD160  HashID = "RIPEMD-160"
	HashWhirlpool  HashID = "Whirlpool"
	HashTiger      HashID = "Tiger"
)

// MACID names a concrete MAC construction.
type MACID string

const (
	MACHMAC        MACID = "HMAC"
	MACCMAC        MACID = "CMAC"
	MACPoly1305    MACID = "Poly1305"
	MACBLAKE2bKeyed MACID = "BLAKE2b-keyed"
	MACKeccakKeyed MACID = "Keccak-keyed"
)

// KDFID names a concrete key-derivation function.
type KDFID string

const (
	KDFScrypt KDFID = "scrypt"
	KDFPBKDF2 KDFID = "pbkdf2"
)

// CurveID names a concrete elliptic curve.
type CurveID string

const (
	CurveX25519   CurveID = "Curve25519"
	CurveEd25519  CurveID = "Ed25519"
	CurveP256     CurveID = "P-256"
	CurveP384     CurveID = "P-384"
	CurveP521     CurveID = "P-521"
	CurveBrainpoolP256 CurveID = "brainpoolP256r1"
)

// CipherSpec is a Primitive Registry entry for a cipher.
type CipherSpec struct {
	ID                      CipherID
	Kind                    CipherKind
	AllowableKeySizesBits   []int
	DefaultKeySizeBits      int
	AllowableNonceSizesBits []int
	DefaultNonceSizeBits    int
	BlockSizeBits           int // 0 for stream ciphers
	DefaultMode             BlockCipherMode
	AllowedModes            []BlockCipherMode
	PaddingRequirement      PaddingRequirement
	NonceReusePolicy        NonceReusePolicy
	Unavailable             bool
	UnavailableReason       string
}

// HashSpec is a Primitive Registry entry for a hash function.
type HashSpec struct {
	ID                HashID
	OutputSizeBits    int
	Unavailable       bool
	UnavailableReason string
}

// MACSpec is a Primitive Registry entry for a MAC construction.
type MACSpec struct {
	ID                    MACID
	AllowableKeySizesBits []int
	DefaultKeySizeBits    int
	AllowableNonceSizesBits []int
	TagSizeBits           int
	Unavailable           bool
	UnavailableReason     string
}

// KDFSpec is a Primitive Registry entry for a key-derivation function.
type KDFSpec struct {
	ID                KDFID
	DefaultOutputBits int
}

// CurveSpec is a Primitive Registry entry for an elliptic curve.
type CurveSpec struct {
	ID                CurveID
	ScalarSizeBits    int
	PointSizeBits     int
	Unavailable       bool
	UnavailableReason string
}
