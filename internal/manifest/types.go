// Package manifest implements the Manifest Pipeline (spec.md §4.6): the
// package header, the manifest DTO and its encrypt-then-MAC envelope, the
// symmetric-direct and UM1-hybrid manifest-key schemes, and the write/read
// orchestration that drives internal/multiplex over each item's own
// cipherstream/macstream pipeline. Grounded structurally on the teacher's
// internal/header (clear preamble read/write/auth) and internal/volume
// (phased encrypt/decrypt orchestration) packages, generalized from one
// fixed single-item cipher suite to the registry-driven, multi-item,
// multi-scheme design spec.md demands.
package manifest

import (
	"github.com/google/uuid"

	"github.com/obscurcore/obsc/internal/cipherstream"
	"github.com/obscurcore/obsc/internal/kdf"
	"github.com/obscurcore/obsc/internal/registry"
)

// ItemType tags what a PayloadItem actually is.
type ItemType int

const (
	ItemFile ItemType = iota
	ItemMessage
	ItemKeyAction
)

func (t ItemType) String() string {
	switch t {
	case ItemFile:
		return "file"
	case ItemMessage:
		return "message"
	case ItemKeyAction:
		return "key-action"
	default:
		return "unknown"
	}
}

// SchemeSelector picks how the manifest key is derived (spec.md §4.6).
type SchemeSelector int

const (
	SchemeSymmetricDirect SchemeSelector = iota
	SchemeUM1Hybrid
)

// LayoutScheme names one of the three payload-multiplexing layouts.
type LayoutScheme int

const (
	LayoutSimple LayoutScheme = iota
	LayoutFrameshift
	LayoutFabric
)

func (l LayoutScheme) String() string {
	switch l {
	case LayoutSimple:
		return "simple"
	case LayoutFrameshift:
		return "frameshift"
	case LayoutFabric:
		return "fabric"
	default:
		return "unknown"
	}
}

// EntropyScheme selects the CS-PRNG's seed source (spec.md §4.4).
type EntropyScheme int

const (
	EntropyStreamCipherCsprng EntropyScheme = iota
	EntropyPreallocation
)

// CipherConfig is a fully-resolved per-item or manifest cipher setup.
// Key is empty wherever the config lives in the clear header; it is always
// populated inside the encrypted manifest for per-item configs.
type CipherConfig struct {
	Cipher  registry.CipherID
	Mode    registry.BlockCipherMode
	Key     []byte
	Nonce   []byte
	Padding cipherstream.PaddingScheme
}

// MACConfig is a fully-resolved MAC setup. Tag is populated on write once
// the item (or manifest, or trailer) has been sealed.
type MACConfig struct {
	MAC MACID
	Key []byte
	Tag []byte
}

// MACID is a local alias kept distinct from registry.MACID so manifest
// call sites read naturally; it is registry.MACID under the hood.
type MACID = registry.MACID

// PayloadItem is the per-item descriptor carried inside the manifest
// (spec.md §3). ID is a 128-bit uuid.UUID, grounded on the uuid.UUID usage
// pattern for connection/DID identifiers seen elsewhere in the pack.
type PayloadItem struct {
	ID     uuid.UUID
	Path   string
	Length int64 // declared plaintext length; authoritative
	Type   ItemType
	Cipher CipherConfig
	Auth   MACConfig
	KDF    *kdf.Params // optional per-item KDF, unused unless Cipher.Key is itself derived
}

// CipherOverhead returns the number of ciphertext bytes beyond the
// plaintext length this item's cipher+MAC combination adds: the 16-byte
// AEAD tag for GCM/EAX, the outer MAC tag (always present, since the
// Encrypt-then-MAC chain covers AEAD output too), plus CBC padding up to
// one full block.
func (it *PayloadItem) CipherOverhead() (int, error) {
	spec, err := registry.LookupCipher(it.Cipher.Cipher, 0, 0)
	if err != nil {
		return 0, err
	}
	overhead := 0
	if spec.Kind == registry.KindBlock && it.Cipher.Mode == registry.ModeCBC {
		bs := spec.BlockSizeBits / 8
		overhead += bs - int(it.Length%int64(bs))
	}
	if spec.Kind == registry.KindBlock && it.Cipher.Mode.IsAEAD() {
		overhead += 16 // GCM/EAX tags are 128 bits regardless of the MAC catalogue
	}
	m, err := registry.LookupMAC(it.Auth.MAC, 0)
	if err != nil {
		return 0, err
	}
	overhead += m.TagSizeBits / 8
	return overhead, nil
}

// PayloadConfiguration describes how items are woven together (spec.md
// §3). It travels in the clear header: knowing the layout/stride bounds
// does not, by itself, reveal item count or boundaries without the
// manifest's per-item lengths and keys.
type PayloadConfiguration struct {
	Scheme  LayoutScheme
	Entropy EntropyScheme

	// EntropyStreamCipherCsprng: ordering/stride seed.
	SeedKey   []byte
	SeedNonce []byte
	// Frameshift's domain-separated padding-content stream.
	PadKey   []byte
	PadNonce []byte
	// EntropyPreallocation.
	Preallocated []byte

	MinPadding, MaxPadding int // Frameshift
	MinStripe, MaxStripe   int // Fabric
}

// Manifest is the package index (spec.md §3): one per package, created
// before any payload bytes are produced, opaque without the manifest key.
type Manifest struct {
	FormatVersion uint16
	Items         []PayloadItem
	Metadata      map[string]string
}

// KDFConfig is the header's clear description of how to re-derive the
// manifest key from a candidate pre-key or UM1 shared secret.
type KDFConfig struct {
	ID         registry.KDFID
	Salt       []byte
	N, R, P    int
	Iterations int
	OutputBits int
}

func (c KDFConfig) toParams() kdf.Params {
	return kdf.Params{ID: c.ID, N: c.N, R: c.R, P: c.P, Iterations: c.Iterations, OutputBits: c.OutputBits}
}

func fromKDFParams(id registry.KDFID, salt []byte, p kdf.Params) KDFConfig {
	return KDFConfig{ID: id, Salt: salt, N: p.N, R: p.R, P: p.P, Iterations: p.Iterations, OutputBits: p.OutputBits}
}

// PackageHeader is the clear-text preamble (spec.md §3, §6): format magic,
// manifest-crypto parameters, the optional key-confirmation blob, and the
// (non-sensitive) payload layout configuration.
type PackageHeader struct {
	Version uint16
	Scheme  SchemeSelector

	ManifestCipher registry.CipherID
	ManifestMode   registry.BlockCipherMode
	ManifestNonce  []byte
	ManifestKDF    KDFConfig

	ManifestMAC      registry.MACID
	ManifestMACNonce []byte

	// UM1-hybrid only.
	Curve           registry.CurveID
	EphemeralPublic []byte
	SenderPublic    []byte // sender's static public key, needed for the receiver's DH
	ReceiverPublic  []byte // receiver static public key written to; Read does not consult it and tries every candidate keypair

	KeyConfirmation []byte

	Payload PayloadConfiguration

	Comment string // plaintext, NOT covered by the manifest MAC

	TrailerMACPresent bool
	TrailerMAC        registry.MACID

	Checksum []byte // integrity check over every other header field
}

const (
	Magic          = "OBSC"
	CurrentVersion = uint16(1)
)
