package manifest

import (
	"bytes"
	"testing"

	"github.com/obscurcore/obsc/internal/errors"
	"github.com/obscurcore/obsc/internal/kdf"
	"github.com/obscurcore/obsc/internal/keyagreement"
	"github.com/obscurcore/obsc/internal/registry"
)

func testItems() []ItemInput {
	return []ItemInput{
		{Path: "a.txt", Type: ItemFile, Plaintext: bytes.Repeat([]byte("alpha-"), 20), Cipher: registry.CipherXChaCha20, MAC: registry.MACBLAKE2bKeyed},
		{Path: "b.txt", Type: ItemFile, Plaintext: bytes.Repeat([]byte("B"), 513), Cipher: registry.CipherAES, Mode: registry.ModeGCM, MAC: registry.MACBLAKE2bKeyed},
		{Path: "c.msg", Type: ItemMessage, Plaintext: []byte("short"), Cipher: registry.CipherSerpent, Mode: registry.ModeCBC, MAC: registry.MACHMAC},
	}
}

func baseOptions(layout LayoutScheme) WriteOptions {
	return WriteOptions{
		Scheme:          SchemeSymmetricDirect,
		PreKey:          []byte("correct horse battery staple"),
		KDFParams:       kdf.DefaultParams(registry.KDFScrypt),
		ManifestCipher:  registry.CipherXChaCha20,
		ManifestMAC:     registry.MACBLAKE2bKeyed,
		KeyConfirmation: true,
		Layout:          layout,
		Entropy:         EntropyStreamCipherCsprng,
		MinPadding:      4,
		MaxPadding:      32,
		MinStripe:       8,
		MaxStripe:       64,
		Comment:         "test package",
		Metadata:        map[string]string{"origin": "unit-test"},
	}
}

func mustWrite(t *testing.T, opts WriteOptions, items []ItemInput) []byte {
	t.Helper()
	var buf bytes.Buffer
	if _, err := Write(&buf, items, opts); err != nil {
		t.Fatalf("Write: %v", err)
	}
	return buf.Bytes()
}

// TestRoundTripSimpleSymmetric covers S1: symmetric-direct scheme, Simple
// layout, stream-cipher CS-PRNG entropy.
func TestRoundTripSimpleSymmetric(t *testing.T) {
	items := testItems()
	opts := baseOptions(LayoutSimple)
	packed := mustWrite(t, opts, items)

	result, err := ReadBytes(packed, NewPasswordProvider(opts.PreKey))
	if err != nil {
		t.Fatalf("ReadBytes: %v", err)
	}
	if len(result.Items) != len(items) {
		t.Fatalf("got %d items, want %d", len(result.Items), len(items))
	}
	if result.Comment != opts.Comment {
		t.Fatalf("comment mismatch: got %q want %q", result.Comment, opts.Comment)
	}
	if result.Metadata["origin"] != "unit-test" {
		t.Fatalf("metadata not preserved: %v", result.Metadata)
	}
	for i, it := range items {
		if !bytes.Equal(result.Items[i].Plaintext, it.Plaintext) {
			t.Fatalf("item %d plaintext mismatch", i)
		}
		if result.Items[i].Path != it.Path {
			t.Fatalf("item %d path mismatch: got %q want %q", i, result.Items[i].Path, it.Path)
		}
	}
}

// TestRoundTripFrameshiftUM1Hybrid covers S2: UM1-hybrid scheme, Frameshift
// layout with its domain-separated padding-content stream.
func TestRoundTripFrameshiftUM1Hybrid(t *testing.T) {
	sender, err := keyagreement.Generate(registry.CurveX25519)
	if err != nil {
		t.Fatalf("Generate sender: %v", err)
	}
	receiver, err := keyagreement.Generate(registry.CurveX25519)
	if err != nil {
		t.Fatalf("Generate receiver: %v", err)
	}

	items := testItems()
	opts := baseOptions(LayoutFrameshift)
	opts.Scheme = SchemeUM1Hybrid
	opts.PreKey = nil
	opts.Curve = registry.CurveX25519
	opts.SenderStatic = sender
	opts.ReceiverStaticPublic = receiver.Public

	packed := mustWrite(t, opts, items)

	result, err := ReadBytes(packed, NewReceiverProvider(receiver))
	if err != nil {
		t.Fatalf("ReadBytes: %v", err)
	}
	for i, it := range items {
		if !bytes.Equal(result.Items[i].Plaintext, it.Plaintext) {
			t.Fatalf("item %d plaintext mismatch", i)
		}
	}
}

// TestRoundTripAllAEADItems covers the sealed-span accounting for AEAD
// modes specifically: every item here carries both the AEAD cipher's own
// authentication tag and the outer Encrypt-then-MAC tag, so a miscounted
// span would misalign every item boundary the multiplexer trusts.
func TestRoundTripAllAEADItems(t *testing.T) {
	items := []ItemInput{
		{Path: "g1.bin", Type: ItemFile, Plaintext: bytes.Repeat([]byte("g"), 100), Cipher: registry.CipherAES, Mode: registry.ModeGCM, MAC: registry.MACBLAKE2bKeyed},
		{Path: "g2.bin", Type: ItemFile, Plaintext: bytes.Repeat([]byte("h"), 1), Cipher: registry.CipherAES, Mode: registry.ModeGCM, MAC: registry.MACHMAC},
		{Path: "e1.bin", Type: ItemFile, Plaintext: bytes.Repeat([]byte("e"), 777), Cipher: registry.CipherAES, Mode: registry.ModeEAX, MAC: registry.MACBLAKE2bKeyed},
	}
	opts := baseOptions(LayoutFabric)
	packed := mustWrite(t, opts, items)

	result, err := ReadBytes(packed, NewPasswordProvider(opts.PreKey))
	if err != nil {
		t.Fatalf("ReadBytes: %v", err)
	}
	for i, it := range items {
		if !bytes.Equal(result.Items[i].Plaintext, it.Plaintext) {
			t.Fatalf("item %d plaintext mismatch: got %d bytes, want %d", i, len(result.Items[i].Plaintext), len(it.Plaintext))
		}
	}
}

// TestRoundTripFabricPreallocation covers S3: Fabric layout driven by a
// Preallocation entropy source instead of the stream-cipher CS-PRNG.
func TestRoundTripFabricPreallocation(t *testing.T) {
	items := testItems()
	opts := baseOptions(LayoutFabric)
	opts.Entropy = EntropyPreallocation
	opts.Preallocate = bytes.Repeat([]byte{0x5a}, 4096)

	packed := mustWrite(t, opts, items)

	result, err := ReadBytes(packed, NewPasswordProvider(opts.PreKey))
	if err != nil {
		t.Fatalf("ReadBytes: %v", err)
	}
	for i, it := range items {
		if !bytes.Equal(result.Items[i].Plaintext, it.Plaintext) {
			t.Fatalf("item %d plaintext mismatch", i)
		}
	}
}

// TestManifestTamperDetected covers S4: flipping a bit inside the
// manifest ciphertext must surface MacMismatch{Scope: manifest}.
func TestManifestTamperDetected(t *testing.T) {
	items := testItems()
	opts := baseOptions(LayoutSimple)
	packed := mustWrite(t, opts, items)

	// The manifest ciphertext begins right after MAGIC(4)+VERSION(2)+
	// HEADER_LEN(4)+HEADER_BYTES+MANIFEST_CIPHERTEXT_LEN(8).
	headerLen := int(packed[6])<<24 | int(packed[7])<<16 | int(packed[8])<<8 | int(packed[9])
	offset := 10 + headerLen + 8
	tampered := append([]byte{}, packed...)
	tampered[offset] ^= 0xFF

	_, err := ReadBytes(tampered, NewPasswordProvider(opts.PreKey))
	if err == nil {
		t.Fatalf("expected a MAC failure on tampered manifest")
	}
	var mac *errors.MacMismatch
	if !errors.As(err, &mac) || mac.Scope != errors.ScopeManifest {
		t.Fatalf("expected MacMismatch{Scope: manifest}, got %v", err)
	}
}

// TestItemTamperDetected covers S5: flipping a byte inside the payload
// must surface a per-item MAC failure (and must not be confused with a
// manifest-scope failure).
func TestItemTamperDetected(t *testing.T) {
	items := testItems()
	opts := baseOptions(LayoutSimple)
	packed := mustWrite(t, opts, items)

	tampered := append([]byte{}, packed...)
	tampered[len(tampered)-1] ^= 0xFF

	_, err := ReadBytes(tampered, NewPasswordProvider(opts.PreKey))
	if err == nil {
		t.Fatalf("expected an authentication failure on tampered payload")
	}
	var mac *errors.MacMismatch
	if !errors.As(err, &mac) || mac.Scope != errors.ScopeItem {
		t.Fatalf("expected MacMismatch{Scope: item}, got %v", err)
	}
}

// TestWrongPasswordNoMatchingKey covers the key-confirmation fast path:
// a wrong candidate must fail with ErrNoMatchingKey, not a generic error.
func TestWrongPasswordNoMatchingKey(t *testing.T) {
	items := testItems()
	opts := baseOptions(LayoutSimple)
	packed := mustWrite(t, opts, items)

	_, err := ReadBytes(packed, NewPasswordProvider([]byte("not the passphrase")))
	if !errors.Is(err, errors.ErrNoMatchingKey) {
		t.Fatalf("expected ErrNoMatchingKey, got %v", err)
	}
}

// TestMultiCandidateWithoutKeyConfirmation covers the no-confirmation-blob
// read path: with several candidates and no key-confirmation blob in the
// header, the reader must fall back to trying each candidate against the
// manifest MAC itself and pick the one that verifies, even when the
// correct candidate isn't first in the list.
func TestMultiCandidateWithoutKeyConfirmation(t *testing.T) {
	items := testItems()
	opts := baseOptions(LayoutSimple)
	opts.KeyConfirmation = false
	packed := mustWrite(t, opts, items)

	provider := &StaticKeyProvider{Symmetric: [][]byte{
		[]byte("wrong candidate one"),
		[]byte("wrong candidate two"),
		opts.PreKey,
		[]byte("wrong candidate three"),
	}}

	result, err := ReadBytes(packed, provider)
	if err != nil {
		t.Fatalf("ReadBytes with correct candidate buried in the list: %v", err)
	}
	for i, it := range items {
		if !bytes.Equal(result.Items[i].Plaintext, it.Plaintext) {
			t.Fatalf("item %d plaintext mismatch", i)
		}
	}

	allWrong := &StaticKeyProvider{Symmetric: [][]byte{
		[]byte("wrong candidate one"),
		[]byte("wrong candidate two"),
	}}
	if _, err := ReadBytes(packed, allWrong); !errors.Is(err, errors.ErrNoMatchingKey) {
		t.Fatalf("expected ErrNoMatchingKey when no candidate matches, got %v", err)
	}
}

// TestLayoutDeterminism covers the ordering-determinism invariant: two
// packagings of the same items under the same options produce different
// ciphertext (fresh per-item keys/nonces/salts) but the same item ordering
// logic is exercised identically by both Write calls.
func TestLayoutDeterminism(t *testing.T) {
	items := testItems()
	opts := baseOptions(LayoutSimple)
	first := mustWrite(t, opts, items)
	second := mustWrite(t, opts, items)
	if bytes.Equal(first, second) {
		t.Fatalf("expected independent packagings to differ (fresh randomness per item)")
	}

	r1, err := ReadBytes(first, NewPasswordProvider(opts.PreKey))
	if err != nil {
		t.Fatalf("ReadBytes(first): %v", err)
	}
	r2, err := ReadBytes(second, NewPasswordProvider(opts.PreKey))
	if err != nil {
		t.Fatalf("ReadBytes(second): %v", err)
	}
	for i := range items {
		if r1.Items[i].Path != r2.Items[i].Path {
			t.Fatalf("item ordering differs between runs at index %d", i)
		}
	}
}

// TestTrailerMAC covers the optional whole-container trailer MAC.
func TestTrailerMAC(t *testing.T) {
	items := testItems()
	opts := baseOptions(LayoutSimple)
	opts.TrailerMAC = true
	packed := mustWrite(t, opts, items)

	if _, err := ReadBytes(packed, NewPasswordProvider(opts.PreKey)); err != nil {
		t.Fatalf("ReadBytes: %v", err)
	}

	tampered := append([]byte{}, packed...)
	tampered[len(tampered)-1] ^= 0xFF
	if _, err := ReadBytes(tampered, NewPasswordProvider(opts.PreKey)); err == nil {
		t.Fatalf("expected trailer MAC failure on tampered trailing byte")
	}
}
