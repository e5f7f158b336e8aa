package container

import (
	"bytes"
	"testing"

	"github.com/obscurcore/obsc/internal/kdf"
	"github.com/obscurcore/obsc/internal/manifest"
	"github.com/obscurcore/obsc/internal/registry"
)

func TestSessionPackExtractRoundTrip(t *testing.T) {
	items := []manifest.ItemInput{
		{Path: "note.txt", Type: manifest.ItemFile, Plaintext: []byte("hello, session"), Cipher: registry.CipherXChaCha20, MAC: registry.MACBLAKE2bKeyed},
	}
	opts := manifest.WriteOptions{
		Scheme:         manifest.SchemeSymmetricDirect,
		PreKey:         []byte("session passphrase"),
		KDFParams:      kdf.DefaultParams(registry.KDFScrypt),
		ManifestCipher: registry.CipherXChaCha20,
		ManifestMAC:    registry.MACBLAKE2bKeyed,
		Layout:         manifest.LayoutSimple,
		Entropy:        manifest.EntropyStreamCipherCsprng,
		MinPadding:     4,
		MaxPadding:     16,
	}

	packSession := New()
	packResult, err := packSession.Pack(PackRequest{Items: items, Options: opts})
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	packSession.Close()

	extractSession := New()
	defer extractSession.Close()
	result, err := extractSession.Extract(ExtractRequest{
		Input: bytes.NewReader(packResult.Bytes),
		Keys:  manifest.NewPasswordProvider([]byte("session passphrase")),
	})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(result.Items) != 1 || !bytes.Equal(result.Items[0].Plaintext, items[0].Plaintext) {
		t.Fatalf("unexpected extracted items: %+v", result.Items)
	}
}

func TestSessionClosedRejectsFurtherUse(t *testing.T) {
	s := New()
	s.Close()
	s.Close() // idempotent

	_, err := s.Pack(PackRequest{})
	if err == nil {
		t.Fatalf("expected Pack on a closed session to fail")
	}
	_, err = s.Extract(ExtractRequest{})
	if err == nil {
		t.Fatalf("expected Extract on a closed session to fail")
	}
}
