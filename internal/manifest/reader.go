package manifest

import (
	"bytes"
	"crypto/subtle"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/obscurcore/obsc/internal/cipherstream"
	"github.com/obscurcore/obsc/internal/errors"
	"github.com/obscurcore/obsc/internal/kdf"
	"github.com/obscurcore/obsc/internal/keyagreement"
	"github.com/obscurcore/obsc/internal/log"
	"github.com/obscurcore/obsc/internal/macstream"
	"github.com/obscurcore/obsc/internal/multiplex"
	"github.com/obscurcore/obsc/internal/registry"
)

// DecodedItem is one item recovered from a package.
type DecodedItem struct {
	ID        string
	Path      string
	Type      ItemType
	Plaintext []byte
}

// ReadResult is everything a successful Read recovers.
type ReadResult struct {
	Items    []DecodedItem
	Metadata map[string]string
	Comment  string
}

// Read reverses Write exactly (spec.md §4.6's read sequence): parse
// header, try every KeyProvider candidate against the key-confirmation
// blob (or, absent one, against the manifest MAC itself) in constant
// time per candidate, verify the manifest MAC, decrypt and decode the
// manifest, drive the multiplexer using the manifest's per-item keys, and
// verify any trailer MAC.
func Read(in io.Reader, keys KeyProvider) (*ReadResult, error) {
	all, err := io.ReadAll(in)
	if err != nil {
		return nil, fmt.Errorf("manifest: read: %w", err)
	}
	return ReadBytes(all, keys)
}

// ReadBytes is Read over an already-buffered package. The engine buffers
// whole packages in memory throughout (see DESIGN.md): AEAD item ciphers
// cannot be partially authenticated before their tag arrives, and the
// Fabric layout's active-set bookkeeping requires random access to every
// item's remaining-byte count, so streaming would gain nothing here.
func ReadBytes(all []byte, keys KeyProvider) (*ReadResult, error) {
	r := bytes.NewReader(all)

	magic := make([]byte, 4)
	if _, err := io.ReadFull(r, magic); err != nil || string(magic) != Magic {
		return nil, errors.ErrTruncatedHeader
	}
	var version uint16
	if err := binary.Read(r, binary.BigEndian, &version); err != nil {
		return nil, errors.ErrTruncatedHeader
	}
	if version != CurrentVersion {
		return nil, errors.ErrSchemaVersionUnsupported
	}
	var headerLen uint32
	if err := binary.Read(r, binary.BigEndian, &headerLen); err != nil {
		return nil, errors.ErrTruncatedHeader
	}
	headerBytes := make([]byte, headerLen)
	if _, err := io.ReadFull(r, headerBytes); err != nil {
		return nil, errors.ErrTruncatedHeader
	}
	header, err := DefaultCodec.DecodeHeader(headerBytes)
	if err != nil {
		return nil, errors.ErrTruncatedHeader
	}
	if len(header.Checksum) > 0 {
		want := header.Checksum
		got, err := headerChecksum(header, DefaultCodec)
		if err != nil {
			return nil, err
		}
		if len(got) != len(want) || subtle.ConstantTimeCompare(got, want) != 1 {
			return nil, &errors.MacMismatch{Scope: errors.ScopeManifest}
		}
	}

	var manifestCiphertextLen uint64
	if err := binary.Read(r, binary.BigEndian, &manifestCiphertextLen); err != nil {
		return nil, errors.ErrTruncatedManifest
	}
	manifestCiphertext := make([]byte, manifestCiphertextLen)
	if _, err := io.ReadFull(r, manifestCiphertext); err != nil {
		return nil, errors.ErrTruncatedManifest
	}

	macSpec, err := registry.LookupMAC(header.ManifestMAC, 0)
	if err != nil {
		return nil, err
	}
	tagLen := macSpec.TagSizeBits / 8
	manifestTag := make([]byte, tagLen)
	if _, err := io.ReadFull(r, manifestTag); err != nil {
		return nil, errors.ErrTruncatedManifest
	}

	manifestKey, err := resolveManifestKey(header, keys, manifestCiphertext, manifestTag)
	if err != nil {
		return nil, err
	}

	mac, err := macstream.NewMAC(header.ManifestMAC, manifestKey)
	if err != nil {
		return nil, err
	}
	if _, err := mac.Write(manifestCiphertext); err != nil {
		return nil, err
	}
	chain := macstream.NewChain(mac, func([]byte) error { return nil })
	if err := chain.Verify(manifestTag, errors.ScopeManifest, ""); err != nil {
		return nil, err
	}

	manifestCipher, err := cipherstream.New(false, cipherstream.Config{
		Cipher: header.ManifestCipher,
		Mode:   header.ManifestMode,
		Key:    manifestKey,
		Nonce:  header.ManifestNonce,
	})
	if err != nil {
		return nil, err
	}
	buf := make([]byte, len(manifestCiphertext)+64)
	n, err := manifestCipher.ProcessBytes(manifestCiphertext, buf)
	if err != nil {
		return nil, err
	}
	plain := append([]byte{}, buf[:n]...)
	n, err = manifestCipher.Finalize(buf)
	if err != nil {
		return nil, err
	}
	plain = append(plain, buf[:n]...)

	man, err := DefaultCodec.DecodeManifest(plain)
	if err != nil {
		return nil, errors.ErrTruncatedManifest
	}

	entropy, padContent, err := buildEntropySources(header.Payload)
	if err != nil {
		return nil, err
	}

	sinks := make([]multiplex.ItemSink, len(man.Items))
	bufs := make([]*bytes.Buffer, len(man.Items))
	for i, it := range man.Items {
		sealed, err := sealedLength(&it, it.Length)
		if err != nil {
			return nil, err
		}
		bufs[i] = &bytes.Buffer{}
		sinks[i] = multiplex.ItemSink{ID: it.ID.String(), Length: sealed, Buf: bufs[i]}
	}

	layout := layoutFor(header.Payload.Scheme)
	rest := make([]byte, r.Len())
	if _, err := io.ReadFull(r, rest); err != nil {
		return nil, errors.ErrTruncatedPayload
	}

	var trailerTagLen int
	if header.TrailerMACPresent {
		tspec, err := registry.LookupMAC(header.TrailerMAC, 0)
		if err != nil {
			return nil, err
		}
		trailerTagLen = tspec.TagSizeBits / 8
	}
	payloadLen := len(rest) - trailerTagLen
	if payloadLen < 0 {
		return nil, errors.ErrTruncatedPayload
	}
	muxReader := bytes.NewReader(rest[:payloadLen])

	muxCtx := &multiplex.ReadContext{
		Entropy:    entropy,
		Items:      sinks,
		Input:      muxReader,
		MinPadding: header.Payload.MinPadding,
		MaxPadding: header.Payload.MaxPadding,
		MinStripe:  header.Payload.MinStripe,
		MaxStripe:  header.Payload.MaxStripe,
	}
	_ = padContent // the reader never needs PadContent: it only discards padding bytes
	if err := layout.Read(muxCtx); err != nil {
		return nil, err
	}

	if header.TrailerMACPresent {
		trailerMAC, err := macstream.NewMAC(header.TrailerMAC, manifestKey)
		if err != nil {
			return nil, err
		}
		covered := all[:len(all)-trailerTagLen]
		if _, err := trailerMAC.Write(covered); err != nil {
			return nil, err
		}
		got := trailerMAC.Sum(nil)
		want := rest[payloadLen:]
		if len(got) != len(want) || subtle.ConstantTimeCompare(got, want) != 1 {
			return nil, &errors.MacMismatch{Scope: errors.ScopeTrailer}
		}
	}

	items := make([]DecodedItem, len(man.Items))
	for i := range man.Items {
		it := man.Items[i]
		plain, err := openItem(&it, bufs[i].Bytes())
		if err != nil {
			return nil, err
		}
		items[i] = DecodedItem{ID: it.ID.String(), Path: it.Path, Type: it.Type, Plaintext: plain}
	}

	log.Debug("manifest: read done", log.Int("items", len(items)))
	return &ReadResult{Items: items, Metadata: man.Metadata, Comment: header.Comment}, nil
}

// resolveManifestKey tries every candidate the KeyProvider offers,
// constant-time per candidate, against the header's key-confirmation blob
// if present, else against the manifest MAC itself (manifestCiphertext/
// manifestTag), advancing to the next candidate on a per-candidate
// mismatch rather than surfacing it. Returns NoMatchingKey if nothing
// matches.
func resolveManifestKey(header *PackageHeader, keys KeyProvider, manifestCiphertext, manifestTag []byte) ([]byte, error) {
	kdfParams := header.ManifestKDF.toParams()

	tryCandidate := func(preKey []byte) ([]byte, bool, error) {
		candidate, err := kdf.Derive(preKey, header.ManifestKDF.Salt, kdfParams)
		if err != nil {
			return nil, false, nil //nolint:nilerr // a rejected derivation is just a non-match
		}
		if len(header.KeyConfirmation) > 0 {
			ok, err := verifyConfirmation(candidate, header.EphemeralPublic, header.ManifestKDF.Salt, header.KeyConfirmation)
			if err != nil {
				return nil, false, err
			}
			return candidate, ok, nil
		}
		mac, err := macstream.NewMAC(header.ManifestMAC, candidate)
		if err != nil {
			return nil, false, err
		}
		if _, err := mac.Write(manifestCiphertext); err != nil {
			return nil, false, err
		}
		chain := macstream.NewChain(mac, func([]byte) error { return nil })
		if err := chain.Verify(manifestTag, errors.ScopeManifest, ""); err != nil {
			return nil, false, nil // wrong candidate, not a hard error: keep trying
		}
		return candidate, true, nil
	}

	switch header.Scheme {
	case SchemeSymmetricDirect:
		for _, pre := range keys.SymmetricCandidates() {
			key, ok, err := tryCandidate(pre)
			if err != nil {
				return nil, err
			}
			if ok {
				return key, nil
			}
		}
	case SchemeUM1Hybrid:
		for _, kp := range keys.ECKeyPairs() {
			ss, err := keyagreement.ReceiverUM1(header.Curve, kp.Private, header.SenderPublic, header.EphemeralPublic)
			if err != nil {
				continue
			}
			key, ok, err := tryCandidate(ss)
			if err != nil {
				return nil, err
			}
			if ok {
				return key, nil
			}
		}
	default:
		return nil, fmt.Errorf("manifest: unknown scheme selector %d", header.Scheme)
	}
	return nil, errors.ErrNoMatchingKey
}
