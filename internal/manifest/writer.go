package manifest

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/obscurcore/obsc/internal/cipherstream"
	"github.com/obscurcore/obsc/internal/csprng"
	"github.com/obscurcore/obsc/internal/kdf"
	"github.com/obscurcore/obsc/internal/keyagreement"
	"github.com/obscurcore/obsc/internal/log"
	"github.com/obscurcore/obsc/internal/macstream"
	"github.com/obscurcore/obsc/internal/multiplex"
	"github.com/obscurcore/obsc/internal/registry"
)

// ItemInput is one caller-supplied payload item: its plaintext and the
// primitive choices for its own cipher/MAC. Keys and nonces are generated
// fresh by the Writer, per spec.md §3's "per-item keys and nonces are
// independently random" invariant.
type ItemInput struct {
	Path      string
	Type      ItemType
	Plaintext []byte
	Cipher    registry.CipherID
	Mode      registry.BlockCipherMode
	Padding   cipherstream.PaddingScheme
	MAC       registry.MACID
}

// WriteOptions configures one packaging session's manifest-key scheme,
// payload layout, and ambient header fields.
type WriteOptions struct {
	Scheme SchemeSelector

	// SchemeSymmetricDirect
	PreKey []byte

	// SchemeUM1Hybrid
	Curve                registry.CurveID
	SenderStatic         *keyagreement.KeyPair
	ReceiverStaticPublic []byte

	KDFParams kdf.Params

	ManifestCipher registry.CipherID
	ManifestMode   registry.BlockCipherMode
	ManifestMAC    registry.MACID

	KeyConfirmation bool
	TrailerMAC      bool

	Layout      LayoutScheme
	Entropy     EntropyScheme
	Preallocate []byte // EntropyPreallocation seed

	MinPadding, MaxPadding int
	MinStripe, MaxStripe   int

	Comment  string
	Metadata map[string]string
}

// Result reports what a successful Write produced: the IDs assigned to the
// items, in input order (the manifest key itself is never surfaced, per
// spec.md §5's "MUST NOT be exposed to the caller").
type Result struct {
	ItemIDs []uuid.UUID
}

// Write assembles items into a Manifest, derives the manifest key per
// opts.Scheme, and writes the full wire format (spec.md §6) to out:
// clear header, EtM-wrapped manifest, multiplexed payload, optional
// trailer MAC. This is the write sequence of spec.md §4.6 in one call.
func Write(out io.Writer, items []ItemInput, opts WriteOptions) (*Result, error) {
	log.Debug("manifest: write start", log.Int("items", len(items)), log.String("layout", opts.Layout.String()))

	payloadItems, ciphertexts, err := prepareItems(items)
	if err != nil {
		return nil, err
	}

	man := &Manifest{
		FormatVersion: CurrentVersion,
		Items:         payloadItems,
		Metadata:      opts.Metadata,
	}
	manifestBytes, err := DefaultCodec.EncodeManifest(man)
	if err != nil {
		return nil, fmt.Errorf("manifest: encode: %w", err)
	}

	header, manifestKey, err := buildHeader(opts)
	if err != nil {
		return nil, err
	}

	header.Checksum, err = headerChecksum(header, DefaultCodec)
	if err != nil {
		return nil, err
	}
	headerBytes, err := DefaultCodec.EncodeHeader(header)
	if err != nil {
		return nil, fmt.Errorf("manifest: encode header: %w", err)
	}

	var stream bytes.Buffer
	if _, err := stream.WriteString(Magic); err != nil {
		return nil, err
	}
	if err := binary.Write(&stream, binary.BigEndian, CurrentVersion); err != nil {
		return nil, err
	}
	if err := binary.Write(&stream, binary.BigEndian, uint32(len(headerBytes))); err != nil {
		return nil, err
	}
	stream.Write(headerBytes)

	manifestCipher, err := cipherstream.New(true, cipherstream.Config{
		Cipher: header.ManifestCipher,
		Mode:   header.ManifestMode,
		Key:    manifestKey,
		Nonce:  header.ManifestNonce,
	})
	if err != nil {
		return nil, err
	}
	manifestMACKey := manifestKey
	mac, err := macstream.NewMAC(header.ManifestMAC, manifestMACKey)
	if err != nil {
		return nil, err
	}
	var manifestCiphertext bytes.Buffer
	chain := macstream.NewChain(mac, func(p []byte) error {
		_, err := manifestCiphertext.Write(p)
		return err
	})
	buf := make([]byte, len(manifestBytes)+64)
	n, err := manifestCipher.ProcessBytes(manifestBytes, buf)
	if err != nil {
		return nil, err
	}
	if _, err := chain.Write(buf[:n]); err != nil {
		return nil, err
	}
	n, err = manifestCipher.Finalize(buf)
	if err != nil {
		return nil, err
	}
	if _, err := chain.Write(buf[:n]); err != nil {
		return nil, err
	}
	manifestTag := chain.Finalize()

	if err := binary.Write(&stream, binary.BigEndian, uint64(manifestCiphertext.Len())); err != nil {
		return nil, err
	}
	stream.Write(manifestCiphertext.Bytes())
	stream.Write(manifestTag)

	entropy, padContent, err := buildEntropySources(header.Payload)
	if err != nil {
		return nil, err
	}
	sources := make([]multiplex.ItemSource, len(payloadItems))
	for i, it := range payloadItems {
		sources[i] = multiplex.ItemSource{ID: it.ID.String(), Data: ciphertexts[i]}
	}
	layout := layoutFor(header.Payload.Scheme)
	muxCtx := &multiplex.WriteContext{
		Entropy:    entropy,
		PadContent: padContent,
		Items:      sources,
		Output:     &stream,
		MinPadding: header.Payload.MinPadding,
		MaxPadding: header.Payload.MaxPadding,
		MinStripe:  header.Payload.MinStripe,
		MaxStripe:  header.Payload.MaxStripe,
	}
	if err := layout.Write(muxCtx); err != nil {
		return nil, err
	}

	if opts.TrailerMAC {
		trailerMAC, err := macstream.NewMAC(header.ManifestMAC, manifestMACKey)
		if err != nil {
			return nil, err
		}
		if _, err := trailerMAC.Write(stream.Bytes()); err != nil {
			return nil, err
		}
		stream.Write(trailerMAC.Sum(nil))
	}

	if _, err := out.Write(stream.Bytes()); err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(payloadItems))
	for i, it := range payloadItems {
		ids[i] = it.ID
	}
	log.Debug("manifest: write done", log.Int("payloadBytes", stream.Len()))
	return &Result{ItemIDs: ids}, nil
}

// prepareItems assigns fresh per-item keys/nonces/IDs and seals each
// item's plaintext, returning the manifest-ready descriptors alongside
// their ciphertext spans in the same order.
func prepareItems(items []ItemInput) ([]PayloadItem, [][]byte, error) {
	out := make([]PayloadItem, len(items))
	cts := make([][]byte, len(items))
	for i, in := range items {
		cipherSpec, err := registry.LookupCipher(in.Cipher, 0, 0)
		if err != nil {
			return nil, nil, err
		}
		key, err := randomBytes(cipherSpec.DefaultKeySizeBits / 8)
		if err != nil {
			return nil, nil, err
		}
		nonce, err := randomBytes(cipherSpec.DefaultNonceSizeBits / 8)
		if err != nil {
			return nil, nil, err
		}
		macSpec, err := registry.LookupMAC(in.MAC, 0)
		if err != nil {
			return nil, nil, err
		}
		macKey, err := randomBytes(macSpec.DefaultKeySizeBits / 8)
		if err != nil {
			return nil, nil, err
		}

		item := PayloadItem{
			ID:     uuid.New(),
			Path:   in.Path,
			Length: int64(len(in.Plaintext)),
			Type:   in.Type,
			Cipher: CipherConfig{Cipher: in.Cipher, Mode: in.Mode, Key: key, Nonce: nonce, Padding: in.Padding},
			Auth:   MACConfig{MAC: in.MAC, Key: macKey},
		}
		ct, err := sealItem(&item, in.Plaintext)
		if err != nil {
			return nil, nil, err
		}
		out[i] = item
		cts[i] = ct
	}
	return out, cts, nil
}

// buildHeader derives the manifest key per opts.Scheme and assembles the
// clear PackageHeader, including the optional key-confirmation blob.
func buildHeader(opts WriteOptions) (*PackageHeader, []byte, error) {
	manifestCipherSpec, err := registry.LookupCipher(opts.ManifestCipher, 0, 0)
	if err != nil {
		return nil, nil, err
	}
	manifestNonce, err := randomBytes(manifestCipherSpec.DefaultNonceSizeBits / 8)
	if err != nil {
		return nil, nil, err
	}
	manifestMACNonce, err := randomBytes(16)
	if err != nil {
		return nil, nil, err
	}

	salt, err := randomBytes(16)
	if err != nil {
		return nil, nil, err
	}
	kdfParams := opts.KDFParams
	if kdfParams.OutputBits == 0 {
		kdfParams = kdf.DefaultParams(registry.KDFScrypt)
	}
	kdfParams.OutputBits = manifestCipherSpec.DefaultKeySizeBits

	header := &PackageHeader{
		Version:           CurrentVersion,
		Scheme:            opts.Scheme,
		ManifestCipher:    opts.ManifestCipher,
		ManifestMode:      opts.ManifestMode,
		ManifestNonce:     manifestNonce,
		ManifestMAC:       opts.ManifestMAC,
		ManifestMACNonce:  manifestMACNonce,
		Comment:           opts.Comment,
		TrailerMACPresent: opts.TrailerMAC,
		TrailerMAC:        opts.ManifestMAC,
		Payload: PayloadConfiguration{
			Scheme:     opts.Layout,
			Entropy:    opts.Entropy,
			MinPadding: opts.MinPadding,
			MaxPadding: opts.MaxPadding,
			MinStripe:  opts.MinStripe,
			MaxStripe:  opts.MaxStripe,
		},
	}

	var manifestKey []byte
	var ephemeralPublic []byte

	switch opts.Scheme {
	case SchemeSymmetricDirect:
		header.ManifestKDF = fromKDFParams(kdfParams.ID, salt, kdfParams)
		manifestKey, err = kdf.Derive(opts.PreKey, salt, kdfParams)
		if err != nil {
			return nil, nil, err
		}
	case SchemeUM1Hybrid:
		ephemeral, err := keyagreement.Generate(opts.Curve)
		if err != nil {
			return nil, nil, err
		}
		ss, err := keyagreement.SenderUM1(opts.Curve, opts.SenderStatic.Private, opts.ReceiverStaticPublic, ephemeral.Private)
		if err != nil {
			return nil, nil, err
		}
		header.ManifestKDF = fromKDFParams(kdfParams.ID, salt, kdfParams)
		manifestKey, err = kdf.Derive(ss, salt, kdfParams)
		if err != nil {
			return nil, nil, err
		}
		header.Curve = opts.Curve
		header.EphemeralPublic = ephemeral.Public
		header.SenderPublic = opts.SenderStatic.Public
		header.ReceiverPublic = opts.ReceiverStaticPublic
		ephemeralPublic = ephemeral.Public
	default:
		return nil, nil, fmt.Errorf("manifest: unknown scheme selector %d", opts.Scheme)
	}

	if opts.KeyConfirmation {
		blob, err := computeConfirmation(manifestKey, ephemeralPublic, salt)
		if err != nil {
			return nil, nil, err
		}
		header.KeyConfirmation = blob
	}

	if opts.Entropy == EntropyStreamCipherCsprng {
		seedKey, err := randomBytes(32)
		if err != nil {
			return nil, nil, err
		}
		seedNonce, err := randomBytes(8)
		if err != nil {
			return nil, nil, err
		}
		header.Payload.SeedKey = seedKey
		header.Payload.SeedNonce = seedNonce
		if opts.Layout == LayoutFrameshift {
			padKey, err := randomBytes(32)
			if err != nil {
				return nil, nil, err
			}
			padNonce, err := randomBytes(8)
			if err != nil {
				return nil, nil, err
			}
			header.Payload.PadKey = padKey
			header.Payload.PadNonce = padNonce
		}
	} else {
		header.Payload.Preallocated = opts.Preallocate
	}

	return header, manifestKey, nil
}

func buildEntropySources(cfg PayloadConfiguration) (*csprng.Source, *csprng.Source, error) {
	if cfg.Entropy == EntropyPreallocation {
		if cfg.Scheme != LayoutFrameshift {
			return csprng.NewPreallocationSource(cfg.Preallocated), nil, nil
		}
		// Frameshift needs a domain-separated padding-content stream even
		// under Preallocation: split the blob in half rather than let the
		// two draws reuse the same bytes.
		mid := len(cfg.Preallocated) / 2
		return csprng.NewPreallocationSource(cfg.Preallocated[:mid]),
			csprng.NewPreallocationSource(cfg.Preallocated[mid:]), nil
	}
	entropy, err := csprng.NewStreamSource(cfg.SeedKey, cfg.SeedNonce)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Scheme != LayoutFrameshift {
		return entropy, nil, nil
	}
	pad, err := csprng.NewStreamSource(cfg.PadKey, cfg.PadNonce)
	if err != nil {
		return nil, nil, err
	}
	return entropy, pad, nil
}

func layoutFor(scheme LayoutScheme) multiplex.Layout {
	switch scheme {
	case LayoutFrameshift:
		return multiplex.Frameshift{}
	case LayoutFabric:
		return multiplex.Fabric{}
	default:
		return multiplex.Simple{}
	}
}
