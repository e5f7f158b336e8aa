package manifest

import (
	"bytes"
	"encoding/gob"

	"golang.org/x/crypto/blake2b"
)

// Codec is the DtoCodec collaborator named in spec.md §6: encode/decode
// for Manifest and PackageHeader. gob is the concrete choice here — the
// spec treats the codec as an opaque out-of-scope schema, none of the
// pack's protobuf-style codecs are otherwise exercised anywhere in this
// engine, and gob needs no generated code or .proto schema to carry this
// one internal wire shape. See DESIGN.md for the justification this is a
// standard-library-only concern.
type Codec interface {
	EncodeManifest(m *Manifest) ([]byte, error)
	DecodeManifest(b []byte) (*Manifest, error)
	EncodeHeader(h *PackageHeader) ([]byte, error)
	DecodeHeader(b []byte) (*PackageHeader, error)
}

type gobCodec struct{}

// DefaultCodec is the engine's one DtoCodec implementation.
var DefaultCodec Codec = gobCodec{}

func (gobCodec) EncodeManifest(m *Manifest) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(m); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (gobCodec) DecodeManifest(b []byte) (*Manifest, error) {
	var m Manifest
	if err := gob.NewDecoder(bytes.NewReader(b)).Decode(&m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (gobCodec) EncodeHeader(h *PackageHeader) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(h); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (gobCodec) DecodeHeader(b []byte) (*PackageHeader, error) {
	var h PackageHeader
	if err := gob.NewDecoder(bytes.NewReader(b)).Decode(&h); err != nil {
		return nil, err
	}
	return &h, nil
}

// headerChecksum computes the clear-text integrity checksum described in
// SPEC_FULL.md's DATA MODEL supplement: a BLAKE2b-256 hash over the
// header's gob encoding with Checksum itself zeroed, so corruption of any
// other clear field (including the unauthenticated Comment) is caught
// even before the manifest key is known.
func headerChecksum(h *PackageHeader, codec Codec) ([]byte, error) {
	cp := *h
	cp.Checksum = nil
	b, err := codec.EncodeHeader(&cp)
	if err != nil {
		return nil, err
	}
	sum := blake2b.Sum256(b)
	return sum[:], nil
}
