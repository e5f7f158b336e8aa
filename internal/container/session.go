// Package container is the top-level packaging session: the thin
// orchestration layer spec.md's CONCURRENCY & RESOURCE MODEL describes as
// owning a package's sensitive material for the duration of one Pack or
// Extract call and zeroizing it on Close, grounded on the teacher's
// internal/volume.OperationContext (one context per operation, explicit
// Close() to zero key material) generalized from a single fixed volume
// format to the registry-driven manifest pipeline.
package container

import (
	"bytes"
	"fmt"
	"io"

	"github.com/obscurcore/obsc/internal/log"
	"github.com/obscurcore/obsc/internal/manifest"
	"github.com/obscurcore/obsc/internal/util"
)

// Session owns one packaging operation's sensitive inputs (pre-keys,
// static private keys) and guarantees they are zeroed exactly once,
// whether the operation succeeds or fails. A Session is single-use: call
// Pack or Extract once, then Close.
type Session struct {
	closed bool
	owned  [][]byte // sensitive buffers this session is responsible for zeroing
}

// New returns an empty Session. Callers pass sensitive material directly
// to Pack/Extract; Session.Own lets a caller register additional buffers
// (e.g. a raw password before KDF) for zeroing alongside it.
func New() *Session {
	return &Session{}
}

// Own registers b to be zeroed when the session closes.
func (s *Session) Own(b []byte) {
	s.owned = append(s.owned, b)
}

// Close zeroes every buffer the session owns. Idempotent.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	util.SecureZeroMultiple(s.owned...)
	s.owned = nil
}

// PackRequest names one packaging operation's inputs.
type PackRequest struct {
	Items   []manifest.ItemInput
	Options manifest.WriteOptions
}

// PackResult is what Pack produces, alongside the written bytes.
type PackResult struct {
	*manifest.Result
	Bytes []byte
}

// Pack runs the full manifest write pipeline over req and returns the
// finished package bytes. The session takes ownership of req.Options.PreKey
// and req.Options.SenderStatic.Private (when set) and zeroes them on Close,
// so callers must not reuse those slices afterward.
func (s *Session) Pack(req PackRequest) (*PackResult, error) {
	if s.closed {
		return nil, fmt.Errorf("container: session already closed")
	}
	if req.Options.PreKey != nil {
		s.Own(req.Options.PreKey)
	}
	if req.Options.SenderStatic != nil {
		s.Own(req.Options.SenderStatic.Private)
	}

	var buf bytes.Buffer
	result, err := manifest.Write(&buf, req.Items, req.Options)
	if err != nil {
		log.Error("container: pack failed", log.Err(err))
		return nil, err
	}
	log.Info("container: pack complete", log.Int("items", len(req.Items)), log.Int("bytes", buf.Len()))
	return &PackResult{Result: result, Bytes: buf.Bytes()}, nil
}

// ExtractRequest names one extraction operation's inputs.
type ExtractRequest struct {
	Input io.Reader
	Keys  manifest.KeyProvider
}

// Extract runs the full manifest read pipeline over req. The session owns
// every symmetric candidate and EC private key the KeyProvider exposes and
// zeroes them on Close.
func (s *Session) Extract(req ExtractRequest) (*manifest.ReadResult, error) {
	if s.closed {
		return nil, fmt.Errorf("container: session already closed")
	}
	if req.Keys != nil {
		for _, c := range req.Keys.SymmetricCandidates() {
			s.Own(c)
		}
		for _, kp := range req.Keys.ECKeyPairs() {
			s.Own(kp.Private)
		}
	}

	result, err := manifest.Read(req.Input, req.Keys)
	if err != nil {
		log.Error("container: extract failed", log.Err(err))
		return nil, err
	}
	log.Info("container: extract complete", log.Int("items", len(result.Items)))
	return result, nil
}
