// Package multiplex implements the Payload Multiplexer (spec.md §4.5): the
// three layout state machines (Simple, Frameshift, Fabric) that interleave
// or concatenate a package's per-item ciphertext spans into one payload
// stream, and reverse that on read using only the declared per-item
// lengths and the same CS-PRNG seed the writer used.
//
// The multiplexer operates on already-framed ciphertext (cipher output
// plus MAC tag, whose combined length is known up front from the
// registry's cipher/MAC overhead plus the item's declared plaintext
// length) rather than driving cipherstream/macstream itself mid-stride:
// the container pipeline produces each item's full ciphertext span before
// Write, and consumes each item's full demuxed span after Read, which
// keeps the layout state machines pure byte-length arithmetic — see
// DESIGN.md's Open Question decision for internal/multiplex.
package multiplex

import (
	"io"

	"github.com/obscurcore/obsc/internal/csprng"
	"github.com/obscurcore/obsc/internal/errors"
)

// ItemSource is one item's already-framed ciphertext, ready to emit.
type ItemSource struct {
	ID   string
	Data []byte
}

// ItemSink receives one item's demuxed ciphertext as it arrives. Buf must
// be pre-sized or grow on Write (a *bytes.Buffer works directly).
type ItemSink struct {
	ID     string
	Length int
	Buf    io.Writer
}

// WriteContext drives a layout's write-side state machine.
type WriteContext struct {
	Entropy    *csprng.Source // ordering and padding-length draws
	PadContent *csprng.Source // padding byte content only (Frameshift)
	Items      []ItemSource
	Output     io.Writer

	MinPadding, MaxPadding int // Frameshift
	MinStripe, MaxStripe   int // Fabric

	Overhead int // bytes of non-item padding written (Frameshift)
}

// ReadContext drives a layout's read-side state machine. Entropy must be
// seeded identically to the writer's.
type ReadContext struct {
	Entropy *csprng.Source
	Items   []ItemSink
	Input   io.Reader

	MinPadding, MaxPadding int
	MinStripe, MaxStripe   int
}

// Layout is the common contract every multiplexing scheme implements.
type Layout interface {
	Write(ctx *WriteContext) error
	Read(ctx *ReadContext) error
}

// fisherYates returns a uniform random permutation of [0, n) using
// rejection-sampled next_bounded draws, per spec.md §4.5's ordering rule
// shared by Simple and Frameshift.
func fisherYates(n int, entropy *csprng.Source) ([]int, error) {
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	for i := n - 1; i > 0; i-- {
		j, err := entropy.NextBounded(int32(i + 1))
		if err != nil {
			return nil, err
		}
		perm[i], perm[int(j)] = perm[int(j)], perm[i]
	}
	return perm, nil
}

func copyExactly(dst io.Writer, src []byte) error {
	n, err := dst.Write(src)
	if err != nil {
		return err
	}
	if n != len(src) {
		return errors.ErrTruncatedPayload
	}
	return nil
}

func readExactly(src io.Reader, buf []byte) error {
	if _, err := io.ReadFull(src, buf); err != nil {
		return errors.ErrTruncatedPayload
	}
	return nil
}

func discardExactly(src io.Reader, n int) error {
	if n == 0 {
		return nil
	}
	written, err := io.CopyN(io.Discard, src, int64(n))
	if err != nil || written != int64(n) {
		return errors.ErrTruncatedPayload
	}
	return nil
}
