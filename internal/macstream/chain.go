package macstream

import (
	"crypto/subtle"
	"fmt"
	"hash"

	"github.com/obscurcore/obsc/internal/errors"
)

// Chain is the Encrypt-then-MAC pass-through described in spec.md §4.3:
// every byte written is forwarded to an inner sink and absorbed into mac.
// On write, Chain.Finalize exposes the tag. On read, Chain.Verify
// compares the accumulated tag against the one carried on the wire in
// constant time.
type Chain struct {
	mac       hash.Hash
	sink      func([]byte) error
	finalized bool
}

// NewChain builds a write-side chain: bytes passed to Write are absorbed
// into mac and forwarded to sink.
func NewChain(mac hash.Hash, sink func([]byte) error) *Chain {
	return &Chain{mac: mac, sink: sink}
}

// Write forwards p to the sink and folds it into the MAC. Rejected once
// Finalize has run.
func (c *Chain) Write(p []byte) (int, error) {
	if c.finalized {
		return 0, fmt.Errorf("macstream: write after finalize")
	}
	if _, err := c.mac.Write(p); err != nil {
		return 0, err
	}
	if err := c.sink(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Finalize closes the chain and returns the MAC tag.
func (c *Chain) Finalize() []byte {
	c.finalized = true
	return c.mac.Sum(nil)
}

// Verify closes the chain and compares its accumulated tag against want in
// constant time, returning scope/itemID-tagged MacMismatch on failure.
func (c *Chain) Verify(want []byte, scope errors.Scope, itemID string) error {
	c.finalized = true
	got := c.mac.Sum(nil)
	if subtle.ConstantTimeCompare(got, want) != 1 {
		return &errors.MacMismatch{Scope: scope, ItemID: itemID}
	}
	return nil
}
