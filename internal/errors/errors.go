// Package errors provides the typed error taxonomy for the packaging engine.
// Every fatal condition the engine can raise is represented here so callers
// can use errors.Is()/errors.As() instead of matching on message text.
package errors

import (
	"errors"
	"fmt"
)

// Scope identifies which part of a package a MAC covers.
type Scope int

const (
	ScopeManifest Scope = iota
	ScopeItem
	ScopeTrailer
)

func (s Scope) String() string {
	switch s {
	case ScopeManifest:
		return "manifest"
	case ScopeItem:
		return "item"
	case ScopeTrailer:
		return "trailer"
	default:
		return "unknown"
	}
}

// Sentinel errors for errors.Is-style matching.
var (
	ErrNoMatchingKey         = errors.New("no candidate key matched")
	ErrInsufficientEntropy   = errors.New("preallocated entropy source exhausted")
	ErrSchemaVersionUnsupported = errors.New("unsupported package format version")
	ErrAbortedByCaller       = errors.New("operation aborted by caller")
	ErrTruncatedHeader       = errors.New("package header truncated")
	ErrTruncatedManifest     = errors.New("manifest ciphertext truncated")
	ErrTruncatedPayload      = errors.New("payload truncated")
	ErrInvalidPadding        = errors.New("invalid padding")
)

// InvalidConfiguration reports a primitive/size/mode combination rejected by
// the primitive registry before any bytes moved.
type InvalidConfiguration struct {
	What    string // e.g. "cipher:AES-GCM", "mode:CBC+AEAD"
	Allowed string // human-readable description of what would have been accepted
}

func (e *InvalidConfiguration) Error() string {
	return fmt.Sprintf("invalid configuration for %s: allowed %s", e.What, e.Allowed)
}

// KeySizeMismatch reports a key whose length the registry does not allow.
type KeySizeMismatch struct {
	Primitive string
	GotBits   int
	Allowed   []int
}

func (e *KeySizeMismatch) Error() string {
	return fmt.Sprintf("%s: key size %d bits not in allowed set %v", e.Primitive, e.GotBits, e.Allowed)
}

// NonceSizeMismatch reports a nonce whose length the registry does not allow.
type NonceSizeMismatch struct {
	Primitive string
	GotBits   int
	Allowed   []int
}

func (e *NonceSizeMismatch) Error() string {
	return fmt.Sprintf("%s: nonce size %d bits not in allowed set %v", e.Primitive, e.GotBits, e.Allowed)
}

// MacMismatch reports an authentication failure at a specific scope. All
// plaintext already surfaced to the caller for this scope must be treated
// as unauthenticated.
type MacMismatch struct {
	Scope  Scope
	ItemID string // populated when Scope == ScopeItem
}

func (e *MacMismatch) Error() string {
	if e.Scope == ScopeItem && e.ItemID != "" {
		return fmt.Sprintf("MAC mismatch: item %s", e.ItemID)
	}
	return fmt.Sprintf("MAC mismatch: %s", e.Scope)
}

// PayloadAuthFail is an alias surfaced by the multiplexer; scope is always
// an item, since manifest and trailer MACs are verified by the manifest
// pipeline, not the multiplexer.
type PayloadAuthFail struct {
	ItemID string
}

func (e *PayloadAuthFail) Error() string {
	return fmt.Sprintf("payload authentication failed: item %s", e.ItemID)
}

// Is implements errors.Is(err, target) convenience matching.
func Is(err, target error) bool { return errors.Is(err, target) }

// As implements errors.As(err, target) convenience matching.
func As(err error, target any) bool { return errors.As(err, target) }

// Wrap adds context to an error without discarding its identity.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
