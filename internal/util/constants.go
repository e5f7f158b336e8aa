// Package util provides ambient helpers shared across the packaging engine:
// byte-size constants, buffer pooling, progress formatting, secure zeroing,
// and passphrase generation. KeyMaterial holds mutable state with no
// locking and is not safe for concurrent use; BufferPool is backed by
// sync.Pool; the remaining helpers hold no state.
package util

// Size constants for byte calculations.
const (
	KiB = 1 << 10
	MiB = 1 << 20
	GiB = 1 << 30
	TiB = 1 << 40
)
