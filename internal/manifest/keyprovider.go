package manifest

import "github.com/obscurcore/obsc/internal/keyagreement"

// KeyProvider supplies the reader's candidate keys for the trial-
// decryption stage (spec.md §6). A packaging session borrows a
// KeyProvider; providers never hold a back-reference to the session
// (spec.md §9's "cyclic key-management references" guidance).
type KeyProvider interface {
	// SymmetricCandidates returns candidate pre-keys to try against a
	// symmetric-direct header.
	SymmetricCandidates() [][]byte
	// ECKeyPairs returns candidate receiver static keypairs to try
	// against a UM1-hybrid header.
	ECKeyPairs() []*keyagreement.KeyPair
}

// StaticKeyProvider is the simplest KeyProvider: a fixed list of
// candidates supplied up front, grounded on the teacher's single-password
// flow generalized to "try every candidate in order."
type StaticKeyProvider struct {
	Symmetric [][]byte
	ECPairs   []*keyagreement.KeyPair
}

func (p *StaticKeyProvider) SymmetricCandidates() [][]byte       { return p.Symmetric }
func (p *StaticKeyProvider) ECKeyPairs() []*keyagreement.KeyPair { return p.ECPairs }

// NewPasswordProvider wraps a single pre-key (e.g. a KDF'd passphrase) as
// a one-candidate KeyProvider.
func NewPasswordProvider(preKey []byte) *StaticKeyProvider {
	return &StaticKeyProvider{Symmetric: [][]byte{preKey}}
}

// NewReceiverProvider wraps a single receiver keypair as a one-candidate
// KeyProvider for UM1-hybrid packages.
func NewReceiverProvider(kp *keyagreement.KeyPair) *StaticKeyProvider {
	return &StaticKeyProvider{ECPairs: []*keyagreement.KeyPair{kp}}
}
