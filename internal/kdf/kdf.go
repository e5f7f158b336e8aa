// Package kdf implements the Kdf collaborator named in spec.md §6
// (`derive(pre_key, salt, out_len, params) -> key`): the manifest pipeline's
// symmetric-direct and UM1-hybrid schemes both run their pre-key (a
// passphrase or a raw shared secret) through one of these before using the
// result as a manifest key. Grounded on the teacher's
// internal/crypto/kdf.go DeriveKey (Argon2id there; spec.md §1 scopes this
// engine's KDF catalogue to scrypt and PBKDF2 instead, so those replace
// Argon2id while keeping the same "derive once, check for an all-zero
// output" shape).
package kdf

import (
	"bytes"
	"crypto/sha256"

	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/crypto/scrypt"

	"github.com/obscurcore/obsc/internal/errors"
	"github.com/obscurcore/obsc/internal/registry"
)

var sha256New = sha256.New

// Params carries the scrypt or PBKDF2 parameters a PackageHeader stores in
// the clear. scrypt uses N/R/P; PBKDF2 uses Iterations. OutputBits is
// common to both.
type Params struct {
	ID         registry.KDFID
	N, R, P    int
	Iterations int
	OutputBits int
}

// DefaultParams returns conservative parameters for id, matching the
// S1 scenario's scrypt(N=16384,r=8,p=1) (spec.md §8).
func DefaultParams(id registry.KDFID) Params {
	switch id {
	case registry.KDFScrypt:
		return Params{ID: id, N: 16384, R: 8, P: 1, OutputBits: 256}
	case registry.KDFPBKDF2:
		return Params{ID: id, Iterations: 600000, OutputBits: 256}
	default:
		return Params{ID: id, OutputBits: 256}
	}
}

// Derive runs preKey through the configured KDF with salt, producing
// params.OutputBits/8 bytes. Fails InvalidConfiguration if the derived key
// is all-zero, the same sanity check the teacher's DeriveKey performs.
func Derive(preKey, salt []byte, params Params) ([]byte, error) {
	if _, err := registry.LookupKDF(params.ID); err != nil {
		return nil, err
	}
	outLen := params.OutputBits / 8
	if outLen <= 0 {
		return nil, &errors.InvalidConfiguration{What: "kdf output size", Allowed: "positive multiple of 8 bits"}
	}

	var key []byte
	var err error
	switch params.ID {
	case registry.KDFScrypt:
		n, r, p := params.N, params.R, params.P
		if n <= 1 {
			n = 16384
		}
		if r <= 0 {
			r = 8
		}
		if p <= 0 {
			p = 1
		}
		key, err = scrypt.Key(preKey, salt, n, r, p, outLen)
	case registry.KDFPBKDF2:
		iter := params.Iterations
		if iter <= 0 {
			iter = 600000
		}
		key = pbkdf2.Key(preKey, salt, iter, outLen, sha256New)
	default:
		return nil, &errors.InvalidConfiguration{What: "kdf", Allowed: "scrypt, pbkdf2"}
	}
	if err != nil {
		return nil, errors.Wrap(err, "kdf: derive")
	}
	if bytes.Equal(key, make([]byte, len(key))) {
		return nil, &errors.InvalidConfiguration{What: "kdf output", Allowed: "non-zero derived key"}
	}
	return key, nil
}
