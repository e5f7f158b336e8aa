// Package cipherstream implements the uniform streaming cipher wrapper
// described in spec.md §4.2: a single New/ProcessBytes/Finalize surface over
// any block-mode-with-padding or stream cipher, backed by concrete
// primitives from golang.org/x/crypto, github.com/Picocrypt/serpent, and the
// standard library. Padding schemes are pluggable policy objects, generalizing
// the teacher's single hard-coded PKCS7 pad/unpad pair
// (Picocrypt-NG internal/encoding/padding.go) into a small strategy registry.
package cipherstream

import (
	"crypto/rand"

	"github.com/obscurcore/obsc/internal/errors"
)

// PaddingScheme names a pluggable padding policy.
type PaddingScheme int

const (
	PaddingPKCS7 PaddingScheme = iota
	PaddingISO10126_2
	PaddingISO7816_4
	PaddingTBC
	PaddingANSIX923
)

// Padder pads a final partial block to blockSize and strips padding from a
// decrypted final block, failing InvalidPadding if the trailing bytes do not
// satisfy the scheme.
type Padder interface {
	Pad(data []byte, blockSize int) ([]byte, error)
	Unpad(data []byte, blockSize int) ([]byte, error)
}

// NewPadder returns the Padder for scheme.
func NewPadder(scheme PaddingScheme) (Padder, error) {
	switch scheme {
	case PaddingPKCS7:
		return pkcs7{}, nil
	case PaddingISO10126_2:
		return iso10126_2{}, nil
	case PaddingISO7816_4:
		return iso7816_4{}, nil
	case PaddingTBC:
		return tbc{}, nil
	case PaddingANSIX923:
		return ansiX923{}, nil
	default:
		return nil, &errors.InvalidConfiguration{What: "padding scheme", Allowed: "PKCS7, ISO10126-2, ISO7816-4, TBC, ANSI X.923"}
	}
}

func padLen(dataLen, blockSize int) int {
	n := blockSize - dataLen%blockSize
	if n == 0 {
		n = blockSize
	}
	return n
}

// pkcs7 appends N bytes of value N.
type pkcs7 struct{}

func (pkcs7) Pad(data []byte, blockSize int) ([]byte, error) {
	n := padLen(len(data), blockSize)
	out := make([]byte, len(data)+n)
	copy(out, data)
	for i := len(data); i < len(out); i++ {
		out[i] = byte(n)
	}
	return out, nil
}

func (pkcs7) Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, errors.ErrInvalidPadding
	}
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize || n > len(data) {
		return nil, errors.ErrInvalidPadding
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, errors.ErrInvalidPadding
		}
	}
	return data[:len(data)-n], nil
}

// iso10126_2 appends N-1 random bytes followed by a length byte N.
type iso10126_2 struct{}

func (iso10126_2) Pad(data []byte, blockSize int) ([]byte, error) {
	n := padLen(len(data), blockSize)
	out := make([]byte, len(data)+n)
	copy(out, data)
	if n > 1 {
		if _, err := rand.Read(out[len(data) : len(out)-1]); err != nil {
			return nil, err
		}
	}
	out[len(out)-1] = byte(n)
	return out, nil
}

func (iso10126_2) Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, errors.ErrInvalidPadding
	}
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize || n > len(data) {
		return nil, errors.ErrInvalidPadding
	}
	return data[:len(data)-n], nil
}

// iso7816_4 appends 0x80 then zero bytes.
type iso7816_4 struct{}

func (iso7816_4) Pad(data []byte, blockSize int) ([]byte, error) {
	n := padLen(len(data), blockSize)
	out := make([]byte, len(data)+n)
	copy(out, data)
	out[len(data)] = 0x80
	return out, nil
}

func (iso7816_4) Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, errors.ErrInvalidPadding
	}
	i := len(data) - 1
	for i >= 0 && data[i] == 0x00 {
		i--
	}
	if i < 0 || data[i] != 0x80 {
		return nil, errors.ErrInvalidPadding
	}
	return data[:i], nil
}

// tbc (trailing-bit-complement) fills padding with the complement of the
// last plaintext bit: all-0xFF if the last bit was 0, all-0x00 if it was 1.
type tbc struct{}

func (tbc) Pad(data []byte, blockSize int) ([]byte, error) {
	n := padLen(len(data), blockSize)
	fill := byte(0xFF)
	if len(data) > 0 && data[len(data)-1]&0x01 == 1 {
		fill = 0x00
	} else if len(data) == 0 {
		fill = 0xFF
	}
	out := make([]byte, len(data)+n)
	copy(out, data)
	for i := len(data); i < len(out); i++ {
		out[i] = fill
	}
	return out, nil
}

func (tbc) Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, errors.ErrInvalidPadding
	}
	fill := data[len(data)-1]
	if fill != 0x00 && fill != 0xFF {
		return nil, errors.ErrInvalidPadding
	}
	i := len(data) - 1
	for i >= 0 && data[i] == fill {
		i--
	}
	if i < 0 {
		return nil, errors.ErrInvalidPadding
	}
	return data[:i+1], nil
}

// ansiX923 appends zero bytes then a length byte N.
type ansiX923 struct{}

func (ansiX923) Pad(data []byte, blockSize int) ([]byte, error) {
	n := padLen(len(data), blockSize)
	out := make([]byte, len(data)+n)
	copy(out, data)
	out[len(out)-1] = byte(n)
	return out, nil
}

func (ansiX923) Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, errors.ErrInvalidPadding
	}
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize || n > len(data) {
		return nil, errors.ErrInvalidPadding
	}
	for _, b := range data[len(data)-n : len(data)-1] {
		if b != 0 {
			return nil, errors.ErrInvalidPadding
		}
	}
	return data[:len(data)-n], nil
}
