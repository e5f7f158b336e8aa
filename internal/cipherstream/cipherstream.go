package cipherstream

import (
	"crypto/cipher"
	"fmt"

	"github.com/obscurcore/obsc/internal/errors"
	"github.com/obscurcore/obsc/internal/registry"
)

// Config names a fully-resolved cipher configuration: which primitive, which
// mode (block ciphers only), the key/nonce material, the padding scheme for
// CBC, and additional authenticated data for GCM/EAX.
type Config struct {
	Cipher  registry.CipherID
	Mode    registry.BlockCipherMode
	Key     []byte
	Nonce   []byte
	Padding PaddingScheme
	AAD     []byte
}

// Wrapper is the uniform stateful transformer described in spec.md §4.2: one
// New/ProcessBytes/Finalize surface over every registered cipher, whether a
// raw stream cipher, a non-AEAD block mode, or an AEAD mode.
type Wrapper struct {
	cfg        Config
	encrypting bool
	spec       registry.CipherSpec

	streamXOR func(dst, src []byte)

	cbcBlock  cipher.Block
	cbcStream cipher.BlockMode
	cbcBuf    []byte
	padder    Padder

	aead    aeadLike
	aeadBuf []byte

	finalized bool
}

// New validates cfg against the primitive registry and constructs a Wrapper
// ready to transform bytes in the given direction.
func New(encrypting bool, cfg Config) (*Wrapper, error) {
	spec, err := registry.LookupCipher(cfg.Cipher, len(cfg.Key)*8, len(cfg.Nonce)*8)
	if err != nil {
		return nil, err
	}

	w := &Wrapper{cfg: cfg, encrypting: encrypting, spec: spec}

	if spec.Kind == registry.KindStream {
		ks, err := streamCipherFor(cfg.Cipher, cfg.Key, cfg.Nonce)
		if err != nil {
			return nil, err
		}
		w.streamXOR = ks.XORKeyStream
		return w, nil
	}

	if _, err := registry.LookupMode(cfg.Cipher, cfg.Mode); err != nil {
		return nil, err
	}
	block, err := blockCipherFor(cfg.Cipher, cfg.Key)
	if err != nil {
		return nil, err
	}

	switch cfg.Mode {
	case registry.ModeCTR:
		s := cipher.NewCTR(block, cfg.Nonce)
		w.streamXOR = s.XORKeyStream
	case registry.ModeCFB:
		if encrypting {
			s := cipher.NewCFBEncrypter(block, cfg.Nonce)
			w.streamXOR = s.XORKeyStream
		} else {
			s := cipher.NewCFBDecrypter(block, cfg.Nonce)
			w.streamXOR = s.XORKeyStream
		}
	case registry.ModeOFB:
		s := cipher.NewOFB(block, cfg.Nonce)
		w.streamXOR = s.XORKeyStream
	case registry.ModeCBC:
		padder, err := NewPadder(cfg.Padding)
		if err != nil {
			return nil, err
		}
		w.padder = padder
		w.cbcBlock = block
		if encrypting {
			w.cbcStream = cipher.NewCBCEncrypter(block, cfg.Nonce)
		} else {
			w.cbcStream = cipher.NewCBCDecrypter(block, cfg.Nonce)
		}
	case registry.ModeGCM:
		a, err := gcmFor(block, len(cfg.Nonce))
		if err != nil {
			return nil, err
		}
		w.aead = a
	case registry.ModeEAX:
		a, err := eaxFor(block)
		if err != nil {
			return nil, err
		}
		w.aead = a
	default:
		return nil, &errors.InvalidConfiguration{What: "mode", Allowed: "CTR, CBC, CFB, OFB, GCM, EAX"}
	}
	return w, nil
}

// ProcessBytes streams a transform. Stream ciphers and non-CBC block modes
// emit 1:1 immediately; CBC emits complete blocks and buffers the tail; AEAD
// modes buffer everything, since a decrypt cannot be partially authenticated
// before the trailing tag arrives.
func (w *Wrapper) ProcessBytes(in, out []byte) (int, error) {
	if w.finalized {
		return 0, fmt.Errorf("cipherstream: ProcessBytes called after Finalize")
	}
	switch {
	case w.aead != nil:
		w.aeadBuf = append(w.aeadBuf, in...)
		return 0, nil
	case w.cbcStream != nil:
		return w.processCBC(in, out)
	default:
		if len(out) < len(in) {
			return 0, fmt.Errorf("cipherstream: output buffer too small")
		}
		w.streamXOR(out[:len(in)], in)
		return len(in), nil
	}
}

func (w *Wrapper) processCBC(in, out []byte) (int, error) {
	w.cbcBuf = append(w.cbcBuf, in...)
	bs := w.cbcBlock.BlockSize()

	// Always keep at least one block buffered: the final block may carry
	// padding (encrypt) or need padding stripped (decrypt), and that can
	// only be resolved at Finalize.
	avail := len(w.cbcBuf) - bs
	if avail <= 0 {
		return 0, nil
	}
	n := (avail / bs) * bs
	if n == 0 {
		return 0, nil
	}
	if len(out) < n {
		return 0, fmt.Errorf("cipherstream: output buffer too small")
	}
	w.cbcStream.CryptBlocks(out[:n], w.cbcBuf[:n])
	rest := make([]byte, len(w.cbcBuf)-n)
	copy(rest, w.cbcBuf[n:])
	w.cbcBuf = rest
	return n, nil
}

// Finalize emits the final block (padded on encrypt, unpadded on decrypt)
// or, for AEAD modes, performs the single Seal/Open over the buffered item.
func (w *Wrapper) Finalize(out []byte) (int, error) {
	if w.finalized {
		return 0, fmt.Errorf("cipherstream: Finalize called twice")
	}
	w.finalized = true

	switch {
	case w.aead != nil:
		return w.finalizeAEAD(out)
	case w.cbcStream != nil:
		return w.finalizeCBC(out)
	default:
		return 0, nil
	}
}

func (w *Wrapper) finalizeAEAD(out []byte) (int, error) {
	if w.encrypting {
		sealed := w.aead.Seal(nil, w.cfg.Nonce, w.aeadBuf, w.cfg.AAD)
		if len(out) < len(sealed) {
			return 0, fmt.Errorf("cipherstream: output buffer too small")
		}
		copy(out, sealed)
		return len(sealed), nil
	}
	opened, err := w.aead.Open(nil, w.cfg.Nonce, w.aeadBuf, w.cfg.AAD)
	if err != nil {
		return 0, &errors.PayloadAuthFail{}
	}
	if len(out) < len(opened) {
		return 0, fmt.Errorf("cipherstream: output buffer too small")
	}
	copy(out, opened)
	return len(opened), nil
}

func (w *Wrapper) finalizeCBC(out []byte) (int, error) {
	bs := w.cbcBlock.BlockSize()
	if w.encrypting {
		padded, err := w.padder.Pad(w.cbcBuf, bs)
		if err != nil {
			return 0, err
		}
		if len(out) < len(padded) {
			return 0, fmt.Errorf("cipherstream: output buffer too small")
		}
		w.cbcStream.CryptBlocks(out[:len(padded)], padded)
		return len(padded), nil
	}
	if len(w.cbcBuf) == 0 || len(w.cbcBuf)%bs != 0 {
		return 0, errors.ErrTruncatedPayload
	}
	plain := make([]byte, len(w.cbcBuf))
	w.cbcStream.CryptBlocks(plain, w.cbcBuf)
	unpadded, err := w.padder.Unpad(plain, bs)
	if err != nil {
		return 0, err
	}
	if len(out) < len(unpadded) {
		return 0, fmt.Errorf("cipherstream: output buffer too small")
	}
	copy(out, unpadded)
	return len(unpadded), nil
}
