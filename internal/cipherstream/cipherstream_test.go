package cipherstream

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/obscurcore/obsc/internal/registry"
)

func roundTrip(t *testing.T, cfg Config, plaintext []byte) {
	t.Helper()

	enc, err := New(true, cfg)
	if err != nil {
		t.Fatalf("New(encrypt): %v", err)
	}
	ctBuf := make([]byte, len(plaintext)+64)
	n, err := enc.ProcessBytes(plaintext, ctBuf)
	if err != nil {
		t.Fatalf("ProcessBytes(encrypt): %v", err)
	}
	written := n
	n, err = enc.Finalize(ctBuf[written:])
	if err != nil {
		t.Fatalf("Finalize(encrypt): %v", err)
	}
	written += n
	ciphertext := ctBuf[:written]

	dec, err := New(false, cfg)
	if err != nil {
		t.Fatalf("New(decrypt): %v", err)
	}
	ptBuf := make([]byte, len(ciphertext)+64)
	n, err = dec.ProcessBytes(ciphertext, ptBuf)
	if err != nil {
		t.Fatalf("ProcessBytes(decrypt): %v", err)
	}
	read := n
	n, err = dec.Finalize(ptBuf[read:])
	if err != nil {
		t.Fatalf("Finalize(decrypt): %v", err)
	}
	read += n

	if !bytes.Equal(ptBuf[:read], plaintext) {
		t.Fatalf("round trip mismatch: got %x want %x", ptBuf[:read], plaintext)
	}
}

func TestRoundTripAESGCM(t *testing.T) {
	key := make([]byte, 32)
	rand.Read(key)
	nonce := make([]byte, 12)
	rand.Read(nonce)
	cfg := Config{Cipher: registry.CipherAES, Mode: registry.ModeGCM, Key: key, Nonce: nonce}
	roundTrip(t, cfg, []byte("the quick brown fox jumps over the lazy dog"))
}

func TestRoundTripAESCBC(t *testing.T) {
	key := make([]byte, 32)
	rand.Read(key)
	nonce := make([]byte, 16)
	rand.Read(nonce)
	cfg := Config{Cipher: registry.CipherAES, Mode: registry.ModeCBC, Key: key, Nonce: nonce, Padding: PaddingPKCS7}
	roundTrip(t, cfg, []byte("exactly-16-bytes"))
	roundTrip(t, cfg, []byte("not a full block"[:11]))
	roundTrip(t, cfg, nil)
}

func TestRoundTripSerpentEAX(t *testing.T) {
	key := make([]byte, 32)
	rand.Read(key)
	nonce := make([]byte, 16)
	rand.Read(nonce)
	cfg := Config{Cipher: registry.CipherSerpent, Mode: registry.ModeEAX, Key: key, Nonce: nonce, AAD: []byte("header")}
	roundTrip(t, cfg, bytes.Repeat([]byte("x"), 1000))
}

func TestRoundTripChaCha20(t *testing.T) {
	key := make([]byte, 32)
	rand.Read(key)
	nonce := make([]byte, 12)
	rand.Read(nonce)
	cfg := Config{Cipher: registry.CipherChaCha20, Key: key, Nonce: nonce}
	roundTrip(t, cfg, []byte("stream ciphers need no padding at all"))
}

func TestRoundTripXSalsa20(t *testing.T) {
	key := make([]byte, 32)
	rand.Read(key)
	nonce := make([]byte, 24)
	rand.Read(nonce)
	cfg := Config{Cipher: registry.CipherXSalsa20, Key: key, Nonce: nonce}
	roundTrip(t, cfg, bytes.Repeat([]byte("y"), 257))
}

func TestRoundTripHC128(t *testing.T) {
	key := make([]byte, 16)
	rand.Read(key)
	nonce := make([]byte, 16)
	rand.Read(nonce)
	cfg := Config{Cipher: registry.CipherHC128, Key: key, Nonce: nonce}
	roundTrip(t, cfg, bytes.Repeat([]byte("z"), 513))
}

func TestRejectsBadKeySize(t *testing.T) {
	cfg := Config{Cipher: registry.CipherAES, Mode: registry.ModeGCM, Key: make([]byte, 13), Nonce: make([]byte, 12)}
	if _, err := New(true, cfg); err == nil {
		t.Fatalf("expected a key-size error")
	}
}

func TestCBCDecryptRejectsBadPadding(t *testing.T) {
	key := make([]byte, 32)
	rand.Read(key)
	nonce := make([]byte, 16)
	rand.Read(nonce)
	cfg := Config{Cipher: registry.CipherAES, Mode: registry.ModeCBC, Key: key, Nonce: nonce, Padding: PaddingPKCS7}

	enc, _ := New(true, cfg)
	ctBuf := make([]byte, 64)
	n, _ := enc.ProcessBytes([]byte("0123456789abcdef"), ctBuf)
	n2, _ := enc.Finalize(ctBuf[n:])
	ciphertext := ctBuf[:n+n2]
	ciphertext[len(ciphertext)-1] ^= 0xFF // garbles the decrypted final block, which holds the padding

	dec, _ := New(false, cfg)
	ptBuf := make([]byte, 64)
	m, _ := dec.ProcessBytes(ciphertext, ptBuf)
	if _, err := dec.Finalize(ptBuf[m:]); err == nil {
		t.Fatalf("expected a padding error on corrupted ciphertext")
	}
}
