package kdf

import (
	"bytes"
	"testing"

	"github.com/obscurcore/obsc/internal/registry"
)

func TestDeriveDeterministic(t *testing.T) {
	salt := []byte("0123456789abcdef")
	params := DefaultParams(registry.KDFScrypt)
	params.N = 16 // tiny, test-only cost factor

	k1, err := Derive([]byte("hunter2"), salt, params)
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	k2, err := Derive([]byte("hunter2"), salt, params)
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	if !bytes.Equal(k1, k2) {
		t.Fatalf("derive is not deterministic")
	}
	if len(k1) != params.OutputBits/8 {
		t.Fatalf("wrong output length: got %d want %d", len(k1), params.OutputBits/8)
	}
}

func TestDerivePBKDF2(t *testing.T) {
	params := DefaultParams(registry.KDFPBKDF2)
	params.Iterations = 1000
	k, err := Derive([]byte("hunter2"), []byte("salt1234salt5678"), params)
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	if len(k) != 32 {
		t.Fatalf("wrong output length: %d", len(k))
	}
}

func TestDeriveDifferentSaltDiffers(t *testing.T) {
	params := DefaultParams(registry.KDFScrypt)
	params.N = 16
	k1, _ := Derive([]byte("hunter2"), []byte("saltaaaasaltaaaa"), params)
	k2, _ := Derive([]byte("hunter2"), []byte("saltbbbbsaltbbbb"), params)
	if bytes.Equal(k1, k2) {
		t.Fatalf("different salts produced the same key")
	}
}

func TestDeriveUnknownKDF(t *testing.T) {
	_, err := Derive([]byte("x"), []byte("y"), Params{ID: "bogus", OutputBits: 256})
	if err == nil {
		t.Fatalf("expected error for unknown kdf id")
	}
}
