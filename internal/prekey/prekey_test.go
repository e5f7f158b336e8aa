package prekey

import (
	"bytes"
	"testing"

	"golang.org/x/crypto/sha3"
)

func TestCombineEmpty(t *testing.T) {
	got := Combine(nil, true)
	if len(got) != 32 {
		t.Fatalf("len(Combine(nil)) = %d, want 32", len(got))
	}
	if !IsDegenerate(got) {
		t.Fatalf("Combine(nil) should be all-zero")
	}
}

func TestCombineOrderedMatchesHash(t *testing.T) {
	secrets := [][]byte{[]byte("passphrase"), []byte("secret-file-contents")}
	got := Combine(secrets, true)

	h := sha3.New256()
	h.Write(secrets[0])
	h.Write(secrets[1])
	want := h.Sum(nil)

	if !bytes.Equal(got, want) {
		t.Fatalf("ordered combine mismatch: got %x want %x", got, want)
	}
}

func TestCombineOrderedOrderSensitive(t *testing.T) {
	a := Combine([][]byte{[]byte("one"), []byte("two")}, true)
	b := Combine([][]byte{[]byte("two"), []byte("one")}, true)
	if bytes.Equal(a, b) {
		t.Fatalf("ordered combine should be order-sensitive")
	}
}

func TestCombineUnorderedOrderInsensitive(t *testing.T) {
	a := Combine([][]byte{[]byte("one"), []byte("two"), []byte("three")}, false)
	b := Combine([][]byte{[]byte("three"), []byte("one"), []byte("two")}, false)
	if !bytes.Equal(a, b) {
		t.Fatalf("unordered combine should not depend on order: %x != %x", a, b)
	}
}

func TestCombineUnorderedDuplicatesCancel(t *testing.T) {
	secret := []byte("same-secret-twice")
	got := Combine([][]byte{secret, secret}, false)
	if !IsDegenerate(got) {
		t.Fatalf("two identical secrets under unordered combine should cancel to all-zero")
	}
}

func TestCombineSingleSecret(t *testing.T) {
	secret := []byte("only-one-secret")
	ordered := Combine([][]byte{secret}, true)
	unordered := Combine([][]byte{secret}, false)
	if !bytes.Equal(ordered, unordered) {
		t.Fatalf("a single secret should combine identically regardless of ordered flag")
	}

	h := sha3.New256()
	h.Write(secret)
	want := h.Sum(nil)
	if !bytes.Equal(ordered, want) {
		t.Fatalf("single-secret combine should equal its own hash")
	}
}
