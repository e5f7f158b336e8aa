package macstream

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/obscurcore/obsc/internal/errors"
	"github.com/obscurcore/obsc/internal/registry"
)

func TestChainRoundTrip(t *testing.T) {
	key := make([]byte, 64)
	rand.Read(key)

	var sink bytes.Buffer
	writeMAC, err := NewMAC(registry.MACBLAKE2bKeyed, key[:32])
	if err != nil {
		t.Fatalf("NewMAC: %v", err)
	}
	wc := NewChain(writeMAC, func(p []byte) error { sink.Write(p); return nil })
	if _, err := wc.Write([]byte("hello, ")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if _, err := wc.Write([]byte("world")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	tag := wc.Finalize()

	readMAC, err := NewMAC(registry.MACBLAKE2bKeyed, key[:32])
	if err != nil {
		t.Fatalf("NewMAC: %v", err)
	}
	var out bytes.Buffer
	rc := NewChain(readMAC, func(p []byte) error { out.Write(p); return nil })
	if _, err := rc.Write(sink.Bytes()); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := rc.Verify(tag, errors.ScopeItem, "item-1"); err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if out.String() != "hello, world" {
		t.Fatalf("got %q", out.String())
	}
}

func TestChainRejectsTamperedTag(t *testing.T) {
	key := make([]byte, 32)
	rand.Read(key)

	mac, _ := NewMAC(registry.MACHMAC, key)
	c := NewChain(mac, func([]byte) error { return nil })
	c.Write([]byte("payload"))
	tag := c.Finalize()
	tag[0] ^= 0xFF

	mac2, _ := NewMAC(registry.MACHMAC, key)
	c2 := NewChain(mac2, func([]byte) error { return nil })
	c2.Write([]byte("payload"))
	if err := c2.Verify(tag, errors.ScopeManifest, ""); err == nil {
		t.Fatalf("expected MacMismatch")
	} else {
		var mm *errors.MacMismatch
		if !errors.As(err, &mm) {
			t.Fatalf("expected *errors.MacMismatch, got %T", err)
		}
	}
}

func TestCMACRoundTrip(t *testing.T) {
	key := make([]byte, 32)
	rand.Read(key)
	m1, err := NewMAC(registry.MACCMAC, key)
	if err != nil {
		t.Fatalf("NewMAC: %v", err)
	}
	m1.Write([]byte("cmac message"))
	tag1 := m1.Sum(nil)

	m2, _ := NewMAC(registry.MACCMAC, key)
	m2.Write([]byte("cmac message"))
	tag2 := m2.Sum(nil)

	if !bytes.Equal(tag1, tag2) {
		t.Fatalf("CMAC not deterministic: %x vs %x", tag1, tag2)
	}
}

func TestPoly1305RejectsBadKeySize(t *testing.T) {
	if _, err := NewMAC(registry.MACPoly1305, make([]byte, 16)); err == nil {
		t.Fatalf("expected an error for a short Poly1305 key")
	}
}
