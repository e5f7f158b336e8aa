package keyagreement

import (
	"bytes"
	"testing"

	"github.com/obscurcore/obsc/internal/registry"
)

func TestUM1AgreementSymmetric(t *testing.T) {
	sender, err := Generate(registry.CurveX25519)
	if err != nil {
		t.Fatalf("Generate sender: %v", err)
	}
	receiver, err := Generate(registry.CurveX25519)
	if err != nil {
		t.Fatalf("Generate receiver: %v", err)
	}
	ephemeral, err := Generate(registry.CurveX25519)
	if err != nil {
		t.Fatalf("Generate ephemeral: %v", err)
	}

	senderSide, err := SenderUM1(registry.CurveX25519, sender.Private, receiver.Public, ephemeral.Private)
	if err != nil {
		t.Fatalf("SenderUM1: %v", err)
	}
	receiverSide, err := ReceiverUM1(registry.CurveX25519, receiver.Private, sender.Public, ephemeral.Public)
	if err != nil {
		t.Fatalf("ReceiverUM1: %v", err)
	}
	if !bytes.Equal(senderSide, receiverSide) {
		t.Fatalf("UM1 shared secrets diverge: sender=%x receiver=%x", senderSide, receiverSide)
	}
}

func TestUM1AgreementNISTCurve(t *testing.T) {
	sender, err := Generate(registry.CurveP256)
	if err != nil {
		t.Fatalf("Generate sender: %v", err)
	}
	receiver, err := Generate(registry.CurveP256)
	if err != nil {
		t.Fatalf("Generate receiver: %v", err)
	}
	ephemeral, err := Generate(registry.CurveP256)
	if err != nil {
		t.Fatalf("Generate ephemeral: %v", err)
	}

	senderSide, err := SenderUM1(registry.CurveP256, sender.Private, receiver.Public, ephemeral.Private)
	if err != nil {
		t.Fatalf("SenderUM1: %v", err)
	}
	receiverSide, err := ReceiverUM1(registry.CurveP256, receiver.Private, sender.Public, ephemeral.Public)
	if err != nil {
		t.Fatalf("ReceiverUM1: %v", err)
	}
	if !bytes.Equal(senderSide, receiverSide) {
		t.Fatalf("UM1 shared secrets diverge on P-256")
	}
}

func TestFromPrivateMatchesGenerate(t *testing.T) {
	kp, err := Generate(registry.CurveX25519)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	rebuilt, err := FromPrivate(registry.CurveX25519, kp.Private)
	if err != nil {
		t.Fatalf("FromPrivate: %v", err)
	}
	if !bytes.Equal(kp.Public, rebuilt.Public) {
		t.Fatalf("FromPrivate produced a different public key than Generate")
	}
}

func TestUM1DifferentEphemeralDiffersSecret(t *testing.T) {
	sender, _ := Generate(registry.CurveX25519)
	receiver, _ := Generate(registry.CurveX25519)
	e1, _ := Generate(registry.CurveX25519)
	e2, _ := Generate(registry.CurveX25519)

	s1, err := SenderUM1(registry.CurveX25519, sender.Private, receiver.Public, e1.Private)
	if err != nil {
		t.Fatalf("SenderUM1: %v", err)
	}
	s2, err := SenderUM1(registry.CurveX25519, sender.Private, receiver.Public, e2.Private)
	if err != nil {
		t.Fatalf("SenderUM1: %v", err)
	}
	if bytes.Equal(s1, s2) {
		t.Fatalf("expected different ephemeral keys to produce different shared secrets")
	}
}
