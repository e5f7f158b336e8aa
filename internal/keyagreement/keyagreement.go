// Package keyagreement implements UM1, the one-pass static-static-ephemeral
// Diffie-Hellman hybrid construction the manifest pipeline uses to derive a
// package's manifest key from a recipient's static public key (spec.md
// §4.6, "UM1-hybrid"), plus the Curve25519/NIST-curve keypair plumbing it
// sits on. Curve25519 operations are grounded on
// github.com/cloudflare/circl/dh/x25519; NIST curve operations use the
// standard library's crypto/ecdh.
package keyagreement

import (
	"crypto/ecdh"
	"crypto/rand"
	"fmt"

	"github.com/cloudflare/circl/dh/x25519"

	"github.com/obscurcore/obsc/internal/registry"
)

// KeyPair is a curve-agnostic asymmetric keypair used for UM1 agreement.
type KeyPair struct {
	Curve   registry.CurveID
	Private []byte
	Public  []byte
}

// Generate creates a fresh keypair on the given curve.
func Generate(curve registry.CurveID) (*KeyPair, error) {
	if _, err := registry.LookupCurve(curve); err != nil {
		return nil, err
	}
	switch curve {
	case registry.CurveX25519:
		var priv x25519.Key
		if _, err := rand.Read(priv[:]); err != nil {
			return nil, err
		}
		var pub x25519.Key
		x25519.KeyGen(&pub, &priv)
		return &KeyPair{Curve: curve, Private: priv[:], Public: pub[:]}, nil
	case registry.CurveP256, registry.CurveP384, registry.CurveP521:
		c := nistCurve(curve)
		key, err := c.GenerateKey(rand.Reader)
		if err != nil {
			return nil, err
		}
		return &KeyPair{Curve: curve, Private: key.Bytes(), Public: key.PublicKey().Bytes()}, nil
	default:
		return nil, fmt.Errorf("keyagreement: unsupported curve %s", curve)
	}
}

// FromPrivate rebuilds a KeyPair's public half from a raw private key,
// for callers (e.g. the CLI) that hold a private key out-of-band and need
// the matching public key to hand to SenderUM1/ReceiverUM1.
func FromPrivate(curve registry.CurveID, priv []byte) (*KeyPair, error) {
	if _, err := registry.LookupCurve(curve); err != nil {
		return nil, err
	}
	switch curve {
	case registry.CurveX25519:
		var p, pub x25519.Key
		copy(p[:], priv)
		x25519.KeyGen(&pub, &p)
		return &KeyPair{Curve: curve, Private: priv, Public: pub[:]}, nil
	case registry.CurveP256, registry.CurveP384, registry.CurveP521:
		c := nistCurve(curve)
		key, err := c.NewPrivateKey(priv)
		if err != nil {
			return nil, err
		}
		return &KeyPair{Curve: curve, Private: priv, Public: key.PublicKey().Bytes()}, nil
	default:
		return nil, fmt.Errorf("keyagreement: unsupported curve %s", curve)
	}
}

func nistCurve(id registry.CurveID) ecdh.Curve {
	switch id {
	case registry.CurveP256:
		return ecdh.P256()
	case registry.CurveP384:
		return ecdh.P384()
	default:
		return ecdh.P521()
	}
}

// dh computes a raw Diffie-Hellman shared secret on curve between priv and
// the peer's public key bytes.
func dh(curve registry.CurveID, priv, peerPublic []byte) ([]byte, error) {
	switch curve {
	case registry.CurveX25519:
		var p, pub, shared x25519.Key
		copy(p[:], priv)
		copy(pub[:], peerPublic)
		if !x25519.Shared(&shared, &p, &pub) {
			return nil, fmt.Errorf("keyagreement: x25519 shared secret is the all-zero point")
		}
		return shared[:], nil
	case registry.CurveP256, registry.CurveP384, registry.CurveP521:
		c := nistCurve(curve)
		privKey, err := c.NewPrivateKey(priv)
		if err != nil {
			return nil, err
		}
		pubKey, err := c.NewPublicKey(peerPublic)
		if err != nil {
			return nil, err
		}
		return privKey.ECDH(pubKey)
	default:
		return nil, fmt.Errorf("keyagreement: unsupported curve %s", curve)
	}
}

// SenderUM1 computes the UM1 shared secret from the sender's perspective:
// DH(senderStaticPriv, receiverStaticPub) || DH(ephemeralPriv, receiverStaticPub).
func SenderUM1(curve registry.CurveID, senderStaticPriv, receiverStaticPub, ephemeralPriv []byte) ([]byte, error) {
	dh1, err := dh(curve, senderStaticPriv, receiverStaticPub)
	if err != nil {
		return nil, err
	}
	dh2, err := dh(curve, ephemeralPriv, receiverStaticPub)
	if err != nil {
		return nil, err
	}
	return append(dh1, dh2...), nil
}

// ReceiverUM1 computes the same shared secret from the receiver's side:
// DH(receiverStaticPriv, senderStaticPub) || DH(receiverStaticPriv, ephemeralPub).
// Diffie-Hellman's commutativity makes this identical to SenderUM1's output.
func ReceiverUM1(curve registry.CurveID, receiverStaticPriv, senderStaticPub, ephemeralPub []byte) ([]byte, error) {
	dh1, err := dh(curve, receiverStaticPriv, senderStaticPub)
	if err != nil {
		return nil, err
	}
	dh2, err := dh(curve, receiverStaticPriv, ephemeralPub)
	if err != nil {
		return nil, err
	}
	return append(dh1, dh2...), nil
}
