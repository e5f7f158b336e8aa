package manifest

import (
	"bytes"
	"crypto/rand"
	"fmt"

	"github.com/obscurcore/obsc/internal/cipherstream"
	"github.com/obscurcore/obsc/internal/errors"
	"github.com/obscurcore/obsc/internal/macstream"
	"github.com/obscurcore/obsc/internal/registry"
)

// randomBytes returns n cryptographically random bytes from crypto/rand.
// It makes no all-zero sanity check on the result.
func randomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("manifest: crypto/rand: %w", err)
	}
	return b, nil
}

// sealItem runs plaintext through an Encrypt-then-MAC chain using the
// item's already-assigned cipher/MAC configuration, returning
// ciphertext||tag as one contiguous span ready for the multiplexer, and
// populating item.Auth.Tag.
func sealItem(item *PayloadItem, plaintext []byte) ([]byte, error) {
	w, err := cipherstream.New(true, cipherstream.Config{
		Cipher:  item.Cipher.Cipher,
		Mode:    item.Cipher.Mode,
		Key:     item.Cipher.Key,
		Nonce:   item.Cipher.Nonce,
		Padding: item.Cipher.Padding,
	})
	if err != nil {
		return nil, err
	}

	mac, err := macstream.NewMAC(item.Auth.MAC, item.Auth.Key)
	if err != nil {
		return nil, err
	}

	var sink bytes.Buffer
	chain := macstream.NewChain(mac, func(p []byte) error {
		_, err := sink.Write(p)
		return err
	})

	buf := make([]byte, len(plaintext)+64)
	n, err := w.ProcessBytes(plaintext, buf)
	if err != nil {
		return nil, err
	}
	if _, err := chain.Write(buf[:n]); err != nil {
		return nil, err
	}
	n, err = w.Finalize(buf)
	if err != nil {
		return nil, err
	}
	if _, err := chain.Write(buf[:n]); err != nil {
		return nil, err
	}

	tag := chain.Finalize()
	item.Auth.Tag = tag
	return append(sink.Bytes(), tag...), nil
}

// openItem reverses sealItem: it splits span into ciphertext||tag using
// the registry-derived tag size, verifies the MAC in constant time, and
// returns the recovered plaintext. Fails MacMismatch{Item} on a bad tag,
// per spec.md §7.
func openItem(item *PayloadItem, span []byte) ([]byte, error) {
	tagLen, err := macTagSizeFor(item)
	if err != nil {
		return nil, err
	}
	if len(span) < tagLen {
		return nil, errors.ErrTruncatedPayload
	}
	ciphertext := span[:len(span)-tagLen]
	wantTag := span[len(span)-tagLen:]

	mac, err := macstream.NewMAC(item.Auth.MAC, item.Auth.Key)
	if err != nil {
		return nil, err
	}
	if _, err := mac.Write(ciphertext); err != nil {
		return nil, err
	}
	chain := macstream.NewChain(mac, func([]byte) error { return nil })
	if err := chain.Verify(wantTag, errors.ScopeItem, item.ID.String()); err != nil {
		return nil, err
	}

	w, err := cipherstream.New(false, cipherstream.Config{
		Cipher:  item.Cipher.Cipher,
		Mode:    item.Cipher.Mode,
		Key:     item.Cipher.Key,
		Nonce:   item.Cipher.Nonce,
		Padding: item.Cipher.Padding,
	})
	if err != nil {
		return nil, err
	}
	buf := make([]byte, len(ciphertext)+64)
	n, err := w.ProcessBytes(ciphertext, buf)
	if err != nil {
		return nil, err
	}
	plain := append([]byte{}, buf[:n]...)
	n, err = w.Finalize(buf)
	if err != nil {
		return nil, err
	}
	plain = append(plain, buf[:n]...)
	return plain, nil
}

// macTagSizeFor is the size of the outer Encrypt-then-MAC tag sealItem
// appends after the cipher's own ciphertext. An AEAD mode's internal tag is
// not this: sealItem feeds the AEAD's sealed output (ciphertext plus its
// own tag) through the outer MAC chain as one span, so that tag is never a
// separately-trailing segment here — it is embedded inside the ciphertext
// that cipherstream decrypts as a whole.
func macTagSizeFor(item *PayloadItem) (int, error) {
	m, err := registry.LookupMAC(item.Auth.MAC, 0)
	if err != nil {
		return 0, err
	}
	return m.TagSizeBits / 8, nil
}

// sealedLength is the ciphertext+tag length a plaintext of n bytes will
// produce for the given item configuration, needed so the reader can size
// its multiplex.ItemSink before any bytes arrive.
func sealedLength(item *PayloadItem, n int64) (int, error) {
	spec, err := registry.LookupCipher(item.Cipher.Cipher, 0, 0)
	if err != nil {
		return 0, err
	}
	ctLen := int(n)
	switch {
	case spec.Kind == registry.KindBlock && item.Cipher.Mode == registry.ModeCBC:
		bs := spec.BlockSizeBits / 8
		ctLen = (int(n)/bs + 1) * bs
	case spec.Kind == registry.KindBlock && item.Cipher.Mode.IsAEAD():
		ctLen = int(n) + 16 // the AEAD's own authentication tag
	}
	macTagLen, err := macTagSizeFor(item)
	if err != nil {
		return 0, err
	}
	return ctLen + macTagLen, nil
}
