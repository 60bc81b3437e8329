// Package cryptox keeps short-lived secrets sealed while they sit in memory.
//
// The portal API has no refresh token: renewing a session means sending the
// password again. The controller therefore holds the password for the whole
// session; Sealer keeps it encrypted under a per-process random key so that a
// plain copy only exists for the duration of an authenticate call.
package cryptox

import (
	"crypto/cipher"
	"errors"

	"github.com/dmitrijs2005/netkeeper/internal/common"
	"golang.org/x/crypto/chacha20poly1305"
)

// ErrEmptyBox is returned by Open when there is nothing to open.
var ErrEmptyBox = errors.New("empty box")

// Box is an opaque sealed value produced by Sealer.Seal.
type Box struct {
	nonce      []byte
	ciphertext []byte
}

// Empty reports whether the box holds no sealed data.
func (b *Box) Empty() bool {
	return b == nil || len(b.ciphertext) == 0
}

// Wipe zeroes the box contents.
func (b *Box) Wipe() {
	if b == nil {
		return
	}
	common.WipeByteArray(b.nonce)
	common.WipeByteArray(b.ciphertext)
	b.nonce, b.ciphertext = nil, nil
}

// Sealer encrypts values with XChaCha20-Poly1305 under a random key that
// never leaves the process.
type Sealer struct {
	aead cipher.AEAD
}

// NewSealer creates a Sealer with a fresh random key.
func NewSealer() (*Sealer, error) {
	key := common.GenerateRandByteArray(chacha20poly1305.KeySize)
	defer common.WipeByteArray(key)

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	return &Sealer{aead: aead}, nil
}

// Seal encrypts plaintext. The caller keeps ownership of plaintext and should
// wipe it when done.
func (s *Sealer) Seal(plaintext []byte) *Box {
	nonce := common.GenerateRandByteArray(s.aead.NonceSize())
	return &Box{
		nonce:      nonce,
		ciphertext: s.aead.Seal(nil, nonce, plaintext, nil),
	}
}

// Open decrypts the box. The returned slice should be wiped by the caller
// with common.WipeByteArray once used.
func (s *Sealer) Open(b *Box) ([]byte, error) {
	if b.Empty() {
		return nil, ErrEmptyBox
	}
	return s.aead.Open(nil, b.nonce, b.ciphertext, nil)
}
