package encryption

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"

	"github.com/idelchi/packcrypt/internal/keys"
)

// EncryptInPlace encrypts buf with AES-256-CFB8 using key and its derived IV.
func EncryptInPlace(key keys.Key, buf []byte) error {
	stream, err := newStream(key, false)
	if err != nil {
		return err
	}

	xorInPlace(stream, buf)

	return nil
}

// DecryptInPlace reverses EncryptInPlace.
func DecryptInPlace(key keys.Key, buf []byte) error {
	stream, err := newStream(key, true)
	if err != nil {
		return err
	}

	xorInPlace(stream, buf)

	return nil
}

func newStream(key keys.Key, decrypt bool) (cipher.Stream, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("creating cipher: %w", err)
	}

	return newCFB8(block, key.IV(), decrypt), nil
}
