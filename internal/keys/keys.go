// Package keys generates and validates the alphanumeric keys used for pack encryption.
//
// A key is 32 printable bytes. The same bytes serve as the AES-256 key and, truncated
// to the first 16 bytes, as the initialization vector.
package keys

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"github.com/awnumar/memguard"
)

// Size is the required key length in bytes.
const Size = 32

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// ErrInvalidKeyLength is returned when a key is not exactly Size bytes long.
var ErrInvalidKeyLength = errors.New("invalid key length")

// Key holds raw key bytes.
type Key []byte

// Parse converts a user-supplied string into a Key without altering its bytes.
func Parse(s string) (Key, error) {
	key := Key(s)

	if err := key.Validate(); err != nil {
		return nil, err
	}

	return key, nil
}

// Validate reports ErrInvalidKeyLength if the key is not Size bytes long.
func (k Key) Validate() error {
	if len(k) != Size {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidKeyLength, len(k), Size)
	}

	return nil
}

// IV returns the initialization vector derived from the key.
func (k Key) IV() []byte {
	return k[:Size/2]
}

// String returns the key as text.
func (k Key) String() string {
	return string(k)
}

// Wipe zeroes the key bytes.
func (k Key) Wipe() {
	memguard.WipeBytes(k)
}

// Generator produces fresh keys.
type Generator interface {
	Generate() Key
}

// Random draws keys from crypto/rand.
type Random struct{}

// NewRandom returns the default key generator.
func NewRandom() Random {
	return Random{}
}

// Generate returns a key of Size symbols sampled uniformly from the alphanumeric alphabet.
func (Random) Generate() Key {
	key := make(Key, Size)
	limit := big.NewInt(int64(len(alphabet)))

	for i := range key {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			panic(fmt.Sprintf("reading random source: %v", err))
		}

		key[i] = alphabet[n.Int64()]
	}

	return key
}

// IsAlphanumeric reports whether every byte of the key belongs to the generator alphabet.
func (k Key) IsAlphanumeric() bool {
	for _, b := range k {
		switch {
		case b >= 'A' && b <= 'Z', b >= 'a' && b <= 'z', b >= '0' && b <= '9':
		default:
			return false
		}
	}

	return true
}
