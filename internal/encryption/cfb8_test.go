package encryption

import (
	"crypto/aes"
	"encoding/hex"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/packcrypt/internal/keys"
)

// NIST SP 800-38A, F.3.17 CFB8-AES256.Encrypt.
func TestCFB8KnownAnswer(t *testing.T) {
	t.Parallel()

	key := mustHex(t, "603deb1015ca71be2b73aef0857d77811f352c073b6108d72d9810a30914dff4")
	iv := mustHex(t, "000102030405060708090a0b0c0d0e0f")
	plaintext := mustHex(t, "6bc1bee22e409f96e93d7e117393172aae2d")
	ciphertext := mustHex(t, "dc1f1a8520a64db55fcc8ac554844e889700")

	block, err := aes.NewCipher(key)
	require.NoError(t, err)

	got := make([]byte, len(plaintext))
	newCFB8(block, iv, false).XORKeyStream(got, plaintext)
	assert.Equal(t, ciphertext, got)

	back := make([]byte, len(ciphertext))
	newCFB8(block, iv, true).XORKeyStream(back, ciphertext)
	assert.Equal(t, plaintext, back)
}

func TestCFB8Chunked(t *testing.T) {
	t.Parallel()

	key := mustHex(t, "603deb1015ca71be2b73aef0857d77811f352c073b6108d72d9810a30914dff4")
	iv := mustHex(t, "000102030405060708090a0b0c0d0e0f")

	block, err := aes.NewCipher(key)
	require.NoError(t, err)

	data := []byte("chunk boundaries must not change the keystream")

	whole := make([]byte, len(data))
	newCFB8(block, iv, false).XORKeyStream(whole, data)

	chunked := make([]byte, len(data))
	stream := newCFB8(block, iv, false)
	stream.XORKeyStream(chunked[:7], data[:7])
	stream.XORKeyStream(chunked[7:], data[7:])

	assert.Equal(t, whole, chunked)
}

func TestInPlaceMatchesStream(t *testing.T) {
	t.Parallel()

	key := keys.Key("InPlace0123456789abcdefghijklmno")
	original := slices.Clone(key)

	block, err := aes.NewCipher(key)
	require.NoError(t, err)

	data := []byte(strings.Repeat("in place and out of place agree ", 64))

	want := make([]byte, len(data))
	newCFB8(block, key.IV(), false).XORKeyStream(want, data)

	buf := slices.Clone(data)
	require.NoError(t, EncryptInPlace(key, buf))
	assert.Equal(t, want, buf)

	require.NoError(t, DecryptInPlace(key, buf))
	assert.Equal(t, data, buf)

	assert.Equal(t, original, key, "key must not be used as a mutable register")
}

func mustHex(t *testing.T, s string) []byte {
	t.Helper()

	b, err := hex.DecodeString(s)
	require.NoError(t, err)

	return b
}
