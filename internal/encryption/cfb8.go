package encryption

import (
	"crypto/cipher"
	"slices"

	"github.com/Tnze/go-mc/net/CFB8"
)

// newCFB8 returns an 8-bit cipher feedback stream over block.
// The stream keeps its own copy of iv, since the shift register is updated in place.
func newCFB8(block cipher.Block, iv []byte, decrypt bool) cipher.Stream {
	iv = slices.Clone(iv)

	if decrypt {
		return CFB8.NewCFB8Decrypt(block, iv)
	}

	return CFB8.NewCFB8Encrypt(block, iv)
}

// xorInPlace runs buf through stream. The output goes through a scratch buffer
// so the feedback never reads bytes that were already overwritten.
func xorInPlace(stream cipher.Stream, buf []byte) {
	out := make([]byte, len(buf))

	stream.XORKeyStream(out, buf)

	copy(buf, out)
}
