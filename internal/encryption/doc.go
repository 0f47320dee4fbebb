// Package encryption applies the AES-256-CFB8 stream cipher used for pack archives.
// Every buffer is processed whole and in place; the IV is the first half of the key.
// No authentication tag is produced, so a wrong key yields garbage rather than an error.
package encryption
