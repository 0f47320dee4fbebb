// Package archive encrypts pack directories into archives and decrypts them back.
//
// An archive mirrors the pack tree. Every file outside the exclusion set is
// encrypted with its own key; the per-file keys are listed in a manifest that is
// itself encrypted with the top-level key and stored in the container file
// (contents.json). The top-level key is written next to the archive as <output>.key.
package archive
