// Package commands provides the command-line interface for packcrypt.
//
// It implements commands for:
//   - encryption of a pack directory into an archive
//   - decryption of an archive back into a pack directory
//   - checking exclude patterns against a pack
//   - inspecting an archive's container header and manifest
//   - key generation
//
// Flags can be overridden by PACKCRYPT_* environment variables through viper.
package commands
