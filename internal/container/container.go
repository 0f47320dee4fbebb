// Package container reads and writes the archive framing file.
//
// Layout, little-endian, fixed offsets:
//
//	0x00  uint32  format version (0)
//	0x04  uint32  magic 0x9BCFB9FC
//	0x08  [8]byte reserved, zero
//	0x10  uint8   identifier length N
//	0x11  [N]byte identifier (pack UUID)
//	0x100 ...     encrypted manifest
//
// Bytes between the identifier and 0x100 carry no meaning and are not inspected.
// An identifier longer than IdentifierRoom runs into the payload area and its tail
// is overwritten by the manifest; only the part below 0x100 can be read back.
package container

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/idelchi/packcrypt/internal/fileutil"
)

const (
	// FileName is the name of the framing file inside an archive.
	FileName = "contents.json"

	// FormatVersion is the only version written.
	FormatVersion uint32 = 0
	// Magic identifies a container file.
	Magic uint32 = 0x9BCFB9FC

	// IdentifierOffset is where the length-prefixed identifier starts.
	IdentifierOffset = 0x10
	// PayloadOffset is where the encrypted manifest starts.
	PayloadOffset = 0x100
	// MaxIdentifierLength is the largest length the length byte can describe.
	MaxIdentifierLength = math.MaxUint8
	// IdentifierRoom is how many identifier bytes fit before PayloadOffset.
	IdentifierRoom = PayloadOffset - IdentifierOffset - 1

	prefixSize = 8
)

var (
	// ErrIdentifierTooLong is returned when an identifier exceeds MaxIdentifierLength bytes.
	ErrIdentifierTooLong = errors.New("content identifier too long")
	// ErrTruncated is returned for files too short to hold a header.
	ErrTruncated = errors.New("container truncated")
	// ErrBadMagic is returned by Verify when the magic does not match.
	ErrBadMagic = errors.New("bad container magic")
	// ErrUnsupportedVersion is returned by Verify for unknown format versions.
	ErrUnsupportedVersion = errors.New("unsupported container version")
)

// Header is the fixed part of a container file.
type Header struct {
	Version uint32
	Magic   uint32
	// Length is the identifier length as recorded, which may exceed len(Identifier).
	Length int
	// Identifier holds the identifier bytes stored below PayloadOffset.
	Identifier string
}

// Truncated reports whether part of the identifier was overwritten by the payload.
func (h Header) Truncated() bool {
	return h.Length > len(h.Identifier)
}

// CheckIdentifier reports ErrIdentifierTooLong for identifiers the length byte cannot describe.
func CheckIdentifier(identifier string) error {
	if len(identifier) > MaxIdentifierLength {
		return fmt.Errorf("%w: %d bytes, at most %d", ErrIdentifierTooLong, len(identifier), MaxIdentifierLength)
	}

	return nil
}

// Verify checks the magic and version.
func (h Header) Verify() error {
	if h.Magic != Magic {
		return fmt.Errorf("%w: got 0x%08X, want 0x%08X", ErrBadMagic, h.Magic, Magic)
	}

	if h.Version != FormatVersion {
		return fmt.Errorf("%w: %d", ErrUnsupportedVersion, h.Version)
	}

	return nil
}

// Path returns the container location inside an archive root.
func Path(root string) string {
	return filepath.Join(root, FileName)
}

// Write creates or replaces the container at path.
func Write(path, identifier string, payload []byte) (err error) {
	if err := CheckIdentifier(identifier); err != nil {
		return err
	}

	tc, err := fileutil.NewTempContext(path)
	if err != nil {
		return err
	}

	defer tc.CleanupOnError(&err)

	file := tc.File

	var prefix [IdentifierOffset]byte

	binary.LittleEndian.PutUint32(prefix[0:4], FormatVersion)
	binary.LittleEndian.PutUint32(prefix[4:prefixSize], Magic)

	if _, err = file.Write(prefix[:]); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	if _, err = file.Seek(IdentifierOffset, io.SeekStart); err != nil {
		return fmt.Errorf("seeking to identifier: %w", err)
	}

	if _, err = file.Write(append([]byte{byte(len(identifier))}, identifier...)); err != nil {
		return fmt.Errorf("writing identifier: %w", err)
	}

	if _, err = file.Seek(PayloadOffset, io.SeekStart); err != nil {
		return fmt.Errorf("seeking to payload: %w", err)
	}

	if _, err = file.Write(payload); err != nil {
		return fmt.Errorf("writing payload: %w", err)
	}

	// An empty payload still leaves the file PayloadOffset bytes long.
	if err = file.Truncate(int64(PayloadOffset + len(payload))); err != nil {
		return fmt.Errorf("sizing container: %w", err)
	}

	return tc.Commit()
}

// Read returns the encrypted manifest stored at PayloadOffset. The header is not validated.
func Read(path string) ([]byte, error) {
	file, err := open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	if _, err := file.Seek(PayloadOffset, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seeking to payload: %w", err)
	}

	payload, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("reading payload: %w", err)
	}

	return payload, nil
}

// ReadHeader parses the version, magic and identifier without validating them.
func ReadHeader(path string) (Header, error) {
	file, err := open(path)
	if err != nil {
		return Header{}, err
	}
	defer file.Close()

	var raw [PayloadOffset]byte
	if _, err := io.ReadFull(file, raw[:]); err != nil {
		return Header{}, fmt.Errorf("reading header: %w", err)
	}

	length := int(raw[IdentifierOffset])
	start := IdentifierOffset + 1

	return Header{
		Version:    binary.LittleEndian.Uint32(raw[0:4]),
		Magic:      binary.LittleEndian.Uint32(raw[4:prefixSize]),
		Length:     length,
		Identifier: string(raw[start : start+min(length, IdentifierRoom)]),
	}, nil
}

// PayloadSize returns the number of encrypted manifest bytes in the container.
func PayloadSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("stat container: %w", err)
	}

	return info.Size() - PayloadOffset, nil
}

func open(path string) (*os.File, error) {
	file, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("opening container: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()

		return nil, fmt.Errorf("stat container: %w", err)
	}

	if info.Size() < PayloadOffset {
		file.Close()

		return nil, fmt.Errorf("%w: %q is %d bytes, need at least %d", ErrTruncated, path, info.Size(), PayloadOffset)
	}

	return file, nil
}
