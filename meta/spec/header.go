// Package spec defines the binary layout of metatile files.
//
// A metatile starts with a fixed 20 byte header, followed by count index entries of
// 8 bytes each and the payload. All integers are little-endian int32:
//
//	offset 0            magic[4]  "META" (raw tiles) or "METZ" (one compressed blob)
//	offset 4            count     N*N
//	offset 8            x         lowest tile column of the metatile
//	offset 12           y         lowest tile row of the metatile
//	offset 16           z         zoom level
//	offset 20           index[count] of {offset, size}
//	offset 20+8*count   payload
//
// Entry i describes the tile at (x + i%N, y + i/N). In raw mode offsets are measured from
// the start of the file. In compressed mode the payload is a single compressed stream and
// offsets are positions inside the decompressed stream.
package spec

import (
	"encoding/binary"
	"fmt"
	"math"
)

type PayloadMode uint8

const (
	PayloadUnknown PayloadMode = iota
	PayloadRaw
	PayloadCompressed
)

var (
	MagicRaw        = [4]byte{'M', 'E', 'T', 'A'}
	MagicCompressed = [4]byte{'M', 'E', 'T', 'Z'}
)

func ModeOf(magic [4]byte) PayloadMode {
	switch magic {
	case MagicRaw:
		return PayloadRaw
	case MagicCompressed:
		return PayloadCompressed
	}
	return PayloadUnknown
}

func (m PayloadMode) Magic() [4]byte {
	if m == PayloadCompressed {
		return MagicCompressed
	}
	return MagicRaw
}

func (m PayloadMode) String() string {
	switch m {
	case PayloadRaw:
		return "raw"
	case PayloadCompressed:
		return "compressed"
	}
	return "unknown"
}

type Header struct {
	Magic [4]byte
	Count int32
	X     int32
	Y     int32
	Z     int32
}

const (
	HeaderLength = 20
	EntryLength  = 8

	// DefaultSize is the metatile edge length used by mod_tile and renderd.
	DefaultSize = 8

	// MaxSize keeps Size*Size within int32.
	MaxSize = 46340
)

// ByteOrder is the byte order of every integer in a metatile.
var ByteOrder = binary.LittleEndian

func IndexLength(count int) int {
	return count * EntryLength
}

// PayloadOffset returns the file offset of the first payload byte.
func PayloadOffset(count int) int {
	return HeaderLength + IndexLength(count)
}

func ValidSize(size int) error {
	if size <= 0 || size > MaxSize {
		return fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	return nil
}

func (h *Header) Mode() PayloadMode {
	return ModeOf(h.Magic)
}

// CheckCount verifies that the header was written for metatiles of the given edge length.
func (h *Header) CheckCount(size int) error {
	if want := size * size; h.Count <= 0 || int(h.Count) != want {
		return fmt.Errorf("%w: count %d, want %d", ErrCountMismatch, h.Count, want)
	}
	return nil
}

func AppendHeader(buffer []byte, header *Header) []byte {
	buffer, _ = binary.Append(buffer, ByteOrder, header)
	return buffer
}

func SerializeHeader(header *Header) []byte {
	return AppendHeader(make([]byte, 0, HeaderLength), header)
}

func DeserializeHeader(buffer []byte) (*Header, error) {
	if len(buffer) < len(MagicRaw) {
		return nil, fmt.Errorf("%w: %d bytes, header needs %d", ErrTruncatedIndex, len(buffer), HeaderLength)
	}
	if magic := [4]byte(buffer); ModeOf(magic) == PayloadUnknown {
		return nil, fmt.Errorf("%w: magic %q", ErrUnrecognizedFormat, magic[:])
	}
	if len(buffer) < HeaderLength {
		return nil, fmt.Errorf("%w: %d bytes, header needs %d", ErrTruncatedIndex, len(buffer), HeaderLength)
	}
	header := Header{}
	if _, err := binary.Decode(buffer[:HeaderLength], ByteOrder, &header); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTruncatedIndex, err)
	}
	return &header, nil
}

// FitsInt32 reports whether v can be stored in a header or index field.
func FitsInt32(v int64) bool {
	return v >= math.MinInt32 && v <= math.MaxInt32
}
