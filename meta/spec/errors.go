package spec

import "errors"

var (
	ErrInvalidTileCount   = errors.New("metatile: invalid tile count")
	ErrUnrecognizedFormat = errors.New("metatile: unrecognized format")
	ErrCountMismatch      = errors.New("metatile: count mismatch")
	ErrTruncatedIndex     = errors.New("metatile: truncated index")
	ErrCorruptEntry       = errors.New("metatile: corrupt index entry")
	ErrIndexOutOfRange    = errors.New("metatile: tile index out of range")
	ErrDecompression      = errors.New("metatile: decompression failed")
	ErrInvalidSize        = errors.New("metatile: invalid metatile size")
	ErrInvalidCoordinates = errors.New("metatile: invalid coordinates")
	ErrPayloadTooLarge    = errors.New("metatile: payload too large")
)
