package spec

import (
	"encoding/binary"
	"fmt"
)

type Entry struct {
	Offset int32
	Size   int32
}

func (e Entry) End() int64 {
	return int64(e.Offset) + int64(e.Size)
}

// Within reports whether the entry describes a range inside [lo, hi).
func (e Entry) Within(lo, hi int) bool {
	return e.Offset >= 0 && e.Size >= 0 && int64(e.Offset) >= int64(lo) && e.End() <= int64(hi)
}

func AppendIndex(buffer []byte, entries []Entry) []byte {
	buffer, _ = binary.Append(buffer, ByteOrder, entries)
	return buffer
}

func SerializeIndex(entries []Entry) []byte {
	return AppendIndex(make([]byte, 0, IndexLength(len(entries))), entries)
}

// DeserializeIndex reads count entries from the start of buffer.
func DeserializeIndex(buffer []byte, count int) ([]Entry, error) {
	if count < 0 || len(buffer) < IndexLength(count) {
		return nil, fmt.Errorf("%w: %d bytes, index of %d entries needs %d",
			ErrTruncatedIndex, len(buffer), count, IndexLength(count))
	}
	entries := make([]Entry, count)
	if _, err := binary.Decode(buffer[:IndexLength(count)], ByteOrder, entries); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTruncatedIndex, err)
	}
	return entries, nil
}
