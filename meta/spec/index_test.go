package spec_test

import (
	"testing"

	"github.com/eak1mov/go-metatile/meta/spec"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestIndexSerializer(t *testing.T) {
	entries := []spec.Entry{{Offset: 52, Size: 1}, {Offset: 53, Size: 2}, {Offset: 55, Size: 0}}
	data := spec.SerializeIndex(entries)
	require.Len(t, data, 3*spec.EntryLength)
	require.Equal(t, []byte{52, 0, 0, 0, 1, 0, 0, 0}, data[:8])

	deserialized, err := spec.DeserializeIndex(data, len(entries))
	require.NoError(t, err)
	if diff := cmp.Diff(entries, deserialized); diff != "" {
		t.Errorf("DeserializeIndex(SerializeIndex(input)) mismatch (-want+got):\n%v", diff)
	}
}

func TestIndexErrors(t *testing.T) {
	data := spec.SerializeIndex(make([]spec.Entry, 4))
	_, err := spec.DeserializeIndex(data[:len(data)-1], 4)
	require.ErrorIs(t, err, spec.ErrTruncatedIndex)
	_, err = spec.DeserializeIndex(data, -1)
	require.ErrorIs(t, err, spec.ErrTruncatedIndex)
}

func TestEntryWithin(t *testing.T) {
	for _, tc := range []struct {
		Entry spec.Entry
		Want  bool
	}{
		{Entry: spec.Entry{Offset: 10, Size: 5}, Want: true},
		{Entry: spec.Entry{Offset: 10, Size: 10}, Want: true},
		{Entry: spec.Entry{Offset: 20, Size: 0}, Want: true},
		{Entry: spec.Entry{Offset: 10, Size: 11}, Want: false},
		{Entry: spec.Entry{Offset: 9, Size: 1}, Want: false},
		{Entry: spec.Entry{Offset: -1, Size: 1}, Want: false},
		{Entry: spec.Entry{Offset: 12, Size: -1}, Want: false},
		{Entry: spec.Entry{Offset: 2147483647, Size: 2147483647}, Want: false},
	} {
		if got := tc.Entry.Within(10, 20); got != tc.Want {
			t.Errorf("%+v.Within(10, 20) = %v, want = %v", tc.Entry, got, tc.Want)
		}
	}
}
