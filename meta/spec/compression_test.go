package spec_test

import (
	"bytes"
	"testing"

	"github.com/eak1mov/go-metatile/meta/spec"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
)

var compressionCases = []struct {
	Name       string
	Compressor spec.Compressor
}{
	{Name: "Gzip", Compressor: spec.Gzip},
	{Name: "Zstd", Compressor: spec.Zstd},
	{Name: "XZ", Compressor: spec.XZ},
}

func TestCompression(t *testing.T) {
	dataCases := []struct {
		Name string
		Data []byte
	}{
		{Name: "Repeat", Data: bytes.Repeat([]byte{42}, 100500)},
		{Name: "Foobar", Data: []byte("foobar")},
		{Name: "Empty", Data: []byte{}},
	}
	for _, dc := range dataCases {
		for _, cc := range compressionCases {
			t.Run(dc.Name+cc.Name, func(t *testing.T) {
				compressed, err := cc.Compressor.Compress(dc.Data)
				if err != nil {
					t.Fatalf("Compress failed: %v", err)
				}
				decompressed, err := cc.Compressor.Decompress(compressed)
				if err != nil {
					t.Fatalf("Decompress failed: %v", err)
				}
				if !cmp.Equal(dc.Data, decompressed, cmpopts.EquateEmpty()) {
					t.Errorf("Decompress(Compress(input)) != input")
				}
			})
		}
	}
}

func TestCompressionDeterministic(t *testing.T) {
	data := bytes.Repeat([]byte("tile"), 1000)
	for _, cc := range compressionCases {
		t.Run(cc.Name, func(t *testing.T) {
			first, err := cc.Compressor.Compress(data)
			require.NoError(t, err)
			second, err := cc.Compressor.Compress(data)
			require.NoError(t, err)
			require.Equal(t, first, second)
		})
	}
}

func TestDecompressionErrors(t *testing.T) {
	for _, cc := range compressionCases {
		t.Run(cc.Name, func(t *testing.T) {
			_, err := cc.Compressor.Decompress([]byte("definitely not compressed"))
			require.ErrorIs(t, err, spec.ErrDecompression)
		})
	}
}

func TestCompressorByName(t *testing.T) {
	for name, want := range map[string]spec.Compressor{
		"":     nil,
		"none": nil,
		"gzip": spec.Gzip,
		"zstd": spec.Zstd,
		"xz":   spec.XZ,
	} {
		got, err := spec.CompressorByName(name)
		require.NoError(t, err)
		require.Equal(t, want, got, name)
	}
	_, err := spec.CompressorByName("brotli")
	require.Error(t, err)
}
