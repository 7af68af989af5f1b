package xyz

import (
	"os"
	"path/filepath"

	"github.com/eak1mov/go-metatile/internal/pattern"
	"github.com/eak1mov/go-metatile/tile"
)

// Writer implements tile.Writer interface for tiles in XYZ format.
type Writer struct {
	filePattern string
}

// NewWriter creates a new Writer for the given file pattern (e.g. "/home/user/tiles/{z}/{x}/{y}.png").
func NewWriter(filePattern string) (*Writer, error) {
	if err := pattern.Validate(filePattern); err != nil {
		return nil, err
	}
	return &Writer{filePattern}, nil
}

// WriteTile writes the tile to its own file. Empty tiles are placeholders and are skipped.
func (w *Writer) WriteTile(tileID tile.ID, tileData []byte) error {
	if len(tileData) == 0 {
		return nil
	}

	filePath := pattern.Format(w.filePattern, tileID)
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return err
	}

	return os.WriteFile(filePath, tileData, 0644)
}

func (w *Writer) Finalize() error {
	return nil
}
