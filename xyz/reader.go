// Package xyz provides API for reading and writing tiles in XYZ directory format,
// where tiles are stored as individual files with paths like "/z/x/y.ext".
package xyz

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/eak1mov/go-metatile/internal/pattern"
	"github.com/eak1mov/go-metatile/tile"
)

var ErrInvalidPattern = pattern.ErrInvalidPattern

// Reader implements tile.Reader and tile.Visitor interfaces for tiles in XYZ format.
type Reader struct {
	filePattern string
	matcher     *pattern.Matcher
}

// NewReader creates a new Reader for the given file pattern (e.g. "/home/user/tiles/{z}/{x}/{y}.png").
func NewReader(filePattern string) (*Reader, error) {
	matcher, err := pattern.NewMatcher(filePattern)
	if err != nil {
		return nil, err
	}
	return &Reader{filePattern, matcher}, nil
}

func (r *Reader) ReadTile(tileID tile.ID) ([]byte, error) {
	tileData, err := os.ReadFile(pattern.Format(r.filePattern, tileID))
	if errors.Is(err, fs.ErrNotExist) {
		return make([]byte, 0), nil
	}
	if err != nil {
		return nil, err
	}
	return tileData, nil
}

// VisitTiles visits files matching the pattern. Other files are ignored.
func (r *Reader) VisitTiles(visitor func(tile.ID, []byte) error) error {
	return filepath.WalkDir(r.matcher.Root(), func(filePath string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			return nil
		}

		tileID, ok := r.matcher.Match(filePath)
		if !ok {
			return nil
		}

		tileData, err := os.ReadFile(filePath)
		if err != nil {
			return err
		}

		return visitor(tileID, tileData)
	})
}
