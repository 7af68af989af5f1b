package tile

import (
	"errors"
	"iter"
)

var errVisitCancelled = errors.New("visit cancelled")

// IterTiles returns an iterator over all tiles in the tileset.
// It yields tile IDs and their data. Iteration panics on unrecoverable errors,
// use VisitTiles directly when errors must be handled.
func IterTiles(r Visitor) iter.Seq2[ID, []byte] {
	return func(yield func(ID, []byte) bool) {
		err := r.VisitTiles(func(tileID ID, tileData []byte) error {
			if !yield(tileID, tileData) {
				return errVisitCancelled
			}
			return nil
		})
		if err != nil && err != errVisitCancelled {
			panic(err)
		}
	}
}

// CopyTiles writes every tile visited in r to w and calls progress after each one.
// It does not finalize w.
func CopyTiles(r Visitor, w Writer, progress func()) error {
	return r.VisitTiles(func(tileID ID, tileData []byte) error {
		if err := w.WriteTile(tileID, tileData); err != nil {
			return err
		}
		if progress != nil {
			progress()
		}
		return nil
	})
}
