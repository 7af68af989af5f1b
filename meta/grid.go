package meta

import "github.com/eak1mov/go-metatile/tile"

// Origin returns the lowest tile of the size×size metatile containing tileID.
func Origin(tileID tile.ID, size int) tile.ID {
	n := uint32(size)
	return tile.ID{X: tileID.X - tileID.X%n, Y: tileID.Y - tileID.Y%n, Z: tileID.Z}
}

// Position returns the row-major index of tileID inside the metatile starting at origin.
func Position(origin, tileID tile.ID, size int) (int, bool) {
	if tileID.Z != origin.Z || tileID.X < origin.X || tileID.Y < origin.Y {
		return 0, false
	}
	dx, dy := uint64(tileID.X-origin.X), uint64(tileID.Y-origin.Y)
	if dx >= uint64(size) || dy >= uint64(size) {
		return 0, false
	}
	return int(dy)*size + int(dx), true
}

// Offset is the inverse of Position: index i lies at (origin.X+dx, origin.Y+dy).
func Offset(i, size int) (dx, dy int) {
	return i % size, i / size
}
