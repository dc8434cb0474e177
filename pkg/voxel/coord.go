package voxel

import (
	"github.com/go-gl/mathgl/mgl32"
)

// ChunkSize is the edge length of a chunk in blocks
const ChunkSize = 16

// ChunkCoord represents the x,y,z coordinates of a chunk
type ChunkCoord struct {
	X, Y, Z int32
}

// ColumnCoord represents the x,z coordinates of a chunk column
type ColumnCoord struct {
	X, Z int32
}

// Column returns the coordinate of the column holding this chunk
func (c ChunkCoord) Column() ColumnCoord {
	return ColumnCoord{X: c.X, Z: c.Z}
}

// Offset returns the chunk coordinate displaced by dx, dy, dz chunks
func (c ChunkCoord) Offset(dx, dy, dz int32) ChunkCoord {
	return ChunkCoord{X: c.X + dx, Y: c.Y + dy, Z: c.Z + dz}
}

// floorDiv divides rounding toward negative infinity
func floorDiv(a, b int32) int32 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// floorMod returns a non-negative remainder for positive b
func floorMod(a, b int32) int32 {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}

// WorldToChunkCoord converts a world position to chunk coordinates
func WorldToChunkCoord(worldX, worldY, worldZ int32) ChunkCoord {
	return ChunkCoord{
		X: floorDiv(worldX, ChunkSize),
		Y: floorDiv(worldY, ChunkSize),
		Z: floorDiv(worldZ, ChunkSize),
	}
}

// WorldToLocalCoord converts a world position to local coordinates within a chunk
func WorldToLocalCoord(worldX, worldY, worldZ int32) (int, int, int) {
	return int(floorMod(worldX, ChunkSize)), int(floorMod(worldY, ChunkSize)), int(floorMod(worldZ, ChunkSize))
}

// ChunkToWorldPos converts chunk coordinates to world position (corner of chunk)
func ChunkToWorldPos(c ChunkCoord) mgl32.Vec3 {
	return mgl32.Vec3{
		float32(c.X * ChunkSize),
		float32(c.Y * ChunkSize),
		float32(c.Z * ChunkSize),
	}
}

// SplitLocal maps a local coordinate that may lie outside 0..15 to the neighboring chunk
// offset (-1, 0 or 1) and the coordinate inside that chunk.
func SplitLocal(v int) (offset int, local int) {
	switch {
	case v < 0:
		return -1, v + ChunkSize
	case v >= ChunkSize:
		return 1, v - ChunkSize
	default:
		return 0, v
	}
}

// LocalToIndex converts local block coordinates to an index in a flat array
func LocalToIndex(x, y, z int) int {
	return x*ChunkSize*ChunkSize + y*ChunkSize + z
}

// IndexToLocal converts a flat array index to local coordinates within a chunk
func IndexToLocal(index int) (x, y, z int) {
	x = index / (ChunkSize * ChunkSize)
	remainder := index % (ChunkSize * ChunkSize)
	y = remainder / ChunkSize
	z = remainder % ChunkSize
	return
}
