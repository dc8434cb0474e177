package voxel

import (
	"github.com/go-gl/mathgl/mgl32"
)

// AABB is an axis-aligned bounding box
type AABB struct {
	Min, Max mgl32.Vec3
}

// Intersects reports whether the boxes overlap. Touching boxes do not intersect.
func (b AABB) Intersects(o AABB) bool {
	return b.Min.X() < o.Max.X() && b.Max.X() > o.Min.X() &&
		b.Min.Y() < o.Max.Y() && b.Max.Y() > o.Min.Y() &&
		b.Min.Z() < o.Max.Z() && b.Max.Z() > o.Min.Z()
}

// ContainsPoint reports whether p lies inside the box, boundary included
func (b AABB) ContainsPoint(p mgl32.Vec3) bool {
	return p.X() >= b.Min.X() && p.X() <= b.Max.X() &&
		p.Y() >= b.Min.Y() && p.Y() <= b.Max.Y() &&
		p.Z() >= b.Min.Z() && p.Z() <= b.Max.Z()
}

// Translate returns the box moved by d
func (b AABB) Translate(d mgl32.Vec3) AABB {
	return AABB{Min: b.Min.Add(d), Max: b.Max.Add(d)}
}

// Corners returns the eight corners of the box
func (b AABB) Corners() [8]mgl32.Vec3 {
	var c [8]mgl32.Vec3
	for i := range c {
		x, y, z := b.Min.X(), b.Min.Y(), b.Min.Z()
		if i&1 != 0 {
			x = b.Max.X()
		}
		if i&2 != 0 {
			y = b.Max.Y()
		}
		if i&4 != 0 {
			z = b.Max.Z()
		}
		c[i] = mgl32.Vec3{x, y, z}
	}
	return c
}

// ChunkAABB returns the world-space box covered by a chunk
func ChunkAABB(c ChunkCoord) AABB {
	origin := ChunkToWorldPos(c)
	return AABB{Min: origin, Max: origin.Add(mgl32.Vec3{ChunkSize, ChunkSize, ChunkSize})}
}

// BlockAABB returns the unit box of the block at world position x, y, z
func BlockAABB(x, y, z int32) AABB {
	origin := mgl32.Vec3{float32(x), float32(y), float32(z)}
	return AABB{Min: origin, Max: origin.Add(mgl32.Vec3{1, 1, 1})}
}
