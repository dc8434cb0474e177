package render

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/leterax/blockmodels/pkg/voxel"
)

// Plane is n·p + d = 0 with the normal pointing into the frustum
type Plane struct {
	Normal mgl32.Vec3
	D      float32
}

// Distance returns the signed distance of v from the plane
func (p Plane) Distance(v mgl32.Vec3) float32 {
	return p.Normal.Dot(v) + p.D
}

func (p Plane) normalize() Plane {
	l := p.Normal.Len()
	if l == 0 {
		return p
	}
	return Plane{Normal: p.Normal.Mul(1 / l), D: p.D / l}
}

// Frustum holds the six clip planes: left, right, bottom, top, near, far
type Frustum [6]Plane

// ExtractFrustum derives the clip planes from a combined projection*view matrix
func ExtractFrustum(m mgl32.Mat4) Frustum {
	row := func(i int) mgl32.Vec4 {
		return mgl32.Vec4{m.At(i, 0), m.At(i, 1), m.At(i, 2), m.At(i, 3)}
	}
	r0, r1, r2, r3 := row(0), row(1), row(2), row(3)

	plane := func(v mgl32.Vec4) Plane {
		return Plane{Normal: v.Vec3(), D: v.W()}.normalize()
	}
	return Frustum{
		plane(r3.Add(r0)),
		plane(r3.Sub(r0)),
		plane(r3.Add(r1)),
		plane(r3.Sub(r1)),
		plane(r3.Add(r2)),
		plane(r3.Sub(r2)),
	}
}

// IntersectsAABB reports whether any part of b may be inside the frustum.
// Boxes near a corner can pass even though they are outside.
func (f Frustum) IntersectsAABB(b voxel.AABB) bool {
	for _, p := range f {
		// corner furthest along the plane normal
		v := b.Min
		if p.Normal.X() >= 0 {
			v[0] = b.Max.X()
		}
		if p.Normal.Y() >= 0 {
			v[1] = b.Max.Y()
		}
		if p.Normal.Z() >= 0 {
			v[2] = b.Max.Z()
		}
		if p.Distance(v) < 0 {
			return false
		}
	}
	return true
}

// ChunkVisible tests the bounding box of the chunk at c
func (f Frustum) ChunkVisible(c voxel.ChunkCoord) bool {
	return f.IntersectsAABB(voxel.ChunkAABB(c))
}
