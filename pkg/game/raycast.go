package game

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/leterax/blockmodels/pkg/voxel"
)

// RaycastHit is the first non-air block along a ray
type RaycastHit struct {
	X, Y, Z int32
	// Face is the side of the block the ray entered through
	Face     voxel.Direction
	Distance float32
}

// Adjacent returns the position in front of the hit face
func (h RaycastHit) Adjacent() (x, y, z int32) {
	v := h.Face.Vector()
	return h.X + int32(v[0]), h.Y + int32(v[1]), h.Z + int32(v[2])
}

// Raycast walks the block grid from origin along dir and returns the first block that is
// not air within maxDistance. A ray starting inside a block hits nothing.
func (cm *ChunkManager) Raycast(origin, dir mgl32.Vec3, maxDistance float32) (RaycastHit, bool) {
	if dir.Len() == 0 {
		return RaycastHit{}, false
	}
	dir = dir.Normalize()

	var (
		cell  [3]int32
		step  [3]int32
		tMax  [3]float32
		tStep [3]float32
		faces [3]voxel.Direction
	)
	axes := [3][2]voxel.Direction{
		{voxel.West, voxel.East},
		{voxel.Down, voxel.Up},
		{voxel.South, voxel.North},
	}
	for i := 0; i < 3; i++ {
		cell[i] = int32(math.Floor(float64(origin[i])))
		inf := float32(math.Inf(1))
		switch {
		case dir[i] > 0:
			step[i] = 1
			tStep[i] = 1 / dir[i]
			tMax[i] = (float32(cell[i]) + 1 - origin[i]) / dir[i]
			faces[i] = axes[i][0]
		case dir[i] < 0:
			step[i] = -1
			tStep[i] = -1 / dir[i]
			tMax[i] = (float32(cell[i]) - origin[i]) / dir[i]
			faces[i] = axes[i][1]
		default:
			tStep[i], tMax[i] = inf, inf
		}
	}

	for {
		axis := 0
		if tMax[1] < tMax[axis] {
			axis = 1
		}
		if tMax[2] < tMax[axis] {
			axis = 2
		}
		t := tMax[axis]
		if t > maxDistance {
			return RaycastHit{}, false
		}
		cell[axis] += step[axis]
		tMax[axis] += tStep[axis]

		if cm.GetBlock(cell[0], cell[1], cell[2]) != voxel.AirState {
			return RaycastHit{X: cell[0], Y: cell[1], Z: cell[2], Face: faces[axis], Distance: t}, true
		}
	}
}
