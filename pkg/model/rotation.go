package model

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/leterax/blockmodels/pkg/voxel"
)

// ElementAngles are the rotation angles an element may declare
var ElementAngles = []float32{-45, -22.5, 0, 22.5, 45}

// RotationMatrix returns the matrix rotating by angle degrees around axis. With rescale
// the result is scaled by 1/|cos(angle)| so a 45 degree plane still spans the block.
func RotationMatrix(axis Axis, angle float32, rescale bool) mgl32.Mat3 {
	rad := float64(mgl32.DegToRad(angle))
	cos, sin := math.Cos(rad), math.Sin(rad)
	scale := 1.0
	if rescale {
		scale = 1 / math.Abs(cos)
	}
	a := float32(cos * scale)
	b := float32(sin * scale)

	switch axis {
	case AxisX:
		return mgl32.Mat3{1, 0, 0, 0, a, -b, 0, b, a}
	case AxisY:
		return mgl32.Mat3{a, 0, b, 0, 1, 0, -b, 0, a}
	case AxisZ:
		return mgl32.Mat3{a, -b, 0, b, a, 0, 0, 0, 1}
	default:
		return mgl32.Ident3()
	}
}

// RotateCorners rotates centered corners around axis about origin, given in 0..16 space
func RotateCorners(corners [8]mgl32.Vec3, axis Axis, angle float32, origin mgl32.Vec3, rescale bool) [8]mgl32.Vec3 {
	if angle == 0 {
		return corners
	}
	o := origin.Sub(mgl32.Vec3{8, 8, 8})
	m := RotationMatrix(axis, angle, rescale)
	for i, c := range corners {
		corners[i] = m.Mul3x1(c.Sub(o)).Add(o)
	}
	return corners
}

// rotateFaceUVs turns a face texture by 0, 90, 180 or 270 degrees by cycling its UVs
func rotateFaceUVs(uvs [4]mgl32.Vec2, degrees int) [4]mgl32.Vec2 {
	steps := (degrees / 90) % 4
	if steps == 0 {
		return uvs
	}
	var out [4]mgl32.Vec2
	for i := range uvs {
		out[i] = uvs[(i+steps)%4]
	}
	return out
}

// quarterTurn is an integer 2x2 rotation matrix [a b; c d]
type quarterTurn [4]int

// QuarterTurn returns the matrix for a model rotation of 0, 90, 180 or 270 degrees
func QuarterTurn(degrees int) (quarterTurn, error) {
	switch degrees {
	case 0:
		return quarterTurn{1, 0, 0, 1}, nil
	case 90:
		return quarterTurn{0, -1, 1, 0}, nil
	case 180:
		return quarterTurn{-1, 0, 0, -1}, nil
	case 270:
		return quarterTurn{0, 1, -1, 0}, nil
	default:
		return quarterTurn{}, fmt.Errorf("%w: model rotation %d", ErrInvalidRotation, degrees)
	}
}

func (q quarterTurn) identity() bool {
	return q == quarterTurn{1, 0, 0, 1}
}

// apply rotates the (x, y) pair
func (q quarterTurn) apply(x, y float32) (float32, float32) {
	a, b, c, d := float32(q[0]), float32(q[1]), float32(q[2]), float32(q[3])
	return a*x + b*y, c*x + d*y
}

// direction rotates a cube direction in the ix/iy plane
func (q quarterTurn) direction(dir voxel.Direction, ix, iy int) voxel.Direction {
	v := dir.Vector()
	x, y := v[ix], v[iy]
	v[ix] = q[0]*x + q[1]*y
	v[iy] = q[2]*x + q[3]*y
	rotated, ok := voxel.FromVector(v)
	if !ok {
		// Quarter turns always map unit vectors onto unit vectors.
		panic(fmt.Sprintf("rotated direction %v is not axis aligned", v))
	}
	return rotated
}
