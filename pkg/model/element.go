package model

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/leterax/blockmodels/pkg/voxel"
)

// Axis is a principal rotation axis
type Axis string

const (
	AxisX Axis = "x"
	AxisY Axis = "y"
	AxisZ Axis = "z"
)

// UnmarshalText implements encoding.TextUnmarshaler
func (a *Axis) UnmarshalText(text []byte) error {
	switch Axis(text) {
	case AxisX, AxisY, AxisZ:
		*a = Axis(text)
		return nil
	default:
		return fmt.Errorf("unknown axis %q", text)
	}
}

// ElementRotation rotates an element about Origin (0..16 space) around Axis
type ElementRotation struct {
	Origin  mgl32.Vec3 `json:"origin"`
	Angle   float32    `json:"angle"`
	Axis    Axis       `json:"axis"`
	Rescale bool       `json:"rescale"`
}

// FaceDef is one face of an element as written in a model file
type FaceDef struct {
	UV        *[4]float32      `json:"uv,omitempty"`
	Texture   string           `json:"texture"`
	CullFace  *voxel.Direction `json:"cullface,omitempty"`
	Rotation  int              `json:"rotation,omitempty"`
	TintIndex *int             `json:"tintindex,omitempty"`
}

// Element is an axis-aligned box with up to six textured faces
type Element struct {
	From     mgl32.Vec3                  `json:"from"`
	To       mgl32.Vec3                  `json:"to"`
	Rotation *ElementRotation            `json:"rotation,omitempty"`
	Faces    map[voxel.Direction]FaceDef `json:"faces"`
}

// IsFullCube reports whether the element spans the whole block
func (e *Element) IsFullCube() bool {
	return e.From == mgl32.Vec3{0, 0, 0} && e.To == mgl32.Vec3{16, 16, 16}
}

// Corners returns the eight corners of the element centered on the block middle
// (-8..8), with the element rotation applied.
//
//	0: x1 y1 z1   4: x2 y1 z2
//	1: x1 y2 z1   5: x2 y2 z2
//	2: x1 y2 z2   6: x2 y2 z1
//	3: x1 y1 z2   7: x2 y1 z1
func (e *Element) Corners() [8]mgl32.Vec3 {
	lo := e.From.Sub(mgl32.Vec3{8, 8, 8})
	hi := e.To.Sub(mgl32.Vec3{8, 8, 8})
	x1, y1, z1 := lo.Elem()
	x2, y2, z2 := hi.Elem()

	corners := [8]mgl32.Vec3{
		{x1, y1, z1},
		{x1, y2, z1},
		{x1, y2, z2},
		{x1, y1, z2},
		{x2, y1, z2},
		{x2, y2, z2},
		{x2, y2, z1},
		{x2, y1, z1},
	}

	if e.Rotation == nil {
		return corners
	}
	return RotateCorners(corners, e.Rotation.Axis, e.Rotation.Angle, e.Rotation.Origin, e.Rotation.Rescale)
}

// cornerIndices picks the four corners making up each face, in UV order
var cornerIndices = [6][4]int{
	voxel.Up:    {1, 2, 5, 6},
	voxel.Down:  {7, 4, 3, 0},
	voxel.North: {3, 4, 5, 2},
	voxel.South: {1, 6, 7, 0},
	voxel.East:  {7, 6, 5, 4},
	voxel.West:  {3, 2, 1, 0},
}

// FaceUV returns the default UV rectangle of a face: the element box projected onto it
func (e *Element) FaceUV(d voxel.Direction) [4]float32 {
	f, t := e.From, e.To
	switch d {
	case voxel.Down:
		return [4]float32{f.X(), 16 - t.Z(), t.X(), 16 - f.Z()}
	case voxel.Up:
		return [4]float32{f.X(), f.Z(), t.X(), t.Z()}
	case voxel.North:
		return [4]float32{16 - t.X(), 16 - t.Y(), 16 - f.X(), 16 - f.Y()}
	case voxel.South:
		return [4]float32{f.X(), 16 - t.Y(), t.X(), 16 - f.Y()}
	case voxel.West:
		return [4]float32{f.Z(), 16 - t.Y(), t.Z(), 16 - f.Y()}
	case voxel.East:
		return [4]float32{16 - t.Z(), 16 - t.Y(), 16 - f.Z(), 16 - f.Y()}
	default:
		return [4]float32{0, 0, 16, 16}
	}
}

// faceUVs spreads a normalized (u1, v1, u2, v2) rectangle over the four face vertices
func faceUVs(d voxel.Direction, r [4]float32) [4]mgl32.Vec2 {
	u1, v1, u2, v2 := r[0], r[1], r[2], r[3]
	switch d {
	case voxel.North:
		return [4]mgl32.Vec2{{u2, v2}, {u1, v2}, {u1, v1}, {u2, v1}}
	case voxel.South:
		return [4]mgl32.Vec2{{u1, v1}, {u2, v1}, {u2, v2}, {u1, v2}}
	default:
		return [4]mgl32.Vec2{{u1, v2}, {u1, v1}, {u2, v1}, {u2, v2}}
	}
}
