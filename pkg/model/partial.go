package model

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/leterax/blockmodels/pkg/voxel"
)

// Face is one expanded quad of a model. Vertex positions are block-local (0..1).
type Face struct {
	Vertices [4]voxel.Vertex
	// CullFace is the neighbor direction hiding this face when that neighbor is opaque
	CullFace *voxel.Direction
	// AOFace is the direction ambient occlusion is sampled towards, nil for flat shading
	AOFace  *voxel.Direction
	Texture string
}

// Partial is a model expanded into faces, before opacity is aggregated
type Partial struct {
	Name  string
	Faces []Face
	// FullFaces indexes the faces covering a whole side of the block that cull in their
	// own direction
	FullFaces []int
	AO        bool
}

func direction(d voxel.Direction) *voxel.Direction {
	return &d
}

// BuildPartial expands the elements of m into faces. tints is the palette face tint
// indices refer to; faces without a tint, or with an index outside the palette, are white.
func BuildPartial(m *Model, tints []mgl32.Vec4) (*Partial, error) {
	p := &Partial{
		Name: m.Name,
		AO:   m.AO(),
	}

	for ei := range m.Elements {
		e := &m.Elements[ei]
		fullCube := e.IsFullCube()
		corners := e.Corners()

		for _, dir := range voxel.Directions {
			def, ok := e.Faces[dir]
			if !ok {
				continue
			}

			texture, err := m.Texture(def.Texture)
			if err != nil {
				return nil, err
			}

			rect := e.FaceUV(dir)
			if def.UV != nil {
				rect = *def.UV
			}
			for i := range rect {
				rect[i] /= 16
			}
			uvs := rotateFaceUVs(faceUVs(dir, rect), def.Rotation)

			color := voxel.White
			if def.TintIndex != nil && *def.TintIndex < len(tints) {
				color = tints[*def.TintIndex]
			}

			if fullCube && def.CullFace != nil && *def.CullFace == dir {
				p.FullFaces = append(p.FullFaces, len(p.Faces))
			}

			face := Face{Texture: texture}
			if def.CullFace != nil {
				face.CullFace = direction(*def.CullFace)
			}
			if e.Rotation == nil || e.Rotation.Angle == 0 {
				face.AOFace = direction(dir)
			}
			for i, ci := range cornerIndices[dir] {
				face.Vertices[i] = voxel.Vertex{
					Position: corners[ci].Mul(1.0 / 16).Add(mgl32.Vec3{0.5, 0.5, 0.5}),
					UV:       uvs[i],
					Color:    color,
				}
			}
			p.Faces = append(p.Faces, face)
		}
	}

	return p, nil
}

// Rotate turns the model by x degrees around the x axis, then y degrees around the y
// axis, both about the block center. Cull and AO directions turn with the geometry. With
// uvlock, textures keep their world alignment.
func (p *Partial) Rotate(x, y int, uvlock bool) error {
	qx, err := QuarterTurn(x)
	if err != nil {
		return fmt.Errorf("model %s: %w", p.Name, err)
	}
	qy, err := QuarterTurn(y)
	if err != nil {
		return fmt.Errorf("model %s: %w", p.Name, err)
	}
	p.rotate(2, 1, qx, uvlock)
	p.rotate(0, 2, qy, uvlock)
	return nil
}

const uvEpsilon = 1e-6

func (p *Partial) rotate(ix, iy int, q quarterTurn, uvlock bool) {
	if q.identity() {
		return
	}

	for fi := range p.Faces {
		face := &p.Faces[fi]
		for vi := range face.Vertices {
			pos := &face.Vertices[vi].Position
			rx, ry := q.apply(pos[ix]-0.5, pos[iy]-0.5)
			pos[ix], pos[iy] = rx+0.5, ry+0.5
		}

		if face.CullFace != nil {
			face.CullFace = direction(q.direction(*face.CullFace, ix, iy))
		}
		if face.AOFace != nil {
			face.AOFace = direction(q.direction(*face.AOFace, ix, iy))
		}

		if !uvlock || constantAlong(face, ix) || constantAlong(face, iy) {
			continue
		}
		lockUVs(face, q)
	}
}

// constantAlong reports whether every vertex of the face shares the same coordinate on
// axis i
func constantAlong(face *Face, i int) bool {
	first := face.Vertices[0].Position[i]
	for _, v := range face.Vertices[1:] {
		if math.Abs(float64(v.Position[i]-first)) > uvEpsilon {
			return false
		}
	}
	return true
}

// lockUVs counter-rotates the face UVs about the center of the tile they lie in
func lockUVs(face *Face, q quarterTurn) {
	minU, minV := float32(math.Inf(1)), float32(math.Inf(1))
	for _, v := range face.Vertices {
		minU = min(minU, v.UV[0])
		minV = min(minV, v.UV[1])
	}
	baseU := float32(math.Floor(float64(minU)))
	baseV := float32(math.Floor(float64(minV)))

	a, b, c, d := float32(q[0]), float32(q[1]), float32(q[2]), float32(q[3])
	for vi := range face.Vertices {
		uv := &face.Vertices[vi].UV
		u, v := uv[0]-baseU-0.5, uv[1]-baseV-0.5
		uv[0] = a*u - b*v + 0.5 + baseU
		uv[1] = -c*u + d*v + 0.5 + baseV
	}
}
