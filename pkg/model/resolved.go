package model

import (
	"log"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/leterax/blockmodels/pkg/voxel"
)

// Resolved is a baked model: its faces plus the opacity neighbors see on each side
type Resolved struct {
	Name  string
	Faces []Face
	// FaceOpacity is indexed by voxel.Direction
	FaceOpacity [6]voxel.Opacity
	// Opacity is the least opaque of the six sides
	Opacity voxel.Opacity
	Tints   int
}

// Empty returns the model of air: no faces, fully transparent
func Empty() *Resolved {
	return &Resolved{Name: "air"}
}

// IsEmpty reports whether the model has no geometry
func (r *Resolved) IsEmpty() bool {
	return len(r.Faces) == 0
}

// Finalize aggregates per-side opacity from the full faces of p and applies the AO flag
func Finalize(p *Partial, textures TextureStore, tintCount int) *Resolved {
	r := &Resolved{
		Name:  p.Name,
		Faces: p.Faces,
		Tints: tintCount,
	}

	for _, i := range p.FullFaces {
		face := p.Faces[i]
		side := *face.CullFace
		if r.FaceOpacity[side] == voxel.Opaque {
			continue
		}
		if o := voxel.OpacityFromAlpha(textures.MinAlpha(face.Texture)); o > r.FaceOpacity[side] {
			r.FaceOpacity[side] = o
		}
	}

	r.Opacity = voxel.Opaque
	for _, o := range r.FaceOpacity {
		r.Opacity = min(r.Opacity, o)
	}

	if !p.AO {
		for i := range r.Faces {
			r.Faces[i].AOFace = nil
		}
	} else {
		for _, f := range r.Faces {
			if f.AOFace == nil {
				log.Printf("Warning: model %s uses AO but has faces which are unsuitable", p.Name)
				break
			}
		}
	}

	return r
}

// Bake resolves the named model and produces its rotated, finalized form
func Bake(l *Loader, name string, tints []mgl32.Vec4, x, y int, uvlock bool) (*Resolved, error) {
	m, err := l.Resolve(name)
	if err != nil {
		return nil, err
	}
	p, err := BuildPartial(m, tints)
	if err != nil {
		return nil, err
	}
	if err := p.Rotate(x, y, uvlock); err != nil {
		return nil, err
	}
	return Finalize(p, l.Textures(), len(tints)), nil
}
