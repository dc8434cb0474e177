package voxel

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Vertex represents a vertex of a block face
type Vertex struct {
	Position mgl32.Vec3
	UV       mgl32.Vec2
	Color    mgl32.Vec4
}

// QuadIndices triangulates a quad as a fan of two triangles
var QuadIndices = [6]uint32{0, 1, 2, 2, 3, 0}

// Quad is one emitted face: four world-space vertices and the texture to draw them with
type Quad struct {
	Vertices [4]Vertex
	Texture  string
	// Translucent is set for faces of blocks drawn after opaque geometry
	Translucent bool
}

// Mesh represents a mesh of triangles grouped by texture
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
	// Translucent is set once any added quad is translucent
	Translucent bool
}

// NewMesh creates a new empty mesh
func NewMesh() *Mesh {
	return &Mesh{
		Vertices: make([]Vertex, 0),
		Indices:  make([]uint32, 0),
	}
}

// AddQuad appends a quad's vertices and its two triangles
func (m *Mesh) AddQuad(q Quad) {
	baseIndex := uint32(len(m.Vertices))
	m.Vertices = append(m.Vertices, q.Vertices[:]...)
	m.Translucent = m.Translucent || q.Translucent
	for _, i := range QuadIndices {
		m.Indices = append(m.Indices, baseIndex+i)
	}
}

// BuildMeshes groups quads by texture into one mesh per texture
func BuildMeshes(quads []Quad) map[string]*Mesh {
	meshes := make(map[string]*Mesh)
	for _, q := range quads {
		m, ok := meshes[q.Texture]
		if !ok {
			m = NewMesh()
			meshes[q.Texture] = m
		}
		m.AddQuad(q)
	}
	return meshes
}
