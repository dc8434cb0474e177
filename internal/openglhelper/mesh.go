package openglhelper

import (
	"github.com/go-gl/gl/v4.6-core/gl"
)

// FloatsPerVertex is the interleaved layout of a block vertex: position (3), uv (2) and
// color (4)
const FloatsPerVertex = 9

// Mesh is an indexed triangle mesh uploaded to the GPU
type Mesh struct {
	vao        *VertexArrayObject
	vbo        *BufferObject
	ebo        *BufferObject
	indexCount int32
}

// NewMesh uploads interleaved vertices and their triangle indices
func NewMesh(vertices []float32, indices []uint32) *Mesh {
	vao := NewVAO()
	vao.Bind()

	vbo := NewVBO(vertices, StaticDraw)
	ebo := NewEBO(indices, StaticDraw)

	stride := int32(FloatsPerVertex * 4)
	// Position attribute (3 floats)
	vao.SetVertexAttribPointer(0, 3, gl.FLOAT, false, stride, 0)
	// Texture coordinates attribute (2 floats)
	vao.SetVertexAttribPointer(1, 2, gl.FLOAT, false, stride, 3*4)
	// Color attribute (4 floats)
	vao.SetVertexAttribPointer(2, 4, gl.FLOAT, false, stride, 5*4)

	vao.Unbind()

	return &Mesh{
		vao:        vao,
		vbo:        vbo,
		ebo:        ebo,
		indexCount: int32(len(indices)),
	}
}

// Draw renders the mesh with the currently bound shader and textures
func (m *Mesh) Draw() {
	m.vao.Bind()
	gl.DrawElements(gl.TRIANGLES, m.indexCount, gl.UNSIGNED_INT, nil)
	m.vao.Unbind()
}

// IndexCount returns the number of indices drawn
func (m *Mesh) IndexCount() int {
	return int(m.indexCount)
}

// Delete releases all resources
func (m *Mesh) Delete() {
	m.vao.Delete()
	m.vbo.Delete()
	m.ebo.Delete()
}
