// Package render draws meshed chunk columns with OpenGL: a fly camera, frustum culling of
// chunk bounding boxes and one indexed draw per chunk and texture.
package render

import (
	"image"
	"image/color"
	"sort"

	"github.com/leterax/blockmodels/internal/openglhelper"
	"github.com/leterax/blockmodels/pkg/voxel"
)

// TextureSource supplies decoded block textures
type TextureSource interface {
	Get(id string) (*image.NRGBA, bool)
	MinAlpha(id string) uint8
}

// PackVertices interleaves vertices as position, uv and color
func PackVertices(vertices []voxel.Vertex) []float32 {
	out := make([]float32, 0, len(vertices)*openglhelper.FloatsPerVertex)
	for _, v := range vertices {
		out = append(out,
			v.Position[0], v.Position[1], v.Position[2],
			v.UV[0], v.UV[1],
			v.Color[0], v.Color[1], v.Color[2], v.Color[3],
		)
	}
	return out
}

// batch is the geometry of one chunk drawn with one texture
type batch struct {
	texture     string
	translucent bool
	mesh        *voxel.Mesh
}

// planBatches orders a chunk's per-texture meshes: opaque textures first, then by id.
// A mesh is translucent when its texture has partial alpha or it holds faces of a
// translucent block.
func planBatches(meshes map[string]*voxel.Mesh, textures TextureSource) []batch {
	batches := make([]batch, 0, len(meshes))
	for id, m := range meshes {
		translucent := m.Translucent || textures.MinAlpha(id) < 255
		batches = append(batches, batch{texture: id, translucent: translucent, mesh: m})
	}
	sort.Slice(batches, func(i, j int) bool {
		if batches[i].translucent != batches[j].translucent {
			return !batches[i].translucent
		}
		return batches[i].texture < batches[j].texture
	})
	return batches
}

type gpuBatch struct {
	texture     string
	translucent bool
	mesh        *openglhelper.Mesh
}

// ChunkBufferManager owns the GPU meshes of every uploaded chunk and the textures they
// sample. All methods must run on the thread holding the GL context.
type ChunkBufferManager struct {
	textures    TextureSource
	gpuTextures map[string]*openglhelper.Texture
	missing     *openglhelper.Texture

	chunks map[voxel.ChunkCoord][]gpuBatch
}

// NewChunkBufferManager creates an empty manager sampling textures from textures
func NewChunkBufferManager(textures TextureSource) *ChunkBufferManager {
	return &ChunkBufferManager{
		textures:    textures,
		gpuTextures: make(map[string]*openglhelper.Texture),
		chunks:      make(map[voxel.ChunkCoord][]gpuBatch),
	}
}

// AddChunk replaces the GPU meshes of the chunk at coord with quads
func (m *ChunkBufferManager) AddChunk(coord voxel.ChunkCoord, quads []voxel.Quad) {
	m.RemoveChunk(coord)
	if len(quads) == 0 {
		return
	}

	plan := planBatches(voxel.BuildMeshes(quads), m.textures)
	batches := make([]gpuBatch, len(plan))
	for i, b := range plan {
		batches[i] = gpuBatch{
			texture:     b.texture,
			translucent: b.translucent,
			mesh:        openglhelper.NewMesh(PackVertices(b.mesh.Vertices), b.mesh.Indices),
		}
	}
	m.chunks[coord] = batches
}

// RemoveChunk frees the GPU meshes of the chunk at coord
func (m *ChunkBufferManager) RemoveChunk(coord voxel.ChunkCoord) {
	for _, b := range m.chunks[coord] {
		b.mesh.Delete()
	}
	delete(m.chunks, coord)
}

// Sync uploads the current mesh of every chunk in cols
func (m *ChunkBufferManager) Sync(cols []*voxel.ChunkColumn) {
	for _, col := range cols {
		for y, c := range col.Chunks {
			m.AddChunk(c.Coord, col.Meshes[y])
		}
	}
}

// Len returns the number of chunks holding GPU meshes
func (m *ChunkBufferManager) Len() int {
	return len(m.chunks)
}

// texture returns the GPU texture for id, uploading it on first use. Unknown textures
// draw magenta.
func (m *ChunkBufferManager) texture(id string) *openglhelper.Texture {
	if t, ok := m.gpuTextures[id]; ok {
		return t
	}
	img, ok := m.textures.Get(id)
	if !ok {
		if m.missing == nil {
			px := image.NewNRGBA(image.Rect(0, 0, 1, 1))
			px.SetNRGBA(0, 0, color.NRGBA{R: 255, B: 255, A: 255})
			m.missing = openglhelper.NewTexture(px)
		}
		return m.missing
	}
	t := openglhelper.NewTexture(img)
	m.gpuTextures[id] = t
	return t
}

// Render draws every chunk whose bounding box intersects f, opaque batches before
// translucent ones. It returns the number of chunks drawn and culled.
func (m *ChunkBufferManager) Render(f Frustum) (drawn, culled int) {
	visible := make([][]gpuBatch, 0, len(m.chunks))
	for coord, batches := range m.chunks {
		if !f.ChunkVisible(coord) {
			culled++
			continue
		}
		visible = append(visible, batches)
	}

	for _, translucent := range []bool{false, true} {
		for _, batches := range visible {
			for _, b := range batches {
				if b.translucent != translucent {
					continue
				}
				m.texture(b.texture).Bind(0)
				b.mesh.Draw()
			}
		}
	}
	return len(visible), culled
}

// Cleanup releases all meshes and textures
func (m *ChunkBufferManager) Cleanup() {
	for coord := range m.chunks {
		m.RemoveChunk(coord)
	}
	for id, t := range m.gpuTextures {
		t.Delete()
		delete(m.gpuTextures, id)
	}
	if m.missing != nil {
		m.missing.Delete()
		m.missing = nil
	}
}
