package game

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/leterax/blockmodels/pkg/biome"
	"github.com/leterax/blockmodels/pkg/model"
	"github.com/leterax/blockmodels/pkg/voxel"
)

// edgeBias is subtracted from every shaded channel to hide texture filtering seams
const edgeBias = 2.0 / 255

// Neighborhood is a chunk with the 26 chunks around it and the biome grids of the 3x3
// columns around its column. Missing chunks are voxel.EmptyChunk; missing columns have a
// nil biome grid.
type Neighborhood struct {
	Coord voxel.ChunkCoord
	// Chunks is indexed [dx+1][dy+1][dz+1]
	Chunks [3][3][3]*voxel.Chunk
	// Biomes is indexed [dx+1][dz+1]
	Biomes [3][3]*voxel.BiomeGrid
}

// NewNeighborhood returns a neighborhood of empty chunks and no biomes around center
func NewNeighborhood(center *voxel.Chunk) *Neighborhood {
	n := &Neighborhood{Coord: center.Coord}
	for dx := range n.Chunks {
		for dy := range n.Chunks[dx] {
			for dz := range n.Chunks[dx][dy] {
				n.Chunks[dx][dy][dz] = voxel.EmptyChunk
			}
		}
	}
	n.Chunks[1][1][1] = center
	return n
}

// Center returns the chunk being meshed
func (n *Neighborhood) Center() *voxel.Chunk {
	return n.Chunks[1][1][1]
}

// at returns the block and light at a position relative to the center chunk's origin,
// which may lie up to one chunk outside it
func (n *Neighborhood) at(x, y, z int) (voxel.BlockState, voxel.LightLevel) {
	cx, lx := voxel.SplitLocal(x)
	cy, ly := voxel.SplitLocal(y)
	cz, lz := voxel.SplitLocal(z)
	c := n.Chunks[cx+1][cy+1][cz+1]
	if c == nil {
		c = voxel.EmptyChunk
	}
	i := voxel.LocalToIndex(lx, ly, lz)
	return c.Blocks[i], c.Light[i]
}

// biome returns the biome id of a horizontal cell relative to the center column
func (n *Neighborhood) biome(x, z int) (voxel.BiomeID, bool) {
	cx, lx := voxel.SplitLocal(x)
	cz, lz := voxel.SplitLocal(z)
	g := n.Biomes[cx+1][cz+1]
	if g == nil {
		return 0, false
	}
	return g[lx][lz], true
}

// Mesher turns chunks into quads using the registered block models. It holds no
// per-chunk state, so one Mesher serves any number of concurrent MeshChunk calls.
type Mesher struct {
	blocks *BlockRegistry
	biomes *biome.Table
}

// NewMesher creates a mesher over a block registry and biome table
func NewMesher(blocks *BlockRegistry, biomes *biome.Table) *Mesher {
	return &Mesher{blocks: blocks, biomes: biomes}
}

// MeshChunk returns the visible faces of the center chunk in world space, shaded with
// smooth lighting and biome tint
func (m *Mesher) MeshChunk(n *Neighborhood) []voxel.Quad {
	var quads []voxel.Quad
	origin := voxel.ChunkToWorldPos(n.Coord)

	for y := 0; y < voxel.ChunkSize; y++ {
		for z := 0; z < voxel.ChunkSize; z++ {
			for x := 0; x < voxel.ChunkSize; x++ {
				state, _ := n.at(x, y, z)
				block := m.blocks.Model(state)
				if block.IsEmpty() {
					continue
				}
				pos := origin.Add(mgl32.Vec3{float32(x), float32(y), float32(z)})

				for i := range block.Faces {
					face := &block.Faces[i]
					if m.culled(n, x, y, z, face) {
						continue
					}

					q := voxel.Quad{Texture: face.Texture, Translucent: m.blocks.Translucent(state)}
					for v, vertex := range face.Vertices {
						q.Vertices[v] = voxel.Vertex{
							Position: pos.Add(vertex.Position),
							UV:       vertex.UV,
							Color:    m.shade(n, x, y, z, face, vertex),
						}
					}
					quads = append(quads, q)
				}
			}
		}
	}
	return quads
}

// culled reports whether the neighbor in the face's cull direction is opaque on the side
// touching this block
func (m *Mesher) culled(n *Neighborhood, x, y, z int, face *model.Face) bool {
	if face.CullFace == nil {
		return false
	}
	d := face.CullFace.Vector()
	state, _ := n.at(x+d[0], y+d[1], z+d[2])
	return m.blocks.Model(state).FaceOpacity[face.CullFace.Opposite()].IsOpaque()
}

// shade averages light and tint over the eight cells around a vertex
func (m *Mesher) shade(n *Neighborhood, x, y, z int, face *model.Face, vertex voxel.Vertex) mgl32.Vec4 {
	tint := vertex.Color
	tinted := tint != voxel.White
	colors := float32(0)
	if tinted {
		colors = 1
	}

	corner := [3]int{
		int(math.Round(float64(vertex.Position.X()))),
		int(math.Round(float64(vertex.Position.Y()))),
		int(math.Round(float64(vertex.Position.Z()))),
	}

	var sum, count float32
	for _, dx := range [2]int{corner[0] - 1, corner[0]} {
		for _, dz := range [2]int{corner[2] - 1, corner[2]} {
			for _, dy := range [2]int{corner[1] - 1, corner[1]} {
				state, light := n.at(x+dx, y+dy, z+dz)
				level := float32(light.Max())
				neighbor := m.blocks.Model(state)

				var use bool
				if face.AOFace != nil {
					use = above(*face.AOFace, corner, [3]int{dx, dy, dz})
					if use && neighbor.Opacity.IsSolid() {
						level = 0
					}
				} else {
					use = !neighbor.Opacity.IsOpaque()
				}
				if use {
					sum += level
					count++
				}
			}

			if !tinted {
				continue
			}
			if grass, ok := m.grass(n, x+dx, z+dz); ok {
				tint = tint.Add(grass)
				colors++
			}
		}
	}

	light := float32(0.2)
	if count > 0 {
		light += sum / count / 15 * 0.8
	}
	if face.AOFace != nil {
		light *= face.AOFace.Brightness()
	}

	if colors > 0 {
		tint = tint.Mul(1 / colors)
	}
	return mgl32.Vec4{
		tint.X()*light - edgeBias,
		tint.Y()*light - edgeBias,
		tint.Z()*light - edgeBias,
		tint.W(),
	}
}

// above reports whether the sample at offset lies on the side of the vertex the AO face
// points to. Axes the face does not point along accept either offset.
func above(ao voxel.Direction, corner, offset [3]int) bool {
	for i, a := range ao.Vector() {
		switch a {
		case -1:
			if offset[i] != corner[i]-1 {
				return false
			}
		case 1:
			if offset[i] != corner[i] {
				return false
			}
		}
	}
	return true
}

// grass returns the grass color of the column cell at x, z relative to the center chunk
func (m *Mesher) grass(n *Neighborhood, x, z int) (mgl32.Vec4, bool) {
	id, ok := n.biome(x, z)
	if !ok {
		return mgl32.Vec4{}, false
	}
	b, ok := m.biomes.Get(id)
	if !ok {
		return mgl32.Vec4{}, false
	}
	return b.GrassColor, true
}
