package voxel

import (
	"github.com/go-gl/mathgl/mgl32"
)

// BlockState is a registered block-state id. Zero is reserved for air.
type BlockState uint16

// AirState is the block-state id of air
const AirState BlockState = 0

// LightLevel packs block light in the low nibble and sky light in the high nibble
type LightLevel uint8

// NewLightLevel packs block and sky light values (0..15)
func NewLightLevel(block, sky uint8) LightLevel {
	return LightLevel((block & 0x0F) | (sky&0x0F)<<4)
}

// Block returns the block light nibble
func (l LightLevel) Block() uint8 {
	return uint8(l) & 0x0F
}

// Sky returns the sky light nibble
func (l LightLevel) Sky() uint8 {
	return uint8(l) >> 4
}

// Max returns the brighter of block and sky light, the value used for shading
func (l LightLevel) Max() uint8 {
	return max(l.Block(), l.Sky())
}

// FullSkyLight is the level of a cell open to the sky with no block light
const FullSkyLight LightLevel = 0xF0

// Chunk represents a 3D cube of voxels
type Chunk struct {
	// Position in chunk coordinates (not world coordinates)
	Coord  ChunkCoord
	Blocks [ChunkSize * ChunkSize * ChunkSize]BlockState
	Light  [ChunkSize * ChunkSize * ChunkSize]LightLevel
}

// NewChunk creates a new all-air chunk at the specified coordinates lit by the sky
func NewChunk(coord ChunkCoord) *Chunk {
	c := &Chunk{Coord: coord}
	for i := range c.Light {
		c.Light[i] = FullSkyLight
	}
	return c
}

// EmptyChunk stands in for missing neighbors past the edge of the world. It must not
// be modified.
var EmptyChunk = NewChunk(ChunkCoord{})

// isValidCoordinate checks if the given coordinates are within the chunk boundaries
func isValidCoordinate(x, y, z int) bool {
	return x >= 0 && y >= 0 && z >= 0 && x < ChunkSize && y < ChunkSize && z < ChunkSize
}

// GetBlock returns the block state at the specified local coordinates
func (c *Chunk) GetBlock(x, y, z int) BlockState {
	if !isValidCoordinate(x, y, z) {
		return AirState
	}
	return c.Blocks[LocalToIndex(x, y, z)]
}

// SetBlock sets the block state at the specified local coordinates
func (c *Chunk) SetBlock(x, y, z int, state BlockState) {
	if !isValidCoordinate(x, y, z) {
		return
	}
	c.Blocks[LocalToIndex(x, y, z)] = state
}

// GetLight returns the light level at the specified local coordinates
func (c *Chunk) GetLight(x, y, z int) LightLevel {
	if !isValidCoordinate(x, y, z) {
		return FullSkyLight
	}
	return c.Light[LocalToIndex(x, y, z)]
}

// SetLight sets the light level at the specified local coordinates
func (c *Chunk) SetLight(x, y, z int, l LightLevel) {
	if !isValidCoordinate(x, y, z) {
		return
	}
	c.Light[LocalToIndex(x, y, z)] = l
}

// Fill sets every cell of the chunk to state
func (c *Chunk) Fill(state BlockState) {
	for i := range c.Blocks {
		c.Blocks[i] = state
	}
}

// WorldPosition returns the world position of this chunk (corner)
func (c *Chunk) WorldPosition() mgl32.Vec3 {
	return ChunkToWorldPos(c.Coord)
}

// ForEachNeighbor calls the given function for each neighboring chunk position
func (c *Chunk) ForEachNeighbor(fn func(coord ChunkCoord)) {
	for dx := int32(-1); dx <= 1; dx++ {
		for dy := int32(-1); dy <= 1; dy++ {
			for dz := int32(-1); dz <= 1; dz++ {
				if dx == 0 && dy == 0 && dz == 0 {
					continue
				}
				fn(c.Coord.Offset(dx, dy, dz))
			}
		}
	}
}

// BiomeID indexes the biome table
type BiomeID uint8

// BiomeGrid holds one biome per horizontal cell of a column, indexed [x][z]
type BiomeGrid [ChunkSize][ChunkSize]BiomeID

// Fill sets every cell of the grid to id
func (g *BiomeGrid) Fill(id BiomeID) {
	for x := range g {
		for z := range g[x] {
			g[x][z] = id
		}
	}
}

// ChunkColumn is the vertical stack of chunks at one x,z position with the biome grid
// shared by all of them and one mesh buffer per chunk.
type ChunkColumn struct {
	Coord  ColumnCoord
	Chunks []*Chunk
	Biomes *BiomeGrid
	// Meshes[i] is the output of the last mesh pass over Chunks[i]. Each slot is written
	// only by the pass meshing that chunk.
	Meshes [][]Quad
}

// NewChunkColumn creates a column of height all-air chunks starting at chunk y 0
func NewChunkColumn(coord ColumnCoord, height int, biome BiomeID) *ChunkColumn {
	col := &ChunkColumn{
		Coord:  coord,
		Chunks: make([]*Chunk, height),
		Biomes: &BiomeGrid{},
		Meshes: make([][]Quad, height),
	}
	for y := range col.Chunks {
		col.Chunks[y] = NewChunk(ChunkCoord{X: coord.X, Y: int32(y), Z: coord.Z})
	}
	col.Biomes.Fill(biome)
	return col
}

// Chunk returns the chunk at vertical index y, or nil outside the column
func (col *ChunkColumn) Chunk(y int32) *Chunk {
	if y < 0 || int(y) >= len(col.Chunks) {
		return nil
	}
	return col.Chunks[y]
}

// QuadCount returns the number of quads across all mesh buffers of the column
func (col *ChunkColumn) QuadCount() int {
	n := 0
	for _, m := range col.Meshes {
		n += len(m)
	}
	return n
}
