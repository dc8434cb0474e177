package game

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/alitto/pond/v2"

	"github.com/leterax/blockmodels/pkg/voxel"
)

// ChunkManager owns the chunk columns of the world and their mesh buffers
type ChunkManager struct {
	columns      map[voxel.ColumnCoord]*voxel.ChunkColumn
	columnsMutex sync.RWMutex
	height       int

	// Flag to track when meshes have changed
	chunksChanged      bool
	chunksChangedMutex sync.RWMutex
}

// NewChunkManager creates an empty world whose columns are height chunks tall
func NewChunkManager(height int) *ChunkManager {
	return &ChunkManager{
		columns:       make(map[voxel.ColumnCoord]*voxel.ChunkColumn),
		height:        height,
		chunksChanged: true, // Initial state is changed to build first draw commands
	}
}

// Height returns the number of chunks per column
func (cm *ChunkManager) Height() int {
	return cm.height
}

// AddColumn stores a column, replacing any column at the same coordinate
func (cm *ChunkManager) AddColumn(col *voxel.ChunkColumn) error {
	if len(col.Chunks) != cm.height || len(col.Meshes) != cm.height {
		return fmt.Errorf("column %v has %d chunks, world height is %d", col.Coord, len(col.Chunks), cm.height)
	}
	cm.columnsMutex.Lock()
	cm.columns[col.Coord] = col
	cm.columnsMutex.Unlock()
	cm.markChunksChanged()
	return nil
}

// Column returns the column at coord
func (cm *ChunkManager) Column(coord voxel.ColumnCoord) (*voxel.ChunkColumn, bool) {
	cm.columnsMutex.RLock()
	defer cm.columnsMutex.RUnlock()
	col, ok := cm.columns[coord]
	return col, ok
}

// Columns returns every column ordered by x then z
func (cm *ChunkManager) Columns() []*voxel.ChunkColumn {
	cm.columnsMutex.RLock()
	cols := make([]*voxel.ChunkColumn, 0, len(cm.columns))
	for _, col := range cm.columns {
		cols = append(cols, col)
	}
	cm.columnsMutex.RUnlock()

	sort.Slice(cols, func(i, j int) bool {
		a, b := cols[i].Coord, cols[j].Coord
		if a.X != b.X {
			return a.X < b.X
		}
		return a.Z < b.Z
	})
	return cols
}

// Chunk returns the chunk at coord, or nil outside the world
func (cm *ChunkManager) Chunk(coord voxel.ChunkCoord) *voxel.Chunk {
	col, ok := cm.Column(coord.Column())
	if !ok {
		return nil
	}
	return col.Chunk(coord.Y)
}

// Neighborhood collects the chunk at coord, its 26 neighbors and the 3x3 biome grids
// around its column
func (cm *ChunkManager) Neighborhood(coord voxel.ChunkCoord) (*Neighborhood, bool) {
	center := cm.Chunk(coord)
	if center == nil {
		return nil, false
	}
	n := NewNeighborhood(center)
	for dx := int32(-1); dx <= 1; dx++ {
		for dz := int32(-1); dz <= 1; dz++ {
			col, ok := cm.Column(voxel.ColumnCoord{X: coord.X + dx, Z: coord.Z + dz})
			if !ok {
				continue
			}
			n.Biomes[dx+1][dz+1] = col.Biomes
			for dy := int32(-1); dy <= 1; dy++ {
				if c := col.Chunk(coord.Y + dy); c != nil {
					n.Chunks[dx+1][dy+1][dz+1] = c
				}
			}
		}
	}
	return n, true
}

// EachChunk calls fn for every chunk of every column with its vertical index
func (cm *ChunkManager) EachChunk(fn func(col *voxel.ChunkColumn, y int)) {
	for _, col := range cm.Columns() {
		for y := range col.Chunks {
			fn(col, y)
		}
	}
}

// MeshChunk re-meshes one chunk, replacing its previous buffer
func (cm *ChunkManager) MeshChunk(m *Mesher, coord voxel.ChunkCoord) {
	n, ok := cm.Neighborhood(coord)
	if !ok {
		return
	}
	col, _ := cm.Column(coord.Column())
	col.Meshes[coord.Y] = m.MeshChunk(n)
	cm.markChunksChanged()
}

// MeshAll meshes every chunk on a pool of workers. Each task reads its neighbors and
// writes only its own chunk's buffer slot, so tasks need no locking between them.
func (cm *ChunkManager) MeshAll(ctx context.Context, m *Mesher, workers int) error {
	pool := pond.NewPool(max(workers, 1))
	defer pool.StopAndWait()

	group := pool.NewGroup()
	cm.EachChunk(func(col *voxel.ChunkColumn, y int) {
		coord := col.Chunks[y].Coord
		group.Submit(func() {
			if ctx.Err() != nil {
				return
			}
			n, ok := cm.Neighborhood(coord)
			if !ok {
				return
			}
			col.Meshes[y] = m.MeshChunk(n)
		})
	})
	if err := group.Wait(); err != nil {
		return fmt.Errorf("meshing failed: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("meshing cancelled: %w", err)
	}
	cm.markChunksChanged()
	return nil
}

// SetBlock places a block at world coordinates. It returns false outside the world.
func (cm *ChunkManager) SetBlock(x, y, z int32, state voxel.BlockState) bool {
	c := cm.Chunk(voxel.WorldToChunkCoord(x, y, z))
	if c == nil {
		return false
	}
	lx, ly, lz := voxel.WorldToLocalCoord(x, y, z)
	c.SetBlock(lx, ly, lz, state)
	return true
}

// GetBlock returns the block at world coordinates, air outside the world
func (cm *ChunkManager) GetBlock(x, y, z int32) voxel.BlockState {
	c := cm.Chunk(voxel.WorldToChunkCoord(x, y, z))
	if c == nil {
		return voxel.AirState
	}
	return c.GetBlock(voxel.WorldToLocalCoord(x, y, z))
}

// Remesh re-meshes the chunk holding a world position together with its 26 neighbors,
// which all sample the edited cell for culling and shading
func (cm *ChunkManager) Remesh(m *Mesher, x, y, z int32) {
	coord := voxel.WorldToChunkCoord(x, y, z)
	c := cm.Chunk(coord)
	if c == nil {
		return
	}
	cm.MeshChunk(m, coord)
	c.ForEachNeighbor(func(n voxel.ChunkCoord) {
		cm.MeshChunk(m, n)
	})
}

// markChunksChanged sets the flag indicating meshes have changed
func (cm *ChunkManager) markChunksChanged() {
	cm.chunksChangedMutex.Lock()
	cm.chunksChanged = true
	cm.chunksChangedMutex.Unlock()
}

// HaveChunksChanged returns true if meshes have been rebuilt since the last time this
// method was called
func (cm *ChunkManager) HaveChunksChanged() bool {
	cm.chunksChangedMutex.Lock()
	defer cm.chunksChangedMutex.Unlock()

	prevState := cm.chunksChanged
	cm.chunksChanged = false
	return prevState
}
