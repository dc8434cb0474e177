package game

import (
	"github.com/ojrac/opensimplex-go"

	"github.com/leterax/blockmodels/pkg/voxel"
)

// surfaceThreshold is the density below which a cell is ground
const surfaceThreshold = 100

// Terrain fills columns by thresholding a noise density field: ground below the
// threshold, air above. Ground cells with air above them are the surface block.
type Terrain struct {
	noise   opensimplex.Noise
	Surface voxel.BlockState
	Filler  voxel.BlockState
}

// NewTerrain creates a generator placing surface over filler
func NewTerrain(seed int64, surface, filler voxel.BlockState) *Terrain {
	return &Terrain{noise: opensimplex.New(seed), Surface: surface, Filler: filler}
}

// density is squashed horizontally and stretched vertically, rising with height
func (t *Terrain) density(x, y, z int32) float64 {
	fx, fy, fz := float64(x), float64(y), float64(z)
	return t.noise.Eval3(fx/30, fy*15, fz/30)*80 + 64 + fy*1.7
}

// Ground reports whether the cell at world coordinates is solid. Cells at or above
// top are always air.
func (t *Terrain) Ground(x, y, z, top int32) bool {
	return y < top && t.density(x, y, z) < surfaceThreshold
}

// Generate fills every chunk of col
func (t *Terrain) Generate(col *voxel.ChunkColumn) {
	top := int32(len(col.Chunks) * voxel.ChunkSize)
	for _, c := range col.Chunks {
		origin := c.Coord
		for lx := 0; lx < voxel.ChunkSize; lx++ {
			for lz := 0; lz < voxel.ChunkSize; lz++ {
				wx := origin.X*voxel.ChunkSize + int32(lx)
				wz := origin.Z*voxel.ChunkSize + int32(lz)
				for ly := 0; ly < voxel.ChunkSize; ly++ {
					wy := origin.Y*voxel.ChunkSize + int32(ly)
					if !t.Ground(wx, wy, wz, top) {
						c.SetBlock(lx, ly, lz, voxel.AirState)
						continue
					}
					if t.Ground(wx, wy+1, wz, top) {
						c.SetBlock(lx, ly, lz, t.Filler)
					} else {
						c.SetBlock(lx, ly, lz, t.Surface)
					}
				}
			}
		}
	}
}
