package game

import (
	"testing"

	"github.com/leterax/blockmodels/pkg/biome"
	"github.com/leterax/blockmodels/pkg/voxel"
)

func TestTerrainDeterministic(t *testing.T) {
	a, b, c := NewTerrain(42, grass, dirt), NewTerrain(42, grass, dirt), NewTerrain(43, grass, dirt)
	differs := false
	for i := int32(0); i < 200; i++ {
		x, y, z := i*7, i%32, -i*3
		da, db := a.density(x, y, z), b.density(x, y, z)
		if da != db {
			t.Fatalf("density(%d,%d,%d) = %v and %v for the same seed", x, y, z, da, db)
		}
		// noise in [-1, 1] scaled by 80 around 64 plus the height ramp
		if lo, hi := 64-80+float64(y)*1.7, 64+80+float64(y)*1.7; da < lo || da > hi {
			t.Errorf("density(%d,%d,%d) = %v outside [%v, %v]", x, y, z, da, lo, hi)
		}
		if da != c.density(x, y, z) {
			differs = true
		}
	}
	if !differs {
		t.Error("different seeds produced identical terrain")
	}
}

func TestTerrainLayers(t *testing.T) {
	terrain := NewTerrain(0xFF0FE0, grass, dirt)
	col := voxel.NewChunkColumn(voxel.ColumnCoord{X: -1, Z: 2}, 2, biome.Plains)
	terrain.Generate(col)

	top := int32(2 * voxel.ChunkSize)
	ground := 0
	for _, c := range col.Chunks {
		for i, state := range c.Blocks {
			lx, ly, lz := voxel.IndexToLocal(i)
			wx := c.Coord.X*voxel.ChunkSize + int32(lx)
			wy := c.Coord.Y*voxel.ChunkSize + int32(ly)
			wz := c.Coord.Z*voxel.ChunkSize + int32(lz)

			solid := terrain.Ground(wx, wy, wz, top)
			covered := terrain.Ground(wx, wy+1, wz, top)
			want := voxel.AirState
			switch {
			case solid && covered:
				want = dirt
			case solid:
				want = grass
			}
			if state != want {
				t.Fatalf("block at %d,%d,%d = %d, want %d", wx, wy, wz, state, want)
			}
			if solid {
				ground++
			}
		}
	}
	if ground == 0 {
		t.Error("generated column has no ground")
	}

	// The top layer of the world is never covered
	c := col.Chunks[1]
	for x := 0; x < voxel.ChunkSize; x++ {
		for z := 0; z < voxel.ChunkSize; z++ {
			if s := c.GetBlock(x, voxel.ChunkSize-1, z); s == dirt {
				t.Fatalf("dirt at the top of the world at %d,%d", x, z)
			}
		}
	}
}
