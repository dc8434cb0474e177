// Package biome holds the biome table and the tint colors derived from the biome color
// maps.
package biome

import (
	"fmt"
	"image/color"
	"io/fs"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/leterax/blockmodels/pkg/texture"
	"github.com/leterax/blockmodels/pkg/voxel"
)

// Plains is the biome new columns are filled with
const Plains voxel.BiomeID = 1

// Biome describes the climate of a biome and the tints it gives grass and leaves
type Biome struct {
	ID           voxel.BiomeID
	Name         string
	Temperature  float32
	Humidity     float32
	GrassColor   mgl32.Vec4
	FoliageColor mgl32.Vec4
}

// Climate is a biome entry before its colors are looked up
type Climate struct {
	ID          voxel.BiomeID
	Name        string
	Temperature float32
	Humidity    float32
}

// Climates lists the built-in biomes
var Climates = []Climate{
	{ID: 0, Name: "ocean", Temperature: 0.5, Humidity: 0.5},
	{ID: Plains, Name: "plains", Temperature: 0.8, Humidity: 0.4},
	{ID: 2, Name: "desert", Temperature: 2.0, Humidity: 0.0},
	{ID: 3, Name: "mountains", Temperature: 0.2, Humidity: 0.3},
	{ID: 4, Name: "forest", Temperature: 0.7, Humidity: 0.8},
	{ID: 5, Name: "taiga", Temperature: 0.25, Humidity: 0.8},
	{ID: 6, Name: "swamp", Temperature: 0.8, Humidity: 0.9},
}

// Table maps biome ids to biomes. It is built once and read-only afterwards, so it is
// safe to share between meshing workers.
type Table struct {
	biomes [256]*Biome
}

// NewTable computes the colors of each climate from the grass and foliage color maps
func NewTable(grass, foliage *texture.ColorMap, climates []Climate) *Table {
	t := &Table{}
	for _, c := range climates {
		t.biomes[c.ID] = &Biome{
			ID:           c.ID,
			Name:         c.Name,
			Temperature:  c.Temperature,
			Humidity:     c.Humidity,
			GrassColor:   toVec4(grass.At(c.Temperature, c.Humidity)),
			FoliageColor: toVec4(foliage.At(c.Temperature, c.Humidity)),
		}
	}
	return t
}

// Load reads the grass and foliage color maps from fsys and builds the built-in table
func Load(fsys fs.FS) (*Table, error) {
	grass, err := texture.LoadColorMap(fsys, "colormap/grass")
	if err != nil {
		return nil, fmt.Errorf("failed to load grass color map: %w", err)
	}
	foliage, err := texture.LoadColorMap(fsys, "colormap/foliage")
	if err != nil {
		return nil, fmt.Errorf("failed to load foliage color map: %w", err)
	}
	return NewTable(grass, foliage, Climates), nil
}

// Get returns the biome registered under id
func (t *Table) Get(id voxel.BiomeID) (*Biome, bool) {
	b := t.biomes[id]
	return b, b != nil
}

// Len returns the number of registered biomes
func (t *Table) Len() int {
	n := 0
	for _, b := range t.biomes {
		if b != nil {
			n++
		}
	}
	return n
}

func toVec4(c color.NRGBA) mgl32.Vec4 {
	return mgl32.Vec4{
		float32(c.R) / 255,
		float32(c.G) / 255,
		float32(c.B) / 255,
		float32(c.A) / 255,
	}
}
