// Package preview renders meshed chunk columns to a top-down map image.
package preview

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"math"
	"os"

	"github.com/HugoSmits86/nativewebp"
	"golang.org/x/image/draw"

	"github.com/leterax/blockmodels/pkg/voxel"
)

// ColorSource supplies the mean color of a texture
type ColorSource interface {
	AverageColor(id string) color.NRGBA
}

// Options controls the output image
type Options struct {
	// Scale is the edge length in pixels of one block
	Scale int
	// Smooth upscales with Catmull-Rom filtering instead of nearest neighbor
	Smooth bool
}

type cell struct {
	height float32
	color  color.NRGBA
	set    bool
}

// Render draws, for every block column, the highest horizontal face of the meshes, one
// pixel per block. Pixel 0,0 is the north-west corner of the lowest column coordinate.
func Render(cols []*voxel.ChunkColumn, colors ColorSource) *image.NRGBA {
	if len(cols) == 0 {
		return image.NewNRGBA(image.Rect(0, 0, 0, 0))
	}

	minX, minZ := cols[0].Coord.X, cols[0].Coord.Z
	maxX, maxZ := minX, minZ
	for _, col := range cols {
		minX, maxX = min(minX, col.Coord.X), max(maxX, col.Coord.X)
		minZ, maxZ = min(minZ, col.Coord.Z), max(maxZ, col.Coord.Z)
	}
	w := int(maxX-minX+1) * voxel.ChunkSize
	h := int(maxZ-minZ+1) * voxel.ChunkSize
	originX := float32(minX * voxel.ChunkSize)
	originZ := float32(minZ * voxel.ChunkSize)

	cells := make([]cell, w*h)
	for _, col := range cols {
		for _, quads := range col.Meshes {
			for _, q := range quads {
				y, ok := horizontal(q)
				if !ok {
					continue
				}
				c := shadeQuad(q, colors.AverageColor(q.Texture))
				if c.A == 0 {
					continue
				}
				x0, x1, z0, z1 := footprint(q)
				for z := z0; z < z1; z++ {
					for x := x0; x < x1; x++ {
						px, pz := x-int(originX), z-int(originZ)
						if px < 0 || pz < 0 || px >= w || pz >= h {
							continue
						}
						i := pz*w + px
						if !cells[i].set || y > cells[i].height {
							cells[i] = cell{height: y, color: c, set: true}
						}
					}
				}
			}
		}
	}

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i, c := range cells {
		if c.set {
			img.SetNRGBA(i%w, i/w, c.color)
		}
	}
	return img
}

// horizontal reports whether all vertices of q share one height
func horizontal(q voxel.Quad) (float32, bool) {
	y := q.Vertices[0].Position.Y()
	for _, v := range q.Vertices[1:] {
		if v.Position.Y() != y {
			return 0, false
		}
	}
	return y, true
}

// footprint returns the block cells a horizontal quad covers
func footprint(q voxel.Quad) (x0, x1, z0, z1 int) {
	minX, minZ := float32(math.Inf(1)), float32(math.Inf(1))
	maxX, maxZ := float32(math.Inf(-1)), float32(math.Inf(-1))
	for _, v := range q.Vertices {
		minX, maxX = min(minX, v.Position.X()), max(maxX, v.Position.X())
		minZ, maxZ = min(minZ, v.Position.Z()), max(maxZ, v.Position.Z())
	}
	x0, z0 = int(math.Floor(float64(minX))), int(math.Floor(float64(minZ)))
	x1, z1 = int(math.Ceil(float64(maxX))), int(math.Ceil(float64(maxZ)))
	return x0, max(x1, x0+1), z0, max(z1, z0+1)
}

// shadeQuad multiplies the texture color by the mean vertex color
func shadeQuad(q voxel.Quad, tex color.NRGBA) color.NRGBA {
	var r, g, b float32
	for _, v := range q.Vertices {
		r += v.Color.X()
		g += v.Color.Y()
		b += v.Color.Z()
	}
	return color.NRGBA{
		R: channel(float32(tex.R) * r / 4),
		G: channel(float32(tex.G) * g / 4),
		B: channel(float32(tex.B) * b / 4),
		A: tex.A,
	}
}

func channel(v float32) uint8 {
	return uint8(math.Round(float64(max(0, min(255, v)))))
}

// Scale enlarges img so each block covers opts.Scale pixels
func Scale(img *image.NRGBA, opts Options) *image.NRGBA {
	if opts.Scale <= 1 {
		return img
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx()*opts.Scale, b.Dy()*opts.Scale))
	scaler := draw.Interpolator(draw.NearestNeighbor)
	if opts.Smooth {
		scaler = draw.CatmullRom
	}
	scaler.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// Encode writes img as lossless WebP
func Encode(w io.Writer, img image.Image) error {
	if err := nativewebp.Encode(w, img, nil); err != nil {
		return fmt.Errorf("failed to encode preview: %w", err)
	}
	return nil
}

// WriteFile renders, scales and saves the preview of cols to path
func WriteFile(path string, cols []*voxel.ChunkColumn, colors ColorSource, opts Options) error {
	img := Scale(Render(cols, colors), opts)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create preview file: %w", err)
	}
	if err := Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
