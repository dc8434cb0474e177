package texture

import (
	"fmt"
	"image"
	"image/color"
	"io/fs"

	"github.com/leterax/blockmodels/pkg/assets"
)

// ColorMapSize is the required edge length of a biome color map
const ColorMapSize = 256

// ColorMap is a triangular temperature/humidity color ramp
type ColorMap struct {
	img *image.NRGBA
}

// NewColorMap wraps a 256x256 image
func NewColorMap(img *image.NRGBA) (*ColorMap, error) {
	b := img.Bounds()
	if b.Dx() != ColorMapSize || b.Dy() != ColorMapSize {
		return nil, fmt.Errorf("color map expected %dx%d, found %dx%d", ColorMapSize, ColorMapSize, b.Dx(), b.Dy())
	}
	return &ColorMap{img: img}, nil
}

// LoadColorMap reads a color map such as "colormap/grass"
func LoadColorMap(fsys fs.FS, id string) (*ColorMap, error) {
	img, err := Read(fsys, id)
	if err != nil {
		return nil, err
	}
	cm, err := NewColorMap(img)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", assets.ID(id), err)
	}
	return cm, nil
}

// At returns the color for a temperature and humidity, both clamped to 0..1. Humidity is
// scaled by temperature so lookups stay inside the lower triangle; the origin is the
// bottom-right corner.
func (c *ColorMap) At(temperature, humidity float32) color.NRGBA {
	t := clamp01(temperature)
	h := clamp01(humidity) * t

	x := int((1 - t) * 255)
	y := int((1 - h) * 255)
	b := c.img.Bounds()
	return c.img.NRGBAAt(b.Min.X+x, b.Min.Y+y)
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
