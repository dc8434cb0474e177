package texture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"io/fs"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/draw"
	"golang.org/x/image/webp"

	"github.com/leterax/blockmodels/pkg/assets"
)

// Extensions lists the texture file extensions tried, in order
var Extensions = []string{".png", ".webp", ".tga"}

// TGA has no magic number, so the decoder is picked by extension instead of sniffing.
var decoders = map[string]func(io.Reader) (image.Image, error){
	".png":  png.Decode,
	".webp": webp.Decode,
	".tga":  tga.Decode,
}

// ErrNotFound is returned when no file exists for a texture id under any extension
var ErrNotFound = errors.New("texture not found")

// Read finds and decodes the texture with the given id
func Read(fsys fs.FS, id string) (*image.NRGBA, error) {
	for _, ext := range Extensions {
		data, err := assets.ReadFile(fsys, assets.Textures, id, ext)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		img, err := Decode(data, ext)
		if err != nil {
			return nil, fmt.Errorf("texture: decode %s%s: %w", assets.ID(id), ext, err)
		}
		return img, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, assets.ID(id))
}

// Decode decodes PNG, WebP or TGA bytes, chosen by file extension, into an NRGBA image
func Decode(data []byte, ext string) (*image.NRGBA, error) {
	decode, ok := decoders[ext]
	if !ok {
		return nil, fmt.Errorf("unknown texture extension %q", ext)
	}
	img, err := decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return toNRGBA(img), nil
}

// toNRGBA converts any image to NRGBA format.
func toNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok {
		return n
	}
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}

// minAlpha returns the smallest alpha value of any texel, 0 for an empty image
func minAlpha(img *image.NRGBA) uint8 {
	b := img.Bounds()
	if b.Empty() {
		return 0
	}
	lowest := uint8(255)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if a := img.Pix[img.PixOffset(x, y)+3]; a < lowest {
				lowest = a
			}
		}
	}
	return lowest
}

// averageColor returns the alpha-weighted mean color of the image
func averageColor(img *image.NRGBA) color.NRGBA {
	b := img.Bounds()
	var r, g, bl, a, n uint64
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			i := img.PixOffset(x, y)
			alpha := uint64(img.Pix[i+3])
			r += uint64(img.Pix[i]) * alpha
			g += uint64(img.Pix[i+1]) * alpha
			bl += uint64(img.Pix[i+2]) * alpha
			a += alpha
			n++
		}
	}
	if a == 0 {
		return color.NRGBA{}
	}
	return color.NRGBA{R: uint8(r / a), G: uint8(g / a), B: uint8(bl / a), A: uint8(a / n)}
}
